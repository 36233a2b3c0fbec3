package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/commands"
	"github.com/usagipet/usagibot/usagibot/database"
	"github.com/usagipet/usagibot/usagibot/database/repositories"
	"github.com/usagipet/usagibot/usagibot/game"
	"github.com/usagipet/usagibot/usagibot/handlers"
	"github.com/usagipet/usagibot/usagibot/logger"
	"github.com/usagipet/usagibot/usagibot/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Usagi Discord Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := usagibot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	timezone := cfg.Game.Timezone
	if timezone == "" {
		timezone = "Asia/Tokyo"
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		slog.Error("Invalid timezone in configuration",
			slog.String("timezone", timezone),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	dbConfig := database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	}

	db, err := database.New(ctx, dbConfig)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	slog.Info("Initializing database schema...")
	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	defer db.Close()

	b := usagibot.New(*cfg, version, commit)
	b.DB = db
	b.ProfileRepository = repositories.NewProfileRepository(db.BunDB())
	b.Engine = game.NewEngine(loc)

	persona, err := services.NewPersonaService(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		slog.Error("Failed to initialize persona service", slog.Any("error", err))
		os.Exit(-1)
	}
	b.Persona = persona

	b.Images = services.NewImageService(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.ImageRoot,
	)
	go func() {
		verifyCtx, verifyCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer verifyCancel()
		if missing := b.Images.VerifyAssets(verifyCtx); len(missing) > 0 {
			slog.Warn("Missing image assets in Spaces bucket",
				slog.String("type", "sys"),
				slog.Any("keys", missing))
		}
	}()

	b.MemberCard = services.NewMemberCardService(b.Images)
	b.Reminder = services.NewReminderService(b.ProfileRepository, b.Engine, cfg.Game.ReminderHour)

	h := handler.New()

	h.Command("/version", commands.VersionHandler(b))
	h.Command("/checkin", handlers.WrapWithLogging("checkin", commands.CheckInHandler(b)))
	h.Command("/shop", handlers.WrapWithLogging("shop", commands.ShopHandler(b)))
	h.Command("/buy", handlers.WrapWithLogging("buy", commands.BuyHandler(b)))
	h.Autocomplete("/buy", commands.BuyAutocomplete(b))
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Command("/moon", handlers.WrapWithLogging("moon", commands.MoonHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
		)
		os.Exit(-1)
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	b.Reminder.SetClient(b.Client)

	reminderCtx, reminderCancel := context.WithCancel(context.Background())
	defer reminderCancel()
	go b.Reminder.Start(reminderCtx)

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
