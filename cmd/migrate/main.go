package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/usagipet/usagibot/usagibot"
	"github.com/usagipet/usagibot/usagibot/database"
	"github.com/usagipet/usagibot/usagibot/logger"
	"github.com/usagipet/usagibot/usagibot/migration"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// One-shot import of the previous bot's profile documents into Postgres.
// Reads either a live Mongo deployment or a BSON dump directory, whichever
// the config points at.
func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	path := flag.String("config", "config.toml", "path to config")
	fromDump := flag.Bool("from-dump", false, "import from a BSON dump directory instead of a live Mongo instance")
	flag.Parse()

	cfg, err := usagibot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed", slog.Any("error", err))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}

	migrator := migration.NewMigrator(db.BunDB())
	if cfg.Legacy.Collection != "" {
		migrator.SetCollectionName(cfg.Legacy.Collection)
	}

	if *fromDump {
		if cfg.Legacy.DumpDir == "" {
			slog.Error("No dump directory configured", slog.String("key", "legacy.dump_dir"))
			os.Exit(-1)
		}
		collection := cfg.Legacy.Collection
		if collection == "" {
			collection = "rabbit_gamers"
		}
		dump := filepath.Join(cfg.Legacy.DumpDir, collection+".bson")
		if err := migrator.MigrateFromDump(ctx, dump); err != nil {
			slog.Error("Dump import failed", slog.Any("error", err))
			os.Exit(-1)
		}
		return
	}

	if cfg.Legacy.MongoURI == "" {
		slog.Error("No Mongo URI configured", slog.String("key", "legacy.mongo_uri"))
		os.Exit(-1)
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Legacy.MongoURI))
	if err != nil {
		slog.Error("Mongo connection failed", slog.Any("error", err))
		os.Exit(-1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			slog.Error("Mongo disconnect failed", slog.Any("error", err))
		}
	}()

	migrator.UseMongo(client, cfg.Legacy.MongoDB)
	if err := migrator.MigrateFromMongo(ctx); err != nil {
		slog.Error("Mongo import failed", slog.Any("error", err))
		os.Exit(-1)
	}
}
