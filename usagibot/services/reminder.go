package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/usagipet/usagibot/usagibot/database/repositories"
	"github.com/usagipet/usagibot/usagibot/game"
	"github.com/usagipet/usagibot/usagibot/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	reminderConcurrency = 4
	reminderMessage     = "まだ今日の人参を渡せてないぴょん…🥕\n「おはよう」って声をかけてくれたら嬉しいうさ！"
)

// ReminderService nudges users who have checked in before but not today.
// Best effort: a failed DM is logged and skipped, never retried.
type ReminderService struct {
	client   bot.Client
	profiles repositories.ProfileRepository
	engine   *game.Engine
	hour     int
	lastRun  string
}

func NewReminderService(profiles repositories.ProfileRepository, engine *game.Engine, hour int) *ReminderService {
	if hour <= 0 || hour > 23 {
		hour = 21
	}
	return &ReminderService{
		profiles: profiles,
		engine:   engine,
		hour:     hour,
	}
}

func (s *ReminderService) SetClient(client bot.Client) {
	s.client = client
}

// Start ticks every 10 minutes and runs one sweep per day once the
// configured hour is reached. Blocks until ctx is cancelled; run it in a
// goroutine.
func (s *ReminderService) Start(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			local := now.In(s.engine.Location())
			today := s.engine.Today(now)
			if local.Hour() < s.hour || s.lastRun == today {
				continue
			}
			s.lastRun = today
			if err := s.SweepOnce(ctx, now); err != nil {
				logger.LogError("Reminder sweep failed", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// SweepOnce DMs every user whose last check-in predates today's date.
func (s *ReminderService) SweepOnce(ctx context.Context, now time.Time) error {
	if s.client == nil {
		return nil
	}

	today := s.engine.Today(now)
	profiles, err := s.profiles.GetNotCheckedInSince(ctx, today)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		return nil
	}

	logger.LogSystem("Starting reminder sweep", slog.Int("profiles", len(profiles)))

	sem := semaphore.NewWeighted(reminderConcurrency)
	g, gctx := errgroup.WithContext(ctx)

	for _, profile := range profiles {
		profile := profile
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			s.sendReminder(profile.UserID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	logger.LogSystem("Reminder sweep completed", slog.Int("profiles", len(profiles)))
	return nil
}

func (s *ReminderService) sendReminder(userID string) {
	id, err := snowflake.Parse(userID)
	if err != nil {
		slog.Warn("Skipping reminder for non-snowflake user id",
			slog.String("user_id", userID))
		return
	}

	dmChannel, err := s.client.Rest().CreateDMChannel(id)
	if err != nil {
		slog.Debug("Failed to create reminder DM channel",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		return
	}

	if _, err = s.client.Rest().CreateMessage(dmChannel.ID(), discord.MessageCreate{
		Content: reminderMessage,
	}); err != nil {
		slog.Debug("Failed to send reminder DM (user may have DMs disabled)",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
	}
}
