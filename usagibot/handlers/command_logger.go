package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
)

// WrapWithLogging wraps a command handler with logging functionality
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		done := make(chan error, 1)
		go func() {
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)

			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.Duration("took", duration),
			}

			if err != nil {
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"),
				)...)
			} else if duration > 2*time.Second {
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", "slow"),
				)...)
			} else {
				slog.Info("Command completed", append(attrs,
					slog.String("status", "success"),
				)...)
			}
			return err

		case <-time.After(10 * time.Second):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.String("user_name", e.User().Username),
				slog.String("status", "timeout"),
			)
			return fmt.Errorf("command timed out after 10 seconds")
		}
	}
}
