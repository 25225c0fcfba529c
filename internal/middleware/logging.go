package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Logging returns middleware that logs how long each update took, tagged
// with the command name when the update is a command message.
func Logging() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			start := time.Now()

			command := ""
			var chatID, userID int64
			if update.Message != nil {
				chatID = update.Message.Chat.ID
				if update.Message.From != nil {
					userID = update.Message.From.ID
				}
				if strings.HasPrefix(update.Message.Text, "/") {
					command = strings.Fields(update.Message.Text)[0]
				}
			}

			next(ctx, b, update)

			slog.Debug("update processed",
				"command", command,
				"chat_id", chatID,
				"user_id", userID,
				"duration", time.Since(start),
			)
		}
	}
}
