package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// PanicReporter receives panics that were recovered in handlers.
type PanicReporter interface {
	LogError(err error, context string)
}

// Recover returns middleware that recovers from handler panics and forwards
// them to the reporter when one is configured.
func Recover(reporter PanicReporter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic recovered in handler",
						"panic", r,
						"stack", string(debug.Stack()),
					)
					if reporter != nil {
						reporter.LogError(fmt.Errorf("panic: %v", r), "handler")
					}
				}
			}()
			next(ctx, b, update)
		}
	}
}
