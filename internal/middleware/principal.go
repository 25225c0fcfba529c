package middleware

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxKey string

const principalKey ctxKey = "principal"

// Principal identifies the operator behind an update. The numeric Telegram
// id is the only part authorization cares about; name and username are kept
// for replies and ops logs.
type Principal struct {
	TelegramID int64
	FirstName  string
	Username   string
}

// GetPrincipal extracts the principal from context, or nil when the update
// carried no sender.
func GetPrincipal(ctx context.Context) *Principal {
	p, ok := ctx.Value(principalKey).(*Principal)
	if !ok {
		return nil
	}
	return p
}

// PrincipalLoader returns middleware that resolves the sending user into a
// Principal on the context before any handler runs.
func PrincipalLoader() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from != nil {
				ctx = context.WithValue(ctx, principalKey, &Principal{
					TelegramID: from.ID,
					FirstName:  from.FirstName,
					Username:   from.Username,
				})
			}

			next(ctx, b, update)
		}
	}
}
