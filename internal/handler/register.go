package handler

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/raterhub/payoutbot/internal/auth"
	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/middleware"
)

type tier int

const (
	tierAny tier = iota
	tierAuthorized
	tierOwner
)

// Register registers every command with its required privilege tier. The
// tier is checked once in the gate, before the handler runs; handlers and
// services never re-check permissions.
func (h *Handler) Register() {
	commands := []struct {
		pattern string
		tier    tier
		fn      bot.HandlerFunc
	}{
		{"/start", tierAny, h.handleStart},
		{"/help", tierAny, h.handleHelp},
		{"/complete_payment", tierAuthorized, h.handleCompletePayment},
		{"/reset_unblock", tierAuthorized, h.handleResetUnblock},
		{"/add_admin", tierOwner, h.handleAddAdmin},
		{"/remove_admin", tierOwner, h.handleRemoveAdmin},
		{"/list_admins", tierOwner, h.handleListAdmins},
	}

	for _, c := range commands {
		h.bot.RegisterHandler(bot.HandlerTypeMessageText, c.pattern, bot.MatchTypePrefix, h.gate(c.tier, c.fn))
	}
}

// authorize is the single permission decision for a command invocation.
func authorize(registry *auth.Registry, required tier, telegramID int64) error {
	switch required {
	case tierAuthorized:
		if !registry.IsAuthorized(telegramID) {
			return domain.ErrPermissionDenied
		}
	case tierOwner:
		if !registry.IsOwner(telegramID) {
			return domain.ErrPermissionDenied
		}
	}
	return nil
}

func (h *Handler) gate(required tier, next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, b *bot.Bot, update *models.Update) {
		if update.Message == nil {
			return
		}
		principal := middleware.GetPrincipal(ctx)
		if principal == nil {
			return
		}

		if err := authorize(h.registry, required, principal.TelegramID); err != nil {
			text := "❌ Access denied. Admin privileges required."
			if required == tierOwner {
				text = "❌ Access denied. Owner privileges required."
			}
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: update.Message.Chat.ID,
				Text:   text,
			})
			return
		}

		next(ctx, b, update)
	}
}

// commandArgs returns the whitespace-delimited arguments after the command.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) <= 1 {
		return nil
	}
	return fields[1:]
}
