package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/raterhub/payoutbot/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		return
	}

	role := "User"
	switch {
	case h.registry.IsOwner(principal.TelegramID):
		role = "Owner"
	case h.registry.IsAuthorized(principal.TelegramID):
		role = "Admin"
	}

	name := principal.FirstName
	if name == "" {
		name = "there"
	}

	text := fmt.Sprintf(
		"👋 Welcome, %s!\n\nYour role: %s\nUser ID: %d\n\nAvailable commands:\n/help - Show help message",
		name, role, principal.TelegramID,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	principal := middleware.GetPrincipal(ctx)
	if principal == nil {
		return
	}

	if !h.registry.IsAuthorized(principal.TelegramID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "📚 Available Commands:\n\n/start - Start the bot\n/help - Show this help message",
		})
		return
	}

	text := "📚 Admin Commands:\n\n" +
		"/complete_payment <paymentIds>\n" +
		"  Complete one or more payments.\n" +
		"  Example: /complete_payment id-1 id-2 id-3\n\n" +
		"/reset_unblock <email> <photo_count>\n" +
		"  Reset the last N rated photos for a user, cancel their earnings and unblock them.\n" +
		"  Example: /reset_unblock rater@example.com 5\n\n" +
		"/add_admin <user_id>\n" +
		"  Grant payout access (owner only).\n\n" +
		"/remove_admin <user_id>\n" +
		"  Revoke payout access (owner only).\n\n" +
		"/list_admins\n" +
		"  List all admins (owner only)."

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   text,
	})
}
