package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/raterhub/payoutbot/internal/auth"
	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/middleware"
)

func (h *Handler) handleAddAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	targetID, ok := parseAdminTarget(update.Message.Text)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Please provide a numeric user ID.\nUsage: /add_admin <user_id>",
		})
		return
	}

	if h.registry.IsOwner(targetID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "⚠️ The owner is always authorized and cannot be listed as an admin.",
		})
		return
	}

	if !h.registry.AddDelegate(targetID) {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("⚠️ %d is already an admin.", targetID),
		})
		return
	}

	if principal := middleware.GetPrincipal(ctx); principal != nil {
		h.tgLogger.LogAdminChange(principal.TelegramID, "added", targetID)
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ %d has been added as an admin.", targetID),
	})
}

func (h *Handler) handleRemoveAdmin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	targetID, ok := parseAdminTarget(update.Message.Text)
	if !ok {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Please provide a numeric user ID.\nUsage: /remove_admin <user_id>",
		})
		return
	}

	removed, err := h.registry.RemoveDelegate(targetID)
	if err != nil {
		if errors.Is(err, domain.ErrOwnerImmutable) {
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ The owner cannot be removed.",
			})
			return
		}
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ An error occurred.",
		})
		return
	}
	if !removed {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("⚠️ %d is not an admin.", targetID),
		})
		return
	}

	if principal := middleware.GetPrincipal(ctx); principal != nil {
		h.tgLogger.LogAdminChange(principal.TelegramID, "removed", targetID)
	}
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   fmt.Sprintf("✅ %d has been removed from admins.", targetID),
	})
}

func (h *Handler) handleListAdmins(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	entries := h.registry.ListAll()

	var sb strings.Builder
	sb.WriteString("👥 Admin List:\n\n")
	for _, entry := range entries {
		switch entry.Role {
		case auth.RoleOwner:
			sb.WriteString(fmt.Sprintf("Owner: %d\n", entry.TelegramID))
		case auth.RoleDelegate:
			sb.WriteString(fmt.Sprintf("  • %d\n", entry.TelegramID))
		}
	}
	if len(entries) == 1 {
		sb.WriteString("\nNo admins added yet.")
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   sb.String(),
	})
}

// parseAdminTarget extracts the single numeric id argument of an admin
// management command.
func parseAdminTarget(text string) (int64, bool) {
	args := commandArgs(text)
	if len(args) != 1 {
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
