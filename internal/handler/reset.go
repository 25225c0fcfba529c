package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/raterhub/payoutbot/internal/config"
	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/middleware"
)

func (h *Handler) handleResetUnblock(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 2 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: "❌ Please provide user email and check amount.\n" +
				"Usage: /reset_unblock <user_email> <check_amount>\n" +
				"Example: /reset_unblock rater@example.com 5",
		})
		return
	}

	email := args[0]
	photoCount, err := strconv.Atoi(args[1])
	if err != nil || photoCount <= 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Invalid check_amount. Please provide a positive integer.",
		})
		return
	}

	report, err := h.reset.ResetAndUnblock(ctx, email, photoCount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBeneficiaryNotFound):
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("❌ User not found with email: %s", email),
			})
		case errors.Is(err, domain.ErrNothingToReset):
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   fmt.Sprintf("⚠️ No ratings found for user %s. Nothing to reset.", email),
			})
		default:
			slog.Error("reset unblock", "email", email, "error", err)
			b.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ An error occurred while resetting user.",
			})
		}
		return
	}

	if principal := middleware.GetPrincipal(ctx); principal != nil {
		h.tgLogger.LogReset(principal.TelegramID, report)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   formatResetReport(report),
	})
}

func formatResetReport(r domain.ResetReport) string {
	var sb strings.Builder
	sb.WriteString("✅ Reset and unblocked user successfully!\n\n")
	sb.WriteString(fmt.Sprintf("User: %s\n", r.Email))
	sb.WriteString(fmt.Sprintf("User ID: %s\n", r.BeneficiaryID))
	sb.WriteString(fmt.Sprintf("Photos affected: %d\n", r.PhotosAffected))
	sb.WriteString(fmt.Sprintf("Earnings subtracted: $%s\n", r.EarningsSubtracted.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("Ratings deleted: %d\n", r.RatingsDeleted))

	preview := r.AffectedPhotoIDs
	more := 0
	if len(preview) > config.ResetReportPhotoPreview {
		more = len(preview) - config.ResetReportPhotoPreview
		preview = preview[:config.ResetReportPhotoPreview]
	}
	ids := make([]string, len(preview))
	for i, id := range preview {
		ids[i] = id.String()
	}
	sb.WriteString(fmt.Sprintf("Affected photo IDs: %s", strings.Join(ids, ", ")))
	if more > 0 {
		sb.WriteString(fmt.Sprintf(" ... and %d more", more))
	}
	return sb.String()
}
