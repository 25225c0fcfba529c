package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/raterhub/payoutbot/internal/config"
	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/middleware"
)

func (h *Handler) handleCompletePayment(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	paymentIDs := commandArgs(update.Message.Text)
	if len(paymentIDs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: "❌ Please provide payment IDs.\n" +
				"Usage: /complete_payment <paymentId1> [paymentId2] ...\n" +
				"Example: /complete_payment 3f1e8a60-1b6f-4d5e-9c2a-7a8b9c0d1e2f",
		})
		return
	}

	summary, err := h.completion.CompleteBatch(ctx, paymentIDs)
	if err != nil {
		slog.Error("complete batch", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ An error occurred while processing payments.",
		})
		return
	}

	if principal := middleware.GetPrincipal(ctx); principal != nil {
		h.tgLogger.LogPayoutBatch(principal.TelegramID, summary)
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   truncateReply(formatBatchSummary(summary)),
	})
	if err != nil {
		slog.Error("send batch summary", "chat_id", chatID, "error", err)
	}
}

// truncateReply keeps a reply inside Telegram's message size limit so a
// large batch never makes SendMessage reject the whole summary.
func truncateReply(text string) string {
	runes := []rune(text)
	if len(runes) <= config.MaxTelegramMessageLen {
		return text
	}
	return string(runes[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
}

// formatBatchSummary renders the header counts followed by one line per
// requested identifier, in input order.
func formatBatchSummary(s domain.BatchSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("✅ Processed %d payment(s). %d completed, %d not found, %d errors.\n\n",
		s.Total, s.NewlyCompleted, s.NotFound, s.InvalidFormat+s.StoreErrors))
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  • Total: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("  • Completed: %d\n", s.NewlyCompleted))
	sb.WriteString(fmt.Sprintf("  • Already completed: %d\n", s.AlreadyCompleted))
	sb.WriteString(fmt.Sprintf("  • Not found: %d\n", s.NotFound))
	sb.WriteString(fmt.Sprintf("  • Errors: %d\n", s.InvalidFormat+s.StoreErrors))

	sb.WriteString("\nDetails:\n")
	for _, o := range s.Outcomes {
		switch o.Disposition {
		case domain.DispositionNewlyCompleted:
			sb.WriteString(fmt.Sprintf("  ✅ %s - completed, $%s credited\n", o.PaymentID, o.Amount.StringFixed(2)))
		case domain.DispositionAlreadyCompleted:
			sb.WriteString(fmt.Sprintf("  ✅ %s - was already completed\n", o.PaymentID))
		case domain.DispositionNotFound:
			sb.WriteString(fmt.Sprintf("  ⚠️ %s - not found\n", o.PaymentID))
		case domain.DispositionInvalidFormat:
			sb.WriteString(fmt.Sprintf("  ❌ %s - invalid payment ID format\n", o.PaymentID))
		case domain.DispositionStoreError:
			detail := o.Detail
			if detail == "" {
				detail = "unknown"
			}
			sb.WriteString(fmt.Sprintf("  ❌ %s - error: %s\n", o.PaymentID, detail))
		}
	}
	return sb.String()
}
