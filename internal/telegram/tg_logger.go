package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"

	"github.com/raterhub/payoutbot/internal/config"
	"github.com/raterhub/payoutbot/internal/domain"
)

// TelegramLogger mirrors notable bot events into an ops chat. It is a no-op
// when LOG_TELEGRAM_CHAT_ID is unset.
type TelegramLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewTelegramLogger(b *bot.Bot, cfg *config.Config) *TelegramLogger {
	return &TelegramLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError  LogType = "error"
	LogTypePayout LogType = "payout"
	LogTypeAdmin  LogType = "admin"
	LogTypeReset  LogType = "reset"
)

func (l *TelegramLogger) Log(logType LogType, message string) {
	if l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	if len([]rune(message)) > config.MaxTelegramMessageLen {
		message = string([]rune(message)[:config.MaxTelegramMessageLen-20]) + "\n\n... (truncated)"
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.OpsLogSendTimeout)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       "Markdown",
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *TelegramLogger) LogError(err error, context string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Error:* `%s`\n*Time:* %s",
		context, err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *TelegramLogger) LogPayoutBatch(operatorID int64, summary domain.BatchSummary) {
	msg := fmt.Sprintf("💸 *Payout Batch*\n\n*Operator:* `%d`\n*Total:* %d\n*Completed:* %d\n*Already completed:* %d\n*Not found:* %d\n*Errors:* %d",
		operatorID, summary.Total, summary.NewlyCompleted, summary.AlreadyCompleted,
		summary.NotFound, summary.InvalidFormat+summary.StoreErrors)
	l.Log(LogTypePayout, msg)
}

func (l *TelegramLogger) LogAdminChange(operatorID int64, action string, targetID int64) {
	msg := fmt.Sprintf("👥 *Admin Change*\n\n*Owner:* `%d`\n*Action:* %s\n*Target:* `%d`",
		operatorID, action, targetID)
	l.Log(LogTypeAdmin, msg)
}

func (l *TelegramLogger) LogReset(operatorID int64, report domain.ResetReport) {
	msg := fmt.Sprintf("🔄 *Reset & Unblock*\n\n*Operator:* `%d`\n*Beneficiary:* %s\n*Photos:* %d\n*Earnings subtracted:* $%s\n*Ratings deleted:* %d",
		operatorID, report.Email, report.PhotosAffected,
		report.EarningsSubtracted.StringFixed(2), report.RatingsDeleted)
	l.Log(LogTypeReset, msg)
}

func (l *TelegramLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypePayout:
		return l.cfg.LogTopicPayout
	case LogTypeAdmin:
		return l.cfg.LogTopicAdmin
	case LogTypeReset:
		return l.cfg.LogTopicReset
	default:
		return 0
	}
}
