package handler

import (
	"github.com/go-telegram/bot"

	"github.com/raterhub/payoutbot/internal/auth"
	"github.com/raterhub/payoutbot/internal/service"
	"github.com/raterhub/payoutbot/internal/telegram"
)

// Handler holds all dependencies needed by command handlers.
type Handler struct {
	bot        *bot.Bot
	registry   *auth.Registry
	completion *service.CompletionService
	reset      *service.ResetService
	tgLogger   *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot        *bot.Bot
	Registry   *auth.Registry
	Completion *service.CompletionService
	Reset      *service.ResetService
	TgLogger   *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:        deps.Bot,
		registry:   deps.Registry,
		completion: deps.Completion,
		reset:      deps.Reset,
		tgLogger:   deps.TgLogger,
	}
}
