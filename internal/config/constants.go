package config

import "time"

const (
	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Ops log send timeout
	OpsLogSendTimeout = 10 * time.Second

	// Photo ids shown inline in a reset report before truncating
	ResetReportPhotoPreview = 5
)
