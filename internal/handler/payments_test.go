package handler

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/raterhub/payoutbot/internal/config"
	"github.com/raterhub/payoutbot/internal/domain"
)

func TestFormatBatchSummary(t *testing.T) {
	var summary domain.BatchSummary
	summary.Total = 4
	summary.Add(domain.CompletionOutcome{
		PaymentID:   "aaaaaaaa-0000-0000-0000-000000000001",
		Disposition: domain.DispositionNewlyCompleted,
		Amount:      decimal.RequireFromString("100.00"),
	})
	summary.Add(domain.CompletionOutcome{
		PaymentID:   "aaaaaaaa-0000-0000-0000-000000000001",
		Disposition: domain.DispositionAlreadyCompleted,
	})
	summary.Add(domain.CompletionOutcome{
		PaymentID:   "aaaaaaaa-0000-0000-0000-000000000002",
		Disposition: domain.DispositionNotFound,
	})
	summary.Add(domain.CompletionOutcome{
		PaymentID:   "oops",
		Disposition: domain.DispositionInvalidFormat,
	})

	text := formatBatchSummary(summary)

	for _, want := range []string{
		"Processed 4 payment(s). 1 completed, 1 not found, 1 errors.",
		"• Total: 4",
		"• Completed: 1",
		"• Already completed: 1",
		"• Not found: 1",
		"• Errors: 1",
		"$100.00 credited",
		"was already completed",
		"not found",
		"invalid payment ID format",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q:\n%s", want, text)
		}
	}

	// Detail lines preserve input order.
	first := strings.Index(text, "$100.00 credited")
	second := strings.Index(text, "was already completed")
	third := strings.Index(text, "invalid payment ID format")
	if !(first < second && second < third) {
		t.Error("detail lines out of input order")
	}
}

func TestTruncateReply(t *testing.T) {
	short := "✅ Processed 1 payment(s)."
	if got := truncateReply(short); got != short {
		t.Errorf("short reply must pass through unchanged, got %q", got)
	}

	// A big batch renders one line per identifier and can outgrow the
	// Telegram message limit.
	var summary domain.BatchSummary
	for i := 0; i < 200; i++ {
		summary.Total++
		summary.Add(domain.CompletionOutcome{
			PaymentID:   "aaaaaaaa-0000-0000-0000-000000000001",
			Disposition: domain.DispositionNewlyCompleted,
			Amount:      decimal.RequireFromString("100.00"),
		})
	}
	long := formatBatchSummary(summary)
	if len([]rune(long)) <= config.MaxTelegramMessageLen {
		t.Fatalf("test batch did not exceed the limit: %d runes", len([]rune(long)))
	}

	truncated := truncateReply(long)
	if len([]rune(truncated)) > config.MaxTelegramMessageLen {
		t.Errorf("truncated reply still exceeds the limit: %d runes", len([]rune(truncated)))
	}
	if !strings.HasSuffix(truncated, "... (truncated)") {
		t.Errorf("truncated reply missing marker: %q", truncated[len(truncated)-40:])
	}
}

func TestFormatBatchSummary_StoreErrorDetail(t *testing.T) {
	var summary domain.BatchSummary
	summary.Total = 1
	summary.Add(domain.CompletionOutcome{
		PaymentID:   "aaaaaaaa-0000-0000-0000-000000000003",
		Disposition: domain.DispositionStoreError,
		Detail:      "connection refused",
	})

	text := formatBatchSummary(summary)
	if !strings.Contains(text, "error: connection refused") {
		t.Errorf("store error detail missing:\n%s", text)
	}
}
