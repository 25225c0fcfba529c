package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/repository"
)

// PaymentStore runs one transaction per payment. Satisfied by
// repository.PaymentRepo.
type PaymentStore interface {
	InTx(ctx context.Context, fn func(repository.PaymentTx) error) error
}

// Canonical 8-4-4-4-12 UUID shape. Anything else never reaches the store.
var paymentIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// CompletionService marks payout records as completed and keeps each
// beneficiary's lifetime total consistent. The same logic backs both the bot
// command and any other caller, so the idempotency rule cannot diverge.
type CompletionService struct {
	store        PaymentStore
	storeTimeout time.Duration
	now          func() time.Time
}

func NewCompletionService(store PaymentStore, storeTimeout time.Duration) *CompletionService {
	return &CompletionService{
		store:        store,
		storeTimeout: storeTimeout,
		now:          time.Now,
	}
}

// CompleteBatch processes each identifier independently, in input order, and
// never fails part-way: every identifier gets a disposition in the summary.
// The only rejected call is an empty batch. Identifiers are not deduplicated;
// a duplicate of an id completed earlier in the same batch reads the already
// committed completed status and reports already_completed, so the
// beneficiary is credited once.
func (s *CompletionService) CompleteBatch(ctx context.Context, paymentIDs []string) (domain.BatchSummary, error) {
	if len(paymentIDs) == 0 {
		return domain.BatchSummary{}, domain.ErrEmptyBatch
	}

	summary := domain.BatchSummary{Total: len(paymentIDs)}
	for _, raw := range paymentIDs {
		summary.Add(s.completeOne(ctx, raw))
	}
	return summary, nil
}

func (s *CompletionService) completeOne(ctx context.Context, raw string) domain.CompletionOutcome {
	if !paymentIDPattern.MatchString(raw) {
		return domain.CompletionOutcome{
			PaymentID:   raw,
			Disposition: domain.DispositionInvalidFormat,
			Detail:      "payment ids must be valid UUIDs",
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return domain.CompletionOutcome{
			PaymentID:   raw,
			Disposition: domain.DispositionInvalidFormat,
			Detail:      err.Error(),
		}
	}

	opCtx := ctx
	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	out := domain.CompletionOutcome{PaymentID: raw}
	err = s.store.InTx(opCtx, func(tx repository.PaymentTx) error {
		payment, err := tx.GetPaymentForUpdate(opCtx, id)
		if err != nil {
			return err
		}
		if payment.IsCompleted() {
			out.Disposition = domain.DispositionAlreadyCompleted
			return nil
		}

		processedAt := s.now().UTC()
		if err := tx.MarkPaymentCompleted(opCtx, id, processedAt); err != nil {
			return err
		}
		if err := tx.CreditBeneficiary(opCtx, payment.BeneficiaryID, payment.Amount); err != nil {
			return err
		}

		out.Disposition = domain.DispositionNewlyCompleted
		out.Amount = payment.Amount
		return nil
	})

	switch {
	case err == nil:
		return out
	case errors.Is(err, domain.ErrPaymentNotFound):
		return domain.CompletionOutcome{
			PaymentID:   raw,
			Disposition: domain.DispositionNotFound,
		}
	default:
		// One bad identifier must not abort the batch.
		slog.Error("complete payment", "payment_id", raw, "error", err)
		return domain.CompletionOutcome{
			PaymentID:   raw,
			Disposition: domain.DispositionStoreError,
			Detail:      err.Error(),
		}
	}
}
