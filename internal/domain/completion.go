package domain

import "github.com/shopspring/decimal"

// Disposition is the per-identifier outcome of a completion attempt.
type Disposition string

const (
	DispositionNewlyCompleted   Disposition = "newly_completed"
	DispositionAlreadyCompleted Disposition = "already_completed"
	DispositionNotFound         Disposition = "not_found"
	DispositionInvalidFormat    Disposition = "invalid_format"
	DispositionStoreError       Disposition = "store_error"
)

// CompletionOutcome records what happened to one requested identifier.
// Amount is set only for newly completed payments.
type CompletionOutcome struct {
	PaymentID   string
	Disposition Disposition
	Amount      decimal.Decimal
	Detail      string
}

// BatchSummary aggregates one CompleteBatch call. Outcomes preserve the
// input order, including duplicates.
type BatchSummary struct {
	Total            int
	NewlyCompleted   int
	AlreadyCompleted int
	NotFound         int
	InvalidFormat    int
	StoreErrors      int
	Outcomes         []CompletionOutcome
}

// Add appends an outcome and bumps the matching counter.
func (s *BatchSummary) Add(o CompletionOutcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Disposition {
	case DispositionNewlyCompleted:
		s.NewlyCompleted++
	case DispositionAlreadyCompleted:
		s.AlreadyCompleted++
	case DispositionNotFound:
		s.NotFound++
	case DispositionInvalidFormat:
		s.InvalidFormat++
	case DispositionStoreError:
		s.StoreErrors++
	}
}
