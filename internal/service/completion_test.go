package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/repository"
)

// mockPaymentStore implements both PaymentStore and repository.PaymentTx.
// Every InTx call hands the mock itself to fn, so the test observes exactly
// the calls the service makes.
type mockPaymentStore struct {
	payments map[uuid.UUID]*domain.Payment
	credits  map[uuid.UUID]decimal.Decimal
	failGet  map[uuid.UUID]error
	txCount  int
}

func newMockPaymentStore() *mockPaymentStore {
	return &mockPaymentStore{
		payments: make(map[uuid.UUID]*domain.Payment),
		credits:  make(map[uuid.UUID]decimal.Decimal),
		failGet:  make(map[uuid.UUID]error),
	}
}

func (m *mockPaymentStore) addPending(amount string) *domain.Payment {
	p := &domain.Payment{
		ID:            uuid.New(),
		BeneficiaryID: uuid.New(),
		Amount:        decimal.RequireFromString(amount),
		Status:        domain.PaymentStatusPending,
	}
	m.payments[p.ID] = p
	return p
}

func (m *mockPaymentStore) InTx(ctx context.Context, fn func(repository.PaymentTx) error) error {
	m.txCount++
	return fn(m)
}

func (m *mockPaymentStore) GetPaymentForUpdate(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	if err, ok := m.failGet[id]; ok {
		return nil, err
	}
	p, ok := m.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPaymentStore) MarkPaymentCompleted(ctx context.Context, id uuid.UUID, processedAt time.Time) error {
	p, ok := m.payments[id]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	p.Status = domain.PaymentStatusCompleted
	at := processedAt
	p.ProcessedAt = &at
	return nil
}

func (m *mockPaymentStore) CreditBeneficiary(ctx context.Context, beneficiaryID uuid.UUID, amount decimal.Decimal) error {
	m.credits[beneficiaryID] = m.credits[beneficiaryID].Add(amount)
	return nil
}

func TestCompleteBatch_NewlyCompleted(t *testing.T) {
	store := newMockPaymentStore()
	p := store.addPending("100.00")
	svc := NewCompletionService(store, 0)

	summary, err := svc.CompleteBatch(context.Background(), []string{p.ID.String()})
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.Total != 1 || summary.NewlyCompleted != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	out := summary.Outcomes[0]
	if out.Disposition != domain.DispositionNewlyCompleted {
		t.Errorf("expected newly completed, got %s", out.Disposition)
	}
	if !out.Amount.Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("expected amount 100.00, got %s", out.Amount)
	}
	if !store.credits[p.BeneficiaryID].Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("beneficiary credited %s, want 100.00", store.credits[p.BeneficiaryID])
	}
	if store.payments[p.ID].ProcessedAt == nil {
		t.Error("processed_at not set")
	}
}

func TestCompleteBatch_DuplicateInBatchCreditsOnce(t *testing.T) {
	store := newMockPaymentStore()
	p := store.addPending("100.00")
	svc := NewCompletionService(store, 0)

	id := p.ID.String()
	summary, err := svc.CompleteBatch(context.Background(), []string{id, id})
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.NewlyCompleted != 1 || summary.AlreadyCompleted != 1 {
		t.Errorf("expected one newly and one already completed, got %+v", summary)
	}
	if summary.Outcomes[0].Disposition != domain.DispositionNewlyCompleted {
		t.Errorf("first outcome: %s", summary.Outcomes[0].Disposition)
	}
	if summary.Outcomes[1].Disposition != domain.DispositionAlreadyCompleted {
		t.Errorf("second outcome: %s", summary.Outcomes[1].Disposition)
	}
	if !summary.Outcomes[1].Amount.IsZero() {
		t.Error("already completed outcome must not carry an amount")
	}
	if !store.credits[p.BeneficiaryID].Equal(decimal.RequireFromString("100.00")) {
		t.Errorf("beneficiary credited %s, want exactly 100.00", store.credits[p.BeneficiaryID])
	}
}

func TestCompleteBatch_IdempotentAcrossBatches(t *testing.T) {
	store := newMockPaymentStore()
	p := store.addPending("25.50")
	svc := NewCompletionService(store, 0)

	ctx := context.Background()
	if _, err := svc.CompleteBatch(ctx, []string{p.ID.String()}); err != nil {
		t.Fatalf("first batch: %v", err)
	}
	summary, err := svc.CompleteBatch(ctx, []string{p.ID.String()})
	if err != nil {
		t.Fatalf("second batch: %v", err)
	}

	if summary.Outcomes[0].Disposition != domain.DispositionAlreadyCompleted {
		t.Errorf("expected already completed, got %s", summary.Outcomes[0].Disposition)
	}
	if !store.credits[p.BeneficiaryID].Equal(decimal.RequireFromString("25.50")) {
		t.Errorf("total credited %s, want 25.50", store.credits[p.BeneficiaryID])
	}
}

func TestCompleteBatch_InvalidFormatNeverTouchesStore(t *testing.T) {
	store := newMockPaymentStore()
	svc := NewCompletionService(store, 0)

	summary, err := svc.CompleteBatch(context.Background(), []string{"not-a-uuid"})
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.InvalidFormat != 1 {
		t.Errorf("expected one invalid format outcome, got %+v", summary)
	}
	if store.txCount != 0 {
		t.Errorf("store accessed %d times for a malformed id", store.txCount)
	}
}

func TestCompleteBatch_NotFound(t *testing.T) {
	store := newMockPaymentStore()
	svc := NewCompletionService(store, 0)

	summary, err := svc.CompleteBatch(context.Background(), []string{uuid.NewString()})
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}
	if summary.NotFound != 1 {
		t.Errorf("expected one not found outcome, got %+v", summary)
	}
}

func TestCompleteBatch_PartialFailureIsolation(t *testing.T) {
	store := newMockPaymentStore()
	a := store.addPending("10.00")
	c := store.addPending("20.00")
	svc := NewCompletionService(store, 0)

	ids := []string{a.ID.String(), "bad-id", c.ID.String()}
	summary, err := svc.CompleteBatch(context.Background(), ids)
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.NewlyCompleted != 2 || summary.InvalidFormat != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	for i, id := range ids {
		if summary.Outcomes[i].PaymentID != id {
			t.Errorf("outcome %d out of order: expected %s, got %s", i, id, summary.Outcomes[i].PaymentID)
		}
	}
	if summary.Outcomes[1].Disposition != domain.DispositionInvalidFormat {
		t.Errorf("middle outcome: %s", summary.Outcomes[1].Disposition)
	}
}

func TestCompleteBatch_StoreErrorDoesNotAbortBatch(t *testing.T) {
	store := newMockPaymentStore()
	broken := store.addPending("5.00")
	store.failGet[broken.ID] = errors.New("connection refused")
	ok := store.addPending("7.00")
	svc := NewCompletionService(store, 0)

	summary, err := svc.CompleteBatch(context.Background(), []string{broken.ID.String(), ok.ID.String()})
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.StoreErrors != 1 || summary.NewlyCompleted != 1 {
		t.Errorf("unexpected counts: %+v", summary)
	}
	if summary.Outcomes[0].Detail == "" {
		t.Error("store error outcome should carry a detail")
	}
	if !store.credits[ok.BeneficiaryID].Equal(decimal.RequireFromString("7.00")) {
		t.Errorf("healthy payment not credited: %s", store.credits[ok.BeneficiaryID])
	}
}

// slowPaymentStore blocks every transaction until the per-identifier
// context expires.
type slowPaymentStore struct {
	txCount int
}

func (s *slowPaymentStore) InTx(ctx context.Context, fn func(repository.PaymentTx) error) error {
	s.txCount++
	<-ctx.Done()
	return ctx.Err()
}

func TestCompleteBatch_StoreTimeoutYieldsStoreError(t *testing.T) {
	store := &slowPaymentStore{}
	svc := NewCompletionService(store, 10*time.Millisecond)

	summary, err := svc.CompleteBatch(context.Background(), []string{"3f1e8a60-1b6f-4d5e-9c2a-7a8b9c0d1e2f"})
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.StoreErrors != 1 {
		t.Errorf("expected one store error, got %+v", summary)
	}
	out := summary.Outcomes[0]
	if out.Disposition != domain.DispositionStoreError {
		t.Errorf("expected store error disposition, got %s", out.Disposition)
	}
	if out.Detail == "" {
		t.Error("timed-out outcome should carry a detail")
	}
	if store.txCount != 1 {
		t.Errorf("expected a single store attempt, got %d", store.txCount)
	}
}

func TestCompleteBatch_TimeoutDoesNotAbortBatch(t *testing.T) {
	store := &slowPaymentStore{}
	svc := NewCompletionService(store, 10*time.Millisecond)

	ids := []string{
		"3f1e8a60-1b6f-4d5e-9c2a-7a8b9c0d1e2f",
		"3f1e8a60-1b6f-4d5e-9c2a-7a8b9c0d1e30",
	}
	summary, err := svc.CompleteBatch(context.Background(), ids)
	if err != nil {
		t.Fatalf("CompleteBatch failed: %v", err)
	}

	if summary.StoreErrors != 2 {
		t.Errorf("expected both identifiers to report store errors, got %+v", summary)
	}
	for i, id := range ids {
		if summary.Outcomes[i].PaymentID != id {
			t.Errorf("outcome %d out of order: expected %s, got %s", i, id, summary.Outcomes[i].PaymentID)
		}
	}
}

func TestCompleteBatch_EmptyBatchRejected(t *testing.T) {
	store := newMockPaymentStore()
	svc := NewCompletionService(store, 0)

	_, err := svc.CompleteBatch(context.Background(), nil)
	if !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if store.txCount != 0 {
		t.Error("empty batch must not reach the store")
	}
}
