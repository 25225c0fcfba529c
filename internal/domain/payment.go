package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending      PaymentStatus = "pending"
	PaymentStatusProcessing   PaymentStatus = "processing"
	PaymentStatusCompleted    PaymentStatus = "completed"
	PaymentStatusFailed       PaymentStatus = "failed"
	PaymentStatusCancelled    PaymentStatus = "cancelled"
	PaymentStatusRetryPending PaymentStatus = "retry_pending"
	PaymentStatusUnclaimed    PaymentStatus = "unclaimed"
)

// Payment is a single cashout record. Status values other than "completed"
// are carried through opaquely; only the completed transition matters here.
type Payment struct {
	ID                  uuid.UUID
	BeneficiaryID       uuid.UUID
	Amount              decimal.Decimal
	PaypalEmail         string
	PaypalTransactionID *string
	Status              PaymentStatus
	Type                string
	TransferFee         decimal.Decimal
	NetAmount           decimal.Decimal
	ErrorMessage        *string
	ProcessedAt         *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}
