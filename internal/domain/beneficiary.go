package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Beneficiary is a rater who earns money and receives payouts.
// TotalPaidOut grows by each payment's amount exactly once, on the first
// transition of that payment into the completed status.
type Beneficiary struct {
	ID                        uuid.UUID
	Email                     string
	CurrentEarnings           decimal.Decimal
	LifetimeEarnings          decimal.Decimal
	TotalPaidOut              decimal.Decimal
	IsActive                  bool
	TotalPhotosRated          int
	PhotosRatedInCurrentBatch int
	RatingsInCurrentPeriod    int
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// ResetReport describes what a reset-and-unblock run changed.
type ResetReport struct {
	BeneficiaryID      uuid.UUID
	Email              string
	PhotosAffected     int
	EarningsSubtracted decimal.Decimal
	RatingsDeleted     int64
	AffectedPhotoIDs   []uuid.UUID
}
