package service

import (
	"context"
	"time"

	"github.com/raterhub/payoutbot/internal/domain"
	"github.com/raterhub/payoutbot/internal/repository"
)

// ResetStore runs one transaction per reset. Satisfied by
// repository.BeneficiaryRepo.
type ResetStore interface {
	InTx(ctx context.Context, fn func(repository.ResetTx) error) error
}

// ResetService rolls back a beneficiary's most recent rating activity:
// earnings from their last N rated photos are subtracted, the ratings are
// deleted, the affected photos' aggregates are recomputed and the
// beneficiary is unblocked. Everything happens in one transaction.
type ResetService struct {
	store        ResetStore
	storeTimeout time.Duration
}

func NewResetService(store ResetStore, storeTimeout time.Duration) *ResetService {
	return &ResetService{store: store, storeTimeout: storeTimeout}
}

func (s *ResetService) ResetAndUnblock(ctx context.Context, email string, photoCount int) (domain.ResetReport, error) {
	if photoCount <= 0 {
		return domain.ResetReport{}, domain.ErrInvalidAmount
	}

	if s.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.storeTimeout)
		defer cancel()
	}

	var report domain.ResetReport
	err := s.store.InTx(ctx, func(tx repository.ResetTx) error {
		beneficiary, err := tx.GetBeneficiaryByEmail(ctx, email)
		if err != nil {
			return err
		}

		photoIDs, err := tx.RecentRatedPhotoIDs(ctx, beneficiary.ID, photoCount)
		if err != nil {
			return err
		}
		if len(photoIDs) == 0 {
			return domain.ErrNothingToReset
		}

		earnings, err := tx.SumRatingEarnings(ctx, beneficiary.ID, photoIDs)
		if err != nil {
			return err
		}

		if err := tx.ApplyReset(ctx, beneficiary.ID, earnings, len(photoIDs)); err != nil {
			return err
		}

		deleted, err := tx.DeleteRatings(ctx, beneficiary.ID, photoIDs)
		if err != nil {
			return err
		}

		for _, photoID := range photoIDs {
			if err := tx.RecalcPhotoStats(ctx, photoID); err != nil {
				return err
			}
		}

		report = domain.ResetReport{
			BeneficiaryID:      beneficiary.ID,
			Email:              beneficiary.Email,
			PhotosAffected:     len(photoIDs),
			EarningsSubtracted: earnings,
			RatingsDeleted:     deleted,
			AffectedPhotoIDs:   photoIDs,
		}
		return nil
	})
	if err != nil {
		return domain.ResetReport{}, err
	}
	return report, nil
}
