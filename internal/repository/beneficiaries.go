package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/raterhub/payoutbot/internal/domain"
)

// ResetTx is the unit-of-work surface for resetting a beneficiary's recent
// rating activity and unblocking them.
type ResetTx interface {
	GetBeneficiaryByEmail(ctx context.Context, email string) (*domain.Beneficiary, error)
	RecentRatedPhotoIDs(ctx context.Context, beneficiaryID uuid.UUID, limit int) ([]uuid.UUID, error)
	SumRatingEarnings(ctx context.Context, beneficiaryID uuid.UUID, photoIDs []uuid.UUID) (decimal.Decimal, error)
	ApplyReset(ctx context.Context, beneficiaryID uuid.UUID, earnings decimal.Decimal, photoCount int) error
	DeleteRatings(ctx context.Context, beneficiaryID uuid.UUID, photoIDs []uuid.UUID) (int64, error)
	RecalcPhotoStats(ctx context.Context, photoID uuid.UUID) error
}

// BeneficiaryRepo executes reset-and-unblock transactions against Postgres.
type BeneficiaryRepo struct {
	pool *pgxpool.Pool
}

func NewBeneficiaryRepo(pool *pgxpool.Pool) *BeneficiaryRepo {
	return &BeneficiaryRepo{pool: pool}
}

func (r *BeneficiaryRepo) InTx(ctx context.Context, fn func(ResetTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&resetTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type resetTx struct {
	tx pgx.Tx
}

func (t *resetTx) GetBeneficiaryByEmail(ctx context.Context, email string) (*domain.Beneficiary, error) {
	row := t.tx.QueryRow(ctx, `
		SELECT id, email, current_earnings::text, lifetime_earnings::text,
		       total_paid_out::text, is_active, total_photos_rated,
		       photos_rated_in_current_batch, ratings_in_current_period,
		       created_at, updated_at
		FROM beneficiaries
		WHERE email = $1
		FOR UPDATE`, email)

	var (
		b                      domain.Beneficiary
		current, lifetime, out string
	)
	err := row.Scan(
		&b.ID, &b.Email, &current, &lifetime, &out, &b.IsActive,
		&b.TotalPhotosRated, &b.PhotosRatedInCurrentBatch, &b.RatingsInCurrentPeriod,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBeneficiaryNotFound
		}
		return nil, fmt.Errorf("get beneficiary: %w", err)
	}

	if b.CurrentEarnings, err = decimal.NewFromString(current); err != nil {
		return nil, fmt.Errorf("parse current earnings: %w", err)
	}
	if b.LifetimeEarnings, err = decimal.NewFromString(lifetime); err != nil {
		return nil, fmt.Errorf("parse lifetime earnings: %w", err)
	}
	if b.TotalPaidOut, err = decimal.NewFromString(out); err != nil {
		return nil, fmt.Errorf("parse total paid out: %w", err)
	}
	return &b, nil
}

func (t *resetTx) RecentRatedPhotoIDs(ctx context.Context, beneficiaryID uuid.UUID, limit int) ([]uuid.UUID, error) {
	rows, err := t.tx.Query(ctx, `
		SELECT photo_id
		FROM ratings
		WHERE beneficiary_id = $1
		GROUP BY photo_id
		ORDER BY MAX(start_time) DESC
		LIMIT $2`, beneficiaryID, limit)
	if err != nil {
		return nil, fmt.Errorf("list rated photos: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan photo id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (t *resetTx) SumRatingEarnings(ctx context.Context, beneficiaryID uuid.UUID, photoIDs []uuid.UUID) (decimal.Decimal, error) {
	var sum string
	err := t.tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(earnings), 0)::text
		FROM ratings
		WHERE beneficiary_id = $1 AND photo_id = ANY($2) AND earnings > 0`,
		beneficiaryID, photoIDs).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum rating earnings: %w", err)
	}
	d, err := decimal.NewFromString(sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse earnings sum: %w", err)
	}
	return d, nil
}

func (t *resetTx) ApplyReset(ctx context.Context, beneficiaryID uuid.UUID, earnings decimal.Decimal, photoCount int) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE beneficiaries
		SET current_earnings = GREATEST(0, current_earnings - $2::numeric),
		    lifetime_earnings = GREATEST(0, lifetime_earnings - $2::numeric),
		    is_active = TRUE,
		    total_photos_rated = GREATEST(0, total_photos_rated - $3),
		    photos_rated_in_current_batch = 0,
		    ratings_in_current_period = 0,
		    updated_at = NOW()
		WHERE id = $1`, beneficiaryID, earnings.StringFixed(2), photoCount)
	if err != nil {
		return fmt.Errorf("apply reset: %w", err)
	}
	return nil
}

func (t *resetTx) DeleteRatings(ctx context.Context, beneficiaryID uuid.UUID, photoIDs []uuid.UUID) (int64, error) {
	ct, err := t.tx.Exec(ctx, `
		DELETE FROM ratings
		WHERE beneficiary_id = $1 AND photo_id = ANY($2)`,
		beneficiaryID, photoIDs)
	if err != nil {
		return 0, fmt.Errorf("delete ratings: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (t *resetTx) RecalcPhotoStats(ctx context.Context, photoID uuid.UUID) error {
	_, err := t.tx.Exec(ctx, `
		UPDATE photos
		SET total_ratings = (SELECT COUNT(*) FROM ratings WHERE photo_id = $1),
		    average_rating = COALESCE((SELECT AVG(rating) FROM ratings WHERE photo_id = $1), 0),
		    updated_at = NOW()
		WHERE id = $1`, photoID)
	if err != nil {
		return fmt.Errorf("recalc photo stats: %w", err)
	}
	return nil
}
