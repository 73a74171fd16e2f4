package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missionpool/backend/internal/models"
)

type AccountRepo struct {
	pool *pgxpool.Pool
}

func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `id, external_identity, roles, payout_account_ref, onboarded_at, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	var roles []string
	err := row.Scan(&a.ID, &a.ExternalIdentity, &roles, &a.PayoutAccountRef, &a.OnboardedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.Roles = models.RoleSetFromStrings(roles)
	return &a, nil
}

// GetByID returns (nil, nil) when no account exists.
func (r *AccountRepo) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// GetByExternalIdentity returns (nil, nil) when no account exists.
func (r *AccountRepo) GetByExternalIdentity(ctx context.Context, ref string) (*models.Account, error) {
	a, err := scanAccount(r.pool.QueryRow(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE external_identity = $1
	`, ref))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return a, err
}

// SyncByExternalIdentity creates the account on first sync and merges the
// asserted roles into the stored set. The merge is a union; re-syncing a
// held role changes nothing, and roles are never removed.
func (r *AccountRepo) SyncByExternalIdentity(ctx context.Context, ref string, roles models.RoleSet) (*models.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, `
		INSERT INTO accounts (external_identity, roles)
		VALUES ($1, $2)
		ON CONFLICT (external_identity) DO UPDATE
		SET roles = (SELECT array_agg(DISTINCT r) FROM unnest(accounts.roles || EXCLUDED.roles) AS r),
		    updated_at = now()
		RETURNING `+accountColumns+`
	`, ref, roles.Strings()))
}

// SetPayoutAccount records the external payout-account reference and marks
// payout onboarding complete.
func (r *AccountRepo) SetPayoutAccount(ctx context.Context, id int64, payoutRef string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE accounts SET payout_account_ref = $2, onboarded_at = COALESCE(onboarded_at, now()), updated_at = now()
		WHERE id = $1
	`, id, payoutRef)
	return err
}
