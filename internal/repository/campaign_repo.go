package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/pagination"
)

type CampaignRepo struct {
	pool *pgxpool.Pool
}

func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

const campaignColumns = `id, owner_id, title, budget_amount, currency, payment_intent_ref, funding_status, created_at, updated_at`

var campaignKeyset = pagination.Columns{Sort: "created_at", Tiebreak: "id"}

func scanCampaign(row pgx.Row) (*models.Campaign, error) {
	var c models.Campaign
	err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.BudgetAmount, &c.Currency, &c.PaymentIntentRef, &c.FundingStatus, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignRepo) Create(ctx context.Context, c *models.Campaign) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO campaigns (owner_id, title, budget_amount, currency, funding_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, c.OwnerID, c.Title, c.BudgetAmount, c.Currency, c.FundingStatus).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID returns (nil, nil) when no campaign exists.
func (r *CampaignRepo) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *CampaignRepo) SetPaymentIntentRef(ctx context.Context, id int64, ref string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET payment_intent_ref = $2, updated_at = now() WHERE id = $1
	`, id, ref)
	return err
}

// MarkFunded flips PENDING to FUNDED. Applying it twice is a no-op, so
// duplicate processor confirmations are harmless.
func (r *CampaignRepo) MarkFunded(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET funding_status = $2, updated_at = now()
		WHERE id = $1 AND funding_status = $3
	`, id, models.FundingFunded, models.FundingPending)
	return err
}

// MarkFundedByIntentRef is the webhook-driven variant of MarkFunded keyed
// by the processor's payment-intent reference.
func (r *CampaignRepo) MarkFundedByIntentRef(ctx context.Context, intentRef string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE campaigns SET funding_status = $2, updated_at = now()
		WHERE payment_intent_ref = $1 AND funding_status = $3
	`, intentRef, models.FundingFunded, models.FundingPending)
	return err
}

// List pages campaigns by keyset. It fetches limit+1 rows so the page trim
// can tell whether a further page exists.
func (r *CampaignRepo) List(ctx context.Context, params pagination.Params) (pagination.Page[*models.Campaign], error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	var args []any
	if params.Cursor != nil {
		tiebreak, err := strconv.ParseInt(params.Cursor.Tiebreak, 10, 64)
		if err != nil {
			return pagination.Page[*models.Campaign]{}, apperr.New(apperr.Validation, "invalid cursor")
		}
		pred := pagination.BuildPredicate(params.Order, campaignKeyset, *params.Cursor, tiebreak, 1)
		query += ` WHERE ` + pred.SQL
		args = pred.Args
	}
	query += ` ORDER BY ` + pagination.OrderBy(params.Order, campaignKeyset)
	query += ` LIMIT ` + strconv.Itoa(params.Limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return pagination.Page[*models.Campaign]{}, err
	}
	defer rows.Close()
	var list []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return pagination.Page[*models.Campaign]{}, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*models.Campaign]{}, err
	}
	return pagination.TrimPage(list, params.Limit, func(c *models.Campaign) pagination.Cursor {
		return pagination.Cursor{SortValue: c.CreatedAt, Tiebreak: strconv.FormatInt(c.ID, 10)}
	}), nil
}

// ListAll returns every campaign in the default order. Serves the
// back-compat bare-array response when no pagination params are supplied.
func (r *CampaignRepo) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
