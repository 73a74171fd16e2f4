package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/missionpool/backend/internal/apperr"
	"github.com/missionpool/backend/internal/models"
	"github.com/missionpool/backend/internal/pagination"
)

type MissionRepo struct {
	pool *pgxpool.Pool
}

func NewMissionRepo(pool *pgxpool.Pool) *MissionRepo {
	return &MissionRepo{pool: pool}
}

const missionColumns = `id, campaign_id, assignee_id, payout_amount, state, transfer_ref, created_at, updated_at`

var missionKeyset = pagination.Columns{Sort: "created_at", Tiebreak: "id"}

func scanMission(row pgx.Row) (*models.Mission, error) {
	var m models.Mission
	err := row.Scan(&m.ID, &m.CampaignID, &m.AssigneeID, &m.PayoutAmount, &m.State, &m.TransferRef, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MissionRepo) Create(ctx context.Context, m *models.Mission) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO missions (id, campaign_id, payout_amount, state)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`, m.ID, m.CampaignID, m.PayoutAmount, m.State).Scan(&m.CreatedAt, &m.UpdatedAt)
}

// GetByID returns (nil, nil) when no mission exists.
func (r *MissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Mission, error) {
	m, err := scanMission(r.pool.QueryRow(ctx, `
		SELECT `+missionColumns+` FROM missions WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// AcceptIfOpen sets the assignee and moves OPEN to ACCEPTED in one
// conditional update. Zero rows affected means another caller won the race
// (or the mission left OPEN); the read-check alone cannot guarantee that.
func (r *MissionRepo) AcceptIfOpen(ctx context.Context, id uuid.UUID, assigneeID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE missions SET state = $3, assignee_id = $2, updated_at = now()
		WHERE id = $1 AND state = $4
	`, id, assigneeID, models.MissionAccepted, models.MissionOpen)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// UpdateState moves a mission from one state to another, conditionally on
// the source state still holding.
func (r *MissionRepo) UpdateState(ctx context.Context, id uuid.UUID, from, to string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE missions SET state = $3, updated_at = now()
		WHERE id = $1 AND state = $2
	`, id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetTransferRef records the processor transfer reference. Written before
// the PAID state change so a crash in between is reconcilable.
func (r *MissionRepo) SetTransferRef(ctx context.Context, id uuid.UUID, ref string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE missions SET transfer_ref = $2, updated_at = now() WHERE id = $1
	`, id, ref)
	return err
}

// MissionFilter restricts List to a lifecycle state and/or campaign.
type MissionFilter struct {
	State      string
	CampaignID *int64
}

// List pages missions by keyset with the filter conjoined to the cursor
// predicate.
func (r *MissionRepo) List(ctx context.Context, filter MissionFilter, params pagination.Params) (pagination.Page[*models.Mission], error) {
	query := `SELECT ` + missionColumns + ` FROM missions`
	where, args := missionFilterClauses(filter, 1)
	if params.Cursor != nil {
		tiebreak, err := uuid.Parse(params.Cursor.Tiebreak)
		if err != nil {
			return pagination.Page[*models.Mission]{}, apperr.New(apperr.Validation, "invalid cursor")
		}
		pred := pagination.BuildPredicate(params.Order, missionKeyset, *params.Cursor, tiebreak, len(args)+1)
		where = append(where, pred.SQL)
		args = append(args, pred.Args...)
	}
	if len(where) > 0 {
		query += ` WHERE ` + joinAnd(where)
	}
	query += ` ORDER BY ` + pagination.OrderBy(params.Order, missionKeyset)
	query += ` LIMIT ` + strconv.Itoa(params.Limit+1)

	list, err := r.queryMissions(ctx, query, args)
	if err != nil {
		return pagination.Page[*models.Mission]{}, err
	}
	return pagination.TrimPage(list, params.Limit, func(m *models.Mission) pagination.Cursor {
		return pagination.Cursor{SortValue: m.CreatedAt, Tiebreak: m.ID.String()}
	}), nil
}

// ListAll returns every matching mission in the default order for the
// back-compat bare-array response.
func (r *MissionRepo) ListAll(ctx context.Context, filter MissionFilter) ([]*models.Mission, error) {
	query := `SELECT ` + missionColumns + ` FROM missions`
	where, args := missionFilterClauses(filter, 1)
	if len(where) > 0 {
		query += ` WHERE ` + joinAnd(where)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	return r.queryMissions(ctx, query, args)
}

func (r *MissionRepo) queryMissions(ctx context.Context, query string, args []any) ([]*models.Mission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Mission
	for rows.Next() {
		m, err := scanMission(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func missionFilterClauses(filter MissionFilter, firstArg int) ([]string, []any) {
	var where []string
	var args []any
	if filter.State != "" {
		where = append(where, "state = $"+strconv.Itoa(firstArg+len(args)))
		args = append(args, filter.State)
	}
	if filter.CampaignID != nil {
		where = append(where, "campaign_id = $"+strconv.Itoa(firstArg+len(args)))
		args = append(args, *filter.CampaignID)
	}
	return where, args
}

func joinAnd(clauses []string) string {
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out
}
