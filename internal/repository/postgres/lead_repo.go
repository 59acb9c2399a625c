// internal/repository/postgres/lead_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type LeadRepository struct {
	db *pgxpool.Pool
}

func NewLeadRepository(db *pgxpool.Pool) *LeadRepository {
	return &LeadRepository{db: db}
}

const leadColumns = `id, lead_number, company_name, first_name, last_name, email, phone,
       source, pipeline_stage, stage_entered_at, score, estimated_value, probability,
       expected_close_date, notes, tags, created_at, updated_at, last_contacted_at`

// Create inserts a new lead. The store assigns the id and the monotonic,
// never-reused lead number ("L-001", "L-002", ...) from a sequence.
func (r *LeadRepository) Create(ctx context.Context, l *lead.Lead) error {
	query := `
		INSERT INTO leads (
			id, lead_number, company_name, first_name, last_name, email, phone,
			source, pipeline_stage, stage_entered_at, score, estimated_value,
			probability, expected_close_date, notes, tags
		) VALUES (
			$1, 'L-' || lpad(nextval('lead_number_seq')::text, 3, '0'),
			$2, $3, $4, $5, $6, $7, $8, now(), $9, $10, $11, $12, $13, $14
		)
		RETURNING lead_number, stage_entered_at, created_at, updated_at
	`

	l.ID = ulid.Make().String()

	err := r.db.QueryRow(
		ctx, query,
		l.ID, l.CompanyName, l.FirstName, l.LastName, l.Email, l.Phone,
		l.Source, l.Stage, l.Score, l.EstimatedValue,
		l.Probability, l.ExpectedCloseDate, l.Notes, l.Tags,
	).Scan(&l.LeadNumber, &l.StageEnteredAt, &l.CreatedAt, &l.UpdatedAt)

	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("create lead: %w", err))
	}

	return nil
}

// FindByID retrieves a lead by ID.
func (r *LeadRepository) FindByID(ctx context.Context, id string) (*lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id = $1`, leadColumns)

	l, err := scanLead(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("find lead: %w", err))
	}

	return l, nil
}

// List returns the full lead collection, newest first. Filtering and
// aggregation are projections computed by the caller so they behave the same
// over cached and seeded datasets.
func (r *LeadRepository) List(ctx context.Context) ([]lead.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads ORDER BY created_at DESC`, leadColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("list leads: %w", err))
	}
	defer rows.Close()

	leads := []lead.Lead{}
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, xerrors.Unavailable(fmt.Errorf("scan lead: %w", err))
		}
		leads = append(leads, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("list leads: %w", err))
	}

	return leads, nil
}

// Update rewrites the mutable contact and deal-economics fields.
func (r *LeadRepository) Update(ctx context.Context, id string, l *lead.Lead) error {
	query := `
		UPDATE leads
		SET company_name = $1, first_name = $2, last_name = $3, email = $4, phone = $5,
		    source = $6, score = $7, estimated_value = $8, probability = $9,
		    expected_close_date = $10, notes = $11, tags = $12, updated_at = $13
		WHERE id = $14
	`

	result, err := r.db.Exec(
		ctx, query,
		l.CompanyName, l.FirstName, l.LastName, l.Email, l.Phone,
		l.Source, l.Score, l.EstimatedValue, l.Probability,
		l.ExpectedCloseDate, l.Notes, l.Tags, time.Now(), id,
	)
	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("update lead: %w", err))
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// UpdateStage moves a lead to a new stage and appends the transition to the
// stage history in the same transaction. A same-stage write only refreshes
// updated_at; it does not reset dwell time or add a history row.
func (r *LeadRepository) UpdateStage(ctx context.Context, id string, from, to lead.Stage) error {
	now := time.Now()

	if from == to {
		result, err := r.db.Exec(ctx, `UPDATE leads SET updated_at = $1 WHERE id = $2`, now, id)
		if err != nil {
			return xerrors.Unavailable(fmt.Errorf("touch lead: %w", err))
		}
		if result.RowsAffected() == 0 {
			return xerrors.ErrNotFound
		}
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("begin stage update: %w", err))
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(
		ctx,
		`UPDATE leads SET pipeline_stage = $1, stage_entered_at = $2, updated_at = $2 WHERE id = $3`,
		to, now, id,
	)
	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("update stage: %w", err))
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	_, err = tx.Exec(
		ctx,
		`INSERT INTO lead_stage_history (lead_id, from_stage, to_stage, at) VALUES ($1, $2, $3, $4)`,
		id, from, to, now,
	)
	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("append stage history: %w", err))
	}

	if err := tx.Commit(ctx); err != nil {
		return xerrors.Unavailable(fmt.Errorf("commit stage update: %w", err))
	}

	return nil
}

// TouchLastContacted refreshes last_contacted_at. Only activity logging calls
// this; stage changes never do.
func (r *LeadRepository) TouchLastContacted(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.Exec(
		ctx,
		`UPDATE leads SET last_contacted_at = $1, updated_at = $1 WHERE id = $2`,
		at, id,
	)
	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("touch last contacted: %w", err))
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

// Delete removes a lead record. Its activity log is intentionally left in
// place: activities stay addressable by lead_id after the lead is gone.
func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("delete lead: %w", err))
	}

	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}

	return nil
}

func scanLead(row pgx.Row) (*lead.Lead, error) {
	var l lead.Lead
	err := row.Scan(
		&l.ID, &l.LeadNumber, &l.CompanyName, &l.FirstName, &l.LastName, &l.Email, &l.Phone,
		&l.Source, &l.Stage, &l.StageEnteredAt, &l.Score, &l.EstimatedValue, &l.Probability,
		&l.ExpectedCloseDate, &l.Notes, &l.Tags, &l.CreatedAt, &l.UpdatedAt, &l.LastContactedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
