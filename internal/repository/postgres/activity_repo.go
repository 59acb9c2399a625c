// internal/repository/postgres/activity_repo.go
package postgres

import (
	"context"
	"fmt"

	"pipeline-service/internal/domain/activity"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity. The log is append-only; no update or delete
// exists anywhere in the repository.
func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	query := `
		INSERT INTO lead_activities (id, lead_id, activity_type, subject, description, outcome)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	a.ID = ulid.Make().String()

	err := r.db.QueryRow(
		ctx, query,
		a.ID, a.LeadID, a.Type, a.Subject, a.Description, a.Outcome,
	).Scan(&a.CreatedAt)

	if err != nil {
		return xerrors.Unavailable(fmt.Errorf("create activity: %w", err))
	}

	return nil
}

// ListByLead returns a lead's activities newest first. An empty log is an
// empty slice, not an error — activities also survive their lead's deletion,
// so no existence check happens here.
func (r *ActivityRepository) ListByLead(ctx context.Context, leadID string) ([]activity.Activity, error) {
	query := `
		SELECT id, lead_id, activity_type, subject, description, outcome, created_at
		FROM lead_activities
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("list activities: %w", err))
	}
	defer rows.Close()

	activities := []activity.Activity{}
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(&a.ID, &a.LeadID, &a.Type, &a.Subject, &a.Description, &a.Outcome, &a.CreatedAt); err != nil {
			return nil, xerrors.Unavailable(fmt.Errorf("scan activity: %w", err))
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("list activities: %w", err))
	}

	return activities, nil
}
