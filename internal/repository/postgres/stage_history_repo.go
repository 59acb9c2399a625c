// internal/repository/postgres/stage_history_repo.go
package postgres

import (
	"context"
	"fmt"

	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StageHistoryRepository reads the append-only stage transition log. Writes
// happen inside LeadRepository.UpdateStage so the lead row and its history
// entry commit together.
type StageHistoryRepository struct {
	db *pgxpool.Pool
}

func NewStageHistoryRepository(db *pgxpool.Pool) *StageHistoryRepository {
	return &StageHistoryRepository{db: db}
}

// ListByLead returns a lead's stage transitions newest first.
func (r *StageHistoryRepository) ListByLead(ctx context.Context, leadID string) ([]lead.StageTransition, error) {
	query := `
		SELECT id, lead_id, from_stage, to_stage, at
		FROM lead_stage_history
		WHERE lead_id = $1
		ORDER BY at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, leadID)
	if err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("list stage history: %w", err))
	}
	defer rows.Close()

	transitions := []lead.StageTransition{}
	for rows.Next() {
		var t lead.StageTransition
		if err := rows.Scan(&t.ID, &t.LeadID, &t.FromStage, &t.ToStage, &t.At); err != nil {
			return nil, xerrors.Unavailable(fmt.Errorf("scan stage transition: %w", err))
		}
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, xerrors.Unavailable(fmt.Errorf("list stage history: %w", err))
	}

	return transitions, nil
}
