// internal/service/pipeline/pipeline.go
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"pipeline-service/internal/domain/lead"
	"pipeline-service/internal/metrics"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// LeadStore is the record store collaborator contract for leads. The postgres
// repository is the live implementation; tests supply mocks.
type LeadStore interface {
	Create(ctx context.Context, l *lead.Lead) error
	FindByID(ctx context.Context, id string) (*lead.Lead, error)
	List(ctx context.Context) ([]lead.Lead, error)
	Update(ctx context.Context, id string, l *lead.Lead) error
	UpdateStage(ctx context.Context, id string, from, to lead.Stage) error
	Delete(ctx context.Context, id string) error
}

// HistoryStore reads the append-only stage transition log.
type HistoryStore interface {
	ListByLead(ctx context.Context, leadID string) ([]lead.StageTransition, error)
}

// SnapshotCache holds the last-known-good lead collection for the degrade
// path. May be backed by Redis in production.
type SnapshotCache interface {
	Save(ctx context.Context, leads []lead.Lead) error
	Load(ctx context.Context) ([]lead.Lead, bool, error)
}

// SeedSource supplies the fixture dataset used when both the store and the
// snapshot are out of reach.
type SeedSource interface {
	Leads() []lead.Lead
}

type Service struct {
	leads    LeadStore
	history  HistoryStore
	snapshot SnapshotCache
	seed     SeedSource
	loc      *time.Location
	logger   *zap.Logger
}

func NewService(leads LeadStore, history HistoryStore, snapshot SnapshotCache, seed SeedSource, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		leads:    leads,
		history:  history,
		snapshot: snapshot,
		seed:     seed,
		loc:      loc,
		logger:   logger,
	}
}

// CreateLead creates a lead in the first canonical stage. Validation happens
// before any store call; an invalid request never reaches the collaborator.
func (s *Service) CreateLead(ctx context.Context, req *lead.CreateLeadRequest) (*lead.Lead, error) {
	if strings.TrimSpace(req.CompanyName) == "" {
		return nil, xerrors.Invalid("company name is required")
	}
	if req.EstimatedValue < 0 {
		return nil, xerrors.Invalid("estimated value must not be negative")
	}
	if req.Probability < 0 || req.Probability > 100 {
		return nil, xerrors.Invalid("probability must be between 0 and 100")
	}

	score := lead.DefaultScore
	if req.Score != nil {
		if *req.Score < 0 || *req.Score > 100 {
			return nil, xerrors.Invalid("score must be between 0 and 100")
		}
		score = *req.Score
	}

	l := &lead.Lead{
		CompanyName:    strings.TrimSpace(req.CompanyName),
		FirstName:      sql.NullString{String: req.FirstName, Valid: req.FirstName != ""},
		LastName:       sql.NullString{String: req.LastName, Valid: req.LastName != ""},
		Email:          sql.NullString{String: req.Email, Valid: req.Email != ""},
		Phone:          sql.NullString{String: req.Phone, Valid: req.Phone != ""},
		Source:         lead.ParseSource(req.Source),
		Stage:          lead.StageNew,
		Score:          score,
		EstimatedValue: req.EstimatedValue,
		Probability:    req.Probability,
		Notes:          sql.NullString{String: req.Notes, Valid: req.Notes != ""},
		Tags:           pq.StringArray(req.Tags),
	}
	if req.ExpectedCloseDate != nil {
		l.ExpectedCloseDate = sql.NullTime{Time: *req.ExpectedCloseDate, Valid: true}
	}

	err := s.leads.Create(ctx, l)
	if xerrors.Is(err, xerrors.ErrStoreUnavailable) {
		s.logger.Warn("record store unavailable, creating lead locally", zap.Error(err))
		s.createLocal(ctx, l)
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	metrics.RecordLeadOperation("create")
	s.logger.Info("lead created",
		zap.String("lead_id", l.ID),
		zap.String("lead_number", l.LeadNumber),
		zap.String("company", l.CompanyName),
	)

	return l, nil
}

// GetLead retrieves one lead annotated with its derived reads.
func (s *Service) GetLead(ctx context.Context, id string) (*lead.View, error) {
	l, err := s.leads.FindByID(ctx, id)
	if xerrors.Is(err, xerrors.ErrStoreUnavailable) {
		leads, _, fErr := s.collection(ctx)
		if fErr != nil {
			return nil, fErr
		}
		for i := range leads {
			if leads[i].ID == id {
				l = &leads[i]
				break
			}
		}
		if l == nil {
			return nil, xerrors.ErrNotFound
		}
	} else if err != nil {
		return nil, err
	}

	now := time.Now()
	return &lead.View{
		Lead:           *l,
		Classification: lead.Classify(l.Score),
		DaysInStage:    lead.DaysInStage(l, now),
	}, nil
}

// ListLeads is the flat table projection: filtered, searchable, annotated.
func (s *Service) ListLeads(ctx context.Context, filters lead.ListFilters) (*lead.ListResponse, error) {
	leads, src, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	filtered := lead.Filter(leads, filters)
	views := lead.Annotate(filtered, time.Now())

	return &lead.ListResponse{Leads: views, Total: len(views), DataSource: src}, nil
}

// UpdateLead edits contact and deal-economics fields.
func (s *Service) UpdateLead(ctx context.Context, id string, req *lead.UpdateLeadRequest) (*lead.Lead, error) {
	if req.CompanyName != nil && strings.TrimSpace(*req.CompanyName) == "" {
		return nil, xerrors.Invalid("company name must not be empty")
	}
	if req.Score != nil && (*req.Score < 0 || *req.Score > 100) {
		return nil, xerrors.Invalid("score must be between 0 and 100")
	}
	if req.EstimatedValue != nil && *req.EstimatedValue < 0 {
		return nil, xerrors.Invalid("estimated value must not be negative")
	}
	if req.Probability != nil && (*req.Probability < 0 || *req.Probability > 100) {
		return nil, xerrors.Invalid("probability must be between 0 and 100")
	}

	l, err := s.leads.FindByID(ctx, id)
	if xerrors.Is(err, xerrors.ErrStoreUnavailable) {
		return s.updateLocal(ctx, id, req, err)
	}
	if err != nil {
		return nil, err
	}

	applyUpdate(l, req)

	if err := s.leads.Update(ctx, id, l); err != nil {
		if xerrors.Is(err, xerrors.ErrStoreUnavailable) {
			return s.updateLocal(ctx, id, req, err)
		}
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}
	l.UpdatedAt = time.Now()

	metrics.RecordLeadOperation("update")
	s.logger.Info("lead updated", zap.String("lead_id", id))

	return l, nil
}

// SetStage moves a lead to a stage in the canonical set. Membership is the
// only precondition; any prior stage is overwritable, forward or backward, so
// sales reps can correct placement manually. Repeating the current stage is a
// no-op apart from updated_at.
func (s *Service) SetStage(ctx context.Context, id, rawStage string) error {
	stage, ok := lead.ParseStage(rawStage)
	if !ok {
		return xerrors.Invalid(fmt.Sprintf("unknown pipeline stage %q", rawStage))
	}

	l, err := s.leads.FindByID(ctx, id)
	switch {
	case err == nil:
		// proceed below
	case xerrors.Is(err, xerrors.ErrNotFound):
		// Stale row on the caller's side; treat as already satisfied.
		s.logger.Debug("stage update for unknown lead ignored", zap.String("lead_id", id))
		return nil
	case xerrors.Is(err, xerrors.ErrStoreUnavailable):
		s.logger.Warn("record store unavailable, applying stage change locally",
			zap.String("lead_id", id), zap.String("stage", string(stage)), zap.Error(err))
		s.applyLocal(ctx, "set_stage", setStageFn(id, stage))
		return nil
	default:
		return err
	}

	if err := s.leads.UpdateStage(ctx, id, l.Stage, stage); err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Debug("stage update raced a delete, ignored", zap.String("lead_id", id))
			return nil
		}
		if xerrors.Is(err, xerrors.ErrStoreUnavailable) {
			s.logger.Warn("record store unavailable, applying stage change locally",
				zap.String("lead_id", id), zap.String("stage", string(stage)), zap.Error(err))
			s.applyLocal(ctx, "set_stage", setStageFn(id, stage))
			return nil
		}
		return fmt.Errorf("failed to update stage: %w", err)
	}

	metrics.RecordStageTransition(string(stage))
	s.logger.Info("lead stage updated",
		zap.String("lead_id", id),
		zap.String("from", string(l.Stage)),
		zap.String("to", string(stage)),
	)

	return nil
}

// DeleteLead removes a lead. A missing lead is treated as already deleted; its
// activity log is orphaned, not removed.
func (s *Service) DeleteLead(ctx context.Context, id string) error {
	err := s.leads.Delete(ctx, id)
	switch {
	case err == nil:
		metrics.RecordLeadOperation("delete")
		s.logger.Info("lead deleted", zap.String("lead_id", id))
		return nil
	case xerrors.Is(err, xerrors.ErrNotFound):
		return nil
	case xerrors.Is(err, xerrors.ErrStoreUnavailable):
		s.logger.Warn("record store unavailable, applying delete locally",
			zap.String("lead_id", id), zap.Error(err))
		s.applyLocal(ctx, "delete", func(leads []lead.Lead) []lead.Lead {
			out := leads[:0]
			for _, l := range leads {
				if l.ID != id {
					out = append(out, l)
				}
			}
			return out
		})
		return nil
	default:
		return fmt.Errorf("failed to delete lead: %w", err)
	}
}

// Board is the stage-partitioned kanban projection over the canonical stages.
func (s *Service) Board(ctx context.Context) (*lead.BoardResponse, error) {
	leads, src, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	return &lead.BoardResponse{
		Columns:    lead.Board(leads, time.Now()),
		DataSource: src,
	}, nil
}

// WholesaleBoard is the simplified 5-column re-projection of the same
// canonical stage set.
func (s *Service) WholesaleBoard(ctx context.Context) (*lead.WholesaleBoardResponse, error) {
	leads, src, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	return &lead.WholesaleBoardResponse{
		Columns:    lead.WholesaleBoard(leads, time.Now()),
		DataSource: src,
	}, nil
}

// Stats computes the roll-up summary for the current collection.
func (s *Service) Stats(ctx context.Context) (*lead.StatsResponse, error) {
	leads, src, err := s.collection(ctx)
	if err != nil {
		return nil, err
	}

	return &lead.StatsResponse{
		Stats:      lead.Aggregate(leads, time.Now(), s.loc),
		DataSource: src,
	}, nil
}

// Stages returns the canonical ordered stage metadata.
func (s *Service) Stages() []lead.StageInfo {
	return lead.Stages()
}

// StageHistory returns a lead's stage transition log, newest first.
func (s *Service) StageHistory(ctx context.Context, leadID string) ([]lead.StageTransition, error) {
	return s.history.ListByLead(ctx, leadID)
}

// ========== Fallback plumbing ==========

// collection fetches the lead dataset, preferring the live store and falling
// back to the snapshot cache, then the seed fixture. The returned DataSource
// flag keeps a degraded read visibly distinguishable from an empty live one.
func (s *Service) collection(ctx context.Context) ([]lead.Lead, lead.DataSource, error) {
	leads, err := s.leads.List(ctx)
	if err == nil {
		if sErr := s.snapshot.Save(ctx, leads); sErr != nil {
			s.logger.Warn("failed to refresh lead snapshot", zap.Error(sErr))
		}
		return leads, lead.DataSourceLive, nil
	}

	if !xerrors.Is(err, xerrors.ErrStoreUnavailable) {
		return nil, "", err
	}

	s.logger.Warn("record store unavailable, serving fallback dataset", zap.Error(err))

	cached, ok, cErr := s.snapshot.Load(ctx)
	if cErr != nil {
		s.logger.Warn("snapshot cache unavailable", zap.Error(cErr))
	} else if ok {
		metrics.RecordFallbackRead(string(lead.DataSourceCache))
		return cached, lead.DataSourceCache, nil
	}

	metrics.RecordFallbackRead(string(lead.DataSourceSeed))
	return s.seed.Leads(), lead.DataSourceSeed, nil
}

// applyLocal applies a mutation to the fallback collection so the view keeps
// moving while the store is down. Local and remote state may diverge until the
// next successful live read; that divergence is logged, not hidden.
func (s *Service) applyLocal(ctx context.Context, op string, fn func([]lead.Lead) []lead.Lead) {
	current, ok, err := s.snapshot.Load(ctx)
	if err != nil {
		s.logger.Warn("cannot apply local mutation, snapshot unavailable", zap.Error(err))
		return
	}
	if !ok {
		current = s.seed.Leads()
	}

	if err := s.snapshot.Save(ctx, fn(current)); err != nil {
		s.logger.Warn("failed to save local mutation", zap.Error(err))
		return
	}

	metrics.RecordOptimisticWrite(op)
}

func (s *Service) createLocal(ctx context.Context, l *lead.Lead) {
	now := time.Now()
	l.ID = ulid.Make().String()
	l.CreatedAt = now
	l.UpdatedAt = now
	l.StageEnteredAt = now

	s.applyLocal(ctx, "create", func(leads []lead.Lead) []lead.Lead {
		l.LeadNumber = nextLeadNumber(leads)
		return append([]lead.Lead{*l}, leads...)
	})

	if l.LeadNumber == "" {
		l.LeadNumber = nextLeadNumber(nil)
	}
}

func (s *Service) updateLocal(ctx context.Context, id string, req *lead.UpdateLeadRequest, cause error) (*lead.Lead, error) {
	s.logger.Warn("record store unavailable, applying lead edit locally",
		zap.String("lead_id", id), zap.Error(cause))

	var updated *lead.Lead
	s.applyLocal(ctx, "update", func(leads []lead.Lead) []lead.Lead {
		for i := range leads {
			if leads[i].ID == id {
				applyUpdate(&leads[i], req)
				leads[i].UpdatedAt = time.Now()
				cp := leads[i]
				updated = &cp
				break
			}
		}
		return leads
	})

	if updated == nil {
		return nil, xerrors.ErrNotFound
	}
	return updated, nil
}

func setStageFn(id string, stage lead.Stage) func([]lead.Lead) []lead.Lead {
	return func(leads []lead.Lead) []lead.Lead {
		now := time.Now()
		for i := range leads {
			if leads[i].ID == id {
				if leads[i].Stage != stage {
					leads[i].Stage = stage
					leads[i].StageEnteredAt = now
				}
				leads[i].UpdatedAt = now
				break
			}
		}
		return leads
	}
}

func applyUpdate(l *lead.Lead, req *lead.UpdateLeadRequest) {
	if req.CompanyName != nil {
		l.CompanyName = strings.TrimSpace(*req.CompanyName)
	}
	if req.FirstName != nil {
		l.FirstName = sql.NullString{String: *req.FirstName, Valid: *req.FirstName != ""}
	}
	if req.LastName != nil {
		l.LastName = sql.NullString{String: *req.LastName, Valid: *req.LastName != ""}
	}
	if req.Email != nil {
		l.Email = sql.NullString{String: *req.Email, Valid: *req.Email != ""}
	}
	if req.Phone != nil {
		l.Phone = sql.NullString{String: *req.Phone, Valid: *req.Phone != ""}
	}
	if req.Source != nil {
		l.Source = lead.ParseSource(*req.Source)
	}
	if req.Score != nil {
		l.Score = *req.Score
	}
	if req.EstimatedValue != nil {
		l.EstimatedValue = *req.EstimatedValue
	}
	if req.Probability != nil {
		l.Probability = *req.Probability
	}
	if req.ExpectedCloseDate != nil {
		l.ExpectedCloseDate = sql.NullTime{Time: *req.ExpectedCloseDate, Valid: true}
	}
	if req.Notes != nil {
		l.Notes = sql.NullString{String: *req.Notes, Valid: *req.Notes != ""}
	}
	if req.Tags != nil {
		l.Tags = pq.StringArray(req.Tags)
	}
}

// nextLeadNumber continues the "L-001" sequence from the highest number in the
// local collection. Only the degraded create path uses it; the store assigns
// numbers when reachable.
func nextLeadNumber(leads []lead.Lead) string {
	max := 0
	for _, l := range leads {
		n, err := strconv.Atoi(strings.TrimPrefix(l.LeadNumber, "L-"))
		if err == nil && n > max {
			max = n
		}
	}
	return fmt.Sprintf("L-%03d", max+1)
}
