package pipeline

import (
	"context"
	"testing"
	"time"

	"pipeline-service/internal/domain/lead"
	xerrors "pipeline-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockLeadStore struct {
	mock.Mock
}

func (m *mockLeadStore) Create(ctx context.Context, l *lead.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *mockLeadStore) FindByID(ctx context.Context, id string) (*lead.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lead.Lead), args.Error(1)
}

func (m *mockLeadStore) List(ctx context.Context) ([]lead.Lead, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lead.Lead), args.Error(1)
}

func (m *mockLeadStore) Update(ctx context.Context, id string, l *lead.Lead) error {
	return m.Called(ctx, id, l).Error(0)
}

func (m *mockLeadStore) UpdateStage(ctx context.Context, id string, from, to lead.Stage) error {
	return m.Called(ctx, id, from, to).Error(0)
}

func (m *mockLeadStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockHistoryStore struct {
	mock.Mock
}

func (m *mockHistoryStore) ListByLead(ctx context.Context, leadID string) ([]lead.StageTransition, error) {
	args := m.Called(ctx, leadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lead.StageTransition), args.Error(1)
}

// fakeSnapshot is an in-memory stand-in for the Redis snapshot cache.
type fakeSnapshot struct {
	leads []lead.Lead
	ok    bool
	err   error
}

func (f *fakeSnapshot) Save(_ context.Context, leads []lead.Lead) error {
	if f.err != nil {
		return f.err
	}
	f.leads = leads
	f.ok = true
	return nil
}

func (f *fakeSnapshot) Load(_ context.Context) ([]lead.Lead, bool, error) {
	return f.leads, f.ok, f.err
}

type fakeSeed struct {
	leads []lead.Lead
}

func (f *fakeSeed) Leads() []lead.Lead {
	out := make([]lead.Lead, len(f.leads))
	copy(out, f.leads)
	return out
}

func newTestService(store *mockLeadStore, history *mockHistoryStore, snap *fakeSnapshot, seed *fakeSeed) *Service {
	return NewService(store, history, snap, seed, time.UTC, zap.NewNop())
}

func TestCreateLeadDefaults(t *testing.T) {
	store := new(mockLeadStore)
	store.On("Create", mock.Anything, mock.AnythingOfType("*lead.Lead")).Return(nil)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	l, err := svc.CreateLead(context.Background(), &lead.CreateLeadRequest{
		CompanyName: "  Acme Industrial  ",
		Source:      "somewhere unexpected",
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Industrial", l.CompanyName)
	assert.Equal(t, lead.StageNew, l.Stage)
	assert.Equal(t, lead.DefaultScore, l.Score)
	assert.Equal(t, lead.SourceOther, l.Source)
	store.AssertExpectations(t)
}

func TestCreateLeadValidation(t *testing.T) {
	store := new(mockLeadStore)
	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	badScore := 101
	tests := []struct {
		name string
		req  lead.CreateLeadRequest
	}{
		{"blank company", lead.CreateLeadRequest{CompanyName: "   "}},
		{"negative value", lead.CreateLeadRequest{CompanyName: "Acme", EstimatedValue: -1}},
		{"probability over 100", lead.CreateLeadRequest{CompanyName: "Acme", Probability: 150}},
		{"score out of range", lead.CreateLeadRequest{CompanyName: "Acme", Score: &badScore}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLead(context.Background(), &tt.req)
			assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
		})
	}

	// Invalid requests never reach the store.
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateLeadStoreDownFallsBackLocally(t *testing.T) {
	store := new(mockLeadStore)
	store.On("Create", mock.Anything, mock.Anything).Return(xerrors.ErrStoreUnavailable)

	snap := &fakeSnapshot{}
	svc := newTestService(store, new(mockHistoryStore), snap, &fakeSeed{})

	l, err := svc.CreateLead(context.Background(), &lead.CreateLeadRequest{CompanyName: "Acme"})
	require.NoError(t, err)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, "L-001", l.LeadNumber)
	require.Len(t, snap.leads, 1, "optimistic create lands in the snapshot")
	assert.Equal(t, l.ID, snap.leads[0].ID)
}

func TestSetStageRejectsUnknownStage(t *testing.T) {
	store := new(mockLeadStore)
	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	err := svc.SetStage(context.Background(), "lead-1", "won")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestSetStageRecordsTransition(t *testing.T) {
	store := new(mockLeadStore)
	store.On("FindByID", mock.Anything, "lead-1").
		Return(&lead.Lead{ID: "lead-1", Stage: lead.StageQualified}, nil)
	store.On("UpdateStage", mock.Anything, "lead-1", lead.StageQualified, lead.StageProposal).
		Return(nil)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	require.NoError(t, svc.SetStage(context.Background(), "lead-1", "proposal"))
	store.AssertExpectations(t)
}

func TestSetStageRepeatedSameStageIsIdempotent(t *testing.T) {
	store := new(mockLeadStore)
	store.On("FindByID", mock.Anything, "lead-1").
		Return(&lead.Lead{ID: "lead-1", Stage: lead.StageProposal}, nil)
	// Repeating the current stage reaches the store as a from==to update,
	// which only touches updated_at and records no transition.
	store.On("UpdateStage", mock.Anything, "lead-1", lead.StageProposal, lead.StageProposal).
		Return(nil)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	require.NoError(t, svc.SetStage(context.Background(), "lead-1", "proposal"))
	require.NoError(t, svc.SetStage(context.Background(), "lead-1", "proposal"))

	// The mock only matches from==to; a call recording a real transition
	// would have failed above.
	store.AssertNumberOfCalls(t, "UpdateStage", 2)
}

func TestSetStageUnknownLeadIsNoOp(t *testing.T) {
	store := new(mockLeadStore)
	store.On("FindByID", mock.Anything, "gone").Return(nil, xerrors.ErrNotFound)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	assert.NoError(t, svc.SetStage(context.Background(), "gone", "demo"))
	store.AssertNotCalled(t, "UpdateStage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetStageStoreDownAppliesLocally(t *testing.T) {
	store := new(mockLeadStore)
	store.On("FindByID", mock.Anything, "lead-1").Return(nil, xerrors.ErrStoreUnavailable)

	snap := &fakeSnapshot{
		leads: []lead.Lead{{ID: "lead-1", Stage: lead.StageNew}},
		ok:    true,
	}
	svc := newTestService(store, new(mockHistoryStore), snap, &fakeSeed{})

	require.NoError(t, svc.SetStage(context.Background(), "lead-1", "negotiation"))
	assert.Equal(t, lead.StageNegotiation, snap.leads[0].Stage)
	assert.False(t, snap.leads[0].StageEnteredAt.IsZero())
}

func TestDeleteLeadMissingIsNoOp(t *testing.T) {
	store := new(mockLeadStore)
	store.On("Delete", mock.Anything, "gone").Return(xerrors.ErrNotFound)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	assert.NoError(t, svc.DeleteLead(context.Background(), "gone"))
}

func TestListLeadsLiveRefreshesSnapshot(t *testing.T) {
	live := []lead.Lead{
		{ID: "1", CompanyName: "Acme Industrial", Stage: lead.StageNew, Score: 55},
	}

	store := new(mockLeadStore)
	store.On("List", mock.Anything).Return(live, nil)

	snap := &fakeSnapshot{}
	svc := newTestService(store, new(mockHistoryStore), snap, &fakeSeed{})

	resp, err := svc.ListLeads(context.Background(), lead.ListFilters{})
	require.NoError(t, err)

	assert.Equal(t, lead.DataSourceLive, resp.DataSource)
	assert.Equal(t, 1, resp.Total)
	assert.True(t, snap.ok, "a live read refreshes the snapshot")
}

func TestListLeadsFallsBackToSnapshotThenSeed(t *testing.T) {
	store := new(mockLeadStore)
	store.On("List", mock.Anything).Return(nil, xerrors.ErrStoreUnavailable)

	seed := &fakeSeed{leads: []lead.Lead{{ID: "seed-1", CompanyName: "Seeded Co", Stage: lead.StageNew}}}

	// Snapshot present: cache wins.
	snap := &fakeSnapshot{
		leads: []lead.Lead{{ID: "cached-1", CompanyName: "Cached Co", Stage: lead.StageDemo}},
		ok:    true,
	}
	svc := newTestService(store, new(mockHistoryStore), snap, seed)

	resp, err := svc.ListLeads(context.Background(), lead.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, lead.DataSourceCache, resp.DataSource)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "cached-1", resp.Leads[0].ID)

	// No snapshot: seed fixture is the last resort.
	svc = newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, seed)

	resp, err = svc.ListLeads(context.Background(), lead.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, lead.DataSourceSeed, resp.DataSource)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "seed-1", resp.Leads[0].ID)
}

func TestListLeadsAppliesFilters(t *testing.T) {
	live := []lead.Lead{
		{ID: "1", CompanyName: "Acme Industrial", Stage: lead.StageNegotiation, Score: 55},
		{ID: "2", CompanyName: "Acme Retail", Stage: lead.StageNew, Score: 55},
		{ID: "3", CompanyName: "Birchwood Supply", Stage: lead.StageNegotiation, Score: 55},
	}

	store := new(mockLeadStore)
	store.On("List", mock.Anything).Return(live, nil)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	resp, err := svc.ListLeads(context.Background(), lead.ListFilters{Search: "acme", Stage: "negotiation"})
	require.NoError(t, err)
	require.Equal(t, 1, resp.Total)
	assert.Equal(t, "1", resp.Leads[0].ID)
	assert.Equal(t, lead.TierWarm, resp.Leads[0].Classification.Tier)
}

func TestUpdateLeadValidatesBeforeStore(t *testing.T) {
	store := new(mockLeadStore)
	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	blank := "  "
	_, err := svc.UpdateLead(context.Background(), "lead-1", &lead.UpdateLeadRequest{CompanyName: &blank})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestUpdateLeadMergesFields(t *testing.T) {
	existing := &lead.Lead{ID: "lead-1", CompanyName: "Acme Industrial", Stage: lead.StageDemo, Score: 40}

	store := new(mockLeadStore)
	store.On("FindByID", mock.Anything, "lead-1").Return(existing, nil)
	store.On("Update", mock.Anything, "lead-1", mock.Anything).Return(nil)

	svc := newTestService(store, new(mockHistoryStore), &fakeSnapshot{}, &fakeSeed{})

	newScore := 85
	l, err := svc.UpdateLead(context.Background(), "lead-1", &lead.UpdateLeadRequest{Score: &newScore})
	require.NoError(t, err)

	assert.Equal(t, 85, l.Score)
	assert.Equal(t, "Acme Industrial", l.CompanyName, "unset fields keep their values")
	assert.Equal(t, lead.StageDemo, l.Stage, "field edits never move stage")
}

func TestStageHistoryPassthrough(t *testing.T) {
	history := new(mockHistoryStore)
	history.On("ListByLead", mock.Anything, "lead-1").Return([]lead.StageTransition{
		{ID: 2, LeadID: "lead-1", FromStage: lead.StageQualified, ToStage: lead.StageProposal},
		{ID: 1, LeadID: "lead-1", FromStage: lead.StageNew, ToStage: lead.StageQualified},
	}, nil)

	svc := newTestService(new(mockLeadStore), history, &fakeSnapshot{}, &fakeSeed{})

	transitions, err := svc.StageHistory(context.Background(), "lead-1")
	require.NoError(t, err)
	require.Len(t, transitions, 2)
	assert.Equal(t, lead.StageProposal, transitions[0].ToStage, "newest first")
}
