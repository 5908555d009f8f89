package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
	"github.com/couchcryptid/outage-feed-etl/internal/observability"
	"github.com/couchcryptid/outage-feed-etl/internal/pipeline"
	"github.com/couchcryptid/outage-feed-etl/internal/provider"
)

type stubAdapter struct {
	provider string
	style    domain.AreaType
	result   provider.Result
	err      error
}

func (a *stubAdapter) Provider() string       { return a.provider }
func (a *stubAdapter) Style() domain.AreaType { return a.style }
func (a *stubAdapter) Fetch(context.Context) (provider.Result, error) {
	return a.result, a.err
}

func healthyState(prov string, style domain.AreaType) domain.ProviderFeedState {
	return domain.ProviderFeedState{Provider: prov, Style: style, DataStatus: 200}
}

type replaceCall struct {
	provider string
	style    domain.AreaType
	outages  []domain.Outage
}

type fakeStore struct {
	replaceCalls   []replaceCall
	replaceErrFor  string
	archived       []domain.AggregatedZipRecord
	countyForwards int
	customerCounts map[string]int
	touched        bool
}

func (s *fakeStore) ReplaceRealtime(_ context.Context, prov string, style domain.AreaType, outages []domain.Outage, _, _ time.Time) error {
	if prov == s.replaceErrFor {
		return errors.New("realtime write refused")
	}
	s.replaceCalls = append(s.replaceCalls, replaceCall{provider: prov, style: style, outages: outages})
	return nil
}

func (s *fakeStore) ArchiveZips(_ context.Context, records []domain.AggregatedZipRecord) error {
	s.archived = records
	return nil
}

func (s *fakeStore) ForwardCountyArchive(context.Context) error {
	s.countyForwards++
	return nil
}

func (s *fakeStore) UpdateCustomerCounts(_ context.Context, counts map[string]int) error {
	s.customerCounts = counts
	return nil
}

func (s *fakeStore) TouchTaskTracking(context.Context, time.Time) error {
	s.touched = true
	return nil
}

type fakeMemory struct {
	entries map[string]int
}

func newFakeMemory(entries map[string]int) *fakeMemory {
	if entries == nil {
		entries = make(map[string]int)
	}
	return &fakeMemory{entries: entries}
}

func (m *fakeMemory) Seed(counties []string) error {
	for _, c := range counties {
		if _, ok := m.entries[c]; !ok {
			m.entries[c] = 0
		}
	}
	return nil
}

func (m *fakeMemory) Snapshot() (map[string]int, error) {
	snap := make(map[string]int, len(m.entries))
	for k, v := range m.entries {
		snap[k] = v
	}
	return snap, nil
}

func (m *fakeMemory) Put(county string, customers int) error {
	m.entries[county] = customers
	return nil
}

type fakeAlerter struct {
	troubled []domain.ProviderFeedState
}

func (a *fakeAlerter) FeedTrouble(state domain.ProviderFeedState) {
	a.troubled = append(a.troubled, state)
}

type fakeCloud struct {
	upserts    map[string]any
	staleUIDs  []string
	deleteFail map[string]bool
	deleted    []string
}

func newFakeCloud() *fakeCloud {
	return &fakeCloud{upserts: make(map[string]any), deleteFail: make(map[string]bool)}
}

func (c *fakeCloud) Upsert(_ context.Context, datasetID string, records any) error {
	c.upserts[datasetID] = records
	return nil
}

func (c *fakeCloud) QueryUIDsOlderThan(_ context.Context, datasetID, _ string, _ time.Time) ([]string, error) {
	if datasetID == "county-ds" {
		return c.staleUIDs, nil
	}
	return nil, nil
}

func (c *fakeCloud) DeleteRow(_ context.Context, _ string, uid string) error {
	if c.deleteFail[uid] {
		return errors.New("row locked")
	}
	c.deleted = append(c.deleted, uid)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newPipeline(t *testing.T, adapters []provider.Adapter, store *fakeStore, mem *fakeMemory, cloud pipeline.CloudPublisher, alerter pipeline.Alerter, opts pipeline.Options) *pipeline.Pipeline {
	t.Helper()
	if opts.TargetState == "" {
		opts.TargetState = domain.Maryland
	}
	if opts.StatusFilePath == "" {
		opts.StatusFilePath = filepath.Join(t.TempDir(), "feed_status.json")
	}
	return pipeline.New(adapters, store, mem, cloud, nil, alerter,
		domain.MarylandZips(), testLogger(), observability.NewMetricsForTesting(), opts)
}

func TestRunCycle_ReplacesRealtimePerProvider(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{provider: "CTK", style: domain.County, result: provider.Result{
			Reports: []domain.Report{
				{Provider: "CTK", Style: domain.County, Area: "Kent", Outages: "5", Customers: "11000", State: "MD"},
			},
			State: healthyState("CTK", domain.County),
		}},
		&stubAdapter{provider: "CTK", style: domain.Zip, result: provider.Result{
			Reports: []domain.Report{
				{Provider: "CTK", Style: domain.Zip, Area: "21620", Outages: "12", Customers: "8000", State: "MD"},
			},
			State: healthyState("CTK", domain.Zip),
		}},
	}
	store := &fakeStore{}
	p := newPipeline(t, adapters, store, newFakeMemory(nil), nil, nil, pipeline.Options{})

	require.NoError(t, p.RunCycle(context.Background()))

	require.Len(t, store.replaceCalls, 2)
	assert.Equal(t, "Kent", store.replaceCalls[0].outages[0].Area)
	assert.Equal(t, 5, store.replaceCalls[0].outages[0].Outages)
	assert.True(t, store.touched)
	assert.Equal(t, 1, store.countyForwards)

	require.Len(t, store.archived, 1)
	assert.Equal(t, "21620", store.archived[0].Zip)
	assert.Equal(t, 12, store.archived[0].Outages)

	assert.NoError(t, p.CheckReadiness(context.Background()))
}

func TestRunCycle_SharedZipSummedAcrossProviders(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{provider: "PEP", style: domain.Zip, result: provider.Result{
			Reports: []domain.Report{
				{Provider: "PEP", Style: domain.Zip, Area: "20715", Outages: "10", Customers: "4000", State: domain.Maryland},
			},
			State: healthyState("PEP", domain.Zip),
		}},
		&stubAdapter{provider: "DEL", style: domain.Zip, result: provider.Result{
			Reports: []domain.Report{
				{Provider: "DEL", Style: domain.Zip, Area: "20715", Outages: "10", Customers: "3000", State: domain.Maryland},
			},
			State: healthyState("DEL", domain.Zip),
		}},
	}
	store := &fakeStore{}
	p := newPipeline(t, adapters, store, newFakeMemory(nil), nil, nil, pipeline.Options{})

	require.NoError(t, p.RunCycle(context.Background()))

	require.Len(t, store.archived, 1)
	assert.Equal(t, 20, store.archived[0].Outages)
	assert.Equal(t, domain.MultiProviderTag, store.archived[0].Provider)
}

func TestRunCycle_MemoryBaselineFillsQuietCounty(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{provider: "SME", style: domain.County, result: provider.Result{
			Reports: []domain.Report{
				{Provider: "SME", Style: domain.County, Area: "Charles", Outages: "5", Customers: "48100", State: domain.Maryland},
			},
			State: healthyState("SME", domain.County),
		}},
	}
	store := &fakeStore{}
	mem := newFakeMemory(map[string]int{"Calvert": 12000, "Charles": 48000, "St. Mary's": 39000})
	opts := pipeline.Options{
		MemoryProvider: "SME",
		MemoryCounties: []string{"Calvert", "Charles", "St. Mary's"},
	}
	p := newPipeline(t, adapters, store, mem, nil, nil, opts)

	require.NoError(t, p.RunCycle(context.Background()))

	require.Len(t, store.replaceCalls, 1)
	outs := store.replaceCalls[0].outages
	require.Len(t, outs, 3)

	byArea := make(map[string]domain.Outage)
	for _, o := range outs {
		byArea[o.Area] = o
	}
	assert.Equal(t, 0, byArea["Calvert"].Outages)
	assert.Equal(t, 12000, byArea["Calvert"].Customers)
	assert.Equal(t, 5, byArea["Charles"].Outages)

	// the customers table gets the full roll-up; memory keeps only the change
	assert.Equal(t, map[string]int{"Calvert": 12000, "Charles": 48100, "St. Mary's": 39000}, store.customerCounts)
	assert.Equal(t, 48100, mem.entries["Charles"])
	assert.Equal(t, 12000, mem.entries["Calvert"])
}

func TestRunCycle_RealtimeFailureDoesNotBlockOtherProviders(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{provider: "CTK", style: domain.County, result: provider.Result{
			Reports: []domain.Report{{Provider: "CTK", Style: domain.County, Area: "Kent", Outages: "5", Customers: "1", State: "MD"}},
			State:   healthyState("CTK", domain.County),
		}},
		&stubAdapter{provider: "FES", style: domain.County, result: provider.Result{
			Reports: []domain.Report{{Provider: "FES", Style: domain.County, Area: "Frederick", Outages: "2", Customers: "1", State: domain.Maryland}},
			State:   healthyState("FES", domain.County),
		}},
	}
	store := &fakeStore{replaceErrFor: "CTK"}
	p := newPipeline(t, adapters, store, newFakeMemory(nil), nil, nil, pipeline.Options{})

	err := p.RunCycle(context.Background())
	require.Error(t, err)

	require.Len(t, store.replaceCalls, 1)
	assert.Equal(t, "FES", store.replaceCalls[0].provider)
	assert.True(t, store.touched)
}

func TestRunCycle_AlertForUnhealthyFeed(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{provider: "PEP", style: domain.Zip, result: provider.Result{
			State: domain.ProviderFeedState{Provider: "PEP", Style: domain.Zip, MetadataStatus: 200, DataStatus: 503},
		}},
		&stubAdapter{provider: "CTK", style: domain.County, result: provider.Result{
			State: healthyState("CTK", domain.County),
		}},
	}
	store := &fakeStore{}
	alerter := &fakeAlerter{}
	p := newPipeline(t, adapters, store, newFakeMemory(nil), nil, alerter, pipeline.Options{})

	require.NoError(t, p.RunCycle(context.Background()))

	require.Len(t, alerter.troubled, 1)
	assert.Equal(t, "PEP", alerter.troubled[0].Provider)
}

func TestRunCycle_StatusFileWritten(t *testing.T) {
	statusPath := filepath.Join(t.TempDir(), "feed_status.json")
	adapters := []provider.Adapter{
		&stubAdapter{provider: "EUC", style: domain.Zip, result: provider.Result{
			State: domain.ProviderFeedState{Provider: "EUC", Style: domain.Zip, DataStatus: 200, DataAgeMinutes: 12.5},
		}},
	}
	store := &fakeStore{}
	p := newPipeline(t, adapters, store, newFakeMemory(nil), nil, nil, pipeline.Options{StatusFilePath: statusPath})

	require.NoError(t, p.RunCycle(context.Background()))

	data, err := os.ReadFile(statusPath)
	require.NoError(t, err)

	var status map[string]struct {
		Data       int     `json:"data"`
		DataAgeMin float64 `json:"data_age_min"`
	}
	require.NoError(t, json.Unmarshal(data, &status))
	require.Contains(t, status, "EUC_ZIP")
	assert.Equal(t, 200, status["EUC_ZIP"].Data)
	assert.InDelta(t, 12.5, status["EUC_ZIP"].DataAgeMin, 1e-9)
}

func TestRunCycle_CloudPublishAndRetention(t *testing.T) {
	adapters := []provider.Adapter{
		&stubAdapter{provider: "FES", style: domain.County, result: provider.Result{
			Reports: []domain.Report{
				{Provider: "FES", Style: domain.County, Area: "Frederick", Outages: "210", Customers: "88000", State: domain.Maryland},
			},
			State: healthyState("FES", domain.County),
		}},
	}
	store := &fakeStore{}
	cloud := newFakeCloud()
	cloud.staleUIDs = []string{"old1", "old2", "old3"}
	cloud.deleteFail["old2"] = true

	opts := pipeline.Options{
		Datasets: pipeline.CloudDatasets{County: "county-ds", Zip: "zip-ds", FeedStatus: "status-ds", RetentionDays: 30},
	}
	p := newPipeline(t, adapters, store, newFakeMemory(nil), cloud, nil, opts)

	require.NoError(t, p.RunCycle(context.Background()))

	require.Contains(t, cloud.upserts, "county-ds")
	require.Contains(t, cloud.upserts, "zip-ds")
	require.Contains(t, cloud.upserts, "status-ds")

	// one locked row must not stop the other deletions
	assert.ElementsMatch(t, []string{"old1", "old3"}, cloud.deleted)
}

func TestCheckReadiness_BeforeFirstCycle(t *testing.T) {
	p := newPipeline(t, nil, &fakeStore{}, newFakeMemory(nil), nil, nil, pipeline.Options{})
	assert.Error(t, p.CheckReadiness(context.Background()))
}
