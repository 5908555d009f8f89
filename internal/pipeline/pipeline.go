// Package pipeline orchestrates one reconciliation cycle: fetch every
// provider feed, normalize and split the reports, reconcile customer
// counts, and republish to the realtime, archive, and cloud stores.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/couchcryptid/outage-feed-etl/internal/adapter/socrata"
	"github.com/couchcryptid/outage-feed-etl/internal/domain"
	"github.com/couchcryptid/outage-feed-etl/internal/memory"
	"github.com/couchcryptid/outage-feed-etl/internal/observability"
	"github.com/couchcryptid/outage-feed-etl/internal/provider"
)

// OutageStore is the transactional realtime and archive table store.
type OutageStore interface {
	ReplaceRealtime(ctx context.Context, provider string, style domain.AreaType, outages []domain.Outage, created, updated time.Time) error
	ArchiveZips(ctx context.Context, records []domain.AggregatedZipRecord) error
	ForwardCountyArchive(ctx context.Context) error
	UpdateCustomerCounts(ctx context.Context, counts map[string]int) error
	TouchTaskTracking(ctx context.Context, now time.Time) error
}

// CustomerMemory is the durable per-county customer count store.
type CustomerMemory interface {
	Seed(counties []string) error
	Snapshot() (map[string]int, error)
	Put(county string, customers int) error
}

// CloudPublisher pushes dataset rows to the open data portal.
type CloudPublisher interface {
	Upsert(ctx context.Context, datasetID string, records any) error
	QueryUIDsOlderThan(ctx context.Context, datasetID, stampField string, cutoff time.Time) ([]string, error)
	DeleteRow(ctx context.Context, datasetID, uid string) error
}

// SnapshotPublisher streams the cycle's aggregated zip records.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, records []domain.AggregatedZipRecord) error
}

// Alerter notifies operators about unhealthy feeds.
type Alerter interface {
	FeedTrouble(state domain.ProviderFeedState)
}

// CloudDatasets identifies the portal datasets and their retention.
type CloudDatasets struct {
	County        string
	Zip           string
	FeedStatus    string
	RetentionDays int
}

// Options carries the cycle settings that are not collaborators.
type Options struct {
	TargetState    string
	FetchWorkers   int
	StatusFilePath string

	// MemoryProvider is the provider whose county feed omits quiet
	// counties and therefore runs through the customer count memory.
	MemoryProvider string
	MemoryCounties []string

	Datasets CloudDatasets
}

// Pipeline runs reconciliation cycles over a fixed adapter set.
type Pipeline struct {
	adapters  []provider.Adapter
	store     OutageStore
	memory    CustomerMemory
	cloud     CloudPublisher    // nil disables cloud publishing
	snapshots SnapshotPublisher // nil disables stream publishing
	alerter   Alerter           // nil disables alert mail
	inventory domain.Inventory
	logger    *slog.Logger
	metrics   *observability.Metrics
	opts      Options
	ready     atomic.Bool
}

// New creates a Pipeline. cloud, snapshots, and alerter may be nil.
func New(adapters []provider.Adapter, store OutageStore, memory CustomerMemory, cloud CloudPublisher, snapshots SnapshotPublisher, alerter Alerter, inventory domain.Inventory, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Pipeline {
	if opts.FetchWorkers <= 0 {
		opts.FetchWorkers = 4
	}
	return &Pipeline{
		adapters:  adapters,
		store:     store,
		memory:    memory,
		cloud:     cloud,
		snapshots: snapshots,
		alerter:   alerter,
		inventory: inventory,
		logger:    logger,
		metrics:   metrics,
		opts:      opts,
	}
}

// CheckReadiness returns nil once at least one cycle has completed.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no reconciliation cycle has completed yet")
	}
	return nil
}

// Run executes cycles at the given interval until the context is
// cancelled. A cycle error is logged, never fatal; the next tick retries.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	p.logger.Info("pipeline started", "interval", interval, "adapters", len(p.adapters))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := p.RunCycle(ctx); err != nil {
			p.logger.Error("cycle completed with errors", "error", err)
		}
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.C:
		}
	}
}

// RunCycle executes one full fetch-normalize-publish cycle. Stage
// failures are collected rather than aborting: a broken archive write
// must not stop the realtime tables from updating.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	start := time.Now()
	now := domain.Now()
	p.metrics.CycleRunning.Set(1)
	defer p.metrics.CycleRunning.Set(0)
	defer func() {
		p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	}()

	results := p.fetchAll(ctx)

	normalized := p.normalizeAll(results)

	var errs []error
	if err := p.reconcileCustomerCounts(normalized); err != nil {
		errs = append(errs, err)
	}
	if err := p.rollupCustomerCounts(ctx, normalized); err != nil {
		errs = append(errs, err)
	}

	zipRecords := p.syncRealtime(ctx, results, normalized, now, &errs)

	if err := p.store.ArchiveZips(ctx, zipRecords); err != nil {
		p.metrics.SyncFailures.WithLabelValues("archive").Inc()
		errs = append(errs, err)
	}
	if err := p.store.ForwardCountyArchive(ctx); err != nil {
		p.metrics.SyncFailures.WithLabelValues("archive").Inc()
		errs = append(errs, err)
	}
	if err := p.store.TouchTaskTracking(ctx, now); err != nil {
		errs = append(errs, err)
	}

	states := make([]domain.ProviderFeedState, len(results))
	for i, r := range results {
		states[i] = r.State
	}
	if err := WriteStatusFile(p.opts.StatusFilePath, states); err != nil {
		errs = append(errs, err)
	}
	p.sendAlerts(states)

	if p.cloud != nil {
		if err := p.publishCloud(ctx, normalized, states, now); err != nil {
			p.metrics.SyncFailures.WithLabelValues("cloud").Inc()
			errs = append(errs, err)
		}
	}
	if p.snapshots != nil && len(zipRecords) > 0 {
		if err := p.snapshots.PublishSnapshot(ctx, zipRecords); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) == 0 {
		p.ready.Store(true)
		p.logger.Info("cycle complete", "duration", time.Since(start))
		return nil
	}
	return errors.Join(errs...)
}

// fetchAll runs every adapter concurrently with a bounded worker count.
// Fetch failures degrade to zero reports; the feed state survives for
// status reporting either way.
func (p *Pipeline) fetchAll(ctx context.Context) []provider.Result {
	results := make([]provider.Result, len(p.adapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.FetchWorkers)
	for i, adapter := range p.adapters {
		g.Go(func() error {
			result, err := adapter.Fetch(gctx)
			if err != nil {
				p.logger.Error("feed fetch failed", "provider", adapter.Provider(), "style", adapter.Style(), "error", err)
				p.metrics.FetchFailures.WithLabelValues(adapter.Provider(), string(adapter.Style())).Inc()
			}
			if result.State.Provider == "" {
				result.State = domain.ProviderFeedState{Provider: adapter.Provider(), Style: adapter.Style()}
			}
			results[i] = result
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors

	for _, r := range results {
		labels := []string{r.State.Provider, string(r.State.Style)}
		p.metrics.ReportsFetched.WithLabelValues(labels...).Add(float64(len(r.Reports)))
		p.metrics.FeedDataAge.WithLabelValues(labels...).Set(r.State.DataAgeMinutes)
	}
	return results
}

// normalizeAll cleans each adapter's raw reports and splits grouped zip
// areas into per-zip records.
func (p *Pipeline) normalizeAll(results []provider.Result) [][]domain.Outage {
	normalized := make([][]domain.Outage, len(results))
	for i, r := range results {
		outs := domain.Normalize(r.Reports, p.opts.TargetState)
		for _, o := range outs {
			if o.Outages == domain.UnknownCount || o.Customers == domain.UnknownCount {
				p.metrics.CoercionFallbacks.Inc()
			}
		}
		if r.State.Style == domain.Zip {
			before := len(outs)
			outs = domain.SplitGroupedZips(outs, p.inventory, p.logger)
			if before > len(outs) {
				// only all-invalid groups shrink the record count
				p.metrics.DroppedZipGroups.Add(float64(before - len(outs)))
			}
		}
		normalized[i] = outs
	}
	return normalized
}

// reconcileCustomerCounts overlays the memory provider's live county
// feed on its remembered baselines and writes back what changed.
func (p *Pipeline) reconcileCustomerCounts(normalized [][]domain.Outage) error {
	if p.opts.MemoryProvider == "" {
		return nil
	}
	idx := -1
	for i, a := range p.adapters {
		if a.Provider() == p.opts.MemoryProvider && a.Style() == domain.County {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	if err := p.memory.Seed(p.opts.MemoryCounties); err != nil {
		return fmt.Errorf("seed customer count memory: %w", err)
	}
	baseline, err := p.memory.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot customer count memory: %w", err)
	}

	merged := memory.Merge(p.opts.MemoryProvider, p.opts.TargetState, p.opts.MemoryCounties, baseline, normalized[idx])
	normalized[idx] = merged

	updates := memory.PendingUpdates(merged, baseline)
	if len(updates) == 0 {
		return nil
	}
	for county, customers := range updates {
		if err := p.memory.Put(county, customers); err != nil {
			return fmt.Errorf("persist customer count %s: %w", county, err)
		}
	}
	p.logger.Info("customer counts reconciled", "updated", len(updates))
	return nil
}

// rollupCustomerCounts sums live county customer counts across providers
// and refreshes the customers table the percent-outage view joins on.
// Unknown sentinels are excluded from sums; a sentinel added to a total
// is silent corruption.
func (p *Pipeline) rollupCustomerCounts(ctx context.Context, normalized [][]domain.Outage) error {
	sums := make(map[string]int)
	for _, outs := range normalized {
		for _, o := range outs {
			if o.Style != domain.County || o.State != p.opts.TargetState || o.Customers == domain.UnknownCount {
				continue
			}
			sums[o.Area] += o.Customers
		}
	}
	if len(sums) == 0 {
		return nil
	}
	if err := p.store.UpdateCustomerCounts(ctx, sums); err != nil {
		return fmt.Errorf("update customer counts table: %w", err)
	}
	return nil
}

// syncRealtime replaces each provider's realtime rows and accumulates
// the cross-provider zip aggregation while iterating.
func (p *Pipeline) syncRealtime(ctx context.Context, results []provider.Result, normalized [][]domain.Outage, now time.Time, errs *[]error) []domain.AggregatedZipRecord {
	agg := domain.NewZipAggregator()

	for i, r := range results {
		outs := normalized[i]
		created := r.State.DateCreated
		if created.IsZero() {
			created = now
		}

		if err := p.store.ReplaceRealtime(ctx, r.State.Provider, r.State.Style, outs, created, now); err != nil {
			p.metrics.SyncFailures.WithLabelValues("realtime").Inc()
			*errs = append(*errs, err)
			continue
		}

		if r.State.Style != domain.Zip {
			continue
		}
		for _, o := range outs {
			if o.Outages == domain.UnknownCount {
				p.logger.Warn("zip record with unknown count excluded from aggregation", "provider", o.Provider, "zip", o.Area)
				continue
			}
			agg.Add(o, created, now)
		}
	}
	return agg.Records()
}

func (p *Pipeline) sendAlerts(states []domain.ProviderFeedState) {
	if p.alerter == nil {
		return
	}
	for _, s := range states {
		if !s.Healthy() {
			p.alerter.FeedTrouble(s)
		}
	}
}

// publishCloud upserts the cycle's grouped sums and feed statuses to the
// portal datasets, then prunes rows past the retention window. Row
// deletions are independent; one failure must not strand the rest.
func (p *Pipeline) publishCloud(ctx context.Context, normalized [][]domain.Outage, states []domain.ProviderFeedState, now time.Time) error {
	runStamp := socrata.Stamp(now)
	countyRecords, zipRecords := groupForCloud(normalized, runStamp)

	statusRecords := make([]socrata.FeedStatusRecord, len(states))
	for i, s := range states {
		statusRecords[i] = socrata.NewFeedStatusRecord(s, runStamp)
	}

	var errs []error
	if err := p.cloud.Upsert(ctx, p.opts.Datasets.County, countyRecords); err != nil {
		errs = append(errs, err)
	}
	if err := p.cloud.Upsert(ctx, p.opts.Datasets.Zip, zipRecords); err != nil {
		errs = append(errs, err)
	}
	if err := p.cloud.Upsert(ctx, p.opts.Datasets.FeedStatus, statusRecords); err != nil {
		errs = append(errs, err)
	}

	cutoff := now.AddDate(0, 0, -p.opts.Datasets.RetentionDays)
	for _, dataset := range []string{p.opts.Datasets.County, p.opts.Datasets.Zip, p.opts.Datasets.FeedStatus} {
		uids, err := p.cloud.QueryUIDsOlderThan(ctx, dataset, "dt_stamp", cutoff)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		deleted := 0
		for _, uid := range uids {
			if err := p.cloud.DeleteRow(ctx, dataset, uid); err != nil {
				p.logger.Warn("retention delete failed", "dataset", dataset, "uid", uid, "error", err)
				continue
			}
			deleted++
		}
		if len(uids) > 0 {
			p.logger.Info("retention pruned", "dataset", dataset, "expired", len(uids), "deleted", deleted)
		}
	}
	return errors.Join(errs...)
}

// groupForCloud sums outage records by style and area across providers,
// mirroring how the portal datasets are keyed. Unknown sentinel counts
// are excluded from sums but preserved when they are the only value.
func groupForCloud(normalized [][]domain.Outage, runStamp string) ([]socrata.CountyOutageRecord, []socrata.ZipOutageRecord) {
	type sums struct {
		outages   int
		customers int
	}
	countySums := make(map[string]*sums)
	zipSums := make(map[string]*sums)
	var countyOrder, zipOrder []string

	for _, outs := range normalized {
		for _, o := range outs {
			byArea := countySums
			order := &countyOrder
			if o.Style == domain.Zip {
				byArea = zipSums
				order = &zipOrder
			}
			s, ok := byArea[o.Area]
			if !ok {
				s = &sums{}
				byArea[o.Area] = s
				*order = append(*order, o.Area)
			}
			if o.Outages != domain.UnknownCount {
				s.outages += o.Outages
			}
			if o.Customers != domain.UnknownCount {
				s.customers += o.Customers
			}
		}
	}

	countyRecords := make([]socrata.CountyOutageRecord, 0, len(countyOrder))
	for _, area := range countyOrder {
		s := countySums[area]
		countyRecords = append(countyRecords, socrata.NewCountyOutageRecord(area, s.outages, s.customers, runStamp))
	}
	zipRecords := make([]socrata.ZipOutageRecord, 0, len(zipOrder))
	for _, area := range zipOrder {
		s := zipSums[area]
		zipRecords = append(zipRecords, socrata.ZipOutageRecord{
			UID:     socrata.UID(area, runStamp),
			Area:    area,
			Outages: s.outages,
			DtStamp: runStamp,
		})
	}
	return countyRecords, zipRecords
}
