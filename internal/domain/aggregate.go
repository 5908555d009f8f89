package domain

import (
	"sort"
	"time"
)

// AggregatedZipRecord is one row of the per-cycle archival zip snapshot:
// the summed outage count for a zip across every provider that serves it.
// Provider holds the contributing provider's abbreviation until a second
// provider contributes, then becomes MultiProviderTag.
type AggregatedZipRecord struct {
	Zip         string    `json:"zip"`
	Provider    string    `json:"provider"`
	Outages     int       `json:"outages"`
	DateCreated time.Time `json:"date_created"`
	DateUpdated time.Time `json:"date_updated"`
}

// ZipAggregator sums zip-style outage records across providers for one
// reconciliation cycle. The same zip can be served by more than one
// utility; double service must be summed, not overwritten.
// Not safe for concurrent use; the sync layer feeds it after all provider
// pipelines complete.
type ZipAggregator struct {
	records map[string]*AggregatedZipRecord
}

// NewZipAggregator creates an empty aggregator for one cycle.
func NewZipAggregator() *ZipAggregator {
	return &ZipAggregator{records: make(map[string]*AggregatedZipRecord)}
}

// Add folds one zip record into the running totals.
func (a *ZipAggregator) Add(o Outage, created, updated time.Time) {
	existing, ok := a.records[o.Area]
	if !ok {
		a.records[o.Area] = &AggregatedZipRecord{
			Zip:         o.Area,
			Provider:    o.Provider,
			Outages:     o.Outages,
			DateCreated: created,
			DateUpdated: updated,
		}
		return
	}

	existing.Outages += o.Outages
	if existing.Provider != o.Provider {
		existing.Provider = MultiProviderTag
	}
}

// Records returns the snapshot sorted by zip code.
func (a *ZipAggregator) Records() []AggregatedZipRecord {
	out := make([]AggregatedZipRecord, 0, len(a.records))
	for _, rec := range a.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Zip < out[j].Zip })
	return out
}
