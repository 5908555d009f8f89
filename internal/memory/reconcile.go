package memory

import (
	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// Merge builds a provider's county stats for one cycle from memory
// baselines overlaid with the live feed.
//
// Every tracked county starts as a zero-outage record carrying its
// remembered customer count. Counties present in the live feed replace
// their baseline with live outage and customer values; baseline-only
// counties keep memory values with zero outages. Live records for
// counties outside the tracked list are appended unchanged.
func Merge(provider, state string, tracked []string, baseline map[string]int, live []domain.Outage) []domain.Outage {
	liveByCounty := make(map[string]domain.Outage, len(live))
	for _, o := range live {
		liveByCounty[o.Area] = o
	}

	merged := make([]domain.Outage, 0, len(tracked)+len(live))
	seen := make(map[string]struct{}, len(tracked))

	for _, county := range tracked {
		seen[county] = struct{}{}
		if o, ok := liveByCounty[county]; ok {
			merged = append(merged, o)
			continue
		}
		merged = append(merged, domain.Outage{
			Provider:  provider,
			Style:     domain.County,
			Area:      county,
			Outages:   0,
			Customers: baseline[county],
			State:     state,
		})
	}

	for _, o := range live {
		if _, ok := seen[o.Area]; !ok {
			merged = append(merged, o)
		}
	}

	return merged
}

// PendingUpdates compares merged customer counts against the pre-cycle
// baseline and returns only the counties whose value changed, avoiding
// needless writes. Unknown-count sentinels never overwrite a remembered
// baseline: the whole point of the store is surviving cycles without
// usable live data.
func PendingUpdates(merged []domain.Outage, baseline map[string]int) map[string]int {
	updates := make(map[string]int)
	for _, o := range merged {
		if o.Customers == domain.UnknownCount {
			continue
		}
		if prior, ok := baseline[o.Area]; ok && prior == o.Customers {
			continue
		}
		updates[o.Area] = o.Customers
	}
	return updates
}
