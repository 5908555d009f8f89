package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
	"github.com/couchcryptid/outage-feed-etl/internal/memory"
)

var smeCounties = []string{"Calvert", "Charles", "St. Mary's"}

func countyOutage(area string, outages, customers int) domain.Outage {
	return domain.Outage{
		Provider:  "SME",
		Style:     domain.County,
		Area:      area,
		Outages:   outages,
		Customers: customers,
		State:     domain.Maryland,
	}
}

func TestMerge_AbsentCountyKeepsMemoryBaseline(t *testing.T) {
	baseline := map[string]int{"Calvert": 12000, "Charles": 48000, "St. Mary's": 39000}

	// quiet cycle: the feed omits Calvert entirely
	live := []domain.Outage{
		countyOutage("Charles", 5, 48100),
		countyOutage("St. Mary's", 2, 39000),
	}

	merged := memory.Merge("SME", domain.Maryland, smeCounties, baseline, live)
	require.Len(t, merged, 3)

	byArea := make(map[string]domain.Outage)
	for _, o := range merged {
		byArea[o.Area] = o
	}

	assert.Equal(t, 0, byArea["Calvert"].Outages)
	assert.Equal(t, 12000, byArea["Calvert"].Customers)
	assert.Equal(t, 5, byArea["Charles"].Outages)
	assert.Equal(t, 48100, byArea["Charles"].Customers)
}

func TestMerge_LiveValuesReplaceBaseline(t *testing.T) {
	baseline := map[string]int{"Calvert": 12000}

	live := []domain.Outage{countyOutage("Calvert", 7, 12500)}
	merged := memory.Merge("SME", domain.Maryland, []string{"Calvert"}, baseline, live)

	require.Len(t, merged, 1)
	assert.Equal(t, 7, merged[0].Outages)
	assert.Equal(t, 12500, merged[0].Customers)
}

func TestMerge_UntrackedLiveCountyAppended(t *testing.T) {
	merged := memory.Merge("SME", domain.Maryland, []string{"Calvert"}, map[string]int{},
		[]domain.Outage{countyOutage("Prince George's", 3, 900)})

	require.Len(t, merged, 2)
	assert.Equal(t, "Calvert", merged[0].Area)
	assert.Equal(t, "Prince George's", merged[1].Area)
}

func TestPendingUpdates_OnlyChangedCountiesWritten(t *testing.T) {
	baseline := map[string]int{"Calvert": 12000, "Charles": 48000}

	merged := []domain.Outage{
		countyOutage("Calvert", 0, 12000), // unchanged, no write
		countyOutage("Charles", 5, 48100), // changed
	}

	updates := memory.PendingUpdates(merged, baseline)
	assert.Equal(t, map[string]int{"Charles": 48100}, updates)
}

func TestPendingUpdates_SentinelNeverOverwritesBaseline(t *testing.T) {
	baseline := map[string]int{"Calvert": 12000}

	merged := []domain.Outage{countyOutage("Calvert", 2, domain.UnknownCount)}
	assert.Empty(t, memory.PendingUpdates(merged, baseline))
}

func TestPendingUpdates_NewCountyRecorded(t *testing.T) {
	merged := []domain.Outage{countyOutage("Charles", 1, 48000)}
	updates := memory.PendingUpdates(merged, map[string]int{})
	assert.Equal(t, map[string]int{"Charles": 48000}, updates)
}
