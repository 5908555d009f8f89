package domain_test

import (
	"log/slog"
	"testing"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInventory() domain.Inventory {
	return domain.Inventory{
		"21601": "Easton",
		"21602": "Easton",
		"20601": "Waldorf",
		"20602": "Waldorf",
		"20603": "Waldorf",
		"99999": "Testville",
	}
}

func groupedZip(area string, outages int) domain.Outage {
	return domain.Outage{
		Provider:  "PEP",
		Style:     domain.Zip,
		Area:      area,
		Outages:   outages,
		Customers: 1500,
		State:     domain.Maryland,
	}
}

func TestSplitGroupedZips_EvenAndRemainderDistribution(t *testing.T) {
	out := domain.SplitGroupedZips([]domain.Outage{groupedZip("21601,21602", 5)}, testInventory(), slog.Default())

	require.Len(t, out, 2)
	assert.Equal(t, "21601", out[0].Area)
	assert.Equal(t, 3, out[0].Outages)
	assert.Equal(t, "21602", out[1].Area)
	assert.Equal(t, 2, out[1].Outages)

	// group totals are conserved and per-zip customer counts are unknowable
	assert.Equal(t, 5, out[0].Outages+out[1].Outages)
	assert.Equal(t, domain.UnknownCount, out[0].Customers)
	assert.Equal(t, domain.UnknownCount, out[1].Customers)
}

func TestSplitGroupedZips_CountConservation(t *testing.T) {
	cases := []struct {
		area    string
		outages int
	}{
		{"20601,20602,20603", 10},
		{"20601,20602,20603", 11},
		{"20601,20602,20603", 1},
		{"20601, 20602 , 20603", 100003},
		{"21601,00000,21602", 7}, // invalid zip in the middle
		{"21601", 4},             // no delimiter, passes through
	}

	for _, tc := range cases {
		out := domain.SplitGroupedZips([]domain.Outage{groupedZip(tc.area, tc.outages)}, testInventory(), slog.Default())
		require.NotEmpty(t, out, "area %q", tc.area)

		total := 0
		for _, o := range out {
			total += o.Outages
		}
		assert.Equal(t, tc.outages, total, "area %q", tc.area)
	}
}

func TestSplitGroupedZips_Deterministic(t *testing.T) {
	in := []domain.Outage{groupedZip("20601,20602,20603", 11)}

	first := domain.SplitGroupedZips(in, testInventory(), slog.Default())
	second := domain.SplitGroupedZips(in, testInventory(), slog.Default())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("split not deterministic (-first +second):\n%s", diff)
	}
}

func TestSplitGroupedZips_SingleValidZipGetsFullCount(t *testing.T) {
	out := domain.SplitGroupedZips([]domain.Outage{groupedZip("00000,99999", 8)}, testInventory(), slog.Default())

	require.Len(t, out, 1)
	assert.Equal(t, "99999", out[0].Area)
	assert.Equal(t, 8, out[0].Outages)
}

func TestSplitGroupedZips_AllInvalidDropsRecord(t *testing.T) {
	out := domain.SplitGroupedZips([]domain.Outage{groupedZip("00000,11111", 8)}, testInventory(), slog.Default())
	assert.Empty(t, out)
}

func TestSplitGroupedZips_UngroupedRecordsUntouched(t *testing.T) {
	single := groupedZip("21601", 4)
	out := domain.SplitGroupedZips([]domain.Outage{single}, testInventory(), slog.Default())

	require.Len(t, out, 1)
	assert.Equal(t, single, out[0])
	assert.Equal(t, 1500, out[0].Customers) // customer count survives, no split happened
}
