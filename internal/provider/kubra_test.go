package provider_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
	"github.com/couchcryptid/outage-feed-etl/internal/provider"
)

const kubraConfigBody = `{
	"config": {
		"reports": {
			"data": {
				"interval_generation_data": [
					{"source": "county-src"},
					{"source": "zip-src"}
				]
			}
		}
	}
}`

// newKubraServer wires the metadata, configuration, and report feeds with
// the token substitutions a real deployment performs.
func newKubraServer(t *testing.T, reportPath, reportBody string) (*httptest.Server, provider.Endpoints) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"stormcenterDeploymentId": "dep-42",
			"updatedAt": 1788087600000,
			"data": {"interval_generation_data": "2026_08_30_07_00_00"}
		}`))
	})
	mux.HandleFunc("/config/dep-42.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(kubraConfigBody))
	})
	mux.HandleFunc(reportPath, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(reportBody))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv, provider.Endpoints{
		Metadata: srv.URL + "/metadata",
		Config:   srv.URL + "/config/{deployment_id}.json",
		Data:     srv.URL + "/public/{interval_generation_data}/{source}/report.json",
	}
}

func TestDEL_Fetch_StateBlocksExpanded(t *testing.T) {
	reportBody := `{
		"file_data": {
			"areas": [
				{"name": "MD", "areas": [
					{"name": "Cecil", "cust_a": {"val": 44}, "cust_s": 31000}
				]},
				{"name": "DE", "areas": [
					{"name": "New Castle", "cust_a": {"val": 7}, "cust_s": 210000}
				]}
			]
		}
	}`
	_, endpoints := newKubraServer(t, "/public/2026_08_30_07_00_00/county-src/report.json", reportBody)

	adapter := provider.NewDEL(provider.NewClient(5*time.Second), domain.County, endpoints, newTestLogger())
	result, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, result.State.Healthy())
	assert.False(t, result.State.DateCreated.IsZero())

	require.Len(t, result.Reports, 2)
	assert.Equal(t, domain.Report{
		Provider:  "DEL",
		Style:     domain.County,
		Area:      "New Castle",
		Outages:   "7",
		Customers: "210000",
		State:     "Delaware",
	}, result.Reports[0])
	assert.Equal(t, domain.Maryland, result.Reports[1].State)
	assert.Equal(t, "Cecil", result.Reports[1].Area)
}

func TestDEL_Fetch_SpecialZipGroupReplaced(t *testing.T) {
	reportBody := `{
		"file_data": {
			"areas": [
				{"name": "MD", "areas": [
					{"name": "21921,21922", "cust_a": {"val": 9}, "cust_s": 4000}
				]}
			]
		}
	}`
	_, endpoints := newKubraServer(t, "/public/2026_08_30_07_00_00/zip-src/report.json", reportBody)

	adapter := provider.NewDEL(provider.NewClient(5*time.Second), domain.Zip, endpoints, newTestLogger())
	result, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Reports, 1)
	assert.Equal(t, "21916,21920,21921", result.Reports[0].Area)
}

func TestPEP_Fetch_CountyPartitionedByName(t *testing.T) {
	reportBody := `{
		"file_data": {
			"areas": [
				{"name": "Montgomery", "cust_a": {"val": 120}, "cust_s": 380000},
				{"name": "District Of Columbia", "cust_a": {"val": 66}, "cust_s": 290000}
			]
		}
	}`
	_, endpoints := newKubraServer(t, "/public/2026_08_30_07_00_00/county-src/report.json", reportBody)

	adapter := provider.NewPEP(provider.NewClient(5*time.Second), domain.County, endpoints, domain.MarylandZips(), newTestLogger())
	result, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Reports, 2)

	byArea := make(map[string]domain.Report)
	for _, r := range result.Reports {
		byArea[r.Area] = r
	}
	assert.Equal(t, domain.DistrictOfColumbia, byArea["District Of Columbia"].State)
	assert.Equal(t, domain.Maryland, byArea["Montgomery"].State)
}

func TestPEP_Fetch_ZipPartitionedByInventory(t *testing.T) {
	reportBody := `{
		"file_data": {
			"areas": [
				{"name": "20601,20602", "cust_a": {"val": 10}, "cust_s": 5000},
				{"name": "20001", "cust_a": {"val": 3}, "cust_s": 8000},
				{"name": "00000", "cust_a": {"val": 1}, "cust_s": 100}
			]
		}
	}`
	_, endpoints := newKubraServer(t, "/public/2026_08_30_07_00_00/zip-src/report.json", reportBody)

	adapter := provider.NewPEP(provider.NewClient(5*time.Second), domain.Zip, endpoints, domain.MarylandZips(), newTestLogger())
	result, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	// the unknown zip is dropped, the rest split MD/DC
	require.Len(t, result.Reports, 2)

	byArea := make(map[string]domain.Report)
	for _, r := range result.Reports {
		byArea[r.Area] = r
	}
	assert.Equal(t, domain.Maryland, byArea["20601,20602"].State)
	assert.Equal(t, domain.DistrictOfColumbia, byArea["20001"].State)
}

func TestKubra_Fetch_ConfigFailureDegrades(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metadata", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stormcenterDeploymentId": "dep-42", "updatedAt": 1788087600000, "data": {"interval_generation_data": "x"}}`))
	})
	mux.HandleFunc("/config/dep-42.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	endpoints := provider.Endpoints{
		Metadata: srv.URL + "/metadata",
		Config:   srv.URL + "/config/{deployment_id}.json",
		Data:     srv.URL + "/public/{interval_generation_data}/{source}/report.json",
	}
	adapter := provider.NewDEL(provider.NewClient(5*time.Second), domain.County, endpoints, newTestLogger())

	result, err := adapter.Fetch(context.Background())
	require.NoError(t, err)

	assert.Empty(t, result.Reports)
	assert.Equal(t, http.StatusOK, result.State.MetadataStatus)
	assert.Equal(t, http.StatusBadGateway, result.State.DateStatus)
	assert.False(t, result.State.Healthy())
}
