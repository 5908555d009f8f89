package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// FES fetches the provider's directory-keyed JSON feeds. The metadata
// feed publishes a directory token that must be substituted into the
// date and data URIs, so the three requests are strictly ordered.
type FES struct {
	client    *Client
	style     domain.AreaType
	endpoints Endpoints
	logger    *slog.Logger
}

func NewFES(client *Client, style domain.AreaType, endpoints Endpoints, logger *slog.Logger) *FES {
	return &FES{client: client, style: style, endpoints: endpoints, logger: logger}
}

func (f *FES) Provider() string       { return FESAbbrev }
func (f *FES) Style() domain.AreaType { return f.style }

func (f *FES) Fetch(ctx context.Context) (Result, error) {
	state := newFeedState(FESAbbrev, f.style)

	doc, err := fetchDirectoryKeyedData(ctx, f.client, f.endpoints, &state, f.logger, FESAbbrev, f.style)
	if err != nil || doc == nil {
		return Result{State: state}, err
	}

	var reports []domain.Report
	if f.style == domain.County {
		reports, err = f.countyReports(doc)
	} else {
		reports, err = f.zipReports(doc)
	}
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse FES %s feed: %w", f.style, err)
	}
	return Result{Reports: reports, State: state}, nil
}

// countyReports digs file_data -> curr_custs_aff -> areas, keeps the MD
// state block, and reads its county entries.
func (f *FES) countyReports(doc map[string]any) ([]domain.Report, error) {
	aff, err := digMap(doc, "file_data", "curr_custs_aff")
	if err != nil {
		return nil, err
	}
	states, err := digList(aff, "areas")
	if err != nil {
		return nil, err
	}

	var counties []any
	for _, s := range states {
		stateBlock, ok := s.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := digString(stateBlock, "area_name"); name == "MD" {
			counties, err = digList(stateBlock, "areas")
			if err != nil {
				return nil, err
			}
			break
		}
	}

	reports := make([]domain.Report, 0, len(counties))
	for _, c := range counties {
		county, ok := c.(map[string]any)
		if !ok {
			continue
		}
		area, err := digString(county, "area_name")
		if err != nil {
			return nil, err
		}
		outages, err := digString(county, "custs_out")
		if err != nil {
			return nil, err
		}
		customers, err := digString(county, "total_custs")
		if err != nil {
			return nil, err
		}
		reports = append(reports, domain.Report{
			Provider:  FESAbbrev,
			Style:     domain.County,
			Area:      area,
			Outages:   outages,
			Customers: customers,
			State:     domain.Maryland,
		})
	}
	return reports, nil
}

// zipReports reads the file_data event list. Each event's desc is a
// single-element list; extra elements are ignored.
func (f *FES) zipReports(doc map[string]any) ([]domain.Report, error) {
	events, err := digList(doc, "file_data")
	if err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(events))
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			continue
		}
		zip, err := digString(event, "id")
		if err != nil {
			return nil, err
		}
		descList, err := digList(event, "desc")
		if err != nil {
			return nil, err
		}
		if len(descList) == 0 {
			f.logger.Warn("zip event with empty desc skipped", "provider", FESAbbrev, "zip", zip)
			continue
		}
		desc, ok := descList[0].(map[string]any)
		if !ok {
			continue
		}
		outages, err := digString(desc, "cust_a")
		if err != nil {
			return nil, err
		}
		customers, err := digString(desc, "cust_s")
		if err != nil {
			return nil, err
		}
		reports = append(reports, domain.Report{
			Provider:  FESAbbrev,
			Style:     domain.Zip,
			Area:      zip,
			Outages:   outages,
			Customers: customers,
			State:     domain.Maryland,
		})
	}
	return reports, nil
}

// fetchDirectoryKeyedData runs the shared metadata -> date -> data
// sequence used by the directory-keyed JSON providers. It returns the
// decoded data document, or nil with a populated feed state when a feed
// responded non-200 and the cycle should degrade to zero reports.
func fetchDirectoryKeyedData(ctx context.Context, client *Client, endpoints Endpoints, state *domain.ProviderFeedState, logger *slog.Logger, abbrev string, style domain.AreaType) (map[string]any, error) {
	metaResp, err := client.Get(ctx, endpoints.Metadata)
	if err != nil {
		return nil, err
	}
	state.MetadataStatus = metaResp.StatusCode
	if metaResp.StatusCode != http.StatusOK {
		logger.Warn("metadata feed unavailable", "provider", abbrev, "style", style, "status", metaResp.StatusCode)
		return nil, nil
	}
	meta, err := decodeJSON(metaResp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s metadata: %w", abbrev, err)
	}
	key, err := digString(meta, "directory")
	if err != nil {
		return nil, fmt.Errorf("parse %s metadata: %w", abbrev, err)
	}
	values := map[string]string{"metadata_key": key}

	dateResp, err := client.Get(ctx, expandURI(endpoints.Date, values))
	if err != nil {
		return nil, err
	}
	state.DateStatus = dateResp.StatusCode
	if dateResp.StatusCode == http.StatusOK {
		if dateDoc, err := decodeJSON(dateResp.Body); err == nil {
			if generated, err := digString(dateDoc, "date_generated"); err == nil {
				state.SetDateCreated(generated)
			}
		}
	} else {
		logger.Warn("date feed unavailable", "provider", abbrev, "style", style, "status", dateResp.StatusCode)
	}

	dataResp, err := client.Get(ctx, expandURI(endpoints.Data, values))
	if err != nil {
		return nil, err
	}
	state.DataStatus = dataResp.StatusCode
	if dataResp.StatusCode != http.StatusOK {
		logger.Warn("data feed unavailable", "provider", abbrev, "style", style, "status", dataResp.StatusCode)
		return nil, nil
	}
	doc, err := decodeJSON(dataResp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s data feed: %w", abbrev, err)
	}
	return doc, nil
}
