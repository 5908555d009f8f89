package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// Kubra implements the fetch sequence shared by the Kubra-hosted
// providers. The metadata feed publishes the active storm center
// deployment id, an interval-generation-data path token, and the
// updatedAt timestamp in epoch milliseconds. The configuration feed,
// keyed by deployment id, names the report source per area type. The
// report feed itself nests areas under state blocks.
type Kubra struct {
	client    *Client
	abbrev    string
	style     domain.AreaType
	endpoints Endpoints
	logger    *slog.Logger

	// partition regroups a flat area list into state blocks for feeds
	// that omit the state level. Nil when the feed already nests by
	// state.
	partition func(areas []any) map[string][]any

	// zipRemap substitutes reported grouped-zip strings whose members do
	// not match the zip inventory with equivalent inventory zips.
	zipRemap map[string]string
}

func (k *Kubra) Provider() string       { return k.abbrev }
func (k *Kubra) Style() domain.AreaType { return k.style }

func (k *Kubra) Fetch(ctx context.Context) (Result, error) {
	state := newFeedState(k.abbrev, k.style)

	metaResp, err := k.client.Get(ctx, k.endpoints.Metadata)
	if err != nil {
		return Result{State: state}, err
	}
	state.MetadataStatus = metaResp.StatusCode
	if metaResp.StatusCode != http.StatusOK {
		k.logger.Warn("metadata feed unavailable", "provider", k.abbrev, "style", k.style, "status", metaResp.StatusCode)
		return Result{State: state}, nil
	}
	meta, err := decodeJSON(metaResp.Body)
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse %s metadata: %w", k.abbrev, err)
	}
	deploymentID, err := digString(meta, "stormcenterDeploymentId")
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse %s metadata: %w", k.abbrev, err)
	}
	metaData, err := digMap(meta, "data")
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse %s metadata: %w", k.abbrev, err)
	}
	intervalToken, err := digString(metaData, "interval_generation_data")
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse %s metadata: %w", k.abbrev, err)
	}
	if ms, ok := meta["updatedAt"].(json.Number); ok {
		if epochMillis, err := ms.Int64(); err == nil {
			state.SetDateCreated(time.UnixMilli(epochMillis).UTC().Format("2006-01-02T15:04:05"))
		}
	}

	configResp, err := k.client.Get(ctx, expandURI(k.endpoints.Config, map[string]string{"deployment_id": deploymentID}))
	if err != nil {
		return Result{State: state}, err
	}
	state.DateStatus = configResp.StatusCode
	if configResp.StatusCode != http.StatusOK {
		k.logger.Warn("configuration feed unavailable", "provider", k.abbrev, "style", k.style, "status", configResp.StatusCode)
		return Result{State: state}, nil
	}
	source, err := k.reportSource(configResp.Body)
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse %s configuration: %w", k.abbrev, err)
	}

	dataURI := expandURI(k.endpoints.Data, map[string]string{
		"interval_generation_data": intervalToken,
		"source":                   source,
	})
	dataResp, err := k.client.Get(ctx, dataURI)
	if err != nil {
		return Result{State: state}, err
	}
	state.DataStatus = dataResp.StatusCode
	if dataResp.StatusCode != http.StatusOK {
		k.logger.Warn("data feed unavailable", "provider", k.abbrev, "style", k.style, "status", dataResp.StatusCode)
		return Result{State: state}, nil
	}

	reports, err := k.parseReport(dataResp.Body)
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse %s %s report: %w", k.abbrev, k.style, err)
	}
	return Result{Reports: reports, State: state}, nil
}

// reportSource picks the report source token for this adapter's area
// type from config.reports.data.interval_generation_data, which lists
// the county entry first and the zip entry second.
func (k *Kubra) reportSource(body []byte) (string, error) {
	doc, err := decodeJSON(body)
	if err != nil {
		return "", err
	}
	reportsData, err := digMap(doc, "config", "reports", "data")
	if err != nil {
		return "", err
	}
	entries, err := digList(reportsData, "interval_generation_data")
	if err != nil {
		return "", err
	}
	if len(entries) < 2 {
		return "", fmt.Errorf("expected county and zip report entries, got %d", len(entries))
	}

	idx := 0
	if k.style == domain.Zip {
		idx = 1
	}
	entry, ok := entries[idx].(map[string]any)
	if !ok {
		return "", fmt.Errorf("report entry %d is not an object", idx)
	}
	return digString(entry, "source")
}

func (k *Kubra) parseReport(body []byte) ([]domain.Report, error) {
	doc, err := decodeJSON(body)
	if err != nil {
		return nil, err
	}
	fileData, err := digMap(doc, "file_data")
	if err != nil {
		return nil, err
	}
	areas, err := digList(fileData, "areas")
	if err != nil {
		return nil, err
	}

	var byState map[string][]any
	if k.partition != nil {
		byState = k.partition(areas)
	} else {
		byState, err = stateBlocks(areas)
		if err != nil {
			return nil, err
		}
	}

	// sorted for deterministic report order across cycles
	stateAbbrevs := make([]string, 0, len(byState))
	for abbrev := range byState {
		stateAbbrevs = append(stateAbbrevs, abbrev)
	}
	sort.Strings(stateAbbrevs)

	var reports []domain.Report
	for _, stateAbbrev := range stateAbbrevs {
		areaList := byState[stateAbbrev]
		stateName := domain.ExpandStateAbbrev(stateAbbrev)
		for _, a := range areaList {
			area, ok := a.(map[string]any)
			if !ok {
				continue
			}
			name, err := digString(area, "name")
			if err != nil {
				return nil, err
			}
			affected, err := digMap(area, "cust_a")
			if err != nil {
				return nil, err
			}
			outages, err := digString(affected, "val")
			if err != nil {
				return nil, err
			}
			customers, err := digString(area, "cust_s")
			if err != nil {
				return nil, err
			}
			if k.style == domain.Zip {
				if replacement, ok := k.zipRemap[name]; ok {
					name = replacement
				}
			}
			reports = append(reports, domain.Report{
				Provider:  k.abbrev,
				Style:     k.style,
				Area:      name,
				Outages:   outages,
				Customers: customers,
				State:     stateName,
			})
		}
	}
	return reports, nil
}

// stateBlocks reads the feed's own state level: each area entry names a
// state and holds that state's area list.
func stateBlocks(areas []any) (map[string][]any, error) {
	byState := make(map[string][]any, len(areas))
	for _, s := range areas {
		block, ok := s.(map[string]any)
		if !ok {
			continue
		}
		name, err := digString(block, "name")
		if err != nil {
			return nil, err
		}
		list, err := digList(block, "areas")
		if err != nil {
			return nil, err
		}
		byState[name] = append(byState[name], list...)
	}
	return byState, nil
}
