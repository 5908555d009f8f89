// Package provider contains one feed adapter per utility provider and
// area-type pair. Each adapter fetches its provider's feeds (strictly
// ordered metadata -> date -> data, since later URIs are templated with
// values from earlier responses) and parses the payload into raw Report
// tuples for the normalization pipeline.
//
// Adapters degrade, never crash: a non-200 response or malformed payload
// yields zero reports for the cycle, with the failure captured in the
// feed state for the health monitor. The next scheduled run is the retry
// mechanism.
package provider

import (
	"context"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// Provider abbreviations.
const (
	BGEAbbrev = "BGE"
	CTKAbbrev = "CTK"
	DELAbbrev = "DEL"
	EUCAbbrev = "EUC"
	FESAbbrev = "FES"
	PEPAbbrev = "PEP"
	SMEAbbrev = "SME"
)

// Result is everything one adapter produced for one cycle.
type Result struct {
	Reports []domain.Report
	State   domain.ProviderFeedState
}

// Adapter fetches and parses one provider's feed for one area type.
type Adapter interface {
	Provider() string
	Style() domain.AreaType

	// Fetch runs the feed request sequence and parses the payload.
	// On error the Result still carries the feed state gathered so far
	// and zero reports; the caller logs and moves on.
	Fetch(ctx context.Context) (Result, error)
}

// Endpoints holds the feed URIs for one provider and style. Data and date
// URIs may contain a {metadata_key} placeholder filled from the metadata
// response; Kubra-family data URIs additionally use
// {interval_generation_data} and {source}.
type Endpoints struct {
	Metadata string
	Date     string
	Data     string
	Config   string
}

func newFeedState(provider string, style domain.AreaType) domain.ProviderFeedState {
	return domain.ProviderFeedState{Provider: provider, Style: style}
}
