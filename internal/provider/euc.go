package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// eucZipToCounty maps the provider's service zips to county names. The
// feed reports zip codes only, even for the county area type.
var eucZipToCounty = map[string]string{"21601": "Talbot"}

// EUC fetches the provider's XML feed whose payload element wraps a JSON
// array of outage events. Both area types come from the same events; the
// county rendition swaps known zips for their county name.
type EUC struct {
	client    *Client
	style     domain.AreaType
	endpoints Endpoints
	logger    *slog.Logger
}

func NewEUC(client *Client, style domain.AreaType, endpoints Endpoints, logger *slog.Logger) *EUC {
	return &EUC{client: client, style: style, endpoints: endpoints, logger: logger}
}

func (e *EUC) Provider() string       { return EUCAbbrev }
func (e *EUC) Style() domain.AreaType { return e.style }

func (e *EUC) Fetch(ctx context.Context) (Result, error) {
	state := newFeedState(EUCAbbrev, e.style)

	resp, err := e.client.Get(ctx, e.endpoints.Data)
	if err != nil {
		return Result{State: state}, err
	}
	state.DataStatus = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		e.logger.Warn("data feed unavailable", "provider", EUCAbbrev, "style", e.style, "status", resp.StatusCode)
		return Result{State: state}, nil
	}

	var envelope eucEnvelope
	if err := xml.Unmarshal(resp.Body, &envelope); err != nil {
		return Result{State: state}, fmt.Errorf("parse EUC %s envelope: %w", e.style, err)
	}
	events, err := decodeJSONList([]byte(strings.TrimSpace(envelope.Payload.Text)))
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse EUC %s events: %w", e.style, err)
	}

	reports := make([]domain.Report, 0, len(events))
	var created string
	for _, ev := range events {
		event, ok := ev.(map[string]any)
		if !ok {
			e.logger.Warn("malformed event skipped", "provider", EUCAbbrev, "style", e.style)
			continue
		}
		area, err := digString(event, "ZipCode")
		if err != nil {
			return Result{State: state}, err
		}
		outages, err := digString(event, "Count")
		if err != nil {
			return Result{State: state}, err
		}
		customers, err := digString(event, "AccountCount")
		if err != nil {
			return Result{State: state}, err
		}
		if ts, err := digString(event, "TimeStamp"); err == nil {
			created = ts
		}

		if e.style == domain.County {
			if county, ok := eucZipToCounty[area]; ok {
				area = county
			}
		}
		reports = append(reports, domain.Report{
			Provider:  EUCAbbrev,
			Style:     e.style,
			Area:      area,
			Outages:   outages,
			Customers: customers,
			State:     domain.Maryland,
		})
	}
	state.SetDateCreated(created)

	return Result{Reports: reports, State: state}, nil
}

// eucEnvelope captures the character data of the root's first child,
// whatever the element is named.
type eucEnvelope struct {
	Payload struct {
		Text string `xml:",chardata"`
	} `xml:",any"`
}
