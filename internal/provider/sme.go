package provider

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// SME fetches the provider's directory-keyed JSON feeds. County and zip
// renditions share one event shape: id plus a desc object carrying the
// affected count under cust_a.val and customers served under cust_s.
type SME struct {
	client    *Client
	style     domain.AreaType
	endpoints Endpoints
	logger    *slog.Logger
}

func NewSME(client *Client, style domain.AreaType, endpoints Endpoints, logger *slog.Logger) *SME {
	return &SME{client: client, style: style, endpoints: endpoints, logger: logger}
}

func (s *SME) Provider() string       { return SMEAbbrev }
func (s *SME) Style() domain.AreaType { return s.style }

func (s *SME) Fetch(ctx context.Context) (Result, error) {
	state := newFeedState(SMEAbbrev, s.style)

	doc, err := fetchDirectoryKeyedData(ctx, s.client, s.endpoints, &state, s.logger, SMEAbbrev, s.style)
	if err != nil || doc == nil {
		return Result{State: state}, err
	}

	events, err := digList(doc, "file_data")
	if err != nil {
		return Result{State: state}, fmt.Errorf("parse SME %s feed: %w", s.style, err)
	}

	reports := make([]domain.Report, 0, len(events))
	for _, e := range events {
		event, ok := e.(map[string]any)
		if !ok {
			continue
		}
		area, err := digString(event, "id")
		if err != nil {
			return Result{State: state}, fmt.Errorf("parse SME %s feed: %w", s.style, err)
		}
		desc, err := digMap(event, "desc")
		if err != nil {
			return Result{State: state}, fmt.Errorf("parse SME %s feed: %w", s.style, err)
		}
		affected, err := digMap(desc, "cust_a")
		if err != nil {
			return Result{State: state}, fmt.Errorf("parse SME %s feed: %w", s.style, err)
		}
		outages, err := digString(affected, "val")
		if err != nil {
			return Result{State: state}, fmt.Errorf("parse SME %s feed: %w", s.style, err)
		}
		customers, err := digString(desc, "cust_s")
		if err != nil {
			return Result{State: state}, fmt.Errorf("parse SME %s feed: %w", s.style, err)
		}
		reports = append(reports, domain.Report{
			Provider:  SMEAbbrev,
			Style:     s.style,
			Area:      area,
			Outages:   outages,
			Customers: customers,
			State:     domain.Maryland,
		})
	}
	return Result{Reports: reports, State: state}, nil
}
