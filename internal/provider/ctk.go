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

// CTK fetches the provider's combined XML report feed. A single document
// carries one <report> per area type, each holding a <dataset> of <t>
// rows whose <e> cells are positional: area, customers served, customers
// affected. The generation timestamp is an attribute on <generated>.
type CTK struct {
	client    *Client
	style     domain.AreaType
	endpoints Endpoints
	logger    *slog.Logger
}

func NewCTK(client *Client, style domain.AreaType, endpoints Endpoints, logger *slog.Logger) *CTK {
	return &CTK{client: client, style: style, endpoints: endpoints, logger: logger}
}

func (c *CTK) Provider() string       { return CTKAbbrev }
func (c *CTK) Style() domain.AreaType { return c.style }

func (c *CTK) Fetch(ctx context.Context) (Result, error) {
	state := newFeedState(CTKAbbrev, c.style)

	resp, err := c.client.Get(ctx, c.endpoints.Data)
	if err != nil {
		return Result{State: state}, err
	}
	state.DataStatus = resp.StatusCode
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("data feed unavailable", "provider", CTKAbbrev, "style", c.style, "status", resp.StatusCode)
		return Result{State: state}, nil
	}

	var feed ctkFeed
	if err := xml.Unmarshal(resp.Body, &feed); err != nil {
		return Result{State: state}, fmt.Errorf("parse CTK %s feed: %w", c.style, err)
	}
	state.SetDateCreated(feed.Generated.Date)

	report, ok := feed.reportByID(string(c.style))
	if !ok {
		return Result{State: state}, fmt.Errorf("CTK feed has no %s report", c.style)
	}
	if len(report.Rows) == 0 {
		c.logger.Info("no dataset values in feed", "provider", CTKAbbrev, "style", c.style)
	}

	const (
		areaIndex      = 0
		customersIndex = 1
		affectedIndex  = 2
	)
	reports := make([]domain.Report, 0, len(report.Rows))
	for _, row := range report.Rows {
		if len(row.Cells) <= affectedIndex {
			c.logger.Warn("short dataset row skipped", "provider", CTKAbbrev, "style", c.style, "cells", len(row.Cells))
			continue
		}
		reports = append(reports, domain.Report{
			Provider:  CTKAbbrev,
			Style:     c.style,
			Area:      row.Cells[areaIndex],
			Outages:   row.Cells[affectedIndex],
			Customers: row.Cells[customersIndex],
			State:     "MD",
		})
	}
	return Result{Reports: reports, State: state}, nil
}

type ctkFeed struct {
	Generated struct {
		Date string `xml:"date,attr"`
	} `xml:"generated"`
	Reports []ctkReport `xml:"report"`
}

type ctkReport struct {
	ID   string   `xml:"id,attr"`
	Rows []ctkRow `xml:"dataset>t"`
}

type ctkRow struct {
	Cells []string `xml:"e"`
}

func (f ctkFeed) reportByID(id string) (ctkReport, bool) {
	for _, r := range f.Reports {
		if strings.EqualFold(r.ID, id) {
			return r, true
		}
	}
	return ctkReport{}, false
}
