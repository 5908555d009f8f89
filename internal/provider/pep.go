package provider

import (
	"log/slog"
	"strings"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// NewPEP creates the PEP adapter. The PEP report feed lists areas flat
// with no state level, and the service territory spans Maryland and the
// District of Columbia, so areas are partitioned by county name or by
// zip inventory membership.
func NewPEP(client *Client, style domain.AreaType, endpoints Endpoints, inventory domain.Inventory, logger *slog.Logger) *Kubra {
	return &Kubra{
		client:    client,
		abbrev:    PEPAbbrev,
		style:     style,
		endpoints: endpoints,
		logger:    logger,
		partition: pepPartition(style, inventory, logger),
	}
}

// pepPartition splits a flat area list into MD and DC blocks. County
// areas are DC only when named District Of Columbia. Zip areas, possibly
// grouped strings, are classified by the first member zip found in
// either inventory; a group mixing MD and DC zips has not been observed.
func pepPartition(style domain.AreaType, inventory domain.Inventory, logger *slog.Logger) func(areas []any) map[string][]any {
	return func(areas []any) map[string][]any {
		var md, dc []any
		for _, a := range areas {
			area, ok := a.(map[string]any)
			if !ok {
				continue
			}
			name, err := digString(area, "name")
			if err != nil {
				continue
			}

			if style == domain.County {
				if strings.EqualFold(name, domain.DistrictOfColumbia) {
					dc = append(dc, area)
				} else {
					md = append(md, area)
				}
				continue
			}

			for _, zip := range strings.Split(name, domain.GroupDelimiter) {
				zip = strings.TrimSpace(zip)
				if inventory.Contains(zip) {
					md = append(md, area)
					break
				}
				if domain.IsDistrictOfColumbiaZip(zip) {
					dc = append(dc, area)
					break
				}
				logger.Warn("unknown zip code in area", "provider", PEPAbbrev, "zip", zip, "area", name)
			}
		}
		return map[string][]any{"MD": md, "DC": dc}
	}
}
