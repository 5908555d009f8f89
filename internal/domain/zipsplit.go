package domain

import (
	"log/slog"
	"strings"
)

// GroupDelimiter separates individual zip codes inside a grouped area
// string such as "20601,20602,20603".
const GroupDelimiter = ","

// SplitGroupedZips expands records whose area is a comma-joined group of
// zip codes into one record per constituent zip, redistributing the group
// outage count so that no count is created or lost.
//
// Per grouped record: candidates are partitioned by inventory membership;
// each valid zip receives floor(outages/len(valid)) and the remainder is
// distributed one each to the first records in order, so the expansion is
// deterministic and sums exactly to the original count. Per-zip customer
// counts are not derivable from a group total, so they are set to
// UnknownCount. A group with no valid zip is dropped with a warning; the
// count is intentionally lost, not silently hidden.
//
// Records without the delimiter pass through untouched.
func SplitGroupedZips(outages []Outage, inv Inventory, logger *slog.Logger) []Outage {
	result := make([]Outage, 0, len(outages))

	for _, o := range outages {
		if !strings.Contains(o.Area, GroupDelimiter) {
			result = append(result, o)
			continue
		}

		var validZips, invalidZips []string
		for _, candidate := range strings.Split(o.Area, GroupDelimiter) {
			zip := strings.TrimSpace(candidate)
			if inv.Contains(zip) {
				validZips = append(validZips, zip)
			} else {
				invalidZips = append(invalidZips, zip)
			}
		}

		if len(validZips) == 0 {
			logger.Warn("grouped zip string has no zip with geometry, outage count dropped",
				"area", o.Area,
				"provider", o.Provider,
				"state", o.State,
				"outages", o.Outages,
			)
			continue
		}

		if len(invalidZips) > 0 {
			logger.Warn("discarding zips without geometry from grouped string",
				"area", o.Area,
				"provider", o.Provider,
				"discarded", strings.Join(invalidZips, ","),
			)
		}

		portion := o.Outages / len(validZips)
		remainder := o.Outages % len(validZips)

		for i, zip := range validZips {
			single := Outage{
				Provider:  o.Provider,
				Style:     o.Style,
				Area:      zip,
				Outages:   portion,
				Customers: UnknownCount,
				State:     o.State,
			}
			if i < remainder {
				single.Outages++
			}
			result = append(result, single)
		}
	}

	return result
}
