package provider

import (
	"log/slog"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// delZipReplacements rewrites grouped-zip strings DEL reports whose
// members do not all exist in the zip inventory with an equivalent
// group of inventory zips covering the same territory.
var delZipReplacements = map[string]string{
	"21921,21922": "21916,21920,21921",
}

// NewDEL creates the DEL adapter. The DEL report feed nests areas under
// state blocks, so the standard Kubra parsing applies; only the zip
// substitution table is DEL-specific.
func NewDEL(client *Client, style domain.AreaType, endpoints Endpoints, logger *slog.Logger) *Kubra {
	return &Kubra{
		client:    client,
		abbrev:    DELAbbrev,
		style:     style,
		endpoints: endpoints,
		logger:    logger,
		zipRemap:  delZipReplacements,
	}
}
