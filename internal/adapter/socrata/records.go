package socrata

import (
	"time"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// StampFormat is the portal's timestamp shape: ISO date and time joined
// by a literal 'T'.
const StampFormat = "2006-01-02T15:04:05"

// Stamp renders a time for the portal.
func Stamp(t time.Time) string {
	return t.Format(StampFormat)
}

// UID builds a row identifier from an area key and the run stamp. Rows
// from the same run share the stamp, so the area must be unique within
// each cycle's records.
func UID(area string, runStamp string) string {
	return area + runStamp
}

// ZipOutageRecord is one row of the zip outage dataset. Customers are
// not published per zip.
type ZipOutageRecord struct {
	UID     string `json:"uid"`
	Area    string `json:"area"`
	Outages int    `json:"outages"`
	DtStamp string `json:"dt_stamp"`
}

// CountyOutageRecord is one row of the county outage dataset.
type CountyOutageRecord struct {
	UID        string  `json:"uid"`
	Area       string  `json:"area"`
	Outages    int     `json:"outages"`
	Customers  int     `json:"customers"`
	PercentOut float64 `json:"percent_out"`
	DtStamp    string  `json:"dt_stamp"`
}

// FeedStatusRecord is one row of the feed status dataset, keyed by the
// provider and style pair.
type FeedStatusRecord struct {
	UID        string  `json:"uid"`
	ProvStyle  string  `json:"prov_style"`
	Data       int     `json:"data"`
	Date       int     `json:"date"`
	Metadata   int     `json:"metadata"`
	Created    string  `json:"created"`
	DataAgeMin float64 `json:"data_age_min"`
	DtStamp    string  `json:"dt_stamp"`
}

// NewCountyOutageRecord derives the percent-affected column. An unknown
// or zero customer count yields a zero percentage rather than a
// nonsensical figure.
func NewCountyOutageRecord(area string, outages, customers int, runStamp string) CountyOutageRecord {
	var percent float64
	if customers > 0 && outages != domain.UnknownCount {
		percent = float64(outages) / float64(customers) * 100
	}
	return CountyOutageRecord{
		UID:        UID(area, runStamp),
		Area:       area,
		Outages:    outages,
		Customers:  customers,
		PercentOut: percent,
		DtStamp:    runStamp,
	}
}

// NewFeedStatusRecord flattens a provider feed state into a dataset row.
func NewFeedStatusRecord(state domain.ProviderFeedState, runStamp string) FeedStatusRecord {
	created := ""
	if !state.DateCreated.IsZero() {
		created = Stamp(state.DateCreated)
	}
	return FeedStatusRecord{
		UID:        UID(state.Key(), runStamp),
		ProvStyle:  state.Key(),
		Data:       state.DataStatus,
		Date:       state.DateStatus,
		Metadata:   state.MetadataStatus,
		Created:    created,
		DataAgeMin: state.DataAgeMinutes,
		DtStamp:    runStamp,
	}
}
