package domain

import (
	"strings"
	"time"
)

// ProviderFeedState records, per provider and style, the HTTP status of the
// three feed types and the freshness of the data feed. A provider may not
// expose all three feeds; a zero StatusCode means "not applicable", which
// must not be conflated with a failed request.
type ProviderFeedState struct {
	Provider string
	Style    AreaType

	MetadataStatus int
	DateStatus     int
	DataStatus     int

	// DateCreated is the parsed feed generation timestamp. Unparseable
	// input leaves it at the zero time.
	DateCreated time.Time

	// DataAgeMinutes is derived from DateCreated; UnknownCount when the
	// timestamp could not be parsed.
	DataAgeMinutes float64
}

// dateCreatedLayouts covers the timestamp shapes observed across feeds.
var dateCreatedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006 3:04:05 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04 PM",
}

// ParseFeedTimestamp parses a feed-reported generation timestamp, trying
// the known layouts in order. Returns the zero time when nothing matches;
// callers treat that as "unknown age", never an error.
func ParseFeedTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateCreatedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SetDateCreated grooms a raw timestamp string into the feed state and
// derives the data age in minutes from the package clock.
func (s *ProviderFeedState) SetDateCreated(raw string) {
	s.DateCreated = ParseFeedTimestamp(raw)
	if s.DateCreated.IsZero() {
		s.DataAgeMinutes = UnknownCount
		return
	}
	s.DataAgeMinutes = clock.Now().Sub(s.DateCreated).Minutes()
}

// Healthy reports whether every feed the provider exposes answered 200.
func (s ProviderFeedState) Healthy() bool {
	for _, code := range []int{s.MetadataStatus, s.DateStatus, s.DataStatus} {
		if code != 0 && code != 200 {
			return false
		}
	}
	return true
}

// Key is the provider×style identifier used in the status artifact and
// the cloud feed-status dataset, e.g. "PEP_ZIP".
func (s ProviderFeedState) Key() string {
	return s.Provider + "_" + string(s.Style)
}
