package pipeline

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

// statusEntry is one provider-and-style block of the status artifact.
type statusEntry struct {
	Data       int     `json:"data"`
	Date       int     `json:"date"`
	Metadata   int     `json:"metadata"`
	Created    string  `json:"created"`
	DataAgeMin float64 `json:"data_age_min"`
}

// WriteStatusFile publishes the per-feed health artifact consumed by the
// status web map. The whole file is rewritten each cycle.
func WriteStatusFile(path string, states []domain.ProviderFeedState) error {
	if path == "" {
		return nil
	}

	out := make(map[string]statusEntry, len(states))
	for _, s := range states {
		created := ""
		if !s.DateCreated.IsZero() {
			created = s.DateCreated.Format("2006-01-02T15:04:05")
		}
		out[s.Key()] = statusEntry{
			Data:       s.DataStatus,
			Date:       s.DateStatus,
			Metadata:   s.MetadataStatus,
			Created:    created,
			DataAgeMin: s.DataAgeMinutes,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal feed status: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write feed status file: %w", err)
	}
	return nil
}
