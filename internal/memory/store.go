// Package memory persists last-known customer counts per county across
// process runs. One provider's feed omits a county entirely when its
// outage count is zero, so on quiet cycles there is no live baseline;
// without memory the county's customer count would silently disappear
// from percent-outage calculations.
package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/couchcryptid/outage-feed-etl/internal/domain"
)

const countyKeyPrefix = "county:"

// Entry is one durable row: the last-known customer count for a county.
type Entry struct {
	County      string    `json:"county"`
	Customers   int       `json:"customers"`
	LastUpdated time.Time `json:"last_updated"`
}

// Store is a BadgerDB-backed customer-count memory store. Created on first
// use if absent; a fresh process next cycle must see this cycle's writes,
// so every Put is a committed transaction.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Open opens (or creates) the store at dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open customer count memory store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Seed writes a zero-count entry for every tracked county that has no
// entry yet. First-run bootstrap: prior history is unrecoverable, so the
// baseline starts at zero and corrects itself as live counts arrive.
func (s *Store) Seed(counties []string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, county := range counties {
			key := []byte(countyKeyPrefix + county)
			if _, err := txn.Get(key); err == nil {
				continue
			} else if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("probe %s: %w", county, err)
			}

			data, err := json.Marshal(Entry{County: county, Customers: 0, LastUpdated: domain.Now()})
			if err != nil {
				return fmt.Errorf("marshal seed entry %s: %w", county, err)
			}
			if err := txn.Set(key, data); err != nil {
				return fmt.Errorf("seed %s: %w", county, err)
			}
			s.logger.Info("seeded customer count memory", "county", county)
		}
		return nil
	})
}

// Snapshot loads the current county -> customer count map.
func (s *Store) Snapshot() (map[string]int, error) {
	counts := make(map[string]int)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(countyKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var e Entry
				if err := json.Unmarshal(val, &e); err != nil {
					return fmt.Errorf("decode entry: %w", err)
				}
				counts[e.County] = e.Customers
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot customer count memory: %w", err)
	}
	return counts, nil
}

// Put durably records a county's customer count.
func (s *Store) Put(county string, customers int) error {
	data, err := json.Marshal(Entry{County: county, Customers: customers, LastUpdated: domain.Now()})
	if err != nil {
		return fmt.Errorf("marshal entry %s: %w", county, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(countyKeyPrefix+county), data)
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", county, err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
