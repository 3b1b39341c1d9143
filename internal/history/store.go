// Package history keeps the rolling window of fetched snapshots and persists
// it across restarts.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
)

// TimestampFormat is the single encoding used for timestamps on both the
// write and read paths of the persisted history file.
const TimestampFormat = "2006-01-02T15:04:05Z07:00"

// Store is a bounded, time-windowed sequence of snapshots. Appends prune the
// head past the retention window; reads hand out copies so concurrent readers
// never observe a partially updated list.
type Store struct {
	mu        sync.RWMutex
	entries   []domain.HistoryEntry
	retention time.Duration
	filePath  string

	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewStore creates a Store persisting to filePath with the given retention
// window. Pass a nil clock to use real time.
func NewStore(filePath string, retention time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{
		retention: retention,
		filePath:  filePath,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Append inserts a snapshot at the tail and drops every entry older than the
// retention window. After Append returns, no stored entry is older than
// now minus retention. The stored entry is returned.
func (s *Store) Append(snap domain.Snapshot) domain.HistoryEntry {
	now := s.clock.Now().UTC()
	entry := domain.HistoryEntry{Timestamp: now, Snapshot: snap}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.HistoryEntry, 0, len(s.entries)+1)
	next = append(next, s.entries...)
	next = append(next, entry)
	s.entries = pruneOlderThan(next, now.Add(-s.retention))
	s.metrics.HistoryEntries.Set(float64(len(s.entries)))
	return entry
}

// FilePath returns the path the store persists to.
func (s *Store) FilePath() string {
	return s.filePath
}

// Latest returns the most recent snapshot, or false when the store is empty.
func (s *Store) Latest() (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.entries) == 0 {
		return domain.Snapshot{}, false
	}
	return s.entries[len(s.entries)-1].Snapshot, true
}

// Window returns a copy of the entries newer than the given number of hours,
// in insertion order. A non-positive hours returns everything retained. The
// stored state is not mutated.
func (s *Store) Window(hours int) []domain.HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HistoryEntry, 0, len(s.entries))
	if hours <= 0 {
		return append(out, s.entries...)
	}

	cutoff := s.clock.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	for _, e := range s.entries {
		if e.Timestamp.After(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// Len reports the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// persistedEntry is the on-disk shape of one history entry.
type persistedEntry struct {
	Timestamp string          `json:"timestamp"`
	Data      domain.Snapshot `json:"data"`
}

// Persist writes all current entries to the history file. The write is
// atomic (temp file plus rename) so a crash mid-write never corrupts the
// previous file.
func (s *Store) Persist() error {
	s.mu.RLock()
	records := make([]persistedEntry, len(s.entries))
	for i, e := range s.entries {
		records[i] = persistedEntry{
			Timestamp: e.Timestamp.UTC().Format(TimestampFormat),
			Data:      e.Snapshot,
		}
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		s.metrics.PersistErrors.Inc()
		return fmt.Errorf("encode history: %w", err)
	}

	tmp := s.filePath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		s.metrics.PersistErrors.Inc()
		return fmt.Errorf("create history dir: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.metrics.PersistErrors.Inc()
		return fmt.Errorf("write history file: %w", err)
	}
	if err := os.Rename(tmp, s.filePath); err != nil {
		s.metrics.PersistErrors.Inc()
		return fmt.Errorf("replace history file: %w", err)
	}

	s.logger.Debug("history persisted", "entries", len(records), "path", s.filePath)
	return nil
}

// Load replaces the store contents with the persisted file, applying the
// same retention filter as Append so a stale file never reintroduces expired
// entries. A missing file is not an error.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.filePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history file: %w", err)
	}

	var records []persistedEntry
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode history file: %w", err)
	}

	cutoff := s.clock.Now().UTC().Add(-s.retention)
	entries := make([]domain.HistoryEntry, 0, len(records))
	for _, rec := range records {
		ts, err := time.Parse(TimestampFormat, rec.Timestamp)
		if err != nil {
			return fmt.Errorf("decode history timestamp %q: %w", rec.Timestamp, err)
		}
		if !ts.After(cutoff) {
			continue
		}
		entries = append(entries, domain.HistoryEntry{Timestamp: ts.UTC(), Snapshot: rec.Data})
	}

	s.mu.Lock()
	s.entries = entries
	s.metrics.HistoryEntries.Set(float64(len(entries)))
	s.mu.Unlock()

	s.logger.Info("history loaded",
		"kept", len(entries),
		"discarded", len(records)-len(entries),
		"path", s.filePath,
	)
	return nil
}

func pruneOlderThan(entries []domain.HistoryEntry, cutoff time.Time) []domain.HistoryEntry {
	i := 0
	for ; i < len(entries); i++ {
		if entries[i].Timestamp.After(cutoff) {
			break
		}
	}
	return entries[i:]
}
