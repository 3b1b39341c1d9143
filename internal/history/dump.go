package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
)

// Dumper writes one raw snapshot file per pipeline cycle into the data
// directory. The dumps are informational only; nothing reads them back.
type Dumper struct {
	dir    string
	clock  clockwork.Clock
	logger *slog.Logger
}

// NewDumper creates a Dumper writing into dir. Pass a nil clock to use real
// time.
func NewDumper(dir string, clock clockwork.Clock, logger *slog.Logger) *Dumper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Dumper{dir: dir, clock: clock, logger: logger}
}

// Write serializes the snapshot into a timestamped file and returns its path.
func (d *Dumper) Write(snap domain.Snapshot) (string, error) {
	name := fmt.Sprintf("snapshot_%s.json", d.clock.Now().UTC().Format("20060102_150405"))
	path := filepath.Join(d.dir, name)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot dump: %w", err)
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return "", fmt.Errorf("create dump dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write snapshot dump: %w", err)
	}

	d.logger.Debug("snapshot dumped", "path", path)
	return path, nil
}
