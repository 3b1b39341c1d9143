package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/history"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
)

// Publisher emits a completed history entry to an external sink.
type Publisher interface {
	Publish(ctx context.Context, entry domain.HistoryEntry) error
}

// Pipeline runs one full update cycle: assemble a snapshot, append it to the
// history store, persist the store to disk and hand the entry to the optional
// dump and publish stages.
type Pipeline struct {
	assembler *Assembler
	store     *history.Store
	dumper    *history.Dumper
	publisher Publisher
	metrics   *observability.Metrics
	logger    *slog.Logger
	ready     atomic.Bool
}

// New creates a Pipeline. dumper and publisher may be nil to disable those
// stages.
func New(assembler *Assembler, store *history.Store, dumper *history.Dumper, publisher Publisher, metrics *observability.Metrics, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		assembler: assembler,
		store:     store,
		dumper:    dumper,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ready reports whether at least one cycle has completed. Used by the
// readiness probe.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// RunCycle executes one update cycle. The snapshot is appended to the store
// even when facets failed; downstream stage errors are logged without rolling
// the append back. An error is returned only when every facet failed, so the
// scheduler can count the cycle as failed.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	start := time.Now()
	p.metrics.CyclesTotal.Inc()

	snap := p.assembler.Assemble(ctx)
	entry := p.store.Append(snap)

	if err := p.store.Persist(); err != nil {
		p.logger.Error("history persistence failed", "error", err)
	}

	if p.dumper != nil {
		if path, err := p.dumper.Write(snap); err != nil {
			p.logger.Error("snapshot dump failed", "error", err)
		} else {
			p.logger.Debug("snapshot dumped", "path", path)
		}
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, entry); err != nil {
			p.metrics.PublishErrors.Inc()
			p.logger.Error("snapshot publish failed", "error", err)
		} else {
			p.metrics.SnapshotsPublished.Inc()
		}
	}

	p.ready.Store(true)
	p.metrics.CycleDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("cycle completed",
		"complete", snap.Complete(),
		"failures", len(snap.Failures),
		"history_len", p.store.Len(),
	)

	if snap.Weather == nil && snap.Rainfall == nil && snap.Warnings == nil {
		return fmt.Errorf("all facets failed: %v", snap.Failures)
	}
	return nil
}
