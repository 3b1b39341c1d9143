package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
)

// Fetcher retrieves the raw page for one HKO resource.
type Fetcher interface {
	Fetch(ctx context.Context, resource domain.Facet) ([]byte, error)
}

// Assembler fetches all three resources and combines the parse results into
// one immutable snapshot. Each facet is fetched and parsed independently; a
// failure on one becomes a failure marker without touching the others.
type Assembler struct {
	fetcher Fetcher
	clock   clockwork.Clock
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewAssembler creates an Assembler. Pass a nil clock to use real time.
func NewAssembler(fetcher Fetcher, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Assembler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Assembler{
		fetcher: fetcher,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Assemble runs the three fetches in parallel and builds the snapshot. It
// always returns a snapshot; fetch failures surface as facet markers, never
// as an error.
func (a *Assembler) Assemble(ctx context.Context) domain.Snapshot {
	facets := []domain.Facet{domain.FacetWeather, domain.FacetRainfall, domain.FacetWarnings}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		bodies = make(map[domain.Facet][]byte, len(facets))
		errs   = make(map[domain.Facet]error, len(facets))
	)

	for _, facet := range facets {
		wg.Add(1)
		go func(facet domain.Facet) {
			defer wg.Done()
			body, err := a.fetcher.Fetch(ctx, facet)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[facet] = err
				return
			}
			bodies[facet] = body
		}(facet)
	}
	wg.Wait()

	snap := domain.Snapshot{FetchTime: a.clock.Now().UTC()}

	if body, ok := bodies[domain.FacetWeather]; ok {
		weather := domain.ParseWeather(string(body))
		snap.Weather = &weather
	} else {
		snap.Failures = append(snap.Failures, a.failure(domain.FacetWeather, errs[domain.FacetWeather]))
	}

	if body, ok := bodies[domain.FacetRainfall]; ok {
		rainfall := domain.ParseRainfall(string(body))
		snap.Rainfall = &rainfall
	} else {
		snap.Failures = append(snap.Failures, a.failure(domain.FacetRainfall, errs[domain.FacetRainfall]))
	}

	if body, ok := bodies[domain.FacetWarnings]; ok {
		warnings := domain.ParseWarnings(string(body))
		snap.Warnings = &warnings
	} else {
		snap.Failures = append(snap.Failures, a.failure(domain.FacetWarnings, errs[domain.FacetWarnings]))
	}

	return snap
}

func (a *Assembler) failure(facet domain.Facet, err error) domain.FacetError {
	a.metrics.FacetFailures.WithLabelValues(string(facet)).Inc()
	a.logger.Warn("facet unavailable", "facet", facet, "error", err)
	msg := "unavailable"
	if err != nil {
		msg = err.Error()
	}
	return domain.FacetError{Facet: facet, Message: msg}
}
