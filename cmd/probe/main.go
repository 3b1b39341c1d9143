// Command probe performs a single fetch-and-parse pass against the HKO pages
// and prints the resulting snapshot. It is a diagnostic tool for checking
// connectivity and verifying that the bulletin grammars still match what the
// Observatory publishes.
//
// Usage:
//
//	go run ./cmd/probe          # human-readable summary
//	go run ./cmd/probe -json    # full snapshot as JSON
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/hko-rainfall-monitor/internal/adapter/hko"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/config"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/domain"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/observability"
	"github.com/couchcryptid/hko-rainfall-monitor/internal/pipeline"
)

func main() {
	asJSON := flag.Bool("json", false, "print the full snapshot as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger("warn", cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := hko.NewClient(cfg, metrics, logger)
	assembler := pipeline.NewAssembler(client, nil, metrics, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	snap := assembler.Assemble(ctx)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			slog.Error("encode snapshot", "error", err)
			os.Exit(1)
		}
		if !snap.Complete() {
			os.Exit(1)
		}
		return
	}

	printSummary(snap)
	if !snap.Complete() {
		os.Exit(1)
	}
}

func printSummary(snap domain.Snapshot) {
	fmt.Printf("Fetched at %s\n\n", snap.FetchTime.Format("2006-01-02 15:04:05 MST"))

	if snap.Weather != nil {
		fmt.Println("Weather:")
		if snap.Weather.Temperature != nil {
			fmt.Printf("  temperature: %.1f°C\n", *snap.Weather.Temperature)
		}
		if snap.Weather.Humidity != nil {
			fmt.Printf("  humidity:    %d%%\n", *snap.Weather.Humidity)
		}
		fmt.Printf("  status:      %s\n", snap.Weather.Status)
	}

	if snap.Rainfall != nil {
		fmt.Printf("\nRainfall (average %.2f mm):\n", snap.Rainfall.AverageRainfall)
		for _, name := range snap.Rainfall.RegionNames() {
			r := snap.Rainfall.Regions[name]
			if r.MinRainfall == r.MaxRainfall {
				fmt.Printf("  %-8s %g mm\n", name, r.AverageRainfall)
			} else {
				fmt.Printf("  %-8s %g-%g mm (avg %g)\n", name, r.MinRainfall, r.MaxRainfall, r.AverageRainfall)
			}
		}
	}

	if snap.Warnings != nil {
		fmt.Printf("\nWarnings (level %s):\n", snap.Warnings.Level)
		if len(snap.Warnings.ActiveWarnings) == 0 {
			fmt.Println("  none")
		}
		for _, w := range snap.Warnings.ActiveWarnings {
			fmt.Printf("  %s\n", w)
		}
	}

	if len(snap.Failures) > 0 {
		fmt.Println("\nFailures:")
		for _, f := range snap.Failures {
			fmt.Printf("  %s: %s\n", f.Facet, f.Message)
		}
	}
}
