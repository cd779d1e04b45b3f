// Command preview fetches the dashboard once and prints it, using the same
// configuration as the HTTP service.
//
// Usage:
//
//	go run ./cmd/preview -limit 10 -format text
//	go run ./cmd/preview -format json -events
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/couchcryptid/calendar-weather-dashboard/internal/app"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/config"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/dashboard"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/domain"
	"github.com/couchcryptid/calendar-weather-dashboard/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	limit := flag.Int("limit", 0, "number of events (default from DASHBOARD_LIMIT)")
	format := flag.String("format", "text", "output format: text or json")
	raw := flag.Bool("events", false, "print enriched events instead of view models (json only)")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	if *format != "text" && *format != "json" {
		flag.Usage()
		return fmt.Errorf("invalid -format %q", *format)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	// Keep stdout for the dashboard itself.
	logger := sharedobs.NewLogger("warn", "text")

	a, err := app.New(ctx, cfg, logger, observability.NewMetricsForTesting())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck // best-effort on exit

	events, err := a.Dashboard.GetDashboardEvents(ctx, *limit)
	if err != nil {
		return err
	}

	if *format == "json" {
		return writeJSON(os.Stdout, events, *raw)
	}
	return writeText(os.Stdout, dashboard.ToViewModels(events))
}

func writeJSON(w io.Writer, events []domain.EnrichedEvent, raw bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if raw {
		return enc.Encode(events)
	}
	return enc.Encode(dashboard.ToViewModels(events))
}

func writeText(w io.Writer, vms []dashboard.ViewModel) error {
	if len(vms) == 0 {
		_, err := fmt.Fprintln(w, "No upcoming events.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tEVENT\tLOCATION\tTEMP\tWEATHER") //nolint:errcheck // flushed below
	for _, vm := range vms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", //nolint:errcheck // flushed below
			vm.Date, vm.Time, vm.Title, vm.Location, vm.Temperature, vm.Message)
	}
	return tw.Flush()
}
