// Command tkanalyze runs the chat-export analysis engine without a GUI:
// it loads an export, builds the date tree and index, applies bulk date
// filters, prints filter statistics as JSON, and optionally writes chart
// snapshots.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Loganavter/Tkonverter-sub001/pkg/chart"
	"github.com/Loganavter/Tkonverter-sub001/pkg/config"
	"github.com/Loganavter/Tkonverter-sub001/pkg/dateindex"
	"github.com/Loganavter/Tkonverter-sub001/pkg/export"
	"github.com/Loganavter/Tkonverter-sub001/pkg/loader"
	"github.com/Loganavter/Tkonverter-sub001/pkg/model"
	"github.com/Loganavter/Tkonverter-sub001/pkg/selection"
)

func main() {
	input := flag.String("input", "", "Chat export JSON file (required)")
	configPath := flag.String("config", "", "Analysis config file (default: discovered .tkonverter/analysis.yaml)")
	svgPath := flag.String("svg", "", "Write an SVG chart snapshot to this path")
	pngPath := flag.String("png", "", "Write a PNG chart snapshot to this path")
	disableWeekends := flag.Bool("disable-weekends", false, "Exclude Saturdays and Sundays")
	disableYear := flag.Int("disable-year", 0, "Exclude every day of the given year")
	disableMonth := flag.String("disable-month", "", "Exclude a month, formatted YYYY-MM")
	disableRange := flag.String("disable-range", "", "Exclude an inclusive date range, formatted YYYY-MM-DD:YYYY-MM-DD")
	noAggregate := flag.Bool("no-aggregate", false, "Keep every sibling instead of folding small ones into an \"others\" bucket")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "usage: tkanalyze -input export.json [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		fatal(err)
	}

	result, err := loader.LoadMessages(*input)
	if err != nil {
		fatal(err)
	}
	if result.SkippedCount > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d messages with unparseable dates\n", result.SkippedCount)
	}

	root := model.BuildTree(result.Messages)
	if !*noAggregate {
		model.AggregateSmallChildren(root)
	}
	index := dateindex.New(result.Messages, root)
	state := selection.NewState(root)

	if err := applyFilters(state, index, *disableWeekends, *disableYear, *disableMonth, *disableRange); err != nil {
		fatal(err)
	}

	report := struct {
		ChatName      string          `json:"chat_name,omitempty"`
		FilteredValue float64         `json:"filtered_value"`
		DisabledNodes []string        `json:"disabled_nodes,omitempty"`
		Stats         dateindex.Stats `json:"stats"`
	}{
		ChatName:      result.ChatName,
		FilteredValue: state.FilteredValue(),
		DisabledNodes: state.DisabledIDs(),
		Stats:         index.Statistics(state.IsEffectivelyDisabled),
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))

	if *svgPath != "" || *pngPath != "" {
		if err := writeSnapshots(cfg, root, state, *svgPath, *pngPath); err != nil {
			fatal(err)
		}
	}
}

func applyFilters(state *selection.State, index *dateindex.Index, weekends bool, year int, month, dateRange string) error {
	if weekends {
		state.Disable(index.NodesForWeekend()...)
	}
	if year != 0 {
		state.Disable(index.NodesForYear(year)...)
	}
	if month != "" {
		t, err := time.Parse("2006-01", month)
		if err != nil {
			return fmt.Errorf("invalid -disable-month %q: %w", month, err)
		}
		state.Disable(index.NodesForMonth(t.Year(), t.Month())...)
	}
	if dateRange != "" {
		parts := strings.SplitN(dateRange, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid -disable-range %q: want YYYY-MM-DD:YYYY-MM-DD", dateRange)
		}
		start, err := time.Parse("2006-01-02", parts[0])
		if err != nil {
			return fmt.Errorf("invalid range start %q: %w", parts[0], err)
		}
		end, err := time.Parse("2006-01-02", parts[1])
		if err != nil {
			return fmt.Errorf("invalid range end %q: %w", parts[1], err)
		}
		state.Disable(index.NodesForRange(start, end)...)
	}
	return nil
}

func writeSnapshots(cfg config.Config, root *model.TreeNode, state *selection.State, svgPath, pngPath string) error {
	layout := chart.NewLayout(cfg.Tuning(), nil)
	opts := export.SnapshotOptions{
		Width:      cfg.Snapshot.Width,
		Height:     cfg.Snapshot.Height,
		Background: cfg.Snapshot.Background,
		ShowLabels: cfg.Snapshot.ShowLabels,
	}
	segments := layout.ComputeSegments(root, state.DisabledNodes(), float64(opts.Width), float64(opts.Height))

	if svgPath != "" {
		f, err := os.Create(svgPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", svgPath, err)
		}
		defer f.Close()
		if err := export.WriteSVG(f, segments, opts); err != nil {
			return err
		}
	}
	if pngPath != "" {
		if err := export.WritePNG(pngPath, segments, opts); err != nil {
			return err
		}
	}
	return nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "tkanalyze:", err)
	os.Exit(1)
}
