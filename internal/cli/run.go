package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trop3n/samc/internal/metrics"
	"github.com/trop3n/samc/internal/pipeline"
	"github.com/trop3n/samc/internal/vimeo"
)

var (
	runLookback time.Duration
	runExclude  []int64
	runDryRun   bool
	runProgress bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tag recently created videos with their creation date",
	Long: `Run one discovery-filter-update pass over the Vimeo library.

Videos created inside the lookback window (default 48h) are fetched newest
first; videos in excluded folders are skipped; every remaining title gets
its creation date appended, unless the date is already present.

Examples:
  samc run
  samc run --lookback 72h
  samc run --exclude 7 --exclude 12
  samc run --dry-run
  samc run --progress`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	runCmd.Flags().DurationVar(&runLookback, "lookback", 0, "override the lookback window (e.g. 72h)")
	runCmd.Flags().Int64SliceVar(&runExclude, "exclude", nil, "additional folder ids to exclude")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "compute titles without rewriting anything")
	runCmd.Flags().BoolVar(&runProgress, "progress", false, "show an interactive progress display")
}

func runRun(cmd *cobra.Command, args []string) error {
	if cfg.VimeoToken == "" {
		return fmt.Errorf("SAMC_VIMEO_TOKEN is required")
	}

	lookback := cfg.Lookback
	if runLookback > 0 {
		lookback = runLookback
	}

	excluded := cfg.ExcludedSet()
	for _, id := range runExclude {
		excluded[id] = struct{}{}
	}

	collector := metrics.NewCollector()
	client := vimeo.NewClient(vimeo.Config{
		Token:             cfg.VimeoToken,
		BaseURL:           cfg.VimeoBaseURL,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Metrics:           collector,
	})

	opts := pipeline.Options{
		Lookback:        lookback,
		ExcludedFolders: excluded,
		DryRun:          runDryRun,
	}

	var (
		summary pipeline.Summary
		err     error
	)
	if runProgress && isTerminal() {
		summary, err = runWithProgress(cmd.Context(), client, opts)
	} else {
		summary, err = pipeline.NewRunner(client, opts).Run(cmd.Context())
	}
	if err != nil {
		return err
	}

	fmt.Print(renderSummary(summary, runDryRun, isTerminal()))

	if verbose {
		printMetrics(collector.Snapshot())
	}
	return nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderSummary formats the run counters, styled when stdout is a terminal.
func renderSummary(s pipeline.Summary, dryRun, styled bool) string {
	heading := "✓ Run complete"
	if dryRun {
		heading = "✓ Dry run complete"
	}
	if styled {
		heading = defaultTheme.completedStyle().Render(heading)
	}

	out := "\n" + heading + "\n\n"
	out += fmt.Sprintf("  Titles updated:      %d\n", s.Processed)
	out += fmt.Sprintf("  In excluded folders: %d\n", s.SkippedByFolder)
	out += fmt.Sprintf("  Tagged or failed:    %d\n", s.SkippedByUpdate)
	out += fmt.Sprintf("  Unparsable items:    %d\n", s.SkippedByParse)
	return out
}

func printMetrics(snap metrics.Snapshot) {
	fmt.Printf("\nAPI timings (uptime %.1fs):\n", snap.UptimeSeconds)
	printOp("identity", snap.Identity)
	printOp("list page", snap.ListPage)
	printOp("title update", snap.UpdateTitle)
	printOp("report fetch", snap.ReportFetch)
}

func printOp(name string, op *metrics.OperationSnapshot) {
	if op == nil {
		return
	}
	fmt.Printf("  %-13s calls=%d avg=%.0fms min=%dms max=%dms\n",
		name, op.Count, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}

// runWithProgress drives the pipeline under the interactive progress UI.
// The pipeline itself stays sequential; only rendering moves elsewhere.
func runWithProgress(ctx context.Context, client *vimeo.Client, opts pipeline.Options) (pipeline.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan progressEvent, 16)
	opts.Observer = &chanObserver{events: events}
	runner := pipeline.NewRunner(client, opts)

	go func() {
		summary, err := runner.Run(ctx)
		events <- doneEvent{summary: summary, err: err}
		close(events)
	}()

	return runTagProgress(events, cancel)
}

// defaultTheme provides default colors for CLI output.
var defaultTheme = theme{
	status:  lipgloss.Color("#5FAFD7"), // light blue
	success: lipgloss.Color("#00D787"), // green
	failure: lipgloss.Color("#FF005F"), // red
	hint:    lipgloss.Color("#6C6C6C"), // dim gray
}

type theme struct {
	status  lipgloss.Color
	success lipgloss.Color
	failure lipgloss.Color
	hint    lipgloss.Color
}

func (t theme) statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.status)
}

func (t theme) completedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.success).Bold(true)
}

func (t theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.failure).Bold(true)
}

func (t theme) hintStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.hint).Italic(true)
}
