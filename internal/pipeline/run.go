package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/trop3n/samc/internal/vimeo"
)

// Library is the remote capability the pipeline drives. *vimeo.Client
// satisfies it; tests substitute fakes.
type Library interface {
	Me(ctx context.Context) (int64, error)
	ListCreatedAfter(ctx context.Context, userID int64, cutoff time.Time) (vimeo.ListResult, error)
	UpdateTitle(ctx context.Context, videoID int64, name string) error
}

// Observer receives per-video progress callbacks. All callbacks run on the
// pipeline goroutine; implementations must not block for long.
type Observer interface {
	// OnStart reports how many videos survived filtering.
	OnStart(total int)
	// OnVideo reports one reconciled video. index is 1-based.
	OnVideo(index, total int, v vimeo.Video, outcome Outcome)
}

// Options configures a run. The values are fixed for the run's duration.
type Options struct {
	// Lookback bounds discovery to videos created after now−Lookback.
	Lookback time.Duration
	// ExcludedFolders lists folder ids whose videos are never touched.
	ExcludedFolders map[int64]struct{}
	// DryRun computes every title but issues no rewrites.
	DryRun bool
	// Observer is optional.
	Observer Observer
}

// Runner sequences one discovery-filter-update pass. Videos are processed
// strictly sequentially: the API documents no guarantee about concurrent
// writes to distinct videos, and sequential processing keeps failure
// attribution simple.
type Runner struct {
	lib  Library
	opts Options
}

// NewRunner creates a runner over the given library.
func NewRunner(lib Library, opts Options) *Runner {
	return &Runner{lib: lib, opts: opts}
}

// Run executes one pass and returns its summary. Only identity resolution
// is fatal; every per-video problem is logged, counted, and skipped so the
// run always completes with a full report. Cancelling ctx stops the run
// between videos and returns the partial summary.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	runID := uuid.New().String()[:8] // Short ID for log correlation
	log := slog.With("run", runID)

	var summary Summary

	cutoff := time.Now().UTC().Add(-r.opts.Lookback)
	log.Info("starting run", "cutoff", cutoff, "lookback", r.opts.Lookback,
		"excluded_folders", len(r.opts.ExcludedFolders), "dry_run", r.opts.DryRun)

	userID, err := r.lib.Me(ctx)
	if err != nil {
		return summary, fmt.Errorf("resolve identity: %w", err)
	}
	log.Info("resolved identity", "user", userID)

	listed, err := r.lib.ListCreatedAfter(ctx, userID, cutoff)
	if err != nil {
		// Partial result: whatever was accumulated is still processed.
		log.Warn("listing stopped early, continuing with partial result",
			"videos", len(listed.Videos), "pages", listed.Pages, "error", err)
	}
	summary.SkippedByParse += listed.ParseSkips
	log.Info("listed recent videos", "videos", len(listed.Videos), "pages", listed.Pages,
		"parse_skips", listed.ParseSkips)

	kept, excluded := SplitExcluded(listed.Videos, r.opts.ExcludedFolders)
	summary.SkippedByFolder = excluded

	if obs := r.opts.Observer; obs != nil {
		obs.OnStart(len(kept))
	}

	for i, v := range kept {
		if ctx.Err() != nil {
			log.Warn("run cancelled, returning partial summary", "remaining", len(kept)-i)
			break
		}

		outcome := r.reconcileTitle(ctx, v)
		switch outcome {
		case OutcomeUpdated:
			summary.Processed++
		case OutcomeAlreadyTagged, OutcomeFailed:
			summary.SkippedByUpdate++
		case OutcomeSkippedInvalid:
			summary.SkippedByParse++
		}

		if obs := r.opts.Observer; obs != nil {
			obs.OnVideo(i+1, len(kept), v, outcome)
		}
	}

	log.Info("run complete",
		"processed", summary.Processed,
		"skipped_by_folder", summary.SkippedByFolder,
		"skipped_by_update", summary.SkippedByUpdate,
		"skipped_by_parse", summary.SkippedByParse)

	return summary, nil
}
