package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trop3n/samc/internal/vimeo"
)

// dateTagFormat is the normalized date embedded into titles.
const dateTagFormat = "2006-01-02"

// Outcome classifies one title reconciliation.
type Outcome int

const (
	// OutcomeUpdated means the title was rewritten with its date tag.
	OutcomeUpdated Outcome = iota
	// OutcomeAlreadyTagged means the title already contains the tag; no
	// network call was made.
	OutcomeAlreadyTagged
	// OutcomeSkippedInvalid means the video lacks a title or a usable
	// creation time.
	OutcomeSkippedInvalid
	// OutcomeFailed means the rewrite request failed.
	OutcomeFailed
)

// String returns a short label for logs and progress output.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeAlreadyTagged:
		return "already tagged"
	case OutcomeSkippedInvalid:
		return "invalid"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DateTag returns the canonical date tag for a creation instant. The tag
// derives from the video's creation time, never from wall-clock now.
func DateTag(createdAt time.Time) string {
	return createdAt.Format(dateTagFormat)
}

// TaggedName appends the date tag to a title.
func TaggedName(name, tag string) string {
	return fmt.Sprintf("%s (%s)", name, tag)
}

// reconcileTitle tags one video's title with its creation date, skipping
// the rewrite when the tag is already present so that repeated runs are
// no-ops.
//
// The presence check is plain substring containment: a title that happens
// to contain the digit sequence for an unrelated reason also counts as
// tagged. That approximation is deliberate and kept as-is.
func (r *Runner) reconcileTitle(ctx context.Context, v vimeo.Video) Outcome {
	if v.Name == "" || v.CreatedTime.IsZero() {
		slog.Warn("skipping video with missing title or creation time", "video", v.ID, "uri", v.URI)
		return OutcomeSkippedInvalid
	}

	tag := DateTag(v.CreatedTime)
	if strings.Contains(v.Name, tag) {
		slog.Debug("title already tagged", "video", v.ID, "title", v.Name)
		return OutcomeAlreadyTagged
	}

	newName := TaggedName(v.Name, tag)
	if r.opts.DryRun {
		slog.Info("would update title", "video", v.ID, "title", newName)
		return OutcomeUpdated
	}

	if err := r.lib.UpdateTitle(ctx, v.ID, newName); err != nil {
		slog.Error("title update failed", "video", v.ID, "title", newName, "error", err)
		return OutcomeFailed
	}

	slog.Info("updated title", "video", v.ID, "title", newName)
	return OutcomeUpdated
}
