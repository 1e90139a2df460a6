// Package pipeline implements the discovery-filter-update run: resolve the
// owner's identity, list recently created videos, drop videos in excluded
// folders, and tag each remaining title with its creation date.
package pipeline

// Summary holds the counters of one run. It is created at run start,
// mutated only by the Runner, and read once at the end for reporting.
// Nothing persists across runs.
type Summary struct {
	// Processed counts videos whose title was rewritten.
	Processed int
	// SkippedByFolder counts videos dropped because their folder is excluded.
	SkippedByFolder int
	// SkippedByUpdate counts videos already carrying their date tag plus
	// videos whose title rewrite failed.
	SkippedByUpdate int
	// SkippedByParse counts videos dropped for an unusable timestamp, URI,
	// or missing title.
	SkippedByParse int
}

// Total returns how many videos the run accounted for.
func (s Summary) Total() int {
	return s.Processed + s.SkippedByFolder + s.SkippedByUpdate + s.SkippedByParse
}
