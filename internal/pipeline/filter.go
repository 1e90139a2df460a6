package pipeline

import (
	"log/slog"

	"github.com/trop3n/samc/internal/vimeo"
)

// SplitExcluded partitions videos by folder membership, returning the kept
// videos and how many were dropped.
//
// A video with no folder always passes. A video whose folder reference is
// present but carries no resolvable identifier is kept too — exclusion
// requires a positively resolved, matching folder id. Uncertainty favors
// processing over silent suppression; the anomaly is logged.
func SplitExcluded(videos []vimeo.Video, excluded map[int64]struct{}) ([]vimeo.Video, int) {
	kept := make([]vimeo.Video, 0, len(videos))
	dropped := 0

	for _, v := range videos {
		if v.Folder == nil {
			kept = append(kept, v)
			continue
		}

		folderID, ok := v.Folder.ID()
		if !ok {
			slog.Warn("video has a folder reference with no resolvable id, keeping it",
				"video", v.ID, "folder_uri", v.Folder.URI)
			kept = append(kept, v)
			continue
		}

		if _, isExcluded := excluded[folderID]; isExcluded {
			slog.Debug("skipping video in excluded folder", "video", v.ID, "folder", folderID)
			dropped++
			continue
		}
		kept = append(kept, v)
	}

	return kept, dropped
}
