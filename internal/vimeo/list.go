package vimeo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/trop3n/samc/internal/metrics"
)

// listFields limits each item to what the pipeline consumes.
const listFields = "uri,name,created_time,parent_folder.uri,parent_folder.name"

// ListResult is the outcome of one incremental listing pass.
type ListResult struct {
	Videos []Video
	// ParseSkips counts items dropped for a missing or unparsable
	// created_time, or a URI no identifier could be derived from.
	ParseSkips int
	// Pages is how many pages were actually fetched.
	Pages int
}

// ListCreatedAfter fetches the user's videos created strictly after cutoff,
// newest first, stopping as soon as an older video is observed.
//
// The early exit assumes the API's sort=date/direction=desc ordering is
// exact; a weaker guarantee would silently miss qualifying videos.
//
// A transport, status, or decode failure on any page returns the videos
// accumulated so far together with the error; callers log it and treat the
// partial result as "less to do", never as fatal. Items with an unusable
// created_time or URI are skipped individually and counted in ParseSkips.
func (c *Client) ListCreatedAfter(ctx context.Context, userID int64, cutoff time.Time) (ListResult, error) {
	var res ListResult

	for page := 1; ; page++ {
		payload, err := c.fetchPage(ctx, userID, page)
		if err != nil {
			return res, fmt.Errorf("list videos page %d: %w", page, err)
		}
		res.Pages++

		qualifying := 0
		for _, item := range payload.Data {
			created, err := parseCreatedTime(item.CreatedTime)
			if err != nil {
				res.ParseSkips++
				slog.Warn("skipping video with unusable created_time", "uri", item.URI, "error", err)
				continue
			}

			// Descending order: the first video at or before the cutoff
			// means no later item in the stream can qualify.
			if !created.After(cutoff) {
				return res, nil
			}

			id, ok := VideoID(item.URI)
			if !ok {
				res.ParseSkips++
				slog.Warn("skipping video with unusable URI", "uri", item.URI)
				continue
			}

			video := Video{
				ID:          id,
				URI:         item.URI,
				Name:        item.Name,
				CreatedTime: created,
			}
			if item.ParentFolder != nil {
				video.Folder = &FolderRef{URI: item.ParentFolder.URI, Name: item.ParentFolder.Name}
			}
			res.Videos = append(res.Videos, video)
			qualifying++
		}

		// Keep paging only while the API signals more AND this page still
		// produced qualifying videos; an all-stale or final page stops the
		// loop without having hit the cutoff.
		if payload.Paging.Next == nil || *payload.Paging.Next == "" || qualifying == 0 {
			return res, nil
		}
	}
}

// fetchPage fetches and decodes a single listing page.
func (c *Client) fetchPage(ctx context.Context, userID int64, page int) (*videosPage, error) {
	started := time.Now()
	defer c.observe(metrics.OpListPage, started)

	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"per_page":  {strconv.Itoa(c.perPage)},
		"sort":      {"date"},
		"direction": {"desc"},
		"fields":    {listFields},
	}

	resp, err := c.get(ctx, fmt.Sprintf("/users/%d/videos", userID), query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var payload videosPage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &payload, nil
}

func parseCreatedTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, fmt.Errorf("created_time missing")
	}
	created, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created_time: %w", err)
	}
	return created, nil
}
