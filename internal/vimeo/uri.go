package vimeo

import (
	"regexp"
	"strconv"
)

// Vimeo resource URIs end in a numeric segment; the trailing segment is the
// stable identifier. Everything before it is opaque.
var (
	videoURIPattern  = regexp.MustCompile(`/videos/(\d+)$`)
	folderURIPattern = regexp.MustCompile(`/folders/(\d+)$`)
	userURIPattern   = regexp.MustCompile(`/users/(\d+)$`)
)

// VideoID extracts the numeric video identifier from a resource URI.
// Returns false on an empty URI or a URI that does not match; callers
// treat absence as "skip this item", never as a failure.
func VideoID(uri string) (int64, bool) {
	return matchID(videoURIPattern, uri)
}

// FolderID extracts the numeric folder identifier from a resource URI.
func FolderID(uri string) (int64, bool) {
	return matchID(folderURIPattern, uri)
}

// UserID extracts the numeric user identifier from a resource URI.
func UserID(uri string) (int64, bool) {
	return matchID(userURIPattern, uri)
}

func matchID(pattern *regexp.Regexp, uri string) (int64, bool) {
	if uri == "" {
		return 0, false
	}
	m := pattern.FindStringSubmatch(uri)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
