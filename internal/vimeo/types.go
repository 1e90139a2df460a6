package vimeo

import "time"

// Video is one item of the owner's library, decoded and validated at the
// API boundary.
type Video struct {
	ID          int64
	URI         string
	Name        string    // current display title, owned by the remote system
	CreatedTime time.Time // immutable creation instant
	Folder      *FolderRef
}

// FolderRef is the folder a video currently belongs to.
// Nil on a Video means the video sits outside any folder.
type FolderRef struct {
	URI  string
	Name string
}

// ID resolves the folder's numeric identifier from its URI.
func (f *FolderRef) ID() (int64, bool) {
	if f == nil {
		return 0, false
	}
	return FolderID(f.URI)
}

// Wire shapes. Only the fields the client requests are decoded; anything
// else Vimeo sends is ignored.

type userPayload struct {
	URI string `json:"uri"`
}

type folderPayload struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
}

type videoPayload struct {
	URI          string         `json:"uri"`
	Name         string         `json:"name"`
	CreatedTime  string         `json:"created_time"`
	ParentFolder *folderPayload `json:"parent_folder"`
}

type videosPage struct {
	Data   []videoPayload `json:"data"`
	Paging struct {
		Next *string `json:"next"`
	} `json:"paging"`
}
