package medialib

import (
	"strings"
	"time"
)

// RootFolderID is the reserved identifier for the library root. The root
// folder has an empty path and is never stored in the folder set.
const RootFolderID = "root"

// Folder is a folder entry in the library tree. Path is the canonical
// sanitized slash-delimited key and is unique within a state snapshot;
// Name keeps the original display form, which may differ from the last
// path segment.
type Folder struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Path           string `json:"path"`
	ParentPath     string `json:"parent_path"`
	ItemCount      int    `json:"item_count"`
	SubfolderCount int    `json:"subfolder_count"`
}

// RootFolder returns the sentinel root folder.
func RootFolder() Folder {
	return Folder{ID: RootFolderID, Name: "All files", Path: ""}
}

// FolderID derives the stable identifier for a folder path when the server
// does not supply one.
func FolderID(path string) string {
	return "folder-" + path
}

// MediaItem is a file entry in the library. Key is the canonical object key
// in the remote store and is authoritative for folder membership; Folder is
// a denormalized convenience field that may lag behind Key and must never be
// trusted over it.
type MediaItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	FileName   string    `json:"file_name"`
	Key        string    `json:"key"`
	Folder     string    `json:"folder"`
	FileURL    string    `json:"file_url"`
	Thumbnail  string    `json:"thumbnail_url,omitempty"`
	FileSize   int64     `json:"file_size"`
	FileType   string    `json:"file_type"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// EffectiveFolder computes the folder an item belongs to. When Key is
// populated it wins over the denormalized Folder field.
func (m MediaItem) EffectiveFolder() string {
	if m.Key == "" {
		return m.Folder
	}
	idx := strings.LastIndex(m.Key, "/")
	if idx < 0 {
		return ""
	}
	return m.Key[:idx]
}

// KeyInFolder reports whether an object key places its item directly inside
// the folder at folderPath: the key starts with the folder path followed by
// a slash and contains no further slash. Keys at the root contain no slash
// at all.
func KeyInFolder(key, folderPath string) bool {
	if key == "" {
		return false
	}
	if folderPath == "" {
		return !strings.Contains(key, "/")
	}
	rest, ok := strings.CutPrefix(key, folderPath+"/")
	if !ok {
		return false
	}
	return rest != "" && !strings.Contains(rest, "/")
}

// JoinPath joins a parent path and a child segment, treating the empty
// parent as the root.
func JoinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}

// BaseName returns the final segment of a slash-delimited key.
func BaseName(key string) string {
	if idx := strings.LastIndex(key, "/"); idx >= 0 {
		return key[idx+1:]
	}
	return key
}

// State is the visible snapshot of the media library. It is reset on every
// folder fetch and mutated incrementally by optimistic operations between
// fetches.
type State struct {
	CurrentFolder Folder
	FolderHistory []Folder
	Folders       []Folder
	MediaItems    []MediaItem
	Selected      map[string]bool

	LastError   string
	ConfigError bool

	Uploading      bool
	UploadProgress map[string]int
}

func newState() State {
	return State{
		CurrentFolder:  RootFolder(),
		Selected:       make(map[string]bool),
		UploadProgress: make(map[string]int),
	}
}

// clone deep-copies the state so snapshots cannot alias controller-owned
// slices and maps.
func (s State) clone() State {
	out := s
	out.FolderHistory = append([]Folder(nil), s.FolderHistory...)
	out.Folders = append([]Folder(nil), s.Folders...)
	out.MediaItems = append([]MediaItem(nil), s.MediaItems...)
	out.Selected = make(map[string]bool, len(s.Selected))
	for id, v := range s.Selected {
		out.Selected[id] = v
	}
	out.UploadProgress = make(map[string]int, len(s.UploadProgress))
	for k, v := range s.UploadProgress {
		out.UploadProgress[k] = v
	}
	return out
}
