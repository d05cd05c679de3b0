package medialib

import (
	"context"
)

// ListResult is the content-fetch payload for the items of a folder.
type ListResult struct {
	Items []MediaItem `json:"items"`
}

// FolderDetail carries advisory counts for a listed subfolder.
type FolderDetail struct {
	Path           string `json:"path"`
	Name           string `json:"name"`
	SubfolderCount int    `json:"subfolder_count"`
}

// FolderListResult is the content-fetch payload for the subfolders of a
// folder.
type FolderListResult struct {
	Folders []string       `json:"folders"`
	Details []FolderDetail `json:"details"`
}

// ContentAPI is the read side of the remote library. Implementations may
// layer a cache in front of the network; any cache failure must fall back
// to a direct call.
type ContentAPI interface {
	List(ctx context.Context, folderPath string) (*ListResult, error)
	ListFolders(ctx context.Context, folderPath string) (*FolderListResult, error)
}

// FileUpload is a file payload handed to Upload.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// CreateFolderResult is returned by a successful folder creation. Path is
// the server's authoritative sanitized path, which may differ from the
// client's optimistic guess.
type CreateFolderResult struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// RenameFolderResult carries the authoritative path after a folder rename.
type RenameFolderResult struct {
	Path string `json:"path"`
}

// UploadResult carries the authoritative key and URL of an uploaded file.
type UploadResult struct {
	ID  string `json:"id"`
	Key string `json:"key"`
	URL string `json:"url"`
}

// FileResult carries the authoritative key and URL after a file rename or
// move.
type FileResult struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// BulkDeleteResult reports how many keys of a bulk delete failed server-side.
type BulkDeleteResult struct {
	Deleted    int `json:"deleted"`
	ErrorCount int `json:"error_count"`
}

// MoveItemResult is the per-item outcome of a bulk move, matched back to
// local items by the original key.
type MoveItemResult struct {
	OldKey string `json:"old_key"`
	NewKey string `json:"new_key"`
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
}

// BulkMoveResult is the outcome of a bulk move.
type BulkMoveResult struct {
	Results    []MoveItemResult `json:"results"`
	ErrorCount int              `json:"error_count"`
}

// MutationAPI is the write side of the remote library. Every method either
// returns a success payload or an error; `{error}` response bodies and
// transport failures surface uniformly as errors.
type MutationAPI interface {
	CreateFolder(ctx context.Context, parentPath, name string) (*CreateFolderResult, error)
	DeleteFolder(ctx context.Context, path string) error
	RenameFolder(ctx context.Context, oldPath, newName string) (*RenameFolderResult, error)
	MoveFolder(ctx context.Context, sourcePath, targetPath string) error
	Upload(ctx context.Context, folderPath string, file FileUpload) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	DeleteBulk(ctx context.Context, keys []string) (*BulkDeleteResult, error)
	Rename(ctx context.Context, key, newName string) (*FileResult, error)
	Move(ctx context.Context, key, targetFolder string) (*FileResult, error)
	MoveBulk(ctx context.Context, keys []string, targetFolder string) (*BulkMoveResult, error)
}
