package medialib

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadAppendsItemsWithServerKey(t *testing.T) {
	api := &stubAPI{}
	api.upload = func(folder string, f FileUpload) (*UploadResult, error) {
		return &UploadResult{ID: "srv-1", Key: JoinPath(folder, f.Name), URL: "https://cdn.example.com/" + f.Name}, nil
	}
	c := newTestController(newStubContent(), api)
	docs := Folder{ID: "folder-docs", Name: "docs", Path: "docs"}
	seed(c, docs, nil, []Folder{docs}, nil)

	err := c.Upload(context.Background(), []FileUpload{
		{Name: "My Photo.JPG", ContentType: "image/jpeg", Data: []byte("jpegdata")},
	})
	require.NoError(t, err)

	state := c.Snapshot()
	require.Len(t, state.MediaItems, 1)
	item := state.MediaItems[0]
	assert.Equal(t, "srv-1", item.ID)
	assert.Equal(t, "my-photo.jpg", item.FileName)
	assert.Equal(t, "My Photo", item.Title)
	assert.Equal(t, "docs/my-photo.jpg", item.Key)
	assert.Equal(t, int64(8), item.FileSize)
	assert.Equal(t, "image", item.FileType)
	assert.False(t, state.Uploading)
	assert.Empty(t, state.UploadProgress, "progress entries cleaned up")
}

func TestUploadContinuesPastPerFileFailure(t *testing.T) {
	api := &stubAPI{}
	api.upload = func(folder string, f FileUpload) (*UploadResult, error) {
		if f.Name == "bad.png" {
			return nil, errRemote
		}
		return &UploadResult{Key: JoinPath(folder, f.Name)}, nil
	}
	c := newTestController(newStubContent(), api)

	err := c.Upload(context.Background(), []FileUpload{
		{Name: "bad.png", Data: []byte("x")},
		{Name: "good.png", Data: []byte("x")},
	})
	require.Error(t, err)

	state := c.Snapshot()
	require.Len(t, state.MediaItems, 1)
	assert.Equal(t, "good.png", state.MediaItems[0].FileName)
	assert.Contains(t, state.LastError, "bad.png")
	assert.Empty(t, state.UploadProgress)
}

func TestUploadProgressClearedAfterSlowUpload(t *testing.T) {
	// The request outlives at least one checkpoint tick, so the progress
	// goroutine is mid-flight when the upload returns. Cleanup must still
	// leave no stale entry behind.
	api := &stubAPI{upload: func(folder string, f FileUpload) (*UploadResult, error) {
		time.Sleep(uploadCheckpointInterval + 50*time.Millisecond)
		return &UploadResult{Key: f.Name}, nil
	}}
	c := newTestController(newStubContent(), api)

	require.NoError(t, c.Upload(context.Background(), []FileUpload{{Name: "slow.png", Data: []byte("x")}}))

	state := c.Snapshot()
	assert.Empty(t, state.UploadProgress)
	assert.False(t, state.Uploading)
}

func TestUploadUsesCurrentFolder(t *testing.T) {
	var gotFolder string
	api := &stubAPI{upload: func(folder string, f FileUpload) (*UploadResult, error) {
		gotFolder = folder
		return &UploadResult{Key: JoinPath(folder, f.Name)}, nil
	}}
	c := newTestController(newStubContent(), api)
	seed(c, Folder{ID: "folder-a/b", Name: "b", Path: "a/b"}, nil, nil, nil)

	require.NoError(t, c.Upload(context.Background(), []FileUpload{{Name: "f.png"}}))
	assert.Equal(t, "a/b", gotFolder)
}

func TestDeleteItemOptimisticAndRevert(t *testing.T) {
	api := &stubAPI{}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", FileName: "a.png", Key: "a.png"}
	seed(c, RootFolder(), nil, nil, []MediaItem{item})
	c.ToggleSelect("i1")

	var inFlight State
	api.del = func(key string) error {
		inFlight = c.Snapshot()
		return errRemote
	}
	before := c.Snapshot()

	err := c.DeleteItem(context.Background(), item)
	require.Error(t, err)

	// Gone, and deselected, while the request was outstanding.
	assert.Empty(t, inFlight.MediaItems)
	assert.Empty(t, inFlight.Selected)
	// Restored, selection included, after the failure.
	assertStateEqual(t, before, c.Snapshot())
}

func TestDeleteItemAbortsWithoutConfirmation(t *testing.T) {
	called := false
	api := &stubAPI{del: func(key string) error {
		called = true
		return nil
	}}
	c := newTestController(newStubContent(), api, WithConfirm(func(string) bool { return false }))
	item := MediaItem{ID: "i1", FileName: "a.png", Key: "a.png"}
	seed(c, RootFolder(), nil, nil, []MediaItem{item})

	require.NoError(t, c.DeleteItem(context.Background(), item))
	assert.False(t, called)
	assert.Len(t, c.Snapshot().MediaItems, 1)
}

func TestDeleteSelectedItemsPartialFailureKeepsRemovals(t *testing.T) {
	api := &stubAPI{deleteBulk: func(keys []string) (*BulkDeleteResult, error) {
		return &BulkDeleteResult{Deleted: len(keys) - 1, ErrorCount: 1}, nil
	}}
	c := newTestController(newStubContent(), api)
	seed(c, RootFolder(), nil, nil, []MediaItem{
		{ID: "i1", FileName: "a.png", Key: "a.png"},
		{ID: "i2", FileName: "b.png", Key: "b.png"},
		{ID: "i3", FileName: "c.png", Key: "c.png"},
	})
	c.ToggleSelect("i1")
	c.ToggleSelect("i2")
	c.ToggleSelect("i3")

	require.NoError(t, c.DeleteSelectedItems(context.Background()))

	// All three stay removed even though one failed server-side; the
	// partial failure is a warning, not a revert.
	state := c.Snapshot()
	assert.Empty(t, state.MediaItems)
	assert.Empty(t, state.Selected)
	assert.Equal(t, "1 of 3 file(s) could not be deleted", state.LastError)
}

func TestDeleteSelectedItemsTotalFailureReverts(t *testing.T) {
	api := &stubAPI{deleteBulk: func(keys []string) (*BulkDeleteResult, error) {
		return nil, errRemote
	}}
	c := newTestController(newStubContent(), api)
	seed(c, RootFolder(), nil, nil, []MediaItem{
		{ID: "i1", FileName: "a.png", Key: "a.png"},
		{ID: "i2", FileName: "b.png", Key: "b.png"},
	})
	c.ToggleSelect("i1")
	c.ToggleSelect("i2")
	before := c.Snapshot()

	err := c.DeleteSelectedItems(context.Background())
	require.Error(t, err)
	assertStateEqual(t, before, c.Snapshot())
}

func TestDeleteSelectedItemsNoSelectionIsNoop(t *testing.T) {
	called := false
	api := &stubAPI{deleteBulk: func(keys []string) (*BulkDeleteResult, error) {
		called = true
		return &BulkDeleteResult{}, nil
	}}
	c := newTestController(newStubContent(), api)
	seed(c, RootFolder(), nil, nil, []MediaItem{{ID: "i1", Key: "a.png"}})

	require.NoError(t, c.DeleteSelectedItems(context.Background()))
	assert.False(t, called)
}

func TestRenameFileOptimisticTitleThenServerKey(t *testing.T) {
	api := &stubAPI{}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", Title: "old", FileName: "old.PNG", Key: "docs/old.png", FileURL: "u-old"}
	seed(c, Folder{ID: "folder-docs", Name: "docs", Path: "docs"}, nil, nil, []MediaItem{item})

	var inFlight State
	api.rename = func(key, newName string) (*FileResult, error) {
		inFlight = c.Snapshot()
		assert.Equal(t, "docs/old.png", key)
		assert.Equal(t, "new-name.png", newName)
		return &FileResult{Key: "docs/new-name.png", URL: "u-new"}, nil
	}

	require.NoError(t, c.RenameFile(context.Background(), item, "New Name"))

	// While the request was outstanding only the display fields changed.
	require.Len(t, inFlight.MediaItems, 1)
	assert.Equal(t, "New Name", inFlight.MediaItems[0].Title)
	assert.Equal(t, "new-name.png", inFlight.MediaItems[0].FileName)
	assert.Equal(t, "docs/old.png", inFlight.MediaItems[0].Key)
	assert.Equal(t, "u-old", inFlight.MediaItems[0].FileURL)

	// The server's key and URL were reconciled in afterwards.
	state := c.Snapshot()
	assert.Equal(t, "docs/new-name.png", state.MediaItems[0].Key)
	assert.Equal(t, "u-new", state.MediaItems[0].FileURL)
}

func TestRenameFileRevertOnFailure(t *testing.T) {
	api := &stubAPI{rename: func(key, newName string) (*FileResult, error) {
		return nil, errRemote
	}}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", Title: "old", FileName: "old.png", Key: "old.png", FileURL: "u"}
	seed(c, RootFolder(), nil, nil, []MediaItem{item})
	before := c.Snapshot()

	err := c.RenameFile(context.Background(), item, "new")
	require.Error(t, err)
	assertStateEqual(t, before, c.Snapshot())
}

func TestRenameFileKeepsExtensionFromOldName(t *testing.T) {
	var gotName string
	api := &stubAPI{rename: func(key, newName string) (*FileResult, error) {
		gotName = newName
		return &FileResult{}, nil
	}}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", FileName: "photo.JPG", Key: "photo.jpg"}
	seed(c, RootFolder(), nil, nil, []MediaItem{item})

	require.NoError(t, c.RenameFile(context.Background(), item, "Vacation Shot"))
	assert.Equal(t, "vacation-shot.jpg", gotName)
}
