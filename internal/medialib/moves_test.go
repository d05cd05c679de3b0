package medialib

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveFileOutOfViewRemovesAndDeselects(t *testing.T) {
	api := &stubAPI{}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", FileName: "a.png", Key: "docs/a.png"}
	seed(c, Folder{ID: "folder-docs", Name: "docs", Path: "docs"}, nil, nil, []MediaItem{item})
	c.ToggleSelect("i1")

	var inFlight State
	api.move = func(key, target string) (*FileResult, error) {
		inFlight = c.Snapshot()
		return &FileResult{Key: "archive/a.png"}, nil
	}

	require.NoError(t, c.MoveFile(context.Background(), item, "archive"))

	assert.Empty(t, inFlight.MediaItems, "removed from view before the response")
	assert.Empty(t, inFlight.Selected)
	assert.Empty(t, c.Snapshot().MediaItems)
}

func TestMoveFileOutOfViewRevertOnFailure(t *testing.T) {
	api := &stubAPI{move: func(key, target string) (*FileResult, error) {
		return nil, errRemote
	}}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", FileName: "a.png", Key: "docs/a.png"}
	seed(c, Folder{ID: "folder-docs", Name: "docs", Path: "docs"}, nil, nil, []MediaItem{item})
	c.ToggleSelect("i1")
	before := c.Snapshot()

	err := c.MoveFile(context.Background(), item, "archive")
	require.Error(t, err)
	assertStateEqual(t, before, c.Snapshot())
}

func TestMoveFileIntoViewUsesGuessedKeyThenServerKey(t *testing.T) {
	api := &stubAPI{}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", FileName: "a.png", Key: "docs/a.png", Folder: "docs"}
	// Viewing archive; the item lives elsewhere and moves in.
	seed(c, Folder{ID: "folder-archive", Name: "archive", Path: "archive"}, nil, nil, nil)

	var inFlight State
	api.move = func(key, target string) (*FileResult, error) {
		inFlight = c.Snapshot()
		// Server picked a different key than the client's guess.
		return &FileResult{Key: "archive/a-1.png", URL: "u-new"}, nil
	}

	require.NoError(t, c.MoveFile(context.Background(), item, "archive"))

	// Provisional copy with the guessed key while in flight.
	require.Len(t, inFlight.MediaItems, 1)
	assert.Equal(t, "archive/a.png", inFlight.MediaItems[0].Key)
	assert.Equal(t, "archive", inFlight.MediaItems[0].Folder)

	// Server truth reconciled in afterwards.
	state := c.Snapshot()
	require.Len(t, state.MediaItems, 1)
	assert.Equal(t, "archive/a-1.png", state.MediaItems[0].Key)
	assert.Equal(t, "u-new", state.MediaItems[0].FileURL)
}

func TestMoveFileIntoViewRevertDropsProvisional(t *testing.T) {
	api := &stubAPI{move: func(key, target string) (*FileResult, error) {
		return nil, errRemote
	}}
	c := newTestController(newStubContent(), api)
	item := MediaItem{ID: "i1", FileName: "a.png", Key: "docs/a.png"}
	seed(c, Folder{ID: "folder-archive", Name: "archive", Path: "archive"}, nil, nil, nil)

	err := c.MoveFile(context.Background(), item, "archive")
	require.Error(t, err)
	assert.Empty(t, c.Snapshot().MediaItems)
}

func TestMoveFilesInBulkPartialFailure(t *testing.T) {
	api := &stubAPI{moveBulk: func(keys []string, target string) (*BulkMoveResult, error) {
		res := &BulkMoveResult{}
		for _, key := range keys {
			r := MoveItemResult{OldKey: key}
			if key == "docs/b.png" {
				r.Error = "copy failed"
			} else {
				r.NewKey = JoinPath(target, BaseName(key))
			}
			res.Results = append(res.Results, r)
		}
		res.ErrorCount = 1
		return res, nil
	}}
	c := newTestController(newStubContent(), api)
	items := []MediaItem{
		{ID: "i1", FileName: "a.png", Key: "docs/a.png"},
		{ID: "i2", FileName: "b.png", Key: "docs/b.png"},
	}
	seed(c, Folder{ID: "folder-docs", Name: "docs", Path: "docs"}, nil, nil, items)

	require.NoError(t, c.MoveFilesInBulk(context.Background(), items, "archive"))

	// Both were optimistically removed from view and stay removed; the
	// failed one is reported as a count, not restored.
	state := c.Snapshot()
	assert.Empty(t, state.MediaItems)
	assert.Equal(t, "1 of 2 file(s) could not be moved", state.LastError)
}

func TestMoveFilesInBulkTotalFailureRevertsAll(t *testing.T) {
	api := &stubAPI{moveBulk: func(keys []string, target string) (*BulkMoveResult, error) {
		return nil, errRemote
	}}
	c := newTestController(newStubContent(), api)
	items := []MediaItem{
		{ID: "i1", FileName: "a.png", Key: "docs/a.png"},
		{ID: "i2", FileName: "b.png", Key: "docs/b.png"},
	}
	seed(c, Folder{ID: "folder-docs", Name: "docs", Path: "docs"}, nil, nil, items)
	c.ToggleSelect("i2")
	before := c.Snapshot()

	err := c.MoveFilesInBulk(context.Background(), items, "archive")
	require.Error(t, err)
	assertStateEqual(t, before, c.Snapshot())
}

func TestMoveFilesInBulkEmptyIsNoop(t *testing.T) {
	called := false
	api := &stubAPI{moveBulk: func(keys []string, target string) (*BulkMoveResult, error) {
		called = true
		return &BulkMoveResult{}, nil
	}}
	c := newTestController(newStubContent(), api)

	require.NoError(t, c.MoveFilesInBulk(context.Background(), nil, "archive"))
	assert.False(t, called)
}
