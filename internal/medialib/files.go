package medialib

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-media-library/internal/utils"
)

// uploadCheckpoints are the synthetic progress steps walked while an upload
// request is in flight. Progress is coarse, not a byte-accurate stream.
var uploadCheckpoints = []int{15, 40, 65, 85}

const uploadCheckpointInterval = 200 * time.Millisecond

// Upload sends files one at a time to the current folder. Each file name is
// split into base and extension, the base sanitized and the two recombined
// before upload. Successful uploads append a new item with a locally
// generated id and the server's key and URL; a failed upload records an
// error and only cleans up its progress entry, since no item had been added
// yet.
func (c *Controller) Upload(ctx context.Context, files []FileUpload) error {
	c.mu.Lock()
	folderPath := c.state.CurrentFolder.Path
	c.state.Uploading = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.state.Uploading = false
		c.mu.Unlock()
	}()

	var lastErr error
	for _, file := range files {
		sanitizedName := utils.SanitizeFileName(file.Name)
		title := strings.TrimSuffix(file.Name, filepath.Ext(file.Name))

		c.setUploadProgress(sanitizedName, 5)
		stop := c.advanceProgress(sanitizedName)

		res, err := c.api.Upload(ctx, folderPath, FileUpload{
			Name:        sanitizedName,
			ContentType: file.ContentType,
			Data:        file.Data,
		})
		stop()
		if err != nil {
			c.clearUploadProgress(sanitizedName)
			c.setError(fmt.Sprintf("upload %s", file.Name), err)
			lastErr = err
			continue
		}

		c.setUploadProgress(sanitizedName, 100)
		item := MediaItem{
			ID:         uuid.NewString(),
			Title:      title,
			FileName:   sanitizedName,
			Key:        res.Key,
			Folder:     folderPath,
			FileURL:    res.URL,
			FileSize:   int64(len(file.Data)),
			FileType:   utils.GetFileType(sanitizedName),
			UploadedAt: time.Now(),
		}
		if res.ID != "" {
			item.ID = res.ID
		}

		c.mu.Lock()
		c.state.MediaItems = append(c.state.MediaItems, item)
		c.mu.Unlock()
		c.clearUploadProgress(sanitizedName)
		c.bus.publish(Event{Type: EventOperationDone, Op: "upload", File: sanitizedName})
	}
	return lastErr
}

func (c *Controller) setUploadProgress(file string, progress int) {
	c.mu.Lock()
	c.state.UploadProgress[file] = progress
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventUploadProgress, File: file, Progress: progress})
}

func (c *Controller) clearUploadProgress(file string) {
	c.mu.Lock()
	delete(c.state.UploadProgress, file)
	c.mu.Unlock()
}

// advanceProgress walks the synthetic checkpoints until the returned stop
// function is called. Stop waits for the goroutine to finish, so no
// checkpoint write can land after the caller has cleared the file's
// progress entry.
func (c *Controller) advanceProgress(file string) func() {
	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		for _, p := range uploadCheckpoints {
			select {
			case <-done:
				return
			case <-time.After(uploadCheckpointInterval):
			}
			select {
			case <-done:
				return
			default:
			}
			c.setUploadProgress(file, p)
		}
	}()
	return func() {
		close(done)
		<-finished
	}
}

// DeleteItem asks for confirmation, optimistically removes a single item
// from state and selection, and issues the remote delete. On failure the
// captured item is re-inserted.
func (c *Controller) DeleteItem(ctx context.Context, item MediaItem) error {
	if !c.confirm(fmt.Sprintf("Delete %q?", item.FileName)) {
		return nil
	}

	c.mu.Lock()
	var snapshot *MediaItem
	wasSelected := c.state.Selected[item.ID]
	for i := range c.state.MediaItems {
		if c.state.MediaItems[i].ID == item.ID {
			captured := c.state.MediaItems[i]
			snapshot = &captured
			c.state.MediaItems = append(c.state.MediaItems[:i], c.state.MediaItems[i+1:]...)
			break
		}
	}
	delete(c.state.Selected, item.ID)
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "delete file", File: item.FileName})

	if err := c.api.Delete(ctx, item.Key); err != nil {
		if snapshot != nil {
			c.mu.Lock()
			c.state.MediaItems = append(c.state.MediaItems, *snapshot)
			if wasSelected {
				c.state.Selected[snapshot.ID] = true
			}
			c.mu.Unlock()
		}
		c.setError("delete file", err)
		return err
	}

	c.bus.publish(Event{Type: EventOperationDone, Op: "delete file", File: item.FileName})
	return nil
}

// DeleteSelectedItems deletes every selected item with one bulk remote
// call. Partial server-side failures are reported as a count without
// reverting anything, since the bulk path is best-effort at scale; a total
// request failure restores the full original set and selection.
func (c *Controller) DeleteSelectedItems(ctx context.Context) error {
	c.mu.Lock()
	targets := make(map[string]MediaItem)
	keys := make([]string, 0, len(c.state.Selected))
	for _, item := range c.state.MediaItems {
		if c.state.Selected[item.ID] {
			targets[item.ID] = item
			keys = append(keys, item.Key)
		}
	}
	c.mu.Unlock()
	if len(targets) == 0 {
		return nil
	}
	if !c.confirm(fmt.Sprintf("Delete %d selected file(s)?", len(targets))) {
		return nil
	}

	c.mu.Lock()
	prevSelected := copySelection(c.state.Selected)
	kept := c.state.MediaItems[:0:0]
	for _, item := range c.state.MediaItems {
		if _, ok := targets[item.ID]; ok {
			continue
		}
		kept = append(kept, item)
	}
	c.state.MediaItems = kept
	c.state.Selected = make(map[string]bool)
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "delete files"})

	res, err := c.api.DeleteBulk(ctx, keys)
	if err != nil {
		c.mu.Lock()
		for _, item := range targets {
			c.state.MediaItems = append(c.state.MediaItems, item)
		}
		c.state.Selected = prevSelected
		c.mu.Unlock()
		c.setError("delete files", err)
		return err
	}

	if res.ErrorCount > 0 {
		msg := fmt.Sprintf("%d of %d file(s) could not be deleted", res.ErrorCount, len(keys))
		c.mu.Lock()
		c.state.LastError = msg
		c.mu.Unlock()
		c.bus.publish(Event{Type: EventOperationError, Op: "delete files", Message: msg})
	} else {
		c.bus.publish(Event{Type: EventOperationDone, Op: "delete files"})
	}
	return nil
}

// RenameFile renames an item. The new base name is sanitized and the
// original extension kept, lowercased. Only the title and file name are
// updated optimistically; the key and URL are server-computed and applied
// on success. On failure all four captured fields are restored.
func (c *Controller) RenameFile(ctx context.Context, item MediaItem, newName string) error {
	base := utils.SanitizeName(strings.TrimSuffix(newName, filepath.Ext(newName)))
	if base == "" {
		err := fmt.Errorf("invalid file name %q", newName)
		c.setError("rename file", err)
		return err
	}
	ext := strings.ToLower(filepath.Ext(item.FileName))
	sanitizedName := base + ext

	c.mu.Lock()
	var prev MediaItem
	found := false
	for i := range c.state.MediaItems {
		if c.state.MediaItems[i].ID == item.ID {
			prev = c.state.MediaItems[i]
			c.state.MediaItems[i].Title = strings.TrimSuffix(newName, filepath.Ext(newName))
			c.state.MediaItems[i].FileName = sanitizedName
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		err := fmt.Errorf("file not found: %s", item.FileName)
		c.setError("rename file", err)
		return err
	}
	c.bus.publish(Event{Type: EventStateChanged, Op: "rename file", File: sanitizedName})

	res, err := c.api.Rename(ctx, prev.Key, sanitizedName)
	if err != nil {
		c.mu.Lock()
		for i := range c.state.MediaItems {
			if c.state.MediaItems[i].ID == item.ID {
				c.state.MediaItems[i].Title = prev.Title
				c.state.MediaItems[i].FileName = prev.FileName
				c.state.MediaItems[i].Key = prev.Key
				c.state.MediaItems[i].FileURL = prev.FileURL
				break
			}
		}
		c.mu.Unlock()
		c.setError("rename file", err)
		return err
	}

	c.mu.Lock()
	for i := range c.state.MediaItems {
		if c.state.MediaItems[i].ID == item.ID {
			if res.Key != "" {
				c.state.MediaItems[i].Key = res.Key
			}
			if res.URL != "" {
				c.state.MediaItems[i].FileURL = res.URL
			}
			break
		}
	}
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventOperationDone, Op: "rename file", File: sanitizedName})
	return nil
}
