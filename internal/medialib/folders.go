package medialib

import (
	"context"
	"fmt"
	"strings"

	"go-media-library/internal/utils"
)

// CreateFolder optimistically adds a folder under the current folder and
// issues the remote create. The display name keeps its original form while
// the path uses the sanitized one. On failure the optimistic folder is
// removed again.
func (c *Controller) CreateFolder(ctx context.Context, name string) error {
	sanitized := utils.SanitizeName(name)
	if sanitized == "" {
		err := fmt.Errorf("invalid folder name %q", name)
		c.setError("create folder", err)
		return err
	}

	c.mu.Lock()
	parentPath := c.state.CurrentFolder.Path
	path := JoinPath(parentPath, sanitized)
	for _, f := range c.state.Folders {
		if f.Path == path {
			c.mu.Unlock()
			err := fmt.Errorf("folder %q already exists", path)
			c.setError("create folder", err)
			return err
		}
	}

	folder := Folder{
		ID:         FolderID(path),
		Name:       name,
		Path:       path,
		ParentPath: parentPath,
	}
	c.state.Folders = append(c.state.Folders, folder)
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "create folder", Folder: path})

	res, err := c.api.CreateFolder(ctx, parentPath, name)
	if err != nil {
		c.mu.Lock()
		c.state.Folders = removeFolderByID(c.state.Folders, folder.ID)
		c.mu.Unlock()
		c.setError("create folder", err)
		return err
	}

	// Server path is authoritative when it differs from the guess.
	if res.Path != "" && res.Path != path {
		c.mu.Lock()
		for i := range c.state.Folders {
			if c.state.Folders[i].ID == folder.ID {
				c.state.Folders[i].Path = res.Path
				break
			}
		}
		c.mu.Unlock()
	}

	c.bus.publish(Event{Type: EventOperationDone, Op: "create folder", Folder: path})
	return nil
}

// DeleteFolder asks for confirmation, optimistically removes the folder
// with all of its descendants and contained items, and issues the remote
// delete. When the folder being viewed is deleted (or is a descendant of
// it) the view navigates back. On failure the full pre-delete folder and
// item lists are restored.
func (c *Controller) DeleteFolder(ctx context.Context, folder Folder) error {
	if !c.confirm(fmt.Sprintf("Delete folder %q and all of its contents?", folder.Name)) {
		return nil
	}

	c.mu.Lock()
	prevFolders := append([]Folder(nil), c.state.Folders...)
	prevItems := append([]MediaItem(nil), c.state.MediaItems...)
	prevSelected := copySelection(c.state.Selected)
	prevCurrent := c.state.CurrentFolder
	prevHistory := append([]Folder(nil), c.state.FolderHistory...)

	prefix := folder.Path + "/"
	kept := c.state.Folders[:0:0]
	for _, f := range c.state.Folders {
		if f.Path == folder.Path || strings.HasPrefix(f.Path, prefix) {
			continue
		}
		kept = append(kept, f)
	}
	c.state.Folders = kept

	items := c.state.MediaItems[:0:0]
	for _, item := range c.state.MediaItems {
		if strings.HasPrefix(item.Key, prefix) || item.EffectiveFolder() == folder.Path {
			delete(c.state.Selected, item.ID)
			continue
		}
		items = append(items, item)
	}
	c.state.MediaItems = items

	navigated := false
	current := c.state.CurrentFolder.Path
	if current == folder.Path || strings.HasPrefix(current, prefix) {
		if n := len(c.state.FolderHistory); n > 0 {
			c.state.CurrentFolder = c.state.FolderHistory[n-1]
			c.state.FolderHistory = c.state.FolderHistory[:n-1]
		} else {
			c.state.CurrentFolder = RootFolder()
		}
		navigated = true
	}
	refetchPath := c.state.CurrentFolder.Path
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "delete folder", Folder: folder.Path})

	if err := c.api.DeleteFolder(ctx, folder.Path); err != nil {
		c.mu.Lock()
		c.state.Folders = prevFolders
		c.state.MediaItems = prevItems
		c.state.Selected = prevSelected
		c.state.CurrentFolder = prevCurrent
		c.state.FolderHistory = prevHistory
		c.mu.Unlock()
		c.setError("delete folder", err)
		return err
	}

	c.bus.publish(Event{Type: EventOperationDone, Op: "delete folder", Folder: folder.Path})
	if navigated {
		return c.FetchContent(ctx, refetchPath)
	}
	return nil
}

// RenameFolder renames the folder identified by pathOrName. The new path is
// computed from the parent path and the sanitized new name, and the rename
// is propagated to every item whose key carried the old prefix. If no
// folder matches, the operation fails fast without mutating anything. The
// revert restores the folder's fields and each affected item individually
// by id rather than overwriting the whole item list, so unrelated
// concurrent changes are not clobbered.
func (c *Controller) RenameFolder(ctx context.Context, pathOrName, newName string) error {
	sanitized := utils.SanitizeName(newName)
	if sanitized == "" {
		err := fmt.Errorf("invalid folder name %q", newName)
		c.setError("rename folder", err)
		return err
	}

	c.mu.Lock()
	folder, ok := c.resolveFolder(pathOrName)
	if !ok {
		c.mu.Unlock()
		err := fmt.Errorf("folder not found: %s", pathOrName)
		c.setError("rename folder", err)
		return err
	}

	oldPath := folder.Path
	newPath := JoinPath(folder.ParentPath, sanitized)
	prevFolder := folder
	wasCurrent := c.state.CurrentFolder.Path == oldPath

	prevItems := make(map[string]MediaItem)
	oldPrefix := oldPath + "/"
	for i := range c.state.MediaItems {
		item := &c.state.MediaItems[i]
		if !strings.HasPrefix(item.Key, oldPrefix) {
			continue
		}
		prevItems[item.ID] = *item
		item.Key = newPath + "/" + item.Key[len(oldPrefix):]
		if item.Folder == oldPath {
			item.Folder = newPath
		}
	}

	for i := range c.state.Folders {
		if c.state.Folders[i].ID == folder.ID {
			c.state.Folders[i].Name = newName
			c.state.Folders[i].Path = newPath
			break
		}
	}
	if wasCurrent {
		c.state.CurrentFolder.Name = newName
		c.state.CurrentFolder.Path = newPath
	}
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "rename folder", Folder: newPath})

	res, err := c.api.RenameFolder(ctx, oldPath, newName)
	if err != nil {
		c.mu.Lock()
		for i := range c.state.Folders {
			if c.state.Folders[i].ID == folder.ID {
				c.state.Folders[i] = prevFolder
				break
			}
		}
		if wasCurrent {
			c.state.CurrentFolder = prevFolder
		}
		for i := range c.state.MediaItems {
			if orig, ok := prevItems[c.state.MediaItems[i].ID]; ok {
				c.state.MediaItems[i] = orig
			}
		}
		c.mu.Unlock()
		c.setError("rename folder", err)
		return err
	}

	if res.Path != "" && res.Path != newPath {
		c.mu.Lock()
		guessPrefix := newPath + "/"
		for i := range c.state.Folders {
			if c.state.Folders[i].ID == folder.ID {
				c.state.Folders[i].Path = res.Path
				break
			}
		}
		if wasCurrent {
			c.state.CurrentFolder.Path = res.Path
		}
		for i := range c.state.MediaItems {
			item := &c.state.MediaItems[i]
			if strings.HasPrefix(item.Key, guessPrefix) {
				item.Key = res.Path + "/" + item.Key[len(guessPrefix):]
				if item.Folder == newPath {
					item.Folder = res.Path
				}
			}
		}
		c.mu.Unlock()
	}

	c.bus.publish(Event{Type: EventOperationDone, Op: "rename folder", Folder: newPath})
	return nil
}

// MoveFolder moves a folder under a new parent. Cross-tree moves are hard
// to predict locally, so no optimistic update is applied: the remote call
// runs first and a full refetch of the current folder follows on success.
// On failure nothing was changed locally, so only the error is surfaced.
func (c *Controller) MoveFolder(ctx context.Context, pathOrName, targetPath string) error {
	c.mu.Lock()
	folder, ok := c.resolveFolder(pathOrName)
	currentPath := c.state.CurrentFolder.Path
	c.mu.Unlock()
	if !ok {
		err := fmt.Errorf("folder not found: %s", pathOrName)
		c.setError("move folder", err)
		return err
	}

	if err := c.api.MoveFolder(ctx, folder.Path, targetPath); err != nil {
		c.setError("move folder", err)
		return err
	}

	c.bus.publish(Event{Type: EventOperationDone, Op: "move folder", Folder: folder.Path})
	return c.FetchContent(ctx, currentPath)
}

func removeFolderByID(folders []Folder, id string) []Folder {
	out := folders[:0:0]
	for _, f := range folders {
		if f.ID != id {
			out = append(out, f)
		}
	}
	return out
}

func copySelection(sel map[string]bool) map[string]bool {
	out := make(map[string]bool, len(sel))
	for id, v := range sel {
		out[id] = v
	}
	return out
}
