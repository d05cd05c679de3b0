package medialib

import (
	"context"
	"fmt"
)

// moveKind records which optimistic change a move applied, so the revert
// can mirror it exactly.
type moveKind int

const (
	moveNone moveKind = iota
	moveRemoved
	moveAdded
	moveUpdated
)

type moveChange struct {
	kind        moveKind
	prev        MediaItem
	provisional MediaItem
	wasSelected bool
}

// applyMoveLocked applies the differential optimistic update for moving one
// item to targetFolder and returns what it did. Moving out of the viewed
// folder removes the item from view and selection; moving into it adds a
// provisional copy with a guessed key; moving within it updates the item in
// place. Caller holds the state lock.
func (c *Controller) applyMoveLocked(item MediaItem, targetFolder string) moveChange {
	viewing := c.state.CurrentFolder.Path
	from := item.EffectiveFolder()
	guessedKey := JoinPath(targetFolder, BaseName(item.Key))

	switch {
	case from == viewing && targetFolder != viewing:
		for i := range c.state.MediaItems {
			if c.state.MediaItems[i].ID == item.ID {
				change := moveChange{
					kind:        moveRemoved,
					prev:        c.state.MediaItems[i],
					wasSelected: c.state.Selected[item.ID],
				}
				c.state.MediaItems = append(c.state.MediaItems[:i], c.state.MediaItems[i+1:]...)
				delete(c.state.Selected, item.ID)
				return change
			}
		}
		return moveChange{kind: moveNone}

	case targetFolder == viewing && from != viewing:
		provisional := item
		provisional.Key = guessedKey
		provisional.Folder = targetFolder
		c.state.MediaItems = append(c.state.MediaItems, provisional)
		return moveChange{kind: moveAdded, prev: item, provisional: provisional}

	default:
		for i := range c.state.MediaItems {
			if c.state.MediaItems[i].ID == item.ID {
				change := moveChange{kind: moveUpdated, prev: c.state.MediaItems[i]}
				c.state.MediaItems[i].Key = guessedKey
				c.state.MediaItems[i].Folder = targetFolder
				return change
			}
		}
		return moveChange{kind: moveNone}
	}
}

// revertMoveLocked undoes whatever applyMoveLocked did. Caller holds the
// state lock.
func (c *Controller) revertMoveLocked(change moveChange) {
	switch change.kind {
	case moveRemoved:
		c.state.MediaItems = append(c.state.MediaItems, change.prev)
		if change.wasSelected {
			c.state.Selected[change.prev.ID] = true
		}
	case moveAdded:
		for i := range c.state.MediaItems {
			if c.state.MediaItems[i].ID == change.provisional.ID {
				c.state.MediaItems = append(c.state.MediaItems[:i], c.state.MediaItems[i+1:]...)
				break
			}
		}
	case moveUpdated:
		for i := range c.state.MediaItems {
			if c.state.MediaItems[i].ID == change.prev.ID {
				c.state.MediaItems[i] = change.prev
				break
			}
		}
	}
}

// reconcileMoveLocked overwrites the guessed key, URL and folder of an item
// still in view with server truth. Caller holds the state lock.
func (c *Controller) reconcileMoveLocked(id, newKey, newURL, targetFolder string) {
	for i := range c.state.MediaItems {
		if c.state.MediaItems[i].ID != id {
			continue
		}
		if newKey != "" {
			c.state.MediaItems[i].Key = newKey
		}
		if newURL != "" {
			c.state.MediaItems[i].FileURL = newURL
		}
		c.state.MediaItems[i].Folder = targetFolder
		return
	}
}

// MoveFile moves one item to targetFolder following the optimistic
// protocol: the differential local change is applied first, the remote move
// issued, and then either the server's key and URL are reconciled in (when
// the item remains in view) or the local change is mirrored back on
// failure.
func (c *Controller) MoveFile(ctx context.Context, item MediaItem, targetFolder string) error {
	c.mu.Lock()
	change := c.applyMoveLocked(item, targetFolder)
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "move file", File: item.FileName})

	res, err := c.api.Move(ctx, item.Key, targetFolder)
	if err != nil {
		c.mu.Lock()
		c.revertMoveLocked(change)
		c.mu.Unlock()
		c.setError("move file", err)
		return err
	}

	if change.kind == moveAdded || change.kind == moveUpdated {
		c.mu.Lock()
		c.reconcileMoveLocked(item.ID, res.Key, res.URL, targetFolder)
		c.mu.Unlock()
	}

	c.bus.publish(Event{Type: EventOperationDone, Op: "move file", File: item.FileName})
	return nil
}

// MoveFilesInBulk moves several items with one remote call, applying the
// same differential logic per item. Server results are matched back to
// local items by their original key. Per-item failures are reported as a
// count without reverting the successful moves; a total request failure
// reverts the whole batch.
func (c *Controller) MoveFilesInBulk(ctx context.Context, items []MediaItem, targetFolder string) error {
	if len(items) == 0 {
		return nil
	}

	c.mu.Lock()
	changes := make(map[string]moveChange, len(items))
	byKey := make(map[string]MediaItem, len(items))
	keys := make([]string, 0, len(items))
	for _, item := range items {
		changes[item.ID] = c.applyMoveLocked(item, targetFolder)
		byKey[item.Key] = item
		keys = append(keys, item.Key)
	}
	c.mu.Unlock()
	c.bus.publish(Event{Type: EventStateChanged, Op: "move files"})

	res, err := c.api.MoveBulk(ctx, keys, targetFolder)
	if err != nil {
		c.mu.Lock()
		for _, item := range items {
			c.revertMoveLocked(changes[item.ID])
		}
		c.mu.Unlock()
		c.setError("move files", err)
		return err
	}

	c.mu.Lock()
	for _, r := range res.Results {
		if r.Error != "" {
			continue
		}
		item, ok := byKey[r.OldKey]
		if !ok {
			continue
		}
		if change := changes[item.ID]; change.kind == moveAdded || change.kind == moveUpdated {
			c.reconcileMoveLocked(item.ID, r.NewKey, r.URL, targetFolder)
		}
	}
	c.mu.Unlock()

	if res.ErrorCount > 0 {
		msg := fmt.Sprintf("%d of %d file(s) could not be moved", res.ErrorCount, len(keys))
		c.mu.Lock()
		c.state.LastError = msg
		c.mu.Unlock()
		c.bus.publish(Event{Type: EventOperationError, Op: "move files", Message: msg})
	} else {
		c.bus.publish(Event{Type: EventOperationDone, Op: "move files"})
	}
	return nil
}
