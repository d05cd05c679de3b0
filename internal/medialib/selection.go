package medialib

import (
	"sort"
	"strings"
)

// ToggleSelect flips the selection state of an item id. Selection is a
// plain id set; mutating operations prune ids they delete or move out of
// view as part of their optimistic step.
func (c *Controller) ToggleSelect(id string) {
	c.mu.Lock()
	if c.state.Selected[id] {
		delete(c.state.Selected, id)
	} else {
		c.state.Selected[id] = true
	}
	c.mu.Unlock()
}

// ClearSelection deselects everything.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.state.Selected = make(map[string]bool)
	c.mu.Unlock()
}

// SelectedItems returns the currently selected items.
func (c *Controller) SelectedItems() []MediaItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []MediaItem
	for _, item := range c.state.MediaItems {
		if c.state.Selected[item.ID] {
			out = append(out, item)
		}
	}
	return out
}

// SortField selects the sort key for VisibleItems.
type SortField string

const (
	SortByName SortField = "name"
	SortBySize SortField = "size"
	SortByDate SortField = "date"
	SortByType SortField = "type"
)

// SortOptions controls the pure view derivation over the current items.
type SortOptions struct {
	Field      SortField
	Descending bool
}

// SetSearchQuery updates the free-text filter. Rapid successive calls are
// coalesced through the debouncer so typing does not thrash the state.
func (c *Controller) SetSearchQuery(query string) {
	c.searchDebounce.trigger(func() {
		c.mu.Lock()
		c.searchQuery = query
		c.mu.Unlock()
		c.bus.publish(Event{Type: EventStateChanged, Op: "search"})
	})
}

// VisibleItems derives the sorted, filtered item list for the current
// folder. It is a pure synchronous derivation over current state and never
// touches the mutation protocol.
func (c *Controller) VisibleItems(opts SortOptions) []MediaItem {
	c.mu.Lock()
	current := c.state.CurrentFolder.Path
	query := strings.ToLower(c.searchQuery)
	items := make([]MediaItem, 0, len(c.state.MediaItems))
	for _, item := range c.state.MediaItems {
		if item.EffectiveFolder() != current {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(item.Title), query) &&
			!strings.Contains(strings.ToLower(item.FileName), query) {
			continue
		}
		items = append(items, item)
	}
	c.mu.Unlock()

	sort.SliceStable(items, func(i, j int) bool {
		var less bool
		switch opts.Field {
		case SortBySize:
			less = items[i].FileSize < items[j].FileSize
		case SortByDate:
			less = items[i].UploadedAt.Before(items[j].UploadedAt)
		case SortByType:
			less = items[i].FileType < items[j].FileType
		default:
			less = strings.ToLower(items[i].FileName) < strings.ToLower(items[j].FileName)
		}
		if opts.Descending {
			return !less
		}
		return less
	})
	return items
}
