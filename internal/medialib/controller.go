package medialib

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"go-media-library/internal/utils"
)

// ConfirmFunc is asked before destructive operations. Returning false
// aborts the operation without mutating any state.
type ConfirmFunc func(prompt string) bool

// Controller owns the in-memory view of the media library and applies the
// optimistic mutation protocol against the remote API: every mutation
// snapshots the affected state, applies the change locally before the
// remote call, then reconciles server truth on success or restores the
// snapshot on failure.
//
// State is guarded by a mutex. The local apply completes before the remote
// call starts and the reconcile/revert completes atomically after it, so
// observers never see a half-applied mutation. Overlapping operations on
// the same entity are not serialized: the last completion wins, and callers
// are expected to disable the triggering control while a request for that
// entity is outstanding.
type Controller struct {
	mu      sync.Mutex
	content ContentAPI
	api     MutationAPI

	bus     bus
	confirm ConfirmFunc
	log     zerolog.Logger

	state State

	searchDebounce *debouncer
	searchQuery    string
}

// Option configures a Controller.
type Option func(*Controller)

// WithConfirm installs the interactive confirmation hook used by delete
// operations.
func WithConfirm(fn ConfirmFunc) Option {
	return func(c *Controller) { c.confirm = fn }
}

// WithLogger installs a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

// WithSearchDebounce sets the delay used to coalesce search-query updates.
func WithSearchDebounce(d time.Duration) Option {
	return func(c *Controller) { c.searchDebounce = newDebouncer(d) }
}

// New creates a controller over the given read and write APIs. The initial
// current folder is the root with an empty history.
func New(content ContentAPI, api MutationAPI, opts ...Option) *Controller {
	c := &Controller{
		content: content,
		api:     api,
		confirm: func(string) bool { return true },
		log:     zerolog.Nop(),
		state:   newState(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.searchDebounce == nil {
		c.searchDebounce = newDebouncer(250 * time.Millisecond)
	}
	return c
}

// Events returns a channel of controller notifications and a function that
// cancels the subscription. Each call creates an independent subscription;
// callers must cancel when done or the subscription lives as long as the
// controller.
func (c *Controller) Events() (<-chan Event, func()) {
	return c.bus.subscribe()
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// NavigateToFolder pushes the current folder onto the history stack, makes
// folder current and refetches its contents.
func (c *Controller) NavigateToFolder(ctx context.Context, folder Folder) error {
	c.mu.Lock()
	c.state.FolderHistory = append(c.state.FolderHistory, c.state.CurrentFolder)
	c.state.CurrentFolder = folder
	path := folder.Path
	c.mu.Unlock()

	c.bus.publish(Event{Type: EventFolderChanged, Folder: path})
	return c.FetchContent(ctx, path)
}

// NavigateBack pops the history stack. With an empty history it is a no-op:
// the root with an empty history is the terminal state.
func (c *Controller) NavigateBack(ctx context.Context) error {
	c.mu.Lock()
	n := len(c.state.FolderHistory)
	if n == 0 {
		c.mu.Unlock()
		return nil
	}
	c.state.CurrentFolder = c.state.FolderHistory[n-1]
	c.state.FolderHistory = c.state.FolderHistory[:n-1]
	path := c.state.CurrentFolder.Path
	c.mu.Unlock()

	c.bus.publish(Event{Type: EventFolderChanged, Folder: path})
	return c.FetchContent(ctx, path)
}

// FetchContent loads the items and subfolders of a folder and replaces the
// visible sets wholesale. Folder item counts are recomputed here from the
// fetched keys rather than trusted from any stale source.
func (c *Controller) FetchContent(ctx context.Context, folderPath string) error {
	items, err := c.content.List(ctx, folderPath)
	if err != nil {
		c.setError("load media", err)
		return err
	}
	folderList, err := c.content.ListFolders(ctx, folderPath)
	if err != nil {
		c.setError("load folders", err)
		return err
	}

	details := make(map[string]FolderDetail, len(folderList.Details))
	for _, d := range folderList.Details {
		details[d.Path] = d
	}

	folders := make([]Folder, 0, len(folderList.Folders))
	for _, path := range folderList.Folders {
		f := Folder{
			ID:         FolderID(path),
			Name:       BaseName(path),
			Path:       path,
			ParentPath: folderPath,
		}
		if d, ok := details[path]; ok {
			if d.Name != "" {
				f.Name = d.Name
			}
			f.SubfolderCount = d.SubfolderCount
		}
		for _, item := range items.Items {
			if KeyInFolder(item.Key, path) {
				f.ItemCount++
			}
		}
		folders = append(folders, f)
	}

	c.mu.Lock()
	c.state.Folders = folders
	c.state.MediaItems = append([]MediaItem(nil), items.Items...)
	c.state.LastError = ""
	c.state.ConfigError = false
	c.mu.Unlock()

	c.bus.publish(Event{Type: EventContentLoaded, Folder: folderPath})
	return nil
}

// ClearError resets the visible error state.
func (c *Controller) ClearError() {
	c.mu.Lock()
	c.state.LastError = ""
	c.state.ConfigError = false
	c.mu.Unlock()
}

// setError records a user-visible failure message combining the operation
// name with the underlying error text. Storage misconfiguration is
// distinguished so the UI can render a dedicated message.
func (c *Controller) setError(op string, err error) {
	msg := fmt.Sprintf("Failed to %s: %v", op, err)
	cfg := isConfigError(err)

	c.mu.Lock()
	c.state.LastError = msg
	c.state.ConfigError = cfg
	c.mu.Unlock()

	c.log.Error().Str("op", op).Err(err).Msg("operation failed")
	c.bus.publish(Event{Type: EventOperationError, Op: op, Message: msg})
}

func isConfigError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not configured") ||
		strings.Contains(msg, "misconfigured") ||
		strings.Contains(msg, "missing bucket")
}

// resolveFolder finds a folder by its canonical path. Paths are established
// at creation time, so lookup is exact: the given value, the current
// folder, or the sanitized form of a raw display name.
func (c *Controller) resolveFolder(pathOrName string) (Folder, bool) {
	if c.state.CurrentFolder.Path == pathOrName {
		return c.state.CurrentFolder, true
	}
	for _, f := range c.state.Folders {
		if f.Path == pathOrName {
			return f, true
		}
	}
	sanitized := utils.SanitizeName(pathOrName)
	for _, f := range c.state.Folders {
		if f.Path == sanitized || f.Path == JoinPath(c.state.CurrentFolder.Path, sanitized) {
			return f, true
		}
	}
	return Folder{}, false
}
