package medialib

import (
	"sync"
)

// EventType identifies a controller event.
type EventType string

const (
	EventFolderChanged  EventType = "folder_changed"
	EventContentLoaded  EventType = "content_loaded"
	EventStateChanged   EventType = "state_changed"
	EventOperationDone  EventType = "operation_done"
	EventOperationError EventType = "operation_error"
	EventUploadProgress EventType = "upload_progress"
)

// Event is a typed notification published by the controller so observers
// can react to state changes without polling. It replaces ambient
// cross-component signaling with an explicit channel.
type Event struct {
	Type     EventType
	Op       string
	Folder   string
	File     string
	Progress int
	Message  string
}

// bus is a minimal publish/subscribe fan-out. Publishing never blocks: a
// subscriber that falls behind loses events rather than stalling an
// operation.
type bus struct {
	mu   sync.Mutex
	subs []chan Event
}

func (b *bus) subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			for i, sub := range b.subs {
				if sub == ch {
					b.subs = append(b.subs[:i], b.subs[i+1:]...)
					break
				}
			}
			b.mu.Unlock()
		})
	}
	return ch, cancel
}

func (b *bus) publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
