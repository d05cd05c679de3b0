package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	UploadProgress NotificationType = "upload_progress"
	UploadComplete NotificationType = "upload_complete"
	UploadError    NotificationType = "upload_error"
)

// Notification is pushed to connected clients so they can track uploads
// without polling.
type Notification struct {
	Type     NotificationType       `json:"type"`
	UserID   uint                   `json:"user_id"`
	Key      string                 `json:"key,omitempty"`
	Progress int                    `json:"progress,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Client represents a WebSocket client connection
type Client struct {
	UserID uint
	Conn   *websocket.Conn
}

// Manager handles WebSocket connections and notifications
type Manager struct {
	clients    map[uint][]*Client
	mu         sync.RWMutex
	register   chan *Client
	unregister chan *Client
}

var (
	instance *Manager
	once     sync.Once
)

// GetManager returns the singleton WebSocket manager instance
func GetManager() *Manager {
	once.Do(func() {
		instance = &Manager{
			clients:    make(map[uint][]*Client),
			register:   make(chan *Client),
			unregister: make(chan *Client),
		}
		go instance.run()
	})
	return instance
}

func (m *Manager) run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client.UserID] = append(m.clients[client.UserID], client)
			m.mu.Unlock()
		case client := <-m.unregister:
			m.mu.Lock()
			if clients, ok := m.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						m.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						break
					}
				}
				if len(m.clients[client.UserID]) == 0 {
					delete(m.clients, client.UserID)
				}
			}
			m.mu.Unlock()
		}
	}
}

// RegisterClient registers a new WebSocket client
func (m *Manager) RegisterClient(client *Client) {
	m.register <- client
}

// UnregisterClient unregisters a WebSocket client
func (m *Manager) UnregisterClient(client *Client) {
	m.unregister <- client
}

// SendNotification sends a notification to every connection of a user.
func (m *Manager) SendNotification(userID uint, notification *Notification) error {
	m.mu.RLock()
	clients, ok := m.clients[userID]
	m.mu.RUnlock()

	if !ok {
		return nil // No clients connected for this user
	}

	data, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	for _, client := range clients {
		if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Keep sending to the remaining clients
			continue
		}
	}

	return nil
}

// SendUploadProgress sends an upload progress notification
func (m *Manager) SendUploadProgress(userID uint, key string, progress int) {
	m.SendNotification(userID, &Notification{
		Type:     UploadProgress,
		UserID:   userID,
		Key:      key,
		Progress: progress,
	})
}

// SendUploadComplete sends an upload complete notification
func (m *Manager) SendUploadComplete(userID uint, key string, data map[string]interface{}) {
	m.SendNotification(userID, &Notification{
		Type:   UploadComplete,
		UserID: userID,
		Key:    key,
		Data:   data,
	})
}

// SendUploadError sends an upload error notification
func (m *Manager) SendUploadError(userID uint, key string, errorMsg string) {
	m.SendNotification(userID, &Notification{
		Type:    UploadError,
		UserID:  userID,
		Key:     key,
		Message: errorMsg,
	})
}
