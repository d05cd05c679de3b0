package models

import (
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-media-library/internal/database"
)

// Media represents a media file in the library. Key is the canonical object
// key in the storage backend and is authoritative for folder membership;
// FolderPath is a denormalized convenience column kept in sync on writes.
// The key index is partial, scoped to live rows: a soft-deleted row must
// not keep its key reserved, or the name could never be reused after a
// delete.
type Media struct {
	ID         string `gorm:"primarykey"`
	UserID     uint   `gorm:"index"`
	Key        string `gorm:"uniqueIndex:idx_media_live_key,where:deleted_at IS NULL;not null"`
	Title      string
	Filename   string
	FolderPath string `gorm:"index"`
	MimeType   string
	Size       int64
	Metadata   json.RawMessage `gorm:"type:jsonb"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for the Media model
func (Media) TableName() string {
	return "media"
}

// BeforeCreate hook to ensure Metadata is properly handled
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.Metadata == nil {
		m.Metadata = json.RawMessage("{}")
	}
	return nil
}

// GetMediaByKey retrieves a media record by its object key.
func GetMediaByKey(key string, userID uint) (*Media, error) {
	db := database.GetDB()
	if db == nil {
		return nil, errors.New("database connection not initialized")
	}

	var media Media
	result := db.Where("key = ? AND user_id = ?", key, userID).First(&media)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if result.Error != nil {
		return nil, result.Error
	}

	return &media, nil
}
