package models

import (
	"gorm.io/gorm"
)

// Folder is the database record for a library folder. Path is the canonical
// sanitized slash-delimited key; ParentPath is empty for folders at the root.
type Folder struct {
	gorm.Model
	Name       string `json:"name" gorm:"not null"`
	Path       string `json:"path" gorm:"uniqueIndex;not null"`
	ParentPath string `json:"parent_path" gorm:"index"`
	UserID     uint   `json:"user_id" gorm:"not null;index"`

	// Advisory counts, recomputed on listing, never persisted.
	ItemCount      int64 `json:"item_count" gorm:"-"`
	SubfolderCount int64 `json:"subfolder_count" gorm:"-"`
}
