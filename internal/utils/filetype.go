package utils

import (
	"path/filepath"
	"strings"
)

// GetFileType classifies a file by extension into a coarse media category.
func GetFileType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg":
		return "image"
	case ".mp4", ".mov", ".avi", ".webm":
		return "video"
	case ".mp3", ".wav", ".ogg":
		return "audio"
	case ".pdf", ".doc", ".docx", ".txt", ".csv":
		return "document"
	default:
		return "other"
	}
}
