package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "docs/photo.thumb.png", thumbnailKey("docs/photo.jpg"))
	assert.Equal(t, "photo.thumb.png", thumbnailKey("photo.png"))
	assert.Equal(t, "docs/archive.tar.thumb.png", thumbnailKey("docs/archive.tar.gz"))
}

func TestPathHelpers(t *testing.T) {
	assert.Equal(t, "docs/2024", joinPath("docs", "2024"))
	assert.Equal(t, "2024", joinPath("", "2024"))
	assert.Equal(t, "docs", parentPath("docs/file.png"))
	assert.Equal(t, "", parentPath("file.png"))
	assert.Equal(t, "file.png", baseName("docs/file.png"))
	assert.Equal(t, "file.png", baseName("file.png"))
}
