package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-media-library/internal/config"
	"go-media-library/internal/database"
	"go-media-library/internal/models"
	"go-media-library/internal/storage"
	"go-media-library/internal/utils"
	"go-media-library/internal/websocket"
)

// uniqueKey returns a key that does not collide with an existing media
// record, suffixing the base name with a short random id when needed. The
// returned key is authoritative and may differ from the client's guess.
// The count uses the default soft-delete scope, matching the live-key
// partial index: a soft-deleted row does not reserve its key.
func uniqueKey(key string, userID uint) string {
	db := database.GetDB()
	var count int64
	db.Model(&models.Media{}).Where("key = ? AND user_id = ?", key, userID).Count(&count)
	if count == 0 {
		return key
	}
	ext := filepath.Ext(key)
	return strings.TrimSuffix(key, ext) + "-" + uuid.NewString()[:8] + ext
}

// thumbnailSize bounds both dimensions of generated image thumbnails.
const thumbnailSize = 320

// thumbnailKey derives the object key of an image's thumbnail from its
// main key. Thumbnails are stored objects, not database rows, so every
// operation that copies or deletes a media key handles the derived key
// best effort alongside it.
func thumbnailKey(key string) string {
	return strings.TrimSuffix(key, filepath.Ext(key)) + ".thumb.png"
}

// UploadMedia handles a multipart file upload into a folder
func UploadMedia(c *gin.Context) {
	cfg := config.GetConfig()
	userID, _ := c.Get("user_id")

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if file.Size > cfg.Storage.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	folderPath := c.PostForm("folder")
	db := database.GetDB()
	if folderPath != "" {
		var folder models.Folder
		if err := db.Where("path = ? AND user_id = ?", folderPath, userID).First(&folder).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Folder not found"})
			return
		}
	}

	filename := utils.SanitizeFileName(file.Filename)
	key := uniqueKey(joinPath(folderPath, filename), userID.(uint))

	ws := websocket.GetManager()
	ws.SendUploadProgress(userID.(uint), key, 10)

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to open file: %v", err)})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to read file: %v", err)})
		return
	}

	// Image dimensions enrich the stored metadata; nil for everything else
	dims := utils.ImageDimensions(bytes.NewReader(data))

	provider := storage.GetProvider()
	ws.SendUploadProgress(userID.(uint), key, 50)
	storedKey, err := provider.UploadBytes(data, key)
	if err != nil {
		ws.SendUploadError(userID.(uint), key, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to upload file: %v", err)})
		return
	}

	metadata := map[string]interface{}{
		"original_name": file.Filename,
		"content_type":  file.Header.Get("Content-Type"),
	}
	if dims != nil {
		metadata["dimensions"] = dims
		// Derived thumbnail, best effort
		if thumb, err := utils.Thumbnail(bytes.NewReader(data), thumbnailSize, thumbnailSize); err == nil {
			_, _ = provider.UploadBytes(thumb, thumbnailKey(storedKey))
		}
	}
	metadataJSON, _ := json.Marshal(metadata)

	media := models.Media{
		ID:         uuid.NewString(),
		UserID:     userID.(uint),
		Key:        storedKey,
		Title:      strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename)),
		Filename:   filename,
		FolderPath: folderPath,
		MimeType:   file.Header.Get("Content-Type"),
		Size:       file.Size,
		Metadata:   metadataJSON,
	}
	if err := db.Create(&media).Error; err != nil {
		_ = provider.Delete(storedKey)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save media record"})
		return
	}

	ws.SendUploadComplete(userID.(uint), key, map[string]interface{}{"key": storedKey})

	c.JSON(http.StatusCreated, gin.H{
		"id":  media.ID,
		"key": storedKey,
		"url": provider.GetPublicURL(storedKey),
	})
}

// ListMedia handles listing the items of a folder
func ListMedia(c *gin.Context) {
	userID, _ := c.Get("user_id")
	folderPath := c.Query("folder")
	db := database.GetDB()

	var media []models.Media
	if err := db.Where("folder_path = ? AND user_id = ?", folderPath, userID).
		Order("created_at DESC").
		Find(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media"})
		return
	}

	provider := storage.GetProvider()
	items := make([]gin.H, 0, len(media))
	for i := range media {
		fileType := utils.GetFileType(media[i].Filename)
		item := gin.H{
			"id":          media[i].ID,
			"title":       media[i].Title,
			"file_name":   media[i].Filename,
			"key":         media[i].Key,
			"folder":      media[i].FolderPath,
			"file_url":    provider.GetPublicURL(media[i].Key),
			"file_size":   media[i].Size,
			"file_type":   fileType,
			"uploaded_at": media[i].CreatedAt.Format(time.RFC3339),
		}
		if fileType == "image" {
			item["thumbnail_url"] = provider.GetPublicURL(thumbnailKey(media[i].Key))
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// DeleteMedia handles deleting a single object by key
func DeleteMedia(c *gin.Context) {
	var input struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Object key is required"})
		return
	}

	userID, _ := c.Get("user_id")
	media, err := models.GetMediaByKey(input.Key, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up media"})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	provider := storage.GetProvider()
	if err := provider.Delete(media.Key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to delete file: %v", err)})
		return
	}
	_ = provider.Delete(thumbnailKey(media.Key))
	if err := database.GetDB().Delete(media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete media record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Media deleted successfully"})
}

// BulkDeleteMedia handles deleting several objects in one request. Each key
// is attempted independently; failures are counted rather than aborting the
// batch.
func BulkDeleteMedia(c *gin.Context) {
	var input struct {
		Keys []string `json:"keys" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one object key is required"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()
	provider := storage.GetProvider()

	deleted := 0
	errorCount := 0
	for _, key := range input.Keys {
		media, err := models.GetMediaByKey(key, userID.(uint))
		if err != nil || media == nil {
			errorCount++
			continue
		}
		if err := provider.Delete(media.Key); err != nil {
			errorCount++
			continue
		}
		_ = provider.Delete(thumbnailKey(media.Key))
		if err := db.Delete(media).Error; err != nil {
			errorCount++
			continue
		}
		deleted++
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted, "error_count": errorCount})
}

// RenameMedia handles renaming an object within its folder. The object is
// copied to the new key and the original deleted, since object stores have
// no rename primitive.
func RenameMedia(c *gin.Context) {
	var input struct {
		Key     string `json:"key" binding:"required"`
		NewName string `json:"new_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Object key and new name are required"})
		return
	}

	userID, _ := c.Get("user_id")
	media, err := models.GetMediaByKey(input.Key, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up media"})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	filename := utils.SanitizeFileName(input.NewName)
	newKey := uniqueKey(joinPath(parentPath(media.Key), filename), userID.(uint))
	provider := storage.GetProvider()

	if newKey != media.Key {
		if err := provider.Copy(media.Key, newKey); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to rename file: %v", err)})
			return
		}
		if err := provider.Delete(media.Key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to rename file: %v", err)})
			return
		}
		if err := provider.Copy(thumbnailKey(media.Key), thumbnailKey(newKey)); err == nil {
			_ = provider.Delete(thumbnailKey(media.Key))
		}
	}

	title := strings.TrimSuffix(input.NewName, filepath.Ext(input.NewName))
	if err := database.GetDB().Model(media).
		Updates(map[string]interface{}{"key": newKey, "filename": filename, "title": title}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update media record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": newKey, "url": provider.GetPublicURL(newKey)})
}

// moveOne moves a single object into targetFolder and returns the new key.
func moveOne(media *models.Media, targetFolder string, userID uint) (string, error) {
	newKey := uniqueKey(joinPath(targetFolder, baseName(media.Key)), userID)
	if newKey == media.Key {
		return newKey, nil
	}

	provider := storage.GetProvider()
	if err := provider.Copy(media.Key, newKey); err != nil {
		return "", err
	}
	if err := provider.Delete(media.Key); err != nil {
		return "", err
	}
	if err := provider.Copy(thumbnailKey(media.Key), thumbnailKey(newKey)); err == nil {
		_ = provider.Delete(thumbnailKey(media.Key))
	}

	if err := database.GetDB().Model(media).
		Updates(map[string]interface{}{"key": newKey, "folder_path": targetFolder}).Error; err != nil {
		return "", err
	}
	return newKey, nil
}

// MoveMedia handles moving a single object into another folder
func MoveMedia(c *gin.Context) {
	var input struct {
		Key          string `json:"key" binding:"required"`
		TargetFolder string `json:"target_folder"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Object key is required"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()
	if input.TargetFolder != "" {
		var folder models.Folder
		if err := db.Where("path = ? AND user_id = ?", input.TargetFolder, userID).First(&folder).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target folder not found"})
			return
		}
	}

	media, err := models.GetMediaByKey(input.Key, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up media"})
		return
	}
	if media == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Media not found"})
		return
	}

	newKey, err := moveOne(media, input.TargetFolder, userID.(uint))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to move file: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": newKey, "url": storage.GetProvider().GetPublicURL(newKey)})
}

// BulkMoveMedia handles moving several objects into another folder with
// per-key results so a client can reconcile partial failures.
func BulkMoveMedia(c *gin.Context) {
	var input struct {
		Keys         []string `json:"keys" binding:"required"`
		TargetFolder string   `json:"target_folder"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || len(input.Keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one object key is required"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()
	if input.TargetFolder != "" {
		var folder models.Folder
		if err := db.Where("path = ? AND user_id = ?", input.TargetFolder, userID).First(&folder).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target folder not found"})
			return
		}
	}

	provider := storage.GetProvider()
	results := make([]gin.H, 0, len(input.Keys))
	errorCount := 0
	for _, key := range input.Keys {
		media, err := models.GetMediaByKey(key, userID.(uint))
		if err != nil || media == nil {
			results = append(results, gin.H{"old_key": key, "error": "Media not found"})
			errorCount++
			continue
		}
		newKey, err := moveOne(media, input.TargetFolder, userID.(uint))
		if err != nil {
			results = append(results, gin.H{"old_key": key, "error": err.Error()})
			errorCount++
			continue
		}
		results = append(results, gin.H{
			"old_key": key,
			"new_key": newKey,
			"url":     provider.GetPublicURL(newKey),
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "error_count": errorCount})
}
