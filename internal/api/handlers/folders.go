package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-media-library/internal/database"
	"go-media-library/internal/models"
	"go-media-library/internal/storage"
	"go-media-library/internal/utils"
)

// folderMarker is the object uploaded so an empty folder exists as a prefix
// in the storage backend.
const folderMarker = ".keep"

func joinPath(parent, segment string) string {
	if parent == "" {
		return segment
	}
	return parent + "/" + segment
}

func parentPath(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return ""
}

func baseName(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// CreateFolder handles folder creation
func CreateFolder(c *gin.Context) {
	var input struct {
		Name       string `json:"name" binding:"required,min=1,max=255"`
		ParentPath string `json:"parent_path"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: folder name is required"})
		return
	}

	sanitized := utils.SanitizeName(input.Name)
	if sanitized == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder name contains no usable characters"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()

	// Validate parent folder if not root
	if input.ParentPath != "" {
		var parent models.Folder
		if err := db.Where("path = ? AND user_id = ?", input.ParentPath, userID).First(&parent).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent folder not found"})
			return
		}
	}

	path := joinPath(input.ParentPath, sanitized)
	var existing models.Folder
	if err := db.Where("path = ? AND user_id = ?", path, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Folder %q already exists", path)})
		return
	}

	// Marker object so the prefix exists even while the folder is empty
	if _, err := storage.GetProvider().UploadBytes([]byte{}, path+"/"+folderMarker); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to create folder in storage: %v", err)})
		return
	}

	folder := models.Folder{
		Name:       input.Name,
		Path:       path,
		ParentPath: input.ParentPath,
		UserID:     userID.(uint),
	}
	if err := db.Create(&folder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create folder"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"name":        folder.Name,
		"path":        folder.Path,
		"parent_path": folder.ParentPath,
		"message":     "Folder created successfully",
	})
}

// ListFolders handles listing the subfolders of a parent path
func ListFolders(c *gin.Context) {
	userID, _ := c.Get("user_id")
	parent := c.Query("parent")
	db := database.GetDB()

	var folders []models.Folder
	if err := db.Where("parent_path = ? AND user_id = ?", parent, userID).
		Order("name ASC").
		Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}

	paths := make([]string, 0, len(folders))
	details := make([]gin.H, 0, len(folders))
	for i := range folders {
		var subfolders int64
		db.Model(&models.Folder{}).Where("parent_path = ? AND user_id = ?", folders[i].Path, userID).Count(&subfolders)
		var items int64
		db.Model(&models.Media{}).Where("folder_path = ? AND user_id = ?", folders[i].Path, userID).Count(&items)

		paths = append(paths, folders[i].Path)
		details = append(details, gin.H{
			"path":            folders[i].Path,
			"name":            folders[i].Name,
			"subfolder_count": subfolders,
			"item_count":      items,
		})
	}

	c.JSON(http.StatusOK, gin.H{"folders": paths, "details": details})
}

// DeleteFolder handles recursive folder deletion by path
func DeleteFolder(c *gin.Context) {
	var input struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder path is required"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()

	var folder models.Folder
	if err := db.Where("path = ? AND user_id = ?", input.Path, userID).First(&folder).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	prefix := input.Path + "/"
	provider := storage.GetProvider()

	// Purge contained media from storage and database
	var media []models.Media
	if err := db.Where("(key LIKE ? OR folder_path = ?) AND user_id = ?", prefix+"%", input.Path, userID).Find(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to collect folder contents"})
		return
	}
	for i := range media {
		if err := provider.Delete(media[i].Key); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to delete folder contents: %v", err)})
			return
		}
		_ = provider.Delete(thumbnailKey(media[i].Key))
	}
	if err := db.Where("(key LIKE ? OR folder_path = ?) AND user_id = ?", prefix+"%", input.Path, userID).Delete(&models.Media{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder contents"})
		return
	}

	// Folder markers, best effort
	var descendants []models.Folder
	db.Where("(path = ? OR path LIKE ?) AND user_id = ?", input.Path, prefix+"%", userID).Find(&descendants)
	for i := range descendants {
		_ = provider.Delete(descendants[i].Path + "/" + folderMarker)
	}

	if err := db.Where("(path = ? OR path LIKE ?) AND user_id = ?", input.Path, prefix+"%", userID).Delete(&models.Folder{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted successfully"})
}

// RenameFolder handles renaming a folder and rewriting the keys of
// everything under it
func RenameFolder(c *gin.Context) {
	var input struct {
		Path    string `json:"path" binding:"required"`
		NewName string `json:"new_name" binding:"required,min=1,max=255"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder path and new name are required"})
		return
	}

	sanitized := utils.SanitizeName(input.NewName)
	if sanitized == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder name contains no usable characters"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()

	var folder models.Folder
	if err := db.Where("path = ? AND user_id = ?", input.Path, userID).First(&folder).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	newPath := joinPath(folder.ParentPath, sanitized)
	if newPath == input.Path {
		c.JSON(http.StatusOK, gin.H{"path": newPath})
		return
	}
	var existing models.Folder
	if err := db.Where("path = ? AND user_id = ?", newPath, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Folder %q already exists", newPath)})
		return
	}

	if err := rewriteFolderPrefix(input.Path, newPath, userID.(uint)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to rename folder: %v", err)})
		return
	}

	if err := db.Model(&folder).Updates(map[string]interface{}{"name": input.NewName, "path": newPath}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": newPath})
}

// MoveFolder handles moving a folder under a new parent
func MoveFolder(c *gin.Context) {
	var input struct {
		SourcePath string `json:"source_path" binding:"required"`
		TargetPath string `json:"target_path"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Source path is required"})
		return
	}

	userID, _ := c.Get("user_id")
	db := database.GetDB()

	var folder models.Folder
	if err := db.Where("path = ? AND user_id = ?", input.SourcePath, userID).First(&folder).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}
	if input.TargetPath != "" {
		var target models.Folder
		if err := db.Where("path = ? AND user_id = ?", input.TargetPath, userID).First(&target).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Target folder not found"})
			return
		}
		if input.TargetPath == input.SourcePath || strings.HasPrefix(input.TargetPath, input.SourcePath+"/") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move a folder into itself"})
			return
		}
	}

	newPath := joinPath(input.TargetPath, baseName(input.SourcePath))
	var existing models.Folder
	if err := db.Where("path = ? AND user_id = ?", newPath, userID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("Folder %q already exists", newPath)})
		return
	}

	if err := rewriteFolderPrefix(input.SourcePath, newPath, userID.(uint)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to move folder: %v", err)})
		return
	}

	if err := db.Model(&folder).Updates(map[string]interface{}{"path": newPath, "parent_path": input.TargetPath}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder record"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": newPath, "message": "Folder moved successfully"})
}

// rewriteFolderPrefix copies every object under oldPath to newPath, deletes
// the originals and updates the database records of contained media and
// descendant folders.
func rewriteFolderPrefix(oldPath, newPath string, userID uint) error {
	db := database.GetDB()
	provider := storage.GetProvider()
	oldPrefix := oldPath + "/"

	var media []models.Media
	if err := db.Where("key LIKE ? AND user_id = ?", oldPrefix+"%", userID).Find(&media).Error; err != nil {
		return err
	}
	for i := range media {
		newKey := newPath + "/" + strings.TrimPrefix(media[i].Key, oldPrefix)
		if err := provider.Copy(media[i].Key, newKey); err != nil {
			return err
		}
		if err := provider.Delete(media[i].Key); err != nil {
			return err
		}
		if err := provider.Copy(thumbnailKey(media[i].Key), thumbnailKey(newKey)); err == nil {
			_ = provider.Delete(thumbnailKey(media[i].Key))
		}
		newFolder := newPath
		if idx := strings.LastIndex(newKey, "/"); idx >= 0 {
			newFolder = newKey[:idx]
		}
		if err := db.Model(&media[i]).Updates(map[string]interface{}{"key": newKey, "folder_path": newFolder}).Error; err != nil {
			return err
		}
	}

	// Folder markers move with their folders, best effort
	if err := provider.Copy(oldPrefix+folderMarker, newPath+"/"+folderMarker); err == nil {
		_ = provider.Delete(oldPrefix + folderMarker)
	}

	var descendants []models.Folder
	if err := db.Where("path LIKE ? AND user_id = ?", oldPrefix+"%", userID).Find(&descendants).Error; err != nil {
		return err
	}
	for i := range descendants {
		rewritten := newPath + "/" + strings.TrimPrefix(descendants[i].Path, oldPrefix)
		updates := map[string]interface{}{"path": rewritten}
		if idx := strings.LastIndex(rewritten, "/"); idx >= 0 {
			updates["parent_path"] = rewritten[:idx]
		}
		if err := db.Model(&descendants[i]).Updates(updates).Error; err != nil {
			return err
		}
	}

	return nil
}
