package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-media-library/internal/database"
	"go-media-library/internal/models"
)

// ExportMedia streams the caller's media records as CSV or JSON. An
// optional ?folder= narrows the export to one folder subtree.
func ExportMedia(c *gin.Context) {
	userID, _ := c.Get("user_id")
	format := c.DefaultQuery("format", "csv")

	db := database.GetDB().Where("user_id = ?", userID)
	if folder := c.Query("folder"); folder != "" {
		db = db.Where("folder_path = ? OR key LIKE ?", folder, folder+"/%")
	}

	var media []models.Media
	if err := db.Find(&media).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch media"})
		return
	}

	switch format {
	case "json":
		c.Header("Content-Disposition", "attachment;filename=media_export.json")
		c.JSON(http.StatusOK, gin.H{"media": media, "exported_at": time.Now()})
	case "csv":
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment;filename=media_export.csv")

		writer := csv.NewWriter(c.Writer)
		defer writer.Flush()

		if err := writer.Write([]string{"ID", "Key", "Title", "Filename", "Folder", "Mime Type", "Size", "Created At"}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV header"})
			return
		}
		for _, m := range media {
			row := []string{
				m.ID,
				m.Key,
				m.Title,
				m.Filename,
				m.FolderPath,
				m.MimeType,
				fmt.Sprintf("%d", m.Size),
				m.CreatedAt.Format(time.RFC3339),
			}
			if err := writer.Write(row); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write CSV row"})
				return
			}
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported format, use csv or json"})
	}
}
