package handlers

import (
	"net/http"
	"strconv"

	"melodex/config"
	"melodex/services"

	"github.com/gin-gonic/gin"
)

// LibraryHandler handles synchronous library scan endpoints
type LibraryHandler struct{}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler() *LibraryHandler {
	return &LibraryHandler{}
}

// GetLibrary runs a scan of the configured music directory and returns
// the aggregated result without writing any report files. Intended for
// small libraries; large ones should go through the job queue.
func (h *LibraryHandler) GetLibrary(c *gin.Context) {
	musicDir := c.DefaultQuery("dir", config.GetMusicDir())

	limit := 0
	if rawLimit := c.Query("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "limit must be an integer",
			})
			return
		}
		limit = parsed
	}

	if !services.DirExists(musicDir) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "music directory not found",
			"path":  musicDir,
		})
		return
	}

	scanner := services.NewLibraryScanner(services.NewMetadataProbe(), nil)
	artists, procErrs := scanner.ScanDirectory(musicDir, limit)

	c.JSON(http.StatusOK, gin.H{
		"artists": artists,
		"errors":  procErrs,
		"count":   len(artists),
	})
}
