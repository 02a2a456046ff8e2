package handlers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/holoo/stockcast/internal/config"
	"github.com/holoo/stockcast/internal/storage"
)

type UploadHandler struct {
	app     config.AppConfig
	archive storage.ObjectStorage
}

func NewUploadHandler(app config.AppConfig, archive storage.ObjectStorage) *UploadHandler {
	return &UploadHandler{app: app, archive: archive}
}

// UploadCSV replaces the sales-history table with an uploaded CSV. The
// upload is kept in the upload dir and, when object storage is configured,
// archived remotely as well.
func (h *UploadHandler) UploadCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		errorResponse(c, http.StatusBadRequest, "no file provided")
		return
	}

	if !strings.EqualFold(filepath.Ext(file.Filename), ".csv") {
		errorResponse(c, http.StatusBadRequest, "only CSV files are accepted")
		return
	}

	saved := filepath.Join(h.app.UploadDir,
		fmt.Sprintf("%s_%s", time.Now().UTC().Format("20060102T150405"), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, saved); err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to save upload")
		return
	}

	if err := copyFile(saved, h.app.InputCSV); err != nil {
		errorResponse(c, http.StatusInternalServerError, "failed to install sales history")
		return
	}

	if h.archive != nil {
		key := "uploads/" + filepath.Base(saved)
		if err := h.archive.UploadFile(c.Request.Context(), key, saved); err != nil {
			// Archival is best effort; the upload itself succeeded.
			log.Warn().Err(err).Str("key", key).Msg("failed to archive upload")
		}
	}

	log.Info().Str("file", file.Filename).Msg("sales history replaced by upload")
	c.JSON(http.StatusOK, gin.H{"status": "success", "file": filepath.Base(saved)})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
