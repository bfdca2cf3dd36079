package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/media-album/internal/domain/media"
)

// MediaHandler serves the media file endpoints.
type MediaHandler struct {
	svc    media.Service
	logger *slog.Logger
}

// NewMediaHandler constructs the handler.
func NewMediaHandler(svc media.Service, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{svc: svc, logger: logger.With("component", "http.media")}
}

// Upload receives one multipart file with its metadata fields.
func (h *MediaHandler) Upload(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		respondFail(c, "please log in first")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondFail(c, "file cannot be empty")
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", "error", err)
		respondServerError(c, "server error, try again later")
		return
	}
	defer src.Close()

	result, err := h.svc.Upload(c.Request.Context(), identity.UserID, media.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Reader:      src,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Tags:        c.PostForm("tags"),
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "upload successful", result)
}

// MyMedia lists the caller's own files.
func (h *MediaHandler) MyMedia(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		respondFail(c, "please log in first")
		return
	}
	page, size := pageParams(c, "pageSize")
	files, total, err := h.svc.MyMedia(c.Request.Context(), identity.UserID, c.Query("keyword"), page, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", gin.H{"records": files, "total": total})
}

// PublicMedia lists the shared files visible to everyone.
func (h *MediaHandler) PublicMedia(c *gin.Context) {
	page, size := pageParams(c, "pageSize")
	files, total, err := h.svc.PublicMedia(c.Request.Context(), c.Query("keyword"), page, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", gin.H{"records": files, "total": total})
}

// Recent lists the newest public files with uploader names.
func (h *MediaHandler) Recent(c *gin.Context) {
	page, size := pageParams(c, "limit")
	files, total, err := h.svc.Recent(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", gin.H{"records": files, "total": total})
}

// Detail returns one file with its tag names.
func (h *MediaHandler) Detail(c *gin.Context) {
	fileID, ok := idParam(c, "id")
	if !ok {
		return
	}
	file, err := h.svc.Detail(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", file)
}

// Download streams the stored object as an attachment.
func (h *MediaHandler) Download(c *gin.Context) {
	fileID, ok := idParam(c, "id")
	if !ok {
		return
	}
	file, reader, err := h.svc.Download(c.Request.Context(), fileID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer reader.Close()

	filename := file.Title
	if filename == "" {
		filename = file.FilePath
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, file.FileSize, "application/octet-stream", reader, nil)
}

type deletePayload struct {
	FileID int64 `json:"fileId"`
}

// Delete removes one of the caller's own files.
func (h *MediaHandler) Delete(c *gin.Context) {
	identity, ok := getIdentity(c)
	if !ok {
		respondFail(c, "please log in first")
		return
	}
	var payload deletePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.FileID == 0 {
		respondFail(c, "invalid file id")
		return
	}
	if err := h.svc.Delete(c.Request.Context(), payload.FileID, identity.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "file deleted", nil)
}

type batchDeletePayload struct {
	FileIDs []int64 `json:"fileIds"`
}

// BatchDelete removes several files in one call.
func (h *MediaHandler) BatchDelete(c *gin.Context) {
	if _, ok := getIdentity(c); !ok {
		respondFail(c, "please log in first")
		return
	}
	var payload batchDeletePayload
	if err := c.ShouldBindJSON(&payload); err != nil || len(payload.FileIDs) == 0 {
		respondFail(c, "file ids cannot be empty")
		return
	}
	if err := h.svc.BatchDelete(c.Request.Context(), payload.FileIDs); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "files deleted", nil)
}

func pageParams(c *gin.Context, sizeKey string) (page, size int) {
	page, _ = strconv.Atoi(c.Query("page"))
	size, _ = strconv.Atoi(c.Query(sizeKey))
	return page, size
}

func idParam(c *gin.Context, key string) (int64, bool) {
	id, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil || id == 0 {
		respondFail(c, "invalid file id")
		return 0, false
	}
	return id, true
}
