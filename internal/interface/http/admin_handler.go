package http

import (
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/media-album/internal/domain/auth"
	"github.com/yanqian/media-album/internal/domain/media"
	"github.com/yanqian/media-album/internal/domain/tag"
)

// AdminHandler serves the management endpoints. Every operation requires
// the admin role.
type AdminHandler struct {
	users  auth.Service
	medias media.Service
	tags   tag.Service
	logger *slog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(users auth.Service, medias media.Service, tags tag.Service, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		users:  users,
		medias: medias,
		tags:   tags,
		logger: logger.With("component", "http.admin"),
	}
}

// requireAdmin answers in the envelope and returns false unless the caller
// holds the admin role.
func (h *AdminHandler) requireAdmin(c *gin.Context) bool {
	identity, ok := getIdentity(c)
	if !ok {
		respondFail(c, "please log in first")
		return false
	}
	if identity.Role != auth.RoleAdmin {
		respondFail(c, "permission denied")
		return false
	}
	return true
}

// ListUsers pages through accounts with an optional keyword filter.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("pageSize"))
	users, total, err := h.users.ListUsers(c.Request.Context(), c.Query("keyword"), page, size)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	views := make([]gin.H, 0, len(users))
	for _, user := range users {
		views = append(views, userView(user))
	}
	respondOK(c, "success", gin.H{"records": views, "total": total})
}

type userIDPayload struct {
	UserID int64 `json:"userId"`
}

// DeleteUser removes an account.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	var payload userIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.UserID == 0 {
		respondFail(c, "invalid user id")
		return
	}
	if err := h.users.DeleteUser(c.Request.Context(), payload.UserID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "user deleted", nil)
}

type statusPayload struct {
	Status int `json:"status"`
}

// UpdateUserStatus enables or disables an account.
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		respondFail(c, "invalid user id")
		return
	}
	var payload statusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	if err := h.users.UpdateUserStatus(c.Request.Context(), userID, payload.Status); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "status updated", nil)
}

type rolePayload struct {
	Role auth.Role `json:"role"`
}

// UpdateUserRole changes an account's role.
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		respondFail(c, "invalid user id")
		return
	}
	var payload rolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	if err := h.users.UpdateUserRole(c.Request.Context(), userID, payload.Role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "role updated", nil)
}

// ListTags returns every tag.
func (h *AdminHandler) ListTags(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "success", tags)
}

type tagNamePayload struct {
	TagName string `json:"tagName"`
}

// AddTag creates a tag.
func (h *AdminHandler) AddTag(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	var payload tagNamePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondFail(c, "invalid request body")
		return
	}
	if err := h.tags.Add(c.Request.Context(), payload.TagName); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "tag added", nil)
}

type tagIDPayload struct {
	TagID int64 `json:"tagId"`
}

// DeleteTag removes a tag and its media links.
func (h *AdminHandler) DeleteTag(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	var payload tagIDPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.TagID == 0 {
		respondFail(c, "invalid tag id")
		return
	}
	if err := h.tags.Delete(c.Request.Context(), payload.TagID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "tag deleted", nil)
}

type updateMediaPayload struct {
	FileID      int64  `json:"fileId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// UpdateMedia rewrites a file's title and description.
func (h *AdminHandler) UpdateMedia(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	var payload updateMediaPayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.FileID == 0 {
		respondFail(c, "invalid file id")
		return
	}
	if err := h.medias.AdminUpdate(c.Request.Context(), payload.FileID, payload.Title, payload.Description); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "media updated", nil)
}

// DeleteMedia removes any file regardless of owner.
func (h *AdminHandler) DeleteMedia(c *gin.Context) {
	if !h.requireAdmin(c) {
		return
	}
	var payload deletePayload
	if err := c.ShouldBindJSON(&payload); err != nil || payload.FileID == 0 {
		respondFail(c, "invalid file id")
		return
	}
	if err := h.medias.AdminDelete(c.Request.Context(), payload.FileID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respondOK(c, "media deleted", nil)
}
