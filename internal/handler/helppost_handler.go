package handler

import (
	"net/http"
	"strconv"
	"strings"

	"huellitas/internal/domain"
	"huellitas/internal/middleware"
	"huellitas/internal/models"
	"huellitas/internal/repository"
	"huellitas/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HelpPostHandler serves the community help board (lost/found/adoption).
type HelpPostHandler struct {
	repo  *repository.HelpPostRepository
	cloud cloudinary.Client
}

func NewHelpPostHandler(repo *repository.HelpPostRepository, cloud cloudinary.Client) *HelpPostHandler {
	return &HelpPostHandler{repo: repo, cloud: cloud}
}

type helpPostRequest struct {
	Type         string `json:"type" binding:"required"`
	Title        string `json:"title" binding:"required,max=255"`
	Description  string `json:"description"`
	Species      string `json:"species"`
	City         string `json:"city"`
	ContactPhone string `json:"contact_phone"`
}

func (h *HelpPostHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req helpPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidHelpPostType(req.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be LOST, FOUND or ADOPTION"})
		return
	}
	if req.Species != "" && !domain.ValidSpecies(req.Species) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species"})
		return
	}
	p := &models.HelpPost{
		UserID:       userID,
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Species:      req.Species,
		City:         req.City,
		ContactPhone: req.ContactPhone,
	}
	if err := h.repo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create post"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": p})
}

func (h *HelpPostHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	f := repository.HelpPostFilters{
		Type:            c.Query("type"),
		Species:         c.Query("species"),
		City:            c.Query("city"),
		IncludeResolved: c.Query("include_resolved") == "true",
		Limit:           limit,
		Offset:          offset,
	}
	list, err := h.repo.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": list})
}

func (h *HelpPostHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}

func (h *HelpPostHandler) Resolve(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.Resolve(uint(id), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not resolve post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HelpPostHandler) Delete(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.Delete(uint(id), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete post"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadPhoto attaches a photo to the author's post.
func (h *HelpPostHandler) UploadPhoto(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	if p.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your post"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	folder := "Huellitas/help/" + strconv.FormatUint(uint64(p.ID), 10)
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, _, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	p.PhotoURL = url
	if err := h.repo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": p})
}
