package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"huellitas/internal/domain"
	"huellitas/internal/middleware"
	"huellitas/internal/models"
	"huellitas/internal/repository"
	"huellitas/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PetHandler struct {
	repo  *repository.PetRepository
	cloud cloudinary.Client
}

func NewPetHandler(repo *repository.PetRepository, cloud cloudinary.Client) *PetHandler {
	return &PetHandler{repo: repo, cloud: cloud}
}

type petRequest struct {
	Name      string  `json:"name" binding:"required,max=64"`
	Species   string  `json:"species" binding:"required"`
	Breed     string  `json:"breed"`
	Sex       string  `json:"sex"`
	BirthDate *string `json:"birth_date"` // YYYY-MM-DD
	Bio       string  `json:"bio"`
	Matchable *bool   `json:"matchable"`
}

func (r *petRequest) birthDate() (*time.Time, bool) {
	if r.BirthDate == nil || *r.BirthDate == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", *r.BirthDate)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func (h *PetHandler) Create(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidSpecies(req.Species) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species"})
		return
	}
	birth, ok := req.birthDate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be YYYY-MM-DD"})
		return
	}
	p := &models.Pet{
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		Sex:       req.Sex,
		BirthDate: birth,
		Bio:       req.Bio,
		Matchable: true,
	}
	if req.Matchable != nil {
		p.Matchable = *req.Matchable
	}
	if err := h.repo.Create(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create pet"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pet": p})
}

func (h *PetHandler) List(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	pets, err := h.repo.ListByOwnerID(ownerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pets": pets})
}

func (h *PetHandler) Get(c *gin.Context) {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": p})
}

func (h *PetHandler) Update(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
		return
	}
	if p.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your pet"})
		return
	}
	var req petRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidSpecies(req.Species) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid species"})
		return
	}
	birth, ok := req.birthDate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be YYYY-MM-DD"})
		return
	}
	p.Name = req.Name
	p.Species = req.Species
	p.Breed = req.Breed
	p.Sex = req.Sex
	p.BirthDate = birth
	p.Bio = req.Bio
	if req.Matchable != nil {
		p.Matchable = *req.Matchable
	}
	if err := h.repo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update pet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": p})
}

func (h *PetHandler) Delete(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	if err := h.repo.Delete(uint(id), ownerID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete pet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UploadPhoto stores the pet's profile photo in Cloudinary and saves the
// optimized URL plus thumbnail on the pet.
func (h *PetHandler) UploadPhoto(c *gin.Context) {
	ownerID := middleware.GetUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	p, err := h.repo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
		return
	}
	if p.OwnerID != ownerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your pet"})
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

	folder := "Huellitas/pets/" + strconv.FormatUint(uint64(p.ID), 10)
	publicID := "img_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
	url, thumb, err := h.cloud.UploadImage(c.Request.Context(), f, folder, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	p.PhotoURL = url
	p.ThumbnailURL = thumb
	if err := h.repo.Update(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save photo"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pet": p})
}
