package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"huellitas/internal/matching"
	"huellitas/internal/middleware"
	"huellitas/internal/models"
	"huellitas/internal/repository"
	"huellitas/internal/service"
	"huellitas/internal/ws"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	engine  *matching.Engine
	petRepo *repository.PetRepository
	notif   *service.NotificationService
	hub     *ws.Hub
}

func NewMatchHandler(engine *matching.Engine, petRepo *repository.PetRepository, notif *service.NotificationService, hub *ws.Hub) *MatchHandler {
	return &MatchHandler{engine: engine, petRepo: petRepo, notif: notif, hub: hub}
}

// ownPet loads the pet and verifies it belongs to the authenticated user.
func (h *MatchHandler) ownPet(c *gin.Context, petID uint) (*models.Pet, bool) {
	p, err := h.petRepo.GetByID(petID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pet not found"})
		return nil, false
	}
	if p.OwnerID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your pet"})
		return nil, false
	}
	return p, true
}

func queryPetID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Query("pet_id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pet_id required"})
		return 0, false
	}
	return uint(id), true
}

func writeMatchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, matching.ErrSelfMatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "a pet cannot match itself or another pet of the same owner"})
	case errors.Is(err, matching.ErrDuplicatePair):
		c.JSON(http.StatusConflict, gin.H{"error": "a match already exists for this pair"})
	case errors.Is(err, matching.ErrNotRespondersTurn):
		c.JSON(http.StatusForbidden, gin.H{"error": "only the proposed-to pet may respond"})
	case errors.Is(err, matching.ErrMatchFinalized):
		c.JSON(http.StatusConflict, gin.H{"error": "match already finalized"})
	case errors.Is(err, matching.ErrStaleWrite):
		c.JSON(http.StatusConflict, gin.H{"error": "match changed, refresh and retry", "retryable": true})
	case errors.Is(err, matching.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, matching.ErrSourceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not load candidates, retry", "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// Discover returns the pets the given pet may still propose to.
func (h *MatchHandler) Discover(c *gin.Context) {
	petID, ok := queryPetID(c)
	if !ok {
		return
	}
	if _, ok := h.ownPet(c, petID); !ok {
		return
	}
	feed, err := h.engine.DiscoverFeed(c.Request.Context(), petID)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	ids := make([]uint, len(feed))
	for i, a := range feed {
		ids[i] = a.ID
	}
	pets, err := h.petRepo.GetByIDs(ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load candidates"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"candidates": pets})
}

type proposeRequest struct {
	PetID       uint `json:"pet_id" binding:"required"`
	TargetPetID uint `json:"target_pet_id" binding:"required"`
}

// Propose creates a match request from the caller's pet to the target pet.
func (h *MatchHandler) Propose(c *gin.Context) {
	var req proposeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pet, ok := h.ownPet(c, req.PetID)
	if !ok {
		return
	}
	m, err := h.engine.Propose(c.Request.Context(), req.PetID, req.TargetPetID)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	// Tell the target's owner there is a request waiting.
	if target, err := h.petRepo.GetByID(req.TargetPetID); err == nil {
		_ = h.notif.NotifyMatchProposed(target.OwnerID, m.ID, pet.Name, target.Name)
		if h.hub != nil {
			h.hub.BroadcastToUser(target.OwnerID, gin.H{
				"type":     "match_proposed",
				"match_id": m.ID,
				"pet_id":   target.ID,
			})
		}
	}
	c.JSON(http.StatusCreated, gin.H{"match": h.matchView(m, req.PetID)})
}

type respondRequest struct {
	PetID    uint   `json:"pet_id" binding:"required"`
	Decision string `json:"decision" binding:"required,oneof=ACCEPT REJECT"`
}

// Respond records the accept/reject decision of the proposed-to pet.
func (h *MatchHandler) Respond(c *gin.Context) {
	matchID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, ok := h.ownPet(c, req.PetID); !ok {
		return
	}
	m, err := h.engine.Respond(c.Request.Context(), uint(matchID), req.PetID, matching.Decision(req.Decision))
	if err != nil {
		writeMatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"match": h.matchView(m, req.PetID)})
}

// Pending lists matches awaiting the given pet's decision.
func (h *MatchHandler) Pending(c *gin.Context) {
	h.listMatches(c, h.engine.PendingForActor)
}

// Awaiting lists matches the given pet proposed that the other side has not
// decided yet. Kept separate from Pending on purpose.
func (h *MatchHandler) Awaiting(c *gin.Context) {
	h.listMatches(c, h.engine.AwaitingOtherParty)
}

// Confirmed lists mutual matches for the given pet.
func (h *MatchHandler) Confirmed(c *gin.Context) {
	h.listMatches(c, h.engine.ConfirmedForActor)
}

func (h *MatchHandler) listMatches(c *gin.Context, view func(ctx context.Context, actorID uint) ([]matching.Match, error)) {
	petID, ok := queryPetID(c)
	if !ok {
		return
	}
	if _, ok := h.ownPet(c, petID); !ok {
		return
	}
	matches, err := view(c.Request.Context(), petID)
	if err != nil {
		writeMatchError(c, err)
		return
	}
	out := make([]gin.H, len(matches))
	for i := range matches {
		out[i] = h.matchView(&matches[i], petID)
	}
	c.JSON(http.StatusOK, gin.H{"matches": out})
}

// matchView renders a match from the perspective of one of its pets,
// hydrating the counterpart's profile.
func (h *MatchHandler) matchView(m *matching.Match, petID uint) gin.H {
	view := gin.H{
		"id":         m.ID,
		"pet_a":      m.ActorA,
		"pet_b":      m.ActorB,
		"status_a":   m.StatusA,
		"status_b":   m.StatusB,
		"status":     m.Aggregate(),
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	}
	if m.Involves(petID) {
		counterpartID := m.Counterpart(petID)
		view["is_proposer"] = m.ActorA == petID
		if counterpart, err := h.petRepo.GetByID(counterpartID); err == nil {
			view["counterpart"] = counterpart
		}
	}
	return view
}
