package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/anonrelay/backend/internal/middleware"
	"github.com/anonrelay/backend/internal/models"
	"github.com/anonrelay/backend/internal/registry"
)

type ProfileHandler struct {
	registry *registry.Registry
	sessions *registry.Sessions
}

func NewProfileHandler(reg *registry.Registry, sessions *registry.Sessions) *ProfileHandler {
	return &ProfileHandler{
		registry: reg,
		sessions: sessions,
	}
}

// GetMe returns the caller's profile, registering it on first contact
func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)
	username, _ := c.Get("username")
	rawUsername, _ := username.(string)

	profile, err := h.registry.Register(userID, rawUsername)
	if err != nil {
		log.Printf("Failed to load profile for %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile":         profile,
		"has_custom_name": profile.HasCustomName(),
		"naming_active":   h.sessions.Active(userID),
	})
}

// SetDisplayName claims a display name directly (one-shot, first wins)
func (h *ProfileHandler) SetDisplayName(c *gin.Context) {
	var req models.SetDisplayNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID := middleware.UserID(c)
	if err := h.registry.SetDisplayName(userID, req.DisplayName); err != nil {
		respondNameError(c, err)
		return
	}
	h.sessions.Clear(userID)

	profile, err := h.registry.Get(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// BeginNameSession puts the caller in name-entry mode: their next text
// submission is consumed as the desired display name.
func (h *ProfileHandler) BeginNameSession(c *gin.Context) {
	userID := middleware.UserID(c)

	profile, err := h.registry.Get(userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	if profile.HasCustomName() {
		ErrorResponse(c, http.StatusConflict, "Display name can only be set once")
		return
	}

	h.sessions.Begin(userID)
	c.JSON(http.StatusOK, gin.H{"naming_active": true})
}

// CancelNameSession ends name-entry mode without setting a name
func (h *ProfileHandler) CancelNameSession(c *gin.Context) {
	userID := middleware.UserID(c)
	h.sessions.Clear(userID)
	c.JSON(http.StatusOK, gin.H{"naming_active": false})
}

// Ban blocks a user from submitting
func (h *ProfileHandler) Ban(c *gin.Context) {
	h.setBanned(c, true)
}

// Unban lifts a user's submission block
func (h *ProfileHandler) Unban(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *ProfileHandler) setBanned(c *gin.Context, banned bool) {
	targetID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var op func(int64) error
	if banned {
		op = h.registry.Ban
	} else {
		op = h.registry.Unban
	}

	if err := op(targetID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			ErrorResponse(c, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("Failed to update ban state for %d: %v", targetID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to update ban state")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": targetID,
		"banned":  banned,
	})
}
