package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anonrelay/backend/internal/cache"
	"github.com/anonrelay/backend/internal/middleware"
	"github.com/anonrelay/backend/internal/models"
	"github.com/anonrelay/backend/internal/profanity"
	"github.com/anonrelay/backend/internal/publish"
	"github.com/anonrelay/backend/internal/queue"
	"github.com/anonrelay/backend/internal/registry"
)

type SubmissionHandler struct {
	matcher   *profanity.Matcher
	registry  *registry.Registry
	queue     *queue.Queue
	sessions  *registry.Sessions
	redis     *cache.RedisClient
	channelID string
}

func NewSubmissionHandler(
	matcher *profanity.Matcher,
	reg *registry.Registry,
	q *queue.Queue,
	sessions *registry.Sessions,
	redis *cache.RedisClient,
	channelID string,
) *SubmissionHandler {
	return &SubmissionHandler{
		matcher:   matcher,
		registry:  reg,
		queue:     q,
		sessions:  sessions,
		redis:     redis,
		channelID: channelID,
	}
}

type screenRequest struct {
	Text string `json:"text" binding:"required"`
}

// Screen runs the profanity check on arbitrary text without submitting it
func (h *SubmissionHandler) Screen(c *gin.Context) {
	var req screenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	verdict := h.matcher.Screen(req.Text)
	c.JSON(http.StatusOK, gin.H{
		"flagged":  verdict.Flagged,
		"severity": verdict.Severity,
		"matched":  verdict.Matched,
		"censored": h.matcher.Censor(req.Text, '*'),
	})
}

// Submit is the full intake flow: register on first contact, intercept
// name-entry sessions, gate on bans, screen, then publish directly (text)
// or queue for review (media).
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var req models.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Kind.Valid() {
		ErrorResponse(c, http.StatusBadRequest, "Unknown content kind")
		return
	}

	userID := middleware.UserID(c)
	username, _ := c.Get("username")
	rawUsername, _ := username.(string)

	profile, err := h.registry.Register(userID, rawUsername)
	if err != nil {
		log.Printf("Failed to register user %d: %v", userID, err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to register user")
		return
	}

	// A text sent while the user is in name-entry mode is the new display
	// name, not a submission.
	if req.Kind == models.ContentText && h.sessions.Active(userID) {
		h.handleNameEntry(c, userID, req.Caption)
		return
	}

	if profile.Banned {
		ErrorResponse(c, http.StatusForbidden, "You are banned from submitting")
		return
	}

	// Screen the user-authored text: the body for text, the caption for media
	verdict := h.matcher.Screen(req.Caption)
	if verdict.Flagged {
		h.incrCounter(cache.CounterFiltered)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":    "Content contains inappropriate language",
			"severity": verdict.Severity,
			"censored": h.matcher.Censor(req.Caption, '*'),
		})
		return
	}

	if req.Kind == models.ContentText {
		h.publishText(c, profile, req.Caption)
		return
	}

	h.queueMedia(c, profile, req)
}

// publishText posts approved-by-policy text straight to the channel
func (h *SubmissionHandler) publishText(c *gin.Context, profile *models.UserProfile, text string) {
	pub := publish.NewPublication(h.channelID, models.ContentText, "", text, profile.DisplayName)

	if h.redis != nil {
		if err := h.redis.PublishEvent(models.Event{Type: models.EventPublished, Payload: pub}); err != nil {
			log.Printf("Failed to publish event: %v", err)
		}
	}
	h.incrCounter(cache.CounterProcessed)
	h.incrCounter(cache.CounterPosted)

	if err := h.registry.IncrementMessageCount(profile.UserID); err != nil {
		log.Printf("Failed to bump message count for %d: %v", profile.UserID, err)
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "published",
		"publication": pub,
	})
}

// queueMedia files a media submission for human review
func (h *SubmissionHandler) queueMedia(c *gin.Context, profile *models.UserProfile, req models.SubmitRequest) {
	item, err := h.queue.Submit(profile.UserID, profile.DisplayName, req.Kind, req.PayloadRef, req.Caption)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrSubmitterQuota):
			ErrorResponse(c, http.StatusTooManyRequests, "You already have the maximum number of submissions awaiting review")
		case errors.Is(err, models.ErrQueueFull):
			ErrorResponse(c, http.StatusTooManyRequests, "The review queue is full, try again later")
		case errors.Is(err, models.ErrInvalidKind):
			ErrorResponse(c, http.StatusBadRequest, "Unknown content kind")
		default:
			log.Printf("Failed to queue submission from %d: %v", profile.UserID, err)
			ErrorResponse(c, http.StatusInternalServerError, "Failed to queue submission")
		}
		return
	}

	h.incrCounter(cache.CounterProcessed)
	if h.redis != nil {
		event := models.Event{Type: models.EventItemPending, Payload: gin.H{
			"item": item,
			"card": publish.FormatForReview(item),
		}}
		if err := h.redis.PublishEvent(event); err != nil {
			log.Printf("Failed to publish pending event: %v", err)
		}
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "pending_review",
		"item":   item,
	})
}

// handleNameEntry consumes the text as the desired display name and ends
// the session whatever the outcome, matching one-shot name entry.
func (h *SubmissionHandler) handleNameEntry(c *gin.Context, userID int64, desired string) {
	h.sessions.Clear(userID)

	if err := h.registry.SetDisplayName(userID, desired); err != nil {
		respondNameError(c, err)
		return
	}

	profile, err := h.registry.Get(userID)
	if err != nil {
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "name_set",
		"profile": profile,
	})
}

func (h *SubmissionHandler) incrCounter(name string) {
	if h.redis == nil {
		return
	}
	if err := h.redis.IncrCounter(name); err != nil {
		log.Printf("Failed to bump counter %s: %v", name, err)
	}
}

// respondNameError maps display-name failures to HTTP statuses; shared with
// the profile handler.
func respondNameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidName):
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNameTaken):
		ErrorResponse(c, http.StatusConflict, "Display name is already taken")
	case errors.Is(err, models.ErrNameImmutable):
		ErrorResponse(c, http.StatusConflict, "Display name can only be set once")
	case errors.Is(err, models.ErrNotFound):
		ErrorResponse(c, http.StatusNotFound, "User not found")
	default:
		log.Printf("Failed to set display name: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to set display name")
	}
}
