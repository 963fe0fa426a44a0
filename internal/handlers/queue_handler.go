package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anonrelay/backend/internal/cache"
	"github.com/anonrelay/backend/internal/middleware"
	"github.com/anonrelay/backend/internal/models"
	"github.com/anonrelay/backend/internal/publish"
	"github.com/anonrelay/backend/internal/queue"
	"github.com/anonrelay/backend/internal/registry"
)

type QueueHandler struct {
	queue     *queue.Queue
	registry  *registry.Registry
	redis     *cache.RedisClient
	channelID string
}

func NewQueueHandler(q *queue.Queue, reg *registry.Registry, redis *cache.RedisClient, channelID string) *QueueHandler {
	return &QueueHandler{
		queue:     q,
		registry:  reg,
		redis:     redis,
		channelID: channelID,
	}
}

// ListPending returns the review backlog oldest first
func (h *QueueHandler) ListPending(c *gin.Context) {
	items, err := h.queue.ListPending()
	if err != nil {
		log.Printf("Failed to list pending items: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to list pending items")
		return
	}

	cards := make([]gin.H, len(items))
	for i := range items {
		cards[i] = gin.H{
			"item": items[i],
			"card": publish.FormatForReview(&items[i]),
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(items),
		"items": cards,
	})
}

// Decide records the single allowed decision for an item. Approval publishes
// the content; rejection only records the decision.
func (h *QueueHandler) Decide(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "Invalid item ID")
		return
	}

	var req models.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	adminID := middleware.UserID(c)
	item, err := h.queue.Decide(id, req.Approve, adminID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			ErrorResponse(c, http.StatusNotFound, "Item not found")
		case errors.Is(err, models.ErrAlreadyDecided):
			ErrorResponse(c, http.StatusConflict, "Item has already been decided")
		default:
			log.Printf("Failed to decide item %s: %v", id, err)
			ErrorResponse(c, http.StatusInternalServerError, "Failed to decide item")
		}
		return
	}

	h.afterDecision(item)

	c.JSON(http.StatusOK, gin.H{
		"status": string(item.Decision),
		"item":   item,
	})
}

// DecideAll applies one decision to the entire pending backlog
func (h *QueueHandler) DecideAll(c *gin.Context) {
	var req models.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	adminID := middleware.UserID(c)
	items, err := h.queue.DecideAll(req.Approve, adminID)
	if err != nil {
		log.Printf("Failed to decide all pending items: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to decide pending items")
		return
	}

	for i := range items {
		h.afterDecision(&items[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"decided": len(items),
		"items":   items,
	})
}

// Purge removes decided items past the retention window
func (h *QueueHandler) Purge(c *gin.Context) {
	purged, err := h.queue.PurgeStale()
	if err != nil {
		log.Printf("Failed to purge stale items: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to purge stale items")
		return
	}
	c.JSON(http.StatusOK, gin.H{"purged": purged})
}

// afterDecision emits the decided event, and on approval publishes the
// content under the submitter's pseudonym and bumps their counter.
func (h *QueueHandler) afterDecision(item *models.ModerationItem) {
	if h.redis != nil {
		event := models.Event{Type: models.EventItemDecided, Payload: item}
		if err := h.redis.PublishEvent(event); err != nil {
			log.Printf("Failed to publish decided event: %v", err)
		}
	}

	if item.Decision != models.DecisionApproved {
		return
	}

	pub := publish.NewPublication(h.channelID, item.Kind, item.PayloadRef, item.Caption, item.DisplayName)
	if h.redis != nil {
		if err := h.redis.PublishEvent(models.Event{Type: models.EventPublished, Payload: pub}); err != nil {
			log.Printf("Failed to publish event for item %s: %v", item.ID, err)
		}
		if err := h.redis.IncrCounter(cache.CounterPosted); err != nil {
			log.Printf("Failed to bump counter: %v", err)
		}
	}

	if err := h.registry.IncrementMessageCount(item.SubmitterID); err != nil {
		log.Printf("Failed to bump message count for %d: %v", item.SubmitterID, err)
	}
}
