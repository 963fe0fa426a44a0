package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anonrelay/backend/internal/cache"
	"github.com/anonrelay/backend/internal/queue"
	"github.com/anonrelay/backend/internal/registry"
)

type StatsHandler struct {
	queue    *queue.Queue
	registry *registry.Registry
	redis    *cache.RedisClient
}

func NewStatsHandler(q *queue.Queue, reg *registry.Registry, redis *cache.RedisClient) *StatsHandler {
	return &StatsHandler{
		queue:    q,
		registry: reg,
		redis:    redis,
	}
}

// GetStats aggregates queue, registry and traffic counters
func (h *StatsHandler) GetStats(c *gin.Context) {
	queueStats, err := h.queue.Stats()
	if err != nil {
		log.Printf("Failed to load queue stats: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	userStats, err := h.registry.Stats()
	if err != nil {
		log.Printf("Failed to load user stats: %v", err)
		ErrorResponse(c, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	counters := map[string]int64{}
	if h.redis != nil {
		counters, err = h.redis.GetCounters(
			cache.CounterProcessed,
			cache.CounterFiltered,
			cache.CounterPosted,
		)
		if err != nil {
			log.Printf("Failed to load traffic counters: %v", err)
			counters = map[string]int64{}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"queue":   queueStats,
		"users":   userStats,
		"traffic": counters,
	})
}
