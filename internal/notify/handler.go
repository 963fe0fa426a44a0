package notify

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/anonrelay/backend/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Reviewer sockets are opened by the gateway, not browsers
		return true
	},
}

// Handler upgrades reviewer connections
type Handler struct {
	hub        *Hub
	jwtService *auth.JWTService
	isAdmin    func(int64) bool
}

// NewHandler creates a reviewer WebSocket handler
func NewHandler(hub *Hub, jwtService *auth.JWTService, isAdmin func(int64) bool) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		isAdmin:    isAdmin,
	}
}

// HandleWebSocket handles reviewer WebSocket upgrade requests
func (h *Handler) HandleWebSocket(c *gin.Context) {
	// Get token from query parameter
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	if !h.isAdmin(claims.UserID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade connection: %v", err)
		return
	}

	client := NewClient(h.hub, conn, claims.UserID)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
