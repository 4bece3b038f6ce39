package http

import (
	"net/http"

	"github.com/dkeye/Relay/internal/app/orch"
	"github.com/dkeye/Relay/internal/domain"
	"github.com/gin-gonic/gin"
)

type RoomDetail struct {
	ID           domain.RoomID        `json:"id"`
	Participants []domain.Participant `json:"participants"`
	History      int                  `json:"history"`
}

type handlers struct {
	orch *orch.Orchestrator
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"rooms":    len(h.orch.Rooms.List()),
		"sessions": h.orch.Registry.Count(),
	})
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.Rooms.List())
}

// getRoom never creates a room: only joins do.
func (h *handlers) getRoom(c *gin.Context) {
	room, ok := h.orch.Rooms.Get(domain.RoomID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	info := room.Info()
	c.JSON(http.StatusOK, RoomDetail{
		ID:           info.ID,
		Participants: room.Participants(),
		History:      info.History,
	})
}
