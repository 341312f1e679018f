package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetChairs handles GET /api/chairs: the full current snapshot. Read-only,
// served from memory, so it answers even while the backing persistence is
// down. A fresh deployment gets an empty map, not an error.
func (h *Handler) GetChairs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Get())
}

// chairReportRequest is one sensor occupancy report. IsOccupied is a *bool so
// a missing field and a non-boolean value are both rejected rather than
// defaulting to false.
type chairReportRequest struct {
	ChairID    string `json:"chairId"`
	IsOccupied *bool  `json:"is_occupied"`
}

// PostChair handles POST /api/chairs: validates and applies a single-chair
// occupancy report. Replace-on-write: duplicate reports are accepted, still
// advance updatedAt, and still emit the audit event.
func (h *Handler) PostChair(c *gin.Context) {
	var req chairReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chairId (string) and is_occupied (boolean) are required"})
		return
	}
	if req.ChairID == "" || req.IsOccupied == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chairId (string) and is_occupied (boolean) are required"})
		return
	}

	prev, cur := h.store.Put(c.Request.Context(), req.ChairID, *req.IsOccupied)

	// The audit trail. Emitted on every accepted report, even when the
	// persister failed underneath the store.
	prevLabel := "unknown"
	if prev != nil {
		prevLabel = boolLabel(prev.IsOccupied)
	}
	log.Printf("chair update: %s -> %s (prev: %s)", cur.ChairID, boolLabel(cur.IsOccupied), prevLabel)

	// Free-chair transition wakes up the notification workers.
	if h.pool != nil && prev != nil && prev.IsOccupied && !cur.IsOccupied {
		h.pool.Dispatch(cur.ChairID)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"previous": prev,
		"current":  cur,
	})
}

func boolLabel(occupied bool) string {
	if occupied {
		return "occupied"
	}
	return "free"
}
