package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"chair-status-backend/internal/notification"
	"chair-status-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	db      *gorm.DB
	webpush *webpush.Options
	pool    *notification.WorkerPool
}

// NewHandler creates a new API handler. db and pool may be nil when push
// notifications are disabled for the deployment.
func NewHandler(s store.Store, db *gorm.DB, webpushOptions *webpush.Options, pool *notification.WorkerPool) *Handler {
	return &Handler{
		store:   s,
		db:      db,
		webpush: webpushOptions,
		pool:    pool,
	}
}
