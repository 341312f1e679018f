package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chair-status-backend/config"
	"chair-status-backend/internal/api"
	"chair-status-backend/internal/directory"
	"chair-status-backend/internal/model"
	"chair-status-backend/internal/poller"
	"chair-status-backend/internal/reconcile"
	"chair-status-backend/internal/store"
)

func newService(t *testing.T, statePath, apiKey string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := store.New(context.Background(), store.NewFilePersister(statePath))
	require.NoError(t, err)

	cfg := &config.ServerConfig{
		APIKey:          apiKey,
		RateLimitPerSec: 1000,
		RateLimitBurst:  1000,
	}
	return api.NewRouter(cfg, api.NewHandler(s, nil, nil, nil))
}

func report(t *testing.T, router *gin.Engine, apiKey, chairID string, occupied bool) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"chairId": chairID, "is_occupied": occupied})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/chairs", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

// TestOccupancyLifecycle drives the whole write/read cycle over the HTTP
// boundary and verifies that state survives a process restart through the
// file persister.
func TestOccupancyLifecycle(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "chairs.json")
	router := newService(t, statePath, "s3cret")

	// Sensors report.
	report(t, router, "s3cret", "chair-1", true)
	report(t, router, "s3cret", "chair-2", false)

	// A dashboard reads the full snapshot.
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/chairs", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var snapshot model.StateSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snapshot))
	require.Len(t, snapshot.Chairs, 2)
	assert.True(t, snapshot.Chairs["chair-1"].IsOccupied)
	assert.False(t, snapshot.Chairs["chair-2"].IsOccupied)

	// "Restart": a new service instance over the same state file sees the
	// same map.
	restarted := newService(t, statePath, "")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/api/chairs", nil)
	restarted.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var afterRestart model.StateSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &afterRestart))
	require.Len(t, afterRestart.Chairs, 2)
	assert.True(t, afterRestart.Chairs["chair-1"].IsOccupied)
}

// TestDashboardReconciliation runs the consumer stack end to end: the poller
// fetches from a live service and the reconciler merges sensor truth into the
// seating-chart directory.
func TestDashboardReconciliation(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "chairs.json")
	router := newService(t, statePath, "")
	server := httptest.NewServer(router)
	defer server.Close()

	mapping, err := reconcile.NewMapping(map[string]string{
		"chair-1": "table-1-top-0",
		"chair-2": "table-1-top-1",
	})
	require.NoError(t, err)

	dir := directory.New()
	p := poller.New(server.URL, time.Second, func(snapshot model.StateSnapshot) {
		dir.ApplySeats(mapping.Reconcile(snapshot, dir.Seats()))
	})

	// Tick 1: chair-1 occupied, chair-9 (unmapped) occupied.
	report(t, router, "", "chair-1", true)
	report(t, router, "", "chair-9", true)
	p.PollOnce(context.Background())

	occupied, total := dir.Counts()
	assert.Equal(t, 1, occupied, "only the mapped chair reaches the seating chart")
	assert.Equal(t, 192, total)
	assert.True(t, p.Status().Connected)

	// A local click override on an unmapped seat survives reconciliation.
	require.NoError(t, dir.SetOccupied("table-5-bottom-2", true))

	// Tick 2: chair-1 frees up.
	report(t, router, "", "chair-1", false)
	p.PollOnce(context.Background())

	occupied, _ = dir.Counts()
	assert.Equal(t, 1, occupied, "chair-1's seat freed, the click override remains")

	// Tick 3: the service goes away; displayed state must not blank.
	server.Close()
	p.PollOnce(context.Background())

	occupied, _ = dir.Counts()
	assert.Equal(t, 1, occupied, "a failed fetch leaves the previous view intact")
	assert.False(t, p.Status().Connected)
}
