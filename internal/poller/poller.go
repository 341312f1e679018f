package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"chair-status-backend/internal/model"
)

// State is the poller's position in its tick cycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StateMerging  State = "merging"
	StateFailed   State = "failed"
)

// Status is the consumer-visible connectivity indicator.
type Status struct {
	Connected   bool
	LastUpdated time.Time
}

// ApplyFunc merges one fetched snapshot into local consumer state. It is only
// called with snapshots that decoded successfully; previously applied state
// is never cleared by the poller on failure.
type ApplyFunc func(model.StateSnapshot)

// Poller fetches the full occupancy snapshot on a fixed interval and merges
// it into the consumer's local state. Failures flip the connectivity
// indicator and are retried on the next tick with no backoff: the read is
// idempotent, so a missed tick only delays freshness.
type Poller struct {
	url      string
	interval time.Duration
	client   *http.Client
	apply    ApplyFunc

	mu     sync.RWMutex
	state  State
	status Status

	// onTransition, when set, observes every state change. Used by tests and
	// available to UIs that render the cycle.
	onTransition func(State)
}

// New creates a poller against baseURL (the service root, e.g.
// "http://localhost:3001").
func New(baseURL string, interval time.Duration, apply ApplyFunc) *Poller {
	return &Poller{
		url:      baseURL + "/api/chairs",
		interval: interval,
		client:   &http.Client{Timeout: 10 * time.Second},
		apply:    apply,
		state:    StateIdle,
	}
}

// OnTransition registers a hook observing every state change. Must be called
// before Run.
func (p *Poller) OnTransition(fn func(State)) {
	p.onTransition = fn
}

// State returns the current cycle state.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Status returns the connectivity indicator and last successful merge time.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

func (p *Poller) transition(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
	if p.onTransition != nil {
		p.onTransition(s)
	}
}

// Run polls until ctx is cancelled: an immediate first tick, then the fixed
// interval. Cancellation abandons any in-flight fetch; its result is
// discarded on arrival.
func (p *Poller) Run(ctx context.Context) {
	log.Println("Starting poller...")

	p.PollOnce(ctx)

	timer := time.NewTimer(p.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Poller shutting down.")
			return
		case <-timer.C:
			p.PollOnce(ctx)
			timer.Reset(p.interval)
		}
	}
}

// PollOnce performs a single Idle -> Fetching -> (Merging | Failed) -> Idle
// cycle.
func (p *Poller) PollOnce(ctx context.Context) {
	p.transition(StateFetching)

	snapshot, err := p.fetch(ctx)
	if err != nil {
		// Keep whatever was displayed before; stale data beats a blank
		// dashboard. Only the indicator changes.
		log.Printf("poll failed: %v", err)
		p.transition(StateFailed)
		p.mu.Lock()
		p.status.Connected = false
		p.mu.Unlock()
		p.transition(StateIdle)
		return
	}

	p.transition(StateMerging)
	p.apply(snapshot)
	p.mu.Lock()
	p.status.Connected = true
	p.status.LastUpdated = time.Now()
	p.mu.Unlock()
	p.transition(StateIdle)
}

func (p *Poller) fetch(ctx context.Context) (model.StateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return model.StateSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return model.StateSnapshot{}, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.StateSnapshot{}, fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.StateSnapshot{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var snapshot model.StateSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return model.StateSnapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if snapshot.Chairs == nil {
		snapshot.Chairs = make(map[string]model.OccupancyRecord)
	}
	return snapshot, nil
}
