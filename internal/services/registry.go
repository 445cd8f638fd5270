package services

import (
	"context"
	"sync"
)

// RunRegistry tracks the cancel functions of in-flight production runs so
// the cancel endpoint can stop a run promptly
type RunRegistry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

// NewRunRegistry creates an empty registry
func NewRunRegistry() *RunRegistry {
	return &RunRegistry{
		cancels: make(map[string]context.CancelFunc),
	}
}

// Register records the cancel function for a running production
func (rr *RunRegistry) Register(productionID string, cancel context.CancelFunc) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.cancels[productionID] = cancel
}

// Unregister removes a finished production from the registry
func (rr *RunRegistry) Unregister(productionID string) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	delete(rr.cancels, productionID)
}

// Cancel stops the run if it is in flight. Returns false when the
// production is not currently running.
func (rr *RunRegistry) Cancel(productionID string) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	cancel, ok := rr.cancels[productionID]
	if !ok {
		return false
	}
	cancel()
	delete(rr.cancels, productionID)
	return true
}
