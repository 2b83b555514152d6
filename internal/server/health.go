package server

import (
	"sync"
	"time"
)

// Components tracked by the server.
const (
	ComponentReddit   = "reddit"
	ComponentProvider = "provider"
)

// ComponentStatus is the last observed state of one dependency.
type ComponentStatus struct {
	Healthy     bool      `json:"healthy"`
	LastCheck   time.Time `json:"last_check"`
	LastSuccess time.Time `json:"last_success,omitzero"`
	Message     string    `json:"message,omitempty"`
}

// Health records dependency outcomes observed while serving analyses.
// Components that were never exercised are not reported.
type Health struct {
	mu         sync.RWMutex
	components map[string]ComponentStatus
	now        func() time.Time
}

// NewHealth creates a new health tracker.
func NewHealth() *Health {
	return &Health{
		components: make(map[string]ComponentStatus),
		now:        time.Now,
	}
}

// SetHealthy marks a component as healthy.
func (h *Health) SetHealthy(component string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.components[component] = ComponentStatus{
		Healthy:     true,
		LastCheck:   now,
		LastSuccess: now,
	}
}

// SetUnhealthy marks a component as unhealthy, keeping its last success time.
func (h *Health) SetUnhealthy(component string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.components[component]
	h.components[component] = ComponentStatus{
		LastCheck:   h.now(),
		LastSuccess: prev.LastSuccess,
		Message:     err.Error(),
	}
}

// Status returns the status of a component.
func (h *Health) Status(component string) (ComponentStatus, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status, ok := h.components[component]
	return status, ok
}

// Snapshot returns a copy of every component status.
func (h *Health) Snapshot() map[string]ComponentStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make(map[string]ComponentStatus, len(h.components))
	for name, status := range h.components {
		result[name] = status
	}
	return result
}

// IsHealthy returns true if all components are healthy.
func (h *Health) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, status := range h.components {
		if !status.Healthy {
			return false
		}
	}
	return true
}
