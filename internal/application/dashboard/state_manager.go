package dashboard

import (
	"sync"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
)

// StateManager manages live view state in a thread-safe manner
type StateManager struct {
	mu sync.RWMutex

	// Loading state
	isLoading      bool
	loadingMessage string

	// Interaction state
	interactionState model.InteractionState

	// Metadata
	lastDataUpdate time.Time
	reloads        int
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{}
}

// GetLoadingState returns current loading state and message
func (sm *StateManager) GetLoadingState() (bool, string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.isLoading, sm.loadingMessage
}

// SetLoadingState updates loading state and message
func (sm *StateManager) SetLoadingState(isLoading bool, message string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.isLoading = isLoading
	sm.loadingMessage = message
}

// GetInteractionState returns a copy of the interaction state
func (sm *StateManager) GetInteractionState() model.InteractionState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.interactionState
}

// SetInteractionState replaces the interaction state
func (sm *StateManager) SetInteractionState(state model.InteractionState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.interactionState = state
}

// UpdateInteractionState updates specific fields of interaction state
func (sm *StateManager) UpdateInteractionState(updateFunc func(*model.InteractionState)) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	updateFunc(&sm.interactionState)
}

// SetStatus replaces the status message shown under the chart
func (sm *StateManager) SetStatus(message string) {
	sm.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = message
	})
}

// MarkDataUpdated records a successful reload
func (sm *StateManager) MarkDataUpdated(at time.Time) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.lastDataUpdate = at
	sm.reloads++
}

// GetLastDataUpdate returns the time of the last successful reload and how
// many reloads happened so far
func (sm *StateManager) GetLastDataUpdate() (time.Time, int) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.lastDataUpdate, sm.reloads
}
