package dashboard

import (
	"context"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/presentation/interaction"
	"github.com/penwyp/go-pkviz/internal/presentation/layout"
)

// DataSource loads tables for a session
type DataSource interface {
	// Load queries the table restricted to ids (empty = all)
	Load(ctx context.Context, table string, ids []string) (*model.Table, error)
	// Invalidate drops cached results
	Invalidate()
	// Close releases the underlying store
	Close() error
}

// DisplayController handles terminal display operations
type DisplayController interface {
	// EnterAlternateScreen switches to alternate terminal screen
	EnterAlternateScreen()
	// ExitAlternateScreen returns to normal terminal screen
	ExitAlternateScreen()
	// ClearScreen clears the terminal screen
	ClearScreen()
	// RenderWithState renders a report with the given layout parameters
	RenderWithState(report formatter.Report, param layout.LayoutParam)
	// RenderLoading shows a loading screen
	RenderLoading(message string)
}

// StateStore manages application state
type StateStore interface {
	GetLoadingState() (bool, string)
	SetLoadingState(isLoading bool, message string)
	GetInteractionState() model.InteractionState
	UpdateInteractionState(updateFunc func(*model.InteractionState))
	MarkDataUpdated(at time.Time)
}

// InputHandler processes keyboard and other input events
type InputHandler interface {
	// Events returns a channel of keyboard events
	Events() <-chan interaction.KeyEvent
	// Close cleans up input handler resources
	Close() error
}

// FileMonitor watches for file changes
type FileMonitor interface {
	// Events returns a channel of file change events
	Events() <-chan model.FileEvent
	// Close stops monitoring and cleans up resources
	Close() error
}
