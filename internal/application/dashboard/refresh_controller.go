package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/util"
)

// RefreshController reloads session data on demand, on a timer or after a
// watched file changed
type RefreshController struct {
	session *Session
	state   StateStore
	now     func() time.Time

	refreshMutex sync.Mutex // Prevent concurrent refreshes
}

// NewRefreshController creates a new RefreshController instance
func NewRefreshController(session *Session, state StateStore) *RefreshController {
	return &RefreshController{session: session, state: state, now: time.Now}
}

// InitialLoad performs the first query without dropping caches
func (rc *RefreshController) InitialLoad(ctx context.Context) error {
	return rc.run(ctx, "Loading data...", false)
}

// RefreshData drops cached tables and queries the source again
func (rc *RefreshController) RefreshData(ctx context.Context) error {
	return rc.run(ctx, "Refreshing data...", true)
}

// HandleFileChange reloads after a change to a watched data file
func (rc *RefreshController) HandleFileChange(ctx context.Context, event model.FileEvent) error {
	util.LogDebug("File changed", util.Field{Key: "path", Value: event.Path}, util.Field{Key: "op", Value: event.Operation})
	return rc.RefreshData(ctx)
}

func (rc *RefreshController) run(ctx context.Context, message string, invalidate bool) error {
	rc.refreshMutex.Lock()
	defer rc.refreshMutex.Unlock()

	rc.state.SetLoadingState(true, message)
	defer rc.state.SetLoadingState(false, "")

	start := rc.now()
	var err error
	if invalidate {
		err = rc.session.Reload(ctx)
	} else {
		err = rc.session.Load(ctx)
	}
	if err != nil {
		status := StatusFor(err)
		rc.state.UpdateInteractionState(func(s *model.InteractionState) {
			s.StatusMessage = status
		})
		return fmt.Errorf("failed to load data: %w", err)
	}

	rc.state.UpdateInteractionState(func(s *model.InteractionState) {
		s.StatusMessage = fmt.Sprintf("Loaded in %s", util.FormatDuration(rc.now().Sub(start)))
	})
	rc.state.MarkDataUpdated(rc.now())
	return nil
}
