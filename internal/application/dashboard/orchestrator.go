package dashboard

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/watcher"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/display"
	"github.com/penwyp/go-pkviz/internal/presentation/interaction"
	"github.com/penwyp/go-pkviz/internal/presentation/layout"
	"github.com/penwyp/go-pkviz/internal/util"
)

var fitCycle = []pipeline.FitModel{pipeline.FitNone, pipeline.FitExponential, pipeline.FitBiExponential}

// Orchestrator coordinates all components of the live watch view
type Orchestrator struct {
	config *Config

	// Core components
	loader       DataSource
	session      *Session
	refreshCtrl  *RefreshController
	stateManager *StateManager

	// UI components
	display  DisplayController
	keyboard InputHandler
	sorter   *interaction.GroupSorter

	// Monitoring
	watcher    FileMonitor
	watchPaths []string

	newKeyboard func() (InputHandler, error)
	newWatcher  func(paths []string) (FileMonitor, error)
}

// NewOrchestrator creates a new Orchestrator instance
func NewOrchestrator(config *Config, m *metrics.Metrics) (*Orchestrator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	loader, err := NewDataLoader(config, m)
	if err != nil {
		return nil, fmt.Errorf("failed to create data loader: %w", err)
	}

	o := newOrchestrator(config, loader, display.NewTerminalDisplay(), m)
	o.newKeyboard = func() (InputHandler, error) { return interaction.NewKeyboardReader() }
	o.newWatcher = func(paths []string) (FileMonitor, error) { return watcher.NewFileWatcher(paths) }
	if path, ok := WatchPath(config.DSN); ok {
		o.watchPaths = []string{path}
	}
	return o, nil
}

func newOrchestrator(config *Config, loader DataSource, disp DisplayController, m *metrics.Metrics) *Orchestrator {
	session := NewSession(uuid.NewString(), config, loader, m)
	stateManager := NewStateManager()
	toggles := config.Toggles()
	stateManager.UpdateInteractionState(func(s *model.InteractionState) {
		s.ShowErrorBars = toggles.ShowErrorBars
		s.UseLogScale = toggles.UseLogScale
	})

	return &Orchestrator{
		config:       config,
		loader:       loader,
		session:      session,
		refreshCtrl:  NewRefreshController(session, stateManager),
		stateManager: stateManager,
		display:      disp,
		sorter:       interaction.NewGroupSorter(),
	}
}

// WatchPath returns the CSV file or directory behind a DSN, if any
func WatchPath(dsn string) (string, bool) {
	path := strings.TrimPrefix(dsn, "csv://")
	if path != dsn {
		return path, true
	}
	if strings.Contains(dsn, "://") || strings.HasPrefix(dsn, "file:") {
		return "", false
	}
	if _, err := os.Stat(dsn); err == nil {
		return dsn, true
	}
	return "", false
}

func (o *Orchestrator) Session() *Session { return o.session }

// Run starts the orchestrator main loop
func (o *Orchestrator) Run(ctx context.Context) error {
	util.LogInfo("Starting go-pkviz watch", util.Field{Key: "session", Value: o.session.ID()})
	defer o.Close()

	if o.newKeyboard != nil {
		keyboard, err := o.newKeyboard()
		if err != nil {
			return fmt.Errorf("failed to initialize keyboard: %w", err)
		}
		o.keyboard = keyboard
	}
	if o.keyboard != nil {
		defer o.keyboard.Close()
	}

	o.display.EnterAlternateScreen()
	defer o.display.ExitAlternateScreen()

	o.display.RenderLoading("Initializing and loading data...")
	if err := o.refreshCtrl.InitialLoad(ctx); err != nil {
		util.LogError("Initial load failed", util.Field{Key: "error", Value: err.Error()})
	}

	if len(o.watchPaths) > 0 && o.newWatcher != nil {
		w, err := o.newWatcher(o.watchPaths)
		if err != nil {
			return fmt.Errorf("failed to start file watcher: %w", err)
		}
		o.watcher = w
	}

	uiTicker := time.NewTicker(time.Duration(float64(time.Second) / o.config.UIRefreshRate))
	defer uiTicker.Stop()

	dataTicker := time.NewTicker(o.config.DataRefreshInterval)
	defer dataTicker.Stop()

	var fileEvents <-chan model.FileEvent
	if o.watcher != nil {
		fileEvents = o.watcher.Events()
	}
	var keyEvents <-chan interaction.KeyEvent
	if o.keyboard != nil {
		keyEvents = o.keyboard.Events()
	}

	o.updateDisplay()

	for {
		select {
		case <-ctx.Done():
			util.LogInfo("Shutting down go-pkviz watch")
			return nil

		case <-uiTicker.C:
			if !o.stateManager.GetInteractionState().IsPaused {
				o.updateDisplay()
			}

		case <-dataTicker.C:
			// file-backed sources reload from watcher events instead
			if o.watcher == nil && !o.stateManager.GetInteractionState().IsPaused {
				o.refreshData(ctx)
			}

		case event, ok := <-fileEvents:
			if !ok {
				fileEvents = nil
				continue
			}
			if !o.stateManager.GetInteractionState().IsPaused {
				o.handleFileChange(ctx, event)
			}

		case keyEvent := <-keyEvents:
			if o.handleKeyboard(ctx, keyEvent) {
				return nil
			}
			o.updateDisplay()
		}
	}
}

func (o *Orchestrator) updateDisplay() {
	if isLoading, message := o.stateManager.GetLoadingState(); isLoading {
		o.display.RenderLoading(message)
		return
	}

	report := o.session.Report()
	state := o.stateManager.GetInteractionState()
	if report.Status != "" {
		state.StatusMessage = report.Status
	}
	lastUpdate, _ := o.stateManager.GetLastDataUpdate()

	o.display.RenderWithState(report, layout.LayoutParam{
		State:      state,
		FitModel:   string(o.session.FitModel()),
		SortLabel:  o.sorter.Field().String(),
		LastUpdate: util.GetTimeProvider().In(lastUpdate),
		Groups:     o.sorter.Sort(report.Groups),
	})
}

func (o *Orchestrator) refreshData(ctx context.Context) {
	if err := o.refreshCtrl.RefreshData(ctx); err != nil {
		util.LogError("Failed to refresh data", util.Field{Key: "error", Value: err.Error()})
	}
}

func (o *Orchestrator) handleFileChange(ctx context.Context, event model.FileEvent) {
	if err := o.refreshCtrl.HandleFileChange(ctx, event); err != nil {
		util.LogError("Failed to handle file change", util.Field{Key: "path", Value: event.Path}, util.Field{Key: "error", Value: err.Error()})
	}
}

// handleKeyboard applies a key press; it returns true when the user quits
func (o *Orchestrator) handleKeyboard(ctx context.Context, event interaction.KeyEvent) bool {
	if event.Type == interaction.KeyEscape {
		if o.stateManager.GetInteractionState().ShowHelp {
			o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
				s.ShowHelp = false
			})
			return false
		}
		return true
	}

	switch event.Key {
	case 'q', 'Q', interaction.KeyCtrlC:
		return true
	case 'r', 'R':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ForceRefresh = true
		})
		o.refreshData(ctx)
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ForceRefresh = false
		})
	case 'l', 'L':
		t := o.session.UpdateToggles(func(t *Toggles) { t.UseLogScale = !t.UseLogScale })
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.UseLogScale = t.UseLogScale
		})
	case 'e', 'E':
		t := o.session.UpdateToggles(func(t *Toggles) { t.ShowErrorBars = !t.ShowErrorBars })
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowErrorBars = t.ShowErrorBars
		})
	case 'f', 'F':
		o.session.SetFitModel(nextFitModel(o.session.FitModel()))
	case 'm', 'M':
		o.session.SetMeasure(nextMeasure(o.session.Schema(), o.session.Measure()))
	case 's':
		o.sorter.Next()
	case 'S':
		o.sorter.Reverse()
	case 't', 'T':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.LayoutStyle = (s.LayoutStyle + 1) % layout.LayoutCount
		})
		o.display.ClearScreen()
	case 'p', 'P':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.IsPaused = !s.IsPaused
		})
	case 'h', 'H':
		o.stateManager.UpdateInteractionState(func(s *model.InteractionState) {
			s.ShowHelp = !s.ShowHelp
		})
	}
	return false
}

func nextFitModel(current pipeline.FitModel) pipeline.FitModel {
	for i, m := range fitCycle {
		if m == current {
			return fitCycle[(i+1)%len(fitCycle)]
		}
	}
	return pipeline.FitNone
}

func nextMeasure(schema model.Schema, current model.Measure) model.Measure {
	if len(schema.Measures) == 0 {
		return current
	}
	for i, m := range schema.Measures {
		if m == current {
			return schema.Measures[(i+1)%len(schema.Measures)]
		}
	}
	return schema.Measures[0]
}

// Close cleans up all resources
func (o *Orchestrator) Close() error {
	if o.watcher != nil {
		if err := o.watcher.Close(); err != nil {
			return fmt.Errorf("failed to close file watcher: %w", err)
		}
		o.watcher = nil
	}
	if o.loader != nil {
		if err := o.loader.Close(); err != nil {
			return fmt.Errorf("failed to close data source: %w", err)
		}
		o.loader = nil
	}
	return nil
}
