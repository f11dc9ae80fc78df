package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/data/source"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/presentation/interaction"
	"github.com/penwyp/go-pkviz/internal/presentation/layout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDisplay struct {
	mu      sync.Mutex
	entered int
	exited  int
	cleared int
	loading []string
	reports []formatter.Report
	params  []layout.LayoutParam
}

func (d *fakeDisplay) EnterAlternateScreen() { d.mu.Lock(); d.entered++; d.mu.Unlock() }
func (d *fakeDisplay) ExitAlternateScreen() { d.mu.Lock(); d.exited++; d.mu.Unlock() }
func (d *fakeDisplay) ClearScreen() { d.mu.Lock(); d.cleared++; d.mu.Unlock() }

func (d *fakeDisplay) RenderWithState(report formatter.Report, param layout.LayoutParam) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reports = append(d.reports, report)
	d.params = append(d.params, param)
}

func (d *fakeDisplay) RenderLoading(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loading = append(d.loading, message)
}

type fakeKeyboard struct {
	events chan interaction.KeyEvent
	closed bool
}

func newFakeKeyboard(keys ...rune) *fakeKeyboard {
	kb := &fakeKeyboard{events: make(chan interaction.KeyEvent, len(keys))}
	for _, k := range keys {
		typ := interaction.KeyChar
		if k == interaction.KeyEsc {
			typ = interaction.KeyEscape
		}
		kb.events <- interaction.KeyEvent{Key: k, Type: typ}
	}
	return kb
}

func (k *fakeKeyboard) Events() <-chan interaction.KeyEvent { return k.events }
func (k *fakeKeyboard) Close() error { k.closed = true; return nil }

type fakeWatcher struct {
	events chan model.FileEvent
	closed bool
}

func (w *fakeWatcher) Events() <-chan model.FileEvent { return w.events }
func (w *fakeWatcher) Close() error { w.closed = true; return nil }

func newTestOrchestrator(t *testing.T, src *source.MemorySource) (*Orchestrator, *fakeDisplay) {
	t.Helper()
	cfg := testConfig(t, "pk")
	disp := &fakeDisplay{}
	return newOrchestrator(cfg, NewDataLoaderWithSource(src, cfg, nil), disp, nil), disp
}

func TestOrchestratorRunKeys(t *testing.T) {
	o, disp := newTestOrchestrator(t, source.NewMemorySource(samplePKTable()))
	kb := newFakeKeyboard('l', 'e', 'f', 't', 's', 'q')
	o.keyboard = kb

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, o.Run(ctx))

	state := o.stateManager.GetInteractionState()
	assert.True(t, state.UseLogScale)
	assert.True(t, state.ShowErrorBars)
	assert.Equal(t, 1, state.LayoutStyle)
	assert.Equal(t, pipeline.FitExponential, o.session.FitModel())
	assert.Equal(t, interaction.SortByTime, o.sorter.Field())

	toggles := o.session.Toggles()
	assert.True(t, toggles.UseLogScale)
	assert.True(t, toggles.ShowErrorBars)

	assert.True(t, kb.closed)
	assert.Equal(t, 1, disp.entered)
	assert.Equal(t, 1, disp.exited)
	assert.Equal(t, 1, disp.cleared)
	assert.Equal(t, []string{"Initializing and loading data..."}, disp.loading)
	require.NotEmpty(t, disp.reports)

	last := disp.reports[len(disp.reports)-1]
	assert.Empty(t, last.Status)
	assert.Len(t, last.Groups, 5)
	assert.Equal(t, pipeline.AxisLog, last.Chart.YAxis.Type)
	assert.Equal(t, "exponential", disp.params[len(disp.params)-1].FitModel)
}

func TestOrchestratorEscape(t *testing.T) {
	o, _ := newTestOrchestrator(t, source.NewMemorySource(samplePKTable()))

	assert.False(t, o.handleKeyboard(context.Background(), interaction.KeyEvent{Key: 'h', Type: interaction.KeyChar}))
	assert.True(t, o.stateManager.GetInteractionState().ShowHelp)

	esc := interaction.KeyEvent{Key: interaction.KeyEsc, Type: interaction.KeyEscape}
	assert.False(t, o.handleKeyboard(context.Background(), esc))
	assert.False(t, o.stateManager.GetInteractionState().ShowHelp)
	assert.True(t, o.handleKeyboard(context.Background(), esc))
}

func TestOrchestratorPauseAndMeasure(t *testing.T) {
	cfg := testConfig(t, "trend")
	o := newOrchestrator(cfg, NewDataLoaderWithSource(source.NewMemorySource(), cfg, nil), &fakeDisplay{}, nil)
	ctx := context.Background()

	o.handleKeyboard(ctx, interaction.KeyEvent{Key: 'p', Type: interaction.KeyChar})
	assert.True(t, o.stateManager.GetInteractionState().IsPaused)

	first := o.session.Measure()
	o.handleKeyboard(ctx, interaction.KeyEvent{Key: 'm', Type: interaction.KeyChar})
	assert.NotEqual(t, first, o.session.Measure())
	assert.Equal(t, model.TrendSchema.Measures[1], o.session.Measure())
}

func TestOrchestratorFileChange(t *testing.T) {
	src := source.NewMemorySource(samplePKTable())
	o, _ := newTestOrchestrator(t, src)
	w := &fakeWatcher{events: make(chan model.FileEvent, 1)}
	o.watcher = w

	ctx := context.Background()
	require.NoError(t, o.refreshCtrl.InitialLoad(ctx))
	o.handleFileChange(ctx, model.FileEvent{Path: "SB_CONC_DATA.csv", Operation: "WRITE"})

	_, reloads := o.stateManager.GetLastDataUpdate()
	assert.Equal(t, 2, reloads)

	require.NoError(t, o.Close())
	assert.True(t, w.closed)
	assert.Nil(t, o.watcher)
}

func TestWatchPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "SB_CONC_DATA.csv")
	require.NoError(t, os.WriteFile(file, []byte("x\n"), 0o644))

	tests := []struct {
		name string
		dsn  string
		want string
		ok   bool
	}{
		{"csv scheme", "csv://" + dir, dir, true},
		{"plain directory", dir, dir, true},
		{"plain file", file, file, true},
		{"postgres", "postgres://localhost/pk", "", false},
		{"sqlite file uri", "file:pk.db", "", false},
		{"missing path", filepath.Join(dir, "missing"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := WatchPath(tt.dsn)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNextFitModel(t *testing.T) {
	assert.Equal(t, pipeline.FitExponential, nextFitModel(pipeline.FitNone))
	assert.Equal(t, pipeline.FitBiExponential, nextFitModel(pipeline.FitExponential))
	assert.Equal(t, pipeline.FitNone, nextFitModel(pipeline.FitBiExponential))
}

func TestNextMeasure(t *testing.T) {
	assert.Equal(t, model.MeasureConc, nextMeasure(model.PKSchema, model.MeasureConc))
	measures := model.TrendSchema.Measures
	assert.Equal(t, measures[0], nextMeasure(model.TrendSchema, measures[len(measures)-1]))
	assert.Equal(t, measures[0], nextMeasure(model.TrendSchema, model.Measure("UNKNOWN")))
}
