package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/core/model"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/penwyp/go-pkviz/internal/presentation/render"
	"github.com/penwyp/go-pkviz/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Logging related
	debug     bool
	logFile   string
	logFormat string

	// Data source
	dsn          string
	tableName    string
	ids          []string
	queryTimeout time.Duration
	cacheEntries int

	// Filters
	compounds []string
	studies   []string
	strains   []string
	animals   []string
	runs      []string
	products  []string
	scales    []string
	maxTime   float64
	policy    string

	// Chart settings
	measure   string
	fitModel  string
	logScale  bool
	errorBars bool
	logFloor  float64

	// Output related
	outputFormat string
	htmlFile     string

	rootCmd = &cobra.Command{
		Use:   "go-pkviz [flags]",
		Short: "Pharmacokinetic and bioreactor time-course charts",
		Long: `go-pkviz filters, aggregates and plots time-course measurements from a
concentration (PK) table or a bioreactor process trend table.

The data source is a Postgres or SQLite database, or CSV files named after
their table (SB_CONC_DATA.csv, PROCESS_TREND.csv).

Examples:
  go-pkviz --dsn ./data                                  # Aggregated table for all compounds
  go-pkviz --dsn ./data --compound SP-100 --log          # One compound on a log axis
  go-pkviz --dsn ./data --fit exponential --html pk.html # Chart page with fitted curves
  go-pkviz --dsn postgres://localhost/lab --table trend --measure TITER -o json
  go-pkviz --dsn ./data --output summary                 # Subjects per study and compound`,
		SilenceUsage: true,
		RunE:         runRender,
	}
)

const defaultLogFile = "~/.go-pkviz/logs/app.log"

func init() {
	// System and debugging
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", defaultLogFile,
		"Log file path")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"Log format (text, json)")

	// Data source configuration
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "",
		"Data source: postgres://..., sqlite://path, csv://path or a CSV file/directory (default $PKVIZ_DSN)")
	rootCmd.PersistentFlags().StringVarP(&tableName, "table", "t", "pk",
		"Source table (pk, trend)")
	rootCmd.PersistentFlags().StringSliceVar(&ids, "ids", nil,
		"Restrict the query to these compound or run ids")
	rootCmd.PersistentFlags().DurationVar(&queryTimeout, "query-timeout", 30*time.Second,
		"Data source query timeout")
	rootCmd.PersistentFlags().IntVar(&cacheEntries, "cache-entries", 32,
		"Maximum cached query results (negative disables the cache)")

	// Filtering
	rootCmd.PersistentFlags().StringSliceVar(&compounds, "compound", nil, "Selected compounds")
	rootCmd.PersistentFlags().StringSliceVar(&studies, "study", nil, "Selected studies")
	rootCmd.PersistentFlags().StringSliceVar(&strains, "strain", nil, "Selected strains")
	rootCmd.PersistentFlags().StringSliceVar(&animals, "animal", nil, "Selected animals")
	rootCmd.PersistentFlags().StringSliceVar(&runs, "run", nil, "Selected runs")
	rootCmd.PersistentFlags().StringSliceVar(&products, "product", nil, "Selected products")
	rootCmd.PersistentFlags().StringSliceVar(&scales, "scale", nil, "Selected scales")
	rootCmd.PersistentFlags().Float64Var(&maxTime, "max-time", 0,
		"Drop observations after this time (0 = unbounded)")
	rootCmd.PersistentFlags().StringVar(&policy, "policy", "keep_compatible",
		"Cascade policy for dependent filters (keep_compatible, reset_empty, select_all)")

	// Chart settings
	rootCmd.PersistentFlags().StringVarP(&measure, "measure", "m", "",
		"Measure to plot (default: first measure of the table)")
	rootCmd.PersistentFlags().StringVar(&fitModel, "fit", "none",
		"Fitted curve overlay (none, exponential, bi_exponential)")
	rootCmd.PersistentFlags().BoolVar(&logScale, "log", false,
		"Logarithmic value axis")
	rootCmd.PersistentFlags().BoolVar(&errorBars, "error-bars", false,
		"Show standard deviation bands")
	rootCmd.PersistentFlags().Float64Var(&logFloor, "log-floor", 0,
		"Smallest value shown on a log axis (0 = automatic)")

	// Output configuration
	rootCmd.Flags().StringVarP(&outputFormat, "output", "o", "table",
		"Output format (table, json, csv, summary)")
	rootCmd.Flags().StringVar(&htmlFile, "html", "",
		"Also write the chart as an HTML page to this file")
}

func runRender(cmd *cobra.Command, args []string) error {
	if err := initLogging(true); err != nil {
		return err
	}

	out, err := formatter.New(outputFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	session, closeFn, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	report := session.Report()
	if err := out.Format(report); err != nil {
		return fmt.Errorf("failed to write %s output: %w", outputFormat, err)
	}

	if htmlFile != "" {
		if err := writeHTML(expandPath(htmlFile), report); err != nil {
			return err
		}
		util.LogInfo("Wrote chart page", util.Field{Key: "path", Value: htmlFile})
	}

	if report.Status != "" {
		return errors.New(report.Status)
	}
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// dashboardConfig builds the shared configuration from the flags.
func dashboardConfig() *dashboard.Config {
	selections := map[model.Dimension][]string{}
	for d, values := range map[model.Dimension][]string{
		model.DimCompound: compounds,
		model.DimStudy:    studies,
		model.DimStrain:   strains,
		model.DimAnimal:   animals,
		model.DimRun:      runs,
		model.DimProduct:  products,
		model.DimScale:    scales,
	} {
		if len(values) > 0 {
			selections[d] = values
		}
	}

	config := &dashboard.Config{
		DSN:           dsn,
		Table:         tableName,
		IDs:           ids,
		Measure:       measure,
		Policy:        policy,
		FitModel:      fitModel,
		Selections:    selections,
		MaxTime:       maxTime,
		ShowErrorBars: errorBars,
		UseLogScale:   logScale,
		LogFloor:      logFloor,
		CacheEntries:  cacheEntries,
		QueryTimeout:  queryTimeout,
	}
	if config.DSN != "" && !strings.Contains(config.DSN, ":") {
		config.DSN = expandPath(config.DSN)
	}
	return config
}

// openSession validates the flags, opens the data source and loads the
// session once. Load failures are kept in the session and reported as its
// status.
func openSession(ctx context.Context) (*dashboard.Session, func(), error) {
	config := dashboardConfig()
	if err := config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	loader, err := dashboard.NewDataLoader(config, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data source: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	session := dashboard.NewSession("cli", config, loader, nil)
	if err := session.Load(ctx); err != nil {
		util.LogWarn("Load failed", util.Field{Key: "error", Value: err.Error()})
	}
	return session, func() { _ = loader.Close() }, nil
}

func writeHTML(path string, report formatter.Report) error {
	if err := ensureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := render.NewEChartsRenderer().Render(f, report.Chart); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// Helper functions

// initLogging installs the global logger. Interactive commands keep the log
// off the terminal even in debug mode.
func initLogging(console bool) error {
	logLevel := "info"
	if debug {
		logLevel = "debug"
	}

	return util.InitLogger(util.LoggerConfig{
		Level:          logLevel,
		File:           expandPath(logFile),
		Format:         util.LogFormat(logFormat),
		DebugToConsole: debug && console,
	})
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
