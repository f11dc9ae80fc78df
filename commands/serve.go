package commands

import (
	"time"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/metrics"
	"github.com/penwyp/go-pkviz/internal/web"
	"github.com/spf13/cobra"
)

var (
	// Server flags
	serveAddr        string
	serveSessionTTL  time.Duration
	serveMaxSessions int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive chart over HTTP",
	Long: `Starts an HTTP server with the chart page and a JSON API. Every browser
gets its own session; the query parameters of a request (compound, study,
strain, run, product, scale, measure, log, errorbars, fit, maxtime) select
the view.

Routes:
  GET /              chart page
  GET /api/chart     chart description as JSON
  GET /api/options   dependent filter choices
  GET /api/summary   subjects per study and compound
  GET /api/export    filtered records as CSV
  GET /metrics       Prometheus metrics
  GET /health        liveness probe`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8050",
		"Listen address")
	serveCmd.Flags().DurationVar(&serveSessionTTL, "session-ttl", 30*time.Minute,
		"Drop sessions idle for longer than this")
	serveCmd.Flags().IntVar(&serveMaxSessions, "max-sessions", 256,
		"Maximum sessions held in memory")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := initLogging(true); err != nil {
		return err
	}

	config := &web.Config{
		Addr:        serveAddr,
		SessionTTL:  serveSessionTTL,
		MaxSessions: serveMaxSessions,
		Dashboard:   dashboardConfig(),
	}
	if err := config.Validate(); err != nil {
		return err
	}

	m := metrics.New()
	loader, err := dashboard.NewDataLoader(config.Dashboard, m)
	if err != nil {
		return err
	}
	defer loader.Close()

	ctx, cancel := signalContext()
	defer cancel()
	return web.NewServer(config, loader, m).Start(ctx)
}
