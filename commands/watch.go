package commands

import (
	"fmt"
	"time"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/util"
	"github.com/spf13/cobra"
)

var (
	// Display related flags
	watchRefreshRate      int
	watchRefreshPerSecond float64
	watchTimezone         string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live terminal view of the aggregated series",
	Long: `Similar to the top command, keeps the aggregated table on screen and
re-renders when the data changes. CSV sources are reloaded when the files
change; database sources are polled.

Keys:
  l log scale    e error bars   f fit model    m measure
  s sort field   S sort order   t layout       r refresh
  p pause        h help         q quit`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().IntVar(&watchRefreshRate, "refresh-rate", 30,
		"Data refresh rate in seconds for database sources")
	watchCmd.Flags().Float64Var(&watchRefreshPerSecond, "refresh-per-second", 1,
		"Display refresh rate (0.1-20 Hz)")
	watchCmd.Flags().StringVar(&watchTimezone, "timezone", "Local",
		"Timezone for the last update time (e.g., UTC, Europe/Berlin)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	// the terminal belongs to the dashboard, so logs only go to the file
	if err := initLogging(false); err != nil {
		return err
	}

	if watchRefreshPerSecond < 0.1 || watchRefreshPerSecond > 20 {
		return fmt.Errorf("refresh-per-second must be between 0.1 and 20")
	}
	if watchRefreshRate < 1 {
		return fmt.Errorf("refresh-rate must be at least 1 second")
	}

	if err := util.InitializeTimeProvider(watchTimezone); err != nil {
		return err
	}

	config := dashboardConfig()
	config.DataRefreshInterval = time.Duration(watchRefreshRate) * time.Second
	config.UIRefreshRate = watchRefreshPerSecond

	orchestrator, err := dashboard.NewOrchestrator(config, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return orchestrator.Run(ctx)
}
