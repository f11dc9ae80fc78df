package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/pipeline"
	"github.com/penwyp/go-pkviz/internal/presentation/formatter"
	"github.com/spf13/cobra"
)

var (
	// Options command flags
	optionsJSON bool
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the dependent filter choices for the current selection",
	Long: `Runs the filter cascade for the selected table and prints, per level,
the values that remain available and the values that stay selected.`,
	RunE: runOptions,
}

type optionsOutput struct {
	Status   string             `json:"status,omitempty"`
	Controls []pipeline.Control `json:"controls"`
}

func init() {
	rootCmd.AddCommand(optionsCmd)

	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false,
		"Print the controls as JSON")
}

func runOptions(cmd *cobra.Command, args []string) error {
	if err := initLogging(true); err != nil {
		return err
	}

	session, closeFn, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	controls, _, err := session.Options()
	result := optionsOutput{Controls: controls}
	if err != nil {
		result.Status = dashboard.StatusFor(err)
	}
	if result.Controls == nil {
		result.Controls = []pipeline.Control{}
	}

	if optionsJSON {
		if err := formatter.WriteJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		printControls(cmd.OutOrStdout(), result.Controls)
	}

	if result.Status != "" {
		return errors.New(result.Status)
	}
	return nil
}

func printControls(w io.Writer, controls []pipeline.Control) {
	for _, c := range controls {
		selected := "all"
		if len(c.Selected) > 0 {
			selected = strings.Join(c.Selected, ", ")
		}
		fmt.Fprintf(w, "%-12s [%s] of %s\n", c.Dimension, selected, strings.Join(c.Choices, ", "))
	}
}
