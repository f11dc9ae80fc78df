package commands

import (
	"errors"

	"github.com/penwyp/go-pkviz/internal/application/dashboard"
	"github.com/penwyp/go-pkviz/internal/data/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export [destination]",
	Short: "Write the filtered records as CSV",
	Long: `Exports the records that pass the current filters, one row per record,
in the column order of the source table.

The destination is a file path, "-" for stdout (the default) or an
s3://bucket/key URL. S3 uploads take the region and endpoint from
PKVIZ_S3_REGION, PKVIZ_S3_ENDPOINT and PKVIZ_S3_PATH_STYLE and the
credentials from the usual AWS sources.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := initLogging(true); err != nil {
		return err
	}

	dest := "-"
	if len(args) == 1 {
		dest = args[0]
	}

	session, closeFn, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	table, err := session.Filtered()
	if err != nil {
		return errors.New(dashboard.StatusFor(err))
	}

	var sink export.Sink
	if dest == "-" {
		sink = export.NewWriterSink(cmd.OutOrStdout(), "stdout")
	} else {
		if sink, err = export.Open(cmd.Context(), dest); err != nil {
			return err
		}
	}
	return export.Table(cmd.Context(), sink, table)
}
