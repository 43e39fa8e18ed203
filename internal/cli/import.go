package cli

import (
	"github.com/spf13/cobra"

	"github.com/BartekS5/soundope-import/internal/source"
)

type ImportOptions struct {
	File        string
	Target      string
	MappingFile string
	ReportPath  string
	DryRun      bool
	Verbose     bool
}

func NewImportCmd() *cobra.Command {
	opts := &ImportOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import soundope export files",
	}

	cmd.PersistentFlags().StringVarP(&opts.File, "file", "f", "", "Path to the export file")
	cmd.PersistentFlags().StringVarP(&opts.Target, "target", "t", "", "Target store: postgres, sqlserver, sqlite or mongo (default $IMPORT_TARGET)")
	cmd.PersistentFlags().StringVar(&opts.ReportPath, "report", "", "Error report path (default <file>_errors.json next to the input)")
	cmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Read and resolve records without writing to the target")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log every record")
	_ = cmd.MarkPersistentFlagRequired("file")

	tracks := &cobra.Command{
		Use:   "tracks",
		Short: "Import a tracks CSV or XLSX export",
		RunE: func(c *cobra.Command, args []string) error {
			return runImport(c.Context(), c.OutOrStdout(), opts, source.KindTracks)
		},
	}
	tracks.Flags().StringVarP(&opts.MappingFile, "mapping", "m", "", "Path to a column mapping file (JSON or YAML)")

	users := &cobra.Command{
		Use:   "users",
		Short: "Import a users JSON export with tracks, comments and feedback",
		RunE: func(c *cobra.Command, args []string) error {
			return runImport(c.Context(), c.OutOrStdout(), opts, source.KindBundles)
		},
	}

	cmd.AddCommand(tracks, users)
	return cmd
}
