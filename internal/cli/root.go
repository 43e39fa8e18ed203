// Package cli wires the importer commands using the Cobra library.
package cli

import (
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "soundope-import",
		Short: "soundope-import - bulk import of soundope exports into a database",
		Long: `soundope-import copies soundope exports (tracks CSV/XLSX files and users JSON
exports) into Postgres, SQL Server, SQLite or MongoDB. Records are written one at a
time with idempotent upserts, so re-running an import is always safe.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.AddCommand(NewImportCmd())

	return rootCmd
}
