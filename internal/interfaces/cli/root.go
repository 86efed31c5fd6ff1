// Package cli implements the stk command line interface.
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrewtarzia/stk/internal/config"
	"github.com/andrewtarzia/stk/internal/infrastructure/monitoring/logging"
)

var (
	cfgFile string
	cfg     *config.Config
	log     logging.Logger = logging.NewNop()
)

// NewRootCmd builds the stk command tree.
func NewRootCmd(version, commit, date string) *cobra.Command {
	root := &cobra.Command{
		Use:           "stk",
		Short:         "Assemble 3D molecules on topology graphs",
		Long:          "stk places building blocks on the vertices and edges of cage topology\ngraphs, bonds them by nearest-distance pairing and emits the final\nmolecule with placeholders substituted back to real chemistry.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			log, err = logging.New(logging.Config{
				Level:       cfg.Log.Level,
				Format:      cfg.Log.Format,
				Development: cfg.Log.Development,
			})
			if err != nil {
				return err
			}
			logging.SetDefault(log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: built-in defaults plus STK_* env)")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newBatchCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newVersionCmd(version, commit, date))
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute(version, commit, date string) {
	if err := NewRootCmd(version, commit, date).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// printTable writes aligned key/value rows to stdout.
func printTable(rows [][2]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\n", r[0], r[1])
	}
	w.Flush()
}
