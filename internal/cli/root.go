// Package cli implements the docpager command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "docpager",
		Short: "Split flattened documents back into pages",
		Long: `docpager rebuilds per-page markup and tree JSON for a document whose page
structure was lost during conversion. It uses explicit page breaks when the
source has them, rendered page text when a renderer is available, and an even
split otherwise.`,
		SilenceUsage: true,
	}
	root.AddCommand(newPaginateCmd(), newConvertCmd())
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}
