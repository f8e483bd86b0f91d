package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgallion1/docpager/internal/config"
	"github.com/dgallion1/docpager/internal/pipeline"
	"github.com/spf13/cobra"
)

func newPaginateCmd() *cobra.Command {
	var (
		outDir   string
		asJSON   bool
		noRender bool
		verbose  bool
	)
	cmd := &cobra.Command{
		Use:   "paginate <file>",
		Short: "Split a document into pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if noRender {
				cfg.RenderEnabled = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			res, err := pipeline.NewProcessor(cfg, log).ProcessFile(cmd.Context(), filepath.Base(path), data, nil)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := writePages(outDir, res); err != nil {
					return err
				}
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetEscapeHTML(false)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			writeSummary(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Write page-N.html and page-N.json files to this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")
	cmd.Flags().BoolVar(&noRender, "no-render", false, "Skip the external renderer")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress")
	return cmd
}

func writePages(dir string, res *pipeline.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, p := range res.Pages {
		base := filepath.Join(dir, fmt.Sprintf("page-%d", p.Number))
		if err := os.WriteFile(base+".html", []byte(p.Markup), 0o644); err != nil {
			return err
		}
		if err := os.WriteFile(base+".json", []byte(p.TreeJSON), 0o644); err != nil {
			return err
		}
	}
	return nil
}
