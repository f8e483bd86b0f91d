package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpager/internal/convert"
	"github.com/dgallion1/docpager/internal/doctree"
	"github.com/spf13/cobra"
)

func newConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert tree JSON to markup, or markup to tree JSON",
		Long: `convert reads a .json tree and prints markup with inferred headings, or
reads .html markup and prints the indented tree. Use - to read a tree from
stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var data []byte
			var err error
			if path == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch strings.ToLower(filepath.Ext(path)) {
			case ".html", ".htm":
				tree, err := convert.FromMarkup(string(data))
				if err != nil {
					return err
				}
				js, err := doctree.EncodeIndent(tree)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, js)
				return err
			default:
				tree, err := doctree.Decode(data)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, convert.ToMarkup(tree))
				return err
			}
		},
	}
}
