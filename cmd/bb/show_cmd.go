package main

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/output"
)

func newShowCmd() *cobra.Command {
	var (
		layer  string
		format string
	)

	cmd := &cobra.Command{
		Use:     "show <file>",
		Short:   "Print a file with its bookmarks",
		Aliases: []string{"s"},
		GroupID: GroupMarks,
		Args:    cobra.ExactArgs(1),
		Long: `Print a file with the active layer's bookmarks in a gutter column.

Marked lines carry the layer icon and marked text is highlighted in the
layer's colour. With layer_status "permanent" the active layer is shown
below the file. --layer shows another layer without changing the active
one. --format json|yaml prints the cache record instead.`,
		Example: `  bb show main.go
  bb show main.go --layer bug
  bb show main.go -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if err := config.ValidateFormat(format); err != nil {
				return err
			}

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}
			r := attachGutter(s)
			s.Load()
			if layer != "" {
				s.ChangeLayer(layer)
			}

			if handled, err := out.Encode(format, s.Record()); handled || err != nil {
				return err
			}

			// Downsample colours for the terminal, strip them when piped
			w := colorprofile.NewWriter(out.Writer(), os.Environ())
			_, err = io.WriteString(w, r.View(s.Text(), s.Lines()))
			return err
		},
	}

	cmd.Flags().StringVarP(&layer, "layer", "l", "", "Layer to show (default: active layer)")
	addFormatFlag(cmd, &format)
	cmd.RegisterFlagCompletionFunc("layer", completeLayers)

	return cmd
}
