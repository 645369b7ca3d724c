package main

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/output"
	"github.com/raphi011/bb/internal/session"
	"github.com/raphi011/bb/internal/ui/picker"
)

func newLayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "layer <file> [name]",
		Short:   "Show or change the active layer",
		GroupID: GroupMarks,
		Args:    cobra.RangeArgs(1, 2),
		Long: `Show or change the active layer of a file.

With a name, that layer becomes active. Names that are not configured
create a new layer for this file. Without a name, an interactive picker is
shown when stdin is a terminal; otherwise the active layer is printed.`,
		Example: `  bb layer main.go        # Pick a layer interactively
  bb layer main.go todo   # Activate the todo layer
  bb layer main.go < /dev/null  # Print the active layer`,
		ValidArgsFunction: completeFileThenLayer,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}
			r := attachGutter(s)

			var name string
			if len(args) == 2 {
				name = args[1]
			} else {
				s.Load()
				if !isInteractive() {
					out.Println(s.Current())
					return nil
				}
				name, err = picker.Run("Switch layer", layerItems(s))
				if errors.Is(err, picker.ErrCancelled) {
					return nil
				}
				if err != nil {
					return err
				}
			}

			err = mutate(ctx, s, func() error {
				s.ChangeLayer(name)
				out.Println(s.Current())
				return nil
			})
			if err != nil {
				return err
			}

			announce(ctx, r)
			return nil
		},
	}

	return cmd
}

// isInteractive reports whether stdin is a terminal. Tests replace it.
var isInteractive = func() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// layerItems lists the session's layers for the picker.
func layerItems(s *session.Session) []picker.Item {
	store := s.Store()
	var items []picker.Item
	for _, name := range store.Layers() {
		l, _ := s.Config().Layer(name)
		items = append(items, picker.Item{
			Name:   name,
			Icon:   l.Icon,
			Scope:  l.Scope,
			Marks:  store.Layer(name).Len(),
			Active: name == store.Current(),
		})
	}
	return items
}
