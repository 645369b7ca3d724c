package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/output"
)

func newClearCmd() *cobra.Command {
	var (
		layer string
		all   bool
	)

	cmd := &cobra.Command{
		Use:     "clear <file>",
		Short:   "Remove bookmarks from a layer",
		GroupID: GroupMarks,
		Args:    cobra.ExactArgs(1),
		Long: `Remove every bookmark from a layer of a file.

Without flags the active layer is cleared. With --all every layer is
cleared and the active layer stays the same. When no marks are left and
cleanup_on_close is enabled, the cache record is deleted.`,
		Example: `  bb clear main.go              # Clear the active layer
  bb clear main.go --layer bug  # Clear the bug layer
  bb clear main.go --all        # Clear every layer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}

			return mutate(ctx, s, func() error {
				if all {
					s.ClearAll()
					out.Println("Cleared all layers")
					return nil
				}
				target := layer
				if target == "" {
					target = s.Current()
				}
				s.ClearMarks(target)
				out.Printf("Cleared %s\n", target)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&layer, "layer", "l", "", "Layer to clear (default: active layer)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Clear every layer")
	cmd.MarkFlagsMutuallyExclusive("layer", "all")
	cmd.RegisterFlagCompletionFunc("layer", completeLayers)

	return cmd
}
