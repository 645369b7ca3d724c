package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/output"
)

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "swap <file> <next|prev>",
		Short:   "Switch to the next or previous layer",
		GroupID: GroupMarks,
		Args:    cobra.ExactArgs(2),
		Long: `Switch the active layer of a file to the next or previous configured
layer. The order wraps around at both ends.`,
		Example: `  bb swap main.go next
  bb swap main.go prev`,
		ValidArgsFunction: completeSwap,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}
			r := attachGutter(s)

			err = mutate(ctx, s, func() error {
				name, err := s.SwapLayer(args[1])
				if err != nil {
					return err
				}
				out.Println(name)
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
