package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/output"
)

func newMarkCmd() *cobra.Command {
	var (
		layer   string
		regions []string
	)

	cmd := &cobra.Command{
		Use:     "mark <file> [line...]",
		Short:   "Toggle bookmarks on lines or regions",
		Aliases: []string{"m"},
		GroupID: GroupMarks,
		Args:    cobra.MinimumNArgs(1),
		Long: `Toggle bookmarks on lines or regions of a file.

Lines are 1-based. Regions are byte offsets "start:end" (or a single offset).
With toggle_mode "by_line", marking a line that already has a mark on the
same line removes it. With "by_region", only an identical region is removed.

Without --layer the active layer is used. Unknown layers are created.`,
		Example: `  bb mark main.go 12               # Toggle line 12 on the active layer
  bb mark main.go 12 40 41         # Toggle several lines
  bb mark main.go 7 --layer bug    # Toggle line 7 on the bug layer
  bb mark main.go --region 120:145 # Toggle a region`,
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if len(args) == 1 && len(regions) == 0 {
				return fmt.Errorf("nothing to mark: pass line numbers or --region")
			}

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}

			// Validate everything before touching the cache
			var lines []int
			for _, arg := range args[1:] {
				line, err := parseLine(arg, s.Lines())
				if err != nil {
					return err
				}
				lines = append(lines, line)
			}
			var ivs []bookmark.Interval
			for _, r := range regions {
				iv, err := bookmark.ParseInterval(r)
				if err != nil {
					return err
				}
				ivs = append(ivs, iv)
			}

			return mutate(ctx, s, func() error {
				target := layer
				if target == "" {
					target = s.Current()
				}
				for _, line := range lines {
					verb := toggleVerb(s.MarkLine(line, target))
					out.Printf("%s line %d [%s]\n", verb, line+1, target)
				}
				for _, iv := range ivs {
					verb := toggleVerb(s.MarkRegion(iv, target))
					out.Printf("%s %s [%s]\n", verb, iv, target)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&layer, "layer", "l", "", "Layer to mark (default: active layer)")
	cmd.Flags().StringArrayVarP(&regions, "region", "r", nil, "Region start:end in byte offsets (repeatable)")
	cmd.RegisterFlagCompletionFunc("layer", completeLayers)

	return cmd
}

func toggleVerb(added bool) string {
	if added {
		return "Marked"
	}
	return "Unmarked"
}
