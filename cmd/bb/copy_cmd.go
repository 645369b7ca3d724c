package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
)

func newCopyCmd() *cobra.Command {
	var (
		layer    string
		toStdout bool
	)

	cmd := &cobra.Command{
		Use:     "copy <file>",
		Short:   "Copy marked text to the clipboard",
		Aliases: []string{"cp"},
		GroupID: GroupMarks,
		Args:    cobra.ExactArgs(1),
		Long: `Copy the text of every mark on a layer to the clipboard, one mark per
line, in the order the marks were made. Point marks copy their whole line.`,
		Example: `  bb copy main.go
  bb copy main.go --layer todo
  bb copy main.go -p | grep TODO`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}
			s.Load()

			name := layer
			if name == "" {
				name = s.Current()
			}
			texts := markedText(s.Text(), s.Lines(), s.Store().Layer(name).Intervals())
			if len(texts) == 0 {
				return fmt.Errorf("no marks on layer %s", name)
			}
			joined := strings.Join(texts, "\n")

			if toStdout {
				out.Println(joined)
				return nil
			}
			if err := clipboard.WriteAll(joined); err != nil {
				return fmt.Errorf("copy to clipboard: %w", err)
			}
			l.Printf("Copied %d marks from %s\n", len(texts), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&layer, "layer", "l", "", "Layer to copy (default: active layer)")
	cmd.Flags().BoolVarP(&toStdout, "print", "p", false, "Print to stdout instead of the clipboard")
	cmd.RegisterFlagCompletionFunc("layer", completeLayers)

	return cmd
}

// markedText returns the text under each mark, clamped to text.
// Empty marks expand to their line.
func markedText(text []byte, lines *bookmark.LineIndex, marks []bookmark.Interval) []string {
	var texts []string
	for _, iv := range marks {
		if iv.IsEmpty() {
			iv = lines.SpanOf(iv.Start)
		}
		start := min(max(iv.Start, 0), len(text))
		end := min(max(iv.End, start), len(text))
		texts = append(texts, string(text[start:end]))
	}
	return texts
}
