package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/output"
	"github.com/raphi011/bb/internal/ui/static"
)

// layerInfo is the json/yaml shape of one row of 'bb layers'.
type layerInfo struct {
	Name   string `json:"name" yaml:"name"`
	Icon   string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Scope  string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Marks  int    `json:"marks" yaml:"marks"`
	Active bool   `json:"active" yaml:"active"`
}

func newLayersCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "layers [file]",
		Short:   "List configured layers",
		GroupID: GroupConfig,
		Args:    cobra.MaximumNArgs(1),
		Long: `List the configured layers in swap order.

Without a file the global config is shown and the default layer is marked
active. With a file the effective config (including .bb.toml) is used, the
file's cached marks are counted and its active layer is marked.`,
		Example: `  bb layers
  bb layers main.go
  bb layers main.go -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if err := config.ValidateFormat(format); err != nil {
				return err
			}

			var infos []layerInfo
			if len(args) == 0 {
				cfg := config.ResolverFromContext(ctx).Global()
				for _, l := range cfg.Layers {
					if !l.IsEnabled() {
						continue
					}
					infos = append(infos, layerInfo{
						Name:   l.Name,
						Icon:   l.Icon,
						Scope:  l.Scope,
						Active: l.Name == cfg.DefaultLayer,
					})
				}
			} else {
				s, err := openSession(ctx, args[0])
				if err != nil {
					return err
				}
				s.Load()
				for _, item := range layerItems(s) {
					infos = append(infos, layerInfo(item))
				}
			}
			if infos == nil {
				infos = []layerInfo{}
			}

			if handled, err := out.Encode(format, infos); handled || err != nil {
				return err
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				row := static.LayerTableRow(config.Layer{Name: info.Name, Icon: info.Icon, Scope: info.Scope}, info.Active, info.Marks)
				if len(args) == 0 {
					row[len(row)-1] = "-"
				}
				rows = append(rows, row)
			}
			out.Print(static.RenderTable(static.LayerHeaders, rows))
			return nil
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}
