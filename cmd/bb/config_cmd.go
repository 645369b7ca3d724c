package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage bb configuration.

Global config: ~/.bb/config.toml (or $BB_CONFIG)
Local config:  .bb.toml (nearest parent directory of the file)`,
		Example: `  bb config init          # Create default global config
  bb config init --local  # Create .bb.toml in the current directory
  bb config show          # Show global config
  bb config show main.go  # Show effective config for a file`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Long: `Create default config file.

Without flags, creates the global config at ~/.bb/config.toml.
With --local, creates a project config at .bb.toml in the current directory.`,
		Example: `  bb config init           # Create global config
  bb config init --local   # Create project config
  bb config init -f        # Overwrite existing config
  bb config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			content := config.DefaultConfig()
			if local {
				content = config.DefaultLocalConfig()
			}
			if stdout {
				out.Print(content)
				return nil
			}

			if !local {
				path, err := config.Init(force)
				if err != nil {
					return err
				}
				l.Printf("Created config file: %s\n", path)
				return nil
			}

			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			path := filepath.Join(wd, config.LocalConfigFileName)
			if !force {
				if _, err := os.Stat(path); err == nil {
					return fmt.Errorf("local config already exists: %s (use -f to overwrite)", path)
				}
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return err
			}
			l.Printf("Created local config: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Create project .bb.toml instead of global config")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show [file]",
		Short: "Show effective configuration",
		Args:  cobra.MaximumNArgs(1),
		Long: `Show the effective configuration as TOML.

With a file, the nearest .bb.toml above it is merged into the global config
and both sources are listed. --format json|yaml prints the merged config in
that format instead.`,
		Example: `  bb config show
  bb config show main.go
  bb config show -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			resolver := config.ResolverFromContext(ctx)

			if err := config.ValidateFormat(format); err != nil {
				return err
			}

			cfg := resolver.Global()
			var local *config.LocalConfig
			if len(args) == 1 {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				if local, err = config.FindLocal(filepath.Dir(abs)); err != nil {
					return err
				}
				if cfg, err = resolver.ConfigForFile(abs); err != nil {
					return err
				}
			}

			if handled, err := out.Encode(format, cfg); handled || err != nil {
				return err
			}

			globalPath, err := config.Path()
			if err != nil {
				globalPath = "(unknown)"
			}
			out.Printf("# Global config: %s\n", globalPath)
			if len(args) == 1 {
				if local != nil {
					out.Printf("# Local config:  %s\n", filepath.Join(local.Dir, config.LocalConfigFileName))
				} else {
					out.Printf("# Local config:  (none)\n")
				}
			}
			out.Println()

			return toml.NewEncoder(out.Writer()).Encode(cfg)
		},
	}

	addFormatFlag(cmd, &format)

	return cmd
}
