package main

import (
	"io"
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
	"github.com/raphi011/bb/internal/session"
)

func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hook",
		Short:   "Run editor lifecycle hooks",
		GroupID: GroupHooks,
		Long: `Run the hooks an editor integration calls when a file is opened, saved
or closed. Each hook honours its config switch:

  load   autoload          restore cached marks
  save   autosave          write marks (only when there are any)
  close  cache_on_close    write marks before closing
         cleanup_on_close  delete the record when no marks are left`,
		Example: `  bb hook load main.go
  bb hook save main.go
  bb hook close main.go`,
	}

	cmd.AddCommand(newHookLoadCmd())
	cmd.AddCommand(newHookSaveCmd())
	cmd.AddCommand(newHookCloseCmd())

	return cmd
}

func newHookLoadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file>",
		Short: "Restore cached marks and print the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			s, err := openSession(ctx, args[0])
			if err != nil {
				return err
			}
			r := attachGutter(s)
			s.OnLoad()

			w := colorprofile.NewWriter(out.Writer(), os.Environ())
			if _, err := io.WriteString(w, r.View(s.Text(), s.Lines())); err != nil {
				return err
			}
			announce(ctx, r)
			return nil
		},
	}
}

func newHookSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save <file>",
		Short: "Write cached marks if autosave is enabled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, args[0], (*session.Session).OnSave)
		},
	}
}

func newHookCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <file>",
		Short: "Apply cache_on_close and cleanup_on_close",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHook(cmd, args[0], (*session.Session).OnClose)
		},
	}
}

// runHook loads the cached marks of file under the cache lock and runs hook.
func runHook(cmd *cobra.Command, file string, hook func(*session.Session)) error {
	ctx := cmd.Context()
	l := log.FromContext(ctx)

	s, err := openSession(ctx, file)
	if err != nil {
		return err
	}

	unlock, err := cache.Lock(s.CacheDir())
	if err != nil {
		l.Warnf("%v", err)
		unlock = func() {}
	}
	defer unlock()

	s.Load()
	hook(s)
	return nil
}
