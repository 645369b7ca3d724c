package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raphi011/bb/internal/bookmark"
	"github.com/raphi011/bb/internal/cache"
	"github.com/raphi011/bb/internal/config"
	"github.com/raphi011/bb/internal/log"
	"github.com/raphi011/bb/internal/output"
	"github.com/raphi011/bb/internal/session"
	"github.com/raphi011/bb/internal/ui/gutter"
)

// openSession opens file with its effective config: the global config
// merged with the nearest .bb.toml. Marks are not loaded yet.
func openSession(ctx context.Context, file string) (*session.Session, error) {
	l := log.FromContext(ctx)
	resolver := config.ResolverFromContext(ctx)

	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	cfg, err := resolver.ConfigForFile(abs)
	if err != nil {
		l.Warnf("%v (using global config)", err)
		cfg = resolver.Global()
	}

	return session.Open(ctx, cfg, abs, session.Options{})
}

// attachGutter renders the session's marks on a gutter renderer configured
// from the session's effective config.
func attachGutter(s *session.Session) *gutter.Renderer {
	r := gutter.New(s.Config())
	s.Store().SetRenderer(r)
	return r
}

// mutate loads the session's marks under the cache lock, applies fn and
// persists the result. Lock and cache failures are logged, not returned.
func mutate(ctx context.Context, s *session.Session, fn func() error) error {
	l := log.FromContext(ctx)

	unlock, err := cache.Lock(s.CacheDir())
	if err != nil {
		l.Warnf("%v", err)
		unlock = func() {}
	}
	defer unlock()

	s.Load()
	if err := fn(); err != nil {
		return err
	}
	s.Persist()
	return nil
}

// announce prints the renderer's pending temporary layer message.
func announce(ctx context.Context, r *gutter.Renderer) {
	if msg := r.Flash(); msg != "" {
		log.FromContext(ctx).Println(msg)
	}
}

// parseLine converts a 1-based line argument to a 0-based line in range.
func parseLine(arg string, lines *bookmark.LineIndex) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid line %q: must be a number", arg)
	}
	if n < 1 || n > lines.LineCount() {
		return 0, fmt.Errorf("line %d out of range (file has %d lines)", n, lines.LineCount())
	}
	return n - 1, nil
}

// addFormatFlag registers --format/-o on cmd.
func addFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "format", "o", output.FormatText, "Output format: text, json or yaml")
	cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(config.ValidFormats, cobra.ShellCompDirectiveNoFileComp))
}

// globalCacheDir resolves the cache directory of the global config.
func globalCacheDir(ctx context.Context) (string, error) {
	return config.ResolverFromContext(ctx).Global().ResolveCacheDir()
}
