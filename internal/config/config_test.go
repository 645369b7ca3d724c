package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/bb/internal/bookmark"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.DefaultLayer != bookmark.DefaultLayer {
		t.Errorf("default_layer = %q, want %q", cfg.DefaultLayer, bookmark.DefaultLayer)
	}
	if cfg.Mode() != bookmark.ByLine {
		t.Errorf("Mode() = %q, want by_line", cfg.Mode())
	}
	if !cfg.Autoload || !cfg.Autosave || !cfg.CleanupOnClose {
		t.Error("autoload, autosave and cleanup_on_close should default to true")
	}
	if cfg.CacheOnClose || cfg.SaveEmptyLayers {
		t.Error("cache_on_close and save_empty_layers should default to false")
	}
	if !cfg.HasStatus(StatusPermanent) {
		t.Error("expected permanent layer status by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestDefault_LayersNotShared(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Layers[0].Icon = "x"

	if DefaultLayers[0].Icon == "x" {
		t.Error("Default() must copy DefaultLayers")
	}
}

func TestDefaultConfigIsValidTOML(t *testing.T) {
	t.Parallel()

	var raw map[string]any
	if _, err := toml.Decode(DefaultConfig(), &raw); err != nil {
		t.Fatalf("default config is not valid TOML: %v", err)
	}

	cfg, err := Parse([]byte(DefaultConfig()))
	if err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if got := cfg.LayerNames(); len(got) != 3 || got[0] != "bookmarks" {
		t.Errorf("LayerNames() = %v", got)
	}
}

func TestDefaultLocalConfigIsValidTOML(t *testing.T) {
	t.Parallel()

	var local LocalConfig
	if _, err := toml.Decode(DefaultLocalConfig(), &local); err != nil {
		t.Fatalf("default local config is not valid TOML: %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		data        string
		wantErr     bool
		wantDefault string
		wantLayers  []string
		wantMode    bookmark.ToggleMode
	}{
		{
			name:        "empty",
			data:        "",
			wantDefault: "bookmarks",
			wantLayers:  []string{"bookmarks", "todo", "bug"},
			wantMode:    bookmark.ByLine,
		},
		{
			name: "custom layers without default",
			data: `
[[layers]]
name = "bug"
[[layers]]
name = "todo"
`,
			wantDefault: "bug",
			wantLayers:  []string{"bug", "todo"},
			wantMode:    bookmark.ByLine,
		},
		{
			name: "custom layers with default",
			data: `
default_layer = "todo"
toggle_mode = "by_region"
[[layers]]
name = "bug"
[[layers]]
name = "todo"
`,
			wantDefault: "todo",
			wantLayers:  []string{"bug", "todo"},
			wantMode:    bookmark.ByRegion,
		},
		{
			name: "disabled first layer",
			data: `
[[layers]]
name = "bug"
enabled = false
[[layers]]
name = "todo"
`,
			wantDefault: "todo",
			wantLayers:  []string{"todo"},
			wantMode:    bookmark.ByLine,
		},
		{
			name:    "invalid toggle mode",
			data:    `toggle_mode = "by_word"`,
			wantErr: true,
		},
		{
			name:    "unknown default layer",
			data:    `default_layer = "nope"`,
			wantErr: true,
		},
		{
			name:    "relative cache dir",
			data:    `cache_dir = "cache"`,
			wantErr: true,
		},
		{
			name:    "invalid layer status",
			data:    `layer_status = ["sidebar"]`,
			wantErr: true,
		},
		{
			name:    "bad ignore glob",
			data:    `ignore = ["[a-"]`,
			wantErr: true,
		},
		{
			name: "duplicate layer",
			data: `
[[layers]]
name = "bug"
[[layers]]
name = "bug"
`,
			wantErr: true,
		},
		{
			name:    "invalid toml",
			data:    `default_layer = `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := Parse([]byte(tt.data))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if cfg.DefaultLayer != bookmark.DefaultLayer {
					t.Errorf("invalid config should fall back to defaults, got default_layer %q", cfg.DefaultLayer)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.DefaultLayer != tt.wantDefault {
				t.Errorf("default_layer = %q, want %q", cfg.DefaultLayer, tt.wantDefault)
			}
			got := cfg.LayerNames()
			if len(got) != len(tt.wantLayers) {
				t.Fatalf("LayerNames() = %v, want %v", got, tt.wantLayers)
			}
			for i := range got {
				if got[i] != tt.wantLayers[i] {
					t.Errorf("LayerNames()[%d] = %q, want %q", i, got[i], tt.wantLayers[i])
				}
			}
			if cfg.Mode() != tt.wantMode {
				t.Errorf("Mode() = %q, want %q", cfg.Mode(), tt.wantMode)
			}
		})
	}
}

func TestLayerLookup(t *testing.T) {
	t.Parallel()

	cfg := Default()

	l, ok := cfg.Layer("bug")
	if !ok || l.Icon != "●" || l.Scope != "red" {
		t.Errorf("Layer(bug) = %+v, %v", l, ok)
	}

	l, ok = cfg.Layer("review")
	if ok {
		t.Error("expected unknown layer to report false")
	}
	if l.Name != "review" || l.Icon != "" {
		t.Errorf("placeholder layer = %+v", l)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	cfg, err := LoadFile(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if cfg.DefaultLayer != bookmark.DefaultLayer {
		t.Errorf("default_layer = %q", cfg.DefaultLayer)
	}

	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(`autosave = false`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Autosave {
		t.Error("autosave should be false")
	}
	if !cfg.Autoload {
		t.Error("autoload should keep its default")
	}
}

func TestLoad_ConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bb.toml")
	if err := os.WriteFile(path, []byte(`save_empty_layers = true`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigEnv, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.SaveEmptyLayers {
		t.Error("expected save_empty_layers from BB_CONFIG file")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv(ConfigEnv, path)

	got, err := Init(false)
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if got != path {
		t.Errorf("Init() = %q, want %q", got, path)
	}

	if _, err := Init(false); err == nil {
		t.Error("expected error when config already exists")
	}
	if _, err := Init(true); err != nil {
		t.Errorf("Init(force) error: %v", err)
	}
}

func TestResolveCacheDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(CacheDirEnv, "")
	t.Setenv("BB_HOME", "")

	cfg := Default()
	dir, err := cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".bb", "cache"); dir != want {
		t.Errorf("ResolveCacheDir() = %q, want %q", dir, want)
	}

	cfg.CacheDir = "~/marks"
	dir, err = cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, "marks"); dir != want {
		t.Errorf("ResolveCacheDir() = %q, want %q", dir, want)
	}

	t.Setenv(CacheDirEnv, "/srv/bb")
	dir, err = cfg.ResolveCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/srv/bb" {
		t.Errorf("ResolveCacheDir() = %q, want /srv/bb", dir)
	}
}

func TestIsIgnored(t *testing.T) {
	t.Parallel()

	cfg := Config{Ignore: []string{"*.log", "/tmp/**", "COMMIT_EDITMSG"}}

	tests := []struct {
		path string
		want bool
	}{
		{"/home/me/app.log", true},
		{"/home/me/app.go", false},
		{"/tmp/scratch/notes.txt", true},
		{"/home/me/tmp/notes.txt", false},
		{"/repo/.git/COMMIT_EDITMSG", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := cfg.IsIgnored(tt.path); got != tt.want {
				t.Errorf("IsIgnored(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		wantErr bool
	}{
		{"", false},
		{"~/cache", false},
		{"/var/cache/bb", false},
		{".", true},
		{"cache", true},
	}

	for _, tt := range tests {
		err := ValidatePath(tt.path, "cache_dir")
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestValidateEnum(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"", false},
		{"by_line", false},
		{"by_region", false},
		{"by_word", true},
	}

	for _, tt := range tests {
		err := validateEnum(tt.value, "toggle_mode", ValidToggleModes)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateEnum(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	for _, f := range ValidFormats {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v", f, err)
		}
	}
	if err := ValidateFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestFormatOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		opts []string
		want string
	}{
		{[]string{"a"}, `"a"`},
		{[]string{"a", "b"}, `"a" or "b"`},
		{[]string{"a", "b", "c"}, `"a", "b", or "c"`},
	}

	for _, tt := range tests {
		if got := formatOptions(tt.opts); got != tt.want {
			t.Errorf("formatOptions(%v) = %s, want %s", tt.opts, got, tt.want)
		}
	}
}

func TestResolverContext(t *testing.T) {
	t.Parallel()

	cfg := Default()
	r := NewResolver(&cfg)
	ctx := WithResolver(context.Background(), r)

	if got := ResolverFromContext(ctx); got != r {
		t.Error("ResolverFromContext should return the stored resolver")
	}
}
