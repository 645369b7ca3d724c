package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDataDir_Env(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")
	t.Setenv(HomeEnv, dir)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if got != dir {
		t.Errorf("DataDir() = %q, want %q", got, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("DataDir() should create %s", dir)
	}
}

func TestDataDir_Default(t *testing.T) {
	home := t.TempDir()
	t.Setenv(HomeEnv, "")
	t.Setenv("HOME", home)

	got, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error: %v", err)
	}
	if want := filepath.Join(home, ".bb"); got != want {
		t.Errorf("DataDir() = %q, want %q", got, want)
	}
}

func TestWriteAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "cache", "abc.json")

	if err := WriteAtomic(path, []byte("first")); err != nil {
		t.Fatalf("WriteAtomic() error: %v", err)
	}
	if err := WriteAtomic(path, []byte("second")); err != nil {
		t.Fatalf("WriteAtomic() overwrite error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestWriteAtomic_ParentIsFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := WriteAtomic(filepath.Join(blocker, "abc.json"), []byte("x")); err == nil {
		t.Error("WriteAtomic() under a regular file should fail")
	}
}

func TestSaveJSON_Indented(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rec.json")
	marks := map[string][][2]int{"bug": {{10, 15}}}

	if err := SaveJSON(path, marks); err != nil {
		t.Fatalf("SaveJSON() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"bug\": [\n    [\n      10,\n      15\n    ]\n  ]\n}"
	if string(data) != want {
		t.Errorf("SaveJSON() wrote\n%s\nwant\n%s", data, want)
	}
}

func TestSaveJSON_Unencodable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rec.json")
	if err := SaveJSON(path, map[string]any{"f": func() {}}); err == nil {
		t.Error("SaveJSON() should fail for unencodable values")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("nothing should be written when encoding fails")
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rec.json")
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Remove(path); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be gone")
	}
	if err := Remove(path); err != nil {
		t.Errorf("Remove() of a missing file = %v, want nil", err)
	}
}
