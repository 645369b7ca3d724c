package main

import (
	"slices"
	"testing"

	"github.com/raphi011/bb/internal/bookmark"
)

func TestParseLine(t *testing.T) {
	t.Parallel()

	lines := bookmark.NewLineIndex([]byte("a\nb\nc"))
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{"1", 0, false},
		{"3", 2, false},
		{"0", 0, true},
		{"4", 0, true},
		{"-1", 0, true},
		{"two", 0, true},
	}

	for _, tt := range tests {
		got, err := parseLine(tt.arg, lines)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseLine(%q) error = %v, wantErr %v", tt.arg, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseLine(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestMarkedText(t *testing.T) {
	t.Parallel()

	text := []byte("alpha\nbeta\n")
	lines := bookmark.NewLineIndex(text)
	marks := []bookmark.Interval{
		{Start: 6, End: 10}, // beta
		{Start: 2, End: 2},  // point on line 1
		{Start: 8, End: 99}, // clamped
	}

	got := markedText(text, lines, marks)
	want := []string{"beta", "alpha", "ta\n"}
	if !slices.Equal(got, want) {
		t.Errorf("markedText() = %q, want %q", got, want)
	}
}
