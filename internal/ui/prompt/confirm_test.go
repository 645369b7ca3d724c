package prompt

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

var (
	ctrlC = tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	esc   = tea.KeyPressMsg{Code: tea.KeyEscape}
)

func char(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// feed sends keys to a fresh model and returns the final model and the
// command returned by the last key.
func feed(keys ...tea.KeyPressMsg) (confirmModel, tea.Cmd) {
	var m tea.Model = confirmModel{prompt: "Delete 2 stale records?"}
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = m.Update(k)
	}
	return m.(confirmModel), cmd
}

func TestConfirmModel_Answers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		keys []tea.KeyPressMsg
		want ConfirmResult
	}{
		{"yes", []tea.KeyPressMsg{char('y')}, ConfirmResult{Confirmed: true}},
		{"upper yes", []tea.KeyPressMsg{char('Y')}, ConfirmResult{Confirmed: true}},
		{"no", []tea.KeyPressMsg{char('n')}, ConfirmResult{}},
		{"enter means no", []tea.KeyPressMsg{enter}, ConfirmResult{}},
		{"other keys are ignored", []tea.KeyPressMsg{char('x'), char('1'), char('y')}, ConfirmResult{Confirmed: true}},
		{"ctrl+c", []tea.KeyPressMsg{ctrlC}, ConfirmResult{Cancelled: true}},
		{"esc", []tea.KeyPressMsg{esc}, ConfirmResult{Cancelled: true}},
		{"q", []tea.KeyPressMsg{char('q')}, ConfirmResult{Cancelled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, cmd := feed(tt.keys...)
			if !m.done {
				t.Fatal("prompt should be answered")
			}
			if cmd == nil {
				t.Error("answering should quit the program")
			}
			got := ConfirmResult{Confirmed: m.confirmed, Cancelled: m.cancelled}
			if got != tt.want {
				t.Errorf("result = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfirmModel_Unanswered(t *testing.T) {
	t.Parallel()

	m, cmd := feed(char('x'))
	if m.done || cmd != nil {
		t.Errorf("unrelated key should keep waiting, done=%v cmd=%v", m.done, cmd != nil)
	}
	if m.Init() != nil {
		t.Error("Init() should not schedule anything")
	}
}

func TestConfirmModel_View(t *testing.T) {
	t.Parallel()

	m, _ := feed()
	view := ansi.Strip(m.View().Content)
	if !strings.HasPrefix(view, "Delete 2 stale records?") || !strings.Contains(view, "[y/N]") {
		t.Errorf("View() = %q", view)
	}

	answered, _ := feed(char('y'))
	if got := answered.View().Content; got != "" {
		t.Errorf("View() after answering = %q, want empty", got)
	}
}
