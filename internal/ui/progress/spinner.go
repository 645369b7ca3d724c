// Package progress shows a spinner on stderr while bb waits on the
// filesystem, e.g. when prune checks every cache record.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/colorprofile"

	"github.com/raphi011/bb/internal/ui/styles"
)

// stopTimeout bounds how long Stop waits for the program to exit.
const stopTimeout = 500 * time.Millisecond

// messageUpdate replaces the spinner text.
type messageUpdate string

// Spinner runs an animated spinner until Stop is called.
type Spinner struct {
	out     io.Writer
	program *tea.Program
	msgs    chan string
	done    chan struct{}
	mu      sync.Mutex
	running bool
	message string
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	msgs    chan string
}

func (m spinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for the following message; a closed channel quits.
func (m spinnerModel) next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.msgs
		if !ok {
			return tea.Quit()
		}
		return messageUpdate(msg)
	}
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messageUpdate:
		m.message = string(msg)
		return m, m.next()
	case tea.KeyPressMsg:
		// The spinner never takes input; ctrl+c still has to work.
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() tea.View {
	if m.message == "" {
		return tea.NewView("")
	}
	return tea.NewView(fmt.Sprintf("%s %s", m.spinner.View(), styles.MutedStyle.Render(m.message)))
}

// NewSpinner creates a stopped spinner showing message on stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{out: os.Stderr, message: message}
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.AccentStyle

	s.msgs = make(chan string, 8)
	s.done = make(chan struct{})
	s.program = tea.NewProgram(spinnerModel{spinner: sp, message: s.message, msgs: s.msgs},
		tea.WithoutSignalHandler(),
		tea.WithOutput(s.out),
		tea.WithColorProfile(colorprofile.Detect(os.Stderr, os.Environ())),
	)
	s.running = true

	done := s.done
	program := s.program
	go func() {
		_, _ = program.Run()
		close(done)
	}()
}

// Message returns the text shown next to the spinner.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Update replaces the spinner text. Updates are dropped while the program
// is busy rather than blocking the caller.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.message = message
	if !s.running {
		return
	}
	select {
	case s.msgs <- message:
	default:
	}
}

// Stop ends the animation and clears the line. Stopping a spinner that
// was never started does nothing.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.msgs)
	program, done := s.program, s.done
	s.mu.Unlock()

	program.Quit()
	select {
	case <-done:
	case <-time.After(stopTimeout):
	}
	fmt.Fprint(s.out, "\r\033[K")
}
