package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
	"github.com/pkg/errors"
)

// Pager shows long text in ov, handing the terminal over while it runs
type Pager struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPager creates a pager; SetProgram must be called before Show
func NewPager() *Pager {
	return &Pager{}
}

// SetProgram sets the program reference for terminal management
func (p *Pager) SetProgram(prog *tea.Program) {
	p.program = prog
}

// Show blocks until the user leaves the pager
func (p *Pager) Show(content string) error {
	if p.program == nil {
		return errors.New("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal() // Ignore error as we're in defer context
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// ShowCmd runs Show as a command and reports the outcome as a pagerMsg
func (p *Pager) ShowCmd(content string) tea.Cmd {
	return func() tea.Msg {
		return pagerMsg{err: p.Show(content)}
	}
}
