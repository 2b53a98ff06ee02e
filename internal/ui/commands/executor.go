package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"pdfmark/internal/domain"
	"pdfmark/internal/ui/coordinator"
)

// DefaultToolTimeout bounds one external page operation
const DefaultToolTimeout = 2 * time.Minute

// ResultMsg reports the outcome of a prompt command
type ResultMsg struct {
	Command string
	Message string
	Err     error
	Quit    bool
}

// Executor runs parsed commands against the document session. Everything
// except the external page tool runs synchronously on the UI loop.
type Executor struct {
	coord       *coordinator.Coordinator
	toolTimeout time.Duration

	// path of an open refused for unsaved markups; opening it again discards
	pendingDiscard string
}

// NewExecutor creates a command executor
func NewExecutor(coord *coordinator.Coordinator) *Executor {
	return &Executor{coord: coord, toolTimeout: DefaultToolTimeout}
}

// SetToolTimeout changes the page tool deadline; zero disables it
func (e *Executor) SetToolTimeout(d time.Duration) {
	e.toolTimeout = d
}

// ExecuteLine parses and runs one prompt line
func (e *Executor) ExecuteLine(line string) tea.Cmd {
	cmd, err := Parse(line)
	if err != nil {
		return result(ResultMsg{Command: line, Err: err})
	}
	return e.Execute(cmd)
}

// Execute runs cmd. The returned tea.Cmd yields a ResultMsg.
func (e *Executor) Execute(cmd Command) tea.Cmd {
	if _, ok := cmd.(OpenCommand); !ok {
		e.pendingDiscard = ""
	}
	switch c := cmd.(type) {
	case ToolCommand:
		return e.executeTool(c)
	case QuitCommand:
		return result(ResultMsg{Command: c.Name(), Quit: true})
	}
	return result(e.executeSync(cmd))
}

func (e *Executor) executeSync(cmd Command) ResultMsg {
	res := ResultMsg{Command: cmd.Name()}
	switch c := cmd.(type) {
	case GotoCommand:
		if !e.coord.HasDocument() {
			res.Err = domain.ErrNoActiveDocument
			break
		}
		e.coord.Navigation.GoToPage(c.Page - 1)
		res.Message = fmt.Sprintf("page %d/%d", e.coord.Navigation.CurrentPage()+1, e.coord.Navigation.PageCount())

	case OpenCommand:
		res.Err = e.open(c.Path)
		if e.coord.HasDocument() && e.coord.Document().Path() == c.Path {
			res.Message = fmt.Sprintf("opened %s (%d pages)", c.Path, e.coord.Document().PageCount())
		}

	case CopyCommand:
		if res.Err = e.coord.SaveCopy(c.Path); res.Err == nil {
			res.Message = "copied to " + c.Path
		}

	case ZoomCommand:
		if !e.coord.HasDocument() {
			res.Err = domain.ErrNoActiveDocument
			break
		}
		e.coord.Navigation.SetZoom(c.Percent / 100)
		res.Message = fmt.Sprintf("zoom %.0f%%", e.coord.Navigation.Zoom()*100)

	case SaveCommand:
		if res.Err = e.coord.SaveMarkups(); res.Err == nil {
			res.Message = fmt.Sprintf("saved %d markups", len(e.coord.Markups()))
		}

	case LoadCommand:
		if res.Err = e.coord.LoadMarkups(); res.Err == nil {
			res.Message = fmt.Sprintf("loaded %d markups", len(e.coord.Markups()))
		}

	case CloseCommand:
		res.Err = e.coord.Close()
		res.Message = "document closed"

	default:
		res.Err = errors.Errorf("unsupported command %q", cmd.Name())
	}
	return res
}

// open asks for the same path twice before dropping unsaved markups
func (e *Executor) open(path string) error {
	if e.pendingDiscard != "" && e.pendingDiscard == path {
		e.pendingDiscard = ""
		return e.coord.OpenDiscarding(path)
	}
	e.pendingDiscard = ""
	err := e.coord.Open(path)
	if errors.Is(err, domain.ErrUnsavedMarkups) {
		e.pendingDiscard = path
		return errors.Wrap(err, "not opened, repeat to discard or ctrl+s to save")
	}
	return err
}

// executeTool validates on the UI loop and runs the tool in the command
// goroutine
func (e *Executor) executeTool(c ToolCommand) tea.Cmd {
	run, err := e.coord.PreparePageTool(c.Op)
	if err != nil {
		return result(ResultMsg{Command: c.Name(), Err: err})
	}
	timeout := e.toolTimeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		if err := run(ctx); err != nil {
			return ResultMsg{Command: c.Name(), Err: err}
		}
		return ResultMsg{Command: c.Name(), Message: fmt.Sprintf("%s wrote %s", c.Name(), c.Op.Output)}
	}
}

func result(msg ResultMsg) tea.Cmd {
	return func() tea.Msg { return msg }
}
