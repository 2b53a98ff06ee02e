package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"pdfmark/internal/config"
	"pdfmark/internal/coords"
	"pdfmark/internal/domain"
	"pdfmark/internal/eventbus"
	"pdfmark/internal/ui/commands"
	"pdfmark/internal/ui/coordinator"
	"pdfmark/internal/ui/input"
	inputtypes "pdfmark/internal/ui/input/types"
	"pdfmark/internal/ui/services/annotation"
	"pdfmark/internal/ui/services/navigation"
	"pdfmark/internal/ui/services/search"
	"pdfmark/internal/ui/state"
	"pdfmark/internal/ui/views"
)

// Scroll steps for the arrow keys and the mouse wheel
const (
	scrollRows = 3
	scrollCols = 8
)

// Model represents the application state
type Model struct {
	// Core dependencies
	bus      eventbus.EventBus
	config   *config.Config
	coord    *coordinator.Coordinator
	executor *commands.Executor

	// UI state
	state  *state.AppState
	width  int
	height int
	help   help.Model

	// Input handling
	inputHandler *input.Handler

	// Rendering
	renderer *views.Renderer
	pager    *Pager

	initialPath string
	program     *tea.Program

	// cell of the press that started the drag
	dragCol, dragRow int
}

// NewModel creates a new UI model around a document session
func NewModel(bus eventbus.EventBus, cfg *config.Config, coord *coordinator.Coordinator) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Model{
		bus:          bus,
		config:       cfg,
		coord:        coord,
		executor:     commands.NewExecutor(coord),
		state:        state.NewAppState(),
		help:         help.New(),
		inputHandler: input.New(),
		renderer:     views.NewRenderer(),
		pager:        NewPager(),
	}
}

// OpenOnStart makes Init open path
func (m *Model) OpenOnStart(path string) {
	m.initialPath = path
}

// SetProgram sets the program reference for terminal hand-over
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init opens the initial document, if any
func (m *Model) Init() tea.Cmd {
	if m.initialPath == "" {
		m.state.SetInfo("press : and type 'open <file.pdf>' to start")
		return nil
	}
	return m.executor.Execute(commands.OpenCommand{Path: m.initialPath})
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewport()
		return m, nil

	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case EventMsg:
		m.handleEvent(msg.Event)
		return m, nil

	case commands.ResultMsg:
		return m, m.handleResult(msg)

	case ShutdownMsg:
		return m, m.shutdown()

	case pagerMsg:
		if msg.err != nil {
			m.state.SetError(errors.Wrap(msg.err, "pager failed"))
		}
		return m, nil

	default:
		// Handle non-keyboard messages (cursor blink)
		return m, m.inputHandler.Update(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.state.Quitting {
		return ""
	}

	vs := views.ViewState{
		Width:         m.width,
		Height:        m.height,
		StatusMessage: m.state.StatusMessage,
		StatusLevel:   m.state.StatusLevel,
		HelpLine:      m.help.View(m.inputHandler.Keys()),
	}

	if m.coord.HasDocument() {
		nav := m.coord.Navigation.GetState()
		vs.DocumentPath = m.coord.Document().Path()
		vs.Page = nav.CurrentPage
		vs.PageCount = len(nav.PageSizes)
		vs.Zoom = nav.Zoom
		vs.ZoomMode = nav.Mode.String()
		vs.Rotation = nav.Rotation
		vs.Dirty = m.coord.Dirty()
		if st := m.coord.Annotation.State(); st.Phase == annotation.PhaseDragging {
			vs.Annotating = st.Kind.String()
		}
		if m.inputHandler.CurrentMode() == inputtypes.ModeSearch || m.coord.Search.GetQuery() != "" {
			vs.SearchCounter = m.coord.Search.DisplayCounter()
		}
		vs.Canvas = m.buildCanvas()
	}

	if ti := m.inputHandler.TextInput(); ti != nil {
		vs.InputPrompt = m.inputHandler.Prompt()
		vs.InputView = ti.View()
	}

	return m.renderer.Render(vs)
}

// buildCanvas draws the displayed pages with their overlay, bottom to top:
// page text, markups in store order, search matches, the rubber band
func (m *Model) buildCanvas() *views.Canvas {
	cols, rows := views.PageArea(m.width, m.height)
	vp := m.coord.Navigation.ViewParams()

	canvas := views.NewCanvas(cols, rows)
	canvas.DrawPages(vp, m.coord.Document())

	var markups []domain.Markup
	for _, page := range displayedPages(vp, float64(rows*views.CellHeight)) {
		markups = append(markups, m.coord.VisibleMarkups(page)...)
	}
	canvas.PaintMarkups(markups, vp)
	canvas.PaintSearch(m.coord.Search.GetResults(), m.coord.Search.GetCurrentIndex(), vp)

	if page, sel, ok := m.coord.Annotation.SelectionRect(); ok {
		canvas.PaintSelection(page, sel, vp)
	}
	return canvas
}

// displayedPages lists the pages intersecting the viewport
func displayedPages(vp coords.ViewParams, height float64) []int {
	if vp.Layout == coords.LayoutSinglePage {
		return []int{vp.CurrentPage}
	}
	var pages []int
	for i := range vp.PageSizes {
		b, ok := coords.PageBounds(i, vp)
		if !ok || b.Y1 < 0 {
			continue
		}
		if b.Y0 > height {
			break
		}
		pages = append(pages, i)
	}
	return pages
}

func (m *Model) updateViewport() {
	cols, rows := views.PageArea(m.width, m.height)
	m.coord.Navigation.SetViewport(float64(cols), float64(rows*views.CellHeight))
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctx := &input.ModelContext{Coordinator: m.coord}

	actions, cmd := m.inputHandler.HandleKey(msg, ctx)

	cmds := []tea.Cmd{}
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	quitting := false
	for _, action := range actions {
		if _, ok := action.(inputtypes.QuitAction); ok {
			quitting = true
		}
	}
	if !quitting {
		m.state.QuitArmed = false
	}

	for _, action := range actions {
		if actionCmd := m.processAction(action); actionCmd != nil {
			cmds = append(cmds, actionCmd)
		}
	}
	return tea.Batch(cmds...)
}

// processAction executes one input action
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	nav := m.coord.Navigation

	switch a := action.(type) {
	case inputtypes.PageAction:
		switch a.Direction {
		case "next":
			nav.NextPage()
		case "prev":
			nav.PrevPage()
		case "first":
			nav.FirstPage()
		case "last":
			nav.LastPage()
		}

	case inputtypes.ScrollAction:
		step := float64(scrollRows * views.CellHeight)
		if a.Direction == navigation.DirectionLeft || a.Direction == navigation.DirectionRight {
			step = scrollCols
		}
		nav.Scroll(a.Direction, step)

	case inputtypes.ZoomAction:
		switch a.Op {
		case "in":
			nav.ZoomIn()
		case "out":
			nav.ZoomOut()
		case "fit-width":
			nav.FitWidth()
		case "fit-page":
			nav.FitPage()
		}

	case inputtypes.RotateAction:
		if a.Clockwise {
			nav.RotateRight()
		} else {
			nav.RotateLeft()
		}

	case inputtypes.StartAnnotateAction:
		m.startAnnotate(a.Kind)

	case inputtypes.DefaultAnnotateAction:
		m.startAnnotate(m.config.DefaultKind())

	case inputtypes.CancelAnnotateAction:
		m.coord.CancelAnnotate()
		m.state.Dragging = false
		m.state.SetInfo("annotation cancelled")

	case inputtypes.UndoAction:
		removed, err := m.coord.UndoLast()
		switch {
		case err != nil:
			m.state.SetError(err)
		case removed:
			m.state.SetInfo("removed the last markup")
		default:
			m.state.SetInfo("nothing to undo")
		}

	case inputtypes.ClearPageAction:
		n, err := m.coord.ClearPage()
		if err != nil {
			m.state.SetError(err)
			break
		}
		m.state.SetInfo(fmt.Sprintf("removed %d markup(s) from page %d", n, nav.CurrentPage()+1))

	case inputtypes.SearchNavigateAction:
		if err := m.coord.DispatchSearch(a.Action); err != nil {
			m.state.SetError(err)
			break
		}
		if a.Action == search.ActionClose {
			m.state.ClearStatus()
		}

	case inputtypes.UpdateTextAction:
		if m.inputHandler.CurrentMode() == inputtypes.ModeSearch {
			if err := m.coord.SetQuery(a.Text); err != nil {
				m.state.SetError(err)
			}
		}

	case inputtypes.SubmitTextAction:
		if a.Mode == inputtypes.ModePrompt {
			return m.executor.ExecuteLine(a.Text)
		}

	case inputtypes.SaveAction:
		return m.executor.Execute(commands.SaveCommand{})

	case inputtypes.ReloadAction:
		return m.executor.Execute(commands.LoadCommand{})

	case inputtypes.ShowMarkupsAction:
		doc := m.coord.Document()
		if doc == nil {
			m.state.SetError(domain.ErrNoActiveDocument)
			break
		}
		return m.pager.ShowCmd(RenderMarkupListing(doc.Path(), m.coord.Markups(), doc.PageCount()))

	case inputtypes.ToggleHelpAction:
		return m.pager.ShowCmd(RenderHelpContent(m.inputHandler.Keys()))

	case inputtypes.QuitAction:
		return m.quit(a.Force)
	}

	return nil
}

func (m *Model) startAnnotate(kind domain.MarkupKind) {
	if err := m.coord.StartAnnotate(kind); err != nil {
		m.state.SetError(err)
		return
	}
	m.state.SetInfo(fmt.Sprintf("%s: drag over the page, esc to cancel", kind))
}

// quit closes the session. Unsaved markups either get autosaved or need a
// second q; ctrl+c skips the question.
func (m *Model) quit(force bool) tea.Cmd {
	if !force && m.coord.Dirty() {
		if m.config.Sidecar.AutosaveQuit {
			if err := m.coord.SaveMarkups(); err != nil {
				m.state.SetError(errors.Wrap(err, "not quitting, markups were not saved"))
				return nil
			}
		} else if !m.state.QuitArmed {
			m.state.QuitArmed = true
			m.state.SetStatus(views.StatusWarning, "unsaved markups: ctrl+s saves, q again quits without saving")
			return nil
		}
	}

	if err := m.coord.Close(); err != nil {
		log.Error().Err(err).Msg("failed to save markups on exit")
	}
	m.state.Quitting = true
	return tea.Quit
}

func (m *Model) shutdown() tea.Cmd {
	if m.config.Sidecar.AutosaveQuit && m.coord.Dirty() {
		if err := m.coord.SaveMarkups(); err != nil {
			log.Error().Err(err).Msg("failed to save markups on shutdown")
		}
	}
	return m.quit(true)
}

// handleMouse turns mouse cells into viewport pixels for the annotation
// gesture. Rows outside the page area never start or extend a drag.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	_, rows := views.PageArea(m.width, m.height)
	row := msg.Y - views.HeaderRows
	inPageArea := row >= 0 && row < rows
	px := views.CellToPixel(msg.X, row)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.coord.Navigation.Scroll(navigation.DirectionUp, scrollRows*views.CellHeight)
		case tea.MouseButtonWheelDown:
			m.coord.Navigation.Scroll(navigation.DirectionDown, scrollRows*views.CellHeight)
		case tea.MouseButtonLeft:
			if inPageArea && m.coord.PointerDown(px) {
				m.state.Dragging = true
				m.dragCol, m.dragRow = msg.X, row
			}
		}

	case tea.MouseActionMotion:
		if m.state.Dragging && inPageArea {
			m.dragTo(msg.X, row)
		}

	case tea.MouseActionRelease:
		if m.state.Dragging && inPageArea {
			m.dragTo(msg.X, row)
		}
		m.state.Dragging = false
		if m.coord.Annotation.IsDragging() {
			m.finishDrag()
		}
	}
}

// dragTo stretches the selection over whole cells, falling back to cell
// centres where a cell edge is off the page
func (m *Model) dragTo(col, row int) {
	anchor, end := views.CellSpan(m.dragCol, m.dragRow, col, row)
	if !m.coord.Annotation.Anchor(anchor) {
		m.coord.Annotation.Anchor(views.CellToPixel(m.dragCol, m.dragRow))
	}
	if !m.coord.PointerMove(end) {
		m.coord.PointerMove(views.CellToPixel(col, row))
	}
}

func (m *Model) finishDrag() {
	markup, ok, err := m.coord.PointerUp()
	switch {
	case err != nil:
		m.state.SetError(errors.Wrap(err, "markup added but autosave failed"))
	case ok:
		m.state.SetSuccess(fmt.Sprintf("%s added on page %d", markup.Kind, markup.Page+1))
	}
}

// handleResult shows the outcome of a prompt command
func (m *Model) handleResult(msg commands.ResultMsg) tea.Cmd {
	if msg.Quit {
		return m.quit(false)
	}
	if msg.Err != nil {
		log.Warn().Err(msg.Err).Str("command", msg.Command).Msg("command failed")
		m.state.SetError(msg.Err)
		return nil
	}
	if msg.Command == "open" || msg.Command == "close" {
		m.updateViewport()
	}
	if msg.Message != "" {
		m.state.SetSuccess(msg.Message)
	}
	return nil
}

// handleEvent reacts to domain events forwarded from the bus. Most
// outcomes are already reported by the action that caused them.
func (m *Model) handleEvent(event eventbus.DomainEvent) {
	switch e := event.(type) {
	case eventbus.SelectionDiscardedEvent:
		if e.Reason == annotation.ReasonDegenerate {
			m.state.SetInfo("selection too small, nothing marked")
		}
	case eventbus.SearchCompletedEvent:
		if e.Query == "" {
			return
		}
		if e.MatchCount == 0 {
			m.state.SetStatus(views.StatusWarning, fmt.Sprintf("no matches for %q", e.Query))
		} else {
			m.state.SetInfo(fmt.Sprintf("%d matches for %q", e.MatchCount, e.Query))
		}
	case eventbus.PageToolCompletedEvent:
		log.Debug().Str("tool", e.Tool).Str("operation", e.Operation).Bool("success", e.Success).Msg("page tool finished")
	}
}
