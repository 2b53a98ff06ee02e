package types

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the normal-mode bindings. It doubles as the help.KeyMap
// for the help line and the help pager.
type KeyMap struct {
	NextPage   key.Binding
	PrevPage   key.Binding
	FirstPage  key.Binding
	LastPage   key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	FitWidth   key.Binding
	FitPage    key.Binding
	RotateCW   key.Binding
	RotateCCW  key.Binding
	Annotate   key.Binding
	Highlight  key.Binding
	Underline  key.Binding
	StrikeOut  key.Binding
	Cancel     key.Binding
	Undo       key.Binding
	ClearPage  key.Binding
	Search     key.Binding
	NextMatch  key.Binding
	PrevMatch  key.Binding
	Save       key.Binding
	Reload     key.Binding
	Markups    key.Binding
	Prompt     key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// DefaultKeyMap returns the stock bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextPage:  key.NewBinding(key.WithKeys("pgdown", " ", "J"), key.WithHelp("pgdn/J", "next page")),
		PrevPage:  key.NewBinding(key.WithKeys("pgup", "K"), key.WithHelp("pgup/K", "prev page")),
		FirstPage: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first page")),
		LastPage:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last page")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
		ZoomIn:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:   key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		FitWidth:  key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "fit width")),
		FitPage:   key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "fit page")),
		RotateCW:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rotate right")),
		RotateCCW: key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rotate left")),
		Annotate:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "annotate (default kind)")),
		Highlight: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "highlight")),
		Underline: key.NewBinding(key.WithKeys("U"), key.WithHelp("U", "underline")),
		StrikeOut: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "strike out")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo markup")),
		ClearPage: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear page markups")),
		Search:    key.NewBinding(key.WithKeys("/", "ctrl+f"), key.WithHelp("/", "search")),
		NextMatch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next match")),
		PrevMatch: key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "prev match")),
		Save:      key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save markups")),
		Reload:    key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "reload markups")),
		Markups:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "list markups")),
		Prompt:    key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextPage, k.PrevPage, k.Highlight, k.Search, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.Up, k.Down, k.Left, k.Right},
		{k.ZoomIn, k.ZoomOut, k.FitWidth, k.FitPage, k.RotateCW, k.RotateCCW},
		{k.Annotate, k.Highlight, k.Underline, k.StrikeOut, k.Cancel, k.Undo, k.ClearPage},
		{k.Search, k.NextMatch, k.PrevMatch, k.Save, k.Reload, k.Markups, k.Prompt, k.Help, k.Quit},
	}
}
