package annotation

import "pdfmark/internal/domain"

// Phase is the annotation gesture state
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

func (p Phase) String() string {
	if p == PhaseDragging {
		return "dragging"
	}
	return "idle"
}

// State holds the in-progress gesture. Page is -1 until a pointer-down
// lands on a page.
type State struct {
	Phase Phase
	Kind  domain.MarkupKind
	Page  int
	Start domain.Point
	End   domain.Point
}

// Bound reports whether the drag has a start point
func (s State) Bound() bool {
	return s.Phase == PhaseDragging && s.Page >= 0
}

// Reasons carried by SelectionDiscardedEvent
const (
	ReasonDegenerate = "degenerate"
	ReasonUnbound    = "unbound"
	ReasonCancelled  = "cancelled"
	ReasonRestarted  = "restarted"
)

// DefaultMinSize is the smallest accepted selection edge in page points
const DefaultMinSize = 2.0

// Options configures a Service
type Options struct {
	MinSize    float64
	Colors     map[domain.MarkupKind]domain.Color
	SnapToText bool
}

func (o Options) colorFor(kind domain.MarkupKind) domain.Color {
	if c, ok := o.Colors[kind]; ok {
		return c
	}
	return domain.DefaultColor
}
