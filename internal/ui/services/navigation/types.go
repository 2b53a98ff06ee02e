package navigation

import (
	"pdfmark/internal/coords"
	"pdfmark/internal/domain"
)

// ZoomMode decides how the base scale follows the viewport
type ZoomMode int

const (
	// ZoomCustom keeps the user zoom relative to fit-width
	ZoomCustom ZoomMode = iota
	ZoomFitWidth
	ZoomFitPage
)

func (m ZoomMode) String() string {
	switch m {
	case ZoomFitWidth:
		return "fit-width"
	case ZoomFitPage:
		return "fit-page"
	default:
		return "custom"
	}
}

// ParseZoomMode accepts the names produced by String
func ParseZoomMode(s string) (ZoomMode, bool) {
	switch s {
	case "fit-width", "width", "":
		return ZoomFitWidth, true
	case "fit-page", "page":
		return ZoomFitPage, true
	case "custom":
		return ZoomCustom, true
	}
	return ZoomCustom, false
}

// State holds all navigation-related state
type State struct {
	PageSizes   []domain.Size
	CurrentPage int
	Zoom        float64
	Mode        ZoomMode
	Rotation    int
	Scroll      domain.Point
	Width       float64 // viewport size in pixels
	Height      float64
}

// Direction represents scroll directions
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Options configures zoom steps and layout
type Options struct {
	ZoomStep float64
	MinZoom  float64
	MaxZoom  float64
	Mode     ZoomMode
	Layout   coords.Layout
	PageGap  float64
	Margin   float64
}

// DefaultOptions matches the viewer's stock behaviour
func DefaultOptions() Options {
	return Options{
		ZoomStep: 1.2,
		MinZoom:  0.25,
		MaxZoom:  4,
		Mode:     ZoomFitWidth,
		Layout:   coords.LayoutSinglePage,
		PageGap:  2,
	}
}
