package coords

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfmark/internal/domain"
)

func letterPages(n int) []domain.Size {
	sizes := make([]domain.Size, n)
	for i := range sizes {
		sizes[i] = domain.Size{W: 612, H: 792}
	}
	return sizes
}

func TestNormalizeRotation(t *testing.T) {
	cases := map[int]int{0: 0, 90: 90, 180: 180, 270: 270, 360: 0, 450: 90, -90: 270, -180: 180, 89: 90}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeRotation(in), "rotation %d", in)
	}
}

func TestPageToViewportUnrotated(t *testing.T) {
	vp := ViewParams{
		Zoom:        2,
		BaseScale:   0.5,
		PageSizes:   letterPages(3),
		CurrentPage: 1,
		Margin:      10,
	}

	px, ok := PageToViewport(1, domain.Point{X: 100, Y: 50}, vp)
	require.True(t, ok)
	assert.InDelta(t, 110, px.X, 1e-9)
	assert.InDelta(t, 60, px.Y, 1e-9)

	_, ok = PageToViewport(0, domain.Point{X: 100, Y: 50}, vp)
	assert.False(t, ok, "single-page layout only shows the current page")
}

func TestRotationMapsCorners(t *testing.T) {
	vp := ViewParams{Zoom: 1, BaseScale: 1, PageSizes: []domain.Size{{W: 200, H: 100}}}

	tests := []struct {
		rotation int
		in       domain.Point
		want     domain.Point
	}{
		{0, domain.Point{X: 0, Y: 0}, domain.Point{X: 0, Y: 0}},
		{90, domain.Point{X: 0, Y: 0}, domain.Point{X: 100, Y: 0}},
		{90, domain.Point{X: 0, Y: 100}, domain.Point{X: 0, Y: 0}},
		{180, domain.Point{X: 0, Y: 0}, domain.Point{X: 200, Y: 100}},
		{270, domain.Point{X: 0, Y: 0}, domain.Point{X: 0, Y: 200}},
		{270, domain.Point{X: 200, Y: 0}, domain.Point{X: 0, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_%v", tt.rotation, tt.in), func(t *testing.T) {
			vp.Rotation = tt.rotation
			got, ok := PageToViewport(0, tt.in, vp)
			require.True(t, ok)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestViewportToPageOutsideIsNone(t *testing.T) {
	vp := ViewParams{Zoom: 1, BaseScale: 1, PageSizes: letterPages(2), Margin: 20}

	_, _, ok := ViewportToPage(domain.Point{X: 5, Y: 5}, vp)
	assert.False(t, ok, "margin is outside every page")

	_, _, ok = ViewportToPage(domain.Point{X: 700, Y: 100}, vp)
	assert.False(t, ok, "right of the page")

	page, pt, ok := ViewportToPage(domain.Point{X: 20, Y: 20}, vp)
	require.True(t, ok)
	assert.Equal(t, 0, page)
	assert.InDelta(t, 0, pt.X, 1e-9)
	assert.InDelta(t, 0, pt.Y, 1e-9)
}

func TestContinuousLayoutFindsLaterPages(t *testing.T) {
	vp := ViewParams{
		Zoom:      1,
		BaseScale: 1,
		PageSizes: letterPages(3),
		Layout:    LayoutContinuous,
		PageGap:   8,
		Margin:    4,
		Scroll:    domain.Point{Y: 792},
	}

	// page 1 starts at 4 + 792 + 8 = 804 before scrolling, 12 after
	page, pt, ok := ViewportToPage(domain.Point{X: 104, Y: 22}, vp)
	require.True(t, ok)
	assert.Equal(t, 1, page)
	assert.InDelta(t, 100, pt.X, 1e-9)
	assert.InDelta(t, 10, pt.Y, 1e-9)

	_, _, ok = ViewportToPage(domain.Point{X: 104, Y: 8}, vp)
	assert.False(t, ok, "the gap between pages maps to no page")

	w, h := ContentSize(vp)
	assert.InDelta(t, 612+8, w, 1e-9)
	assert.InDelta(t, 3*792+2*8+8, h, 1e-9)
}

func TestRoundTripWithinOnePixel(t *testing.T) {
	zooms := []float64{0.25, 0.5, 1, 1.2, 2.5, 4}
	for _, layout := range []Layout{LayoutSinglePage, LayoutContinuous} {
		for _, rotation := range []int{0, 90, 180, 270} {
			for _, zoom := range zooms {
				vp := ViewParams{
					Zoom:        zoom,
					Rotation:    rotation,
					BaseScale:   0.75,
					PageSizes:   []domain.Size{{W: 612, H: 792}, {W: 842, H: 595}, {W: 300, H: 300}},
					CurrentPage: 1,
					Layout:      layout,
					PageGap:     6,
					Margin:      3,
					Scroll:      domain.Point{X: 1.5, Y: 40},
				}
				name := fmt.Sprintf("layout%d_rot%d_zoom%g", layout, rotation, zoom)
				t.Run(name, func(t *testing.T) {
					for page := range vp.PageSizes {
						bounds, ok := PageBounds(page, vp)
						if !ok {
							continue
						}
						for fx := 0.01; fx < 1; fx += 0.07 {
							for fy := 0.01; fy < 1; fy += 0.07 {
								p := domain.Point{
									X: bounds.X0 + fx*bounds.Width(),
									Y: bounds.Y0 + fy*bounds.Height(),
								}
								gotPage, pt, ok := ViewportToPage(p, vp)
								require.True(t, ok, "pixel %v inside page %d", p, page)
								require.Equal(t, page, gotPage)

								back, ok := PageToViewport(gotPage, pt, vp)
								require.True(t, ok)
								require.LessOrEqual(t, math.Hypot(back.X-p.X, back.Y-p.Y), 1.0)
							}
						}
					}
				})
			}
		}
	}
}

func TestPageRectToViewportNormalizes(t *testing.T) {
	vp := ViewParams{Zoom: 1, BaseScale: 1, Rotation: 180, PageSizes: []domain.Size{{W: 100, H: 100}}}

	r, ok := PageRectToViewport(0, domain.Rect{X0: 10, Y0: 20, X1: 30, Y1: 40}, vp)
	require.True(t, ok)
	assert.Equal(t, domain.Rect{X0: 70, Y0: 60, X1: 90, Y1: 80}, r)
}

func TestZeroScaleFallsBackToOne(t *testing.T) {
	vp := ViewParams{PageSizes: letterPages(1)}
	w, h := vp.DisplaySize(0)
	assert.Equal(t, 612.0, w)
	assert.Equal(t, 792.0, h)
}
