// Package render defines the 2-D raster surface the drawing surface paints
// on, an in-memory implementation of it, and a call recorder for tests.
//
// Canvas mirrors the small subset of an HTML-canvas style 2-D context the
// drawing surface needs: clear and fill rectangles, build and stroke a path,
// draw text at a baseline, draw a scaled bitmap, and switch between normal
// and destructive compositing.
package render

import (
	"image"
	"image/color"
)

// Composite is the rule for combining newly painted pixels with existing ones.
type Composite int

const (
	// SourceOver paints on top of existing pixels.
	SourceOver Composite = iota
	// DestinationOut clears existing pixels wherever the source would paint.
	DestinationOut
)

func (c Composite) String() string {
	if c == DestinationOut {
		return "destination-out"
	}
	return "source-over"
}

// Canvas is a fixed-size 2-D raster surface.
type Canvas interface {
	Size() (width, height int)

	// ClearRect sets the region to fully transparent, ignoring compositing.
	ClearRect(x, y, w, h float32)
	SetFillColor(c color.Color)
	FillRect(x, y, w, h float32)

	SetComposite(op Composite)
	Composite() Composite

	SetLineWidth(w float32)
	SetStrokeColor(c color.Color)
	BeginPath()
	MoveTo(x, y float32)
	LineTo(x, y float32)
	ClosePath()
	// Stroke paints the current path with the line width, stroke color and
	// compositing in effect. The path is kept until the next BeginPath.
	Stroke()

	SetFontSize(px float64)
	// FillText draws text with its baseline starting at (x, y).
	FillText(text string, x, y float32)

	// DrawImage draws img scaled into the w×h box at (x, y).
	DrawImage(img image.Image, x, y, w, h float32)
}
