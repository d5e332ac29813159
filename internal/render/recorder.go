package render

import (
	"image"
	"image/color"
)

// Call is one recorded Canvas method invocation.
type Call struct {
	Op        string // method name, e.g. "Stroke"
	X, Y      float32
	W, H      float32
	Text      string
	Color     color.Color
	Composite Composite
	FontSize  float64
	Image     image.Image
}

// StrokeCall is a stroked path together with the state it was painted with.
type StrokeCall struct {
	Points    [][2]float32
	Width     float32
	Color     color.Color
	Composite Composite
}

// TextCall is a FillText invocation with its fill color and font size.
type TextCall struct {
	Text     string
	X, Y     float32
	Color    color.Color
	FontSize float64
}

// ImageCall is a DrawImage invocation.
type ImageCall struct {
	Image      image.Image
	X, Y, W, H float32
	Composite  Composite
}

// Recorder is a Canvas that logs every call and forwards it to an optional
// Next canvas.
type Recorder struct {
	Next  Canvas
	Calls []Call

	width, height int
	composite     Composite
	lineWidth     float32
	stroke, fill  color.Color
	fontSize      float64
	path          [][2]float32

	strokes []StrokeCall
	texts   []TextCall
	images  []ImageCall
}

var _ Canvas = (*Recorder)(nil)

// NewRecorder records calls for a width×height surface. If next is non-nil
// its size wins and every call is forwarded to it.
func NewRecorder(width, height int, next Canvas) *Recorder {
	if next != nil {
		width, height = next.Size()
	}
	return &Recorder{
		Next:      next,
		width:     width,
		height:    height,
		lineWidth: 1,
		stroke:    color.Black,
		fill:      color.Black,
		fontSize:  10,
	}
}

// Reset forgets every recorded call but keeps the drawing state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.strokes = nil
	r.texts = nil
	r.images = nil
}

// Ops returns the method names in call order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Strokes returns every Stroke call in order.
func (r *Recorder) Strokes() []StrokeCall { return r.strokes }

// Texts returns every FillText call in order.
func (r *Recorder) Texts() []TextCall { return r.texts }

// Images returns every DrawImage call in order.
func (r *Recorder) Images() []ImageCall { return r.images }

func (r *Recorder) record(c Call) { r.Calls = append(r.Calls, c) }

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) ClearRect(x, y, w, h float32) {
	r.record(Call{Op: "ClearRect", X: x, Y: y, W: w, H: h})
	if r.Next != nil {
		r.Next.ClearRect(x, y, w, h)
	}
}

func (r *Recorder) SetFillColor(c color.Color) {
	r.record(Call{Op: "SetFillColor", Color: c})
	if c != nil {
		r.fill = c
	}
	if r.Next != nil {
		r.Next.SetFillColor(c)
	}
}

func (r *Recorder) FillRect(x, y, w, h float32) {
	r.record(Call{Op: "FillRect", X: x, Y: y, W: w, H: h, Color: r.fill, Composite: r.composite})
	if r.Next != nil {
		r.Next.FillRect(x, y, w, h)
	}
}

func (r *Recorder) SetComposite(op Composite) {
	r.record(Call{Op: "SetComposite", Composite: op})
	r.composite = op
	if r.Next != nil {
		r.Next.SetComposite(op)
	}
}

func (r *Recorder) Composite() Composite { return r.composite }

func (r *Recorder) SetLineWidth(w float32) {
	r.record(Call{Op: "SetLineWidth", W: w})
	if w > 0 {
		r.lineWidth = w
	}
	if r.Next != nil {
		r.Next.SetLineWidth(w)
	}
}

func (r *Recorder) SetStrokeColor(c color.Color) {
	r.record(Call{Op: "SetStrokeColor", Color: c})
	if c != nil {
		r.stroke = c
	}
	if r.Next != nil {
		r.Next.SetStrokeColor(c)
	}
}

func (r *Recorder) BeginPath() {
	r.record(Call{Op: "BeginPath"})
	r.path = nil
	if r.Next != nil {
		r.Next.BeginPath()
	}
}

func (r *Recorder) MoveTo(x, y float32) {
	r.record(Call{Op: "MoveTo", X: x, Y: y})
	r.path = append(r.path, [2]float32{x, y})
	if r.Next != nil {
		r.Next.MoveTo(x, y)
	}
}

func (r *Recorder) LineTo(x, y float32) {
	r.record(Call{Op: "LineTo", X: x, Y: y})
	r.path = append(r.path, [2]float32{x, y})
	if r.Next != nil {
		r.Next.LineTo(x, y)
	}
}

func (r *Recorder) ClosePath() {
	r.record(Call{Op: "ClosePath"})
	if r.Next != nil {
		r.Next.ClosePath()
	}
}

func (r *Recorder) Stroke() {
	r.record(Call{Op: "Stroke", W: r.lineWidth, Color: r.stroke, Composite: r.composite})
	r.strokes = append(r.strokes, StrokeCall{
		Points:    append([][2]float32(nil), r.path...),
		Width:     r.lineWidth,
		Color:     r.stroke,
		Composite: r.composite,
	})
	if r.Next != nil {
		r.Next.Stroke()
	}
}

func (r *Recorder) SetFontSize(px float64) {
	r.record(Call{Op: "SetFontSize", FontSize: px})
	if px > 0 {
		r.fontSize = px
	}
	if r.Next != nil {
		r.Next.SetFontSize(px)
	}
}

func (r *Recorder) FillText(text string, x, y float32) {
	r.record(Call{Op: "FillText", Text: text, X: x, Y: y, Color: r.fill, FontSize: r.fontSize})
	r.texts = append(r.texts, TextCall{Text: text, X: x, Y: y, Color: r.fill, FontSize: r.fontSize})
	if r.Next != nil {
		r.Next.FillText(text, x, y)
	}
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float32) {
	r.record(Call{Op: "DrawImage", Image: img, X: x, Y: y, W: w, H: h, Composite: r.composite})
	r.images = append(r.images, ImageCall{Image: img, X: x, Y: y, W: w, H: h, Composite: r.composite})
	if r.Next != nil {
		r.Next.DrawImage(img, x, y, w, h)
	}
}
