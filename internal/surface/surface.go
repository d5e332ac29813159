// Package surface implements the drawing surface: it turns pointer events and
// tool selections into state changes on a state.Board and keeps a
// render.Canvas consistent with that state.
//
// Freehand segments are painted incrementally as the pointer moves, always
// in opaque colors. Any
// change to placed content (text or image) triggers a full redraw that clears
// the canvas and replays everything recorded, in a fixed order: strokes,
// then text in insertion order, then images. Because the incremental paints
// use the same primitives as the replay, both paths produce the same pixels.
//
// A Surface with no canvas attached still records text and selections but
// paints nothing.
package surface

import (
	"image"
	"image/color"
	"sync"

	"github.com/charmbracelet/log"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Surface is one drawing surface. Every instance owns its own state.
// Methods are safe for concurrent use; callbacks run without the lock held.
type Surface struct {
	// OnChange, if set, is called after pixels change with the dirty region.
	OnChange func(dirty state.Rect)

	opts     Options
	log      *log.Logger
	board    *state.Board
	mu       sync.Mutex
	canvas   render.Canvas
	prompter Prompter
	active   *state.Stroke // style of the in-progress stroke
}

// New creates a surface with no canvas attached.
func New(opts Options) *Surface {
	opts = opts.withDefaults()
	return &Surface{
		opts:  opts,
		log:   opts.Logger,
		board: state.NewBoard(state.Opaque(opts.DefaultColor)),
	}
}

// Options returns the options the surface was created with, defaults applied.
func (s *Surface) Options() Options { return s.opts }

// Attach mounts the surface on c: the background is filled and the recorded
// state replayed. Passing nil detaches.
func (s *Surface) Attach(c render.Canvas) {
	s.mu.Lock()
	s.canvas = c
	dirty := s.redrawLocked()
	s.mu.Unlock()
	s.notify(dirty)
}

// SetPrompter installs the text-entry prompt used by the text tool.
func (s *Surface) SetPrompter(p Prompter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompter = p
}

func (s *Surface) Tool() state.Tool { return s.board.Tool() }

// SetTool selects a tool. A stroke in progress is ended first.
func (s *Surface) SetTool(t state.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endStrokeLocked()
	s.board.SetTool(t)
	s.log.Debug("tool selected", "tool", t)
}

func (s *Surface) Color() color.Color { return s.board.Color() }

// SetColor sets the pencil color for subsequent strokes. Alpha is dropped so
// the overlapping joints of live segments match a replay of the whole path.
func (s *Surface) SetColor(c color.Color) {
	s.board.SetColor(state.Opaque(c))
}

// Drawing reports whether a stroke is in progress.
func (s *Surface) Drawing() bool { return s.board.Drawing() }

// Snapshot returns a copy of the recorded state.
func (s *Surface) Snapshot() state.Snapshot { return s.board.Snapshot() }

// PointerDown handles a primary-button press at p according to the active tool.
func (s *Surface) PointerDown(p state.Point) {
	s.mu.Lock()
	switch tool := s.board.Tool(); {
	case tool.Paints():
		s.beginStrokeLocked(p)
		s.mu.Unlock()
	case tool == state.ToolText:
		s.mu.Unlock()
		s.requestText(p)
	case tool == state.ToolImage:
		dirty := s.stampLocked(p)
		s.mu.Unlock()
		s.notify(dirty)
	default:
		s.mu.Unlock()
	}
}

// PointerMove extends the in-progress stroke to p and paints only the new
// segment. It is a no-op when no stroke is in progress.
func (s *Surface) PointerMove(p state.Point) {
	s.mu.Lock()
	prev, ok := s.board.ExtendStroke(p)
	if !ok || s.canvas == nil || s.active == nil {
		s.mu.Unlock()
		return
	}
	s.applyStrokeStyle(*s.active)
	s.canvas.BeginPath()
	s.canvas.MoveTo(prev.X, prev.Y)
	s.canvas.LineTo(p.X, p.Y)
	s.canvas.Stroke()
	dirty := state.BoundsOf([]state.Point{prev, p}, s.active.Width/2+1)
	s.mu.Unlock()
	s.notify(dirty)
}

// PointerUp ends the in-progress stroke.
func (s *Surface) PointerUp() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.endStrokeLocked()
}

// PointerLeave ends the in-progress stroke when the pointer exits the surface.
func (s *Surface) PointerLeave() {
	s.PointerUp()
}

// PlaceText appends a text item at p and redraws. Empty text is ignored.
func (s *Surface) PlaceText(p state.Point, text string) bool {
	s.mu.Lock()
	item, ok := s.board.AddText(p, text)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.log.Debug("text placed", "id", item.ID, "x", p.X, "y", p.Y)
	dirty := s.redrawLocked()
	s.mu.Unlock()
	s.notify(dirty)
	return true
}

// SetImage replaces the loaded image and redraws. Nil is ignored.
func (s *Surface) SetImage(img image.Image) {
	if img == nil {
		return
	}
	s.mu.Lock()
	s.board.SetImage(img)
	dirty := s.redrawLocked()
	s.mu.Unlock()
	s.log.Debug("image loaded", "bounds", img.Bounds())
	s.notify(dirty)
}

// Redraw clears the canvas and replays all recorded state.
func (s *Surface) Redraw() {
	s.mu.Lock()
	dirty := s.redrawLocked()
	s.mu.Unlock()
	s.notify(dirty)
}

// Frame returns the canvas flattened over the background, or nil when the
// attached canvas cannot produce a bitmap.
func (s *Surface) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.canvas.(interface {
		Flatten(color.Color) *image.RGBA
	})
	if !ok {
		return nil
	}
	return f.Flatten(s.opts.Background)
}

// FrameInto flattens the dirty region of the canvas over the background into
// dst, which should be a previous Frame. It reports false when the attached
// canvas cannot produce a bitmap.
func (s *Surface) FrameInto(dst *image.RGBA, dirty state.Rect) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.canvas.(interface {
		FlattenRect(*image.RGBA, image.Rectangle, color.Color)
	})
	if !ok {
		return false
	}
	f.FlattenRect(dst, dirty.Image(), s.opts.Background)
	return true
}

func (s *Surface) beginStrokeLocked(p state.Point) {
	if s.canvas == nil {
		return
	}
	s.endStrokeLocked()
	width := s.opts.PencilWidth
	if s.board.Tool() == state.ToolEraser {
		width = s.opts.EraserWidth
	}
	st := s.board.BeginStroke(p, width)
	s.active = &st
	s.applyStrokeStyle(st)
	s.canvas.BeginPath()
	s.canvas.MoveTo(p.X, p.Y)
}

// endStrokeLocked finishes the stroke and restores normal compositing so an
// eraser stroke cannot leak destination-out into later paints.
func (s *Surface) endStrokeLocked() {
	if s.active == nil {
		return
	}
	st, kept := s.board.EndStroke()
	s.active = nil
	if s.canvas != nil {
		s.canvas.SetComposite(render.SourceOver)
	}
	s.log.Debug("stroke ended", "tool", st.Tool, "points", len(st.Points), "kept", kept)
}

func (s *Surface) applyStrokeStyle(st state.Stroke) {
	if st.Tool == state.ToolEraser {
		s.canvas.SetComposite(render.DestinationOut)
		s.canvas.SetStrokeColor(color.Black)
	} else {
		s.canvas.SetComposite(render.SourceOver)
		s.canvas.SetStrokeColor(st.Color)
	}
	s.canvas.SetLineWidth(st.Width)
}

func (s *Surface) stampLocked(p state.Point) state.Rect {
	img := s.board.Image()
	if img == nil || s.canvas == nil {
		return state.Rect{}
	}
	if s.opts.Placement == PlacementPersistent {
		s.board.AddStamp(p)
		return s.redrawLocked()
	}
	size := s.opts.ImageSize
	s.canvas.SetComposite(render.SourceOver)
	s.canvas.DrawImage(img, p.X, p.Y, size, size)
	return state.Rect{X: p.X, Y: p.Y, Width: size, Height: size}
}

func (s *Surface) redrawLocked() state.Rect {
	if s.canvas == nil {
		return state.Rect{}
	}
	c := s.canvas
	w, h := c.Size()
	fw, fh := float32(w), float32(h)
	snap := s.board.Snapshot()

	c.SetComposite(render.SourceOver)
	c.ClearRect(0, 0, fw, fh)
	c.SetFillColor(s.opts.Background)
	c.FillRect(0, 0, fw, fh)

	strokes := snap.Strokes
	if snap.Current != nil {
		strokes = append(strokes, *snap.Current)
	}
	for _, st := range strokes {
		s.applyStrokeStyle(st)
		c.BeginPath()
		c.MoveTo(st.Points[0].X, st.Points[0].Y)
		for _, p := range st.Points[1:] {
			c.LineTo(p.X, p.Y)
		}
		c.Stroke()
	}
	c.SetComposite(render.SourceOver)

	c.SetFillColor(s.opts.TextColor)
	c.SetFontSize(s.opts.FontSize)
	for _, t := range snap.Texts {
		c.FillText(t.Text, t.At.X, t.At.Y)
	}

	size := s.opts.ImageSize
	switch s.opts.Placement {
	case PlacementPersistent:
		for _, st := range snap.Stamps {
			c.DrawImage(st.Image, st.At.X, st.At.Y, size, size)
		}
	case PlacementEphemeral:
		if snap.Image != nil {
			c.DrawImage(snap.Image, s.opts.ImageAnchor.X, s.opts.ImageAnchor.Y, size, size)
		}
	}
	return state.Full(w, h)
}

func (s *Surface) notify(dirty state.Rect) {
	if dirty.Empty() || s.OnChange == nil {
		return
	}
	s.OnChange(dirty.Clip(s.opts.Width, s.opts.Height))
}
