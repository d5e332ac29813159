package ui

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

// surroundColor fills the widget area outside the drawing surface.
var surroundColor = color.NRGBA{R: 245, G: 246, B: 248, A: 255}

// BoardWidget hosts a surface.Surface backed by a render.Raster and feeds it
// mouse events.
type BoardWidget struct {
	widget.BaseWidget

	// OnStatus, if set, receives short user-facing messages.
	OnStatus func(msg string)

	surface *surface.Surface
	raster  *render.Raster
	frame   *image.RGBA // shown by image; updated only on the UI goroutine
	image   *canvas.Image
	log     *log.Logger
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
	_ desktop.Hoverable = (*BoardWidget)(nil)
)

// NewBoardWidget mounts s on a fresh raster of the surface's size.
func NewBoardWidget(s *surface.Surface, logger *log.Logger) *BoardWidget {
	if logger == nil {
		logger = log.Default()
	}
	opts := s.Options()
	b := &BoardWidget{
		surface: s,
		raster:  render.NewRaster(opts.Width, opts.Height),
		log:     logger,
	}
	s.Attach(b.raster)

	b.frame = s.Frame()
	b.image = canvas.NewImageFromImage(b.frame)
	b.image.FillMode = canvas.ImageFillOriginal
	b.image.ScaleMode = canvas.ImageScalePixels
	s.OnChange = b.surfaceChanged

	b.ExtendBaseWidget(b)
	return b
}

// Surface returns the hosted surface.
func (b *BoardWidget) Surface() *surface.Surface { return b.surface }

func (b *BoardWidget) surfaceChanged(dirty state.Rect) {
	fyne.Do(func() {
		if b.surface.FrameInto(b.frame, dirty) {
			b.image.Refresh()
		}
	})
}

// LoadImage reads the picked file and hands it to the surface decoder.
// The reader is closed once consumed.
func (b *BoardWidget) LoadImage(r fyne.URIReadCloser) {
	go func() {
		name := r.URI().Name()
		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			b.log.Warn("read image failed", "file", name, "err", err)
			b.status("Could not read " + name)
			return
		}
		if err := <-b.surface.LoadImage(bytes.NewReader(data)); err != nil {
			b.status("Not an image: " + name)
			return
		}
		b.status("Loaded " + name)
	}()
}

func (b *BoardWidget) status(msg string) {
	if b.OnStatus == nil {
		return
	}
	fyne.Do(func() { b.OnStatus(msg) })
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	opts := b.surface.Options()
	p := toPoint(e.Position)
	if !state.Full(opts.Width, opts.Height).Contains(p) {
		return
	}
	b.surface.PointerDown(p)
}

func (b *BoardWidget) MouseUp(*desktop.MouseEvent) { b.surface.PointerUp() }

func (b *BoardWidget) Dragged(e *fyne.DragEvent) { b.surface.PointerMove(toPoint(e.Position)) }

func (b *BoardWidget) DragEnd() { b.surface.PointerUp() }

func (b *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) { b.surface.PointerMove(toPoint(e.Position)) }

func (b *BoardWidget) MouseOut() { b.surface.PointerLeave() }

func toPoint(p fyne.Position) state.Point { return state.Point{X: p.X, Y: p.Y} }

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(surroundColor)
	return &boardRenderer{
		board:   b,
		bg:      bg,
		objects: []fyne.CanvasObject{bg, b.image},
	}
}

type boardRenderer struct {
	board   *BoardWidget
	bg      *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.board.image.Move(fyne.NewPos(0, 0))
	r.board.image.Resize(r.surfaceSize())
}

func (r *boardRenderer) MinSize() fyne.Size { return r.surfaceSize() }

func (r *boardRenderer) surfaceSize() fyne.Size {
	opts := r.board.surface.Options()
	return fyne.NewSize(float32(opts.Width), float32(opts.Height))
}

func (r *boardRenderer) Refresh() {
	r.bg.Refresh()
	r.board.image.Refresh()
}

func (r *boardRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *boardRenderer) Destroy() {}
