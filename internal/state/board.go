package state

import (
	"image"
	"image/color"
	"sync"

	"github.com/google/uuid"
)

// Board is the drawing state owned by a single surface: the tool and color
// selection, recorded strokes, placed text, the loaded image and stamps.
type Board struct {
	clock   Clock
	tool    Tool
	color   color.Color
	strokes []Stroke
	current *Stroke
	texts   []TextItem
	image   image.Image
	stamps  []Stamp
	mu      sync.RWMutex
}

// Snapshot is a deep copy of a board, safe to read without locks.
type Snapshot struct {
	Tool    Tool
	Color   color.Color
	Strokes []Stroke // finished strokes in insertion order
	Current *Stroke  // in-progress stroke, if any
	Texts   []TextItem
	Image   image.Image
	Stamps  []Stamp
}

// NewBoard creates an empty board with the pencil selected.
func NewBoard(c color.Color) *Board {
	if c == nil {
		c = color.Black
	}
	return &Board{tool: ToolPencil, color: c}
}

func (b *Board) Tool() Tool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tool
}

func (b *Board) SetTool(t Tool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tool = t
}

func (b *Board) Color() color.Color {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.color
}

func (b *Board) SetColor(c color.Color) {
	if c == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.color = c
}

// Drawing reports whether a stroke is in progress.
func (b *Board) Drawing() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current != nil
}

// BeginStroke starts a stroke at p using the active tool. A stroke already in
// progress is ended first. It returns a copy of the new stroke.
func (b *Board) BeginStroke(p Point, width float32) Stroke {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.endLocked()
	b.current = &Stroke{
		ID:     uuid.NewString(),
		Seq:    b.clock.Tick(),
		Tool:   b.tool,
		Points: []Point{p},
		Color:  b.color,
		Width:  width,
	}
	return b.current.clone()
}

// ExtendStroke appends p to the in-progress stroke and returns the previous
// end point. ok is false when no stroke is in progress.
func (b *Board) ExtendStroke(p Point) (prev Point, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Point{}, false
	}
	prev = b.current.Points[len(b.current.Points)-1]
	b.current.Points = append(b.current.Points, p)
	return prev, true
}

// EndStroke finishes the in-progress stroke. Strokes with fewer than two
// points paint nothing and are discarded; kept reports whether it was recorded.
func (b *Board) EndStroke() (s Stroke, kept bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Stroke{}, false
	}
	s = b.current.clone()
	return s, b.endLocked()
}

func (b *Board) endLocked() bool {
	if b.current == nil {
		return false
	}
	cur := b.current
	b.current = nil
	if len(cur.Points) < 2 {
		return false
	}
	b.strokes = append(b.strokes, *cur)
	return true
}

// AddText appends a text item. Empty text is ignored.
func (b *Board) AddText(at Point, text string) (TextItem, bool) {
	if text == "" {
		return TextItem{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	item := TextItem{ID: uuid.NewString(), Seq: b.clock.Tick(), At: at, Text: text}
	b.texts = append(b.texts, item)
	return item, true
}

// SetImage replaces the loaded image. Existing stamps keep their own image.
func (b *Board) SetImage(img image.Image) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.image = img
}

func (b *Board) Image() image.Image {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.image
}

// AddStamp records the loaded image at p. ok is false when no image is loaded.
func (b *Board) AddStamp(at Point) (Stamp, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.image == nil {
		return Stamp{}, false
	}
	s := Stamp{ID: uuid.NewString(), Seq: b.clock.Tick(), At: at, Image: b.image}
	b.stamps = append(b.stamps, s)
	return s, true
}

// Snapshot returns a deep copy of the board.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	snap := Snapshot{
		Tool:    b.tool,
		Color:   b.color,
		Strokes: make([]Stroke, 0, len(b.strokes)),
		Texts:   append([]TextItem(nil), b.texts...),
		Image:   b.image,
		Stamps:  append([]Stamp(nil), b.stamps...),
	}
	for _, s := range b.strokes {
		snap.Strokes = append(snap.Strokes, s.clone())
	}
	if b.current != nil {
		cur := b.current.clone()
		snap.Current = &cur
	}
	return snap
}
