package state

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Point is a surface-local position in pixels.
type Point struct{ X, Y float32 }

// Tool is the active drawing tool. The zero value is ToolPencil.
type Tool int

const (
	ToolPencil Tool = iota
	ToolText
	ToolEraser
	ToolImage
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolPencil, ToolText, ToolEraser, ToolImage}

func (t Tool) String() string {
	switch t {
	case ToolPencil:
		return "pencil"
	case ToolText:
		return "text"
	case ToolEraser:
		return "eraser"
	case ToolImage:
		return "image"
	}
	return fmt.Sprintf("tool(%d)", int(t))
}

// Paints reports whether the tool records freehand strokes.
func (t Tool) Paints() bool {
	return t == ToolPencil || t == ToolEraser
}

// ParseTool maps a tool name back to its Tool.
func ParseTool(s string) (Tool, error) {
	for _, t := range Tools {
		if strings.EqualFold(s, t.String()) {
			return t, nil
		}
	}
	return ToolPencil, fmt.Errorf("unknown tool %q", s)
}

// Stroke is a continuous freehand path recorded while the pointer was down.
type Stroke struct {
	ID     string
	Seq    uint64
	Tool   Tool // ToolPencil or ToolEraser
	Points []Point
	Color  color.Color // ignored by the eraser
	Width  float32
}

func (s Stroke) clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

// TextItem is a text label placed with a single click.
type TextItem struct {
	ID   string
	Seq  uint64
	At   Point
	Text string
}

// Stamp is an image placed at a point. The image is shared, not copied.
type Stamp struct {
	ID    string
	Seq   uint64
	At    Point
	Image image.Image
}

// Opaque returns c with full alpha. Nil stays nil.
func Opaque(c color.Color) color.Color {
	if c == nil {
		return nil
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 0xff
	return n
}

// ParseColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseColor(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb". Alpha is dropped.
func FormatColor(c color.Color) string {
	if c == nil {
		return "#000000"
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return colorful.Color{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
	}.Hex()
}
