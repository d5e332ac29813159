package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/log"

	"LocalSketch/internal/state"
)

// Placement controls whether image stamps survive a redraw.
type Placement int

const (
	// PlacementPersistent records each stamp and replays it on every redraw.
	PlacementPersistent Placement = iota
	// PlacementEphemeral paints a stamp once. Redraws show the loaded image
	// at Options.ImageAnchor instead.
	PlacementEphemeral
)

func (p Placement) String() string {
	if p == PlacementEphemeral {
		return "ephemeral"
	}
	return "persistent"
}

// ParsePlacement maps "persistent" or "ephemeral" to a Placement.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(s) {
	case "persistent", "":
		return PlacementPersistent, nil
	case "ephemeral":
		return PlacementEphemeral, nil
	}
	return PlacementPersistent, fmt.Errorf("unknown image placement %q", s)
}

// Options configures a Surface.
type Options struct {
	Width, Height int
	Background    color.Color
	DefaultColor  color.Color

	PencilWidth float32
	EraserWidth float32

	TextColor color.Color
	FontSize  float64

	// ImageSize is the side of the square footprint every stamp is scaled to.
	ImageSize   float32
	Placement   Placement
	ImageAnchor state.Point

	Logger *log.Logger
}

// DefaultOptions returns a 450×300 white surface with a 4px black pencil,
// a 20px eraser, 20px black text and 100×100 persistent stamps.
func DefaultOptions() Options {
	return Options{
		Width:        450,
		Height:       300,
		Background:   color.White,
		DefaultColor: color.Black,
		PencilWidth:  4,
		EraserWidth:  20,
		TextColor:    color.Black,
		FontSize:     20,
		ImageSize:    100,
		Placement:    PlacementPersistent,
		ImageAnchor:  state.Point{X: 50, Y: 50},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = d.Width, d.Height
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	if o.DefaultColor == nil {
		o.DefaultColor = d.DefaultColor
	}
	if o.PencilWidth <= 0 {
		o.PencilWidth = d.PencilWidth
	}
	if o.EraserWidth <= 0 {
		o.EraserWidth = d.EraserWidth
	}
	if o.TextColor == nil {
		o.TextColor = d.TextColor
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.ImageSize <= 0 {
		o.ImageSize = d.ImageSize
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
