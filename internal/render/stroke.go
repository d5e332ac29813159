package render

import (
	"image"
	"math"
)

// discSides is the polygon resolution used for round caps and joins.
const discSides = 16

// disc approximates a filled circle of radius r around c.
func disc(c vec, r float32) []vec {
	poly := make([]vec, discSides)
	for i := range poly {
		a := 2 * math.Pi * float64(i) / discSides
		poly[i] = vec{
			x: c.x + r*float32(math.Cos(a)),
			y: c.y + r*float32(math.Sin(a)),
		}
	}
	return poly
}

// segment returns the quad covering a line of half-width hw from a to b, or
// nil for a zero-length segment.
func segment(a, b vec, hw float32) []vec {
	dx, dy := b.x-a.x, b.y-a.y
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return nil
	}
	nx, ny := -dy/l*hw, dx/l*hw
	return []vec{
		{a.x + nx, a.y + ny},
		{b.x + nx, b.y + ny},
		{b.x - nx, b.y - ny},
		{a.x - nx, a.y - ny},
	}
}

func polyBounds(poly []vec) image.Rectangle {
	if len(poly) == 0 {
		return image.Rectangle{}
	}
	minX, minY := poly[0].x, poly[0].y
	maxX, maxY := minX, minY
	for _, v := range poly[1:] {
		minX = min(minX, v.x)
		maxX = max(maxX, v.x)
		minY = min(minY, v.y)
		maxY = max(maxY, v.y)
	}
	return image.Rect(
		int(math.Floor(float64(minX))), int(math.Floor(float64(minY))),
		int(math.Ceil(float64(maxX)))+1, int(math.Ceil(float64(maxY)))+1,
	)
}
