package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Raster is a Canvas backed by an in-memory RGBA bitmap. Strokes use round
// caps and joins. A Raster is not safe for concurrent use.
type Raster struct {
	img       *image.RGBA
	composite Composite
	lineWidth float32
	stroke    color.Color
	fill      color.Color
	fontSize  float64
	faces     map[float64]font.Face
	path      [][]vec
	z         *vector.Rasterizer
}

type vec struct{ x, y float32 }

var _ Canvas = (*Raster)(nil)

// NewRaster creates a fully transparent width×height raster.
func NewRaster(width, height int) *Raster {
	return &Raster{
		img:       image.NewRGBA(image.Rect(0, 0, width, height)),
		lineWidth: 1,
		stroke:    color.Black,
		fill:      color.Black,
		fontSize:  10,
		faces:     make(map[float64]font.Face),
		z:         vector.NewRasterizer(width, height),
	}
}

// Image returns the backing bitmap. Erased pixels are transparent.
func (r *Raster) Image() *image.RGBA { return r.img }

// Flatten returns a copy of the bitmap composited over an opaque background.
func (r *Raster) Flatten(bg color.Color) *image.RGBA {
	out := image.NewRGBA(r.img.Bounds())
	r.FlattenRect(out, out.Bounds(), bg)
	return out
}

// FlattenRect composites the rect region of the bitmap over bg into dst,
// leaving the rest of dst untouched.
func (r *Raster) FlattenRect(dst *image.RGBA, rect image.Rectangle, bg color.Color) {
	rect = rect.Intersect(r.img.Bounds()).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(dst, rect, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, rect, r.img, rect.Min, draw.Over)
}

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (r *Raster) ClearRect(x, y, w, h float32) {
	rect := r.clip(rectOf(x, y, w, h))
	draw.Draw(r.img, rect, image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) SetFillColor(c color.Color) {
	if c != nil {
		r.fill = c
	}
}

func (r *Raster) FillRect(x, y, w, h float32) {
	r.paint(r.clip(rectOf(x, y, w, h)), image.NewUniform(r.fill), image.Point{}, nil, image.Point{})
}

func (r *Raster) SetComposite(op Composite) { r.composite = op }
func (r *Raster) Composite() Composite     { return r.composite }

func (r *Raster) SetLineWidth(w float32) {
	if w > 0 {
		r.lineWidth = w
	}
}

func (r *Raster) SetStrokeColor(c color.Color) {
	if c != nil {
		r.stroke = c
	}
}

func (r *Raster) BeginPath() { r.path = r.path[:0] }

func (r *Raster) MoveTo(x, y float32) {
	r.path = append(r.path, []vec{{x, y}})
}

func (r *Raster) LineTo(x, y float32) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := len(r.path) - 1
	r.path[last] = append(r.path[last], vec{x, y})
}

func (r *Raster) ClosePath() {
	if len(r.path) == 0 {
		return
	}
	sub := r.path[len(r.path)-1]
	if len(sub) > 1 {
		r.LineTo(sub[0].x, sub[0].y)
	}
}

func (r *Raster) Stroke() {
	half := r.lineWidth / 2
	var polys [][]vec
	for _, sub := range r.path {
		// A lone MoveTo paints nothing.
		if len(sub) < 2 {
			continue
		}
		for i, p := range sub {
			polys = append(polys, disc(p, half))
			if i > 0 {
				if q := segment(sub[i-1], p, half); q != nil {
					polys = append(polys, q)
				}
			}
		}
	}
	if len(polys) == 0 {
		return
	}

	var bounds image.Rectangle
	for _, poly := range polys {
		bounds = bounds.Union(polyBounds(poly))
	}
	bounds = r.clip(bounds)
	if bounds.Empty() {
		return
	}

	// Each primitive is rasterized on its own so overlapping polygons of
	// opposite winding cannot cancel out.
	mask := image.NewAlpha(bounds)
	for _, poly := range polys {
		pb := polyBounds(poly).Intersect(bounds)
		if pb.Empty() {
			continue
		}
		r.z.Reset(pb.Dx(), pb.Dy())
		ox, oy := float32(pb.Min.X), float32(pb.Min.Y)
		r.z.MoveTo(poly[0].x-ox, poly[0].y-oy)
		for _, v := range poly[1:] {
			r.z.LineTo(v.x-ox, v.y-oy)
		}
		r.z.ClosePath()
		r.z.Draw(mask, pb, image.Opaque, image.Point{})
	}
	r.paint(bounds, image.NewUniform(r.stroke), image.Point{}, mask, bounds.Min)
}

func (r *Raster) SetFontSize(px float64) {
	if px > 0 {
		r.fontSize = px
	}
}

func (r *Raster) FillText(text string, x, y float32) {
	if text == "" {
		return
	}
	face, err := r.face()
	if err != nil {
		return
	}
	dot := fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)}
	fb, _ := font.BoundString(face, text)
	rect := r.clip(image.Rect(
		(dot.X+fb.Min.X).Floor(), (dot.Y+fb.Min.Y).Floor(),
		(dot.X+fb.Max.X).Ceil(), (dot.Y+fb.Max.Y).Ceil(),
	))
	if rect.Empty() {
		return
	}
	mask := image.NewAlpha(rect)
	d := font.Drawer{Dst: mask, Src: image.Opaque, Face: face, Dot: dot}
	d.DrawString(text)
	r.paint(rect, image.NewUniform(r.fill), image.Point{}, mask, rect.Min)
}

func (r *Raster) DrawImage(img image.Image, x, y, w, h float32) {
	if img == nil || w <= 0 || h <= 0 {
		return
	}
	dr := rectOf(x, y, w, h)
	if dr.Empty() {
		return
	}
	scaled := image.NewRGBA(dr)
	xdraw.ApproxBiLinear.Scale(scaled, dr, img, img.Bounds(), xdraw.Src, nil)
	rect := r.clip(dr)
	if rect.Empty() {
		return
	}
	r.paint(rect, scaled, rect.Min, nil, image.Point{})
}

func (r *Raster) face() (font.Face, error) {
	if f, ok := r.faces[r.fontSize]; ok {
		return f, nil
	}
	f, err := newFace(r.fontSize)
	if err != nil {
		return nil, err
	}
	r.faces[r.fontSize] = f
	return f, nil
}

// paint composites src through mask onto rect using the current compositing
// rule. A nil mask is fully opaque.
func (r *Raster) paint(rect image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point) {
	if rect.Empty() {
		return
	}
	if r.composite == SourceOver {
		draw.DrawMask(r.img, rect, src, sp, mask, mp, draw.Over)
		return
	}
	r.eraseMask(rect, src, sp, mask, mp)
}

// eraseMask scales every destination pixel by one minus the coverage of the
// source, which is Porter-Duff destination-out.
func (r *Raster) eraseMask(rect image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			dx, dy := x-rect.Min.X, y-rect.Min.Y
			_, _, _, sa := src.At(sp.X+dx, sp.Y+dy).RGBA()
			cov := sa
			if mask != nil {
				_, _, _, ma := mask.At(mp.X+dx, mp.Y+dy).RGBA()
				cov = cov * ma / 0xffff
			}
			if cov == 0 {
				continue
			}
			keep := 0xffff - cov
			i := r.img.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				r.img.Pix[i+c] = uint8(uint32(r.img.Pix[i+c]) * keep / 0xffff)
			}
		}
	}
}

func (r *Raster) clip(rect image.Rectangle) image.Rectangle {
	return rect.Intersect(r.img.Bounds())
}

func rectOf(x, y, w, h float32) image.Rectangle {
	x0 := int(math.Round(float64(x)))
	y0 := int(math.Round(float64(y)))
	return image.Rect(x0, y0, x0+int(math.Round(float64(w))), y0+int(math.Round(float64(h))))
}
