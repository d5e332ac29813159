package state

import (
	"image"
	"testing"
)

func TestBoundsOf(t *testing.T) {
	r := BoundsOf([]Point{{10, 20}, {50, 10}, {30, 40}}, 2)
	want := Rect{X: 8, Y: 8, Width: 44, Height: 34}
	if r != want {
		t.Errorf("BoundsOf = %+v, want %+v", r, want)
	}
	if !BoundsOf(nil, 5).Empty() {
		t.Error("BoundsOf(nil) should be empty")
	}
}

func TestRectUnionContains(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 5, Height: 10}

	u := a.Union(b)
	if u != (Rect{X: 0, Y: 0, Width: 25, Height: 15}) {
		t.Errorf("Union = %+v", u)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty union = %+v", got)
	}
	if !a.Contains(Point{10, 10}) || a.Contains(Point{11, 0}) {
		t.Error("Contains edge handling wrong")
	}
}

func TestRectClipAndImage(t *testing.T) {
	r := Rect{X: -5, Y: 290, Width: 20, Height: 20}.Clip(450, 300)
	if r != (Rect{X: 0, Y: 290, Width: 15, Height: 10}) {
		t.Errorf("Clip = %+v", r)
	}
	if !(Rect{X: 500, Y: 0, Width: 10, Height: 10}).Clip(450, 300).Empty() {
		t.Error("off-surface rect should clip to empty")
	}
	got := Rect{X: 1.5, Y: 2.2, Width: 3, Height: 3}.Image()
	if got != image.Rect(1, 2, 5, 6) {
		t.Errorf("Image = %v", got)
	}
	if got := Full(450, 300).Image(); got != image.Rect(0, 0, 450, 300) {
		t.Errorf("Full.Image = %v", got)
	}
}
