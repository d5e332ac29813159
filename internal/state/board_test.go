package state

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardDefaults(t *testing.T) {
	b := NewBoard(nil)
	assert.Equal(t, ToolPencil, b.Tool())
	assert.Equal(t, color.Black, b.Color())
	assert.False(t, b.Drawing())

	snap := b.Snapshot()
	assert.Empty(t, snap.Strokes)
	assert.Empty(t, snap.Texts)
	assert.Empty(t, snap.Stamps)
	assert.Nil(t, snap.Image)
	assert.Nil(t, snap.Current)
}

func TestStrokeLifecycle(t *testing.T) {
	b := NewBoard(color.Black)
	red := color.NRGBA{R: 255, A: 255}
	b.SetColor(red)

	started := b.BeginStroke(Point{10, 10}, 4)
	require.True(t, b.Drawing())
	assert.Equal(t, ToolPencil, started.Tool)
	assert.Equal(t, red, started.Color)
	assert.NotEmpty(t, started.ID)

	prev, ok := b.ExtendStroke(Point{20, 10})
	require.True(t, ok)
	assert.Equal(t, Point{10, 10}, prev)
	prev, ok = b.ExtendStroke(Point{50, 10})
	require.True(t, ok)
	assert.Equal(t, Point{20, 10}, prev)

	snap := b.Snapshot()
	require.NotNil(t, snap.Current)
	assert.Len(t, snap.Current.Points, 3)

	s, kept := b.EndStroke()
	require.True(t, kept)
	assert.Equal(t, []Point{{10, 10}, {20, 10}, {50, 10}}, s.Points)
	assert.False(t, b.Drawing())

	_, ok = b.ExtendStroke(Point{60, 10})
	assert.False(t, ok, "extend after end must be rejected")
	assert.Len(t, b.Snapshot().Strokes, 1)
}

func TestSinglePointStrokeDiscarded(t *testing.T) {
	b := NewBoard(nil)
	b.BeginStroke(Point{5, 5}, 4)
	_, kept := b.EndStroke()
	assert.False(t, kept)
	assert.Empty(t, b.Snapshot().Strokes)
}

func TestBeginStrokeEndsCurrent(t *testing.T) {
	b := NewBoard(nil)
	b.BeginStroke(Point{0, 0}, 4)
	b.ExtendStroke(Point{1, 1})
	b.BeginStroke(Point{5, 5}, 4)

	snap := b.Snapshot()
	require.Len(t, snap.Strokes, 1)
	require.NotNil(t, snap.Current)
	assert.Equal(t, []Point{{5, 5}}, snap.Current.Points)
}

func TestAddTextKeepsInsertionOrder(t *testing.T) {
	b := NewBoard(nil)
	_, ok := b.AddText(Point{1, 1}, "")
	assert.False(t, ok, "empty text is not placed")

	for i, s := range []string{"a", "b", "c"} {
		_, ok := b.AddText(Point{float32(i), 0}, s)
		require.True(t, ok)
	}
	texts := b.Snapshot().Texts
	require.Len(t, texts, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, texts[i].Text)
		if i > 0 {
			assert.Greater(t, texts[i].Seq, texts[i-1].Seq)
		}
	}
}

func TestStampsReferenceImageAtStampTime(t *testing.T) {
	b := NewBoard(nil)
	_, ok := b.AddStamp(Point{1, 1})
	assert.False(t, ok, "no image loaded")

	first := image.NewRGBA(image.Rect(0, 0, 2, 2))
	second := image.NewRGBA(image.Rect(0, 0, 3, 3))

	b.SetImage(first)
	_, ok = b.AddStamp(Point{1, 1})
	require.True(t, ok)
	b.SetImage(second)
	_, ok = b.AddStamp(Point{2, 2})
	require.True(t, ok)

	snap := b.Snapshot()
	require.Len(t, snap.Stamps, 2)
	assert.Same(t, first, snap.Stamps[0].Image)
	assert.Same(t, second, snap.Stamps[1].Image)
	assert.Same(t, second, snap.Image)
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewBoard(nil)
	b.BeginStroke(Point{0, 0}, 4)
	b.ExtendStroke(Point{1, 0})
	b.EndStroke()

	snap := b.Snapshot()
	snap.Strokes[0].Points[0] = Point{99, 99}
	assert.Equal(t, Point{0, 0}, b.Snapshot().Strokes[0].Points[0])
}

func TestClockTick(t *testing.T) {
	var c Clock
	assert.Equal(t, uint64(1), c.Tick())
	assert.Equal(t, uint64(2), c.Tick())
}
