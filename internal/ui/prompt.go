package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

// entryPrompter asks for text with a modal form dialog on win.
type entryPrompter struct {
	win fyne.Window
}

// NewEntryPrompter returns a surface.Prompter backed by a fyne form dialog.
func NewEntryPrompter(win fyne.Window) surface.Prompter {
	return &entryPrompter{win: win}
}

func (p *entryPrompter) RequestText(_ state.Point, reply func(string, bool)) {
	entry := widget.NewEntry()
	entry.SetPlaceHolder("Enter text")
	items := []*widget.FormItem{widget.NewFormItem("Text", entry)}
	d := dialog.NewForm("Add text", "Place", "Cancel", items, func(ok bool) {
		reply(entry.Text, ok)
	}, p.win)
	d.Resize(fyne.NewSize(320, 160))
	d.Show()
	p.win.Canvas().Focus(entry)
}
