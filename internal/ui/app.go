package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/charmbracelet/log"

	"LocalSketch/internal/state"
	"LocalSketch/internal/surface"
)

// AppID identifies the desktop app to fyne preferences storage.
const AppID = "io.localsketch.desktop"

// NewContent wires a surface, its board widget and a tool panel into win and
// returns the window content.
func NewContent(win fyne.Window, opts surface.Options, logger *log.Logger) (fyne.CanvasObject, *BoardWidget, *ToolPanel) {
	s := surface.New(opts)
	s.SetPrompter(NewEntryPrompter(win))
	board := NewBoardWidget(s, logger)

	var panel *ToolPanel
	refresh := func() { panel.Update(s.Tool(), s.Color()) }
	panel = NewToolPanel(win, Settings{
		Tool:  s.Tool(),
		Color: s.Color(),
		OnTool: func(t state.Tool) {
			s.SetTool(t)
			refresh()
		},
		OnColor: func(c color.Color) {
			s.SetColor(c)
			refresh()
		},
		OnImage: board.LoadImage,
	})

	status := widget.NewLabel("Ready")
	board.OnStatus = status.SetText

	return container.NewBorder(panel, status, nil, nil, board), board, panel
}

// RunApp opens the desktop window and blocks until it is closed.
func RunApp(opts surface.Options, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	a := app.NewWithID(AppID)
	w := a.NewWindow("Local Sketch")

	content, board, _ := NewContent(w, opts, logger)
	opts = board.Surface().Options()
	w.SetContent(content)
	w.Resize(fyne.NewSize(float32(opts.Width)+40, float32(opts.Height)+120))
	logger.Debug("desktop window open", "width", opts.Width, "height", opts.Height)
	w.ShowAndRun()
}
