package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/state"
)

// imageExtensions are the files offered by the upload dialog.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// Settings is what the tool panel shows and whom it tells about changes.
// The panel never changes Tool or Color itself; owners call Update.
type Settings struct {
	Tool  state.Tool
	Color color.Color

	OnTool  func(state.Tool)
	OnColor func(color.Color)
	OnImage func(fyne.URIReadCloser)
}

// ToolPanel is the row of tool buttons, the color swatch and the upload
// button.
type ToolPanel struct {
	widget.BaseWidget

	settings Settings
	window   fyne.Window
	buttons  map[state.Tool]*toolButton
	swatch   *colorSwatch
	upload   *toolButton
}

// NewToolPanel builds a panel for s. win parents the picker and file dialogs.
func NewToolPanel(win fyne.Window, s Settings) *ToolPanel {
	if s.Color == nil {
		s.Color = color.Black
	}
	p := &ToolPanel{
		settings: s,
		window:   win,
		buttons:  make(map[state.Tool]*toolButton, len(state.Tools)),
	}
	for _, t := range state.Tools {
		p.buttons[t] = newToolButton(toolFace(t), func() {
			if p.settings.OnTool != nil {
				p.settings.OnTool(t)
			}
		})
	}
	p.swatch = newColorSwatch(s.Color, p.pickColor)
	p.upload = newToolButton(widget.NewIcon(theme.FolderOpenIcon()), p.pickImage)
	p.Update(s.Tool, s.Color)
	p.ExtendBaseWidget(p)
	return p
}

func toolFace(t state.Tool) fyne.CanvasObject {
	switch t {
	case state.ToolText:
		txt := canvas.NewText("T", color.Black)
		txt.TextSize = 20
		txt.TextStyle = fyne.TextStyle{Bold: true}
		txt.Alignment = fyne.TextAlignCenter
		return txt
	case state.ToolEraser:
		return widget.NewIcon(theme.DeleteIcon())
	case state.ToolImage:
		return widget.NewIcon(theme.FileImageIcon())
	default:
		return widget.NewIcon(theme.DocumentCreateIcon())
	}
}

// Update re-renders the panel with the owner's current tool and color.
func (p *ToolPanel) Update(tool state.Tool, c color.Color) {
	p.settings.Tool = tool
	p.settings.Color = c
	for t, b := range p.buttons {
		b.SetSelected(t == tool)
	}
	p.swatch.SetColor(c)
}

func (p *ToolPanel) pickColor(current color.Color) {
	if p.window == nil {
		return
	}
	picker := dialog.NewColorPicker("Stroke color", "Choose the pencil color", func(c color.Color) {
		if p.settings.OnColor != nil {
			p.settings.OnColor(c)
		}
	}, p.window)
	picker.Advanced = true
	picker.SetColor(current)
	picker.Show()
}

func (p *ToolPanel) pickImage() {
	if p.window == nil {
		return
	}
	fd := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		if p.settings.OnImage == nil {
			r.Close()
			return
		}
		p.settings.OnImage(r)
	}, p.window)
	fd.SetFilter(storage.NewExtensionFileFilter(imageExtensions))
	fd.Show()
}

func (p *ToolPanel) CreateRenderer() fyne.WidgetRenderer {
	row := container.NewHBox(widget.NewLabel("Tool:"))
	for _, t := range state.Tools {
		row.Add(p.buttons[t])
	}
	row.Add(widget.NewSeparator())
	row.Add(widget.NewLabel("Color:"))
	row.Add(p.swatch)
	row.Add(widget.NewSeparator())
	row.Add(p.upload)
	row.Add(layout.NewSpacer())
	return widget.NewSimpleRenderer(row)
}

// --- Tool buttons ---

type toolButton struct {
	widget.BaseWidget
	content  fyne.CanvasObject
	selected bool
	OnTapped func()
}

func newToolButton(content fyne.CanvasObject, tapped func()) *toolButton {
	b := &toolButton{content: content, OnTapped: tapped}
	b.ExtendBaseWidget(b)
	return b
}

func (b *toolButton) SetSelected(on bool) {
	if b.selected == on {
		return
	}
	b.selected = on
	b.Refresh()
}

func (b *toolButton) Tapped(*fyne.PointEvent) {
	if b.OnTapped != nil {
		b.OnTapped()
	}
}

func (b *toolButton) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.White)
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 120}
	r := &toolButtonRenderer{
		button:  b,
		bg:      bg,
		border:  border,
		objects: []fyne.CanvasObject{bg, b.content, border},
	}
	r.Refresh()
	return r
}

type toolButtonRenderer struct {
	button  *toolButton
	bg      *canvas.Rectangle
	border  *canvas.Rectangle
	objects []fyne.CanvasObject
}

const buttonInset = 6

func (r *toolButtonRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.border.Resize(size)
	r.button.content.Move(fyne.NewPos(buttonInset, buttonInset))
	r.button.content.Resize(size.SubtractWidthHeight(2*buttonInset, 2*buttonInset))
}

func (r *toolButtonRenderer) MinSize() fyne.Size { return fyne.NewSize(36, 40) }

func (r *toolButtonRenderer) Refresh() {
	r.border.StrokeWidth = 1
	if r.button.selected {
		r.border.StrokeWidth = 3
	}
	r.border.Refresh()
	r.button.content.Refresh()
}

func (r *toolButtonRenderer) Objects() []fyne.CanvasObject { return r.objects }

func (r *toolButtonRenderer) Destroy() {}

// --- Color swatch ---

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
	rect     *canvas.Rectangle
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped, rect: canvas.NewRectangle(c)}
	s.rect.SetMinSize(fyne.NewSize(32, 32))
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) SetColor(c color.Color) {
	s.Color = c
	s.rect.FillColor = c
	s.rect.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1
	return widget.NewSimpleRenderer(container.NewStack(s.rect, border))
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}
