package state

import (
	"image/color"
	"testing"
)

func TestParseTool(t *testing.T) {
	for _, tool := range Tools {
		got, err := ParseTool(tool.String())
		if err != nil {
			t.Fatalf("ParseTool(%q) error: %v", tool, err)
		}
		if got != tool {
			t.Errorf("ParseTool(%q) = %v", tool, got)
		}
	}
	if _, err := ParseTool("brush"); err == nil {
		t.Error("ParseTool(brush) should fail")
	}
	if got, _ := ParseTool("ERASER"); got != ToolEraser {
		t.Errorf("ParseTool is case-insensitive, got %v", got)
	}
}

func TestToolPaints(t *testing.T) {
	tests := map[Tool]bool{ToolPencil: true, ToolEraser: true, ToolText: false, ToolImage: false}
	for tool, want := range tests {
		if got := tool.Paints(); got != want {
			t.Errorf("%v.Paints() = %v, want %v", tool, got, want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#000000", want: color.NRGBA{A: 255}},
		{in: "#ff0000", want: color.NRGBA{R: 255, A: 255}},
		{in: "#fff", want: color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{in: "red", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseColor(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatColor(t *testing.T) {
	if got := FormatColor(color.NRGBA{R: 0x12, G: 0xab, B: 0xff, A: 0xff}); got != "#12abff" {
		t.Errorf("FormatColor = %q", got)
	}
	if got := FormatColor(nil); got != "#000000" {
		t.Errorf("FormatColor(nil) = %q", got)
	}
}

func TestOpaque(t *testing.T) {
	tests := []struct {
		in   color.Color
		want color.Color
	}{
		{color.NRGBA{R: 255, A: 128}, color.NRGBA{R: 255, A: 255}},
		{color.NRGBA{G: 10, B: 20, A: 255}, color.NRGBA{G: 10, B: 20, A: 255}},
		{color.Black, color.NRGBA{A: 255}},
		{nil, nil},
	}
	for _, tt := range tests {
		if got := Opaque(tt.in); got != tt.want {
			t.Errorf("Opaque(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
