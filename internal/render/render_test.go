package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thatsimonsguy/printer-panel/internal/buttons"
	"github.com/thatsimonsguy/printer-panel/internal/history"
	"github.com/thatsimonsguy/printer-panel/internal/model"
)

func TestNewLayout_Default(t *testing.T) {
	l := NewLayout(320, 240)

	assert.Equal(t, 5, l.Spacing)
	assert.Equal(t, 100, l.ButtonWidth)
	assert.Equal(t, image.Rect(5, 25, 105, 50), l.Buttons[model.ButtonHomeXY])
	assert.Equal(t, image.Rect(5, 115, 105, 140), l.Buttons[model.ButtonExtrude])
	assert.Equal(t, image.Rect(110, 55, 210, 80), l.Buttons[model.ButtonHeatHotEnd])
	assert.Equal(t, l.Buttons[model.ButtonStartPrint], l.Buttons[model.ButtonAbortPrint])
	assert.Equal(t, l.Buttons[model.ButtonPausePrint], l.Buttons[model.ButtonShutdown])
	assert.Equal(t, image.Rect(215, 25, 315, 50), l.Buttons[model.ButtonStartPrint])
	assert.Equal(t, image.Rect(30, 145, 315, 235), l.Graph)
	assert.Equal(t, image.Pt(110, 85), l.TextOrigin)
	assert.Equal(t, 285, GraphWidth(320))
}

func TestNewLayout_WideSpacing(t *testing.T) {
	l := NewLayout(480, 320)
	assert.Equal(t, 10, l.Spacing)
	assert.Equal(t, 150, l.ButtonWidth)
	assert.Equal(t, 445, l.Graph.Dx())
}

func TestGraphWidth_Minimum(t *testing.T) {
	assert.Equal(t, 1, GraphWidth(10))
}

func TestHitTest(t *testing.T) {
	l := NewLayout(320, 240)

	idle := buttons.Derive(model.PrinterStatus{JobLoaded: true})
	printing := buttons.Derive(model.PrinterStatus{Printing: true, JobLoaded: true})

	tests := []struct {
		name  string
		set   buttons.Set
		x, y  int
		id    model.ButtonID
		found bool
	}{
		{"home xy", idle, 10, 30, model.ButtonHomeXY, true},
		{"extrude", idle, 50, 139, model.ButtonExtrude, true},
		{"start when idle", idle, 250, 30, model.ButtonStartPrint, true},
		{"abort when printing", printing, 250, 30, model.ButtonAbortPrint, true},
		{"shutdown when idle", idle, 250, 60, model.ButtonShutdown, true},
		{"pause when printing", printing, 250, 60, model.ButtonPausePrint, true},
		{"hidden home while printing", printing, 10, 30, 0, false},
		{"gap between buttons", idle, 107, 30, 0, false},
		{"graph area", idle, 100, 200, 0, false},
		{"right edge is exclusive", idle, 105, 30, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := l.HitTest(tt.set, tt.x, tt.y)
			assert.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.id, id)
			}
		})
	}
}

func TestFormatTimeLeft(t *testing.T) {
	tests := map[int]string{
		0:     "0:00:00",
		59:    "0:00:59",
		120:   "0:02:00",
		3661:  "1:01:01",
		36000: "10:00:00",
		-5:    "0:00:00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatTimeLeft(in))
	}
}

func TestRender(t *testing.T) {
	l := NewLayout(320, 240)
	r := NewRenderer(l)
	h := history.New(GraphWidth(320))
	h.Append(model.SensorHotEnd, 200)
	h.Append(model.SensorBed, 60)

	idle := model.PrinterStatus{HotEndTemp: 25, FileName: model.NothingLoaded}
	img := r.Render(Frame{Status: idle, Buttons: buttons.Derive(idle), History: h})

	require.Equal(t, image.Rect(0, 0, 320, 240), img.Bounds())
	assert.Equal(t, ColorBackground, img.RGBAAt(1, 239))

	home := l.Buttons[model.ButtonHomeXY]
	assert.Equal(t, ColorButton, img.RGBAAt(home.Min.X+2, home.Min.Y+12))

	printing := model.PrinterStatus{Printing: true, JobLoaded: true, FileName: "a.gcode"}
	img = r.Render(Frame{Status: printing, Buttons: buttons.Derive(printing), History: h})
	assert.Equal(t, ColorBackground, img.RGBAAt(home.Min.X+2, home.Min.Y+12))

	abort := l.Buttons[model.ButtonAbortPrint]
	assert.Equal(t, ColorAbort, img.RGBAAt(abort.Min.X+2, abort.Min.Y+12))
}

func TestRender_NilHistory(t *testing.T) {
	r := NewRenderer(NewLayout(320, 240))
	assert.NotPanics(t, func() {
		r.Render(Frame{Status: model.NewPrinterStatus(), Buttons: buttons.Derive(model.NewPrinterStatus()), Unreachable: true})
	})
}

// inkIn counts pixels in rect drawn in the text colour.
func inkIn(img *image.RGBA, rect image.Rectangle) int {
	n := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if img.RGBAAt(x, y) == ColorText {
				n++
			}
		}
	}
	return n
}

func TestRender_HardwareHints(t *testing.T) {
	jobLoaded := model.PrinterStatus{JobLoaded: true, FileName: "part.gcode"}
	printing := model.PrinterStatus{Printing: true, JobLoaded: true, FileName: "part.gcode"}

	tests := []struct {
		name       string
		status     model.PrinterStatus
		wantMotion bool
		wantHint   string
	}{
		{"idle without job", model.NewPrinterStatus(), true, ""},
		{"idle with job", jobLoaded, true, hintStart},
		{"printing", printing, false, hintAbort},
	}

	motionArea := image.Rect(padding, hintTop, padding+2*hintStep, hintTop+13)
	contextArea := image.Rect(padding+2*hintStep, hintTop, padding+3*hintStep, hintTop+13)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRenderer(NewLayout(320, 240))
			img := r.Render(Frame{Status: tt.status, Buttons: buttons.Derive(tt.status)})

			if tt.wantMotion {
				assert.Positive(t, inkIn(img, motionArea))
			} else {
				assert.Zero(t, inkIn(img, motionArea))
			}

			if tt.wantHint == "" {
				assert.Zero(t, inkIn(img, contextArea))
				return
			}

			ref := NewRenderer(NewLayout(320, 240))
			ref.text(tt.wantHint, padding+2*hintStep, hintTop, ColorText)
			assert.Equal(t, inkIn(ref.img, contextArea), inkIn(img, contextArea))
		})
	}
}
