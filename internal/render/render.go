package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/llgcode/draw2d/draw2dimg"
	"github.com/llgcode/draw2d/draw2dkit"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/thatsimonsguy/printer-panel/internal/buttons"
	"github.com/thatsimonsguy/printer-panel/internal/history"
	"github.com/thatsimonsguy/printer-panel/internal/model"
)

const GraphMaxC = 250.0

// Labels above the hardware buttons, left to right.
const (
	hintGetReady = "be rdy"
	hintZUp      = "z up"
	hintAbort    = "abort"
	hintStart    = "start"

	hintTop  = 4
	hintStep = 50
)

var (
	ColorBackground = color.RGBA{41, 61, 70, 255}
	ColorButton     = color.RGBA{200, 200, 200, 255}
	ColorAbort      = color.RGBA{200, 0, 0, 255}
	ColorText       = color.RGBA{255, 255, 255, 255}
	ColorButtonText = color.RGBA{20, 20, 20, 255}
	ColorGrid       = color.RGBA{200, 200, 200, 255}
	ColorHotEnd     = color.RGBA{255, 0, 0, 255}
	ColorBed        = color.RGBA{0, 0, 255, 255}
	ColorWarning    = color.RGBA{255, 200, 0, 255}
)

// Frame is everything drawn for one tick.
type Frame struct {
	Status      model.PrinterStatus
	Buttons     buttons.Set
	History     *history.History
	Unreachable bool
}

// Renderer draws frames into a reused RGBA buffer.
type Renderer struct {
	layout Layout
	img    *image.RGBA
	face   font.Face
}

func NewRenderer(layout Layout) *Renderer {
	return &Renderer{
		layout: layout,
		img:    image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height)),
		face:   basicfont.Face7x13,
	}
}

func (r *Renderer) Layout() Layout {
	return r.layout
}

// Render draws f and returns the renderer's buffer. The buffer is overwritten
// by the next call.
func (r *Renderer) Render(f Frame) *image.RGBA {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(ColorBackground), image.Point{}, draw.Src)
	gc := draw2dimg.NewGraphicContext(r.img)

	r.drawHeader(f)
	r.drawButtons(gc, f.Buttons)
	r.drawStatusText(f.Status)
	r.drawGraph(gc, f)
	return r.img
}

func (r *Renderer) drawHeader(f Frame) {
	if !f.Status.Busy() {
		r.text(hintGetReady, padding, hintTop, ColorText)
		r.text(hintZUp, padding+hintStep, hintTop, ColorText)
	}
	switch action, _ := buttons.ContextAction(f.Status); action {
	case model.ActionAbortPrint:
		r.text(hintAbort, padding+2*hintStep, hintTop, ColorText)
	case model.ActionStartPrint:
		r.text(hintStart, padding+2*hintStep, hintTop, ColorText)
	}

	msg, clr := "", ColorText
	switch {
	case f.Status.AuthFailed:
		msg, clr = "API key rejected", ColorWarning
	case f.Unreachable:
		msg, clr = "Printer offline", ColorWarning
	case f.Status.ConnectionState != "":
		msg = f.Status.ConnectionState
	}
	if msg != "" {
		d := &font.Drawer{Face: r.face}
		w := d.MeasureString(msg).Round()
		r.text(msg, r.layout.Width-padding-w, hintTop, clr)
	}
}

func (r *Renderer) drawButtons(gc *draw2dimg.GraphicContext, set buttons.Set) {
	for _, id := range model.AllButtons {
		state := set.Get(id)
		if !state.Visible {
			continue
		}
		rect := r.layout.Buttons[id]

		fill := ColorButton
		ink := ColorButtonText
		if id == model.ButtonAbortPrint {
			fill = ColorAbort
			ink = ColorText
		}
		gc.BeginPath()
		gc.SetFillColor(fill)
		draw2dkit.RoundedRectangle(gc,
			float64(rect.Min.X), float64(rect.Min.Y),
			float64(rect.Max.X), float64(rect.Max.Y), 6, 6)
		gc.Fill()

		d := &font.Drawer{Face: r.face}
		w := d.MeasureString(state.Caption).Round()
		x := rect.Min.X + (rect.Dx()-w)/2
		y := rect.Min.Y + (rect.Dy()-13)/2
		r.text(state.Caption, x, y, ink)
	}
}

func (r *Renderer) drawStatusText(s model.PrinterStatus) {
	lines := []string{
		fmt.Sprintf("Hot end: %.1fC (%.0fC)", s.HotEndTemp, s.HotEndTarget),
		fmt.Sprintf("Bed: %.1fC (%.0fC)", s.BedTemp, s.BedTarget),
		fmt.Sprintf("Time left: %s", FormatTimeLeft(s.PrintTimeLeftSeconds)),
		fmt.Sprintf("Completion: %.1f%%", s.CompletionPercent),
	}
	if !s.Busy() {
		lines[2] = "File: " + s.FileName
	}
	origin := r.layout.TextOrigin
	for i, line := range lines {
		r.text(line, origin.X, origin.Y+i*textLineHeight, ColorText)
	}
}

func (r *Renderer) drawGraph(gc *draw2dimg.GraphicContext, f Frame) {
	g := r.layout.Graph
	draw.Draw(r.img, g, image.NewUniform(color.White), image.Point{}, draw.Src)

	gc.SetLineWidth(1)
	for t := 0.0; t <= GraphMaxC; t += 50 {
		y := r.tempY(t)
		gc.BeginPath()
		gc.SetStrokeColor(ColorGrid)
		gc.MoveTo(float64(g.Min.X), y)
		gc.LineTo(float64(g.Max.X), y)
		gc.Stroke()
		r.text(fmt.Sprintf("%.0f", t), padding, int(y)-6, ColorText)
	}

	if f.Status.HotEndTarget > 0 {
		r.hline(gc, f.Status.HotEndTarget, ColorHotEnd)
	}
	if f.Status.BedTarget > 0 {
		r.hline(gc, f.Status.BedTarget, ColorBed)
	}

	if f.History == nil {
		return
	}
	r.trace(gc, f.History.Samples(model.SensorBed), ColorBed)
	r.trace(gc, f.History.Samples(model.SensorHotEnd), ColorHotEnd)
}

func (r *Renderer) trace(gc *draw2dimg.GraphicContext, samples []float64, clr color.Color) {
	if len(samples) == 0 {
		return
	}
	x0 := float64(r.layout.Graph.Min.X)
	gc.BeginPath()
	gc.SetStrokeColor(clr)
	gc.MoveTo(x0, r.tempY(samples[0]))
	for i, v := range samples[1:] {
		gc.LineTo(x0+float64(i+1), r.tempY(v))
	}
	gc.Stroke()
}

func (r *Renderer) hline(gc *draw2dimg.GraphicContext, temp float64, clr color.Color) {
	g := r.layout.Graph
	y := r.tempY(temp)
	gc.BeginPath()
	gc.SetStrokeColor(clr)
	gc.MoveTo(float64(g.Min.X), y)
	gc.LineTo(float64(g.Max.X), y)
	gc.Stroke()
}

// tempY maps a temperature onto the graph, clipped to the plot area.
func (r *Renderer) tempY(t float64) float64 {
	g := r.layout.Graph
	if t < 0 {
		t = 0
	}
	if t > GraphMaxC {
		t = GraphMaxC
	}
	h := float64(g.Dy() - 1)
	return float64(g.Max.Y-1) - t*h/GraphMaxC
}

// text draws s with its top-left corner at (x, y).
func (r *Renderer) text(s string, x, y int, clr color.Color) {
	d := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(clr),
		Face: r.face,
	}
	d.Dot = fixed.P(x, y+r.face.Metrics().Ascent.Round())
	d.DrawString(s)
}

func FormatTimeLeft(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}
