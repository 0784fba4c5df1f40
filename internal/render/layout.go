package render

import (
	"image"

	"github.com/thatsimonsguy/printer-panel/internal/buttons"
	"github.com/thatsimonsguy/printer-panel/internal/model"
)

const (
	buttonTop    = 25
	buttonHeight = 25
	buttonGapY   = 5
	padding      = 5

	graphLeft   = 30
	graphTop    = 145
	graphMargin = 5

	textTop        = 85
	textLineHeight = 15
)

type slot struct {
	col, row int
}

// Start and Abort share a slot, as do Pause and Shutdown. The button table
// never shows both of a pair.
var slots = map[model.ButtonID]slot{
	model.ButtonHomeXY:     {0, 0},
	model.ButtonHomeZ:      {0, 1},
	model.ButtonZUp:        {0, 2},
	model.ButtonExtrude:    {0, 3},
	model.ButtonGetReady:   {1, 0},
	model.ButtonHeatHotEnd: {1, 1},
	model.ButtonStartPrint: {2, 0},
	model.ButtonAbortPrint: {2, 0},
	model.ButtonPausePrint: {2, 1},
	model.ButtonShutdown:   {2, 1},
}

type Layout struct {
	Width, Height int
	Spacing       int
	ButtonWidth   int
	Buttons       map[model.ButtonID]image.Rectangle
	Graph         image.Rectangle
	TextOrigin    image.Point
}

func NewLayout(width, height int) Layout {
	spacing := 5
	if width > 320 {
		spacing = 10
	}
	bw := (width - 2*padding - 2*spacing) / 3

	l := Layout{
		Width:       width,
		Height:      height,
		Spacing:     spacing,
		ButtonWidth: bw,
		Buttons:     make(map[model.ButtonID]image.Rectangle, len(slots)),
		TextOrigin:  image.Pt(padding+bw+spacing, textTop),
	}
	for id, s := range slots {
		x := padding + s.col*(bw+spacing)
		y := buttonTop + s.row*(buttonHeight+buttonGapY)
		l.Buttons[id] = image.Rect(x, y, x+bw, y+buttonHeight)
	}
	l.Graph = image.Rect(graphLeft, graphTop, graphLeft+GraphWidth(width), height-graphMargin)
	return l
}

// GraphWidth is the plot width in pixels, one history sample per pixel.
func GraphWidth(width int) int {
	w := width - graphLeft - graphMargin
	if w < 1 {
		return 1
	}
	return w
}

// HitTest returns the visible button under (x, y).
func (l Layout) HitTest(set buttons.Set, x, y int) (model.ButtonID, bool) {
	p := image.Pt(x, y)
	for _, id := range model.AllButtons {
		if !set.Visible(id) {
			continue
		}
		if p.In(l.Buttons[id]) {
			return id, true
		}
	}
	return 0, false
}
