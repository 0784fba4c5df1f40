// Package window shows the panel in a desktop window for development.
package window

import (
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/thatsimonsguy/printer-panel/internal/input"
)

// Window is a display sink whose Run drives the control loop from ebiten's
// update callback. Mouse clicks become touches and Escape quits.
type Window struct {
	mu     sync.Mutex
	frame  *image.RGBA
	width  int
	height int
	queue  *input.Queue
	step   func() bool
	fbImg  *ebiten.Image
}

func New(width, height int, queue *input.Queue) *Window {
	return &Window{
		width:  width,
		height: height,
		queue:  queue,
		frame:  image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

func (w *Window) Show(img *image.RGBA) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	copy(w.frame.Pix, img.Pix)
	return nil
}

func (w *Window) Close() error {
	return nil
}

// Run blocks until step reports termination or the window is closed.
func (w *Window) Run(title string, tps int, step func() bool) error {
	w.step = step
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(w.width*2, w.height*2)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetTPS(tps)
	return ebiten.RunGame(w)
}

func (w *Window) Update() error {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		w.queue.Push(input.Touch(x, y))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || ebiten.IsWindowBeingClosed() {
		w.queue.Push(input.Quit())
	}
	if w.step != nil && w.step() {
		return ebiten.Termination
	}
	return nil
}

func (w *Window) Draw(screen *ebiten.Image) {
	if w.fbImg == nil {
		w.fbImg = ebiten.NewImage(w.width, w.height)
	}
	w.mu.Lock()
	if w.frame != nil {
		w.fbImg.WritePixels(w.frame.Pix)
	}
	w.mu.Unlock()
	screen.DrawImage(w.fbImg, nil)
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}
