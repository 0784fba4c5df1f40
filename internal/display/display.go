// Package display pushes rendered frames to the panel.
package display

import (
	"image"
)

type Sink interface {
	Show(img *image.RGBA) error
	Close() error
}

// Headless discards frames. Used when the panel runs without a screen and
// only the preview server shows frames.
type Headless struct{}

func (Headless) Show(*image.RGBA) error { return nil }
func (Headless) Close() error           { return nil }
