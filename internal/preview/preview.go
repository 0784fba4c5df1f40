// Package preview serves the latest rendered frame and status over HTTP.
package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"sync/atomic"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/buttons"
	"github.com/thatsimonsguy/printer-panel/internal/model"
)

type snapshot struct {
	frame   *image.RGBA
	status  model.PrinterStatus
	buttons map[string]model.ButtonState
}

type StatusResponse struct {
	Status  model.PrinterStatus          `json:"status"`
	Buttons map[string]model.ButtonState `json:"buttons"`
}

type Server struct {
	app    *fiber.App
	latest atomic.Pointer[snapshot]
}

func New() *Server {
	s := &Server{
		app: fiber.New(fiber.Config{DisableStartupMessage: true}),
	}
	s.app.Get("/frame", s.serveFrame)
	s.app.Get("/status", s.serveStatus)
	return s
}

// Publish stores the frame so the caller may reuse its buffer. Published
// frames are never written again, so an unchanged frame shares the previous
// copy instead of allocating a new one.
func (s *Server) Publish(frame *image.RGBA, status model.PrinterStatus, set buttons.Set) {
	var cp *image.RGBA
	if prev := s.latest.Load(); prev != nil && prev.frame.Bounds() == frame.Bounds() && bytes.Equal(prev.frame.Pix, frame.Pix) {
		cp = prev.frame
	} else {
		cp = image.NewRGBA(frame.Bounds())
		copy(cp.Pix, frame.Pix)
	}

	named := make(map[string]model.ButtonState, len(set))
	for id, st := range set {
		named[id.String()] = st
	}
	s.latest.Store(&snapshot{frame: cp, status: status, buttons: named})
}

func (s *Server) serveFrame(c *fiber.Ctx) error {
	snap := s.latest.Load()
	if snap == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No frame available")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, snap.frame); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to encode image")
	}

	c.Set("Content-Type", "image/png")
	c.Set("Content-Length", strconv.Itoa(buf.Len()))
	return c.Send(buf.Bytes())
}

func (s *Server) serveStatus(c *fiber.Ctx) error {
	snap := s.latest.Load()
	if snap == nil {
		return c.Status(fiber.StatusServiceUnavailable).SendString("No status available")
	}
	return c.JSON(StatusResponse{Status: snap.status, Buttons: snap.buttons})
}

// Listen blocks serving on port until Shutdown.
func (s *Server) Listen(port int) error {
	addr := fmt.Sprintf(":%d", port)
	log.Info().Str("addr", addr).Msg("Starting preview server")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
