package display

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var sysfsRoot = "/sys/class/graphics"

// Framebuffer writes frames to a Linux fbdev device. 16 bpp (RGB565) and
// 32 bpp (XRGB8888) are supported.
type Framebuffer struct {
	file   *os.File
	width  int
	height int
	bpp    int
	stride int
	buf    []byte
}

func OpenFramebuffer(device string, width, height int) (*Framebuffer, error) {
	name := filepath.Base(device)
	bpp := readSysfsInt(name, "bits_per_pixel", 16)
	if bpp != 16 && bpp != 32 {
		return nil, fmt.Errorf("framebuffer %s: unsupported depth %d bpp", device, bpp)
	}
	stride := readSysfsInt(name, "stride", width*bpp/8)

	file, err := os.OpenFile(device, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open framebuffer: %w", err)
	}

	log.Info().
		Str("device", device).
		Int("bpp", bpp).
		Int("stride", stride).
		Msg("Framebuffer opened")

	return &Framebuffer{
		file:   file,
		width:  width,
		height: height,
		bpp:    bpp,
		stride: stride,
		buf:    make([]byte, stride*height),
	}, nil
}

func (f *Framebuffer) Show(img *image.RGBA) error {
	if f.bpp == 16 {
		encodeRGB565(f.buf, img, f.stride)
	} else {
		encodeXRGB8888(f.buf, img, f.stride)
	}
	if _, err := f.file.WriteAt(f.buf, 0); err != nil {
		return fmt.Errorf("write framebuffer: %w", err)
	}
	return nil
}

func (f *Framebuffer) Close() error {
	return f.file.Close()
}

func encodeRGB565(dst []byte, img *image.RGBA, stride int) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := y * stride
		for x := 0; x < b.Dx(); x++ {
			o := row + x*2
			if o+1 >= len(dst) {
				return
			}
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			v := uint16(c.R>>3)<<11 | uint16(c.G>>2)<<5 | uint16(c.B>>3)
			dst[o] = byte(v)
			dst[o+1] = byte(v >> 8)
		}
	}
}

func encodeXRGB8888(dst []byte, img *image.RGBA, stride int) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		row := y * stride
		for x := 0; x < b.Dx(); x++ {
			o := row + x*4
			if o+3 >= len(dst) {
				return
			}
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			dst[o] = c.B
			dst[o+1] = c.G
			dst[o+2] = c.R
			dst[o+3] = 0xff
		}
	}
}

func readSysfsInt(fb, attr string, fallback int) int {
	data, err := os.ReadFile(filepath.Join(sysfsRoot, fb, attr))
	if err != nil {
		return fallback
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
