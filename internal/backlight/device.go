package backlight

import (
	"fmt"
	"os"
	"runtime"

	"github.com/rs/zerolog/log"
)

const DefaultPath = "/sys/class/backlight/soc:backlight/brightness"

type Device interface {
	Set(on bool) error
}

var (
	goos      = runtime.GOOS
	writeFile = os.WriteFile
)

// SysfsDevice drives a brightness file that accepts 0 or 1.
type SysfsDevice struct {
	Path string
}

func NewSysfsDevice(path string) *SysfsDevice {
	if path == "" {
		path = DefaultPath
	}
	return &SysfsDevice{Path: path}
}

func (d *SysfsDevice) Set(on bool) error {
	value := "0"
	if on {
		value = "1"
	}
	if goos != "linux" {
		log.Debug().Str("value", value).Msg("Backlight write skipped on this platform")
		return nil
	}
	if err := writeFile(d.Path, []byte(value), 0644); err != nil {
		return fmt.Errorf("write backlight %s: %w", d.Path, err)
	}
	return nil
}
