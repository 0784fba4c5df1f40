// Package touch reads a Linux touchscreen through evdev and emits panel
// coordinates onto the input queue.
package touch

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/holoplot/go-evdev"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/input"
)

type axis struct {
	min, max int32
}

// scale maps a raw axis value onto 0..size-1.
func (a axis) scale(v int32, size int) int {
	if size < 1 {
		return 0
	}
	var out int
	if a.max <= a.min {
		out = int(v)
	} else {
		out = int(int64(v-a.min) * int64(size-1) / int64(a.max-a.min))
	}
	if out < 0 {
		return 0
	}
	if out > size-1 {
		return size - 1
	}
	return out
}

// assembler folds raw evdev events into one touch per contact.
type assembler struct {
	width, height int
	xAxis, yAxis  axis
	x, y          int32
	pressed       bool
}

func (a *assembler) feed(ev evdev.InputEvent) (input.Event, bool) {
	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_X, evdev.ABS_MT_POSITION_X:
			a.x = ev.Value
		case evdev.ABS_Y, evdev.ABS_MT_POSITION_Y:
			a.y = ev.Value
		}
	case evdev.EV_KEY:
		switch ev.Code {
		case evdev.BTN_TOUCH:
			if ev.Value == 1 {
				a.pressed = true
			}
		case evdev.KEY_ESC:
			if ev.Value == 1 {
				return input.Quit(), true
			}
		}
	case evdev.EV_SYN:
		if ev.Code == evdev.SYN_REPORT && a.pressed {
			a.pressed = false
			return input.Touch(a.xAxis.scale(a.x, a.width), a.yAxis.scale(a.y, a.height)), true
		}
	}
	return input.Event{}, false
}

type Source struct {
	dev    *evdev.InputDevice
	path   string
	asm    *assembler
	closed atomic.Bool
}

// Open finds the touch device by path or name. An empty selector picks the
// first device that reports absolute axes.
func Open(selector string, width, height int) (*Source, error) {
	dev, path, err := findDevice(selector)
	if err != nil {
		return nil, err
	}

	asm := &assembler{width: width, height: height}
	if infos, err := dev.AbsInfos(); err == nil {
		asm.xAxis = pickAxis(infos, evdev.ABS_X, evdev.ABS_MT_POSITION_X)
		asm.yAxis = pickAxis(infos, evdev.ABS_Y, evdev.ABS_MT_POSITION_Y)
	} else {
		log.Warn().Err(err).Str("device", path).Msg("No axis ranges, using raw coordinates")
	}

	name, _ := dev.Name()
	log.Info().
		Str("device", path).
		Str("name", name).
		Int32("x_max", asm.xAxis.max).
		Int32("y_max", asm.yAxis.max).
		Msg("Touch input opened")

	return &Source{dev: dev, path: path, asm: asm}, nil
}

func pickAxis(infos map[evdev.EvCode]evdev.AbsInfo, codes ...evdev.EvCode) axis {
	for _, code := range codes {
		if info, ok := infos[code]; ok && info.Maximum > info.Minimum {
			return axis{min: info.Minimum, max: info.Maximum}
		}
	}
	return axis{}
}

func findDevice(selector string) (*evdev.InputDevice, string, error) {
	if strings.HasPrefix(selector, "/dev/") {
		dev, err := evdev.Open(selector)
		if err != nil {
			return nil, "", fmt.Errorf("open touch device %s: %w", selector, err)
		}
		return dev, selector, nil
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, "", fmt.Errorf("list input devices: %w", err)
	}

	for _, ip := range paths {
		if selector != "" && ip.Name != selector {
			continue
		}
		dev, err := evdev.Open(ip.Path)
		if err != nil {
			log.Debug().Err(err).Str("device", ip.Path).Msg("Skipping input device")
			continue
		}
		if selector != "" || hasAbs(dev) {
			return dev, ip.Path, nil
		}
		dev.Close()
	}

	if selector == "" {
		return nil, "", fmt.Errorf("no touch device found")
	}
	return nil, "", fmt.Errorf("touch device %q not found", selector)
}

func hasAbs(dev *evdev.InputDevice) bool {
	for _, t := range dev.CapableTypes() {
		if t == evdev.EV_ABS {
			return true
		}
	}
	return false
}

// Run reads events until ctx is done or the source is closed.
func (s *Source) Run(ctx context.Context, queue *input.Queue) {
	for {
		ev, err := s.dev.ReadOne()
		if err != nil {
			if s.closed.Load() || ctx.Err() != nil {
				return
			}
			log.Warn().Err(err).Str("device", s.path).Msg("Touch read error")
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if out, ok := s.asm.feed(*ev); ok {
			queue.Push(out)
		}
	}
}

func (s *Source) Close() error {
	if s == nil || s.closed.Swap(true) {
		return nil
	}
	return s.dev.Close()
}
