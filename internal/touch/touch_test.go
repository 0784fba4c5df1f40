package touch

import (
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/printer-panel/internal/input"
)

func ev(t evdev.EvType, c evdev.EvCode, v int32) evdev.InputEvent {
	return evdev.InputEvent{Type: t, Code: c, Value: v}
}

func TestAxisScale(t *testing.T) {
	a := axis{min: 0, max: 4095}
	assert.Equal(t, 0, a.scale(0, 320))
	assert.Equal(t, 319, a.scale(4095, 320))
	assert.Equal(t, 159, a.scale(2048, 320))
	assert.Equal(t, 0, a.scale(-50, 320))
	assert.Equal(t, 319, a.scale(5000, 320))

	raw := axis{}
	assert.Equal(t, 100, raw.scale(100, 320))
	assert.Equal(t, 319, raw.scale(1000, 320))
}

func TestAssembler_TouchDown(t *testing.T) {
	a := &assembler{
		width: 320, height: 240,
		xAxis: axis{0, 319}, yAxis: axis{0, 239},
	}

	events := []evdev.InputEvent{
		ev(evdev.EV_ABS, evdev.ABS_X, 50),
		ev(evdev.EV_ABS, evdev.ABS_Y, 40),
		ev(evdev.EV_KEY, evdev.BTN_TOUCH, 1),
	}
	for _, e := range events {
		_, ok := a.feed(e)
		assert.False(t, ok)
	}

	out, ok := a.feed(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))
	assert.True(t, ok)
	assert.Equal(t, input.Touch(50, 40), out)

	// drag while held does not produce another press
	_, ok = a.feed(ev(evdev.EV_ABS, evdev.ABS_X, 60))
	assert.False(t, ok)
	_, ok = a.feed(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))
	assert.False(t, ok)

	// release then press again
	a.feed(ev(evdev.EV_KEY, evdev.BTN_TOUCH, 0))
	a.feed(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))
	a.feed(ev(evdev.EV_ABS, evdev.ABS_MT_POSITION_X, 10))
	a.feed(ev(evdev.EV_ABS, evdev.ABS_MT_POSITION_Y, 20))
	a.feed(ev(evdev.EV_KEY, evdev.BTN_TOUCH, 1))
	out, ok = a.feed(ev(evdev.EV_SYN, evdev.SYN_REPORT, 0))
	assert.True(t, ok)
	assert.Equal(t, input.Touch(10, 20), out)
}

func TestAssembler_Escape(t *testing.T) {
	a := &assembler{width: 320, height: 240}

	out, ok := a.feed(ev(evdev.EV_KEY, evdev.KEY_ESC, 1))
	assert.True(t, ok)
	assert.Equal(t, input.KindQuit, out.Kind)

	_, ok = a.feed(ev(evdev.EV_KEY, evdev.KEY_ESC, 0))
	assert.False(t, ok)
}

func TestPickAxis(t *testing.T) {
	infos := map[evdev.EvCode]evdev.AbsInfo{
		evdev.ABS_MT_POSITION_X: {Minimum: 10, Maximum: 900},
		evdev.ABS_Y:             {Minimum: 0, Maximum: 0},
	}
	assert.Equal(t, axis{10, 900}, pickAxis(infos, evdev.ABS_X, evdev.ABS_MT_POSITION_X))
	assert.Equal(t, axis{}, pickAxis(infos, evdev.ABS_Y, evdev.ABS_MT_POSITION_Y))
}

func TestClose_Nil(t *testing.T) {
	var s *Source
	assert.NoError(t, s.Close())
}
