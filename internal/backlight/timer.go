package backlight

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

// Timer turns the backlight off after a period without touch interaction.
// A timeout of zero or less never turns it off.
type Timer struct {
	device  Device
	timeout time.Duration
	state   model.IdleTimerState
}

// NewTimer forces the backlight on and starts the idle period at now.
func NewTimer(device Device, timeout time.Duration, now time.Time) *Timer {
	t := &Timer{device: device, timeout: timeout}
	t.state.LastInteraction = now
	t.apply(true)
	return t
}

// Interact registers a touch. It reports true when the touch woke the panel
// and must not be handled further.
func (t *Timer) Interact(now time.Time) bool {
	t.state.LastInteraction = now
	if t.state.BacklightOn {
		return false
	}
	t.apply(true)
	log.Debug().Msg("Backlight woken by touch")
	return true
}

// Evaluate switches the backlight off once the idle period has strictly
// elapsed.
func (t *Timer) Evaluate(now time.Time) {
	if t.timeout <= 0 || !t.state.BacklightOn {
		return
	}
	if now.Sub(t.state.LastInteraction) > t.timeout {
		t.apply(false)
		log.Debug().Dur("idle", now.Sub(t.state.LastInteraction)).Msg("Backlight off after idle timeout")
	}
}

func (t *Timer) On() bool {
	return t.state.BacklightOn
}

func (t *Timer) State() model.IdleTimerState {
	return t.state
}

// Restore turns the backlight on regardless of state. Used on exit.
func (t *Timer) Restore() {
	t.apply(true)
}

func (t *Timer) apply(on bool) {
	t.state.BacklightOn = on
	if t.device == nil {
		return
	}
	if err := t.device.Set(on); err != nil {
		log.Warn().Err(err).Bool("on", on).Msg("Failed to set backlight")
	}
}
