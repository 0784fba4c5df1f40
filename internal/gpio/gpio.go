package gpio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/thatsimonsguy/printer-panel/internal/config"
	"github.com/thatsimonsguy/printer-panel/internal/input"
	"github.com/thatsimonsguy/printer-panel/internal/model"
	"github.com/thatsimonsguy/printer-panel/internal/pinctrl"
)

// edgePoll bounds how long a watcher blocks before checking for shutdown.
const edgePoll = 200 * time.Millisecond

type Button struct {
	Name   string
	Pin    int
	Action model.Action
}

func ButtonsFromConfig(cfg config.Config) []Button {
	return []Button{
		{Name: "get_ready", Pin: *cfg.GPIO.Buttons.GetReady, Action: model.ActionGetReady},
		{Name: "z_up", Pin: *cfg.GPIO.Buttons.ZUp, Action: model.ActionZUp},
		{Name: "context", Pin: *cfg.GPIO.Buttons.Context, Action: model.ActionContextAction},
	}
}

type edgeSource interface {
	WaitForEdge(timeout time.Duration) bool
	Read() pgpio.Level
}

var (
	hostInit = func() error {
		_, err := host.Init()
		return err
	}
	pinByNumber = func(n int) pgpio.PinIO {
		return gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	}
	configureInput = pinctrl.ConfigureInput
	validatePins   = pinctrl.ValidateButtonPins
)

// Watcher owns one goroutine per button. Goroutines only push onto the queue.
type Watcher struct {
	cancel context.CancelFunc
	wg     sync.WaitGroup
	pins   []pgpio.PinIO
}

// Start configures each button as a pulled-up falling-edge input and begins
// watching it. Buttons whose pin cannot be set up are logged and skipped.
func Start(ctx context.Context, buttons []Button, debounce time.Duration, queue *input.Queue) (*Watcher, error) {
	if err := hostInit(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{cancel: cancel}

	for _, b := range buttons {
		pin := pinByNumber(b.Pin)
		if pin == nil {
			log.Error().Str("button", b.Name).Int("pin", b.Pin).Msg("GPIO pin not found")
			continue
		}
		if err := setupPin(pin, b); err != nil {
			log.Error().Err(err).Str("button", b.Name).Int("pin", b.Pin).Msg("Failed to configure button pin")
			continue
		}

		w.pins = append(w.pins, pin)
		w.wg.Add(1)
		go func(b Button, pin pgpio.PinIO) {
			defer w.wg.Done()
			watch(ctx, pin, b, NewDebouncer(debounce), queue, time.Now)
		}(b, pin)

		log.Info().Str("button", b.Name).Int("pin", b.Pin).Str("action", b.Action.String()).Msg("Watching button")
	}

	return w, nil
}

// Setup starts the watchers and then checks the pins with pinctrl. The check
// runs only once the pins are configured, so boot-time pulls are not reported.
func Setup(ctx context.Context, buttons []Button, debounce time.Duration, queue *input.Queue) (*Watcher, error) {
	w, err := Start(ctx, buttons, debounce, queue)
	if err != nil {
		return nil, err
	}

	pins := make(map[string]int, len(buttons))
	for _, b := range buttons {
		pins[b.Name] = b.Pin
	}
	if _, err := validatePins(pins); err != nil {
		log.Warn().Err(err).Msg("Could not check button pins with pinctrl")
	}
	return w, nil
}

// setupPin falls back to pinctrl for the pull-up when the driver cannot set
// pulls itself.
func setupPin(pin pgpio.PinIO, b Button) error {
	err := pin.In(pgpio.PullUp, pgpio.FallingEdge)
	if err == nil {
		return nil
	}
	log.Warn().Err(err).Int("pin", b.Pin).Msg("Driver pull-up failed, trying pinctrl")

	if perr := configureInput(b.Pin); perr != nil {
		return fmt.Errorf("%w (pinctrl: %v)", err, perr)
	}
	return pin.In(pgpio.PullNoChange, pgpio.FallingEdge)
}

func watch(ctx context.Context, src edgeSource, b Button, d *Debouncer, queue *input.Queue, now func() time.Time) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !src.WaitForEdge(edgePoll) {
			continue
		}
		if src.Read() != pgpio.Low {
			continue
		}
		if !d.Accept(now()) {
			log.Debug().Str("button", b.Name).Msg("Bounce suppressed")
			continue
		}
		queue.Push(input.Hardware(b.Action))
	}
}

// Close stops the watchers and releases their pins.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	w.cancel()
	w.wg.Wait()
	for _, pin := range w.pins {
		if err := pin.Halt(); err != nil {
			log.Warn().Err(err).Str("pin", pin.Name()).Msg("Failed to release pin")
		}
	}
	w.pins = nil
	return nil
}
