package controller

import (
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/backlight"
	"github.com/thatsimonsguy/printer-panel/internal/buttons"
	"github.com/thatsimonsguy/printer-panel/internal/config"
	"github.com/thatsimonsguy/printer-panel/internal/display"
	"github.com/thatsimonsguy/printer-panel/internal/history"
	"github.com/thatsimonsguy/printer-panel/internal/input"
	"github.com/thatsimonsguy/printer-panel/internal/model"
	"github.com/thatsimonsguy/printer-panel/internal/octoprint"
	"github.com/thatsimonsguy/printer-panel/internal/render"
)

type Poller interface {
	Poll(ctx context.Context, prev model.PrinterStatus) (octoprint.PollResult, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, action model.Action, status model.PrinterStatus) bool
}

type Publisher interface {
	Publish(frame *image.RGBA, status model.PrinterStatus, set buttons.Set)
}

type Notifier interface {
	Notify(title, message string)
}

type StatusMetrics interface {
	PublishStatus(status model.PrinterStatus)
	Incr(name string, tags ...string)
}

// Deps are the collaborators the loop drives. Preview, Notifier, Metrics and
// Probe are optional. Closers are released when the loop exits.
type Deps struct {
	Poller     Poller
	Dispatcher Dispatcher
	Backlight  *backlight.Timer
	Queue      *input.Queue
	Renderer   *render.Renderer
	Sink       display.Sink
	Preview    Publisher
	Notifier   Notifier
	Metrics    StatusMetrics
	Probe      func()
	Closers    []io.Closer
}

type pollOutcome struct {
	result octoprint.PollResult
	err    error
}

// Loop owns the printer status, temperature history and button state. Only
// the goroutine calling Tick touches them.
type Loop struct {
	deps          Deps
	pollInterval  time.Duration
	frameInterval time.Duration
	asyncPoll     bool

	status      model.PrinterStatus
	history     *history.History
	buttons     buttons.Set
	lastPoll    time.Time
	polled      bool
	unreachable bool
	sinkFailing bool
	frame       *image.RGBA

	mailbox   chan pollOutcome
	startOnce sync.Once
	closeOnce sync.Once
	cancel    context.CancelFunc
}

func New(cfg config.Config, deps Deps) *Loop {
	status := model.NewPrinterStatus()
	return &Loop{
		deps:          deps,
		pollInterval:  cfg.PollInterval(),
		frameInterval: cfg.FrameInterval(),
		asyncPoll:     cfg.AsyncPoll,
		status:        status,
		history:       history.New(render.GraphWidth(cfg.WindowWidth)),
		buttons:       buttons.Derive(status),
		mailbox:       make(chan pollOutcome, 1),
		cancel:        func() {},
	}
}

func (l *Loop) Status() model.PrinterStatus { return l.status }
func (l *Loop) History() *history.History   { return l.history }
func (l *Loop) Buttons() buttons.Set        { return l.buttons }
func (l *Loop) Frame() *image.RGBA          { return l.frame }

// Start launches the background poller when async polling is configured.
func (l *Loop) Start(ctx context.Context) {
	l.startOnce.Do(func() {
		if !l.asyncPoll {
			return
		}
		ctx, cancel := context.WithCancel(ctx)
		l.cancel = cancel
		go l.pollWorker(ctx, l.status)
		log.Info().Dur("interval", l.pollInterval).Msg("Background polling started")
	})
}

// Run ticks at the frame interval until a tick requests termination or ctx
// is done, then releases resources.
func (l *Loop) Run(ctx context.Context) {
	l.Start(ctx)
	defer l.Close()

	ticker := time.NewTicker(l.frameInterval)
	defer ticker.Stop()

	for {
		if l.Tick(ctx, time.Now()) {
			log.Info().Msg("Control loop terminating")
			return
		}
		select {
		case <-ctx.Done():
			log.Info().Msg("Control loop cancelled")
			return
		case <-ticker.C:
		}
	}
}

// Tick runs one cycle and reports whether the panel should exit.
func (l *Loop) Tick(ctx context.Context, now time.Time) bool {
	for _, action := range l.handleInput(now) {
		if action == quitAction {
			return true
		}
		if l.deps.Dispatcher.Dispatch(ctx, action, l.status) {
			return true
		}
	}

	l.poll(ctx, now)

	l.buttons = buttons.Derive(l.status)
	l.deps.Backlight.Evaluate(now)
	l.draw()
	return false
}

// quitAction marks a quit request in the action list.
const quitAction = model.Action(-1)

func (l *Loop) handleInput(now time.Time) []model.Action {
	var actions []model.Action
	for _, ev := range l.deps.Queue.Drain() {
		switch ev.Kind {
		case input.KindQuit:
			return append(actions, quitAction)

		case input.KindTouch:
			if l.deps.Backlight.Interact(now) {
				continue
			}
			id, ok := l.deps.Renderer.Layout().HitTest(l.buttons, ev.X, ev.Y)
			if !ok {
				continue
			}
			log.Debug().Str("button", id.String()).Int("x", ev.X).Int("y", ev.Y).Msg("Button touched")
			actions = append(actions, id.Action())

		case input.KindHardware:
			action := ev.Action
			if action == model.ActionContextAction {
				resolved, ok := buttons.ContextAction(l.status)
				if !ok {
					log.Debug().Msg("Context button ignored, nothing to start or abort")
					continue
				}
				action = resolved
			}
			log.Debug().Str("action", action.String()).Msg("Hardware button pressed")
			actions = append(actions, action)
		}
	}
	return actions
}

func (l *Loop) poll(ctx context.Context, now time.Time) {
	if l.asyncPoll {
		select {
		case out := <-l.mailbox:
			l.apply(out)
		default:
		}
		return
	}

	if l.polled && now.Sub(l.lastPoll) < l.pollInterval {
		return
	}
	l.polled = true
	l.lastPoll = now

	res, err := l.deps.Poller.Poll(ctx, l.status)
	l.apply(pollOutcome{result: res, err: err})
}

func (l *Loop) apply(out pollOutcome) {
	if out.err != nil {
		if !l.unreachable {
			log.Warn().Err(out.err).Msg("Printer controller unreachable, keeping last status")
			if l.deps.Probe != nil {
				go l.deps.Probe()
			}
		}
		l.unreachable = true
		if l.deps.Metrics != nil {
			l.deps.Metrics.Incr("poll.failed")
		}
		return
	}

	if l.unreachable {
		log.Info().Msg("Printer controller reachable again")
	}
	l.unreachable = false

	if out.result.AuthFailed && !l.status.AuthFailed && l.deps.Notifier != nil {
		l.deps.Notifier.Notify("Printer panel", "The printer controller rejected the API key")
	}

	l.status = out.result.Status
	if out.result.FullUpdate {
		l.history.AppendStatus(l.status)
	}
	if l.deps.Metrics != nil {
		l.deps.Metrics.PublishStatus(l.status)
	}
}

func (l *Loop) pollWorker(ctx context.Context, prev model.PrinterStatus) {
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		res, err := l.deps.Poller.Poll(ctx, prev)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			prev = res.Status
		}
		l.post(pollOutcome{result: res, err: err})

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// post replaces any outcome the loop has not picked up yet.
func (l *Loop) post(out pollOutcome) {
	select {
	case l.mailbox <- out:
		return
	default:
	}
	select {
	case <-l.mailbox:
	default:
	}
	l.mailbox <- out
}

func (l *Loop) draw() {
	l.frame = l.deps.Renderer.Render(render.Frame{
		Status:      l.status,
		Buttons:     l.buttons,
		History:     l.history,
		Unreachable: l.unreachable,
	})

	if err := l.deps.Sink.Show(l.frame); err != nil {
		if !l.sinkFailing {
			log.Error().Err(err).Msg("Failed to show frame")
		}
		l.sinkFailing = true
	} else {
		l.sinkFailing = false
	}

	if l.deps.Preview != nil {
		l.deps.Preview.Publish(l.frame, l.status, l.buttons)
	}
}

// Close turns the backlight back on and releases hardware. Safe to call more
// than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		l.cancel()
		l.deps.Backlight.Restore()
		for _, c := range l.deps.Closers {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to release resource")
			}
		}
		if err := l.deps.Sink.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close display")
		}
	})
}
