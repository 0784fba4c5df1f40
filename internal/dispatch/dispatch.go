package dispatch

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/model"
	"github.com/thatsimonsguy/printer-panel/system/shutdown"
)

const (
	ZUpDistance   = 10
	ExtrudeAmount = 10
)

type Sender interface {
	Post(ctx context.Context, endpoint model.Endpoint, payload map[string]any) error
}

type Recorder interface {
	RecordCommand(rec model.CommandRecord) error
}

type Counter interface {
	Incr(name string, tags ...string)
}

// Dispatcher turns actions into controller commands. Journal and Metrics are
// optional.
type Dispatcher struct {
	Sender      Sender
	Journal     Recorder
	Metrics     Counter
	HeatTargetC int
	Shutdown    func() error
}

func New(sender Sender, heatTargetC int) *Dispatcher {
	return &Dispatcher{
		Sender:      sender,
		HeatTargetC: heatTargetC,
		Shutdown:    shutdown.Shutdown,
	}
}

// Dispatch runs action against the current status and reports whether the
// panel should terminate.
func (d *Dispatcher) Dispatch(ctx context.Context, action model.Action, status model.PrinterStatus) bool {
	switch action {
	case model.ActionHomeXY:
		d.HomeXY(ctx)
	case model.ActionHomeZ:
		d.HomeZ(ctx)
	case model.ActionZUp:
		d.ZUp(ctx)
	case model.ActionExtrude:
		d.Extrude(ctx)
	case model.ActionToggleHeat:
		d.ToggleHeat(ctx, status.IsHeatingHotEnd())
	case model.ActionGetReady:
		d.GetReady(ctx, status.IsHeatingHotEnd())
	case model.ActionStartPrint:
		d.StartPrint(ctx)
	case model.ActionAbortPrint:
		d.AbortPrint(ctx)
	case model.ActionPausePrint:
		d.PausePrint(ctx)
	case model.ActionShutdown:
		d.ShutdownHost()
		return true
	default:
		log.Warn().Str("action", action.String()).Msg("Ignoring unhandled action")
	}
	return false
}

func (d *Dispatcher) HomeXY(ctx context.Context) {
	d.send(ctx, model.ActionHomeXY, model.EndpointPrintHead, map[string]any{
		"command": "home",
		"axes":    []string{"x", "y"},
	})
}

func (d *Dispatcher) HomeZ(ctx context.Context) {
	d.send(ctx, model.ActionHomeZ, model.EndpointPrintHead, map[string]any{
		"command": "home",
		"axes":    []string{"z"},
	})
}

func (d *Dispatcher) ZUp(ctx context.Context) {
	d.send(ctx, model.ActionZUp, model.EndpointPrintHead, map[string]any{
		"command": "jog",
		"x":       0,
		"y":       0,
		"z":       ZUpDistance,
	})
}

func (d *Dispatcher) Extrude(ctx context.Context) {
	d.send(ctx, model.ActionExtrude, model.EndpointPrintHead, map[string]any{
		"command": "extrude",
		"amount":  ExtrudeAmount,
	})
}

// ToggleHeat cools the hot end when heating and heats it otherwise.
func (d *Dispatcher) ToggleHeat(ctx context.Context, heating bool) {
	target := d.HeatTargetC
	if heating {
		target = 0
	}
	d.send(ctx, model.ActionToggleHeat, model.EndpointTool, map[string]any{
		"command": "target",
		"targets": map[string]any{"tool0": target},
	})
}

// GetReady heats the hot end if it is cold, then homes all axes. Steps do not
// wait on each other.
func (d *Dispatcher) GetReady(ctx context.Context, heating bool) {
	if !heating {
		d.ToggleHeat(ctx, false)
	}
	d.HomeXY(ctx)
	d.HomeZ(ctx)
}

func (d *Dispatcher) StartPrint(ctx context.Context) {
	d.send(ctx, model.ActionStartPrint, model.EndpointJob, map[string]any{"command": "start"})
}

func (d *Dispatcher) AbortPrint(ctx context.Context) {
	d.send(ctx, model.ActionAbortPrint, model.EndpointJob, map[string]any{"command": "cancel"})
}

// PausePrint always sends pause; the controller toggles between paused and
// printing.
func (d *Dispatcher) PausePrint(ctx context.Context) {
	d.send(ctx, model.ActionPausePrint, model.EndpointJob, map[string]any{"command": "pause"})
}

func (d *Dispatcher) ShutdownHost() {
	if d.Metrics != nil {
		d.Metrics.Incr("command.sent", "action:"+model.ActionShutdown.String())
	}
	if d.Shutdown == nil {
		return
	}
	if err := d.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Local shutdown failed")
	}
}

func (d *Dispatcher) send(ctx context.Context, action model.Action, endpoint model.Endpoint, payload map[string]any) {
	cmd := model.OutboundCommand{Endpoint: endpoint, Payload: payload}

	err := d.Sender.Post(ctx, cmd.Endpoint, cmd.Payload)
	status := model.CommandSent
	if err != nil {
		status = model.CommandFailed
		log.Warn().Err(err).
			Str("action", action.String()).
			Str("endpoint", string(endpoint)).
			Msg("Command failed")
	} else {
		log.Info().
			Str("action", action.String()).
			Str("endpoint", string(endpoint)).
			Msg("Command sent")
	}

	if d.Metrics != nil {
		d.Metrics.Incr("command."+status, "action:"+action.String())
	}
	if d.Journal != nil {
		d.record(action, cmd, status, err)
	}
}

func (d *Dispatcher) record(action model.Action, cmd model.OutboundCommand, status string, sendErr error) {
	body, _ := json.Marshal(cmd.Payload)
	rec := model.CommandRecord{
		Action:   action.String(),
		Endpoint: string(cmd.Endpoint),
		Payload:  string(body),
		Status:   status,
	}
	if sendErr != nil {
		rec.Error = sendErr.Error()
	}
	if err := d.Journal.RecordCommand(rec); err != nil {
		log.Warn().Err(err).Str("action", action.String()).Msg("Failed to journal command")
	}
}
