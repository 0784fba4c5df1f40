package buttons

import "github.com/thatsimonsguy/printer-panel/internal/model"

const (
	CaptionHomeXY     = "Home X/Y"
	CaptionHomeZ      = "Home Z"
	CaptionZUp        = "Z +10"
	CaptionExtrude    = "Extrude 10"
	CaptionGetReady   = "Get Ready"
	CaptionHeat       = "Heat hot end"
	CaptionCool       = "Cool hot end"
	CaptionStartPrint = "Start print"
	CaptionAbortPrint = "Abort print"
	CaptionPause      = "Pause"
	CaptionResume     = "Resume"
	CaptionShutdown   = "Shutdown"
)

// Set is the full button state for one tick, keyed by button.
type Set map[model.ButtonID]model.ButtonState

func (s Set) Get(id model.ButtonID) model.ButtonState {
	return s[id]
}

func (s Set) Visible(id model.ButtonID) bool {
	return s[id].Visible
}

// Derive computes every button's state from status. It is total: each
// ButtonID in model.AllButtons has an entry.
func Derive(status model.PrinterStatus) Set {
	busy := status.Busy()
	idle := !busy

	heatCaption := CaptionHeat
	if status.IsHeatingHotEnd() {
		heatCaption = CaptionCool
	}
	pauseCaption := CaptionPause
	if status.Paused {
		pauseCaption = CaptionResume
	}

	return Set{
		model.ButtonHomeXY:     state(idle, CaptionHomeXY),
		model.ButtonHomeZ:      state(idle, CaptionHomeZ),
		model.ButtonZUp:        state(idle, CaptionZUp),
		model.ButtonExtrude:    state(idle, CaptionExtrude),
		model.ButtonGetReady:   state(idle, CaptionGetReady),
		model.ButtonHeatHotEnd: state(idle, heatCaption),
		model.ButtonShutdown:   state(idle, CaptionShutdown),
		model.ButtonStartPrint: state(idle && status.JobLoaded, CaptionStartPrint),
		model.ButtonAbortPrint: state(busy, CaptionAbortPrint),
		model.ButtonPausePrint: state(busy, pauseCaption),
	}
}

// ContextAction resolves the hardware context button against status.
func ContextAction(status model.PrinterStatus) (model.Action, bool) {
	switch {
	case status.Busy():
		return model.ActionAbortPrint, true
	case status.JobLoaded:
		return model.ActionStartPrint, true
	default:
		return model.ActionNone, false
	}
}

func state(visible bool, caption string) model.ButtonState {
	return model.ButtonState{Visible: visible, Caption: caption, Enabled: visible}
}
