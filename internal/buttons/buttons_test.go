package buttons

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

var idleControls = []model.ButtonID{
	model.ButtonHomeXY,
	model.ButtonHomeZ,
	model.ButtonZUp,
	model.ButtonExtrude,
	model.ButtonGetReady,
	model.ButtonHeatHotEnd,
	model.ButtonShutdown,
}

func TestDerive_Total(t *testing.T) {
	set := Derive(model.NewPrinterStatus())
	for _, id := range model.AllButtons {
		_, ok := set[id]
		assert.True(t, ok, "missing state for %s", id)
	}
}

func TestDerive_Visibility(t *testing.T) {
	tests := []struct {
		name      string
		status    model.PrinterStatus
		idle      bool
		start     bool
		abort     bool
		pause     bool
		pauseText string
	}{
		{
			name:      "idle no job",
			status:    model.PrinterStatus{},
			idle:      true,
			pauseText: CaptionPause,
		},
		{
			name:      "idle with job",
			status:    model.PrinterStatus{JobLoaded: true},
			idle:      true,
			start:     true,
			pauseText: CaptionPause,
		},
		{
			name:      "printing",
			status:    model.PrinterStatus{Printing: true, JobLoaded: true},
			abort:     true,
			pause:     true,
			pauseText: CaptionPause,
		},
		{
			name:      "paused",
			status:    model.PrinterStatus{Paused: true, JobLoaded: true},
			abort:     true,
			pause:     true,
			pauseText: CaptionResume,
		},
		{
			name:      "printing without job flag",
			status:    model.PrinterStatus{Printing: true},
			abort:     true,
			pause:     true,
			pauseText: CaptionPause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Derive(tt.status)
			for _, id := range idleControls {
				assert.Equal(t, tt.idle, set[id].Visible, "%s visibility", id)
				assert.Equal(t, set[id].Visible, set[id].Enabled, "%s enabled", id)
			}
			assert.Equal(t, tt.start, set.Visible(model.ButtonStartPrint))
			assert.Equal(t, tt.abort, set.Visible(model.ButtonAbortPrint))
			assert.Equal(t, tt.pause, set.Visible(model.ButtonPausePrint))
			assert.Equal(t, tt.pauseText, set[model.ButtonPausePrint].Caption)
			assert.False(t, set.Visible(model.ButtonStartPrint) && set.Visible(model.ButtonAbortPrint))
		})
	}
}

func TestDerive_HeatCaption(t *testing.T) {
	assert.Equal(t, CaptionHeat, Derive(model.PrinterStatus{}).Get(model.ButtonHeatHotEnd).Caption)
	assert.Equal(t, CaptionCool, Derive(model.PrinterStatus{HotEndTarget: 210}).Get(model.ButtonHeatHotEnd).Caption)
}

func TestDerive_StaticCaptions(t *testing.T) {
	set := Derive(model.PrinterStatus{JobLoaded: true})
	assert.Equal(t, CaptionHomeXY, set[model.ButtonHomeXY].Caption)
	assert.Equal(t, CaptionHomeZ, set[model.ButtonHomeZ].Caption)
	assert.Equal(t, CaptionZUp, set[model.ButtonZUp].Caption)
	assert.Equal(t, CaptionExtrude, set[model.ButtonExtrude].Caption)
	assert.Equal(t, CaptionGetReady, set[model.ButtonGetReady].Caption)
	assert.Equal(t, CaptionShutdown, set[model.ButtonShutdown].Caption)
	assert.Equal(t, CaptionStartPrint, set[model.ButtonStartPrint].Caption)
	assert.Equal(t, CaptionAbortPrint, set[model.ButtonAbortPrint].Caption)
}

func TestContextAction(t *testing.T) {
	tests := []struct {
		name   string
		status model.PrinterStatus
		action model.Action
		ok     bool
	}{
		{"printing aborts", model.PrinterStatus{Printing: true, JobLoaded: true}, model.ActionAbortPrint, true},
		{"paused aborts", model.PrinterStatus{Paused: true}, model.ActionAbortPrint, true},
		{"job loaded starts", model.PrinterStatus{JobLoaded: true}, model.ActionStartPrint, true},
		{"nothing to do", model.PrinterStatus{}, model.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, ok := ContextAction(tt.status)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
