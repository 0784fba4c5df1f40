package model

import (
	"fmt"
	"strings"
)

type Action int

const (
	ActionNone Action = iota
	ActionHomeXY
	ActionHomeZ
	ActionZUp
	ActionExtrude
	ActionToggleHeat
	ActionGetReady
	ActionStartPrint
	ActionAbortPrint
	ActionPausePrint
	ActionShutdown
	// ActionContextAction is only produced by the hardware context button and
	// is resolved against the current status before dispatch.
	ActionContextAction
)

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionHomeXY:        "home_xy",
	ActionHomeZ:         "home_z",
	ActionZUp:           "z_up",
	ActionExtrude:       "extrude",
	ActionToggleHeat:    "toggle_heat",
	ActionGetReady:      "get_ready",
	ActionStartPrint:    "start_print",
	ActionAbortPrint:    "abort_print",
	ActionPausePrint:    "pause_print",
	ActionShutdown:      "shutdown",
	ActionContextAction: "context_action",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

func ParseAction(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if n == name && a != ActionNone {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", name)
}

type ButtonID int

const (
	ButtonHomeXY ButtonID = iota
	ButtonHomeZ
	ButtonZUp
	ButtonExtrude
	ButtonGetReady
	ButtonHeatHotEnd
	ButtonStartPrint
	ButtonAbortPrint
	ButtonPausePrint
	ButtonShutdown
)

// AllButtons lists every on-screen control in draw order.
var AllButtons = []ButtonID{
	ButtonHomeXY,
	ButtonHomeZ,
	ButtonZUp,
	ButtonExtrude,
	ButtonGetReady,
	ButtonHeatHotEnd,
	ButtonStartPrint,
	ButtonAbortPrint,
	ButtonPausePrint,
	ButtonShutdown,
}

func (b ButtonID) Action() Action {
	switch b {
	case ButtonHomeXY:
		return ActionHomeXY
	case ButtonHomeZ:
		return ActionHomeZ
	case ButtonZUp:
		return ActionZUp
	case ButtonExtrude:
		return ActionExtrude
	case ButtonGetReady:
		return ActionGetReady
	case ButtonHeatHotEnd:
		return ActionToggleHeat
	case ButtonStartPrint:
		return ActionStartPrint
	case ButtonAbortPrint:
		return ActionAbortPrint
	case ButtonPausePrint:
		return ActionPausePrint
	case ButtonShutdown:
		return ActionShutdown
	default:
		return ActionNone
	}
}

func (b ButtonID) String() string {
	return b.Action().String()
}
