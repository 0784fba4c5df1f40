package model

import (
	"fmt"
	"time"
)

const NothingLoaded = "Nothing"

// PrinterStatus is the snapshot of remote machine state. It is replaced
// wholesale on every successful poll.
type PrinterStatus struct {
	HotEndTemp   float64 `json:"hot_end_temp"`
	HotEndTarget float64 `json:"hot_end_target"`
	BedTemp      float64 `json:"bed_temp"`
	BedTarget    float64 `json:"bed_target"`

	Printing  bool `json:"printing"`
	Paused    bool `json:"paused"`
	JobLoaded bool `json:"job_loaded"`

	CompletionPercent    float64 `json:"completion_percent"`
	PrintTimeLeftSeconds int     `json:"print_time_left_seconds"`
	FileName             string  `json:"file_name"`

	ConnectionState string    `json:"connection_state"`
	AuthFailed      bool      `json:"auth_failed"`
	LastUpdated     time.Time `json:"last_updated"`
}

func NewPrinterStatus() PrinterStatus {
	return PrinterStatus{FileName: NothingLoaded}
}

func (s PrinterStatus) IsHeatingHotEnd() bool {
	return s.HotEndTarget > 0.0
}

// Busy reports whether a job is running or paused on the printer.
func (s PrinterStatus) Busy() bool {
	return s.Printing || s.Paused
}

type Sensor int

const (
	SensorHotEnd Sensor = iota
	SensorBed
)

func (s Sensor) String() string {
	switch s {
	case SensorHotEnd:
		return "hot_end"
	case SensorBed:
		return "bed"
	default:
		return fmt.Sprintf("sensor(%d)", int(s))
	}
}

type Endpoint string

const (
	EndpointPrintHead Endpoint = "printhead"
	EndpointTool      Endpoint = "tool"
	EndpointBed       Endpoint = "bed"
	EndpointJob       Endpoint = "job"
)

// Path is the API path the endpoint is posted to.
func (e Endpoint) Path() string {
	switch e {
	case EndpointPrintHead, EndpointTool, EndpointBed:
		return "/api/printer/" + string(e)
	case EndpointJob:
		return "/api/job"
	default:
		return ""
	}
}

// OutboundCommand is built fresh for a single dispatch and never retained.
type OutboundCommand struct {
	Endpoint Endpoint
	Payload  map[string]any
}

type ButtonState struct {
	Visible bool   `json:"visible"`
	Caption string `json:"caption"`
	Enabled bool   `json:"enabled"`
}

type IdleTimerState struct {
	LastInteraction time.Time
	BacklightOn     bool
}

// CommandRecord is a journal entry for one dispatched command.
type CommandRecord struct {
	ID       int64
	Action   string
	Endpoint string
	Payload  string
	Status   string
	Error    string
	SentAt   time.Time
}

const (
	CommandSent   = "sent"
	CommandFailed = "failed"
)
