package octoprint

import "github.com/thatsimonsguy/printer-panel/internal/model"

type temperatureReading struct {
	Actual *float64 `json:"actual"`
	Target *float64 `json:"target"`
}

// printerResponse accepts the temperature block under either name: "temps"
// on current servers, "temperature" on legacy ones. "temps" wins when both
// are present.
type printerResponse struct {
	Temps       map[string]*temperatureReading `json:"temps"`
	Temperature map[string]*temperatureReading `json:"temperature"`
}

type jobResponse struct {
	Job struct {
		File struct {
			Name *string `json:"name"`
		} `json:"file"`
	} `json:"job"`
	Progress struct {
		Completion    *float64 `json:"completion"`
		PrintTimeLeft *float64 `json:"printTimeLeft"`
	} `json:"progress"`
}

type connectionResponse struct {
	Current struct {
		State string `json:"state"`
	} `json:"current"`
}

const (
	StateOperational = "Operational"
	StatePrinting    = "Printing"
	StatePaused      = "Paused"
)

// temperatures normalizes both spellings of the temperature block. "temps"
// wins when a response carries both.
func (r printerResponse) temperatures() map[string]*temperatureReading {
	if r.Temps != nil {
		return r.Temps
	}
	return r.Temperature
}

func applyTemperatures(status *model.PrinterStatus, temps map[string]*temperatureReading) {
	tool := temps["tool0"]
	status.HotEndTemp = actual(tool)
	status.HotEndTarget = target(tool)

	if bed, ok := temps["bed"]; ok {
		status.BedTemp = actual(bed)
		status.BedTarget = target(bed)
	}
}

func applyJob(status *model.PrinterStatus, job jobResponse, conn connectionResponse) {
	state := conn.Current.State
	name := ""
	if job.Job.File.Name != nil {
		name = *job.Job.File.Name
	}

	status.ConnectionState = state
	status.Printing = state == StatePrinting
	status.Paused = state == StatePaused
	status.JobLoaded = name != "" && (state == StateOperational || status.Printing || status.Paused)

	status.FileName = name
	if name == "" {
		status.FileName = model.NothingLoaded
	}

	status.CompletionPercent = 0
	status.PrintTimeLeftSeconds = 0
	if !status.JobLoaded {
		return
	}
	if c := job.Progress.Completion; c != nil {
		status.CompletionPercent = clamp(*c, 0, 100)
	}
	if left := job.Progress.PrintTimeLeft; left != nil && *left > 0 {
		status.PrintTimeLeftSeconds = int(*left)
	}
}

func actual(r *temperatureReading) float64 {
	if r == nil || r.Actual == nil {
		return 0
	}
	return *r.Actual
}

func target(r *temperatureReading) float64 {
	if r == nil || r.Target == nil {
		return 0
	}
	return *r.Target
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
