// Package history keeps the fixed-width temperature traces drawn by the graph.
package history

import "github.com/thatsimonsguy/printer-panel/internal/model"

type ring struct {
	samples []float64
	head    int // index of the oldest sample
}

func (r *ring) push(v float64) {
	r.samples[r.head] = v
	r.head = (r.head + 1) % len(r.samples)
}

func (r *ring) ordered() []float64 {
	out := make([]float64, 0, len(r.samples))
	out = append(out, r.samples[r.head:]...)
	return append(out, r.samples[:r.head]...)
}

// History holds one ring per sensor. Both rings have the same length for the
// life of the value and start zero-filled.
type History struct {
	hotEnd ring
	bed    ring
}

func New(width int) *History {
	if width < 1 {
		width = 1
	}
	return &History{
		hotEnd: ring{samples: make([]float64, width)},
		bed:    ring{samples: make([]float64, width)},
	}
}

func (h *History) Len() int {
	return len(h.hotEnd.samples)
}

// Append evicts the oldest sample for the sensor and pushes v. Values are
// stored as given.
func (h *History) Append(sensor model.Sensor, v float64) {
	if r := h.ring(sensor); r != nil {
		r.push(v)
	}
}

// AppendStatus records one sample per sensor from a status snapshot.
func (h *History) AppendStatus(status model.PrinterStatus) {
	h.hotEnd.push(status.HotEndTemp)
	h.bed.push(status.BedTemp)
}

// Samples returns a copy ordered oldest to newest.
func (h *History) Samples(sensor model.Sensor) []float64 {
	r := h.ring(sensor)
	if r == nil {
		return nil
	}
	return r.ordered()
}

func (h *History) ring(sensor model.Sensor) *ring {
	switch sensor {
	case model.SensorHotEnd:
		return &h.hotEnd
	case model.SensorBed:
		return &h.bed
	default:
		return nil
	}
}
