package datadog

import (
	"github.com/DataDog/datadog-go/statsd"
	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/config"
	"github.com/thatsimonsguy/printer-panel/internal/model"
)

type statsdClient interface {
	Gauge(name string, value float64, tags []string, rate float64) error
	Incr(name string, tags []string, rate float64) error
	Close() error
}

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	client statsdClient
}

func InitMetrics(cfg config.Config) *Metrics {
	if !cfg.EnableDatadog {
		return nil
	}

	client, err := statsd.New(cfg.DDAgentAddr,
		statsd.WithNamespace(cfg.DDNamespace),
		statsd.WithTags(cfg.DDTags),
	)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create DogStatsD client")
		return nil
	}

	log.Info().
		Str("addr", cfg.DDAgentAddr).
		Str("namespace", cfg.DDNamespace).
		Strs("tags", cfg.DDTags).
		Msg("Datadog metrics initialized")

	return &Metrics{client: client}
}

func (m *Metrics) Gauge(name string, value float64, tags ...string) {
	if m == nil || m.client == nil {
		return
	}
	if err := m.client.Gauge(name, value, tags, 1); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to emit gauge metric")
	}
}

func (m *Metrics) Incr(name string, tags ...string) {
	if m == nil || m.client == nil {
		return
	}
	if err := m.client.Incr(name, tags, 1); err != nil {
		log.Warn().Err(err).Str("metric", name).Msg("Failed to emit count metric")
	}
}

// PublishStatus emits one gauge per temperature and job field.
func (m *Metrics) PublishStatus(s model.PrinterStatus) {
	if m == nil {
		return
	}
	m.Gauge("printer.temperature", s.HotEndTemp, "sensor:hot_end")
	m.Gauge("printer.target", s.HotEndTarget, "sensor:hot_end")
	m.Gauge("printer.temperature", s.BedTemp, "sensor:bed")
	m.Gauge("printer.target", s.BedTarget, "sensor:bed")
	m.Gauge("printer.completion", s.CompletionPercent)
	m.Gauge("printer.time_left", float64(s.PrintTimeLeftSeconds))
	m.Gauge("printer.printing", boolGauge(s.Printing))
	m.Gauge("printer.paused", boolGauge(s.Paused))
}

func (m *Metrics) Close() {
	if m == nil || m.client == nil {
		return
	}
	if err := m.client.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close DogStatsD client")
	}
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
