package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DisplayFramebuffer = "fbdev"
	DisplayWindow      = "window"
	DisplayHeadless    = "headless"
)

type Buttons struct {
	GetReady *int `json:"get_ready"`
	ZUp      *int `json:"z_up"`
	Context  *int `json:"context"`
}

type GPIO struct {
	Enabled    *bool   `json:"enabled"`
	DebounceMs int     `json:"debounce_ms"`
	Buttons    Buttons `json:"buttons"`
}

type Config struct {
	ConfigFile     string
	LogLevel       zerolog.Level
	LogFile        string
	InstallService bool

	BaseURL string `json:"baseurl"`
	APIKey  string `json:"apikey"`

	UpdateTimeMs       int `json:"updatetime"`
	BacklightOffTimeMs int `json:"backlightofftime"`
	WindowWidth        int `json:"window_width"`
	WindowHeight       int `json:"window_height"`

	HTTPTimeoutMs   int  `json:"http_timeout_ms"`
	HotEndTargetC   int  `json:"hotend_target_c"`
	FrameIntervalMs int  `json:"frame_interval_ms"`
	AsyncPoll       bool `json:"async_poll"`

	Display       string `json:"display"`
	FBDevice      string `json:"fb_device"`
	TouchDevice   string `json:"touch_device"`
	BacklightPath string `json:"backlight_path"`

	GPIO GPIO `json:"gpio"`

	JournalPath string `json:"journal_path"`
	PreviewPort int    `json:"preview_port"`
	NtfyTopic   string `json:"ntfy_topic"`

	EnableDatadog bool     `json:"enable_datadog"`
	DDAgentAddr   string   `json:"dd_agent_addr"`
	DDNamespace   string   `json:"dd_namespace"`
	DDTags        []string `json:"dd_tags"`

	ServicePath string `json:"service_path"`
}

func Load() Config {
	var configFile, logLevel, logFile string
	var install bool

	flag.StringVar(&configFile, "config-file", "printer-panel.json", "Path to panel config file")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.StringVar(&logFile, "log-file", "", "Path to log file (stderr when empty)")
	flag.BoolVar(&install, "install-service", false, "Write the systemd unit for the panel and exit")
	flag.Parse()

	cfg, err := FromFile(configFile)
	if err != nil {
		panic("Failed to load config file: " + err.Error())
	}
	cfg.LogLevel = ParseLogLevel(logLevel)
	cfg.LogFile = logFile
	cfg.InstallService = install

	cfg.validate()
	return cfg
}

// FromFile decodes the JSON config at path and applies defaults. It does not
// validate.
func FromFile(path string) (Config, error) {
	var cfg Config

	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.ConfigFile = path
	cfg.applyDefaults()
	return cfg, nil
}

func ParseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (cfg *Config) applyDefaults() {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.UpdateTimeMs <= 0 {
		cfg.UpdateTimeMs = 2000
	}
	if cfg.WindowWidth <= 0 {
		cfg.WindowWidth = 320
	}
	if cfg.WindowHeight <= 0 {
		cfg.WindowHeight = 240
	}
	if cfg.HTTPTimeoutMs <= 0 {
		cfg.HTTPTimeoutMs = 5000
	}
	if cfg.HotEndTargetC <= 0 {
		cfg.HotEndTargetC = 210
	}
	if cfg.FrameIntervalMs <= 0 {
		cfg.FrameIntervalMs = 50
	}
	if cfg.Display == "" {
		cfg.Display = DisplayFramebuffer
	}
	if cfg.FBDevice == "" {
		cfg.FBDevice = "/dev/fb0"
	}
	if cfg.BacklightPath == "" {
		cfg.BacklightPath = "/sys/class/backlight/soc:backlight/brightness"
	}
	if cfg.ServicePath == "" {
		cfg.ServicePath = "/etc/systemd/system/printer-panel.service"
	}

	if cfg.GPIO.Enabled == nil {
		enabled := true
		cfg.GPIO.Enabled = &enabled
	}
	if cfg.GPIO.DebounceMs <= 0 {
		cfg.GPIO.DebounceMs = 100
	}
	if cfg.GPIO.Buttons.GetReady == nil {
		cfg.GPIO.Buttons.GetReady = intPtr(18)
	}
	if cfg.GPIO.Buttons.ZUp == nil {
		cfg.GPIO.Buttons.ZUp = intPtr(27)
	}
	if cfg.GPIO.Buttons.Context == nil {
		cfg.GPIO.Buttons.Context = intPtr(22)
	}
}

func (cfg *Config) validate() {
	var problems []string

	if cfg.BaseURL == "" {
		problems = append(problems, "baseurl is required")
	}
	if cfg.APIKey == "" {
		problems = append(problems, "apikey is required")
	}
	switch cfg.Display {
	case DisplayFramebuffer, DisplayWindow, DisplayHeadless:
	default:
		problems = append(problems, fmt.Sprintf("unknown display %q", cfg.Display))
	}

	usedPins := map[int]string{}
	pins := []struct {
		name string
		pin  *int
	}{
		{"gpio.buttons.get_ready", cfg.GPIO.Buttons.GetReady},
		{"gpio.buttons.z_up", cfg.GPIO.Buttons.ZUp},
		{"gpio.buttons.context", cfg.GPIO.Buttons.Context},
	}
	for _, p := range pins {
		if p.pin == nil {
			problems = append(problems, "missing "+p.name)
			continue
		}
		if other, exists := usedPins[*p.pin]; exists {
			problems = append(problems, fmt.Sprintf("%s and %s both use pin %d", p.name, other, *p.pin))
			continue
		}
		usedPins[*p.pin] = p.name
	}

	if len(problems) > 0 {
		panic("Invalid config: " + strings.Join(problems, ", "))
	}
}

func (cfg Config) PollInterval() time.Duration {
	return time.Duration(cfg.UpdateTimeMs) * time.Millisecond
}

// BacklightTimeout is zero or negative when the idle timer is disabled.
func (cfg Config) BacklightTimeout() time.Duration {
	return time.Duration(cfg.BacklightOffTimeMs) * time.Millisecond
}

func (cfg Config) HTTPTimeout() time.Duration {
	return time.Duration(cfg.HTTPTimeoutMs) * time.Millisecond
}

func (cfg Config) FrameInterval() time.Duration {
	return time.Duration(cfg.FrameIntervalMs) * time.Millisecond
}

// FrameRate is ticks per second for the frame interval, never below 1.
func (cfg Config) FrameRate() int {
	interval := cfg.FrameInterval()
	if interval <= 0 {
		return 1
	}
	if tps := int(time.Second / interval); tps > 1 {
		return tps
	}
	return 1
}

func (cfg Config) Debounce() time.Duration {
	return time.Duration(cfg.GPIO.DebounceMs) * time.Millisecond
}

func (cfg Config) GPIOEnabled() bool {
	return cfg.GPIO.Enabled != nil && *cfg.GPIO.Enabled
}

func intPtr(i int) *int {
	return &i
}
