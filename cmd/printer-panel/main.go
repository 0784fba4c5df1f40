package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/db"
	"github.com/thatsimonsguy/printer-panel/internal/backlight"
	"github.com/thatsimonsguy/printer-panel/internal/config"
	"github.com/thatsimonsguy/printer-panel/internal/controller"
	"github.com/thatsimonsguy/printer-panel/internal/datadog"
	"github.com/thatsimonsguy/printer-panel/internal/dispatch"
	"github.com/thatsimonsguy/printer-panel/internal/display"
	"github.com/thatsimonsguy/printer-panel/internal/display/window"
	"github.com/thatsimonsguy/printer-panel/internal/gpio"
	"github.com/thatsimonsguy/printer-panel/internal/input"
	"github.com/thatsimonsguy/printer-panel/internal/logging"
	"github.com/thatsimonsguy/printer-panel/internal/netcheck"
	"github.com/thatsimonsguy/printer-panel/internal/notifications"
	"github.com/thatsimonsguy/printer-panel/internal/octoprint"
	"github.com/thatsimonsguy/printer-panel/internal/preview"
	"github.com/thatsimonsguy/printer-panel/internal/render"
	"github.com/thatsimonsguy/printer-panel/internal/touch"
	"github.com/thatsimonsguy/printer-panel/system/startup"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel, cfg.LogFile)

	if cfg.InstallService {
		if err := startup.InstallService(cfg.ServicePath, cfg.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to install service")
		}
		return
	}

	log.Info().
		Str("baseurl", cfg.BaseURL).
		Str("display", cfg.Display).
		Int("width", cfg.WindowWidth).
		Int("height", cfg.WindowHeight).
		Dur("poll_interval", cfg.PollInterval()).
		Msg("Starting printer panel")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue := input.NewQueue(input.DefaultCapacity)
	var closers []io.Closer

	if cfg.GPIOEnabled() {
		watcher, err := gpio.Setup(ctx, gpio.ButtonsFromConfig(cfg), cfg.Debounce(), queue)
		if err != nil {
			log.Warn().Err(err).Msg("Hardware buttons unavailable")
		} else {
			closers = append(closers, watcher)
		}
	}

	client := octoprint.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout())
	metrics := datadog.InitMetrics(cfg)
	defer metrics.Close()

	dispatcher := dispatch.New(client, cfg.HotEndTargetC)
	if metrics != nil {
		dispatcher.Metrics = metrics
	}
	if cfg.JournalPath != "" {
		dbConn, err := db.Open(cfg.JournalPath)
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.JournalPath).Msg("Command journal disabled")
		} else {
			journal := db.NewJournal(dbConn)
			dispatcher.Journal = journal
			closers = append(closers, journal)
		}
	}

	var sink display.Sink
	var win *window.Window
	switch cfg.Display {
	case config.DisplayWindow:
		win = window.New(cfg.WindowWidth, cfg.WindowHeight, queue)
		sink = win
	case config.DisplayHeadless:
		sink = display.Headless{}
	default:
		fb, err := display.OpenFramebuffer(cfg.FBDevice, cfg.WindowWidth, cfg.WindowHeight)
		if err != nil {
			log.Fatal().Err(err).Str("device", cfg.FBDevice).Msg("Failed to open framebuffer")
		}
		sink = fb

		src, err := touch.Open(cfg.TouchDevice, cfg.WindowWidth, cfg.WindowHeight)
		if err != nil {
			log.Warn().Err(err).Msg("Touchscreen unavailable")
		} else {
			closers = append(closers, src)
			go src.Run(ctx, queue)
		}
	}

	deps := controller.Deps{
		Poller:     client,
		Dispatcher: dispatcher,
		Backlight:  backlight.NewTimer(backlight.NewSysfsDevice(cfg.BacklightPath), cfg.BacklightTimeout(), time.Now()),
		Queue:      queue,
		Renderer:   render.NewRenderer(render.NewLayout(cfg.WindowWidth, cfg.WindowHeight)),
		Sink:       sink,
		Probe:      func() { probeHost(client.BaseURL()) },
		Closers:    closers,
	}
	if metrics != nil {
		deps.Metrics = metrics
	}
	if notifier := notifications.New(cfg.NtfyTopic); notifier != nil {
		deps.Notifier = notifier
	}
	if cfg.PreviewPort > 0 {
		srv := preview.New()
		deps.Preview = srv
		go func() {
			if err := srv.Listen(cfg.PreviewPort); err != nil {
				log.Error().Err(err).Msg("Preview server stopped")
			}
		}()
		defer srv.Shutdown()
	}

	loop := controller.New(cfg, deps)

	if win != nil {
		loop.Start(ctx)
		defer loop.Close()
		err := win.Run("Printer panel", cfg.FrameRate(), func() bool {
			return ctx.Err() != nil || loop.Tick(ctx, time.Now())
		})
		if err != nil {
			log.Error().Err(err).Msg("Window closed with error")
		}
		return
	}

	loop.Run(ctx)
	log.Info().Msg("Printer panel stopped")
}

func probeHost(baseURL string) {
	host, err := netcheck.Host(baseURL)
	if err != nil {
		log.Warn().Err(err).Msg("Cannot probe printer host")
		return
	}
	res, err := netcheck.Probe(host, 3, 3*time.Second)
	if err != nil {
		log.Warn().Err(err).Str("host", host).Msg("Ping failed")
		return
	}
	log.Info().
		Str("host", res.Host).
		Int("sent", res.Sent).
		Int("received", res.Received).
		Dur("avg_rtt", res.AvgRTT).
		Bool("reachable", res.Reachable).
		Msg("Printer host ping")
}
