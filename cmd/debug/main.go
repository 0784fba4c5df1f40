package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/thatsimonsguy/printer-panel/db"
	"github.com/thatsimonsguy/printer-panel/internal/config"
	"github.com/thatsimonsguy/printer-panel/internal/dispatch"
	"github.com/thatsimonsguy/printer-panel/internal/model"
	"github.com/thatsimonsguy/printer-panel/internal/netcheck"
	"github.com/thatsimonsguy/printer-panel/internal/octoprint"
	"github.com/thatsimonsguy/printer-panel/internal/pinctrl"
)

func main() {
	DebugCLI()
}

func DebugCLI() {
	var configFile, command, action, dbPath string
	var limit int
	flag.StringVar(&configFile, "config-file", "printer-panel.json", "Path to panel config file")
	flag.StringVar(&command, "cmd", "", "Command to run: status, send, journal, ping, pins")
	flag.StringVar(&action, "action", "", "Action for send, e.g. home_xy, z_up, toggle_heat")
	flag.StringVar(&dbPath, "db", "", "Journal database (defaults to journal_path from config)")
	flag.IntVar(&limit, "limit", 20, "Number of journal entries to show")
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help || command == "" {
		fmt.Println("\nUsage of printer-panel-debug:")
		fmt.Println("  -config-file string\tPath to panel config file (default 'printer-panel.json')")
		fmt.Println("  -cmd string\tCommand to run: status, send, journal, ping, pins")
		fmt.Println("  -action string\tAction for send, e.g. home_xy, z_up, toggle_heat")
		fmt.Println("  -db string\tJournal database (defaults to journal_path from config)")
		fmt.Println("  -limit int\tNumber of journal entries to show (default 20)")
		fmt.Println("  -help\tShow this help message")
		os.Exit(0)
	}

	cfg, err := config.FromFile(configFile)
	if err != nil && command != "journal" {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch command {
	case "status":
		err = printStatus(ctx, cfg)
	case "send":
		if action == "" {
			fmt.Println("Error: action is required")
			os.Exit(1)
		}
		err = sendAction(ctx, cfg, action)
	case "journal":
		if dbPath == "" {
			dbPath = cfg.JournalPath
		}
		if dbPath == "" {
			fmt.Println("Error: no journal database configured")
			os.Exit(1)
		}
		err = db.PrintJournalCLI(dbPath, limit, os.Stdout)
	case "ping":
		err = pingPrinter(cfg)
	case "pins":
		err = checkPins(cfg)
	default:
		fmt.Println("Invalid command")
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Command %s failed: %v\n", command, err)
		os.Exit(1)
	}
	fmt.Printf("Command %s completed successfully\n", command)
}

func printStatus(ctx context.Context, cfg config.Config) error {
	client := octoprint.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout())
	res, err := client.Poll(ctx, model.NewPrinterStatus())
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(res.Status, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	fmt.Printf("full_update=%t auth_failed=%t\n", res.FullUpdate, res.AuthFailed)
	return nil
}

// sendAction polls first so toggles and get-ready see the live heater state.
func sendAction(ctx context.Context, cfg config.Config, name string) error {
	a, err := model.ParseAction(name)
	if err != nil {
		return err
	}
	if a == model.ActionShutdown || a == model.ActionContextAction {
		return fmt.Errorf("action %s is not available from the debug tool", a)
	}

	client := octoprint.NewClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPTimeout())
	res, err := client.Poll(ctx, model.NewPrinterStatus())
	if err != nil {
		return err
	}

	d := dispatch.New(client, cfg.HotEndTargetC)
	if cfg.JournalPath != "" {
		dbConn, err := db.Open(cfg.JournalPath)
		if err != nil {
			return err
		}
		journal := db.NewJournal(dbConn)
		defer journal.Close()
		d.Journal = journal
	}
	d.Dispatch(ctx, a, res.Status)
	return nil
}

func pingPrinter(cfg config.Config) error {
	host, err := netcheck.Host(cfg.BaseURL)
	if err != nil {
		return err
	}
	res, err := netcheck.Probe(host, 4, 5*time.Second)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d/%d replies, avg %s\n", res.Host, res.Received, res.Sent, res.AvgRTT)
	if !res.Reachable {
		return fmt.Errorf("%s did not answer", res.Host)
	}
	return nil
}

func checkPins(cfg config.Config) error {
	pins := map[string]int{
		"get_ready": *cfg.GPIO.Buttons.GetReady,
		"z_up":      *cfg.GPIO.Buttons.ZUp,
		"context":   *cfg.GPIO.Buttons.Context,
	}
	problems, err := pinctrl.ValidateButtonPins(pins)
	if err != nil {
		return err
	}
	for _, name := range []string{"get_ready", "z_up", "context"} {
		high, err := pinctrl.ReadLevel(pins[name])
		if err != nil {
			fmt.Printf("%s: GPIO%d level unknown: %v\n", name, pins[name], err)
			continue
		}
		// Buttons pull the line low when pressed.
		state := "released"
		if !high {
			state = "pressed"
		}
		fmt.Printf("%s: GPIO%d %s\n", name, pins[name], state)
	}
	for _, p := range problems {
		fmt.Println(p)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%d button pins misconfigured", len(problems))
	}
	return nil
}
