package pinctrl

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

type PinState struct {
	Pin     int
	Mode    string // e.g., "ip", "op", "no"
	Pull    string // e.g., "pu", "pd", "pn"
	Drive   string // e.g., "dh", "dl", ""
	Level   string // e.g., "hi", "lo", "--"
	Comment string // full comment, typically includes // GPIO#
}

var pinLineRegex = regexp.MustCompile(`^\s*(\d+):\s+(\S+)\s+(.*?)\s+\|\s+(\S+)\s+//\s+(.*GPIO(\d+).*)$`)

var execCommand = exec.Command

// ReadAllPins returns the parsed result of `pinctrl get`, mapping each GPIO pin number to its PinState
func ReadAllPins() (map[int]PinState, error) {
	out, err := execCommand("pinctrl", "get").Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute pinctrl get: %w", err)
	}
	return parseGetOutput(bytes.NewReader(out))
}

func parseGetOutput(r io.Reader) (map[int]PinState, error) {
	result := make(map[int]PinState)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := pinLineRegex.FindStringSubmatch(scanner.Text())
		if len(matches) != 7 {
			continue
		}

		index, _ := strconv.Atoi(matches[1])
		state := PinState{
			Pin:     index,
			Mode:    matches[2],
			Level:   matches[4],
			Comment: matches[5],
		}

		for _, opt := range strings.Fields(matches[3]) {
			if state.Pull == "" && (opt == "pu" || opt == "pd" || opt == "pn") {
				state.Pull = opt
			} else if state.Drive == "" && (opt == "dh" || opt == "dl") {
				state.Drive = opt
			}
		}

		result[state.Pin] = state
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning pinctrl output: %w", err)
	}
	return result, nil
}

// ReadLevel performs a fast read of the logic level of a pin using `pinctrl lev <pin>`
func ReadLevel(pin int) (bool, error) {
	out, err := execCommand("pinctrl", "lev", fmt.Sprint(pin)).Output()
	if err != nil {
		return false, fmt.Errorf("failed to read level for pin %d: %w", pin, err)
	}
	return parseLevelOutput(string(out))
}

func parseLevelOutput(output string) (bool, error) {
	trimmed := strings.TrimSpace(output)
	switch trimmed {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected output from pinctrl lev: %q", trimmed)
	}
}

// SetPin applies one or more pinctrl set options to the specified GPIO pin
// Example: SetPin(22, "ip", "pu") sets pin 22 as input with pull-up
func SetPin(pin int, opts ...string) error {
	args := append([]string{"set", fmt.Sprint(pin)}, opts...)
	out, err := execCommand("pinctrl", args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("pinctrl set failed: %s (output: %s)", err, string(out))
	}
	return nil
}

// ConfigureInput makes pin a pulled-up input.
func ConfigureInput(pin int) error {
	return SetPin(pin, "ip", "pu")
}

// ValidateButtonPins returns one problem per button pin that is not a
// pulled-up input. The panel keeps running with misconfigured pins.
func ValidateButtonPins(pins map[string]int) ([]string, error) {
	states, err := ReadAllPins()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(pins))
	for name := range pins {
		names = append(names, name)
	}
	sort.Strings(names)

	var problems []string
	for _, name := range names {
		pin := pins[name]
		state, ok := states[pin]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: GPIO%d not reported by pinctrl", name, pin))
		case state.Mode != "ip":
			problems = append(problems, fmt.Sprintf("%s: GPIO%d mode is %q, want input", name, pin, state.Mode))
		case state.Pull != "pu":
			problems = append(problems, fmt.Sprintf("%s: GPIO%d pull is %q, want pull-up", name, pin, state.Pull))
		}
	}

	for _, p := range problems {
		log.Warn().Str("problem", p).Msg("Button pin misconfigured")
	}
	return problems, nil
}
