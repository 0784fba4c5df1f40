package pinctrl

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGet = `
 0: ip    pu | hi // ID_SDA/GPIO0 = input
 1: ip    pu | hi // ID_SCL/GPIO1 = input
 2: no    pu | -- // GPIO2 = none
 4: ip    pn | lo // GPIO4 = input
18: ip    pu | hi // GPIO18 = input
22: ip    pn | hi // GPIO22 = input
26: op dl pn | lo // GPIO26 = output
27: op dh pu | hi // GPIO27 = output
`

func fakeExec(t *testing.T, stdout string) *[][]string {
	orig := execCommand
	t.Cleanup(func() { execCommand = orig })

	var calls [][]string
	execCommand = func(name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string{name}, args...))
		return exec.Command("printf", "%s", stdout)
	}
	return &calls
}

func TestParseGetOutput(t *testing.T) {
	states, err := parseGetOutput(strings.NewReader(sampleGet))
	require.NoError(t, err)
	require.Len(t, states, 8)

	assert.Equal(t, PinState{Pin: 27, Mode: "op", Pull: "pu", Drive: "dh", Level: "hi", Comment: "GPIO27 = output"}, states[27])
	assert.Equal(t, "--", states[2].Level)
	assert.Equal(t, "no", states[2].Mode)
	assert.Equal(t, "pn", states[26].Pull)
	assert.Equal(t, "dl", states[26].Drive)
}

func TestParseGetOutput_SingleLine(t *testing.T) {
	states, err := parseGetOutput(strings.NewReader(`25: op dl pd | lo // GPIO25 = output`))
	require.NoError(t, err)

	ps, ok := states[25]
	require.True(t, ok)
	assert.Equal(t, "op", ps.Mode)
	assert.Equal(t, "pd", ps.Pull)
	assert.Equal(t, "dl", ps.Drive)
	assert.Equal(t, "lo", ps.Level)
}

func TestParseLevelOutput(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{"0", false, false},
		{"1", true, false},
		{"\n1\n", true, false},
		{"\n0\n", false, false},
		{"x", false, true},
	}
	for _, tc := range tests {
		result, err := parseLevelOutput(tc.input)
		if tc.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.expected, result, "input %q", tc.input)
	}
}

func TestConfigureInput(t *testing.T) {
	calls := fakeExec(t, "")
	require.NoError(t, ConfigureInput(22))
	assert.Equal(t, [][]string{{"pinctrl", "set", "22", "ip", "pu"}}, *calls)
}

func TestReadLevel(t *testing.T) {
	calls := fakeExec(t, "1\n")
	level, err := ReadLevel(18)
	require.NoError(t, err)
	assert.True(t, level)
	assert.Equal(t, [][]string{{"pinctrl", "lev", "18"}}, *calls)
}

func TestValidateButtonPins(t *testing.T) {
	fakeExec(t, sampleGet)

	problems, err := ValidateButtonPins(map[string]int{
		"get_ready": 18,
		"z_up":      27,
		"context":   22,
		"extra":     40,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		`context: GPIO22 pull is "pn", want pull-up`,
		`extra: GPIO40 not reported by pinctrl`,
		`z_up: GPIO27 mode is "op", want input`,
	}, problems)
}

func TestValidateButtonPins_CommandFails(t *testing.T) {
	orig := execCommand
	defer func() { execCommand = orig }()
	execCommand = func(name string, args ...string) *exec.Cmd {
		return exec.Command("false")
	}

	_, err := ValidateButtonPins(map[string]int{"get_ready": 18})
	assert.Error(t, err)
}
