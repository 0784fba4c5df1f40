package netcheck

import (
	"errors"
	"testing"
	"time"

	"github.com/go-ping/ping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHost(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"http://octopi.local", "octopi.local", false},
		{"http://192.168.1.20:5000", "192.168.1.20", false},
		{"https://printer.example.com/octoprint", "printer.example.com", false},
		{"octopi.local", "", true},
		{"://bad", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Host(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProbe_ResolveFailure(t *testing.T) {
	orig := newPinger
	defer func() { newPinger = orig }()
	newPinger = func(addr string) (*ping.Pinger, error) {
		return nil, errors.New("no such host")
	}

	res, err := Probe("printer.invalid", 1, time.Second)
	assert.Error(t, err)
	assert.False(t, res.Reachable)
	assert.Equal(t, "printer.invalid", res.Host)
}
