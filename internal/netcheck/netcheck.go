// Package netcheck probes whether the printer host answers ICMP echo.
package netcheck

import (
	"fmt"
	"net/url"
	"time"

	"github.com/go-ping/ping"
)

type Result struct {
	Host      string
	Sent      int
	Received  int
	AvgRTT    time.Duration
	Reachable bool
}

var newPinger = ping.NewPinger

// Host extracts the hostname from a controller base URL.
func Host(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("base url %q has no host", baseURL)
	}
	return u.Hostname(), nil
}

// Probe sends count echo requests using unprivileged UDP pings.
func Probe(host string, count int, timeout time.Duration) (Result, error) {
	pinger, err := newPinger(host)
	if err != nil {
		return Result{Host: host}, fmt.Errorf("resolve %s: %w", host, err)
	}
	pinger.SetPrivileged(false)
	pinger.Count = count
	pinger.Timeout = timeout

	if err := pinger.Run(); err != nil {
		return Result{Host: host}, fmt.Errorf("ping %s: %w", host, err)
	}

	stats := pinger.Statistics()
	return Result{
		Host:      host,
		Sent:      stats.PacketsSent,
		Received:  stats.PacketsRecv,
		AvgRTT:    stats.AvgRtt,
		Reachable: stats.PacketsRecv > 0,
	}, nil
}
