package octoprint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/thatsimonsguy/printer-panel/internal/model"
)

var (
	ErrUnreachable  = errors.New("printer controller unreachable")
	ErrUnauthorized = errors.New("printer controller rejected api key")
)

const (
	pathPrinter    = "/api/printer"
	pathJob        = "/api/job"
	pathConnection = "/api/connection"
)

type PollResult struct {
	Status model.PrinterStatus
	// FullUpdate is set when both the job and connection reads succeeded.
	FullUpdate bool
	AuthFailed bool
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	now     func() time.Time
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Poll reads printer, job and connection state and folds them into a copy of
// prev. On a transport failure the returned status is prev and the error
// wraps ErrUnreachable.
func (c *Client) Poll(ctx context.Context, prev model.PrinterStatus) (PollResult, error) {
	next := prev
	result := PollResult{}

	printerCode, printerBody, err := c.get(ctx, pathPrinter)
	if err != nil {
		return PollResult{Status: prev}, err
	}
	switch printerCode {
	case http.StatusOK:
		var resp printerResponse
		if err := json.Unmarshal(printerBody, &resp); err != nil {
			log.Warn().Err(err).Str("path", pathPrinter).Msg("Malformed printer response")
			break
		}
		applyTemperatures(&next, resp.temperatures())
	case http.StatusUnauthorized:
		log.Error().Str("path", pathPrinter).Msg("Printer controller returned 401, check the api key")
		result.AuthFailed = true
	default:
		log.Debug().Int("status", printerCode).Str("path", pathPrinter).Msg("No printer update this poll")
	}

	jobCode, jobBody, err := c.get(ctx, pathJob)
	if err != nil {
		return PollResult{Status: prev}, err
	}
	connCode, connBody, err := c.get(ctx, pathConnection)
	if err != nil {
		return PollResult{Status: prev}, err
	}
	if jobCode == http.StatusUnauthorized || connCode == http.StatusUnauthorized {
		result.AuthFailed = true
	}

	if jobCode == http.StatusOK && connCode == http.StatusOK {
		var job jobResponse
		var conn connectionResponse
		jobErr := json.Unmarshal(jobBody, &job)
		connErr := json.Unmarshal(connBody, &conn)
		if jobErr != nil || connErr != nil {
			log.Warn().
				AnErr("job_err", jobErr).
				AnErr("connection_err", connErr).
				Msg("Malformed job or connection response")
		} else {
			applyJob(&next, job, conn)
			result.FullUpdate = true
		}
	} else {
		log.Debug().
			Int("job_status", jobCode).
			Int("connection_status", connCode).
			Msg("No job update this poll")
	}

	next.AuthFailed = result.AuthFailed
	next.LastUpdated = c.now()
	result.Status = next
	return result, nil
}

func (c *Client) get(ctx context.Context, path string) (int, []byte, error) {
	endpoint := c.baseURL + path + "?apikey=" + url.QueryEscape(c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request for %s: %w", path, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: get %s: %w", ErrUnreachable, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read %s: %w", ErrUnreachable, path, err)
	}
	return resp.StatusCode, body, nil
}

// Post sends a JSON command to the controller.
func (c *Client) Post(ctx context.Context, endpoint model.Endpoint, payload map[string]any) error {
	path := endpoint.Path()
	if path == "" {
		return fmt.Errorf("unknown endpoint %q", endpoint)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: post %s: %w", ErrUnreachable, path, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("post %s: %w", path, ErrUnauthorized)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}

	log.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("Command accepted")
	return nil
}
