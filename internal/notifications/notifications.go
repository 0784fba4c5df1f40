package notifications

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultBaseURL = "https://ntfy.sh"

// Notifier posts operator alerts to an ntfy topic. A nil Notifier drops
// every message.
type Notifier struct {
	client  *http.Client
	baseURL string
	topic   string
}

func New(topic string) *Notifier {
	if topic == "" {
		log.Warn().Msg("Ntfy topic not configured - notifications disabled")
		return nil
	}

	log.Info().
		Str("topic", topic).
		Msg("Ntfy notifications initialized")

	return &Notifier{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		topic:   topic,
	}
}

// Send sends a notification to ntfy.sh
func (n *Notifier) Send(title, message string) error {
	if n == nil {
		return fmt.Errorf("notifications not initialized")
	}

	payload := map[string]interface{}{
		"topic":   n.topic,
		"title":   title,
		"message": message,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequest("POST", n.baseURL+"/"+n.topic, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ntfy returned non-success status: %d", resp.StatusCode)
	}

	log.Debug().
		Str("title", title).
		Int("status", resp.StatusCode).
		Msg("Notification sent successfully")

	return nil
}

// Notify sends in the background and only logs failures.
func (n *Notifier) Notify(title, message string) {
	if n == nil {
		return
	}
	go func() {
		if err := n.Send(title, message); err != nil {
			log.Warn().Err(err).Str("title", title).Msg("Failed to send notification")
		}
	}()
}
