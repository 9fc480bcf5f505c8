package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/micro-watch/host-presence/internal/model"
)

// WebhookConfig configures a chat webhook channel. The payload shape is
// Discord compatible but works with any endpoint accepting
// {"content": "..."}.
type WebhookConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
}

type Webhook struct {
	cfg  WebhookConfig
	http *http.Client
}

func NewWebhook(cfg WebhookConfig) *Webhook {
	return &Webhook{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *Webhook) Type() string  { return "webhook" }
func (w *Webhook) Enabled() bool { return w.cfg.Enabled }

func (w *Webhook) Validate() error {
	raw := strings.TrimSpace(w.cfg.URL)
	if raw == "" {
		return fmt.Errorf("webhook: url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("webhook: invalid url %q", w.cfg.URL)
	}
	return nil
}

func (w *Webhook) Send(ctx context.Context, event model.Transition) error {
	payload := map[string]string{"content": eventMessage(event)}
	if w.cfg.Username != "" {
		payload["username"] = w.cfg.Username
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(w.cfg.URL), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook delivery status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
