package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/micro-watch/host-presence/internal/model"
)

const defaultTelegramBaseURL = "https://api.telegram.org"

// TelegramConfig configures a bot-message channel. BaseURL overrides the
// Telegram API host, mainly for tests.
type TelegramConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
	ChatID  string `yaml:"chat_id"`
	BaseURL string `yaml:"base_url"`
}

type Telegram struct {
	cfg  TelegramConfig
	http *http.Client
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	return &Telegram{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *Telegram) Type() string  { return "telegram" }
func (t *Telegram) Enabled() bool { return t.cfg.Enabled }

func (t *Telegram) Validate() error {
	if strings.TrimSpace(t.cfg.Token) == "" {
		return fmt.Errorf("telegram: token is required")
	}
	if strings.TrimSpace(t.cfg.ChatID) == "" {
		return fmt.Errorf("telegram: chat_id is required")
	}
	return nil
}

func (t *Telegram) Send(ctx context.Context, event model.Transition) error {
	base := strings.TrimSuffix(strings.TrimSpace(t.cfg.BaseURL), "/")
	if base == "" {
		base = defaultTelegramBaseURL
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", base, t.cfg.Token)

	body, err := json.Marshal(map[string]string{
		"chat_id": t.cfg.ChatID,
		"text":    eventMessage(event),
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("telegram delivery status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
