package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/micro-watch/host-presence/internal/model"
)

// EmailConfig configures an SMTP channel.
type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
}

type Email struct {
	cfg    EmailConfig
	sendFn func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

func NewEmail(cfg EmailConfig) *Email {
	return &Email{cfg: cfg, sendFn: smtp.SendMail}
}

func (e *Email) Type() string  { return "email" }
func (e *Email) Enabled() bool { return e.cfg.Enabled }

func (e *Email) Validate() error {
	if strings.TrimSpace(e.cfg.Host) == "" {
		return fmt.Errorf("email: host is required")
	}
	if e.cfg.Port <= 0 || e.cfg.Port > 65535 {
		return fmt.Errorf("email: invalid port %d", e.cfg.Port)
	}
	if strings.TrimSpace(e.cfg.From) == "" {
		return fmt.Errorf("email: from address is required")
	}
	if len(e.cfg.To) == 0 {
		return fmt.Errorf("email: at least one recipient is required")
	}
	return nil
}

func (e *Email) Send(_ context.Context, event model.Transition) error {
	addr := net.JoinHostPort(e.cfg.Host, strconv.Itoa(e.cfg.Port))

	var auth smtp.Auth
	if e.cfg.Username != "" {
		auth = smtp.PlainAuth("", e.cfg.Username, e.cfg.Password, e.cfg.Host)
	}

	subject := fmt.Sprintf("Host %s: %s", event.Host, event.To)
	var msg strings.Builder
	msg.WriteString("From: " + e.cfg.From + "\r\n")
	msg.WriteString("To: " + strings.Join(e.cfg.To, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(eventMessage(event) + "\r\n")

	if err := e.sendFn(addr, auth, e.cfg.From, e.cfg.To, []byte(msg.String())); err != nil {
		return fmt.Errorf("email delivery: %w", err)
	}
	return nil
}
