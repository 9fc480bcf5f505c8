package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/micro-watch/host-presence/internal/model"
	"github.com/micro-watch/host-presence/internal/notify"
)

const (
	defaultHTTPAddr     = ":8099"
	defaultDBPath       = "/data/host_presence.db"
	defaultChannelsPath = "/config/channels.yaml"
	defaultTimeout      = 5 * time.Second
	defaultPollInterval = 2 * time.Second

	minTimeout = time.Second
	maxTimeout = 300 * time.Second
)

// Config stores runtime settings loaded from environment variables.
type Config struct {
	Host         string
	Timeout      time.Duration
	PollInterval time.Duration

	HTTPAddr     string
	DBPath       string
	ChannelsPath string
	Headless     bool

	LogLevel slog.Level
	LogFile  string

	SSHUser         string
	SSHIdentityFile string
}

// Load builds Config from environment variables using stable defaults.
// Validation is a separate step so a misconfiguration can be reported
// with a message naming the offending setting.
func Load() Config {
	return Config{
		Host:            getenv("HOST", ""),
		Timeout:         clampTimeout(parseDuration("CHECK_TIMEOUT", defaultTimeout)),
		PollInterval:    parseDuration("POLL_INTERVAL", defaultPollInterval),
		HTTPAddr:        getenv("HTTP_ADDR", defaultHTTPAddr),
		DBPath:          getenv("DB_PATH", defaultDBPath),
		ChannelsPath:    getenv("CHANNELS_CONFIG", defaultChannelsPath),
		Headless:        parseBool("HEADLESS", false),
		LogLevel:        parseLogLevel(getenv("LOG_LEVEL", "info")),
		LogFile:         getenv("LOG_FILE", ""),
		SSHUser:         getenv("SSH_USER", ""),
		SSHIdentityFile: getenv("SSH_IDENTITY_FILE", ""),
	}
}

// Identity returns the polling target this configuration describes.
func (c Config) Identity() model.HostIdentity {
	return model.HostIdentity{
		Host:         c.Host,
		Timeout:      c.Timeout,
		PollInterval: c.PollInterval,
	}
}

// Validate reports the first configuration fault, if any.
func (c Config) Validate() error {
	if err := c.Identity().Validate(); err != nil {
		return fmt.Errorf("HOST: %w", err)
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("HTTP_ADDR must not be empty")
	}
	return nil
}

// DBDir returns the target directory for DBPath.
func (c Config) DBDir() string {
	return filepath.Dir(c.DBPath)
}

// Channels is the YAML file holding per-channel credentials. Every
// channel is independently enabled; any subset may be active.
type Channels struct {
	Webhook  notify.WebhookConfig  `yaml:"webhook"`
	Telegram notify.TelegramConfig `yaml:"telegram"`
	Email    notify.EmailConfig    `yaml:"email"`
}

// LoadChannels reads the channel configuration file. A missing file is
// not an error: it means no channels are configured.
func LoadChannels(path string) (Channels, error) {
	var channels Channels
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return channels, nil
		}
		return channels, err
	}
	if err := yaml.Unmarshal(data, &channels); err != nil {
		return Channels{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return channels, nil
}

// Build constructs the notifier set and validates every enabled channel.
func (c Channels) Build() ([]notify.Notifier, error) {
	notifiers := []notify.Notifier{
		notify.NewWebhook(c.Webhook),
		notify.NewTelegram(c.Telegram),
		notify.NewEmail(c.Email),
	}
	for _, n := range notifiers {
		if !n.Enabled() {
			continue
		}
		if err := n.Validate(); err != nil {
			return nil, err
		}
	}
	return notifiers, nil
}

func getenv(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func parseBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func clampTimeout(value time.Duration) time.Duration {
	if value < minTimeout {
		return minTimeout
	}
	if value > maxTimeout {
		return maxTimeout
	}
	return value
}
