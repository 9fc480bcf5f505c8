package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Config holds the credential material for interactive SSH sessions.
type Config struct {
	User         string
	IdentityFile string
}

// Launcher spawns an interactive SSH session in a new terminal window.
// It is invoked only on explicit user intent while the host is reachable;
// launch faults are returned to the caller and never touch the poll loop.
type Launcher struct {
	cfg     Config
	logger  *slog.Logger
	goos    string
	startFn func(cmd *exec.Cmd) error
}

func New(cfg Config, logger *slog.Logger) *Launcher {
	return &Launcher{
		cfg:    cfg,
		logger: logger,
		goos:   runtime.GOOS,
		startFn: func(cmd *exec.Cmd) error {
			if err := cmd.Start(); err != nil {
				return err
			}
			go func() { _ = cmd.Wait() }()
			return nil
		},
	}
}

// Launch opens a terminal running ssh to the given address. The terminal
// process outlives the daemon; only spawn failures are reported.
func (l *Launcher) Launch(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errors.New("no resolved address to connect to")
	}
	if strings.TrimSpace(l.cfg.User) == "" {
		return errors.New("ssh user is not configured")
	}

	target := l.cfg.User + "@" + address

	var cmd *exec.Cmd
	if l.goos == "windows" {
		sshCmd := "ssh"
		if l.cfg.IdentityFile != "" {
			sshCmd += ` -i "` + l.cfg.IdentityFile + `"`
		}
		sshCmd += " " + target
		cmd = exec.Command("cmd.exe", "/c", "start", "cmd", "/k",
			fmt.Sprintf("echo Connecting to %s && %s", target, sshCmd))
	} else {
		sshCmd := "ssh"
		if l.cfg.IdentityFile != "" {
			sshCmd += " -i " + shellQuote(l.cfg.IdentityFile)
		}
		sshCmd += " " + shellQuote(target)
		cmd = exec.Command("x-terminal-emulator", "-e", "bash", "-c",
			fmt.Sprintf("echo Connecting to %s; %s", target, sshCmd))
	}

	if err := l.startFn(cmd); err != nil {
		return fmt.Errorf("start ssh session: %w", err)
	}
	l.logger.Info("ssh session launched", "target", target)
	return nil
}

// shellQuote single-quotes s for interpolation into a bash -c string so
// paths with spaces survive word splitting.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
