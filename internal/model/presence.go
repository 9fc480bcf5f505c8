package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Phase is the coarse reachability state of the watched host.
//
// The engine's looping state is only ever Unknown, Searching or Found;
// Lost appears exclusively as the target of a downward Transition and the
// stored phase collapses back to Searching on the same poll.
type Phase string

const (
	PhaseUnknown   Phase = "unknown"
	PhaseSearching Phase = "searching"
	PhaseFound     Phase = "found"
	PhaseLost      Phase = "lost"
)

// Presence is the engine's current view of the host.
type Presence struct {
	Phase     Phase     `json:"phase"`
	Address   string    `json:"address,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Transition records one state-machine edge. Instances are immutable once
// constructed and are handed to surfaces and notification channels as-is.
type Transition struct {
	Host       string    `json:"host"`
	From       Phase     `json:"from"`
	To         Phase     `json:"to"`
	Address    string    `json:"address,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifiable reports whether the edge should reach notification channels.
// Cold-start edges out of Unknown update surfaces only.
func (t Transition) Notifiable() bool {
	return (t.From == PhaseSearching && t.To == PhaseFound) ||
		(t.From == PhaseFound && t.To == PhaseLost)
}

// HostIdentity is the immutable polling target configuration.
type HostIdentity struct {
	Host         string
	Timeout      time.Duration
	PollInterval time.Duration
}

// Validate reports a configuration fault for identities the resolver could
// never check. A timeout above the poll interval is allowed.
func (h HostIdentity) Validate() error {
	host := strings.TrimSpace(h.Host)
	if host == "" {
		return errors.New("host is required")
	}
	if strings.ContainsAny(host, " \t/\\") || strings.Contains(host, "://") {
		return fmt.Errorf("host %q is not a valid hostname or address", h.Host)
	}
	if h.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if h.PollInterval <= 0 {
		return errors.New("poll interval must be positive")
	}
	return nil
}

// RunState is the engine lifecycle. Only the engine mutates it; callers
// request Stopping through context cancellation.
type RunState int32

const (
	RunCreated RunState = iota
	RunRunning
	RunStopping
	RunStopped
)

func (s RunState) String() string {
	switch s {
	case RunCreated:
		return "created"
	case RunRunning:
		return "running"
	case RunStopping:
		return "stopping"
	case RunStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
