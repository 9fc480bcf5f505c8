package notify

import (
	"context"
	"fmt"

	"github.com/micro-watch/host-presence/internal/model"
)

// Notifier delivers a presence transition to one external channel. Each
// implementation owns its transport and credentials; channels share no
// state with each other.
type Notifier interface {
	// Type returns the channel identifier, e.g. "webhook" or "email".
	Type() string
	// Enabled reports whether the channel should receive deliveries.
	Enabled() bool
	// Validate checks the channel configuration without sending anything.
	Validate() error
	// Send delivers one event. A non-nil error means the single delivery
	// attempt failed; the caller does not retry.
	Send(ctx context.Context, event model.Transition) error
}

// eventMessage renders the human-readable alert text shared by all
// channels.
func eventMessage(event model.Transition) string {
	switch {
	case event.To == model.PhaseFound && event.Address != "":
		return fmt.Sprintf("Host %s is online at %s", event.Host, event.Address)
	case event.To == model.PhaseFound:
		return fmt.Sprintf("Host %s is online", event.Host)
	case event.To == model.PhaseLost:
		return fmt.Sprintf("Host %s went offline (last address %s)", event.Host, event.Address)
	default:
		return fmt.Sprintf("Host %s changed state: %s -> %s", event.Host, event.From, event.To)
	}
}
