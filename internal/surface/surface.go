package surface

import (
	"log/slog"

	"github.com/micro-watch/host-presence/internal/model"
)

// Surface is the boundary the engine reports through. Implementations are
// called from the engine's goroutine and are responsible for marshaling
// onto their own presentation context if they have one.
type Surface interface {
	// OnStateChanged receives the current presence after a poll that
	// changed or refreshed it.
	OnStateChanged(p model.Presence)
	// OnTransition receives every emitted edge, including the cold-start
	// edges that never reach notification channels.
	OnTransition(e model.Transition)
	// OnFatalError is called at most once, when a configuration fault
	// stops the engine.
	OnFatalError(err error)
}

// Headless logs state changes and nothing more. It is the proof that the
// engine carries no dependency on a particular presentation layer.
type Headless struct {
	logger *slog.Logger
}

func NewHeadless(logger *slog.Logger) *Headless {
	return &Headless{logger: logger}
}

func (h *Headless) OnStateChanged(p model.Presence) {
	h.logger.Debug("presence state", "phase", string(p.Phase), "address", p.Address)
}

func (h *Headless) OnTransition(e model.Transition) {
	h.logger.Info("presence transition",
		"from", string(e.From),
		"to", string(e.To),
		"address", e.Address,
	)
}

func (h *Headless) OnFatalError(err error) {
	h.logger.Error("presence detection stopped", "err", err)
}

// Multi fans engine callbacks out to several surfaces in order.
type Multi []Surface

func (m Multi) OnStateChanged(p model.Presence) {
	for _, s := range m {
		s.OnStateChanged(p)
	}
}

func (m Multi) OnTransition(e model.Transition) {
	for _, s := range m {
		s.OnTransition(e)
	}
}

func (m Multi) OnFatalError(err error) {
	for _, s := range m {
		s.OnFatalError(err)
	}
}
