package engine

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/micro-watch/host-presence/internal/model"
	"github.com/micro-watch/host-presence/internal/notify"
	"github.com/micro-watch/host-presence/internal/resolver"
	"github.com/micro-watch/host-presence/internal/surface"
)

// Resolver performs one bounded reachability check.
type Resolver interface {
	Check(ctx context.Context, identity model.HostIdentity) (resolver.Result, error)
}

// Dispatcher fans an alert-worthy transition out to notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.Transition) []notify.Result
}

// History records emitted transitions. Appends are best-effort; a failing
// store never affects the poll loop.
type History interface {
	Append(ctx context.Context, event model.Transition) error
}

// Engine owns the poll cadence and the debounced presence state machine.
// Its Run goroutine is the only writer of the presence state; everything
// else observes values the engine hands out.
type Engine struct {
	identity   model.HostIdentity
	resolver   Resolver
	surface    surface.Surface
	dispatcher Dispatcher
	history    History
	logger     *slog.Logger

	checkCh chan struct{}
	run     atomic.Int32

	mu       sync.RWMutex
	presence model.Presence
}

// New builds an engine in the Created state. history may be nil to
// disable transition recording.
func New(identity model.HostIdentity, res Resolver, surf surface.Surface, disp Dispatcher, history History, logger *slog.Logger) *Engine {
	e := &Engine{
		identity:   identity,
		resolver:   res,
		surface:    surf,
		dispatcher: disp,
		history:    history,
		logger:     logger,
		checkCh:    make(chan struct{}, 1),
	}
	e.presence = model.Presence{Phase: model.PhaseUnknown}
	e.run.Store(int32(model.RunCreated))
	return e
}

// TriggerCheck requests an immediate poll, collapsing the inter-poll wait.
// Safe from any goroutine; a pending request is coalesced.
func (e *Engine) TriggerCheck() {
	select {
	case e.checkCh <- struct{}{}:
	default:
	}
}

// State returns a snapshot of the current presence.
func (e *Engine) State() model.Presence {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.presence
}

// RunState returns the engine lifecycle state.
func (e *Engine) RunState() model.RunState {
	return model.RunState(e.run.Load())
}

// Host returns the configured target host.
func (e *Engine) Host() string {
	return e.identity.Host
}

// Run executes the poll loop until ctx is canceled or a configuration
// fault stops the engine. A poll already in flight finishes within its own
// timeout, so shutdown latency is bounded by the check timeout.
func (e *Engine) Run(ctx context.Context) {
	e.run.Store(int32(model.RunRunning))
	defer e.run.Store(int32(model.RunStopped))

	e.logger.Info("presence engine started",
		"host", e.identity.Host,
		"interval", e.identity.PollInterval,
		"timeout", e.identity.Timeout,
	)

	for {
		if ctx.Err() != nil {
			e.run.Store(int32(model.RunStopping))
			return
		}

		result, err := e.resolver.Check(ctx, e.identity)
		if err != nil {
			if ctx.Err() != nil {
				e.run.Store(int32(model.RunStopping))
				return
			}
			// Resolver faults are configuration errors: surfaced once,
			// then the engine stops for good.
			e.surface.OnFatalError(err)
			e.logger.Error("presence engine stopped on configuration fault", "err", err)
			return
		}
		e.apply(ctx, result)

		timer := time.NewTimer(e.identity.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			e.run.Store(int32(model.RunStopping))
			return
		case <-e.checkCh:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// apply folds one poll result into the state machine and fires the edge
// side effects. Repeated observations of the same state stay silent; a
// reachable poll while Found only refreshes the surface with the current
// address.
func (e *Engine) apply(ctx context.Context, result resolver.Result) {
	now := time.Now().UTC()

	e.mu.Lock()
	prev := e.presence

	var next model.Presence
	var event *model.Transition
	if result.Reachable {
		next = model.Presence{Phase: model.PhaseFound, Address: result.Address, CheckedAt: now}
		if prev.Phase != model.PhaseFound {
			event = &model.Transition{
				Host:       e.identity.Host,
				From:       prev.Phase,
				To:         model.PhaseFound,
				Address:    result.Address,
				OccurredAt: now,
			}
		}
	} else {
		next = model.Presence{Phase: model.PhaseSearching, CheckedAt: now}
		switch prev.Phase {
		case model.PhaseFound:
			event = &model.Transition{
				Host:       e.identity.Host,
				From:       model.PhaseFound,
				To:         model.PhaseLost,
				Address:    prev.Address,
				OccurredAt: now,
			}
		case model.PhaseUnknown:
			event = &model.Transition{
				Host:       e.identity.Host,
				From:       model.PhaseUnknown,
				To:         model.PhaseSearching,
				OccurredAt: now,
			}
		}
	}
	e.presence = next
	e.mu.Unlock()

	if event == nil && next.Phase != model.PhaseFound {
		return
	}
	e.surface.OnStateChanged(next)

	if event == nil {
		return
	}
	e.surface.OnTransition(*event)
	if e.history != nil {
		if err := e.history.Append(ctx, *event); err != nil {
			e.logger.Warn("failed to record transition", "err", err)
		}
	}
	if event.Notifiable() {
		e.dispatcher.Dispatch(ctx, *event)
	}
}
