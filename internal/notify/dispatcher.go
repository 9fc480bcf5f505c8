package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/micro-watch/host-presence/internal/model"
)

// Result is the outcome of one channel's delivery attempt.
type Result struct {
	Channel string
	Err     error
}

// Dispatcher fans one event out to every enabled channel. Deliveries run
// concurrently and failures are isolated: a failing channel never blocks
// or aborts the others, and the caller's loop continues regardless of the
// outcome.
type Dispatcher struct {
	channels []Notifier
	logger   *slog.Logger
}

func NewDispatcher(channels []Notifier, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{channels: channels, logger: logger}
}

// Dispatch attempts one delivery per enabled channel and waits for all of
// them. Disabled channels are skipped without an attempt. Results appear
// in channel order.
func (d *Dispatcher) Dispatch(ctx context.Context, event model.Transition) []Result {
	enabled := make([]Notifier, 0, len(d.channels))
	for _, ch := range d.channels {
		if ch.Enabled() {
			enabled = append(enabled, ch)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	results := make([]Result, len(enabled))
	var wg sync.WaitGroup
	for i, ch := range enabled {
		wg.Add(1)
		go func(i int, ch Notifier) {
			defer wg.Done()
			err := ch.Send(ctx, event)
			if err != nil {
				d.logger.Warn("notification delivery failed", "channel", ch.Type(), "err", err)
			} else {
				d.logger.Debug("notification delivered", "channel", ch.Type(), "to", string(event.To))
			}
			results[i] = Result{Channel: ch.Type(), Err: err}
		}(i, ch)
	}
	wg.Wait()
	return results
}
