package resolver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/micro-watch/host-presence/internal/model"
)

// ErrInvalidIdentity marks a malformed host identity. It is the only fault
// Check reports; every transport-level failure folds into an unreachable
// result instead.
var ErrInvalidIdentity = errors.New("invalid host identity")

// Result is the outcome of one bounded reachability check.
type Result struct {
	Reachable bool
	Address   string
}

// Resolver performs single reachability checks with no memory between
// calls. Retry policy belongs to the caller.
type Resolver struct {
	lookupFn func(ctx context.Context, host string) ([]string, error)
}

func New() *Resolver {
	r := &net.Resolver{}
	return &Resolver{lookupFn: r.LookupHost}
}

// Check resolves the identity's host once, bounded by its timeout. Name
// resolution failure and timeout both return an unreachable result with a
// nil error; cancellation of the caller's context returns its error.
func (r *Resolver) Check(ctx context.Context, identity model.HostIdentity) (Result, error) {
	if err := identity.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, identity.Timeout)
	defer cancel()

	addrs, err := r.lookupFn(checkCtx, identity.Host)
	if err != nil {
		// A lookup aborted by the caller's own cancellation is not an
		// observation about the host; report it so the caller can tell
		// shutdown apart from unreachability.
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{Reachable: false}, nil
	}
	if len(addrs) == 0 {
		return Result{Reachable: false}, nil
	}
	return Result{Reachable: true, Address: addrs[0]}, nil
}
