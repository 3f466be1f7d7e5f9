package gameapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// CallFunc is one upstream operation under one historical name and
// signature.
type CallFunc func(ctx context.Context, args ...string) (any, error)

// Client exposes versioned upstream operations by name. Op returns
// false when the installed upstream has no operation under that name.
type Client interface {
	Op(name string) (CallFunc, bool)
}

var (
	// ErrBadCall marks an argument-shape mismatch: the operation
	// exists but rejects the supplied arguments. Invoke retries such
	// a candidate once with no arguments before moving on.
	ErrBadCall = errors.New("call arguments do not match operation signature")

	// ErrNoCandidate is returned when no candidate name resolves to
	// an operation on the client at all.
	ErrNoCandidate = errors.New("no callable operation among candidates")
)

// Invoke tries each candidate name on c in order and returns the
// first successful result. A candidate failing with ErrBadCall is
// retried once with no arguments, tolerating upstream signatures that
// drifted between parameterless and argument-taking forms. Any other
// failure is recorded and the next candidate is tried, so a later
// name may still serve; when every candidate fails the last recorded
// error is returned, which can mask the true cause of an earlier
// failure. One pass only, in caller order.
func Invoke(ctx context.Context, c Client, names []string, args ...string) (any, error) {
	var lastErr error
	for _, name := range names {
		fn, ok := c.Op(name)
		if !ok {
			continue
		}
		res, err := fn(ctx, args...)
		if err == nil {
			return res, nil
		}
		if errors.Is(err, ErrBadCall) {
			res, err = fn(ctx)
			if err == nil {
				return res, nil
			}
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: %s", ErrNoCandidate, strings.Join(names, ", "))
}
