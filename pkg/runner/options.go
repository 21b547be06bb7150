package runner

import (
	"log/slog"

	"github.com/aretw0/talentscout/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the StateStore used to persist the session after every cycle.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session ID used when a new session is started
// and as the persistence key.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithSignals toggles OS signal handling (on by default).
// Tests and embedded hosts that manage signals themselves turn it off.
func WithSignals(enabled bool) Option {
	return func(r *Runner) {
		r.handleSignals = enabled
	}
}
