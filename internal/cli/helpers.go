package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/aretw0/talentscout/internal/config"
	"github.com/aretw0/talentscout/internal/logging"
	"github.com/aretw0/talentscout/pkg/domain"
)

// SignalContext wraps a context and captures the signal that cancelled it.
type SignalContext struct {
	context.Context
	Cancel func()
	stop   sync.Once
	sigCh  chan os.Signal
	sigVal os.Signal
	mu     sync.Mutex
}

// NewSignalContext creates a context that is cancelled on SIGINT or SIGTERM.
// It acts as a drop-in replacement for signal.NotifyContext but allows retrieving the signal.
func NewSignalContext(parent context.Context) *SignalContext {
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		Cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sigVal = sig
			sc.mu.Unlock()
			sc.Cancel()
		case <-sc.Context.Done():
		}
		sc.stop.Do(func() {
			signal.Stop(sc.sigCh)
		})
	}()

	return sc
}

// Signal returns the signal that caused the context to be cancelled, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sigVal
}

// Options are the flags shared by every command.
type Options struct {
	ConfigPath string
	Debug      bool
}

// LoadConfig reads the configuration for opts from the file and the process environment.
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, os.Environ())
	if err != nil {
		return nil, err
	}
	if opts.Debug {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// Setup loads the configuration and builds the engine with its adapters.
// Callers must Close the returned Components.
func Setup(ctx context.Context, opts Options) (*config.Config, *Components, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, nil, err
	}
	logger, err := createLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	comps, err := createEngine(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return cfg, comps, nil
}

// createLogger configures the application logger on stderr, keeping stdout for the session UI.
func createLogger(cfg *config.Config) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(os.Stderr, level, cfg.Log.Format), nil
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

func logCompletion(w io.Writer, state *domain.SessionState, err error) {
	if state == nil {
		return
	}
	switch {
	case err != nil && isInterrupted(err):
		fmt.Fprintln(w)
		printSystemMessage(w, "Interrupted session '%s' during %s.", state.SessionID, state.Phase)
	case state.Terminal():
		printSystemMessage(w, "Session '%s' %s with %d answer(s).", state.SessionID, state.Phase, len(state.Answers))
	default:
		printSystemMessage(w, "Session '%s' paused during %s.", state.SessionID, state.Phase)
	}
}
