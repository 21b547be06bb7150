package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
)

// Named attaches a label to a writer so failures say which sink broke.
type Named struct {
	Name   string
	Writer ports.PersistenceWriter
}

// Fanout flushes every writer in order. All writers run even when one fails;
// the joined error names each failed sink.
type Fanout struct {
	writers []Named
}

// NewFanout builds a Fanout. Nil writers are skipped.
func NewFanout(writers ...Named) *Fanout {
	f := &Fanout{}
	for _, w := range writers {
		if w.Writer != nil {
			f.writers = append(f.writers, w)
		}
	}
	return f
}

// Len returns the number of configured writers.
func (f *Fanout) Len() int {
	return len(f.writers)
}

// Flush implements ports.PersistenceWriter.
func (f *Fanout) Flush(ctx context.Context, state *domain.SessionState) error {
	var errs []error
	for _, w := range f.writers {
		if err := w.Writer.Flush(ctx, state); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", w.Name, err))
		}
	}
	return errors.Join(errs...)
}
