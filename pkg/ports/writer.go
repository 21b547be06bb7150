package ports

import (
	"context"

	"github.com/aretw0/talentscout/pkg/domain"
)

// PersistenceWriter writes the final report of a session.
// It is invoked once, when the session reaches completed or exited.
type PersistenceWriter interface {
	Flush(ctx context.Context, state *domain.SessionState) error
}

// PersistenceWriterFunc adapts a plain function to PersistenceWriter.
type PersistenceWriterFunc func(ctx context.Context, state *domain.SessionState) error

// Flush calls f.
func (f PersistenceWriterFunc) Flush(ctx context.Context, state *domain.SessionState) error {
	return f(ctx, state)
}

// EventPublisher announces finished sessions to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.SessionEvent) error
}
