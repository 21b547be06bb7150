package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
)

// Mask replaces redacted profile values.
const Mask = "***"

// Redactor masks profile fields whose key matches one of its patterns.
// It guards sinks that leave the service (archives, databases, brokers);
// the session store keeps the real values so reports stay complete.
type Redactor struct {
	patterns []*regexp.Regexp
}

// NewRedactor compiles the key patterns. It panics on an invalid pattern.
func NewRedactor(patternStrings []string) *Redactor {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return &Redactor{patterns: patterns}
}

func (r *Redactor) matches(key string) bool {
	for _, p := range r.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}

// State returns a copy of state with matching profile values masked.
func (r *Redactor) State(state *domain.SessionState) *domain.SessionState {
	cloned := state.Clone()
	for i, entry := range cloned.Profile {
		if r.matches(string(entry.Key)) {
			cloned.Profile[i].Value = Mask
		}
	}
	return cloned
}

// Event returns a copy of event with matching profile values masked.
func (r *Redactor) Event(event domain.SessionEvent) domain.SessionEvent {
	profile := make(map[string]string, len(event.Profile))
	for k, v := range event.Profile {
		if r.matches(k) {
			v = Mask
		}
		profile[k] = v
	}
	event.Profile = profile
	return event
}

// Writer wraps next so it only ever sees redacted state.
func (r *Redactor) Writer(next ports.PersistenceWriter) ports.PersistenceWriter {
	return ports.PersistenceWriterFunc(func(ctx context.Context, state *domain.SessionState) error {
		return next.Flush(ctx, r.State(state))
	})
}

// Publisher wraps next so it only ever sees redacted events.
func (r *Redactor) Publisher(next ports.EventPublisher) ports.EventPublisher {
	return redactingPublisher{r: r, next: next}
}

type redactingPublisher struct {
	r    *Redactor
	next ports.EventPublisher
}

func (p redactingPublisher) Publish(ctx context.Context, event domain.SessionEvent) error {
	return p.next.Publish(ctx, p.r.Event(event))
}
