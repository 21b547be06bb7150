package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/talentscout/pkg/adapters/memory"
	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/persistence/middleware"
	"github.com/aretw0/talentscout/pkg/ports"
)

type capturePublisher struct {
	events []domain.SessionEvent
}

func (c *capturePublisher) Publish(ctx context.Context, event domain.SessionEvent) error {
	c.events = append(c.events, event)
	return nil
}

func TestRedactor_Writer(t *testing.T) {
	writer := memory.NewWriter()
	redactor := middleware.NewRedactor([]string{"^email$", "phone"})

	state := candidate("pii-session", "ada@example.com")
	state.Profile = state.Profile.Set(domain.FieldPhone, "555-0100")

	if err := redactor.Writer(writer).Flush(context.Background(), state); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	if state.Profile.Value(domain.FieldEmail) != "ada@example.com" {
		t.Error("Redactor modified original state in memory!")
	}

	report, _ := writer.Report("pii-session")
	want := "Candidate Details:\nName: Ada Lovelace\nEmail: ***\nPhone: ***\n\nMCQ Responses:\n"
	if report != want {
		t.Errorf("unexpected report:\n%q\nwant\n%q", report, want)
	}
}

func TestRedactor_Publisher(t *testing.T) {
	capture := &capturePublisher{}
	var pub ports.EventPublisher = middleware.NewRedactor([]string{"email"}).Publisher(capture)

	event := domain.NewSessionEvent(candidate("s", "ada@example.com"))
	if err := pub.Publish(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	if got := capture.events[0].Profile["email"]; got != middleware.Mask {
		t.Errorf("email should be masked, got: %v", got)
	}
	if got := capture.events[0].Profile["name"]; got != "Ada Lovelace" {
		t.Errorf("name shouldn't be masked, got: %v", got)
	}
	if event.Profile["email"] != "ada@example.com" {
		t.Error("Redactor modified the caller's event")
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.StateStore) ports.StateStore {
			return taggedStore{StateStore: next, name: name, order: &order}
		}
	}

	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	if err := store.Save(context.Background(), "x", domain.NewSessionState("x")); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("unexpected order: %v", order)
	}
}

type taggedStore struct {
	ports.StateStore
	name  string
	order *[]string
}

func (s taggedStore) Save(ctx context.Context, id string, state *domain.SessionState) error {
	*s.order = append(*s.order, s.name)
	return s.StateStore.Save(ctx, id, state)
}
