package ports_test

import (
	"context"
	"sort"
	"testing"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/ports"
)

// MockStore is an in-memory implementation of StateStore for testing purposes.
type MockStore struct {
	data map[string]*domain.SessionState
}

func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string]*domain.SessionState),
	}
}

func (m *MockStore) Save(ctx context.Context, sessionID string, state *domain.SessionState) error {
	m.data[sessionID] = state.Clone()
	return nil
}

func (m *MockStore) Load(ctx context.Context, sessionID string) (*domain.SessionState, error) {
	state, ok := m.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return state.Clone(), nil
}

func (m *MockStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.data, sessionID)
	return nil
}

func (m *MockStore) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func TestStateStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewMockStore())
}

func TestModelGatewayFunc(t *testing.T) {
	var got string
	gw := ports.ModelGatewayFunc(func(ctx context.Context, prompt string) (string, error) {
		got = prompt
		return "[]", nil
	})

	out, err := gw.Predict(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "[]" || got != "hello" {
		t.Errorf("unexpected passthrough: out=%q prompt=%q", out, got)
	}
}
