package memory

import (
	"context"
	"sync"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/report"
)

// Writer implements ports.PersistenceWriter by keeping rendered reports in memory.
type Writer struct {
	mu      sync.RWMutex
	reports map[string]string
	flushes int
}

// NewWriter creates an empty report writer.
func NewWriter() *Writer {
	return &Writer{reports: make(map[string]string)}
}

// Flush renders and keeps the report, overwriting any previous one for the session.
func (w *Writer) Flush(ctx context.Context, state *domain.SessionState) error {
	text := report.Format(state)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports[state.SessionID] = text
	w.flushes++
	return nil
}

// Report returns the last report written for a session.
func (w *Writer) Report(sessionID string) (string, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.reports[sessionID]
	return r, ok
}

// Flushes counts Flush calls across all sessions.
func (w *Writer) Flushes() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.flushes
}

// QuestionCache implements ports.QuestionCache in memory.
type QuestionCache struct {
	mu    sync.RWMutex
	banks map[string]domain.QuestionBank
}

// NewQuestionCache creates an empty cache.
func NewQuestionCache() *QuestionCache {
	return &QuestionCache{banks: make(map[string]domain.QuestionBank)}
}

// Store keeps a copy of the bank.
func (c *QuestionCache) Store(ctx context.Context, sessionID string, bank domain.QuestionBank) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banks[sessionID] = bank.Clone()
	return nil
}

// Get returns the cached bank of a session.
func (c *QuestionCache) Get(sessionID string) (domain.QuestionBank, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.banks[sessionID]
	return b.Clone(), ok
}
