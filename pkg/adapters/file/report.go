package file

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/aretw0/talentscout/pkg/report"
)

// SessionPlaceholder in a file name is replaced with the session ID.
const SessionPlaceholder = "{session}"

// Default file names keep one report and one question bank per session.
const (
	DefaultReportFilename    = SessionPlaceholder + "-responses.txt"
	DefaultQuestionsFilename = SessionPlaceholder + "-questions.json"
)

func resolveName(dir, pattern, sessionID string) string {
	return filepath.Join(dir, strings.ReplaceAll(pattern, SessionPlaceholder, sessionID))
}

// ReportWriter implements ports.PersistenceWriter with a plain text file.
// Each flush overwrites the whole file.
type ReportWriter struct {
	Dir      string
	Filename string
}

// NewReportWriter writes reports to dir/filename. The filename may contain
// {session}; without it every session overwrites the same file.
// An empty filename means DefaultReportFilename.
func NewReportWriter(dir, filename string) *ReportWriter {
	if dir == "" {
		dir = "."
	}
	if filename == "" {
		filename = DefaultReportFilename
	}
	return &ReportWriter{Dir: dir, Filename: filename}
}

// Path returns the report location for a session.
func (w *ReportWriter) Path(sessionID string) string {
	return resolveName(w.Dir, w.Filename, sessionID)
}

// Flush writes the report of state.
func (w *ReportWriter) Flush(ctx context.Context, state *domain.SessionState) error {
	path := w.Path(state.SessionID)
	if err := writeAtomic(path, []byte(report.Format(state)), 0600); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

// QuestionCache implements ports.QuestionCache with a JSON file.
type QuestionCache struct {
	Dir      string
	Filename string
}

// NewQuestionCache writes banks to dir/filename ({session} supported).
func NewQuestionCache(dir, filename string) *QuestionCache {
	if dir == "" {
		dir = "."
	}
	if filename == "" {
		filename = DefaultQuestionsFilename
	}
	return &QuestionCache{Dir: dir, Filename: filename}
}

// Path returns the cache location for a session.
func (c *QuestionCache) Path(sessionID string) string {
	return resolveName(c.Dir, c.Filename, sessionID)
}

// Store writes the bank as an indented JSON array.
func (c *QuestionCache) Store(ctx context.Context, sessionID string, bank domain.QuestionBank) error {
	data, err := json.MarshalIndent(bank, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal question bank: %w", err)
	}
	path := c.Path(sessionID)
	if err := writeAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write question cache %s: %w", path, err)
	}
	return nil
}
