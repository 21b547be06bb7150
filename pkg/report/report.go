// Package report renders the final candidate report.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/talentscout/pkg/domain"
)

// Label formats a field key for the report: first letter upper case, the rest lower case.
func Label(key domain.FieldKey) string {
	s := strings.ToLower(string(key))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Format renders the plain text report written at the end of a session.
//
//	Candidate Details:
//	Name: Ada
//	...
//
//	MCQ Responses:
//	Question: <q>
//	Answer: <a>
//
// Fields appear in submission order and answers in bank order.
func Format(state *domain.SessionState) string {
	var b strings.Builder
	b.WriteString("Candidate Details:\n")
	for _, e := range state.Profile {
		fmt.Fprintf(&b, "%s: %s\n", Label(e.Key), e.Value)
	}
	b.WriteString("\nMCQ Responses:\n")
	for _, a := range state.Answers {
		fmt.Fprintf(&b, "Question: %s\nAnswer: %s\n\n", a.Question, a.SelectedOption)
	}
	return b.String()
}

// Markdown renders the same content as Format for terminal display.
func Markdown(state *domain.SessionState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Screening `%s`\n\n", state.SessionID)
	fmt.Fprintf(&b, "**Status:** %s\n\n", state.Phase)
	b.WriteString("## Candidate Details\n\n")
	if len(state.Profile) == 0 {
		b.WriteString("_No details collected._\n")
	}
	for _, e := range state.Profile {
		fmt.Fprintf(&b, "- **%s:** %s\n", Label(e.Key), e.Value)
	}
	b.WriteString("\n## MCQ Responses\n\n")
	if len(state.Answers) == 0 {
		b.WriteString("_No answers recorded._\n")
	}
	for i, a := range state.Answers {
		fmt.Fprintf(&b, "%d. %s\n   - %s\n", i+1, a.Question, a.SelectedOption)
	}
	return b.String()
}
