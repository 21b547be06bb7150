package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/talentscout/pkg/domain"
)

func TestJSONHandler_Output(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := NewJSONHandler(strings.NewReader(""), buf)

	actions := []domain.ActionRequest{
		{Type: domain.ActionRenderContent, Payload: "What's your email address?"},
		{Type: domain.ActionRequestInput, Payload: domain.InputRequest{Type: domain.InputTypeText, Field: domain.FieldEmail}},
	}

	needsInput, err := handler.Output(context.Background(), actions)
	if err != nil {
		t.Fatalf("Output failed: %v", err)
	}
	if !needsInput {
		t.Error("Expected needsInput to be true")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line of output, got %d", len(lines))
	}

	var decoded []domain.ActionRequest
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Fatalf("Failed to decode JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("Expected 2 actions, got %d", len(decoded))
	}
	if decoded[0].Payload.(string) != "What's your email address?" {
		t.Errorf("Payload mismatch")
	}
}

func TestJSONHandler_Input(t *testing.T) {
	choice := domain.InputRequest{Type: domain.InputTypeChoice, Options: []string{"A", "B", "C", "D"}}
	tests := []struct {
		name string
		line string
		want domain.Input
	}{
		{"object", `{"type":"select","value":"C"}` + "\n", domain.SelectInput("C")},
		{"json string", `"2"` + "\n", domain.SelectInput("B")},
		{"plain text", "exit\n", domain.ExitInput()},
		{"no trailing newline", `{"type":"exit"}`, domain.ExitInput()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewJSONHandler(strings.NewReader(tt.line), io.Discard)
			got, err := handler.Input(context.Background(), choice)
			if err != nil {
				t.Fatalf("Input failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestJSONHandler_InputEOF(t *testing.T) {
	handler := NewJSONHandler(strings.NewReader(""), io.Discard)
	_, err := handler.Input(context.Background(), domain.InputRequest{})
	if err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}
