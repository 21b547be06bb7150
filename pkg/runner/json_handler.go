package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/aretw0/talentscout/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
// Each Output is one line holding the action array; each input line is either a
// domain.Input object ({"type":"select","value":"..."}), a JSON string, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: enc,
	}
}

func (h *JSONHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	if len(actions) == 0 {
		return false, nil
	}
	if err := h.Encoder.Encode(actions); err != nil {
		return false, err
	}
	_, needsInput := pendingRequest(actions)
	return needsInput, nil
}

func (h *JSONHandler) Input(ctx context.Context, req domain.InputRequest) (domain.Input, error) {
	if err := ctx.Err(); err != nil {
		return domain.Input{}, err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return domain.Input{}, err
	}
	clean, err := SanitizeInput(text)
	if err != nil {
		return domain.Input{}, err
	}
	return decodeInput(clean, req), nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode([]domain.ActionRequest{{Type: domain.ActionSystemMessage, Payload: msg}})
}
