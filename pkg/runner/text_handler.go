package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/talentscout/internal/screening"
	"github.com/aretw0/talentscout/pkg/domain"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	// SystemStyle decorates system messages (colors, prefixes).
	SystemStyle func(string) string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithSystemStyle configures how system messages are decorated.
func WithSystemStyle(style func(string) string) TextHandlerOption {
	return func(h *TextHandler) {
		h.SystemStyle = style
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for non-fatal errors to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	needsInput := false
	for _, act := range actions {
		switch act.Type {
		case domain.ActionRenderContent:
			if msg, ok := act.Payload.(string); ok {
				fmt.Fprintln(h.Writer, strings.TrimSpace(h.render(msg)))
			}
		case domain.ActionSystemMessage:
			if msg, ok := act.Payload.(string); ok {
				if err := h.SystemOutput(ctx, msg); err != nil {
					return false, err
				}
			}
		case domain.ActionRequestInput:
			needsInput = true
			if req, ok := act.Payload.(domain.InputRequest); ok {
				h.printRequest(req)
			}
		}
	}
	return needsInput, nil
}

func (h *TextHandler) printRequest(req domain.InputRequest) {
	switch req.Type {
	case domain.InputTypeChoice:
		fmt.Fprintln(h.Writer, screening.SelectPrompt)
		for i, opt := range req.Options {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, opt)
		}
	case domain.InputTypeRetry:
		fmt.Fprintln(h.Writer, "Press Enter to retry, or type 'exit' to leave.")
	}
}

func (h *TextHandler) render(msg string) string {
	if h.Renderer == nil {
		return msg
	}
	rendered, err := h.Renderer(msg)
	if err != nil {
		return msg
	}
	return rendered
}

func (h *TextHandler) Input(ctx context.Context, req domain.InputRequest) (domain.Input, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return domain.Input{}, ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return domain.Input{}, ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return domain.Input{}, io.EOF
			}
			if res.err != nil {
				return domain.Input{}, res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return Interpret(clean, req), nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	line := "[System] " + msg
	if h.SystemStyle != nil {
		line = h.SystemStyle(line)
	}
	_, err := fmt.Fprintf(h.Writer, "%s\n", line)
	return err
}
