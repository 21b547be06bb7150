package screening

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/talentscout/pkg/domain"
	"github.com/xeipuuv/gojsonschema"
)

// questionBankSchema describes the only accepted model output:
// an array of exactly 5 questions, each carrying exactly 4 non-blank options.
const questionBankSchema = `{
  "type": "array",
  "minItems": 5,
  "maxItems": 5,
  "items": {
    "type": "object",
    "required": ["question", "options", "category"],
    "properties": {
      "question": {"type": "string", "pattern": "\\S"},
      "category": {"type": "string", "pattern": "\\S"},
      "options": {
        "type": "array",
        "minItems": 4,
        "maxItems": 4,
        "items": {"type": "string", "pattern": "\\S"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(questionBankSchema)

// ErrMalformedResponse is wrapped by every ParseQuestions failure.
var ErrMalformedResponse = errors.New("malformed model response")

// ParseQuestions turns raw model output into a QuestionBank.
// Anything other than a bare JSON array of the expected shape is rejected;
// nothing is returned partially populated.
func ParseQuestions(raw string, stripFences bool) (domain.QuestionBank, error) {
	doc := strings.TrimSpace(raw)
	if stripFences {
		doc = StripCodeFence(doc)
	}
	if doc == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}
	if !json.Valid([]byte(doc)) {
		return nil, fmt.Errorf("%w: not a JSON document", ErrMalformedResponse)
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedResponse, strings.Join(msgs, "; "))
	}

	var bank domain.QuestionBank
	if err := json.Unmarshal([]byte(doc), &bank); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return bank, nil
}

// StripCodeFence removes a single Markdown code fence wrapping the document.
// Text outside the fence is left in place, so prose still fails parsing.
func StripCodeFence(s string) string {
	clean := strings.TrimSpace(s)
	if !strings.HasPrefix(clean, "```") || !strings.HasSuffix(clean, "```") || len(clean) < 6 {
		return clean
	}
	clean = strings.TrimSuffix(strings.TrimPrefix(clean, "```"), "```")
	// Drop the info string (```json) on the opening line.
	if nl := strings.IndexAny(clean, "\r\n"); nl >= 0 && !strings.ContainsAny(clean[:nl], "[{") {
		clean = clean[nl:]
	}
	return strings.TrimSpace(clean)
}
