package screening

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	promptInstruction = "Generate a list of technical multiple-choice questions."
	promptSuffix      = " Provide output only as JSON."
)

type questionPrompt struct {
	Instruction string        `json:"instruction"`
	Details     promptDetails `json:"details"`
}

type promptDetails struct {
	TechStack    string   `json:"candidate_tech_stack"`
	UserInfo     string   `json:"candidate_user_information"`
	Requirements []string `json:"requirements"`
}

// BuildPrompt renders the question-generation request for the model gateway.
func BuildPrompt(techStack, position, experience string) (string, error) {
	p := questionPrompt{
		Instruction: promptInstruction,
		Details: promptDetails{
			TechStack: techStack,
			UserInfo: fmt.Sprintf(
				"Candidate's preferred job position %s and the candidate's industry experience of %s years",
				position, experience),
			Requirements: []string{
				"Provide exactly 5 questions.",
				"Each question must be specific and relevant to the provided technologies.",
				fmt.Sprintf("Questions should be related to Job position: %s, and its experience: %s years", position, experience),
				"Structure each question as an object with 'question', 'options', and 'category'.",
				"Ensure that 'options' is an array of exactly four items.",
				"Return the response as a valid JSON array of objects, each object containing 'question', 'options', and 'category'.",
			},
		},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n") + promptSuffix, nil
}
