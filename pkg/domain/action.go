package domain

// ActionRequest represents something the engine asks the host to render or collect.
type ActionRequest struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Standard Action Types
const (
	// ActionRenderContent requests the host to display content to the user.
	// Payload: string (the content)
	ActionRenderContent = "RENDER_CONTENT"

	// ActionRequestInput requests the host to collect input from the user.
	// Payload: InputRequest
	ActionRequestInput = "REQUEST_INPUT"

	// ActionSystemMessage represents a meta-message from the system (errors, status).
	// Payload: string (the message)
	ActionSystemMessage = "SYSTEM_MESSAGE"
)

// InputType defines the kind of input requested.
type InputType string

const (
	InputTypeText   InputType = "text"
	InputTypeChoice InputType = "choice"
	InputTypeRetry  InputType = "retry"
)

// InputRequest describes the constraints and type of input needed.
type InputRequest struct {
	Type    InputType `json:"type"`
	Field   FieldKey  `json:"field,omitempty"`
	Options []string  `json:"options,omitempty"`
}
