package domain

// InputKind is the kind of action a presentation layer feeds back per cycle.
type InputKind string

const (
	InputText   InputKind = "text"   // Field value during info collection
	InputSelect InputKind = "select" // Chosen option during question answering
	InputExit   InputKind = "exit"   // Explicit early exit
	InputRetry  InputKind = "retry"  // New attempt after a failed question generation
)

// Input is the single user action of one interaction cycle.
type Input struct {
	Kind  InputKind `json:"type"`
	Value string    `json:"value,omitempty"`
}

// TextInput builds an info-stage submission.
func TextInput(value string) Input {
	return Input{Kind: InputText, Value: value}
}

// SelectInput builds a question-stage selection.
func SelectInput(option string) Input {
	return Input{Kind: InputSelect, Value: option}
}

// ExitInput builds an exit signal.
func ExitInput() Input {
	return Input{Kind: InputExit}
}

// RetryInput builds a request to attempt question generation again.
func RetryInput() Input {
	return Input{Kind: InputRetry}
}
