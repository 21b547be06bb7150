package domain

const (
	// QuestionCount is the fixed size of a generated QuestionBank.
	QuestionCount = 5
	// OptionCount is the number of options every QuestionItem carries.
	OptionCount = 4
)

// QuestionItem is one multiple-choice question produced by the model.
type QuestionItem struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

// HasOption reports whether option is one of the offered options (exact match).
func (q QuestionItem) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

// QuestionBank is the ordered set of questions for a session.
// A nil bank means questions have not been generated yet.
type QuestionBank []QuestionItem

// Clone returns a deep copy of the bank.
func (b QuestionBank) Clone() QuestionBank {
	if b == nil {
		return nil
	}
	out := make(QuestionBank, len(b))
	for i, q := range b {
		out[i] = q
		out[i].Options = append([]string(nil), q.Options...)
	}
	return out
}

// AnswerRecord is the option a candidate selected for one question.
type AnswerRecord struct {
	Question       string `json:"question"`
	SelectedOption string `json:"selected_option"`
}
