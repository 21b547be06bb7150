package domain

// FieldKey names a candidate field collected during the info stages.
type FieldKey string

const (
	FieldName       FieldKey = "name"
	FieldEmail      FieldKey = "email"
	FieldPhone      FieldKey = "phone"
	FieldExperience FieldKey = "experience"
	FieldPosition   FieldKey = "position"
	FieldLocation   FieldKey = "location"
	FieldTechStack  FieldKey = "tech_stack"
)

// InfoStage pairs a profile field with the prompt shown to the candidate.
type InfoStage struct {
	Key    FieldKey `json:"key"`
	Prompt string   `json:"prompt"`
}

// InfoStages is the collection order. SessionState.Stage indexes into it.
var InfoStages = []InfoStage{
	{Key: FieldName, Prompt: "Please provide your full name."},
	{Key: FieldEmail, Prompt: "What's your email address?"},
	{Key: FieldPhone, Prompt: "Can you share your phone number?"},
	{Key: FieldExperience, Prompt: "How many years of experience do you have?"},
	{Key: FieldPosition, Prompt: "What position(s) are you interested in?"},
	{Key: FieldLocation, Prompt: "Where are you currently located?"},
	{Key: FieldTechStack, Prompt: "What is your tech stack? Include programming languages, frameworks, and tools."},
}

// ProfileEntry is a single submitted field.
type ProfileEntry struct {
	Key   FieldKey `json:"key"`
	Value string   `json:"value"`
}

// CandidateProfile keeps submitted fields in submission order,
// which is also the order they appear in the final report.
type CandidateProfile []ProfileEntry

// Get returns the value stored under key.
func (p CandidateProfile) Get(key FieldKey) (string, bool) {
	for _, e := range p {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Value returns the value stored under key or an empty string.
func (p CandidateProfile) Value(key FieldKey) string {
	v, _ := p.Get(key)
	return v
}

// Set returns a copy of the profile with key bound to value.
// An existing entry keeps its position.
func (p CandidateProfile) Set(key FieldKey, value string) CandidateProfile {
	out := make(CandidateProfile, len(p), len(p)+1)
	copy(out, p)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, ProfileEntry{Key: key, Value: value})
}

// Len returns the number of submitted fields.
func (p CandidateProfile) Len() int {
	return len(p)
}

// Map flattens the profile for serialization targets that do not care about order.
func (p CandidateProfile) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, e := range p {
		m[string(e.Key)] = e.Value
	}
	return m
}
