package screening

import "fmt"

const (
	// Greeting opens every session.
	Greeting = "Hello! Welcome to TalentScout's Hiring Assistant. " +
		"I am here to assist you with the initial screening process. " +
		"I'll ask you technical questions to assess your skills. " +
		"Click 'Exit' at any time to end the conversation. Let's get started!"

	// ExitMessage closes a session ended by the candidate.
	ExitMessage = "Thank you for your time! Your responses have been recorded. " +
		"We'll review your information and be in touch soon. Goodbye!"

	CompletedMessage = "You have completed all the technical questions."
	ThanksMessage    = "Thank you for your responses! We'll review them and get back to you."

	// ExitCommand is recorded as the candidate's turn when a session is exited.
	ExitCommand = "exit"

	GeneratingMessage = "Generating technical questions based on your profile..."
	SelectPrompt      = "Select your answer:"
)

// QuestionLine renders the 1-based question heading.
func QuestionLine(n int, question string) string {
	return fmt.Sprintf("Question %d: %s", n, question)
}

// ChoiceLine echoes the recorded option back into the transcript.
func ChoiceLine(n int, option string) string {
	return fmt.Sprintf("Question %d - Your choice: %s", n, option)
}

// GenerationFailedLine explains a failed generation attempt to the candidate.
func GenerationFailedLine(err error) string {
	return fmt.Sprintf("Sorry, I could not prepare your questions (%v). Send a retry to try again.", err)
}
