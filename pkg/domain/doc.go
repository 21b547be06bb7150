/*
Package domain contains the core domain models of the TalentScout screening assistant.

It defines the entities the conversation state machine works with: the candidate
profile collected during the info stages, the generated question bank, the answer
records and the session snapshot that ties them together. This package is kept
pure and free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - CandidateProfile: Ordered field/value pairs collected one stage at a time.
  - QuestionBank: Exactly five multiple-choice items with four options each.
  - AnswerRecord: The option chosen for one question, in bank order.
  - SessionState: The runtime snapshot of a session (phase, stage, index, answers).
  - ActionRequest: A structural representation of what the host should render or collect.
*/
package domain
