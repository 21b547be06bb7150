/*
Package ports defines the driven ports (interfaces) for the TalentScout engine.

These interfaces decouple the screening state machine from the model provider,
the report sinks, and the session storage, so every collaborator can be swapped
for an in-memory fake in tests.

# Key Interfaces

  - ModelGateway: turns a question-generation prompt into raw model text.
  - PersistenceWriter: writes the final candidate report on completion or exit.
  - QuestionCache: keeps an inspectable copy of a generated QuestionBank.
  - EventPublisher: announces finished sessions to external subscribers.
  - StateStore: persists SessionState between interaction cycles.
  - DistributedLocker: serializes access to a session across replicas.
*/
package ports
