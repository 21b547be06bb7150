// Package screening implements the candidate screening state machine.
//
// A session moves idle -> collecting_info -> generating_questions ->
// answering_questions -> completed, and may jump to exited from any
// non-terminal phase. Every operation receives a *domain.SessionState and
// returns a new one; the input snapshot is never mutated.
package screening
