/*
Package runner implements the interactive loop and I/O orchestration for the TalentScout engine.

It acts as the bridge between the screening engine and a terminal or a pipe.
The runner renders the current state, collects exactly one input per cycle
through a pluggable handler, hands it to the engine, and persists the state
after every cycle when a store is configured.

# Key Components

  - Runner: the Render -> Input -> Handle loop.
  - IOHandler: decouples how actions are shown and inputs are read.
  - TextHandler: interactive CLI usage; numbered options, "exit" to leave.
  - JSONHandler: NDJSON actions out, JSON inputs in, for scripted hosts.

# Usage

	r := runner.NewRunner(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithStore(store),
		runner.WithSessionID("candidate-1"),
	)

	state, err := r.Run(ctx, engine, nil)
*/
package runner
