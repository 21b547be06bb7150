/*
Package talentscout is a conversational candidate screening engine.

It collects seven biographical fields from a candidate, asks a language model
for five multiple-choice technical questions tailored to the stated tech stack,
presents them one at a time, and writes a plain text report when the candidate
finishes or exits.

# Concept

The engine is a linear state machine. The host owns the SessionState value and
passes it into every call; the engine returns a new one. Model access, report
sinks, session storage and event publication are ports, so the same engine runs
behind the CLI, the HTTP server and the MCP server.

# Usage

	eng, err := talentscout.New(
		talentscout.WithGateway(gateway),
		talentscout.WithWriter(file.NewReportWriter(".", file.DefaultReportFilename)),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	state, err := eng.Start(ctx, "")
	if err != nil {
		log.Fatal(err)
	}

	// Main Loop: Render -> Input -> Handle
	for !state.Terminal() {
		actions, err := eng.Render(ctx, state)
		if err != nil {
			log.Fatal(err)
		}
		for _, act := range actions {
			log.Println("Action:", act)
		}

		// In a real app, this input comes from the candidate
		state, err = eng.Handle(ctx, state, domain.TextInput("Ada"))
		if err != nil {
			log.Printf("rejected: %v", err)
		}
	}
*/
package talentscout
