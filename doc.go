/*
Package interviewflow runs LLM-assisted requirements interviews.

An interview walks a fixed set of nodes: scripted clarification and detailed
questions, then synthesis steps that summarize the request, invent personas,
interview them, check whether enough is known, write a requirements document,
analyze the market, assess it and finally produce a pitch. Every step is a
pure function of (node, state, message); callers own the state and persist it
between requests, so an interview can be resumed from any process.

# Usage

	client := llm.Chain(provider, middleware.Timeout(60*time.Second), middleware.RequireContent())
	eng, err := interviewflow.New(client, interviewflow.WithMaxFollowupRounds(1))
	if err != nil {
		log.Fatal(err)
	}

	state := interviewflow.NewState()
	node := interviewflow.StartNode
	res, err := eng.Execute(ctx, node, state, "")
	// Show res.Response, collect an answer, then call Execute again with
	// res.State and res.NextNode (or node, when NextNode is empty).

The HTTP, MCP and CLI front ends in this module are thin layers over the
same Engine.
*/
package interviewflow
