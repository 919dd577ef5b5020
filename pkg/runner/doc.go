/*
Package runner drives an interview from a terminal or a pipe.

It is the bridge between the Engine and the person answering: it executes a
node, persists the step through a session.Manager, shows the response with
an IOHandler and reads the next answer. Nodes that produce no question are
followed automatically until the interview completes or a model failure
needs a decision.

# Key Components

  - Runner: the execution loop.
  - IOHandler: how responses are shown and answers read.
  - TextHandler: interactive terminal IO with line editing and markdown rendering.
  - JSONHandler: JSON Lines IO for scripted hosts.
  - RetryPolicy: what to do after a fallback message.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithSessions(manager),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	sess, state, err := manager.Load(ctx, "local", id)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := r.Run(ctx, sess, state); err != nil {
		log.Fatal(err)
	}
*/
package runner
