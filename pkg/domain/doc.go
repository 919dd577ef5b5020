/*
Package domain contains the core models of the interview workflow.

It is kept pure: no I/O, no persistence, no LLM access. Everything a node handler
reads or writes travels through the types declared here.

# Key Entities

  - NodeID: the closed set of workflow steps.
  - InterviewState: the single mutable record threaded through every call.
  - Question: an immutable entry of a question plan.
  - Response: the sealed union returned by every node (question, plan, streaming, message).
  - Session: the record persisted by a session store ({state, currentNode} plus ownership).
  - StatePatch: the top-level delta between two states, carried by plan responses.
*/
package domain
