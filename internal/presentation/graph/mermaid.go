package graph

import (
	"fmt"
	"strings"

	"github.com/embld/interviewflow/pkg/domain"
)

// Overlay contains session data to highlight on the graph.
type Overlay struct {
	VisitedNodes []domain.NodeID
	CurrentNode  domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart of the workflow.
// Node shapes:
//   - Start: ((Circle))
//   - Asks the user: [/Parallelogram/]
//   - Gate: {Rhombus}
//   - Streamed document: ([Stadium])
//   - Default: [Rectangle]
//
// Recovery edges are dotted. Overlay styles are applied when overlay is set.
func GenerateMermaid(nodes []domain.NodeID, edges []domain.Transition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, id := range nodes {
		opener, closer := "[", "]"
		switch {
		case id == domain.StartNode:
			opener, closer = "((", "))"
		case id.AwaitsInput():
			opener, closer = "[/", "/]"
		case id == domain.NodeAssessmentGate:
			opener, closer = "{", "}"
		case id.Streamable():
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, id, closer)
	}

	for _, e := range edges {
		arrow := "-->"
		if e.Recovery {
			arrow = "-.->"
		}
		if e.Condition != "" {
			label := strings.ReplaceAll(e.Condition, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if e.Recovery {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", e.From, arrow, e.To)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[domain.NodeID]bool)
		for _, id := range overlay.VisitedNodes {
			if id == "" || seen[id] || id == overlay.CurrentNode {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", overlay.CurrentNode)
		}
	}

	return sb.String()
}

// Visited returns the nodes every session at current has passed through:
// the nodes before it in workflow order, minus those only reached on a
// condition.
func Visited(current domain.NodeID) []domain.NodeID {
	unconditional := map[domain.NodeID]bool{domain.StartNode: true}
	for _, e := range domain.Transitions() {
		if !e.Recovery && e.Condition == "" {
			unconditional[e.To] = true
		}
	}
	var out []domain.NodeID
	for _, n := range domain.AllNodes() {
		if n == current {
			return out
		}
		if unconditional[n] {
			out = append(out, n)
		}
	}
	return nil
}
