package graph

import "strings"

// Style renders the parts of a StateGraph in one output syntax.
type Style interface {
	// Prefix returns the text that starts a new graph.
	Prefix(sg *StateGraph) string

	// FormatState formats a state without substates.
	FormatState(n *Node) string

	// FormatCluster formats a composite state and, recursively, its
	// substates.
	FormatCluster(n *Node) string

	// FormatDecision formats a decision node.
	FormatDecision(d *Decision) string

	// FormatTransition formats one edge.
	FormatTransition(e *Edge) string

	// InitialTransition returns the text that marks the initial state and
	// closes the graph.
	InitialTransition(initial *Node) string
}

// EdgeLabel renders "trigger / action, action [guard] [guard]".
func EdgeLabel(e *Edge) string {
	var sb strings.Builder

	sb.WriteString(e.Trigger)
	if len(e.Actions) > 0 {
		sb.WriteString(" / ")
		sb.WriteString(strings.Join(e.Actions, ", "))
	}
	for _, g := range e.Guards {
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("[")
		sb.WriteString(g)
		sb.WriteString("]")
	}

	return sb.String()
}
