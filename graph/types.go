// Package graph renders the topology of a state machine as a UML state
// diagram in DOT or Mermaid syntax.
package graph

import "github.com/atlekbai/hsm"

// EdgeKind classifies an edge of the graph.
type EdgeKind int

const (
	// EdgeTransition moves between two different states.
	EdgeTransition EdgeKind = iota
	// EdgeReentry exits and re-enters its state.
	EdgeReentry
	// EdgeInternal runs an action without leaving its state.
	EdgeInternal
	// EdgeIgnored is a trigger that is accepted and dropped.
	EdgeIgnored
	// EdgeDecision leads from a state into a decision node.
	EdgeDecision
	// EdgeChoice leads from a decision node to a possible destination.
	EdgeChoice
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeTransition:
		return "transition"
	case EdgeReentry:
		return "reentry"
	case EdgeInternal:
		return "internal"
	case EdgeIgnored:
		return "ignored"
	case EdgeDecision:
		return "decision"
	case EdgeChoice:
		return "choice"
	default:
		return "unknown"
	}
}

// IsSelfLoop reports whether the edge starts and ends on the same state.
func (k EdgeKind) IsSelfLoop() bool {
	return k == EdgeReentry || k == EdgeInternal || k == EdgeIgnored
}

// Node is a state in the graph.
type Node struct {
	// Name is the printed state value.
	Name string

	// EntryActions lists the unconditional entry actions.
	EntryActions []string

	// ExitActions lists the exit actions.
	ExitActions []string

	Parent   *Node
	Children []*Node

	// Initial is the substate entered automatically, if any.
	Initial *Node

	// Info is the introspection record the node was built from.
	Info *hsm.StateInfo
}

// IsComposite reports whether the node has substates.
func (n *Node) IsComposite() bool {
	return len(n.Children) > 0
}

// Decision is the pseudo-state drawn for a dynamic transition.
type Decision struct {
	// Name is the node identifier, Decision1, Decision2 and so on.
	Name string

	// Label describes the selector.
	Label string
}

// Edge connects two nodes. From and To are node or decision names.
type Edge struct {
	Kind    EdgeKind
	Trigger string
	From    string
	To      string
	Guards  []string
	Actions []string
}
