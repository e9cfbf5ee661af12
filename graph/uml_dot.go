package graph

import (
	"fmt"
	"strings"

	"github.com/atlekbai/hsm"
)

// UmlDotGraphStyle renders DOT graphs in basic UML style.
type UmlDotGraphStyle struct{}

// NewUmlDotGraphStyle creates a new UML DOT graph style.
func NewUmlDotGraphStyle() *UmlDotGraphStyle {
	return &UmlDotGraphStyle{}
}

// Prefix returns the text that starts a new DOT graph.
func (s *UmlDotGraphStyle) Prefix(*StateGraph) string {
	return "digraph {\ncompound=true;\nnode [shape=Mrecord]\nrankdir=\"LR\"\n"
}

// FormatCluster formats a composite state as a cluster subgraph.
func (s *UmlDotGraphStyle) FormatCluster(n *Node) string {
	var label strings.Builder
	label.WriteString(EscapeLabel(n.Name))
	if len(n.EntryActions) > 0 || len(n.ExitActions) > 0 {
		label.WriteString("\\n----------")
		for _, act := range n.EntryActions {
			label.WriteString("\\nentry / ")
			label.WriteString(EscapeLabel(act))
		}
		for _, act := range n.ExitActions {
			label.WriteString("\\nexit / ")
			label.WriteString(EscapeLabel(act))
		}
	}

	var sb strings.Builder
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "subgraph \"cluster%s\"\n", EscapeLabel(n.Name))
	sb.WriteString("\t{\n")
	fmt.Fprintf(&sb, "\tlabel = \"%s\"\n", label.String())
	for _, child := range sortedChildren(n) {
		if child.IsComposite() {
			sb.WriteString(s.FormatCluster(child))
		} else {
			sb.WriteString(s.FormatState(child))
		}
	}
	if n.Initial != nil {
		point := "init_" + n.Name
		fmt.Fprintf(&sb, "\"%s\" [label=\"\", shape=point];\n", EscapeLabel(point))
		fmt.Fprintf(&sb, "\"%s\" -> \"%s\"[style = \"solid\"];\n", EscapeLabel(point), EscapeLabel(n.Initial.Name))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// FormatState formats a single state.
func (s *UmlDotGraphStyle) FormatState(n *Node) string {
	name := EscapeLabel(n.Name)
	if len(n.EntryActions) == 0 && len(n.ExitActions) == 0 {
		return fmt.Sprintf("\"%s\" [label=\"%s\"];\n", name, name)
	}

	var actions []string
	for _, act := range n.EntryActions {
		actions = append(actions, "entry / "+EscapeLabel(act))
	}
	for _, act := range n.ExitActions {
		actions = append(actions, "exit / "+EscapeLabel(act))
	}
	return fmt.Sprintf("\"%s\" [label=\"%s|%s\"];\n", name, name, strings.Join(actions, "\\n"))
}

// FormatDecision formats a decision node.
func (s *UmlDotGraphStyle) FormatDecision(d *Decision) string {
	return fmt.Sprintf("\"%s\" [shape = \"diamond\", label = \"%s\"];\n",
		EscapeLabel(d.Name), EscapeLabel(d.Label))
}

// FormatTransition formats one edge. Edges that do not leave the state
// are dashed.
func (s *UmlDotGraphStyle) FormatTransition(e *Edge) string {
	style := "solid"
	if e.Kind == EdgeInternal || e.Kind == EdgeIgnored {
		style = "dashed"
	}
	return fmt.Sprintf("\"%s\" -> \"%s\" [style=\"%s\", label=\"%s\"];",
		EscapeLabel(e.From), EscapeLabel(e.To), style, EscapeLabel(EdgeLabel(e)))
}

// InitialTransition marks the initial state and closes the graph.
func (s *UmlDotGraphStyle) InitialTransition(initial *Node) string {
	if initial == nil {
		return "\n}"
	}
	return fmt.Sprintf("\n init [label=\"\", shape=point];\n init -> \"%s\"[style = \"solid\"]\n}",
		EscapeLabel(initial.Name))
}

// EscapeLabel escapes backslashes and double quotes.
func EscapeLabel(label string) string {
	label = strings.ReplaceAll(label, "\\", "\\\\")
	label = strings.ReplaceAll(label, "\"", "\\\"")
	return label
}

// UmlDotGraph renders machineInfo as a DOT graph.
func UmlDotGraph(machineInfo *hsm.StateMachineInfo) string {
	return NewStateGraph(machineInfo).ToGraph(NewUmlDotGraphStyle())
}
