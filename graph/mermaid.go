package graph

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/atlekbai/hsm"
)

// MermaidGraphDirection specifies the direction of a Mermaid graph.
type MermaidGraphDirection int

const (
	// TopToBottom flows from top to bottom.
	TopToBottom MermaidGraphDirection = iota
	// BottomToTop flows from bottom to top.
	BottomToTop
	// LeftToRight flows from left to right.
	LeftToRight
	// RightToLeft flows from right to left.
	RightToLeft
)

func (d MermaidGraphDirection) code() string {
	switch d {
	case BottomToTop:
		return "BT"
	case LeftToRight:
		return "LR"
	case RightToLeft:
		return "RL"
	default:
		return "TB"
	}
}

// MermaidGraphStyle renders Mermaid stateDiagram-v2 graphs. State names
// that Mermaid cannot parse are replaced by aliases.
type MermaidGraphStyle struct {
	direction *MermaidGraphDirection
	aliases   map[string]string
}

// NewMermaidGraphStyle creates a Mermaid style. A nil direction leaves the
// layout to Mermaid.
func NewMermaidGraphStyle(direction *MermaidGraphDirection) *MermaidGraphStyle {
	return &MermaidGraphStyle{direction: direction, aliases: make(map[string]string)}
}

// Prefix starts the diagram and declares the aliases of renamed states.
func (s *MermaidGraphStyle) Prefix(sg *StateGraph) string {
	s.buildAliases(sg)

	var sb strings.Builder
	sb.WriteString("stateDiagram-v2")
	if s.direction != nil {
		fmt.Fprintf(&sb, "\n\tdirection %s", s.direction.code())
	}

	names := make([]string, 0, len(s.aliases))
	for name := range s.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if alias := s.aliases[name]; alias != name {
			fmt.Fprintf(&sb, "\n\t%s : %s", alias, name)
		}
	}
	return sb.String()
}

// FormatCluster formats a composite state and its initial substate.
func (s *MermaidGraphStyle) FormatCluster(n *Node) string {
	return s.formatCluster(n, "\t")
}

func (s *MermaidGraphStyle) formatCluster(n *Node, indent string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n%sstate %s {", indent, s.name(n.Name))
	if n.Initial != nil {
		fmt.Fprintf(&sb, "\n%s\t[*] --> %s", indent, s.name(n.Initial.Name))
	}
	for _, child := range sortedChildren(n) {
		if child.IsComposite() {
			sb.WriteString(s.formatCluster(child, indent+"\t"))
		} else {
			fmt.Fprintf(&sb, "\n%s\t%s", indent, s.name(child.Name))
		}
	}
	fmt.Fprintf(&sb, "\n%s}", indent)
	return sb.String()
}

// FormatState returns nothing; Mermaid declares states implicitly.
func (s *MermaidGraphStyle) FormatState(*Node) string {
	return ""
}

// FormatDecision formats a decision node as a choice pseudo-state.
func (s *MermaidGraphStyle) FormatDecision(d *Decision) string {
	return fmt.Sprintf("\n\tstate %s <<choice>>", d.Name)
}

// FormatTransition formats one edge.
func (s *MermaidGraphStyle) FormatTransition(e *Edge) string {
	return fmt.Sprintf("\t%s --> %s : %s", s.name(e.From), s.name(e.To), EdgeLabel(e))
}

// InitialTransition marks the initial state.
func (s *MermaidGraphStyle) InitialTransition(initial *Node) string {
	if initial == nil {
		return ""
	}
	return fmt.Sprintf("\n[*] --> %s", s.name(initial.Name))
}

func (s *MermaidGraphStyle) buildAliases(sg *StateGraph) {
	names := make([]string, 0, len(sg.Nodes))
	for name := range sg.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	taken := make(map[string]bool, len(names))
	for _, name := range names {
		alias := sanitizeStateName(name)
		if alias != name {
			candidate := alias
			for i := 1; taken[candidate] || sg.Nodes[candidate] != nil; i++ {
				candidate = fmt.Sprintf("%s_%d", alias, i)
			}
			alias = candidate
		}
		taken[alias] = true
		s.aliases[name] = alias
	}
}

func (s *MermaidGraphStyle) name(stateName string) string {
	if alias, ok := s.aliases[stateName]; ok {
		return alias
	}
	return stateName
}

// sanitizeStateName removes characters that break Mermaid syntax.
func sanitizeStateName(name string) string {
	var sb strings.Builder
	for _, c := range name {
		if !unicode.IsSpace(c) && c != ':' && c != '-' {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}

// MermaidGraph renders machineInfo as a Mermaid state diagram.
func MermaidGraph(machineInfo *hsm.StateMachineInfo, direction *MermaidGraphDirection) string {
	return NewStateGraph(machineInfo).ToGraph(NewMermaidGraphStyle(direction))
}
