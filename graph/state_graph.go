package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/atlekbai/hsm"
)

// StateGraph is the symbolic form of a machine's topology, independent of
// the output syntax.
type StateGraph struct {
	// Initial is the state the machine was created in.
	Initial *Node

	// Nodes holds every state, indexed by name.
	Nodes map[string]*Node

	// Decisions holds one node per dynamic transition.
	Decisions []*Decision

	// Edges are sorted by source, destination and trigger.
	Edges []*Edge
}

// NewStateGraph builds the graph of machineInfo.
func NewStateGraph(machineInfo *hsm.StateMachineInfo) *StateGraph {
	sg := &StateGraph{Nodes: make(map[string]*Node, len(machineInfo.States))}

	for _, info := range machineInfo.States {
		sg.node(info)
	}
	for _, info := range machineInfo.States {
		n := sg.node(info)
		if info.Superstate != nil {
			n.Parent = sg.node(info.Superstate)
		}
		for _, sub := range info.Substates {
			n.Children = append(n.Children, sg.node(sub))
		}
		if info.InitialTransitionTarget != nil {
			n.Initial = sg.node(info.InitialTransitionTarget)
		}
	}
	if machineInfo.InitialState != nil {
		sg.Initial = sg.node(machineInfo.InitialState)
	}

	for _, info := range machineInfo.States {
		sg.addTransitions(info)
	}
	sg.addEntryFromActions(machineInfo)
	sg.sortEdges()
	return sg
}

func (sg *StateGraph) node(info *hsm.StateInfo) *Node {
	name := info.String()
	if n, ok := sg.Nodes[name]; ok {
		return n
	}
	n := &Node{
		Name:         name,
		EntryActions: entryActionDescriptions(info),
		ExitActions:  exitActionDescriptions(info),
		Info:         info,
	}
	sg.Nodes[name] = n
	return n
}

func (sg *StateGraph) addTransitions(info *hsm.StateInfo) {
	from := info.String()

	for _, fix := range info.FixedTransitions {
		edge := &Edge{
			Kind:    EdgeTransition,
			Trigger: fix.GetTrigger().String(),
			From:    from,
			To:      fix.DestinationState.String(),
			Guards:  guardDescriptions(fix.GetGuardConditions()),
		}
		switch {
		case fix.GetIsInternalTransition():
			edge.Kind = EdgeInternal
		case fix.IsReentry:
			edge.Kind = EdgeReentry
			// A reentry runs the unconditional entry actions again.
			edge.Actions = entryActionDescriptions(info)
		}
		sg.Edges = append(sg.Edges, edge)
	}

	for _, dyn := range info.DynamicTransitions {
		decision := &Decision{
			Name:  fmt.Sprintf("Decision%d", len(sg.Decisions)+1),
			Label: dyn.DestinationStateSelectorDescription.Description(),
		}
		sg.Decisions = append(sg.Decisions, decision)

		trigger := dyn.GetTrigger().String()
		sg.Edges = append(sg.Edges, &Edge{
			Kind:    EdgeDecision,
			Trigger: trigger,
			From:    from,
			To:      decision.Name,
			Guards:  guardDescriptions(dyn.GetGuardConditions()),
		})
		for _, possible := range dyn.PossibleDestinationStates {
			if _, ok := sg.Nodes[possible.DestinationState]; !ok {
				continue
			}
			label := possible.Criterion
			if label == "" {
				label = trigger
			}
			sg.Edges = append(sg.Edges, &Edge{
				Kind:    EdgeChoice,
				Trigger: label,
				From:    decision.Name,
				To:      possible.DestinationState,
			})
		}
	}

	for _, ignored := range info.IgnoredTriggers {
		sg.Edges = append(sg.Edges, &Edge{
			Kind:    EdgeIgnored,
			Trigger: ignored.GetTrigger().String(),
			From:    from,
			To:      from,
			Guards:  guardDescriptions(ignored.GetGuardConditions()),
		})
	}
}

// addEntryFromActions attaches trigger-restricted entry actions to the
// edges that arrive through that trigger.
func (sg *StateGraph) addEntryFromActions(machineInfo *hsm.StateMachineInfo) {
	for _, info := range machineInfo.States {
		to := info.String()
		for _, action := range info.EntryActions {
			if action.FromTrigger == nil {
				continue
			}
			trigger := fmt.Sprint(action.FromTrigger)
			for _, edge := range sg.Edges {
				if edge.To != to || edge.Trigger != trigger {
					continue
				}
				if edge.Kind == EdgeTransition || edge.Kind == EdgeReentry {
					edge.Actions = append(edge.Actions, action.Description())
				}
			}
		}
	}
}

func (sg *StateGraph) sortEdges() {
	sort.SliceStable(sg.Edges, func(i, j int) bool {
		a, b := sg.Edges[i], sg.Edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Trigger < b.Trigger
	})
}

// Roots returns the top-level states sorted by name.
func (sg *StateGraph) Roots() []*Node {
	var roots []*Node
	for _, n := range sg.Nodes {
		if n.Parent == nil {
			roots = append(roots, n)
		}
	}
	sortNodes(roots)
	return roots
}

// ToGraph renders the graph with style.
func (sg *StateGraph) ToGraph(style Style) string {
	var sb strings.Builder

	sb.WriteString(style.Prefix(sg))
	for _, n := range sg.Roots() {
		if n.IsComposite() {
			sb.WriteString(style.FormatCluster(n))
		} else {
			sb.WriteString(style.FormatState(n))
		}
	}
	for _, d := range sg.Decisions {
		sb.WriteString(style.FormatDecision(d))
	}
	for _, e := range sg.Edges {
		sb.WriteString("\n")
		sb.WriteString(style.FormatTransition(e))
	}
	sb.WriteString(style.InitialTransition(sg.Initial))

	return sb.String()
}

func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
}

func sortedChildren(n *Node) []*Node {
	children := append([]*Node(nil), n.Children...)
	sortNodes(children)
	return children
}

func entryActionDescriptions(info *hsm.StateInfo) []string {
	var descriptions []string
	for _, action := range info.EntryActions {
		if action.FromTrigger == nil {
			descriptions = append(descriptions, action.Description())
		}
	}
	return descriptions
}

func exitActionDescriptions(info *hsm.StateInfo) []string {
	var descriptions []string
	for _, action := range info.ExitActions {
		descriptions = append(descriptions, action.Description())
	}
	return descriptions
}

func guardDescriptions(guards []hsm.InvocationInfo) []string {
	var descriptions []string
	for _, g := range guards {
		descriptions = append(descriptions, g.Description())
	}
	return descriptions
}
