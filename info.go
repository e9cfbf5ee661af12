package hsm

import "fmt"

// StateMachineInfo is a read-only snapshot of a machine's topology.
type StateMachineInfo struct {
	// InitialState is the state the machine was created in.
	InitialState *StateInfo

	// States holds every configured state and every state named as a
	// destination, in the order they were first referenced.
	States []*StateInfo

	StateType   string
	TriggerType string
}

// StateInfo describes one state.
type StateInfo struct {
	// UnderlyingState is the state value.
	UnderlyingState any

	Superstate *StateInfo
	Substates  []*StateInfo

	// InitialTransitionTarget is the substate entered automatically, if any.
	InitialTransitionTarget *StateInfo

	EntryActions      []ActionInfo
	ExitActions       []ActionInfo
	ActivateActions   []InvocationInfo
	DeactivateActions []InvocationInfo

	FixedTransitions   []FixedTransitionInfo
	DynamicTransitions []DynamicTransitionInfo
	IgnoredTriggers    []IgnoredTransitionInfo
}

func (s *StateInfo) String() string {
	if s == nil || s.UnderlyingState == nil {
		return NullString
	}
	return fmt.Sprint(s.UnderlyingState)
}

// Transitions returns the fixed and dynamic transitions of the state.
func (s *StateInfo) Transitions() []TransitionInfo {
	result := make([]TransitionInfo, 0, len(s.FixedTransitions)+len(s.DynamicTransitions))
	for i := range s.FixedTransitions {
		result = append(result, &s.FixedTransitions[i])
	}
	for i := range s.DynamicTransitions {
		result = append(result, &s.DynamicTransitions[i])
	}
	return result
}

// TransitionInfo is implemented by every kind of transition description.
type TransitionInfo interface {
	GetTrigger() TriggerInfo
	GetGuardConditions() []InvocationInfo
	GetIsInternalTransition() bool
}

type transitionInfoBase struct {
	Trigger              TriggerInfo
	Guards               []InvocationInfo
	IsInternalTransition bool
}

func (t *transitionInfoBase) GetTrigger() TriggerInfo {
	return t.Trigger
}

func (t *transitionInfoBase) GetGuardConditions() []InvocationInfo {
	return t.Guards
}

func (t *transitionInfoBase) GetIsInternalTransition() bool {
	return t.IsInternalTransition
}

// FixedTransitionInfo describes a transition with a known destination.
// Reentry and internal transitions have the state itself as destination.
type FixedTransitionInfo struct {
	transitionInfoBase

	DestinationState *StateInfo
	IsReentry        bool
}

// DynamicStateInfo names a state a dynamic transition may select.
type DynamicStateInfo struct {
	DestinationState string
	Criterion        string
}

// PossibleDestination describes a state a dynamic selector may return.
func PossibleDestination(state any, criterion string) DynamicStateInfo {
	return DynamicStateInfo{DestinationState: fmt.Sprint(state), Criterion: criterion}
}

// DynamicTransitionInfo describes a transition whose destination is
// computed when the trigger is fired.
type DynamicTransitionInfo struct {
	transitionInfoBase

	DestinationStateSelectorDescription InvocationInfo
	PossibleDestinationStates           []DynamicStateInfo
}

// IgnoredTransitionInfo describes an ignored trigger.
type IgnoredTransitionInfo struct {
	transitionInfoBase
}

// GetInfo builds a snapshot of the machine's configuration.
func (sm *StateMachine[TState, TTrigger]) GetInfo() *StateMachineInfo {
	sm.representation(sm.initialState)

	infos := make(map[TState]*StateInfo, len(sm.representations))
	states := make([]*StateInfo, 0, len(sm.order))
	for _, state := range sm.order {
		info := newStateInfo(sm.representations[state])
		infos[state] = info
		states = append(states, info)
	}
	for _, state := range sm.order {
		addRelationships(infos[state], sm.representations[state], infos)
	}

	return &StateMachineInfo{
		InitialState: infos[sm.initialState],
		States:       states,
		StateType:    typeOf[TState]().String(),
		TriggerType:  typeOf[TTrigger]().String(),
	}
}

func newStateInfo[TState, TTrigger comparable](rep *stateRepresentation[TState, TTrigger]) *StateInfo {
	info := &StateInfo{UnderlyingState: rep.state}
	for _, a := range rep.entryActions {
		info.EntryActions = append(info.EntryActions, a.info())
	}
	for _, a := range rep.exitActions {
		info.ExitActions = append(info.ExitActions, a.info())
	}
	for _, a := range rep.activateActions {
		info.ActivateActions = append(info.ActivateActions, a.method)
	}
	for _, a := range rep.deactivateActions {
		info.DeactivateActions = append(info.DeactivateActions, a.method)
	}
	return info
}

func addRelationships[TState, TTrigger comparable](info *StateInfo, rep *stateRepresentation[TState, TTrigger], infos map[TState]*StateInfo) {
	if rep.superstate != nil {
		info.Superstate = infos[rep.superstate.state]
	}
	for _, sub := range rep.substates {
		info.Substates = append(info.Substates, infos[sub.state])
	}
	if rep.hasInitialTransition {
		info.InitialTransitionTarget = infos[rep.initialTransitionTarget]
	}

	for _, trigger := range rep.triggerOrder {
		for _, behaviour := range rep.triggerBehaviours[trigger] {
			base := transitionInfoBase{
				Trigger: NewTriggerInfo(trigger),
				Guards:  behaviour.Guard().methodDescriptions(),
			}
			switch b := behaviour.(type) {
			case *TransitioningTrigger[TState, TTrigger]:
				info.FixedTransitions = append(info.FixedTransitions, FixedTransitionInfo{
					transitionInfoBase: base,
					DestinationState:   infos[b.Destination],
				})
			case *ReentryTrigger[TState, TTrigger]:
				info.FixedTransitions = append(info.FixedTransitions, FixedTransitionInfo{
					transitionInfoBase: base,
					DestinationState:   infos[b.Destination],
					IsReentry:          true,
				})
			case *InternalTrigger[TState, TTrigger]:
				base.IsInternalTransition = true
				info.FixedTransitions = append(info.FixedTransitions, FixedTransitionInfo{
					transitionInfoBase: base,
					DestinationState:   info,
				})
			case *DynamicTrigger[TState, TTrigger]:
				info.DynamicTransitions = append(info.DynamicTransitions, DynamicTransitionInfo{
					transitionInfoBase:                  base,
					DestinationStateSelectorDescription: b.method,
					PossibleDestinationStates:           b.possible,
				})
			case *DynamicAsyncTrigger[TState, TTrigger]:
				info.DynamicTransitions = append(info.DynamicTransitions, DynamicTransitionInfo{
					transitionInfoBase:                  base,
					DestinationStateSelectorDescription: b.method,
					PossibleDestinationStates:           b.possible,
				})
			case *IgnoredTrigger[TState, TTrigger]:
				info.IgnoredTriggers = append(info.IgnoredTriggers, IgnoredTransitionInfo{transitionInfoBase: base})
			}
		}
	}
}
