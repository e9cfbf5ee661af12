package hsm

// StateStorage holds a machine's current state. Hosts implement it to keep
// the state value in storage they own.
type StateStorage[TState comparable] interface {
	State() TState
	SetState(TState)
}

// StorageFuncs adapts an accessor and a mutator to StateStorage.
type StorageFuncs[TState comparable] struct {
	Get func() TState
	Set func(TState)
}

func (s StorageFuncs[TState]) State() TState {
	return s.Get()
}

func (s StorageFuncs[TState]) SetState(state TState) {
	s.Set(state)
}

type boxedStorage[TState comparable] struct {
	state TState
}

func (b *boxedStorage[TState]) State() TState {
	return b.state
}

func (b *boxedStorage[TState]) SetState(state TState) {
	b.state = state
}
