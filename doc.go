// Package hsm is a generic hierarchical state machine.
//
// A machine is built from states and triggers of any comparable types. Each
// state is configured once with a fluent builder:
//
//   - Guarded transitions, evaluated in declaration order
//   - Entry, exit, activation and deactivation actions
//   - Substates that inherit the triggers of their superstate
//   - Initial transitions into a default substate
//   - Parameterized triggers with validated argument types
//   - Dynamic transitions whose destination is computed at fire time
//   - Reentry, internal and ignored triggers
//
// # Basic Usage
//
//	sm := hsm.NewStateMachine[State, Trigger](Closed)
//
//	sm.Configure(Closed).
//	    Permit(OpenDoor, Open).
//	    PermitIf(Lock, Locked, hsm.Guard(isClosed, "door is closed"))
//
//	sm.Configure(Open).
//	    Permit(CloseDoor, Closed).
//	    OnEntry(func(ctx context.Context, t hsm.Transition[State, Trigger]) error {
//	        log.Printf("opened by %v", t.Trigger)
//	        return nil
//	    })
//
//	err := sm.Fire(OpenDoor)
//
// # Firing Modes
//
// FiringQueued (the default) gives run-to-completion semantics: a trigger
// fired from inside an action is queued and processed after the current
// transition finishes, and the outermost Fire returns once the queue is
// empty. FiringImmediate processes nested triggers at once.
//
// # Parameters
//
//	setVolume, _ := hsm.SetTriggerParameters1[int](sm, SetVolume)
//	hsm.OnEntryFrom1(sm.Configure(Playing), setVolume,
//	    func(ctx context.Context, volume int, t hsm.Transition[State, Trigger]) error { ... })
//	err := hsm.Fire1(ctx, sm, setVolume, 5)
//
// # Graph Generation
//
//	dot := graph.UmlDotGraph(sm.GetInfo())
package hsm
