// Package rebuild implements the three-state protocol that serializes a
// bin's planning passes against inbound stream activity, per spec.md §5:
// IDLE, DRAINING, and REBUILDING, guarded by one mutex and one condition
// variable rather than a lock per output pad.
package rebuild

import (
	"errors"
	"sync"
)

// State is one of the three phases a bin cycles through on every catalog or
// endpoint change that requires re-planning.
type State int

const (
	// Idle: the bin is routed and steady; no rebuild is in flight.
	Idle State = iota
	// Draining: a rebuild was requested and every output is being flushed
	// of in-flight buffers before the graph can be torn down safely.
	Draining
	// Rebuilding: every output has finished draining; the planner is
	// running and the instantiator is relinking elements.
	Rebuilding
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Draining:
		return "draining"
	case Rebuilding:
		return "rebuilding"
	default:
		return "unknown"
	}
}

// ErrRebuildInProgress is returned by Begin when a rebuild is already
// underway; callers should coalesce the request rather than queue another.
var ErrRebuildInProgress = errors.New("rebuild: already in progress")

// Machine is the bin-wide state machine of spec.md §5. Exactly one mutex
// (mu) and one condition variable (cond) serialize every transition; no
// per-output lock exists, so "every output drained" is tracked as a plain
// counter rather than per-pad synchronization primitives.
type Machine struct {
	mu           sync.Mutex
	cond         *sync.Cond
	state        State
	outputs      int // total number of outputs expected to drain
	drained      int // how many have reported drained since the last Begin
	reconfigure  map[string]bool
}

// NewMachine returns a Machine in the Idle state.
func NewMachine() *Machine {
	m := &Machine{state: Idle, reconfigure: make(map[string]bool)}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// State returns the current phase.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin transitions Idle -> Draining, marking every output (by ID) as
// needing reconfiguration. outputs are the bin's current output endpoint
// identifiers; Begin records how many must drain before Rebuilding can
// start. Returns ErrRebuildInProgress if the machine is not Idle.
//
// If outputIDs is empty there is nothing to await, so Begin transitions
// straight through to Rebuilding rather than leaving the machine parked in
// Draining with no NotifyDrained call ever able to arrive, per spec.md §5
// ("If the set of awaiting outputs is empty at DRAINING entry, the machine
// transitions immediately").
func (m *Machine) Begin(outputIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Idle {
		return ErrRebuildInProgress
	}
	m.outputs = len(outputIDs)
	m.drained = 0
	for _, id := range outputIDs {
		m.reconfigure[id] = true
	}
	if len(outputIDs) == 0 {
		m.state = Rebuilding
	} else {
		m.state = Draining
	}
	m.cond.Broadcast()
	return nil
}

// NotifyDrained records that one output has finished flushing in-flight
// buffers. Once every expected output has reported, the machine advances
// Draining -> Rebuilding and wakes any goroutine blocked in WaitRebuilding.
func (m *Machine) NotifyDrained() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Draining {
		return
	}
	m.drained++
	if m.drained >= m.outputs {
		m.state = Rebuilding
		m.cond.Broadcast()
	}
}

// WaitRebuilding blocks while the machine is Draining and returns as soon
// as it is in any other state (immediately if it is not Draining), for a
// caller that wants to drive the planner only once draining is complete.
func (m *Machine) WaitRebuilding() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for m.state == Draining {
		m.cond.Wait()
	}
}

// Complete clears an output's needs_reconfigure flag and, once every
// tracked output is clear, transitions Rebuilding -> Idle. Per spec.md §8's
// quantified invariant, needs_reconfigure must be clear on every output
// after a rebuild completes.
func (m *Machine) Complete(outputID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Rebuilding {
		return
	}
	delete(m.reconfigure, outputID)
	if len(m.reconfigure) == 0 {
		m.state = Idle
		m.cond.Broadcast()
	}
}

// NeedsReconfigure reports whether outputID is still flagged for
// reconfiguration.
func (m *Machine) NeedsReconfigure(outputID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reconfigure[outputID]
}
