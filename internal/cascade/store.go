package cascade

import (
	"sync"

	"github.com/hemosim/hemosim/internal/kinetics"
)

// Event is emitted to listeners after every applied action: which action
// ran and the snapshot it produced.
type Event struct {
	Action string
	State  State
}

// Listener receives events. Listeners are invoked synchronously, outside
// the store lock, in subscription order. A listener must not block.
type Listener func(Event)

// Store is the single authority over cascade state. All mutation goes
// through named action functions; each one replaces the snapshot wholesale
// and notifies subscribers.
type Store struct {
	mu      sync.RWMutex
	rates   kinetics.Rates
	state   State
	subs    map[int]Listener
	nextSub int
}

// New creates a store at the start-of-session state.
func New() *Store {
	return NewWithRates(kinetics.DefaultRates())
}

// NewWithRates creates a store using the given kinetic rate constants.
func NewWithRates(rates kinetics.Rates) *Store {
	return &Store{
		rates: rates,
		state: initialState(1),
		subs:  make(map[int]Listener),
	}
}

// Snapshot returns the current immutable state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Rates returns the kinetic rate constants the store integrates with.
func (s *Store) Rates() kinetics.Rates {
	return s.rates
}

// Subscribe registers a listener for applied actions and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// apply runs fn against a copy of the state. When fn reports an applied
// transition, the derived fields are refreshed, the copy becomes the
// current snapshot, and listeners are notified. When fn reports false the
// call was an invalid transition attempt and is silently dropped — the
// permissive-reducer policy: the UI's feedback is that nothing advanced.
func (s *Store) apply(action string, fn func(*State) bool) bool {
	s.mu.Lock()
	next := s.state
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	s.refresh(&next)
	s.state = next

	listeners := make([]Listener, 0, len(s.subs))
	for _, l := range s.subs {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	ev := Event{Action: action, State: next}
	for _, l := range listeners {
		l(ev)
	}
	return true
}

// refresh recomputes the derived fields: producing flags, cascade phase,
// and objective completion. Derivations never gate transitions; they label.
func (s *Store) refresh(st *State) {
	st.Tenase.Producing = st.Tenase.Formed && !st.Prothrombinase.Formed
	st.Prothrombinase.Producing = st.Prothrombinase.Formed && !st.ThrombinBurst

	switch {
	case st.FibrinCrosslinked:
		st.Phase = PhaseComplete
	case st.ThrombinBurst:
		st.Phase = PhaseStabilization
	case st.PlateletActivated:
		st.Phase = PhasePropagation
	case st.ThrombinArrived || kinetics.IsInitiationComplete(st.Kinetics, s.rates):
		st.Phase = PhaseAmplification
	default:
		st.Phase = PhaseInitiation
	}

	done := [objectiveCount]bool{
		st.Kinetics.TFExposed,
		st.ThrombinProduced,
		st.ThrombinArrived,
		st.PlateletActivated,
		st.Tenase.Formed,
		st.Prothrombinase.Formed,
		st.ThrombinBurst,
		st.FibrinCrosslinked,
	}
	for i := range st.Objectives {
		st.Objectives[i].Done = done[i]
	}
}

// initialState builds the start-of-session snapshot for the given
// generation. Every entity exists from the start with inactive defaults;
// reset discards the whole snapshot rather than tearing entities down.
func initialState(resetKey uint64) State {
	st := State{
		Mode:     ModeManual,
		Phase:    PhaseInitiation,
		ResetKey: resetKey,
	}
	st.Objectives = [objectiveCount]Objective{
		{ID: "expose-tf", Label: "Expose tissue factor and dock FVIIa"},
		{ID: "trace-thrombin", Label: "Generate the thrombin spark"},
		{ID: "thrombin-arrived", Label: "Deliver thrombin to the platelet surface"},
		{ID: "platelet-activated", Label: "Activate the platelet via PAR cleavage"},
		{ID: "tenase", Label: "Assemble the tenase complex"},
		{ID: "prothrombinase", Label: "Assemble the prothrombinase complex"},
		{ID: "thrombin-burst", Label: "Trigger the thrombin burst"},
		{ID: "stable-clot", Label: "Cross-link fibrin into a stable clot"},
	}
	return st
}
