// Package scheduler is the effect-watcher layer above the cascade store.
// The store is a pure reducer and never arms its own timers; this package
// observes each emitted snapshot, diffs it against what should happen next,
// and arms one-shot delayed callbacks that invoke the next action function.
//
// Every callback captures the reset generation valid at schedule time and
// re-checks it against the live snapshot before applying its effect. A
// reset or mode switch therefore strands stale timers harmlessly — the
// ghost-timer bug class cannot mutate a new session.
package scheduler

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hemosim/hemosim/internal/autoplay"
	"github.com/hemosim/hemosim/internal/cascade"
	"github.com/hemosim/hemosim/internal/migration"
	"github.com/hemosim/hemosim/internal/protocol"
)

// Config holds the pacing policy for the scheduler.
type Config struct {
	Protocol  protocol.Timings `json:"protocol" yaml:"protocol"`
	Migration migration.Delays `json:"migration" yaml:"migration"`

	// AutoStepDelay is the pause between a completed auto-play step and
	// the next invocation, so the demonstration reads as a sequence.
	AutoStepDelay time.Duration `json:"auto_step_delay" yaml:"auto_step_delay"`

	// KineticsInterval is the tick period for the continuous integrator.
	KineticsInterval time.Duration `json:"kinetics_interval" yaml:"kinetics_interval"`
}

// DefaultConfig returns the reference pacing.
func DefaultConfig() Config {
	return Config{
		Protocol:         protocol.DefaultTimings(),
		Migration:        migration.DefaultDelays(),
		AutoStepDelay:    400 * time.Millisecond,
		KineticsInterval: 100 * time.Millisecond,
	}
}

// Scheduler arms and cancels the delayed callbacks that keep a session
// moving. One Scheduler serves one store for the store's lifetime.
type Scheduler struct {
	store  *cascade.Store
	ctrl   *autoplay.Controller
	cfg    Config
	logger *slog.Logger

	mu     sync.Mutex
	gen    uint64
	timers map[string]*time.Timer
	done   chan struct{}
	unsub  func()
}

// New creates a scheduler over the store and auto-play controller. The
// logger may be nil for silence.
func New(store *cascade.Store, ctrl *autoplay.Controller, cfg Config, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{
		store:  store,
		ctrl:   ctrl,
		cfg:    cfg,
		logger: logger,
		timers: make(map[string]*time.Timer),
	}
}

// Start subscribes to the store, synchronizes against the current snapshot,
// and begins the kinetics tick loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.done != nil {
		s.mu.Unlock()
		return
	}
	s.done = make(chan struct{})
	s.gen = s.store.Snapshot().ResetKey
	s.mu.Unlock()

	s.unsub = s.store.Subscribe(func(ev cascade.Event) {
		s.evaluate(ev.State)
	})
	s.evaluate(s.store.Snapshot())

	go s.kineticsLoop()
}

// Stop cancels every outstanding timer and halts the tick loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}
	close(s.done)
	s.done = nil
	s.cancelAllLocked()
	s.mu.Unlock()

	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
}

// kineticsLoop feeds wall-clock deltas to the integrator. The store drops
// idle frames, so the loop is cheap while nothing is exposed.
func (s *Scheduler) kineticsLoop() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return
	}

	ticker := time.NewTicker(s.cfg.KineticsInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.store.StepKinetics(dt)
		}
	}
}

// evaluate diffs one snapshot against the timers that should exist and
// arms whatever is missing. Controller calls are collected under the lock
// and executed after release: store listeners run synchronously, so a
// controller invocation here re-enters evaluate.
func (s *Scheduler) evaluate(st cascade.State) {
	s.mu.Lock()
	if s.done == nil {
		s.mu.Unlock()
		return
	}

	if st.ResetKey != s.gen {
		s.logger.Debug("session generation changed", "from", s.gen, "to", st.ResetKey)
		s.cancelAllLocked()
		s.gen = st.ResetKey
		s.ctrl.Reset()
	}
	gen := s.gen

	// Protocol phase advances.
	for _, f := range cascade.Factors() {
		f := f
		ph := st.Factors[f].Phase
		if !ph.InProgress() {
			continue
		}
		key := fmt.Sprintf("protocol/%s/%s", f, ph)
		if ph == protocol.PhaseReleasing {
			s.armLocked(key, gen, s.cfg.Protocol.Dwell(ph), func() {
				s.store.CompleteActivation(f)
			})
		} else {
			s.armLocked(key, gen, s.cfg.Protocol.Dwell(ph), func() {
				s.store.AdvancePhase(f)
			})
		}
	}

	// Migration glides.
	for _, tok := range cascade.Tokens() {
		tok := tok
		switch st.Migrations[tok] {
		case migration.StateHeldForMigration:
			s.armLocked(fmt.Sprintf("migration/%s/hold", tok), gen, s.cfg.Migration.Hold, func() {
				s.store.StartMigrationGlide(tok)
			})
		case migration.StateMigrating:
			s.armLocked(fmt.Sprintf("migration/%s/glide", tok), gen, s.cfg.Migration.Glide, func() {
				s.store.CompleteMigration(tok)
			})
		}
	}

	// Auto-play stepping.
	var ctrlOp func()
	switch st.Mode {
	case cascade.ModeAuto:
		if !s.ctrl.Active() {
			ctrlOp = s.ctrl.Activate
		} else if step, ok := s.ctrl.CurrentStep(); ok && step.Done(st) {
			key := fmt.Sprintf("auto/step/%d", s.ctrl.CurrentStepIndex())
			s.armLocked(key, gen, s.cfg.AutoStepDelay, func() {
				s.ctrl.AdvanceStep()
				// A waiting beat invokes nothing, so no event would land
				// here; re-sync explicitly to keep the script moving.
				s.evaluate(s.store.Snapshot())
			})
		}
	case cascade.ModeManual:
		if s.ctrl.Active() {
			ctrlOp = s.ctrl.Deactivate
			s.cancelPrefixLocked("auto/")
		}
	}
	s.mu.Unlock()

	if ctrlOp != nil {
		ctrlOp()
		// An activation may have invoked an action already; re-sync so a
		// step that was done before activation still advances.
		if st.Mode == cascade.ModeAuto {
			s.evaluate(s.store.Snapshot())
		}
	}
}

// armLocked schedules fn after delay under a dedup key, unless a timer for
// that key is already pending. The callback validates the captured
// generation against the live snapshot before firing.
func (s *Scheduler) armLocked(key string, gen uint64, delay time.Duration, fn func()) {
	if _, exists := s.timers[key]; exists {
		return
	}
	s.logger.Debug("arming timer", "key", key, "delay", delay, "gen", gen)
	s.timers[key] = time.AfterFunc(delay, func() {
		s.mu.Lock()
		delete(s.timers, key)
		stopped := s.done == nil
		s.mu.Unlock()

		if stopped || s.store.Snapshot().ResetKey != gen {
			s.logger.Debug("dropping stale timer", "key", key, "gen", gen)
			return
		}
		fn()
	})
}

// cancelAllLocked stops every pending timer.
func (s *Scheduler) cancelAllLocked() {
	for key, t := range s.timers {
		t.Stop()
		delete(s.timers, key)
	}
}

// cancelPrefixLocked stops pending timers whose key starts with prefix.
func (s *Scheduler) cancelPrefixLocked(prefix string) {
	for key, t := range s.timers {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			t.Stop()
			delete(s.timers, key)
		}
	}
}

// PendingTimers reports how many callbacks are armed. Test hook.
func (s *Scheduler) PendingTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
