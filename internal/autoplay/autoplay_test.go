package autoplay

import (
	"testing"

	"github.com/hemosim/hemosim/internal/cascade"
)

// countingScript builds a three-step script that records invocations.
func countingScript(calls *[]string) []Step {
	mk := func(name string) Step {
		return Step{
			Name:   name,
			Invoke: func() bool { *calls = append(*calls, name); return true },
			Done:   func(cascade.State) bool { return true },
		}
	}
	return []Step{mk("a"), mk("b"), mk("c")}
}

func TestController_InvokesCurrentStepOnActivate(t *testing.T) {
	var calls []string
	c := NewController(countingScript(&calls))

	if len(calls) != 0 {
		t.Fatal("inactive controller invoked a step")
	}

	c.Activate()
	if len(calls) != 1 || calls[0] != "a" {
		t.Fatalf("calls after activate = %v, want [a]", calls)
	}

	// Activating again must not re-invoke the current step.
	c.Activate()
	if len(calls) != 1 {
		t.Fatalf("re-activation re-invoked step: %v", calls)
	}
}

func TestController_AdvanceInvokesNext(t *testing.T) {
	var calls []string
	c := NewController(countingScript(&calls))
	c.Activate()

	c.AdvanceStep()
	c.AdvanceStep()
	if len(calls) != 3 {
		t.Fatalf("calls = %v, want [a b c]", calls)
	}

	c.AdvanceStep()
	if !c.Finished() {
		t.Error("controller not finished after final advance")
	}
	if len(calls) != 3 {
		t.Fatalf("advance past the end invoked something: %v", calls)
	}
}

func TestController_DeactivateStopsInvocations(t *testing.T) {
	var calls []string
	c := NewController(countingScript(&calls))
	c.Activate()
	c.AdvanceStep()

	c.Deactivate()
	c.AdvanceStep() // index moves, nothing runs
	if len(calls) != 2 {
		t.Fatalf("deactivated controller invoked a step: %v", calls)
	}
	if c.CurrentStepIndex() != 2 {
		t.Errorf("index = %d, want 2", c.CurrentStepIndex())
	}
}

func TestController_ResumeFromCurrentIndex(t *testing.T) {
	var calls []string
	c := NewController(countingScript(&calls))

	// Advance two steps in auto, drop to manual, come back.
	c.Activate()
	c.AdvanceStep()
	c.Deactivate()

	idx := c.CurrentStepIndex()
	c.Activate()

	if c.CurrentStepIndex() != idx {
		t.Errorf("resume index = %d, want %d", c.CurrentStepIndex(), idx)
	}
	// Step b was already invoked before the pause; resuming must not
	// replay it.
	if len(calls) != 2 {
		t.Fatalf("resume replayed steps: %v", calls)
	}
	c.AdvanceStep()
	if len(calls) != 3 || calls[2] != "c" {
		t.Fatalf("calls after resume+advance = %v, want [a b c]", calls)
	}
}

func TestController_Reset(t *testing.T) {
	var calls []string
	c := NewController(countingScript(&calls))
	c.Activate()
	c.AdvanceStep()

	c.Reset()
	if c.Active() {
		t.Error("controller active after reset")
	}
	if c.CurrentStepIndex() != 0 {
		t.Errorf("index after reset = %d, want 0", c.CurrentStepIndex())
	}

	c.Activate()
	if len(calls) != 3 || calls[2] != "a" {
		t.Fatalf("calls after reset+activate = %v, want [a b a]", calls)
	}
}

func TestScript_OrderMatchesPrerequisites(t *testing.T) {
	s := cascade.New()
	c := NewController(Script(s))
	c.Activate()

	// Walk the whole script, simulating the effect layer: whenever the
	// current step reports done against the snapshot, advance. The two
	// await steps need the migrations the scheduler would run.
	for guard := 0; !c.Finished(); guard++ {
		if guard > 100 {
			t.Fatalf("script stalled at index %d", c.CurrentStepIndex())
		}

		st := s.Snapshot()
		step, ok := c.CurrentStep()
		if !ok {
			break
		}
		if step.Done(st) {
			c.AdvanceStep()
			continue
		}

		// Background migrations (the scheduler's job in production).
		moved := false
		for _, tok := range cascade.Tokens() {
			if s.StartMigrationGlide(tok) || s.CompleteMigration(tok) {
				moved = true
			}
		}
		if !moved {
			t.Fatalf("step %q never completed; snapshot: %+v", step.Name, st)
		}
	}

	st := s.Snapshot()
	if !st.FibrinCrosslinked {
		t.Error("script finished without a cross-linked clot")
	}
	if st.Phase != cascade.PhaseComplete {
		t.Errorf("phase = %v after full script, want complete", st.Phase)
	}
}
