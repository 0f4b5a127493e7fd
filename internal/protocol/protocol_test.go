package protocol

import (
	"testing"
	"time"
)

func TestStart_OnlyFromInactive(t *testing.T) {
	next, ok := Start(PhaseInactive)
	if !ok || next != PhaseApproaching {
		t.Fatalf("Start(inactive) = (%v, %v), want (approaching, true)", next, ok)
	}

	for _, p := range []Phase{PhaseApproaching, PhaseESComplex, PhaseCleaving, PhaseReleasing, PhaseComplete} {
		next, ok := Start(p)
		if ok {
			t.Errorf("Start(%v) applied, want no-op", p)
		}
		if next != p {
			t.Errorf("Start(%v) changed phase to %v", p, next)
		}
	}
}

func TestAdvance_WalksForwardOnly(t *testing.T) {
	tests := []struct {
		from Phase
		want Phase
		ok   bool
	}{
		{PhaseInactive, PhaseInactive, false},
		{PhaseApproaching, PhaseESComplex, true},
		{PhaseESComplex, PhaseCleaving, true},
		{PhaseCleaving, PhaseReleasing, true},
		{PhaseReleasing, PhaseReleasing, false}, // reserved for Complete
		{PhaseComplete, PhaseComplete, false},
	}
	for _, tt := range tests {
		got, ok := Advance(tt.from)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Advance(%v) = (%v, %v), want (%v, %v)", tt.from, got, ok, tt.want, tt.ok)
		}
	}
}

func TestComplete_OnlyFromReleasing(t *testing.T) {
	got, ok := Complete(PhaseReleasing)
	if !ok || got != PhaseComplete {
		t.Fatalf("Complete(releasing) = (%v, %v), want (complete, true)", got, ok)
	}

	for _, p := range []Phase{PhaseInactive, PhaseApproaching, PhaseESComplex, PhaseCleaving, PhaseComplete} {
		got, ok := Complete(p)
		if ok || got != p {
			t.Errorf("Complete(%v) = (%v, %v), want no-op", p, got, ok)
		}
	}
}

func TestFullEpisode_IsMonotonic(t *testing.T) {
	p, ok := Start(PhaseInactive)
	if !ok {
		t.Fatal("Start failed from inactive")
	}

	visited := []Phase{p}
	for {
		next, ok := Advance(p)
		if !ok {
			break
		}
		p = next
		visited = append(visited, p)
	}
	p, ok = Complete(p)
	if !ok {
		t.Fatalf("Complete failed from %v", visited[len(visited)-1])
	}
	visited = append(visited, p)

	for i := 1; i < len(visited); i++ {
		if visited[i] <= visited[i-1] {
			t.Fatalf("phase regressed: %v -> %v", visited[i-1], visited[i])
		}
	}
	if p != PhaseComplete {
		t.Fatalf("episode ended at %v, want complete", p)
	}
}

func TestInProgress(t *testing.T) {
	if PhaseInactive.InProgress() || PhaseComplete.InProgress() {
		t.Error("inactive/complete should not report in progress")
	}
	for _, p := range []Phase{PhaseApproaching, PhaseESComplex, PhaseCleaving, PhaseReleasing} {
		if !p.InProgress() {
			t.Errorf("%v should report in progress", p)
		}
	}
}

func TestTimings_Dwell(t *testing.T) {
	tm := DefaultTimings()

	tests := []struct {
		phase Phase
		want  time.Duration
	}{
		{PhaseApproaching, 800 * time.Millisecond},
		{PhaseESComplex, 400 * time.Millisecond},
		{PhaseCleaving, 500 * time.Millisecond},
		{PhaseReleasing, 1200 * time.Millisecond},
		{PhaseInactive, 0},
		{PhaseComplete, 0},
	}
	for _, tt := range tests {
		if got := tm.Dwell(tt.phase); got != tt.want {
			t.Errorf("Dwell(%v) = %v, want %v", tt.phase, got, tt.want)
		}
	}
}

func TestPhase_String(t *testing.T) {
	want := map[Phase]string{
		PhaseInactive:    "inactive",
		PhaseApproaching: "approaching",
		PhaseESComplex:   "es_complex",
		PhaseCleaving:    "cleaving",
		PhaseReleasing:   "releasing",
		PhaseComplete:    "complete",
	}
	for p, s := range want {
		if p.String() != s {
			t.Errorf("Phase(%d).String() = %q, want %q", p, p.String(), s)
		}
	}
}
