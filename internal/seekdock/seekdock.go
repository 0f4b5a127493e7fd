// Package seekdock is the alternate docking simulation: instead of the
// per-factor booleans of the cascade store, it models free-moving agents
// that seek, migrate along precomputed paths, and dock into typed ports on
// assembly sockets. It follows the same reducer discipline as the cascade
// store: actions validate and return a fresh snapshot, invalid requests are
// silent no-ops, and nothing here owns a timer.
package seekdock

import (
	"math"
	"sync"
)

// AgentKind identifies the species an agent represents. A port accepts
// exactly one kind.
type AgentKind int

const (
	KindTFVIIa AgentKind = iota
	KindFIX
	KindFX
	KindFV
	KindFII
	KindFVIIIa
	kindCount
)

func (k AgentKind) String() string {
	switch k {
	case KindTFVIIa:
		return "tf_viia"
	case KindFIX:
		return "fix"
	case KindFX:
		return "fx"
	case KindFV:
		return "fv"
	case KindFII:
		return "fii"
	case KindFVIIIa:
		return "fviiia"
	default:
		return "unknown"
	}
}

// Kinds returns every agent kind in declaration order.
func Kinds() []AgentKind {
	ks := make([]AgentKind, 0, kindCount)
	for k := AgentKind(0); k < kindCount; k++ {
		ks = append(ks, k)
	}
	return ks
}

// Lifecycle is the discrete state of one agent.
type Lifecycle int

const (
	StateSpawned Lifecycle = iota
	StateSeeking
	StateMigrating
	StateHolding
	StateDocked
	StateConsumed
)

func (l Lifecycle) String() string {
	switch l {
	case StateSpawned:
		return "spawned"
	case StateSeeking:
		return "seeking"
	case StateMigrating:
		return "migrating"
	case StateHolding:
		return "holding"
	case StateDocked:
		return "docked"
	case StateConsumed:
		return "consumed"
	default:
		return "unknown"
	}
}

// Mode selects who moves agents: the learner (manual drag + snap) or the
// tick loop (auto migration along paths).
type Mode int

const (
	ModeManual Mode = iota
	ModeAuto
)

// Point is a 2-D position in scene units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) distanceTo(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// CaptureRadius is how close a released agent must be to a compatible port
// for SnapAgent to dock it, in scene units.
const CaptureRadius = 20.0

// SpawnCap is the maximum number of un-consumed agents per kind.
const SpawnCap = 2

// MigrationSpeed is path progress per second of tick time, as a fraction
// of total path length.
const MigrationSpeed = 0.5

// Agent is one free-moving particle.
type Agent struct {
	ID         int       `json:"id"`
	Kind       AgentKind `json:"kind"`
	ActiveForm bool      `json:"active_form"`
	State      Lifecycle `json:"state"`
	Pos        Point     `json:"pos"`

	// Path and Progress describe an in-flight migration. Progress runs
	// 0..1 over the whole polyline.
	Path     []Point `json:"path,omitempty"`
	Progress float64 `json:"progress"`

	// DockedPort is the port occupied while docked, -1 otherwise.
	DockedPort int `json:"docked_port"`
}

// Port is one typed docking site on a socket.
type Port struct {
	ID      int       `json:"id"`
	Socket  int       `json:"socket"`
	Kind    AgentKind `json:"kind"`
	Enabled bool      `json:"enabled"`
	Pos     Point     `json:"pos"`

	// FilledBy is the docked agent's ID, -1 while empty.
	FilledBy int `json:"filled_by"`
}

// Socket is a complex under assembly. It self-reports Assembled once every
// enabled port is filled.
type Socket struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Assembled bool   `json:"assembled"`
}

// State is one immutable snapshot of the variant. Slices are freshly
// cloned on every action, so holders of a snapshot never observe later
// mutation.
type State struct {
	Agents   []Agent  `json:"agents"`
	Ports    []Port   `json:"ports"`
	Sockets  []Socket `json:"sockets"`
	Mode     Mode     `json:"mode"`
	ResetKey uint64   `json:"reset_key"`

	nextAgentID int
}

func (st State) clone() State {
	out := st
	out.Agents = append([]Agent(nil), st.Agents...)
	for i := range out.Agents {
		out.Agents[i].Path = append([]Point(nil), st.Agents[i].Path...)
	}
	out.Ports = append([]Port(nil), st.Ports...)
	out.Sockets = append([]Socket(nil), st.Sockets...)
	return out
}

// AgentByID returns a copy of the agent with the given ID.
func (st State) AgentByID(id int) (Agent, bool) {
	for _, a := range st.Agents {
		if a.ID == id {
			return a, true
		}
	}
	return Agent{}, false
}

// PortByID returns a copy of the port with the given ID.
func (st State) PortByID(id int) (Port, bool) {
	for _, p := range st.Ports {
		if p.ID == id {
			return p, true
		}
	}
	return Port{}, false
}

// SocketByID returns a copy of the socket with the given ID.
func (st State) SocketByID(id int) (Socket, bool) {
	for _, s := range st.Sockets {
		if s.ID == id {
			return s, true
		}
	}
	return Socket{}, false
}

// unconsumed counts live agents of one kind.
func (st State) unconsumed(kind AgentKind) int {
	n := 0
	for _, a := range st.Agents {
		if a.Kind == kind && a.State != StateConsumed {
			n++
		}
	}
	return n
}

// trayPosition is where a fresh agent of each kind appears. One tray slot
// per kind, spread along the bottom edge of the scene.
func trayPosition(kind AgentKind) Point {
	return Point{X: 40 + 60*float64(kind), Y: 480}
}

// Layout describes the sockets and ports of a scene. The reference layout
// mirrors the cascade's two surface complexes.
type Layout struct {
	Sockets []Socket
	Ports   []Port
}

// DefaultLayout builds the tenase and prothrombinase sockets: tenase wants
// FIXa and FVIIIa, prothrombinase wants FXa, FVa and FII. Active-form
// requirements are carried by the port kind.
func DefaultLayout() Layout {
	return Layout{
		Sockets: []Socket{
			{ID: 0, Name: "tenase"},
			{ID: 1, Name: "prothrombinase"},
		},
		Ports: []Port{
			{ID: 0, Socket: 0, Kind: KindFIX, Enabled: true, Pos: Point{X: 180, Y: 120}, FilledBy: -1},
			{ID: 1, Socket: 0, Kind: KindFVIIIa, Enabled: true, Pos: Point{X: 220, Y: 120}, FilledBy: -1},
			{ID: 2, Socket: 1, Kind: KindFX, Enabled: true, Pos: Point{X: 360, Y: 120}, FilledBy: -1},
			{ID: 3, Socket: 1, Kind: KindFV, Enabled: true, Pos: Point{X: 400, Y: 120}, FilledBy: -1},
			{ID: 4, Socket: 1, Kind: KindFII, Enabled: true, Pos: Point{X: 440, Y: 120}, FilledBy: -1},
		},
	}
}

func initialState(layout Layout, resetKey uint64) State {
	st := State{
		Sockets:  append([]Socket(nil), layout.Sockets...),
		Ports:    append([]Port(nil), layout.Ports...),
		Mode:     ModeManual,
		ResetKey: resetKey,
	}
	for i := range st.Ports {
		st.Ports[i].FilledBy = -1
	}
	for i := range st.Sockets {
		st.Sockets[i].Assembled = false
	}
	return st
}

// Event pairs an applied action name with the snapshot it produced.
type Event struct {
	Action string
	State  State
}

// Listener receives events for applied actions only. No-op actions do not
// notify.
type Listener func(Event)

// Store holds the variant's snapshot and serializes actions over it.
type Store struct {
	mu      sync.Mutex
	layout  Layout
	state   State
	subs    map[int]Listener
	nextSub int
}

// New creates a store over the default two-socket layout.
func New() *Store {
	return NewWithLayout(DefaultLayout())
}

// NewWithLayout creates a store over a custom scene.
func NewWithLayout(layout Layout) *Store {
	return &Store{
		layout: layout,
		state:  initialState(layout, 0),
		subs:   make(map[int]Listener),
	}
}

// Snapshot returns the current immutable state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener and returns its removal function.
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

// apply runs fn over a cloned snapshot and commits it when fn reports an
// effect. Listeners run outside the lock.
func (s *Store) apply(action string, fn func(st *State) bool) bool {
	s.mu.Lock()
	next := s.state.clone()
	if !fn(&next) {
		s.mu.Unlock()
		return false
	}
	refresh(&next)
	s.state = next
	subs := make([]Listener, 0, len(s.subs))
	for _, l := range s.subs {
		subs = append(subs, l)
	}
	s.mu.Unlock()

	ev := Event{Action: action, State: next}
	for _, l := range subs {
		l(ev)
	}
	return true
}

// refresh derives socket assembly from port fill.
func refresh(st *State) {
	for i := range st.Sockets {
		assembled := true
		for _, p := range st.Ports {
			if p.Socket != st.Sockets[i].ID || !p.Enabled {
				continue
			}
			if p.FilledBy < 0 {
				assembled = false
				break
			}
		}
		st.Sockets[i].Assembled = assembled
	}
}

// SpawnFromTray creates a new agent of the given kind at its tray slot,
// unless the un-consumed cap for that kind is already reached. Returns the
// new agent's ID.
func (s *Store) SpawnFromTray(kind AgentKind) (int, bool) {
	id := -1
	ok := s.apply("spawn_from_tray", func(st *State) bool {
		if kind < 0 || kind >= kindCount {
			return false
		}
		if st.unconsumed(kind) >= SpawnCap {
			return false
		}
		id = st.nextAgentID
		st.nextAgentID++
		st.Agents = append(st.Agents, Agent{
			ID:         id,
			Kind:       kind,
			State:      StateSpawned,
			Pos:        trayPosition(kind),
			DockedPort: -1,
		})
		return true
	})
	return id, ok
}

// BeginSeek releases a spawned agent into free movement.
func (s *Store) BeginSeek(agentID int) bool {
	return s.apply("begin_seek", func(st *State) bool {
		a := st.agent(agentID)
		if a == nil || a.State != StateSpawned {
			return false
		}
		a.State = StateSeeking
		return true
	})
}

// MoveAgent places a seeking agent at a new position. This is the drag
// handler's path; it does not dock.
func (s *Store) MoveAgent(agentID int, pos Point) bool {
	return s.apply("move_agent", func(st *State) bool {
		a := st.agent(agentID)
		if a == nil || a.State != StateSeeking {
			return false
		}
		a.Pos = pos
		return true
	})
}

// SnapAgent evaluates a release at the given position: the agent docks into
// the nearest compatible, enabled, unfilled port within the capture radius.
// Outside the radius, or with no candidate port, the agent stays seeking at
// the release position. Returns the docked port's ID.
func (s *Store) SnapAgent(agentID int, pos Point) (int, bool) {
	portID := -1
	docked := false
	s.apply("snap_agent", func(st *State) bool {
		a := st.agent(agentID)
		if a == nil || (a.State != StateSeeking && a.State != StateHolding) {
			return false
		}
		a.Pos = pos

		best := -1
		bestDist := CaptureRadius
		for i, p := range st.Ports {
			if !p.Enabled || p.FilledBy >= 0 || p.Kind != a.Kind {
				continue
			}
			if d := pos.distanceTo(p.Pos); d <= bestDist {
				best = i
				bestDist = d
			}
		}
		if best < 0 {
			a.State = StateSeeking
			a.Path = nil
			a.Progress = 0
			return true
		}

		st.Ports[best].FilledBy = a.ID
		a.State = StateDocked
		a.DockedPort = st.Ports[best].ID
		a.Pos = st.Ports[best].Pos
		a.Path = nil
		a.Progress = 0
		portID = st.Ports[best].ID
		docked = true
		return true
	})
	return portID, docked
}

// StartMigration puts a seeking agent on a precomputed path toward a port.
// Only meaningful in auto mode, where Tick advances the path.
func (s *Store) StartMigration(agentID int, path []Point) bool {
	return s.apply("start_migration", func(st *State) bool {
		a := st.agent(agentID)
		if a == nil || len(path) < 2 {
			return false
		}
		if a.State != StateSeeking && a.State != StateSpawned {
			return false
		}
		a.State = StateMigrating
		a.Path = append([]Point(nil), path...)
		a.Progress = 0
		a.Pos = path[0]
		return true
	})
}

// Hold parks a migrating or seeking agent near its target without docking.
func (s *Store) Hold(agentID int) bool {
	return s.apply("hold_agent", func(st *State) bool {
		a := st.agent(agentID)
		if a == nil || (a.State != StateMigrating && a.State != StateSeeking) {
			return false
		}
		a.State = StateHolding
		a.Path = nil
		a.Progress = 0
		return true
	})
}

// ActivateAgent flips an agent to its active form (zymogen cleaved).
func (s *Store) ActivateAgent(agentID int) bool {
	return s.apply("activate_agent", func(st *State) bool {
		a := st.agent(agentID)
		if a == nil || a.ActiveForm || a.State == StateConsumed {
			return false
		}
		a.ActiveForm = true
		return true
	})
}

// ConsumeSocket retires every agent docked into an assembled socket and
// empties its ports, freeing tray capacity for their kinds.
func (s *Store) ConsumeSocket(socketID int) bool {
	return s.apply("consume_socket", func(st *State) bool {
		var sock *Socket
		for i := range st.Sockets {
			if st.Sockets[i].ID == socketID {
				sock = &st.Sockets[i]
				break
			}
		}
		if sock == nil || !sock.Assembled {
			return false
		}
		for i := range st.Ports {
			p := &st.Ports[i]
			if p.Socket != socketID || p.FilledBy < 0 {
				continue
			}
			if a := st.agent(p.FilledBy); a != nil {
				a.State = StateConsumed
				a.DockedPort = -1
			}
			p.FilledBy = -1
		}
		return true
	})
}

// SetPortEnabled opens or closes a docking site. Disabling an empty port
// removes it from snap candidacy; a filled port cannot be disabled.
func (s *Store) SetPortEnabled(portID int, enabled bool) bool {
	return s.apply("set_port_enabled", func(st *State) bool {
		for i := range st.Ports {
			p := &st.Ports[i]
			if p.ID != portID {
				continue
			}
			if p.Enabled == enabled {
				return false
			}
			if !enabled && p.FilledBy >= 0 {
				return false
			}
			p.Enabled = enabled
			return true
		}
		return false
	})
}

// SetMode switches between manual and auto movement.
func (s *Store) SetMode(m Mode) bool {
	return s.apply("set_mode", func(st *State) bool {
		if st.Mode == m {
			return false
		}
		st.Mode = m
		return true
	})
}

// Tick advances every migrating agent along its path by deltaMs of travel.
// Movement happens only in auto mode; in manual mode Tick is a no-op.
// Agents that reach the end of their path transition to holding.
func (s *Store) Tick(deltaMs float64) bool {
	return s.apply("tick", func(st *State) bool {
		if st.Mode != ModeAuto {
			return false
		}
		if math.IsNaN(deltaMs) || math.IsInf(deltaMs, 0) || deltaMs <= 0 {
			return false
		}

		moved := false
		step := MigrationSpeed * deltaMs / 1000
		for i := range st.Agents {
			a := &st.Agents[i]
			if a.State != StateMigrating || len(a.Path) < 2 {
				continue
			}
			a.Progress += step
			if a.Progress >= 1 {
				a.Progress = 1
				a.Pos = a.Path[len(a.Path)-1]
				a.State = StateHolding
				a.Path = nil
				a.Progress = 0
			} else {
				a.Pos = pointAlong(a.Path, a.Progress)
			}
			moved = true
		}
		return moved
	})
}

// Reset replaces the whole scene with a fresh one under the next
// generation.
func (s *Store) Reset() bool {
	return s.apply("reset", func(st *State) bool {
		*st = initialState(s.layout, st.ResetKey+1)
		return true
	})
}

// agent returns a mutable pointer into the snapshot under construction.
func (st *State) agent(id int) *Agent {
	for i := range st.Agents {
		if st.Agents[i].ID == id {
			return &st.Agents[i]
		}
	}
	return nil
}

// pointAlong interpolates a position at fraction t of the polyline's total
// length.
func pointAlong(path []Point, t float64) Point {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += path[i-1].distanceTo(path[i])
	}
	if total == 0 {
		return path[len(path)-1]
	}

	remain := t * total
	for i := 1; i < len(path); i++ {
		seg := path[i-1].distanceTo(path[i])
		if remain <= seg {
			f := 0.0
			if seg > 0 {
				f = remain / seg
			}
			return Point{
				X: path[i-1].X + (path[i].X-path[i-1].X)*f,
				Y: path[i-1].Y + (path[i].Y-path[i-1].Y)*f,
			}
		}
		remain -= seg
	}
	return path[len(path)-1]
}
