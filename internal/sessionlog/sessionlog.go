// Package sessionlog records a teaching session's action stream to SQLite,
// so an instructor can replay how a learner moved through the cascade.
// It subscribes to the cascade store and writes one row per applied action,
// skipping the high-frequency kinetics ticks.
package sessionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hemosim/hemosim/internal/cascade"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  INTEGER NOT NULL REFERENCES sessions(id),
	seq         INTEGER NOT NULL,
	action      TEXT NOT NULL,
	phase       TEXT NOT NULL,
	mode        TEXT NOT NULL,
	reset_key   INTEGER NOT NULL,
	snapshot    TEXT NOT NULL,
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id, seq);
`

// Event is one recorded action.
type Event struct {
	Seq      int             `json:"seq"`
	Action   string          `json:"action"`
	Phase    string          `json:"phase"`
	Mode     string          `json:"mode"`
	ResetKey uint64          `json:"reset_key"`
	Snapshot json.RawMessage `json:"snapshot"`
	Time     time.Time       `json:"time"`
}

// Session is one recorded run.
type Session struct {
	ID        int64     `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Events    int       `json:"events"`
}

// snapshotSummary is the compact per-event state digest stored with each
// row. The full state is reproducible by replaying actions, so only the
// fields an instructor scans for go in.
type snapshotSummary struct {
	Phase             string `json:"phase"`
	ThrombinArrived   bool   `json:"thrombin_arrived"`
	PlateletActivated bool   `json:"platelet_activated"`
	TenaseFormed      bool   `json:"tenase_formed"`
	ThrombinBurst     bool   `json:"thrombin_burst"`
	FibrinCrosslinked bool   `json:"fibrin_crosslinked"`
	ObjectivesDone    int    `json:"objectives_done"`
}

// Recorder persists one session's events. It is safe for concurrent use;
// store listeners may fire from timer goroutines.
type Recorder struct {
	mu        sync.Mutex
	db        *sql.DB
	sessionID int64
	seq       int
	unsub     func()
}

// Open creates (or reuses) dir/sessions.db and starts a new session row.
func Open(dir string) (*Recorder, error) {
	r, err := open(dir)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(context.Background(),
		`INSERT INTO sessions (started_at) VALUES (?)`,
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		r.db.Close()
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		r.db.Close()
		return nil, fmt.Errorf("failed to read session id: %w", err)
	}
	r.sessionID = id
	return r, nil
}

// OpenReadOnly opens dir/sessions.db for inspection without starting a new
// session. Record fails on a read-only recorder.
func OpenReadOnly(dir string) (*Recorder, error) {
	return open(dir)
}

func open(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	dbPath := filepath.Join(dir, "sessions.db")
	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite works best with single writer

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Recorder{db: db}, nil
}

// SessionID returns the current session's row ID.
func (r *Recorder) SessionID() int64 {
	return r.sessionID
}

// Attach subscribes the recorder to a cascade store. Kinetics ticks are not
// recorded; everything else is.
func (r *Recorder) Attach(store *cascade.Store) {
	r.unsub = store.Subscribe(func(ev cascade.Event) {
		if ev.Action == "step_kinetics" {
			return
		}
		_ = r.Record(ev.Action, ev.State)
	})
}

// Detach unsubscribes from the store, if attached.
func (r *Recorder) Detach() {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
}

// Record writes one event row.
func (r *Recorder) Record(action string, st cascade.State) error {
	if r.sessionID == 0 {
		return fmt.Errorf("recorder is read-only")
	}
	done := 0
	for _, o := range st.Objectives {
		if o.Done {
			done++
		}
	}
	summary, err := json.Marshal(snapshotSummary{
		Phase:             st.Phase.String(),
		ThrombinArrived:   st.ThrombinArrived,
		PlateletActivated: st.PlateletActivated,
		TenaseFormed:      st.Tenase.Formed,
		ThrombinBurst:     st.ThrombinBurst,
		FibrinCrosslinked: st.FibrinCrosslinked,
		ObjectivesDone:    done,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot summary: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	_, err = r.db.Exec(
		`INSERT INTO events (session_id, seq, action, phase, mode, reset_key, snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.sessionID, r.seq, action, st.Phase.String(), st.Mode.String(),
		st.ResetKey, string(summary), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// Events returns a session's events in order.
func (r *Recorder) Events(ctx context.Context, sessionID int64) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, action, phase, mode, reset_key, snapshot, created_at
		 FROM events WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var snapshot, created string
		if err := rows.Scan(&ev.Seq, &ev.Action, &ev.Phase, &ev.Mode, &ev.ResetKey, &snapshot, &created); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		ev.Snapshot = json.RawMessage(snapshot)
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			ev.Time = t
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Sessions lists all recorded sessions, oldest first.
func (r *Recorder) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.started_at, COUNT(e.id)
		 FROM sessions s LEFT JOIN events e ON e.session_id = s.id
		 GROUP BY s.id ORDER BY s.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var started string
		if err := rows.Scan(&s.ID, &started, &s.Events); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if t, perr := time.Parse(time.RFC3339Nano, started); perr == nil {
			s.StartedAt = t
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// ExportJSON writes one session's event stream as indented JSON.
func (r *Recorder) ExportJSON(ctx context.Context, w io.Writer, sessionID int64) error {
	events, err := r.Events(ctx, sessionID)
	if err != nil {
		return err
	}

	doc := struct {
		SessionID int64   `json:"session_id"`
		Events    []Event `json:"events"`
	}{SessionID: sessionID, Events: events}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Close detaches and closes the database.
func (r *Recorder) Close() error {
	r.Detach()
	return r.db.Close()
}
