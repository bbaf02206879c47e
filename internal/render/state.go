package render

import "sync"

// Status enumerates render lifecycle states.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRendering Status = "rendering"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// State is a point-in-time snapshot of the render job.
type State struct {
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
}

// stateTracker owns the mutable render state. It is written only by the
// render worker and read by any number of status pollers; every read returns
// a consistent snapshot.
type stateTracker struct {
	mu    sync.Mutex
	state State
}

func newStateTracker() *stateTracker {
	return &stateTracker{state: State{Status: StatusIdle}}
}

// Snapshot returns the current state.
func (t *stateTracker) Snapshot() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// BeginRendering replaces the state with a fresh rendering snapshot if no
// render is active. It reports whether admission succeeded.
func (t *stateTracker) BeginRendering() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Status == StatusRendering {
		return false
	}
	t.state = State{Status: StatusRendering}
	return true
}

// SetProgress records streamed progress. Values never decrease and are
// capped at 99; 100 is reserved for the confirmed-success transition.
func (t *stateTracker) SetProgress(percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Status != StatusRendering {
		return
	}
	if percent > 99 {
		percent = 99
	}
	if percent > t.state.Progress {
		t.state.Progress = percent
	}
}

// Finish moves the job to its resting state: done at exactly 100 on success,
// error with the failure message otherwise.
func (t *stateTracker) Finish(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err != nil {
		t.state = State{Status: StatusError, Progress: t.state.Progress, Error: err.Error()}
		return
	}
	t.state = State{Status: StatusDone, Progress: 100}
}
