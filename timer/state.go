package timer

import (
	"fmt"
	"time"
)

// State is the persisted checkpoint of one match clock. The displayed time is
// derived from it and the current wall clock, so a running clock keeps
// advancing across process restarts without any background work.
type State struct {
	ElapsedSeconds int   `json:"time"`
	Running        bool  `json:"isRunning"`
	LastUpdateMs   int64 `json:"lastUpdate"`
}

// CurrentSeconds returns the displayed elapsed time at the given instant.
func (s State) CurrentSeconds(now time.Time) int {
	if !s.Running {
		return s.ElapsedSeconds
	}
	delta := int(now.UnixMilli()-s.LastUpdateMs) / 1000
	if delta < 0 {
		// Clock went backwards; freeze rather than regress.
		delta = 0
	}
	return s.ElapsedSeconds + delta
}

// Toggled returns the state after a start/pause press at the given instant.
// Pausing commits the whole-second duration of the running interval.
func (s State) Toggled(now time.Time) State {
	return State{
		ElapsedSeconds: s.CurrentSeconds(now),
		Running:        !s.Running,
		LastUpdateMs:   now.UnixMilli(),
	}
}

// ResetState is the stopped-at-zero state every match clock starts from.
func ResetState(now time.Time) State {
	return State{ElapsedSeconds: 0, Running: false, LastUpdateMs: now.UnixMilli()}
}

// FormatSeconds renders elapsed seconds as zero-padded "MM:SS".
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
