package tasks

import "fmt"

// Phase identifies the stage of an extraction run a progress update
// belongs to.
type Phase string

const (
	PhaseFetchPlaylists Phase = "fetch_playlists"
	PhaseFetchTracks    Phase = "fetch_tracks"
	PhaseLoad           Phase = "load"
	PhaseBackfill       Phase = "backfill"
	PhaseDone           Phase = "done"
)

// ProgressUpdate describes a single step of an extraction run. Step and
// Total are zero for phases that are not enumerable.
type ProgressUpdate struct {
	Phase   Phase
	Step    int
	Total   int
	Message string
}

// String formats the update for plain-text progress output.
func (u ProgressUpdate) String() string {
	if u.Total > 0 {
		return fmt.Sprintf("[%s] %d/%d %s", u.Phase, u.Step, u.Total, u.Message)
	}
	return fmt.Sprintf("[%s] %s", u.Phase, u.Message)
}
