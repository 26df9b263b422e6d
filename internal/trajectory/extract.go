// Package trajectory segments interaction logs of multi-agent conversations
// into trajectories: ordered, duplicate-free sequences of participants, each
// opened by a user message.
package trajectory

import (
	"slices"
	"strings"

	"github.com/shivanikabu/agentic-governance-suite/pkg/types"
)

// UserMarker is the first element of every trajectory.
const UserMarker = "User"

// IsUser reports whether source names the end user, ignoring case.
func IsUser(source string) bool {
	return strings.EqualFold(source, UserMarker)
}

// Extract folds over entries in order and returns the trajectories they form.
//
// A user entry closes the open trajectory and starts a new one seeded with
// the user marker and, when present, the entry's next speaker. Other entries
// extend the open trajectory with their source and next speaker when not
// already present, and are dropped while no trajectory is open. Trajectories
// holding only the user marker are discarded together with their blocks.
// Indexes of the returned trajectories start at 1.
func Extract(entries []types.LogEntry) ([]types.Trajectory, types.ExtractStats) {
	var (
		stats  types.ExtractStats
		closed []types.Trajectory
		path   []string
		block  types.Block
	)

	flush := func() {
		if len(path) > 0 {
			closed = append(closed, types.Trajectory{Path: path, Block: block})
		}
	}

	for _, e := range entries {
		if !e.Valid {
			continue
		}

		if IsUser(e.Source) {
			stats.UserMessages++
			flush()
			path = []string{UserMarker}
			block = types.Block{e}
			if e.NextSpeaker != "" {
				path = append(path, e.NextSpeaker)
			}
			continue
		}

		if len(path) == 0 {
			continue
		}
		path = appendParticipant(path, e.Source)
		path = appendParticipant(path, e.NextSpeaker)
		block = append(block, e)
	}
	flush()
	stats.Closed = len(closed)

	kept := make([]types.Trajectory, 0, len(closed))
	for _, t := range closed {
		if len(t.Path) <= 1 || !IsUser(t.Path[0]) {
			continue
		}
		t.Index = len(kept) + 1
		kept = append(kept, t)
	}
	stats.Kept = len(kept)

	return kept, stats
}

func appendParticipant(path []string, name string) []string {
	if name == "" || slices.Contains(path, name) {
		return path
	}
	return append(path, name)
}

// Paths returns the participant sequences of ts, index-aligned with Blocks(ts).
func Paths(ts []types.Trajectory) [][]string {
	paths := make([][]string, len(ts))
	for i := range ts {
		paths[i] = ts[i].Path
	}
	return paths
}

// Blocks returns the entry blocks of ts, index-aligned with Paths(ts).
func Blocks(ts []types.Trajectory) []types.Block {
	blocks := make([]types.Block, len(ts))
	for i := range ts {
		blocks[i] = ts[i].Block
	}
	return blocks
}

// FormatPath renders a trajectory path as "User → AgentA → AgentB".
// The result also keys a path in score history.
func FormatPath(path []string) string {
	return strings.Join(path, " → ")
}
