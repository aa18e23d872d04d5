package tboxtiming

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// Checkpoint is a resumable snapshot of one key study: enough to restart
// measurement without losing accepted runs, and to recompute correlations
// without re-measuring. This is a supplemental format alongside the raw,
// tally, and correlation dumps, aimed at long test-key sweeps that get
// interrupted partway through.
type Checkpoint struct {
	Key        Block      `json:"key"`
	Tallies    TallyTable `json:"tallies"`
	TotalRuns  uint64     `json:"total_runs"`
	TotalTicks uint64     `json:"total_ticks"`
}

// NewCheckpoint captures the current state of a key study.
func NewCheckpoint(key Block, state *RunState) Checkpoint {
	return Checkpoint{
		Key:        key,
		Tallies:    state.Tallies,
		TotalRuns:  state.TotalRuns,
		TotalTicks: state.TotalTicks,
	}
}

// WriteCheckpoint serializes c to path as JSON.
func WriteCheckpoint(path string, c Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create checkpoint %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("%w: encode checkpoint %q: %v", ErrIO, path, err)
	}
	return nil
}

// ReadCheckpoint deserializes a checkpoint previously written by
// WriteCheckpoint, returning its key and RunState.
func ReadCheckpoint(path string) (Block, *RunState, error) {
	f, err := os.Open(path)
	if err != nil {
		return Block{}, nil, fmt.Errorf("%w: open checkpoint %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	var c Checkpoint
	dec := json.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return Block{}, nil, fmt.Errorf("%w: decode checkpoint %q: %v", ErrIO, path, err)
	}
	return c.Key, &RunState{Tallies: c.Tallies, TotalRuns: c.TotalRuns, TotalTicks: c.TotalTicks}, nil
}
