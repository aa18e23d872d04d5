package tboxtiming

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// WriteTallyDump writes, per position, 256 lines "%2d %02x %lld %lf\n"
// (position, candidate byte, accepted-measurement count, normalized mean),
// sorted by descending normalized mean. A byte with Count 0 (never sampled)
// still appears, with its normalized mean as computed by ComputeMeans.
func WriteTallyDump(w io.Writer, state *RunState, means MeanVector) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < 16; i++ {
		order := make([]int, 256)
		for k := range order {
			order[k] = k
		}
		sort.SliceStable(order, func(a, b int) bool { return means[i][order[a]] > means[i][order[b]] })
		for _, k := range order {
			t := state.Tallies[i][k]
			if _, err := fmt.Fprintf(bw, "%2d %02x %d %f\n", i, byte(k), t.Count, means[i][k]); err != nil {
				return fmt.Errorf("%w: write tally dump: %v", ErrIO, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush tally dump: %v", ErrIO, err)
	}
	return nil
}
