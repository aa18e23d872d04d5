package tboxtiming

import "fmt"

// ComputeMeans implements the Statistics Pipeline: from a RunState's
// tally table, compute the grand mean G = total_ticks/total_runs,
// then for each (position, byte) with count > 0, the grand-mean-normalized
// mean (ticks_sum/count)/G. Empty cells (count == 0) are defined as 1.0,
// the normalized neutral value.
func ComputeMeans(state *RunState) (MeanVector, error) {
	var means MeanVector
	if state.TotalRuns == 0 {
		return means, fmt.Errorf("tboxtiming: compute means: zero total runs")
	}

	grandMean := float64(state.TotalTicks) / float64(state.TotalRuns)
	if grandMean == 0 {
		return means, fmt.Errorf("tboxtiming: compute means: zero grand mean")
	}

	for i := 0; i < 16; i++ {
		for b := 0; b < 256; b++ {
			t := state.Tallies[i][b]
			if t.Count == 0 {
				means[i][b] = 1.0
				continue
			}
			rawMean := float64(t.TicksSum) / float64(t.Count)
			means[i][b] = rawMean / grandMean
		}
	}
	return means, nil
}
