package tboxtiming

import "sort"

// TopNPools selects, for each position, the n candidate bytes with the
// highest aggregated correlation. Pool selection itself lives outside the
// core measurement/correlation pipeline; this is a minimal, convenience
// implementation in the spirit of this codebase's other small
// single-purpose tools (cmd/tboxpool).
func TopNPools(corr CorrelationMatrix, n int) Pools {
	var pools Pools
	for i := 0; i < 16; i++ {
		type candidate struct {
			b     byte
			value float64
		}
		candidates := make([]candidate, 256)
		for k := 0; k < 256; k++ {
			candidates[k] = candidate{byte(k), corr[i][k]}
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].value > candidates[b].value
		})
		limit := n
		if limit > 256 {
			limit = 256
		}
		pool := make(Pool, limit)
		for j := 0; j < limit; j++ {
			pool[j] = candidates[j].b
		}
		pools[i] = pool
	}
	return pools
}
