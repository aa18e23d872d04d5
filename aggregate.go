package tboxtiming

// Aggregator maintains a running sum of CorrelationMatrices across multiple
// test keys. No averaging is performed; only the sign and
// relative magnitude of the summed coefficients matter to downstream pool
// selection.
type Aggregator struct {
	total      CorrelationMatrix
	keysSummed int
}

// NewAggregator returns an Aggregator with a zeroed running sum.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add sums corr element-wise into the running total.
func (a *Aggregator) Add(corr CorrelationMatrix) {
	for i := 0; i < 16; i++ {
		for k := 0; k < 256; k++ {
			a.total[i][k] += corr[i][k]
		}
	}
	a.keysSummed++
}

// Total returns the running sum and how many matrices contributed to it.
func (a *Aggregator) Total() (CorrelationMatrix, int) {
	return a.total, a.keysSummed
}
