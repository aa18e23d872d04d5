package tboxtiming

import (
	"bufio"
	"fmt"
	"io"
	"sort"
)

// WriteCorrelationDump writes the aggregated correlation matrix as, per
// position, 256 lines "%2d %02x %lf\n" (position, candidate byte,
// coefficient), sorted by descending coefficient. Ties keep ascending
// candidate-byte order, since the sort is stable over a byte-ordered input.
func WriteCorrelationDump(w io.Writer, corr CorrelationMatrix) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < 16; i++ {
		type entry struct {
			b     byte
			value float64
		}
		row := make([]entry, 256)
		for k := 0; k < 256; k++ {
			row[k] = entry{byte(k), corr[i][k]}
		}
		sort.SliceStable(row, func(a, b int) bool { return row[a].value > row[b].value })
		for _, e := range row {
			if _, err := fmt.Fprintf(bw, "%2d %02x %f\n", i, e.b, e.value); err != nil {
				return fmt.Errorf("%w: write correlation dump: %v", ErrIO, err)
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: flush correlation dump: %v", ErrIO, err)
	}
	return nil
}
