// The Correlator computes, for each key-byte position and each candidate
// target-key byte, the Pearson correlation between the target and a known
// test key's mean timing vectors realigned into shared first-round T-box
// input space. The per-position sweep over 256 candidates is
// independent work, so it is farmed out with golang.org/x/sync/errgroup,
// the same one-goroutine-per-key-byte shape this domain's correlation power
// analysis tooling uses, just keyed by position here instead of by key
// byte directly.
package tboxtiming

import (
	"fmt"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// Correlate implements the Correlator: target and test are
// MeanVectors from two key studies; testKey is the (known) key used for
// the test study. The returned CorrelationMatrix's entry [i][k1] is
// Pearson(X, Y) where X is target's row i realigned by XOR k1 and Y is
// test's row i realigned by XOR testKey[i].
func Correlate(target, test MeanVector, testKey Block) (CorrelationMatrix, error) {
	var corr CorrelationMatrix

	var eg errgroup.Group
	for i := 0; i < 16; i++ {
		i := i
		eg.Go(func() error {
			testRow := realign(test[i], testKey[i])
			for k1 := 0; k1 < 256; k1++ {
				targetRow := realign(target[i], byte(k1))
				corr[i][k1] = stat.Correlation(targetRow, testRow, nil)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return corr, fmt.Errorf("tboxtiming: correlate: %w", err)
	}
	return corr, nil
}

// realign returns row indexed by first-round T-box input s (0..255),
// where row[s XOR keyByte] in cleartext-byte space becomes index s, i.e.
// realigned[s] = row[s XOR keyByte]. Under the true key byte, this is
// exactly the permutation that makes two independently-keyed mean vectors
// comparable position-for-position.
func realign(row [256]float64, keyByte byte) []float64 {
	out := make([]float64, 256)
	for s := 0; s < 256; s++ {
		out[s] = row[byte(s)^keyByte]
	}
	return out
}
