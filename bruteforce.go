// The Brute-Force Engine enumerates the product space of per-position
// candidate pools, verifying each candidate key against a
// reference ciphertext obtained by encrypting the all-zeros probe
// plaintext under the true target key. Ciphertext equality is checked via
// a 128-bit integer compare (lukechampine.com/uint128) rather than
// bytes.Equal, since a Block is exactly one 128-bit AES block — the same
// type this domain's tooling reaches for when a 16-byte value needs to be
// compared as a single scalar rather than byte-by-byte.
package tboxtiming

import (
	"fmt"
	"sort"

	"lukechampine.com/uint128"
)

// BruteForceResult is the outcome of a completed Brute-Force Engine run.
type BruteForceResult struct {
	Key       Block
	Attempts  uint64
	SpaceSize uint64
}

// ReferenceCiphertext encrypts the all-zeros probe plaintext under the
// target key, expanding it into oracle first.
func ReferenceCiphertext(oracle CipherOracle, targetKey Block) (Block, error) {
	if err := oracle.Expand(targetKey); err != nil {
		return Block{}, fmt.Errorf("tboxtiming: expand target key: %w", err)
	}
	return oracle.Encrypt(ZeroBlock), nil
}

// BruteForce implements the Brute-Force Engine: given per-position
// candidate pools and a reference ciphertext, enumerate the
// product space, re-keying oracle and re-encrypting the all-zeros probe
// for each candidate, until a match is found or the space is exhausted.
//
// Positions are reordered so the smallest pools change most frequently
// (innermost counters) and the largest pools form the slow-changing outer
// loop. Ties in pool size break in original position order (a stable
// sort).
func BruteForce(oracle CipherOracle, pools Pools, reference Block) (BruteForceResult, error) {
	for i, p := range pools {
		if err := p.Validate(); err != nil {
			return BruteForceResult{}, fmt.Errorf("tboxtiming: pool at position %d: %w", i, err)
		}
	}

	order := make([]int, 16)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return len(pools[order[a]]) < len(pools[order[b]])
	})

	var spaceSize uint64 = 1
	for _, p := range pools {
		spaceSize *= uint64(len(p))
	}

	refInt := uint128.FromBytes(reference[:])

	idx := make([]int, 16)
	var attempts uint64
	for {
		var key Block
		for i := 0; i < 16; i++ {
			key[i] = pools[i][idx[i]]
		}

		if err := oracle.Expand(key); err != nil {
			return BruteForceResult{}, fmt.Errorf("tboxtiming: expand candidate key: %w", err)
		}
		attempts++
		ct := oracle.Encrypt(ZeroBlock)
		if uint128.FromBytes(ct[:]) == refInt {
			return BruteForceResult{Key: key, Attempts: attempts, SpaceSize: spaceSize}, nil
		}

		// carry upward through the reordered significance
		carried := false
		for _, pos := range order {
			idx[pos]++
			if idx[pos] < len(pools[pos]) {
				carried = true
				break
			}
			idx[pos] = 0
		}
		if !carried {
			return BruteForceResult{Attempts: attempts, SpaceSize: spaceSize}, fmt.Errorf("tboxtiming: %w after %d attempts", ErrBruteForceExhausted, attempts)
		}
	}
}
