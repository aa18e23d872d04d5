package tboxtiming

import (
	"fmt"
	"io"
	"os"
)

// WriteBFDat writes pools in the bf.dat format: 16 records, each a single
// length byte followed by that many candidate bytes. A pool of exactly
// 256 candidates is written with length byte 0, since 256 itself doesn't
// fit in a byte.
func WriteBFDat(path string, pools Pools) error {
	for i, p := range pools {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: pool at position %d: %v", ErrConfiguration, i, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create bf.dat %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	for _, p := range pools {
		lenByte := byte(len(p))
		if _, err := f.Write([]byte{lenByte}); err != nil {
			return fmt.Errorf("%w: write bf.dat length byte: %v", ErrIO, err)
		}
		if _, err := f.Write(p); err != nil {
			return fmt.Errorf("%w: write bf.dat pool bytes: %v", ErrIO, err)
		}
	}
	return nil
}

// ReadBFDat reads the pool file WriteBFDat produces.
func ReadBFDat(path string) (Pools, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pools{}, fmt.Errorf("%w: open bf.dat %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	var pools Pools
	for i := 0; i < 16; i++ {
		var lenByte [1]byte
		if _, err := io.ReadFull(f, lenByte[:]); err != nil {
			return Pools{}, fmt.Errorf("%w: read bf.dat length byte at position %d: %v", ErrIO, i, err)
		}
		n := int(lenByte[0])
		if n == 0 {
			n = 256
		}
		pool := make(Pool, n)
		if _, err := io.ReadFull(f, pool); err != nil {
			return Pools{}, fmt.Errorf("%w: read bf.dat pool bytes at position %d: %v", ErrIO, i, err)
		}
		pools[i] = pool
	}
	return pools, nil
}
