package tboxtiming

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ReadTargetKeyFile reads the 16 raw key bytes this target-key file
// format specifies.
func ReadTargetKeyFile(path string) (Block, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Block{}, fmt.Errorf("%w: target key file %q is missing: %v", ErrConfiguration, path, err)
	}
	if err != nil {
		return Block{}, fmt.Errorf("%w: open target key file %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	var key Block
	if _, err := io.ReadFull(f, key[:]); err != nil {
		return Block{}, fmt.Errorf("%w: read 16 bytes from %q: %v", ErrIO, path, err)
	}
	return key, nil
}

// WriteTargetKeyFile writes key as 16 raw bytes, for generating a fresh
// target key to later crack.
func WriteTargetKeyFile(path string, key Block) error {
	if err := os.WriteFile(path, key[:], 0o600); err != nil {
		return fmt.Errorf("%w: write target key file %q: %v", ErrIO, path, err)
	}
	return nil
}
