package tboxtiming

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/sys/cpu"
)

// CipherOracle is the narrow interface the Measurement Loop drives: expand a
// key once, then encrypt many plaintexts under it. Implementations own
// whatever expanded round-key state AES needs; callers must serialize key
// changes with encryption, which is trivially true under this package's
// single-threaded measurement loop.
type CipherOracle interface {
	// Expand stores key as the oracle's current key, expanding it into
	// whatever internal state the backend needs. Must not be called
	// concurrently with Encrypt.
	Expand(key Block) error
	// Encrypt encrypts in under the most recently expanded key and returns
	// the ciphertext. Implementations must do the minimum possible work
	// inside this call, since the caller times it.
	Encrypt(in Block) Block
}

var warnAESNIOnce sync.Once

// AESOracle is the only AES implementation in this repository: a thin
// wrapper over crypto/aes. Implementing AES from scratch is out of scope
// here; crypto/aes is the external black-box collaborator this Cipher
// Oracle wraps. On amd64/arm64 with hardware AES support, crypto/aes uses
// AES-NI; otherwise it falls back to a constant-time bitsliced software
// implementation. Both are expected to be immune to this attack. When
// hardware AES support is detected, NewAESOracle logs a one-time warning
// so a "why isn't this leaking" demo session isn't mistaken for a bug; no
// warning is logged for the software path.
type AESOracle struct {
	block cipher.Block
}

// NewAESOracle constructs an AESOracle with no key expanded yet.
func NewAESOracle() *AESOracle {
	if cpu.X86.HasAES || cpu.ARM64.HasAES {
		warnAESNIOnce.Do(func() {
			glog.Warning("hardware AES acceleration detected; table-based first-round timing leakage is not expected against this backend")
		})
	}
	return &AESOracle{}
}

// Expand implements CipherOracle.
func (o *AESOracle) Expand(key Block) error {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return fmt.Errorf("tboxtiming: expand key: %w", err)
	}
	o.block = block
	return nil
}

// Encrypt implements CipherOracle.
func (o *AESOracle) Encrypt(in Block) Block {
	var out Block
	o.block.Encrypt(out[:], in[:])
	return out
}

// ZeroBlock is the canonical probe plaintext used to derive the reference
// ciphertext for the Brute-Force Engine.
var ZeroBlock Block
