package tboxtiming

import "errors"

// Sentinel errors for this package's error kinds. Configuration and I/O
// errors are wrapped with fmt.Errorf("...: %w", ...) at their call sites
// so callers retain errors.Is/errors.As access to these sentinels.
var (
	// ErrConfiguration is wrapped around missing target-key files, bad CLI
	// arguments, and other setup mistakes the operator must fix.
	ErrConfiguration = errors.New("tboxtiming: configuration error")

	// ErrIO is wrapped around failures to open, read, or write a required
	// file (target key, rate file, raw dump, correlation dump, bf.dat).
	ErrIO = errors.New("tboxtiming: I/O error")

	// ErrBruteForceExhausted is returned by the Brute-Force Engine when the
	// candidate pools were exhausted without producing a key that matches
	// the reference ciphertext. This is a normal, non-fatal outcome.
	ErrBruteForceExhausted = errors.New("tboxtiming: brute force exhausted candidate pools")

	// ErrDegenerateMeasurement signals that the outlier filter discarded
	// far more measurements than it accepted, a sign that calibration (or
	// the oracle under test) is broken rather than just noisy.
	ErrDegenerateMeasurement = errors.New("tboxtiming: outlier discard rate too high")
)
