//go:build !linux

package tboxtiming

// NewProcessTuner returns the platform's best available ProcessTuner. No
// affinity/priority backend is wired for non-Linux platforms; tuning calls
// here silently no-op rather than fail.
func NewProcessTuner() ProcessTuner {
	return NoopTuner{}
}
