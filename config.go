package tboxtiming

import "fmt"

// StudyConfig replaces the original program's compile-time knobs
// (THRESH_MULT, PURGE_CACHE, RAW_OUTPUT_ASCII, PREEMPTIVE_KEYEXPAND,
// PRIORITIZE_PROCESS, RANDOMIZE_KEY, KEYS_CAP, DEFAULT_RUNS) with runtime
// options, since Go has no preprocessor and this binary targets whatever
// platform it was built for.
type StudyConfig struct {
	calibrationRuns  int
	thresholdMult    float64
	explicitT        Tick
	outlierFilterOn  bool
	purgeCache       bool
	cacheBufferBytes int
	prioritizeProc   bool
	pinCPU           int
	testKeyCount     int
	rawDumpMode      RawDumpMode
}

// RawDumpMode selects the raw-dump wire format.
type RawDumpMode int

const (
	// RawDumpOff disables the raw per-measurement dump entirely.
	RawDumpOff RawDumpMode = iota
	// RawDumpASCII writes "16 hex bytes, then decimal ticks" lines.
	// Preferred for portability.
	RawDumpASCII
	// RawDumpBinary writes 16 raw bytes then a 4-byte native-endian tick
	// count. Consumers must know the producer's ABI.
	RawDumpBinary
)

// DefaultRuns mirrors the original's DEFAULT_RUNS: 2^22 encryptions are
// timed per key study unless overridden.
const DefaultRuns = 22

// Option configures a StudyConfig.
type Option func(*StudyConfig)

// defaultConfig returns the configuration the original program compiled in
// by default: THRESH_ON=1, THRESH_MULT=5, PURGE_CACHE=0,
// RAW_OUTPUT_ASCII=1 (but off unless requested), PRIORITIZE_PROCESS=0,
// KEYS_CAP=10.
func defaultConfig() *StudyConfig {
	return &StudyConfig{
		calibrationRuns: 1 << DefaultRuns,
		thresholdMult:   5,
		outlierFilterOn: true,
		testKeyCount:    10,
		rawDumpMode:     RawDumpOff,
		pinCPU:          -1,
	}
}

// NewStudyConfig builds a StudyConfig from the given options.
func NewStudyConfig(opts ...Option) *StudyConfig {
	c := defaultConfig()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCalibrationRuns sets how many measurements the Threshold Calibrator
// performs (with the outlier filter disabled) before deriving a cutoff.
func WithCalibrationRuns(n int) Option {
	return func(c *StudyConfig) { c.calibrationRuns = n }
}

// WithThresholdMultiplier sets the multiplier applied to the calibrated
// mean tick count to derive the outlier cutoff T.
func WithThresholdMultiplier(mult float64) Option {
	return func(c *StudyConfig) { c.thresholdMult = mult }
}

// WithExplicitThreshold skips calibration entirely and uses T directly,
// mirroring the CLI's optional positional threshold argument.
func WithExplicitThreshold(t Tick) Option {
	return func(c *StudyConfig) {
		c.explicitT = t
		c.outlierFilterOn = true
	}
}

// WithOutlierFilter toggles the outlier-cutoff discipline. Disabling it is
// how the calibrator itself measures (THRESH_ON=0 equivalent).
func WithOutlierFilter(on bool) Option {
	return func(c *StudyConfig) { c.outlierFilterOn = on }
}

// WithCacheScrub enables the optional cache-purge pass before each timed
// measurement, using a buffer of the given size. Off by default because of
// its severe throughput cost.
func WithCacheScrub(bufferBytes int) Option {
	return func(c *StudyConfig) {
		c.purgeCache = bufferBytes > 0
		c.cacheBufferBytes = bufferBytes
	}
}

// WithProcessTuning requests realtime scheduling priority and pinning to
// the given CPU. Both are best-effort.
func WithProcessTuning(cpu int) Option {
	return func(c *StudyConfig) {
		c.prioritizeProc = true
		c.pinCPU = cpu
	}
}

// WithTestKeyCount sets how many random test keys are studied and
// correlated against the target key (KEYS_CAP in the original).
func WithTestKeyCount(n int) Option {
	return func(c *StudyConfig) { c.testKeyCount = n }
}

// WithRawDump records the raw-dump format in the configuration. Study does
// not read this setting: a raw dump is written only when a RawDumpWriter
// is attached with Study.SetRawDump.
func WithRawDump(mode RawDumpMode) Option {
	return func(c *StudyConfig) { c.rawDumpMode = mode }
}

// Scrubber returns the CacheScrubber this configuration calls for: a
// ZeroBufferScrubber sized per WithCacheScrub, or a no-op if cache
// scrubbing was never requested.
func (c *StudyConfig) Scrubber() CacheScrubber {
	if !c.purgeCache {
		return NoopScrubber{}
	}
	return NewZeroBufferScrubber(c.cacheBufferBytes)
}

// ApplyTuning runs the process tuning this configuration calls for
// (WithProcessTuning) against tuner. Both steps are best-effort: failures
// are returned for the caller to log, not treated as fatal.
func (c *StudyConfig) ApplyTuning(tuner ProcessTuner) error {
	if !c.prioritizeProc {
		return nil
	}
	if c.pinCPU >= 0 {
		if err := tuner.Pin(c.pinCPU); err != nil {
			return fmt.Errorf("pin to cpu %d: %w", c.pinCPU, err)
		}
	}
	if err := tuner.Prioritize(); err != nil {
		return fmt.Errorf("raise priority: %w", err)
	}
	return nil
}
