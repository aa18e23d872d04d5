package tboxtiming

import (
	"fmt"

	"github.com/golang/glog"
)

// degenerateMeasurementFactor bounds the measurement-degeneracy
// safeguard: if the outlier filter discards more than this many attempts
// per accepted measurement, something about calibration is badly wrong.
// A permanently-discarding stream is a configuration bug, and it is
// better to fail loudly than spin forever.
const degenerateMeasurementFactor = 1000

// Study drives the Measurement Loop and Threshold Calibrator
// against an OracleTransport.
type Study struct {
	entropy  EntropySource
	timer    CycleTimer
	scrubber CacheScrubber
	wall     WallClock
	cfg      *StudyConfig
	rawDump  *RawDumpWriter
}

// SetRawDump attaches a RawDumpWriter that Measure will feed every accepted
// measurement to. Pass nil to disable.
func (s *Study) SetRawDump(w *RawDumpWriter) {
	s.rawDump = w
}

// NewStudy constructs a Study. scrubber may be nil, in which case cache
// scrubbing is a no-op regardless of cfg.
func NewStudy(entropy EntropySource, timer CycleTimer, scrubber CacheScrubber, wall WallClock, cfg *StudyConfig) *Study {
	if scrubber == nil {
		scrubber = NoopScrubber{}
	}
	if wall == nil {
		wall = SystemWallClock{}
	}
	return &Study{entropy: entropy, timer: timer, scrubber: scrubber, wall: wall, cfg: cfg}
}

// Measure runs the Measurement Loop against transport until n
// measurements have been accepted, returning the resulting
// RunState. threshold and outlierFilterOn are passed explicitly (rather
// than always read from cfg) so the Threshold Calibrator can reuse this
// same loop with the filter disabled.
func (s *Study) Measure(transport OracleTransport, n int, threshold Tick, outlierFilterOn bool) (*RunState, error) {
	state := &RunState{}
	maxDiscards := degenerateMeasurementFactor

	for accepted := 0; accepted < n; {
		p, err := s.entropy.Block()
		if err != nil {
			return nil, fmt.Errorf("tboxtiming: generate plaintext: %w", err)
		}

		discards := 0
		for {
			s.scrubber.Purge()

			start := s.timer.Tick()
			_, err := transport.Encrypt(p)
			end := s.timer.Tick()
			if err != nil {
				return nil, fmt.Errorf("tboxtiming: timed encryption: %w", err)
			}
			d := end - start

			// Retry with the same plaintext: P is uniformly random regardless, so this avoids
			// re-weighting the plaintext distribution towards whatever is
			// cheap for the oracle to encrypt.
			if outlierFilterOn && d > threshold {
				discards++
				if discards > maxDiscards {
					return nil, fmt.Errorf("tboxtiming: %w (discarded %d consecutive measurements above threshold %d)", ErrDegenerateMeasurement, discards, threshold)
				}
				continue
			}

			for i := 0; i < 16; i++ {
				b := p[i]
				state.Tallies[i][b].Count++
				state.Tallies[i][b].TicksSum += uint64(d)
			}
			state.TotalTicks += uint64(d)
			state.TotalRuns++
			accepted++

			if s.rawDump != nil {
				if err := s.rawDump.WriteMeasurement(p, d); err != nil {
					return nil, err
				}
			}
			break
		}
	}
	return state, nil
}

// CalibrationResult is the output of the Threshold Calibrator.
type CalibrationResult struct {
	RatePerSecond float64
	Threshold     Tick
	Key           Block
}

// Calibrate performs the Threshold Calibrator pass: R measurements with
// the outlier filter disabled, using a fresh random key, from which mean
// = total_ticks/total_runs and T = mean * thresholdMult. If cfg carries
// an explicit threshold (the CLI's optional positional argument),
// calibration is skipped entirely.
func (s *Study) Calibrate(oracle CipherOracle) (CalibrationResult, error) {
	if s.cfg.explicitT > 0 {
		return CalibrationResult{Threshold: s.cfg.explicitT}, nil
	}

	key, err := s.entropy.Block()
	if err != nil {
		return CalibrationResult{}, fmt.Errorf("tboxtiming: generate calibration key: %w", err)
	}
	if err := oracle.Expand(key); err != nil {
		return CalibrationResult{}, fmt.Errorf("tboxtiming: expand calibration key: %w", err)
	}
	glog.V(2).Infof("calibrating against key %s", key)

	transport := &LocalTransport{oracle: oracle}
	start := s.wall.Now()
	state, err := s.Measure(transport, s.cfg.calibrationRuns, 0, false)
	elapsed := s.wall.Since(start)
	if err != nil {
		return CalibrationResult{}, fmt.Errorf("tboxtiming: calibration pass: %w", err)
	}

	mean := float64(state.TotalTicks) / float64(state.TotalRuns)
	threshold := Tick(mean * s.cfg.thresholdMult)
	rate := float64(s.cfg.calibrationRuns) / elapsed.Seconds()

	glog.Infof("calibration: %d Mticks total, avg %.0f ticks, threshold %d, %.0f enc/s",
		state.TotalTicks/1_000_000, mean, threshold, rate)

	return CalibrationResult{RatePerSecond: rate, Threshold: threshold, Key: key}, nil
}

// StudyKey gathers timing data for one key study: expand key into oracle
// (or, if transport is non-nil, drive that transport instead and skip
// Expand, used when the target key is behind a remote OracleTransport the
// attacker cannot set), run the Measurement Loop until n measurements are
// accepted, and extract normalized means.
func (s *Study) StudyKey(oracle CipherOracle, transport OracleTransport, key Block, n int, threshold Tick) (*RunState, MeanVector, error) {
	if transport == nil {
		if err := oracle.Expand(key); err != nil {
			return nil, MeanVector{}, fmt.Errorf("tboxtiming: expand study key: %w", err)
		}
		transport = &LocalTransport{oracle: oracle}
	}

	state, err := s.Measure(transport, n, threshold, s.cfg.outlierFilterOn)
	if err != nil {
		return nil, MeanVector{}, err
	}

	glog.Infof("key %s: %d Mticks total, %d ticks on average", key, state.TotalTicks/1_000_000, state.TotalTicks/state.TotalRuns)

	means, err := ComputeMeans(state)
	if err != nil {
		return nil, MeanVector{}, err
	}
	return state, means, nil
}
