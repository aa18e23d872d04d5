package tboxtiming

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// WriteRateFile writes the rate file format: the calibrated measurement
// rate on the first line, the chosen outlier threshold on the second.
func WriteRateFile(path string, rate float64, threshold Tick) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: create rate file %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%f\n%d\n", rate, threshold); err != nil {
		return fmt.Errorf("%w: write rate file %q: %v", ErrIO, path, err)
	}
	return nil
}

// ReadRateFile reads a rate file previously written by WriteRateFile,
// letting a later run reuse a calibration instead of recalibrating.
func ReadRateFile(path string) (rate float64, threshold Tick, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: open rate file %q: %v", ErrIO, path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return 0, 0, fmt.Errorf("%w: rate file %q missing rate line", ErrIO, path)
	}
	rate, err = strconv.ParseFloat(sc.Text(), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: rate file %q: %v", ErrIO, path, err)
	}

	if !sc.Scan() {
		return 0, 0, fmt.Errorf("%w: rate file %q missing threshold line", ErrIO, path)
	}
	thresholdVal, err := strconv.ParseUint(sc.Text(), 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: rate file %q: %v", ErrIO, path, err)
	}
	return rate, Tick(thresholdVal), nil
}
