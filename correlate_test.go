package tboxtiming

import (
	"math"
	"testing"
)

func TestCorrelateSelfCorrelationIsOne(t *testing.T) {
	var mean MeanVector
	for i := 0; i < 16; i++ {
		for b := 0; b < 256; b++ {
			mean[i][b] = 1.0 + 0.01*float64(b)
		}
	}
	var testKey Block

	corr, err := Correlate(mean, mean, testKey)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	for i := 0; i < 16; i++ {
		if got := corr[i][0]; math.Abs(got-1.0) > 1e-9 {
			t.Errorf("corr[%d][0] = %f, want ~1.0 (self correlation under the true key)", i, got)
		}
	}
}

func TestCorrelateCoefficientsStayInRange(t *testing.T) {
	var target, test MeanVector
	for i := 0; i < 16; i++ {
		for b := 0; b < 256; b++ {
			target[i][b] = 1.0 + 0.01*float64(b%7)
			test[i][b] = 1.0 + 0.01*float64((b+3)%11)
		}
	}
	var testKey Block

	corr, err := Correlate(target, test, testKey)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	for i := 0; i < 16; i++ {
		for k := 0; k < 256; k++ {
			v := corr[i][k]
			if v < -1.0-1e-9 || v > 1.0+1e-9 {
				t.Fatalf("corr[%d][%d] = %f, outside [-1, 1]", i, k, v)
			}
		}
	}
}

// runLeakingStudy measures 256 encryptions under key through inner, with a
// tick derived from leakFnForPosition(pos, key), and returns the resulting
// normalized means.
func runLeakingStudy(t *testing.T, inner CipherOracle, pos int, key Block) MeanVector {
	t.Helper()
	if err := inner.Expand(key); err != nil {
		t.Fatalf("expand key: %v", err)
	}
	rec := newRecordingOracle(inner)
	timer := newLeakingTimer(rec, leakFnForPosition(pos, key))
	study := NewStudy(&allBytesEntropy{}, timer, nil, nil, NewStudyConfig(WithOutlierFilter(false)))
	transport := &LocalTransport{oracle: rec}

	state, err := study.Measure(transport, 256, 0, false)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	means, err := ComputeMeans(state)
	if err != nil {
		t.Fatalf("compute means: %v", err)
	}
	return means
}

func assertCorrelationPeaksAtTrueKeyByte(t *testing.T, corr CorrelationMatrix, pos int, trueByte byte) {
	t.Helper()
	peak := corr[pos][trueByte]
	if peak < 0.99 {
		t.Fatalf("corr[%d][0x%02x] = %f, want the true key byte's correlation near 1.0", pos, trueByte, peak)
	}
	for k := 0; k < 256; k++ {
		if byte(k) == trueByte {
			continue
		}
		if corr[pos][k] >= peak {
			t.Fatalf("corr[%d][0x%02x] = %f >= corr[%d][0x%02x] = %f, want the true key byte to dominate every other hypothesis",
				pos, k, corr[pos][k], pos, trueByte, peak)
		}
	}
}

func TestCorrelateRecoversTrueKeyByteFromLeakingTiming(t *testing.T) {
	const pos = 5
	targetKey := Block{5: 0x3c}
	testKey := Block{5: 0xa1}

	targetMeans := runLeakingStudy(t, &constantTickOracle{}, pos, targetKey)
	testMeans := runLeakingStudy(t, &constantTickOracle{}, pos, testKey)

	corr, err := Correlate(targetMeans, testMeans, testKey)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	assertCorrelationPeaksAtTrueKeyByte(t, corr, pos, targetKey[pos])
}

func TestCorrelateRecoversTrueKeyByteFromFirstByteLeak(t *testing.T) {
	const pos = 0
	targetKey := Block{0x3c}
	testKey := Block{0xa1}

	targetMeans := runLeakingStudy(t, &firstByteLeakOracle{}, pos, targetKey)
	testMeans := runLeakingStudy(t, &firstByteLeakOracle{}, pos, testKey)

	corr, err := Correlate(targetMeans, testMeans, testKey)
	if err != nil {
		t.Fatalf("Correlate: %v", err)
	}
	assertCorrelationPeaksAtTrueKeyByte(t, corr, pos, targetKey[pos])
}

func TestRealignIsAnInvolutionUnderTheSameKeyByte(t *testing.T) {
	var row [256]float64
	for b := 0; b < 256; b++ {
		row[b] = float64(b)
	}
	const keyByte = 0x37
	realigned := realign(row, keyByte)
	back := realign([256]float64(realigned), keyByte)
	for b := 0; b < 256; b++ {
		if back[b] != row[b] {
			t.Fatalf("realign(realign(row, k), k)[%d] = %f, want %f", b, back[b], row[b])
		}
	}
}
