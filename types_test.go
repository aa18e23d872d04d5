package tboxtiming

import "testing"

func TestRunStateConservesAcceptsConsistentTallies(t *testing.T) {
	state := &RunState{}
	for _, p := range []Block{{0x00}, {0x01}, {0xff}} {
		for i := 0; i < 16; i++ {
			state.Tallies[i][p[i]].Count++
			state.Tallies[i][p[i]].TicksSum += 100
		}
		state.TotalRuns++
		state.TotalTicks += 100
	}
	if err := state.Conserves(); err != nil {
		t.Fatalf("Conserves: %v", err)
	}
}

func TestRunStateConservesRejectsMismatchedCount(t *testing.T) {
	state := &RunState{TotalRuns: 5, TotalTicks: 500}
	state.Tallies[0][0x00] = Tally{Count: 3, TicksSum: 500}
	if err := state.Conserves(); err == nil {
		t.Fatal("expected Conserves to reject a short tally count, got nil")
	}
}

func TestPoolValidate(t *testing.T) {
	tests := []struct {
		name    string
		pool    Pool
		wantErr bool
	}{
		{"empty", Pool{}, true},
		{"single", Pool{0x01}, false},
		{"duplicate", Pool{0x01, 0x01}, true},
		{"distinct", Pool{0x01, 0x02, 0x03}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pool.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBlockString(t *testing.T) {
	var b Block
	b[0] = 0xde
	b[1] = 0xad
	want := "dead0000000000000000000000000000"
	if got := b.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
