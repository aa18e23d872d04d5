// tboxpool builds a bf.dat candidate-pool file from a correlation dump,
// letting the pool size be tuned without re-running the measurement and
// correlation stages.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	tbox "github.com/sidechannel-lab/tboxtiming"
)

var (
	corrDumpFile = flag.String("corrdump", "corr.txt", "path to the correlation dump written by tboxattack")
	bfDatFile    = flag.String("bfdat", "bf.dat", "path to write the resulting candidate-pool file")
	poolSize     = flag.Int("poolsize", 4, "number of candidates to keep per position")
)

func init() {
	flag.Parse()
}

// readCorrelationDump parses the "%2d %02x %f\n" lines WriteCorrelationDump
// produces back into a CorrelationMatrix. Lines need not be sorted or
// complete; any position/byte pair not present keeps a zero coefficient.
func readCorrelationDump(path string) (tbox.CorrelationMatrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return tbox.CorrelationMatrix{}, fmt.Errorf("open correlation dump %q: %w", path, err)
	}
	defer f.Close()

	var corr tbox.CorrelationMatrix
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var pos int
		var candidate uint
		var value float64
		if _, err := fmt.Sscanf(sc.Text(), "%d %x %f", &pos, &candidate, &value); err != nil {
			return tbox.CorrelationMatrix{}, fmt.Errorf("parse correlation dump line %q: %w", sc.Text(), err)
		}
		corr[pos][candidate] = value
	}
	if err := sc.Err(); err != nil {
		return tbox.CorrelationMatrix{}, fmt.Errorf("scan correlation dump: %w", err)
	}
	return corr, nil
}

func main() {
	defer glog.Flush()

	corr, err := readCorrelationDump(*corrDumpFile)
	if err != nil {
		glog.Fatalf("read correlation dump: %v", err)
	}

	pools := tbox.TopNPools(corr, *poolSize)
	if err := tbox.WriteBFDat(*bfDatFile, pools); err != nil {
		glog.Fatalf("write bf.dat: %v", err)
	}
	glog.Infof("wrote %s with pool size %d", *bfDatFile, *poolSize)
}
