// tboxbrute runs the Brute-Force Engine standalone against a previously
// written candidate-pool file and target key, without re-running any
// measurement.
package main

import (
	"flag"

	"github.com/golang/glog"

	tbox "github.com/sidechannel-lab/tboxtiming"
)

var (
	bfDatFile     = flag.String("bfdat", "bf.dat", "path to the candidate-pool file written by tboxattack or tboxpool")
	targetKeyFile = flag.String("targetkey", "target.key", "path to the 16-byte target key file")
)

func init() {
	flag.Parse()
}

func main() {
	defer glog.Flush()

	pools, err := tbox.ReadBFDat(*bfDatFile)
	if err != nil {
		glog.Fatalf("read bf.dat: %v", err)
	}

	targetKey, err := tbox.ReadTargetKeyFile(*targetKeyFile)
	if err != nil {
		glog.Fatalf("read target key: %v", err)
	}

	oracle := tbox.NewAESOracle()
	reference, err := tbox.ReferenceCiphertext(oracle, targetKey)
	if err != nil {
		glog.Fatalf("reference ciphertext: %v", err)
	}

	result, err := tbox.BruteForce(tbox.NewAESOracle(), pools, reference)
	if err != nil {
		glog.Fatalf("brute force: %v", err)
	}
	glog.Infof("recovered key %s in %d of %d candidates", result.Key, result.Attempts, result.SpaceSize)
}
