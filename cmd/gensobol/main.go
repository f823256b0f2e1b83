package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
)

func main() {
	var (
		n          = flag.Int("n", 10000, "Number of samples to generate")
		skip       = flag.Int("skip", 1, "Number of leading sequence points to skip")
		outputPath = flag.String("output", "", "Output file path (default: ./data/sobol.csv)")
	)
	flag.Parse()

	if *n <= 0 {
		log.Fatal("-n must be positive")
	}
	if *outputPath == "" {
		*outputPath = filepath.Join("data", "sobol.csv")
	}

	fmt.Printf("Generating %d low-discrepancy uniform samples\n", *n)

	samples := vanDerCorput(*n, *skip)

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}
	if err := writeSamples(*outputPath, samples); err != nil {
		log.Fatalf("Failed to write samples: %v", err)
	}

	fmt.Printf("Saved %d samples to %s\n", len(samples), *outputPath)
}

// vanDerCorput generates the base-2 van der Corput sequence, the
// one-dimensional Sobol sequence. Index 0 maps to 0, so skip defaults
// to 1 to keep samples strictly inside (0, 1).
func vanDerCorput(n, skip int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = bitReverse(uint64(i + skip))
	}
	return out
}

func bitReverse(k uint64) float64 {
	var v float64
	denom := 2.0
	for k > 0 {
		if k&1 == 1 {
			v += 1 / denom
		}
		denom *= 2
		k >>= 1
		if math.IsInf(denom, 1) {
			break
		}
	}
	return v
}

func writeSamples(path string, samples []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"uniform"}); err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.Write([]string{strconv.FormatFloat(s, 'f', 12, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
