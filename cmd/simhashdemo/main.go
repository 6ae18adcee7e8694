// Command simhashdemo is a small example driver for the simhash package,
// mirroring original_source/example/example.cpp: it builds one fingerprint
// per input line (splitting each line into words, weighting every word
// equally) and reports whether a query line has a near-duplicate already in
// the table.
//
// This binary is explicitly outside the spec'd core (spec.md §1 names "CLI
// and example driver" as an out-of-scope external collaborator); it exists
// to exercise the public API end to end, the way a teacher repo always
// ships a cmd/ alongside its library packages.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/zhongpingliang/simhash"
	"github.com/zhongpingliang/simhash/fingerprint"
	"github.com/zhongpingliang/simhash/internal/tokenize"
)

func main() {
	inPath := pflag.String("in-path", "", "file of sentences to index, one per line (default: stdin)")
	query := pflag.String("query", "", "a sentence to check for near-duplicates in the indexed set")
	maxHamDist := pflag.Int("max-ham-dist", fingerprint.DefaultMaxHamDist, "maximum Hamming distance for near-duplicate matches")
	level := pflag.Int("level", 1, "index recursion depth (0, 1, or 2 is typical)")
	pflag.Parse()

	table, err := simhash.New(simhash.Config{MaxHamDist: *maxHamDist, Level: *level})
	if err != nil {
		fmt.Fprintln(os.Stderr, "simhashdemo:", err)
		os.Exit(1)
	}

	in := os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "simhashdemo:", err)
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		table.Insert(fingerprintOf(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "simhashdemo:", err)
		os.Exit(1)
	}

	fmt.Printf("indexed %d fingerprints\n", table.Size())

	if *query == "" {
		return
	}
	h := fingerprintOf(*query)
	if table.Contains(h) {
		fmt.Println("exact match already present")
		return
	}
	dups := table.FindNearDups(h)
	if len(dups) == 0 {
		fmt.Println("no near duplicate in table")
		return
	}
	fmt.Printf("%d near duplicate(s) found\n", len(dups))
}

func fingerprintOf(line string) fingerprint.Fingerprint {
	words := tokenize.Split(line, "")
	features := make([]fingerprint.StringFeature, len(words))
	for i, w := range words {
		features[i] = fingerprint.StringFeature{Key: w, Weight: 1.0}
	}
	return simhash.BuildFromStrings(features)
}
