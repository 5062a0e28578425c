// eltop: a high-performance tool for selecting the top-scoring
// elements of large score vectors.
// Copyright (c) 2016-2021 the eltop authors.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License along with this program. If not, see
// <https://github.com/alenzhao/eltop/blob/master/LICENSE.txt>.

package cmd

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/bits-and-blooms/bitset"

	"github.com/alenzhao/eltop/internal"
	"github.com/alenzhao/eltop/scores"
	"github.com/alenzhao/eltop/topn"
)

// VerifyHelp is the help string for this command.
const VerifyHelp = "verify parameters:\n" +
	"eltop verify scores-file --n number\n" +
	"[--tsv column]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--log-path path]\n" +
	"[--profile prefix]\n"

// Verify implements the eltop verify command. It runs the bounded-heap
// selector, its parallel variant, and the full-sort baseline on the
// same input, and reports whether they agree index for index.
func Verify() error {
	var (
		n, tsvColumn, nrOfThreads int
		timed                     bool
		logPath, profile          string
	)

	var flags flag.FlagSet

	flags.IntVar(&n, "n", 0, "number of top-scoring elements to select")
	flags.IntVar(&tsvColumn, "tsv", -1, "read scores from the given 0-based column of a tab-separated file")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtimes")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	flags.StringVar(&profile, "profile", "", "write a CPU profile with the given filename prefix")

	parseFlags(flags, 3, VerifyHelp)

	input := getFilename(os.Args[2], VerifyHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	}
	if n < 0 {
		log.Println("Error: Invalid --n: ", n)
		sanityChecksFailed = true
	}
	if nrOfThreads < 0 {
		log.Println("Error: Invalid nr-of-threads: ", nrOfThreads)
		sanityChecksFailed = true
	}
	if tsvColumn < -1 {
		log.Println("Error: Invalid --tsv column: ", tsvColumn)
		sanityChecksFailed = true
	}

	if sanityChecksFailed {
		fmt.Fprint(os.Stderr, VerifyHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " verify ", input, " --n ", n)
	if tsvColumn >= 0 {
		fmt.Fprint(&command, " --tsv ", tsvColumn)
	}
	if nrOfThreads > 0 {
		runtime.GOMAXPROCS(nrOfThreads)
		fmt.Fprint(&command, " --nr-of-threads ", nrOfThreads)
	}
	if timed {
		fmt.Fprint(&command, " --timed")
	}
	if logPath != "" {
		fmt.Fprint(&command, " --log-path ", logPath)
	}
	if profile != "" {
		fmt.Fprint(&command, " --profile ", profile)
	}

	// executing command

	log.Println("Executing command:\n", command.String())

	fullInput, err := internal.FullPathname(input)
	if err != nil {
		return err
	}

	var vector []float64
	timedRun(timed, profile, "Loading scores.", 1, func() {
		if tsvColumn >= 0 {
			vector, err = scores.FromTSVFile(fullInput, tsvColumn)
		} else {
			vector, err = scores.FromFile(fullInput)
		}
	})
	if err != nil {
		return err
	}

	var heapIndices, parallelIndices, sortIndices []int
	timedRun(timed, profile, "Running the bounded-heap selector.", 2, func() {
		heapIndices, err = topn.Select(vector, n)
	})
	if err != nil {
		return err
	}
	timedRun(timed, profile, "Running the parallel selector.", 3, func() {
		parallelIndices, err = topn.ParallelSelect(vector, n)
	})
	if err != nil {
		return err
	}
	timedRun(timed, profile, "Running the full-sort baseline.", 4, func() {
		sortIndices, err = topn.SortSelect(vector, n)
	})
	if err != nil {
		return err
	}

	for i := range heapIndices {
		if heapIndices[i] != sortIndices[i] {
			return fmt.Errorf("bounded-heap and full-sort selections disagree at rank %v: %v vs %v", i, heapIndices[i], sortIndices[i])
		}
		if heapIndices[i] != parallelIndices[i] {
			return fmt.Errorf("sequential and parallel selections disagree at rank %v: %v vs %v", i, heapIndices[i], parallelIndices[i])
		}
	}

	if n == len(vector) {
		seen := bitset.New(uint(len(vector)))
		for _, index := range heapIndices {
			if seen.Test(uint(index)) {
				return fmt.Errorf("full-length selection contains index %v twice", index)
			}
			seen.Set(uint(index))
		}
		if seen.Count() != uint(len(vector)) {
			return fmt.Errorf("full-length selection is not a permutation: %v of %v indices present", seen.Count(), len(vector))
		}
	}

	log.Println("Selectors agree on all", n, "indices.")
	return nil
}
