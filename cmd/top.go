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

	"github.com/alenzhao/eltop/internal"
	"github.com/alenzhao/eltop/rank"
	"github.com/alenzhao/eltop/scores"
	"github.com/alenzhao/eltop/topn"
)

// TopHelp is the help string for this command.
const TopHelp = "top parameters:\n" +
	"eltop top scores-file ranks-file --n number\n" +
	"[--tsv column]\n" +
	"[--sequential]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--log-path path]\n" +
	"[--profile prefix]\n"

// Top implements the eltop top command.
func Top() error {
	var (
		n, tsvColumn, nrOfThreads int
		sequential, timed         bool
		logPath, profile          string
	)

	var flags flag.FlagSet

	flags.IntVar(&n, "n", 0, "number of top-scoring elements to select")
	flags.IntVar(&tsvColumn, "tsv", -1, "read scores from the given 0-based column of a tab-separated file")
	flags.BoolVar(&sequential, "sequential", false, "run the single-threaded selector")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	flags.StringVar(&profile, "profile", "", "write a CPU profile with the given filename prefix")

	parseFlags(flags, 4, TopHelp)

	input := getFilename(os.Args[2], TopHelp)
	output := getFilename(os.Args[3], TopHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	}
	if !checkCreate("", output) {
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
		fmt.Fprint(os.Stderr, TopHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " top ", input, " ", output, " --n ", n)
	if tsvColumn >= 0 {
		fmt.Fprint(&command, " --tsv ", tsvColumn)
	}
	if sequential {
		fmt.Fprint(&command, " --sequential")
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

	fullOutput, err := internal.FullPathname(output)
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

	var indices []int
	timedRun(timed, profile, "Selecting top-scoring elements.", 2, func() {
		if sequential {
			indices, err = topn.Select(vector, n)
		} else {
			indices, err = topn.ParallelSelect(vector, n)
		}
	})
	if err != nil {
		return err
	}

	return rank.ToFile(rank.FromIndices(vector, indices), fullOutput)
}
