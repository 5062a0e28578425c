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
)

// RankHelp is the help string for this command.
const RankHelp = "rank parameters:\n" +
	"eltop rank scores-file ranks-file\n" +
	"[--tsv column]\n" +
	"[--nr-of-threads nr]\n" +
	"[--timed]\n" +
	"[--log-path path]\n" +
	"[--profile prefix]\n"

// Rank implements the eltop rank command.
func Rank() error {
	var (
		tsvColumn, nrOfThreads int
		timed                  bool
		logPath, profile       string
	)

	var flags flag.FlagSet

	flags.IntVar(&tsvColumn, "tsv", -1, "read scores from the given 0-based column of a tab-separated file")
	flags.IntVar(&nrOfThreads, "nr-of-threads", 0, "number of worker threads")
	flags.BoolVar(&timed, "timed", false, "measure the runtime")
	flags.StringVar(&logPath, "log-path", "", "write log files to the specified directory")
	flags.StringVar(&profile, "profile", "", "write a CPU profile with the given filename prefix")

	parseFlags(flags, 4, RankHelp)

	input := getFilename(os.Args[2], RankHelp)
	output := getFilename(os.Args[3], RankHelp)

	setLogOutput(logPath)

	// sanity checks

	var sanityChecksFailed bool

	if !checkExist("", input) {
		sanityChecksFailed = true
	}
	if !checkCreate("", output) {
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
		fmt.Fprint(os.Stderr, RankHelp)
		os.Exit(1)
	}

	// building output command line

	var command bytes.Buffer
	fmt.Fprint(&command, os.Args[0], " rank ", input, " ", output)
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

	var entries []rank.Entry
	timedRun(timed, profile, "Ranking scores.", 2, func() {
		entries = rank.Ranking(vector)
	})

	return rank.ToFile(entries, fullOutput)
}
