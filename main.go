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

// eltop selects the indices of the N largest elements of large score
// vectors without fully sorting them, using a bounded priority queue.
//
// Please see https://github.com/alenzhao/eltop for a documentation of
// the tool.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alenzhao/eltop/cmd"
)

func printHelp() {
	fmt.Fprintln(os.Stderr, "Available commands: top, rank, verify")
	fmt.Fprint(os.Stderr, "\n", cmd.TopHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.RankHelp)
	fmt.Fprint(os.Stderr, "\n", cmd.VerifyHelp)
}

func main() {
	fmt.Fprintln(os.Stderr, cmd.ProgramMessage)
	if len(os.Args) < 2 {
		log.Println("Incorrect number of parameters.")
		fmt.Fprint(os.Stderr, cmd.HelpMessage, "\n")
		printHelp()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "top":
		err = cmd.Top()
	case "rank":
		err = cmd.Rank()
	case "verify":
		err = cmd.Verify()
	case "help", "-help", "--help", "-h", "--h":
		printHelp()
	default:
		log.Println("Unknown command: ", os.Args[1])
		fmt.Fprint(os.Stderr, cmd.HelpMessage, "\n")
		printHelp()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal(err)
	}
}
