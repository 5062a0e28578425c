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

// Package rank orders complete score vectors and pairs selections
// with their scores.
package rank

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	psort "github.com/exascience/pargo/sort"

	"github.com/alenzhao/eltop/topn"
)

// Entry pairs a score with its 0-based index in the score vector it
// was taken from.
type Entry struct {
	Index int
	Score float64
}

// SortByScore sorts a slice of Entry by ascending score. Entries with
// equal scores keep their relative order.
func SortByScore(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score < entries[j].Score
	})
}

type stableEntrySorter []Entry

func (s stableEntrySorter) SequentialSort(i, j int) {
	SortByScore(s[i:j])
}

func (s stableEntrySorter) NewTemp() psort.StableSorter {
	return stableEntrySorter(make([]Entry, len(s)))
}

func (s stableEntrySorter) Len() int {
	return len(s)
}

func (s stableEntrySorter) Less(i, j int) bool {
	return s[i].Score < s[j].Score
}

func (s stableEntrySorter) Assign(source psort.StableSorter) func(i, j, len int) {
	dst, src := s, source.(stableEntrySorter)
	return func(i, j, len int) {
		copy(dst[i:i+len], src[j:j+len])
	}
}

// Ranking returns all entries of the score vector ordered by ascending
// score, ties by ascending index, using a parallel stable sort.
func Ranking(scores []float64) []Entry {
	entries := make([]Entry, len(scores))
	for index, score := range scores {
		entries[index] = Entry{Index: index, Score: score}
	}
	psort.StableSort(stableEntrySorter(entries))
	return entries
}

// Top returns the entries of the n largest elements of the score
// vector, ordered by ascending score, ties by ascending index.
func Top(scores []float64, n int) ([]Entry, error) {
	indices, err := topn.ParallelSelect(scores, n)
	if err != nil {
		return nil, err
	}
	return FromIndices(scores, indices), nil
}

// FromIndices pairs selected indices with their scores.
func FromIndices(scores []float64, indices []int) []Entry {
	entries := make([]Entry, len(indices))
	for i, index := range indices {
		entries[i] = Entry{Index: index, Score: scores[index]}
	}
	return entries
}

// ElranksHeader is the header line that every .elranks file starts with.
const ElranksHeader = "# elranks format version 1.0\n"

// ToFile stores entries in an .elranks file, one index/score pair per
// line after the header.
func ToFile(entries []Entry, filename string) (err error) {
	pathname, err := filepath.Abs(filename)
	if err != nil {
		return err
	}
	output, err := os.Create(pathname)
	if err != nil {
		return err
	}
	defer func() {
		if nerr := output.Close(); nerr != nil {
			if err == nil {
				err = nerr
			}
		}
	}()
	if _, err = output.WriteString(ElranksHeader); err != nil {
		return err
	}
	var buf []byte
	for _, entry := range entries {
		buf = strconv.AppendInt(buf, int64(entry.Index), 10)
		buf = append(buf, '\t')
		buf = strconv.AppendFloat(buf, entry.Score, 'g', -1, 64)
		buf = append(buf, '\n')
		if len(buf) >= 0x10000 {
			if _, err := output.Write(buf); err != nil {
				return err
			}
			buf = buf[:0]
		}
	}
	_, err = output.Write(buf)
	return err
}
