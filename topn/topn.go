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

// Package topn selects the indices of the n largest elements of a
// score vector without sorting the whole vector.
//
// All indices are 0-based. Results are ordered by ascending score;
// elements with equal scores are ordered by ascending index. When a
// group of equal scores straddles the selection boundary, the
// earliest-indexed elements of the group are selected.
package topn

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	"github.com/exascience/pargo/parallel"
)

// ErrInvalidArgument is returned when a selection count is negative or
// exceeds the length of the score vector.
var ErrInvalidArgument = errors.New("invalid argument")

type entry struct {
	score float64
	index int
}

// minHeap orders entries by ascending score. Among equal scores the
// later index sorts first, so the root is always the entry that loses
// a tie at the selection boundary.
type minHeap []entry

func (h minHeap) Len() int {
	return len(h)
}

func (h minHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score < h[j].score
	}
	return h[i].index > h[j].index
}

func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *minHeap) Push(x interface{}) {
	*h = append(*h, x.(entry))
}

func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// A collector maintains the current top-n selection as a min-oriented
// heap bounded to at most n entries.
type collector struct {
	n int
	h minHeap
}

func newCollector(n int) *collector {
	return &collector{n: n, h: make(minHeap, 0, n)}
}

// offer considers an entry for the selection. While the heap is below
// capacity, the entry is inserted unconditionally. At capacity, the
// entry replaces the root if it ranks higher by score, or by index for
// equal scores; otherwise it is discarded. For entries offered in
// index order this reduces to: a candidate evicts the minimum only
// when its score is strictly greater.
func (c *collector) offer(e entry) {
	if c.n == 0 {
		return
	}
	if len(c.h) < c.n {
		heap.Push(&c.h, e)
		return
	}
	root := c.h[0]
	if e.score > root.score || (e.score == root.score && e.index < root.index) {
		c.h[0] = e
		heap.Fix(&c.h, 0)
	}
}

// drain empties the heap by repeated extraction of the minimum and
// returns the selected indices ordered by ascending score, ties by
// ascending index. The collector cannot be reused afterwards.
func (c *collector) drain() []int {
	result := make([]int, len(c.h))
	drained := make([]float64, len(c.h))
	for i := range result {
		e := heap.Pop(&c.h).(entry)
		result[i] = e.index
		drained[i] = e.score
	}
	// Equal-score runs come out of the heap in descending index order.
	for i := 0; i < len(result); {
		j := i + 1
		for j < len(result) && drained[j] == drained[i] {
			j++
		}
		for l, r := i, j-1; l < r; l, r = l+1, r-1 {
			result[l], result[r] = result[r], result[l]
		}
		i = j
	}
	return result
}

func checkSelection(scores []float64, n int) error {
	if n < 0 || n > len(scores) {
		return fmt.Errorf("%w: selection count %v outside range 0..%v", ErrInvalidArgument, n, len(scores))
	}
	return nil
}

// Select returns the indices of the n largest elements of scores,
// ordered by ascending score, ties by ascending index.
// It runs in O(M log n) time and O(n) additional space, where M is
// the length of scores.
// Select returns ErrInvalidArgument when n is negative or larger than
// the length of scores.
func Select(scores []float64, n int) ([]int, error) {
	if err := checkSelection(scores, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []int{}, nil
	}
	c := newCollector(n)
	for index, score := range scores {
		c.offer(entry{score: score, index: index})
	}
	return c.drain(), nil
}

const parallelSelectGrainSize = 0x2000

// ParallelSelect returns the same result as Select, using a parallel
// divide-and-conquer over the score vector. Each chunk is reduced to a
// bounded selection, and selections are merged pairwise.
func ParallelSelect(scores []float64, n int) ([]int, error) {
	if err := checkSelection(scores, n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []int{}, nil
	}
	if len(scores) < parallelSelectGrainSize {
		return Select(scores, n)
	}
	result := parallel.RangeReduce(0, len(scores), 0, func(low, high int) interface{} {
		c := newCollector(n)
		for index := low; index < high; index++ {
			c.offer(entry{score: scores[index], index: index})
		}
		return c
	}, func(left, right interface{}) interface{} {
		l := left.(*collector)
		r := right.(*collector)
		if len(r.h) > len(l.h) {
			l, r = r, l
		}
		for _, e := range r.h {
			l.offer(e)
		}
		return l
	})
	return result.(*collector).drain(), nil
}

// SortSelect is the full-sort reference implementation of Select. It
// orders a complete index permutation, so it runs in O(M log M) time
// and O(M) space. It exists as the baseline that Select and
// ParallelSelect are validated and benchmarked against; use Select for
// actual selections.
func SortSelect(scores []float64, n int) ([]int, error) {
	if err := checkSelection(scores, n); err != nil {
		return nil, err
	}
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, func(i, j int) bool {
		if scores[indices[i]] != scores[indices[j]] {
			return scores[indices[i]] > scores[indices[j]]
		}
		return indices[i] < indices[j]
	})
	result := indices[:n]
	sort.Slice(result, func(i, j int) bool {
		if scores[result[i]] != scores[result[j]] {
			return scores[result[i]] < scores[result[j]]
		}
		return result[i] < result[j]
	})
	return result, nil
}
