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

package topn

import (
	"errors"
	"math/rand"
	"sort"
	"testing"
)

func indicesEqual(indices1, indices2 []int) bool {
	if len(indices1) != len(indices2) {
		return false
	}
	for i, index1 := range indices1 {
		if index1 != indices2[i] {
			return false
		}
	}
	return true
}

// makeLargeScoresSlice produces a large vector with many duplicate
// scores, so that ties regularly straddle the selection boundary.
func makeLargeScoresSlice() (result []float64) {
	result = make([]float64, 0x30000)
	for i := range result {
		result[i] = float64(rand.Intn(1000))
	}
	return result
}

// stableSortTail is the "tail of a full ascending stable sort"
// selection that the original comparison harness used as its baseline.
func stableSortTail(scores []float64, n int) []int {
	indices := make([]int, len(scores))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(i, j int) bool {
		return scores[indices[i]] < scores[indices[j]]
	})
	return indices[len(indices)-n:]
}

// boundaryTie reports whether a group of equal scores straddles the
// selection boundary for the given n.
func boundaryTie(scores []float64, n int) bool {
	if n == 0 || n == len(scores) {
		return false
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)
	return sorted[len(sorted)-n] == sorted[len(sorted)-n-1]
}

func TestSelect(t *testing.T) {
	if result, err := Select(nil, 0); err != nil || !indicesEqual(result, []int{}) {
		t.Error("empty Select failed")
	}
	if result, err := Select([]float64{7}, 1); err != nil || !indicesEqual(result, []int{0}) {
		t.Error("Select 1 failed")
	}
	if result, err := Select([]float64{3, 1, 4, 1, 5}, 2); err != nil || !indicesEqual(result, []int{2, 4}) {
		t.Error("Select 2 failed")
	}
	if result, err := Select([]float64{3, 1, 4, 1, 5}, 3); err != nil || !indicesEqual(result, []int{0, 2, 4}) {
		t.Error("Select 3 failed")
	}
	if result, err := Select([]float64{-2, -9, -1, -5}, 2); err != nil || !indicesEqual(result, []int{0, 2}) {
		t.Error("Select 4 failed")
	}
	if result, err := Select([]float64{2, 2, 2, 2}, 4); err != nil || !indicesEqual(result, []int{0, 1, 2, 3}) {
		t.Error("Select 5 failed")
	}
}

func TestSelectTieBreak(t *testing.T) {
	// Both fives qualify; equal scores must come out in ascending
	// index order.
	if result, err := Select([]float64{5, 3, 5, 1}, 2); err != nil || !indicesEqual(result, []int{0, 2}) {
		t.Error("Select tie-break 1 failed")
	}
	// Only two of the three fives fit; the earliest indices win.
	if result, err := Select([]float64{5, 5, 5}, 2); err != nil || !indicesEqual(result, []int{0, 1}) {
		t.Error("Select tie-break 2 failed")
	}
	// A strictly greater late arrival evicts the latest-indexed five.
	if result, err := Select([]float64{5, 5, 6}, 2); err != nil || !indicesEqual(result, []int{0, 2}) {
		t.Error("Select tie-break 3 failed")
	}
	if result, err := Select([]float64{6, 5, 5}, 2); err != nil || !indicesEqual(result, []int{1, 0}) {
		t.Error("Select tie-break 4 failed")
	}
}

func TestSelectBoundary(t *testing.T) {
	scores := []float64{4, 2, 8, 6}
	result, err := Select(scores, 0)
	if err != nil || len(result) != 0 {
		t.Error("Select with n == 0 failed")
	}
	result, err = Select(scores, len(scores))
	if err != nil || !indicesEqual(result, []int{1, 0, 3, 2}) {
		t.Error("Select with n == len(scores) failed")
	}
	seen := make([]bool, len(scores))
	for _, index := range result {
		if seen[index] {
			t.Error("Select with n == len(scores) returned a duplicate index")
		}
		seen[index] = true
	}
}

func TestSelectInvalidArgument(t *testing.T) {
	for _, n := range []int{-1, 4} {
		result, err := Select([]float64{1, 2, 3}, n)
		if result != nil {
			t.Error("invalid Select produced a result for n ==", n)
		}
		if !errors.Is(err, ErrInvalidArgument) {
			t.Error("invalid Select did not report ErrInvalidArgument for n ==", n)
		}
	}
	if _, err := ParallelSelect([]float64{1, 2, 3}, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Error("invalid ParallelSelect did not report ErrInvalidArgument")
	}
	if _, err := SortSelect([]float64{1, 2, 3}, 4); !errors.Is(err, ErrInvalidArgument) {
		t.Error("invalid SortSelect did not report ErrInvalidArgument")
	}
}

func TestSelectSizeLaw(t *testing.T) {
	scores := makeLargeScoresSlice()[:100]
	for n := 0; n <= len(scores); n++ {
		result, err := Select(scores, n)
		if err != nil || len(result) != n {
			t.Error("Select size law failed for n ==", n)
		}
	}
}

func TestSelectOrdering(t *testing.T) {
	scores := makeLargeScoresSlice()
	result, err := Select(scores, 1000)
	if err != nil {
		t.Error("Select ordering setup failed")
	}
	for i := 1; i < len(result); i++ {
		if scores[result[i]] < scores[result[i-1]] {
			t.Error("Select ordering failed")
		}
		if scores[result[i]] == scores[result[i-1]] && result[i] < result[i-1] {
			t.Error("Select tie ordering failed")
		}
	}
}

func TestSelectAgainstSortSelect(t *testing.T) {
	scores := makeLargeScoresSlice()[:2000]
	for _, n := range []int{0, 1, 2, 10, 999, 1000, 1999, 2000} {
		heapResult, err := Select(scores, n)
		if err != nil {
			t.Error("Select failed for n ==", n)
		}
		sortResult, err := SortSelect(scores, n)
		if err != nil {
			t.Error("SortSelect failed for n ==", n)
		}
		if !indicesEqual(heapResult, sortResult) {
			t.Error("Select and SortSelect disagree for n ==", n)
		}
	}
}

func TestSelectAgainstStableSortTail(t *testing.T) {
	scores := makeLargeScoresSlice()[:2000]
	for _, n := range []int{1, 2, 10, 999, 1000, 1999, 2000} {
		result, err := Select(scores, n)
		if err != nil {
			t.Error("Select failed for n ==", n)
		}
		tail := stableSortTail(scores, n)
		for i := range result {
			if scores[result[i]] != scores[tail[i]] {
				t.Error("Select disagrees with the stable sort tail on the score at rank", i, "for n ==", n)
			}
		}
		if !boundaryTie(scores, n) {
			heapSet := append([]int(nil), result...)
			tailSet := append([]int(nil), tail...)
			sort.Ints(heapSet)
			sort.Ints(tailSet)
			if !indicesEqual(heapSet, tailSet) {
				t.Error("Select disagrees with the stable sort tail on the index set for n ==", n)
			}
		}
	}
}

func TestParallelSelect(t *testing.T) {
	if result, err := ParallelSelect([]float64{5, 3, 5, 1}, 2); err != nil || !indicesEqual(result, []int{0, 2}) {
		t.Error("small ParallelSelect failed")
	}
	scores := makeLargeScoresSlice()
	for _, n := range []int{0, 1, 17, 1000, 0x10000, len(scores)} {
		parallelResult, err := ParallelSelect(scores, n)
		if err != nil {
			t.Error("ParallelSelect failed for n ==", n)
		}
		sequentialResult, err := Select(scores, n)
		if err != nil {
			t.Error("Select failed for n ==", n)
		}
		if !indicesEqual(parallelResult, sequentialResult) {
			t.Error("ParallelSelect and Select disagree for n ==", n)
		}
	}
}

func TestSelectUnderPermutation(t *testing.T) {
	scores := makeLargeScoresSlice()[:5000]
	const n = 500
	result, err := Select(scores, n)
	if err != nil {
		t.Error("Select failed before permutation")
	}
	selected := make([]float64, n)
	for i, index := range result {
		selected[i] = scores[index]
	}
	shuffled := append([]float64(nil), scores...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	result, err = Select(shuffled, n)
	if err != nil {
		t.Error("Select failed after permutation")
	}
	for i, index := range result {
		if shuffled[index] != selected[i] {
			t.Error("Select scores changed under permutation at rank", i)
		}
	}
}

func BenchmarkSelect(b *testing.B) {
	scores := makeLargeScoresSlice()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Select(scores, 100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParallelSelect(b *testing.B) {
	scores := makeLargeScoresSlice()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ParallelSelect(scores, 100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSortSelect(b *testing.B) {
	scores := makeLargeScoresSlice()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SortSelect(scores, 100); err != nil {
			b.Fatal(err)
		}
	}
}
