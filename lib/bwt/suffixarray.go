// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bwt

// SuffixArray returns the suffix array of seq with the sentinel
// conceptually appended: len(seq)+1 entries, where entry r is the start
// offset of the r-th smallest suffix. The sentinel suffix (offset
// len(seq)) always sorts first.
//
// Construction is prefix doubling: after round k every suffix is ranked
// by its first 2^k symbols, and each round re-sorts by the pair
// (rank[i], rank[i+2^k]) with two stable counting-sort passes. Rounds
// stop as soon as all ranks are distinct, which for genomic data is
// usually far fewer than log2(n) rounds.
//
// seq must not exceed [MaxLength] symbols.
func SuffixArray(seq []byte) []int32 {
	size := len(seq) + 1

	rank := make([]int32, size)
	suffixes := make([]int32, size)
	scratch := make([]int32, size)

	// Initial ranks: sentinel is 0, symbol b is b+1.
	for i, symbol := range seq {
		rank[i] = int32(symbol) + 1
	}
	rank[size-1] = 0

	// Round 0: counting sort by first symbol.
	bucketCount := 257
	if size > bucketCount {
		bucketCount = size
	}
	counts := make([]int32, bucketCount)
	for _, r := range rank {
		counts[r]++
	}
	var sum int32
	for i, c := range counts {
		counts[i] = sum
		sum += c
	}
	for i := 0; i < size; i++ {
		suffixes[counts[rank[i]]] = int32(i)
		counts[rank[i]]++
	}

	// Densify ranks so later rounds bucket into [0, size).
	maxRank := denseRanks(suffixes, scratch, func(a, b int32) bool {
		return rank[a] != rank[b]
	})
	rank, scratch = scratch, rank

	for step := 1; int(maxRank) < size-1; step <<= 1 {
		// Order by second key: suffixes whose second half runs past
		// the end (key -1) come first in offset order, then every
		// other suffix in the order of its second half.
		order := scratch
		position := 0
		for i := size - step; i < size; i++ {
			order[position] = int32(i)
			position++
		}
		for _, offset := range suffixes {
			if int(offset) >= step {
				order[position] = offset - int32(step)
				position++
			}
		}

		// Stable counting sort by first key.
		for i := range counts[:maxRank+1] {
			counts[i] = 0
		}
		for _, r := range rank {
			counts[r]++
		}
		sum = 0
		for i := int32(0); i <= maxRank; i++ {
			c := counts[i]
			counts[i] = sum
			sum += c
		}
		for _, offset := range order {
			r := rank[offset]
			suffixes[counts[r]] = offset
			counts[r]++
		}

		secondKey := func(offset int32) int32 {
			if int(offset)+step < size {
				return rank[int(offset)+step]
			}
			return -1
		}
		maxRank = denseRanks(suffixes, scratch, func(a, b int32) bool {
			return rank[a] != rank[b] || secondKey(a) != secondKey(b)
		})
		rank, scratch = scratch, rank
	}

	return suffixes
}

// denseRanks writes consecutive ranks into next for the sorted
// suffixes, starting a new rank whenever differs reports that adjacent
// suffixes are distinguishable. Returns the largest rank assigned.
func denseRanks(suffixes, next []int32, differs func(a, b int32) bool) int32 {
	var r int32
	next[suffixes[0]] = 0
	for i := 1; i < len(suffixes); i++ {
		if differs(suffixes[i-1], suffixes[i]) {
			r++
		}
		next[suffixes[i]] = r
	}
	return r
}
