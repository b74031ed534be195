// Copyright (c) 2015, Arbo von Monkiewitsch All rights reserved.
// Use of this source code is governed by a BSD-style
// license.

// Package levenshtein computes edit distances and normalized similarity
// between code blocks.
package levenshtein

// myersMaxRunes is the longest pattern the single-word bit-vector path handles.
const myersMaxRunes = 64

// Context holds scratch buffers reused across Distance calls. A Context is
// not safe for concurrent use; give each goroutine its own.
type Context struct {
	column []int
	peq    [256]uint64
}

func (ctx *Context) scratch(length int) []int {
	if cap(ctx.column) < length {
		ctx.column = make([]int, length)
	}

	return ctx.column[:length]
}

// Distance returns the minimum number of single-rune insertions, deletions
// or substitutions that turn a into b.
func (ctx *Context) Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)

	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	switch {
	case len(ra) == 0:
		return len(rb)
	case len(ra) <= myersMaxRunes:
		return ctx.distanceMyers64(ra, rb)
	default:
		return ctx.distanceDP(ra, rb)
	}
}

// Similarity returns (longer - distance) / longer, where longer is the rune
// length of the longer input. Two empty inputs are identical.
func (ctx *Context) Similarity(a, b string) float64 {
	longer := max(len([]rune(a)), len([]rune(b)))
	if longer == 0 {
		return 1.0
	}

	return float64(longer-ctx.Distance(a, b)) / float64(longer)
}

// distanceDP is the classic two-row dynamic program collapsed into a single
// column of len(s1)+1 cells.
func (ctx *Context) distanceDP(s1, s2 []rune) int {
	column := ctx.scratch(len(s1) + 1)
	for i := range column {
		column[i] = i
	}

	for j, r2 := range s2 {
		diag := column[0]
		column[0] = j + 1

		for i, r1 := range s1 {
			above := column[i+1]

			cost := 1
			if r1 == r2 {
				cost = 0
			}

			column[i+1] = min(above+1, column[i]+1, diag+cost)
			diag = above
		}
	}

	return column[len(s1)]
}
