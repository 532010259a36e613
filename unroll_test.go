// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestUnrollAndJamEquivalence(t *testing.T) {
	rects := []struct{ it, ib, jt, jb int }{
		{0, 0, 0, 0},   // empty
		{0, 1, 0, 5},   // single row
		{2, 9, 3, 11},  // 7 rows, one full block at h=7
		{5, 6, 1, 4},   // tail only for h > 1
		{0, 13, 0, 7},  // tail rows for most factors
		{1, 22, 4, 10}, // 21 rows: several blocks, plus tail unless h divides 21
	}

	for h := 1; h <= 7; h++ {
		for _, r := range rects {
			want := map[[2]int]int{}
			for i := r.it; i < r.ib; i++ {
				for j := r.jt; j < r.jb; j++ {
					want[[2]int{i, j}]++
				}
			}

			got := map[[2]int]int{}
			unrollAndJam(h, r.it, r.ib, r.jt, r.jb, func(i, j int) {
				got[[2]int{i, j}]++
			})

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("h=%d rect=%v visit mismatch (-want +got):\n%s", h, r, diff)
			}
		}
	}
}

func TestUnrollAndJamClampsFactor(t *testing.T) {
	for _, h := range []int{-3, 0, 8, 100} {
		count := 0
		unrollAndJam(h, 0, 10, 0, 4, func(i, j int) { count++ })
		if count != 40 {
			t.Errorf("h=%d visited %d cells, want 40", h, count)
		}
	}
}

func TestUnrollAndJamWriteOrderWithinRow(t *testing.T) {
	// Within one jammed block, column order must advance monotonically so
	// stores stay coalesced.
	lastJ := -1
	lastBlock := -1
	unrollAndJam(3, 0, 6, 0, 5, func(i, j int) {
		block := i / 3
		if block != lastBlock {
			lastBlock = block
			lastJ = -1
		}
		if j < lastJ {
			t.Fatalf("column went backwards within block %d: j=%d after %d", block, j, lastJ)
		}
		lastJ = j
	})
}
