// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

// maxUnroll caps the row unroll factor. Beyond 7 jammed rows register
// pressure costs more than the exposed ILP buys on current ISAs.
const maxUnroll = 7

// unrollAndJam runs body over the rectangle [it, ib) × [jt, jb), jamming h
// consecutive rows into the body of the column loop. Stencil-style bodies
// touch vertically adjacent rows, so jamming lets shared reads stay in
// registers across the h writes of one column step. h is clamped to
// [1, maxUnroll]; rows left over when (ib-it) is not a multiple of the
// factor are finished by a scalar loop.
//
// body is invoked exactly once per (i, j) pair of the rectangle,
// regardless of the factor.
func unrollAndJam(h, it, ib, jt, jb int, body func(i, j int)) {
	h = min(max(h, 1), maxUnroll)
	full := ib - (ib-it)%h

	i := it
	switch h {
	case 1:
		for ; i < full; i++ {
			for j := jt; j < jb; j++ {
				body(i, j)
			}
		}
	case 2:
		for ; i < full; i += 2 {
			for j := jt; j < jb; j++ {
				body(i, j)
				body(i+1, j)
			}
		}
	case 3:
		for ; i < full; i += 3 {
			for j := jt; j < jb; j++ {
				body(i, j)
				body(i+1, j)
				body(i+2, j)
			}
		}
	case 4:
		for ; i < full; i += 4 {
			for j := jt; j < jb; j++ {
				body(i, j)
				body(i+1, j)
				body(i+2, j)
				body(i+3, j)
			}
		}
	case 5:
		for ; i < full; i += 5 {
			for j := jt; j < jb; j++ {
				body(i, j)
				body(i+1, j)
				body(i+2, j)
				body(i+3, j)
				body(i+4, j)
			}
		}
	case 6:
		for ; i < full; i += 6 {
			for j := jt; j < jb; j++ {
				body(i, j)
				body(i+1, j)
				body(i+2, j)
				body(i+3, j)
				body(i+4, j)
				body(i+5, j)
			}
		}
	case 7:
		for ; i < full; i += 7 {
			for j := jt; j < jb; j++ {
				body(i, j)
				body(i+1, j)
				body(i+2, j)
				body(i+3, j)
				body(i+4, j)
				body(i+5, j)
				body(i+6, j)
			}
		}
	}

	// Remainder rows, scalar.
	for ; i < ib; i++ {
		for j := jt; j < jb; j++ {
			body(i, j)
		}
	}
}
