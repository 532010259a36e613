// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

import "github.com/pkg/errors"

// The load engine materializes a windowed delayed array into a contiguous
// row-major buffer. Rank 1 and rank 2 are hand-specialized base cases;
// higher ranks recurse over the outermost axis by slicing the array into
// rank-(r-1) windowed arrays. Keeping the recursion bottom out at the
// rank-2 kernel is what makes the stencil evaluation the innermost,
// unrolled loop.

// LoadSeq fills buf with the elements of w in row-major order on the
// calling goroutine. Border cells come from the base function, interior
// cells from the window function; every cell is written exactly once.
// buf must hold at least TotalElem(w.Size()) elements; a shorter buffer
// is a caller bug and panics.
func LoadSeq[T any, IX Index](w Windowed[T, IX], buf []T) {
	checkBuffer(w.base.size, len(buf))
	switch any(w.base.size).(type) {
	case Ix1:
		loadSeq1(any(w).(Windowed[T, Ix1]), buf)
	case Ix2:
		loadSeq2(any(w).(Windowed[T, Ix2]), buf)
	case Ix3:
		loadSeq3(any(w).(Windowed[T, Ix3]), buf)
	case Ix4:
		loadSeq4(any(w).(Windowed[T, Ix4]), buf)
	case Ix5:
		loadSeq5(any(w).(Windowed[T, Ix5]), buf)
	case IxN:
		loadSeqN(any(w).(Windowed[T, IxN]), buf)
	}
}

// Load materializes w into buf using its computation strategy: inline for
// Seq, via a private scheduler for Par/ParOn.
func Load[T any, IX Index](w Windowed[T, IX], buf []T) error {
	if w.Comp().IsParallel() {
		return LoadPar(w.Comp().Workers(), w, buf)
	}
	LoadSeq(w, buf)
	return nil
}

// Compute allocates a buffer of TotalElem(w.Size()) elements and loads w
// into it.
func Compute[T any, IX Index](w Windowed[T, IX]) ([]T, error) {
	buf := make([]T, TotalElem(w.Size()))
	if err := Load(w, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// checkBuffer panics when the destination cannot hold the array.
func checkBuffer[IX Index](sz IX, bufLen int) {
	if n := TotalElem(sz); bufLen < n {
		panic(errors.Errorf("massiv: buffer of %d elements cannot hold array of size %v (%d elements)", bufLen, sz, n))
	}
}

// unrollFactor picks the row unroll factor for the rank-2 interior kernel
// from the stencil footprint hint: the outer of its two innermost
// components, clamped to [1, maxUnroll]. Without a hint the factor is 1.
func unrollFactor[IX Index](st *IX) int {
	if st == nil {
		return 1
	}
	d := dimsOf(*st)
	if len(d) < 2 {
		return 1
	}
	return min(max(d[len(d)-2], 1), maxUnroll)
}

// ---------------------------------------------------------------------------
// Rank 1
// ---------------------------------------------------------------------------

// loadSeq1 fills the three contiguous runs [0, start), [start, end) and
// [end, n); the outer two from the base function, the middle from the
// window function.
func loadSeq1[T any](w Windowed[T, Ix1], buf []T) {
	n := int(w.base.size)
	start := int(w.winStart)
	end := start + int(w.winSize)
	at := w.base.at
	winAt := w.winAt

	for i := 0; i < start; i++ {
		buf[i] = at(Ix1(i))
	}
	for i := start; i < end; i++ {
		buf[i] = winAt(Ix1(i))
	}
	for i := end; i < n; i++ {
		buf[i] = at(Ix1(i))
	}
}

// ---------------------------------------------------------------------------
// Rank 2
// ---------------------------------------------------------------------------

// loadSeq2 decomposes the shape into four border rectangles around the
// window and the interior. The interior runs under unroll-and-jam with
// the stencil-derived factor.
func loadSeq2[T any](w Windowed[T, Ix2], buf []T) {
	m, n := w.base.size[0], w.base.size[1]
	it, jt := w.winStart[0], w.winStart[1]
	ib, jb := it+w.winSize[0], jt+w.winSize[1]
	at := w.base.at
	winAt := w.winAt

	// Top strip: rows [0, it) at full width.
	for i := 0; i < it; i++ {
		row := i * n
		for j := 0; j < n; j++ {
			buf[row+j] = at(Ix2{i, j})
		}
	}
	// Bottom strip: rows [ib, m) at full width.
	for i := ib; i < m; i++ {
		row := i * n
		for j := 0; j < n; j++ {
			buf[row+j] = at(Ix2{i, j})
		}
	}
	// Left and right bands beside the window.
	for i := it; i < ib; i++ {
		row := i * n
		for j := 0; j < jt; j++ {
			buf[row+j] = at(Ix2{i, j})
		}
		for j := jb; j < n; j++ {
			buf[row+j] = at(Ix2{i, j})
		}
	}
	// Interior.
	unrollAndJam(unrollFactor(w.stencil), it, ib, jt, jb, func(i, j int) {
		buf[i*n+j] = winAt(Ix2{i, j})
	})
}

// ---------------------------------------------------------------------------
// Rank 3 and above: recurse over the outermost axis
// ---------------------------------------------------------------------------

func loadSeq3[T any](w Windowed[T, Ix3], buf []T) {
	outer := w.base.size[0]
	stride := w.base.size[1] * w.base.size[2]
	t := w.winStart[0]
	b := t + w.winSize[0]

	for i := 0; i < t; i++ {
		loadSeq2(borderSlice3(w, i), buf[i*stride:(i+1)*stride])
	}
	for i := b; i < outer; i++ {
		loadSeq2(borderSlice3(w, i), buf[i*stride:(i+1)*stride])
	}
	for i := t; i < b; i++ {
		loadSeq2(windowSlice3(w, i), buf[i*stride:(i+1)*stride])
	}
}

func loadSeq4[T any](w Windowed[T, Ix4], buf []T) {
	outer := w.base.size[0]
	stride := w.base.size[1] * w.base.size[2] * w.base.size[3]
	t := w.winStart[0]
	b := t + w.winSize[0]

	for i := 0; i < t; i++ {
		loadSeq3(borderSlice4(w, i), buf[i*stride:(i+1)*stride])
	}
	for i := b; i < outer; i++ {
		loadSeq3(borderSlice4(w, i), buf[i*stride:(i+1)*stride])
	}
	for i := t; i < b; i++ {
		loadSeq3(windowSlice4(w, i), buf[i*stride:(i+1)*stride])
	}
}

func loadSeq5[T any](w Windowed[T, Ix5], buf []T) {
	outer := w.base.size[0]
	stride := w.base.size[1] * w.base.size[2] * w.base.size[3] * w.base.size[4]
	t := w.winStart[0]
	b := t + w.winSize[0]

	for i := 0; i < t; i++ {
		loadSeq4(borderSlice5(w, i), buf[i*stride:(i+1)*stride])
	}
	for i := b; i < outer; i++ {
		loadSeq4(borderSlice5(w, i), buf[i*stride:(i+1)*stride])
	}
	for i := t; i < b; i++ {
		loadSeq4(windowSlice5(w, i), buf[i*stride:(i+1)*stride])
	}
}

// loadSeqN is the variable-rank fallback. Ranks 1 and 2 mirror the fixed
// kernels with IxN indices; higher ranks peel the outermost axis exactly
// like loadSeq3..5.
func loadSeqN[T any](w Windowed[T, IxN], buf []T) {
	switch len(w.base.size) {
	case 0:
		return
	case 1:
		loadSeqN1(w, buf)
	case 2:
		loadSeqN2(w, buf)
	default:
		outer := w.base.size[0]
		stride := IxN(w.base.size[1:]).TotalElem()
		t := w.winStart[0]
		b := t + w.winSize[0]

		for i := 0; i < t; i++ {
			loadSeqN(borderSliceN(w, i), buf[i*stride:(i+1)*stride])
		}
		for i := b; i < outer; i++ {
			loadSeqN(borderSliceN(w, i), buf[i*stride:(i+1)*stride])
		}
		for i := t; i < b; i++ {
			loadSeqN(windowSliceN(w, i), buf[i*stride:(i+1)*stride])
		}
	}
}

func loadSeqN1[T any](w Windowed[T, IxN], buf []T) {
	n := w.base.size[0]
	start := w.winStart[0]
	end := start + w.winSize[0]
	at := w.base.at
	winAt := w.winAt

	for i := 0; i < start; i++ {
		buf[i] = at(IxN{i})
	}
	for i := start; i < end; i++ {
		buf[i] = winAt(IxN{i})
	}
	for i := end; i < n; i++ {
		buf[i] = at(IxN{i})
	}
}

func loadSeqN2[T any](w Windowed[T, IxN], buf []T) {
	m, n := w.base.size[0], w.base.size[1]
	it, jt := w.winStart[0], w.winStart[1]
	ib, jb := it+w.winSize[0], jt+w.winSize[1]
	at := w.base.at
	winAt := w.winAt

	for i := 0; i < it; i++ {
		row := i * n
		for j := 0; j < n; j++ {
			buf[row+j] = at(IxN{i, j})
		}
	}
	for i := ib; i < m; i++ {
		row := i * n
		for j := 0; j < n; j++ {
			buf[row+j] = at(IxN{i, j})
		}
	}
	for i := it; i < ib; i++ {
		row := i * n
		for j := 0; j < jt; j++ {
			buf[row+j] = at(IxN{i, j})
		}
		for j := jb; j < n; j++ {
			buf[row+j] = at(IxN{i, j})
		}
	}
	unrollAndJam(unrollFactor(w.stencil), it, ib, jt, jb, func(i, j int) {
		buf[i*n+j] = winAt(IxN{i, j})
	})
}

// ---------------------------------------------------------------------------
// Outer-axis slices
// ---------------------------------------------------------------------------

// borderSlice3 fixes the outermost coordinate at i and serves the whole
// inner plane from the base function: an empty window over the inner
// shape.
func borderSlice3[T any](w Windowed[T, Ix3], i int) Windowed[T, Ix2] {
	at := w.base.at
	inner := Ix2{w.base.size[1], w.base.size[2]}
	return ToWindowed(MakeArray(Seq, inner, func(ix Ix2) T { return at(ix.Cons(i)) }))
}

// windowSlice3 fixes the outermost coordinate at i inside the window
// range: the inner window, start and stencil hint are the tails of the
// originals. The slice is always sequential; parallelism is harvested
// over the outer axis, not inside slices.
func windowSlice3[T any](w Windowed[T, Ix3], i int) Windowed[T, Ix2] {
	at := w.base.at
	winAt := w.winAt
	inner := Ix2{w.base.size[1], w.base.size[2]}
	sl := Windowed[T, Ix2]{
		base:     MakeArray(Seq, inner, func(ix Ix2) T { return at(ix.Cons(i)) }),
		winStart: Ix2{w.winStart[1], w.winStart[2]},
		winSize:  Ix2{w.winSize[1], w.winSize[2]},
		winAt:    func(ix Ix2) T { return winAt(ix.Cons(i)) },
	}
	if w.stencil != nil {
		_, tail := w.stencil.Uncons()
		sl.stencil = &tail
	}
	return sl
}

func borderSlice4[T any](w Windowed[T, Ix4], i int) Windowed[T, Ix3] {
	at := w.base.at
	inner := Ix3{w.base.size[1], w.base.size[2], w.base.size[3]}
	return ToWindowed(MakeArray(Seq, inner, func(ix Ix3) T { return at(ix.Cons(i)) }))
}

func windowSlice4[T any](w Windowed[T, Ix4], i int) Windowed[T, Ix3] {
	at := w.base.at
	winAt := w.winAt
	inner := Ix3{w.base.size[1], w.base.size[2], w.base.size[3]}
	sl := Windowed[T, Ix3]{
		base:     MakeArray(Seq, inner, func(ix Ix3) T { return at(ix.Cons(i)) }),
		winStart: Ix3{w.winStart[1], w.winStart[2], w.winStart[3]},
		winSize:  Ix3{w.winSize[1], w.winSize[2], w.winSize[3]},
		winAt:    func(ix Ix3) T { return winAt(ix.Cons(i)) },
	}
	if w.stencil != nil {
		_, tail := w.stencil.Uncons()
		sl.stencil = &tail
	}
	return sl
}

func borderSlice5[T any](w Windowed[T, Ix5], i int) Windowed[T, Ix4] {
	at := w.base.at
	inner := Ix4{w.base.size[1], w.base.size[2], w.base.size[3], w.base.size[4]}
	return ToWindowed(MakeArray(Seq, inner, func(ix Ix4) T { return at(ix.Cons(i)) }))
}

func windowSlice5[T any](w Windowed[T, Ix5], i int) Windowed[T, Ix4] {
	at := w.base.at
	winAt := w.winAt
	inner := Ix4{w.base.size[1], w.base.size[2], w.base.size[3], w.base.size[4]}
	sl := Windowed[T, Ix4]{
		base:     MakeArray(Seq, inner, func(ix Ix4) T { return at(ix.Cons(i)) }),
		winStart: Ix4{w.winStart[1], w.winStart[2], w.winStart[3], w.winStart[4]},
		winSize:  Ix4{w.winSize[1], w.winSize[2], w.winSize[3], w.winSize[4]},
		winAt:    func(ix Ix4) T { return winAt(ix.Cons(i)) },
	}
	if w.stencil != nil {
		_, tail := w.stencil.Uncons()
		sl.stencil = &tail
	}
	return sl
}

func borderSliceN[T any](w Windowed[T, IxN], i int) Windowed[T, IxN] {
	at := w.base.at
	inner := IxN(w.base.size[1:]).Clone()
	return ToWindowed(MakeArray(Seq, inner, func(ix IxN) T { return at(ix.Cons(i)) }))
}

func windowSliceN[T any](w Windowed[T, IxN], i int) Windowed[T, IxN] {
	at := w.base.at
	winAt := w.winAt
	inner := IxN(w.base.size[1:]).Clone()
	sl := Windowed[T, IxN]{
		base:     MakeArray(Seq, inner, func(ix IxN) T { return at(ix.Cons(i)) }),
		winStart: w.winStart[1:].Clone(),
		winSize:  w.winSize[1:].Clone(),
		winAt:    func(ix IxN) T { return winAt(ix.Cons(i)) },
	}
	if w.stencil != nil {
		_, tail := w.stencil.Uncons()
		tail = tail.Clone()
		sl.stencil = &tail
	}
	return sl
}
