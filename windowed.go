// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

import "github.com/pkg/errors"

// Windowed is a delayed array with a distinguished interior window. Inside
// the window [winStart, winStart+winSize) elements come from winAt, which
// may skip the bounds handling the base function performs; outside it the
// base function applies. The split is what lets stencil kernels run a
// branch-free inner loop over the interior while the border is evaluated
// by the safe path only where needed.
type Windowed[T any, IX Index] struct {
	base     Delayed[T, IX]
	stencil  *IX
	winStart IX
	winSize  IX
	winAt    func(IX) T
}

// ToWindowed wraps a delayed array with an empty window. Every element is
// served by the base function.
func ToWindowed[T any, IX Index](d Delayed[T, IX]) Windowed[T, IX] {
	return Windowed[T, IX]{
		base:     d,
		winStart: zeroLike(d.size),
		winSize:  zeroLike(d.size),
		winAt:    d.at,
	}
}

// MakeArrayWindowed attaches a window to a delayed array.
//
// The window must satisfy 0 <= winStart and winStart+winSize <= size
// componentwise; winAt must be defined at least on [winStart,
// winStart+winSize). A violated window is a caller bug and panics with the
// offending values.
func MakeArrayWindowed[T any, IX Index](base Delayed[T, IX], winStart, winSize IX, winAt func(IX) T) Windowed[T, IX] {
	validateWindow(base.size, winStart, winSize)
	return Windowed[T, IX]{
		base:     base,
		winStart: winStart,
		winSize:  winSize,
		winAt:    winAt,
	}
}

// validateWindow checks 0 <= start, 0 <= size and start+size <= sz on
// every axis. A start on the upper boundary is legal when the window is
// empty there, so the check is on the window extent rather than on start
// alone.
func validateWindow[IX Index](sz, start, size IX) {
	n := dimsOf(sz)
	s := dimsOf(start)
	w := dimsOf(size)
	for d := range n {
		if s[d] < 0 || w[d] < 0 || s[d]+w[d] > n[d] {
			panic(errors.Errorf("massiv: window start %v size %v out of bounds for array size %v", start, size, sz))
		}
	}
}

// Base returns the underlying delayed array.
func (w Windowed[T, IX]) Base() Delayed[T, IX] { return w.base }

// Comp returns the computation strategy.
func (w Windowed[T, IX]) Comp() Comp { return w.base.comp }

// SetComp returns a copy of the array with the computation strategy
// replaced.
func (w Windowed[T, IX]) SetComp(c Comp) Windowed[T, IX] {
	w.base.comp = c
	return w
}

// Size returns the full array size, window included.
func (w Windowed[T, IX]) Size() IX { return w.base.size }

// Window returns the window start and size.
func (w Windowed[T, IX]) Window() (start, size IX) { return w.winStart, w.winSize }

// WinAt evaluates the window function at ix. ix must lie inside the
// window.
func (w Windowed[T, IX]) WinAt(ix IX) T { return w.winAt(ix) }

// At evaluates the border function at ix. ix must be safe for Size().
func (w Windowed[T, IX]) At(ix IX) T { return w.base.at(ix) }

// WithStencil records the footprint of the stencil that produced the
// array. Only the two innermost components matter: the loader uses the
// outer of them to pick the row unroll factor for the interior.
func (w Windowed[T, IX]) WithStencil(sz IX) Windowed[T, IX] {
	w.stencil = &sz
	return w
}

// Stencil returns the stencil footprint hint, if one was recorded.
func (w Windowed[T, IX]) Stencil() (IX, bool) {
	if w.stencil == nil {
		var zero IX
		return zero, false
	}
	return *w.stencil, true
}

// MapWindowed composes f with both the border and the window functions.
func MapWindowed[T, U any, IX Index](f func(T) U, w Windowed[T, IX]) Windowed[U, IX] {
	winAt := w.winAt
	out := Windowed[U, IX]{
		base:     Map(f, w.base),
		winStart: w.winStart,
		winSize:  w.winSize,
		winAt:    func(ix IX) U { return f(winAt(ix)) },
	}
	if w.stencil != nil {
		st := *w.stencil
		out.stencil = &st
	}
	return out
}

// zeroLike returns the all-zero index of the same rank as sz.
func zeroLike[IX Index](sz IX) IX {
	return Lift2(func(int, int) int { return 0 }, sz, sz)
}
