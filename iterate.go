// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

// Bounded loop primitives. These are the control-flow vocabulary of the
// load engine: every traversal is a loop from an initial counter, guarded
// by a predicate, advanced by an arbitrary step function. No unit stride
// is assumed.

// Loop threads an accumulator through the loop body, starting from init
// and stepping until cont reports false.
//
//	sum := massiv.Loop(0, func(i int) bool { return i < n }, func(i int) int { return i + 1 },
//		0, func(i, acc int) int { return acc + i })
func Loop[A any](init int, cont func(int) bool, step func(int) int, acc A, body func(int, A) A) A {
	for i := init; cont(i); i = step(i) {
		acc = body(i, acc)
	}
	return acc
}

// LoopErr runs an effectful body for each counter value and stops at the
// first error, which is returned.
func LoopErr(init int, cont func(int) bool, step func(int) int, body func(int) error) error {
	for i := init; cont(i); i = step(i) {
		if err := body(i); err != nil {
			return err
		}
	}
	return nil
}
