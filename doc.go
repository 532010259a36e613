// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

// Package massiv provides delayed multi-dimensional arrays and a parallel
// load engine that materializes them into contiguous row-major buffers.
//
// A delayed array is a size plus a pure index→element function; nothing is
// stored until the array is loaded. A windowed delayed array additionally
// marks an interior window served by a cheaper, non-bounds-checked
// function, which is what makes stencil and convolution evaluation fast:
// the inner loop over the interior carries no per-point branching, and the
// bounds-aware path runs only on the border where it is needed.
//
// Basic usage:
//
//	arr := massiv.MakeArray(massiv.Par(), massiv.Ix2{512, 512}, borderAt)
//	wd := massiv.MakeArrayWindowed(arr, massiv.Ix2{1, 1}, massiv.Ix2{510, 510}, interiorAt).
//		WithStencil(massiv.Ix2{3, 3})
//	out, err := massiv.Compute(wd)
//
// Loads run sequentially on the calling goroutine (LoadSeq) or across a
// scope of workers (LoadPar, see the scheduler package). Both write every
// cell exactly once and produce identical buffers; parallel tasks own
// disjoint linear-index ranges, so the result does not depend on the
// schedule.
package massiv
