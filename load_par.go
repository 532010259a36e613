// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

import "github.com/kozross/massiv/scheduler"

// LoadPar materializes w into buf across a private scheduler sized by
// workerIDs (empty means all available cores). The decomposition mirrors
// LoadSeq but submits each subregion as a task; tasks write disjoint
// linear-index ranges, so the buffer contents are independent of the
// schedule. The first task failure (a panic in a caller-supplied element
// function, typically) suppresses tasks not yet started, in-flight tasks
// settle, and the failure is returned. The buffer must be considered
// invalid when LoadPar returns an error.
func LoadPar[T any, IX Index](workerIDs []int, w Windowed[T, IX], buf []T) error {
	checkBuffer(w.base.size, len(buf))
	return scheduler.With(workerIDs, func(s *scheduler.Scheduler) error {
		loadParInto(s, w, buf)
		return nil
	})
}

// LoadParWith is LoadPar on a caller-owned scope, so upstream kernels can
// interleave their own tasks with the loader's. The call only submits
// work; completion is observed when the scope exits.
func LoadParWith[T any, IX Index](s *scheduler.Scheduler, w Windowed[T, IX], buf []T) {
	checkBuffer(w.base.size, len(buf))
	loadParInto(s, w, buf)
}

func loadParInto[T any, IX Index](s *scheduler.Scheduler, w Windowed[T, IX], buf []T) {
	switch any(w.base.size).(type) {
	case Ix1:
		loadPar1(s, any(w).(Windowed[T, Ix1]), buf)
	case Ix2:
		loadPar2(s, any(w).(Windowed[T, Ix2]), buf)
	case Ix3:
		loadPar3(s, any(w).(Windowed[T, Ix3]), buf)
	case Ix4:
		loadPar4(s, any(w).(Windowed[T, Ix4]), buf)
	case Ix5:
		loadPar5(s, any(w).(Windowed[T, Ix5]), buf)
	case IxN:
		loadParN(s, any(w).(Windowed[T, IxN]), buf)
	}
}

// loadPar1 splits the window span into NumWorkers equal chunks plus one
// tail task; each border segment is one more task.
func loadPar1[T any](s *scheduler.Scheduler, w Windowed[T, Ix1], buf []T) {
	n := int(w.base.size)
	start := int(w.winStart)
	span := int(w.winSize)
	end := start + span
	at := w.base.at
	winAt := w.winAt

	if start > 0 {
		s.Schedule(func() error {
			for i := 0; i < start; i++ {
				buf[i] = at(Ix1(i))
			}
			return nil
		})
	}
	if end < n {
		s.Schedule(func() error {
			for i := end; i < n; i++ {
				buf[i] = at(Ix1(i))
			}
			return nil
		})
	}

	p := s.NumWorkers()
	chunk := span / p
	if chunk > 0 {
		for wk := range p {
			lo := start + wk*chunk
			hi := lo + chunk
			s.Schedule(func() error {
				for i := lo; i < hi; i++ {
					buf[i] = winAt(Ix1(i))
				}
				return nil
			})
		}
	}
	if tail := start + p*chunk; tail < end {
		s.Schedule(func() error {
			for i := tail; i < end; i++ {
				buf[i] = winAt(Ix1(i))
			}
			return nil
		})
	}
}

// loadPar2 submits the four border rectangles as one task each and splits
// the interior by row-blocks: the inner axis is contiguous in memory, so
// every task writes a dense run of linear indices.
func loadPar2[T any](s *scheduler.Scheduler, w Windowed[T, Ix2], buf []T) {
	m, n := w.base.size[0], w.base.size[1]
	it, jt := w.winStart[0], w.winStart[1]
	wm := w.winSize[0]
	ib, jb := it+wm, jt+w.winSize[1]
	at := w.base.at
	winAt := w.winAt

	if it > 0 {
		s.Schedule(func() error {
			for i := 0; i < it; i++ {
				row := i * n
				for j := 0; j < n; j++ {
					buf[row+j] = at(Ix2{i, j})
				}
			}
			return nil
		})
	}
	if ib < m {
		s.Schedule(func() error {
			for i := ib; i < m; i++ {
				row := i * n
				for j := 0; j < n; j++ {
					buf[row+j] = at(Ix2{i, j})
				}
			}
			return nil
		})
	}
	if jt > 0 {
		s.Schedule(func() error {
			for i := it; i < ib; i++ {
				row := i * n
				for j := 0; j < jt; j++ {
					buf[row+j] = at(Ix2{i, j})
				}
			}
			return nil
		})
	}
	if jb < n {
		s.Schedule(func() error {
			for i := it; i < ib; i++ {
				row := i * n
				for j := jb; j < n; j++ {
					buf[row+j] = at(Ix2{i, j})
				}
			}
			return nil
		})
	}

	h := unrollFactor(w.stencil)
	body := func(i, j int) {
		buf[i*n+j] = winAt(Ix2{i, j})
	}

	p := s.NumWorkers()
	chunkHeight := wm / p
	if chunkHeight > 0 {
		for wk := range p {
			lo := it + wk*chunkHeight
			hi := lo + chunkHeight
			s.Schedule(func() error {
				unrollAndJam(h, lo, hi, jt, jb, body)
				return nil
			})
		}
	}
	if slack := it + p*chunkHeight; slack < ib {
		s.Schedule(func() error {
			unrollAndJam(h, slack, ib, jt, jb, body)
			return nil
		})
	}
}

// Ranks 3 and above submit the two outer-border slabs as two tasks plus
// one task per outer window coordinate, each running the sequential
// rank-(r-1) loader on its slice. Parallelism is harvested over the outer
// window axis only.

func loadPar3[T any](s *scheduler.Scheduler, w Windowed[T, Ix3], buf []T) {
	outer := w.base.size[0]
	stride := w.base.size[1] * w.base.size[2]
	t := w.winStart[0]
	b := t + w.winSize[0]

	if t > 0 {
		s.Schedule(func() error {
			for i := 0; i < t; i++ {
				loadSeq2(borderSlice3(w, i), buf[i*stride:(i+1)*stride])
			}
			return nil
		})
	}
	if b < outer {
		s.Schedule(func() error {
			for i := b; i < outer; i++ {
				loadSeq2(borderSlice3(w, i), buf[i*stride:(i+1)*stride])
			}
			return nil
		})
	}
	for i := t; i < b; i++ {
		s.Schedule(func() error {
			loadSeq2(windowSlice3(w, i), buf[i*stride:(i+1)*stride])
			return nil
		})
	}
}

func loadPar4[T any](s *scheduler.Scheduler, w Windowed[T, Ix4], buf []T) {
	outer := w.base.size[0]
	stride := w.base.size[1] * w.base.size[2] * w.base.size[3]
	t := w.winStart[0]
	b := t + w.winSize[0]

	if t > 0 {
		s.Schedule(func() error {
			for i := 0; i < t; i++ {
				loadSeq3(borderSlice4(w, i), buf[i*stride:(i+1)*stride])
			}
			return nil
		})
	}
	if b < outer {
		s.Schedule(func() error {
			for i := b; i < outer; i++ {
				loadSeq3(borderSlice4(w, i), buf[i*stride:(i+1)*stride])
			}
			return nil
		})
	}
	for i := t; i < b; i++ {
		s.Schedule(func() error {
			loadSeq3(windowSlice4(w, i), buf[i*stride:(i+1)*stride])
			return nil
		})
	}
}

func loadPar5[T any](s *scheduler.Scheduler, w Windowed[T, Ix5], buf []T) {
	outer := w.base.size[0]
	stride := w.base.size[1] * w.base.size[2] * w.base.size[3] * w.base.size[4]
	t := w.winStart[0]
	b := t + w.winSize[0]

	if t > 0 {
		s.Schedule(func() error {
			for i := 0; i < t; i++ {
				loadSeq4(borderSlice5(w, i), buf[i*stride:(i+1)*stride])
			}
			return nil
		})
	}
	if b < outer {
		s.Schedule(func() error {
			for i := b; i < outer; i++ {
				loadSeq4(borderSlice5(w, i), buf[i*stride:(i+1)*stride])
			}
			return nil
		})
	}
	for i := t; i < b; i++ {
		s.Schedule(func() error {
			loadSeq4(windowSlice5(w, i), buf[i*stride:(i+1)*stride])
			return nil
		})
	}
}

func loadParN[T any](s *scheduler.Scheduler, w Windowed[T, IxN], buf []T) {
	switch len(w.base.size) {
	case 0:
		return
	case 1:
		loadPar1(s, Windowed[T, Ix1]{
			base:     MakeArray(w.base.comp, Ix1(w.base.size[0]), func(ix Ix1) T { return w.base.at(IxN{int(ix)}) }),
			winStart: Ix1(w.winStart[0]),
			winSize:  Ix1(w.winSize[0]),
			winAt:    func(ix Ix1) T { return w.winAt(IxN{int(ix)}) },
		}, buf)
	case 2:
		w2 := Windowed[T, Ix2]{
			base:     MakeArray(w.base.comp, Ix2{w.base.size[0], w.base.size[1]}, func(ix Ix2) T { return w.base.at(IxN{ix[0], ix[1]}) }),
			winStart: Ix2{w.winStart[0], w.winStart[1]},
			winSize:  Ix2{w.winSize[0], w.winSize[1]},
			winAt:    func(ix Ix2) T { return w.winAt(IxN{ix[0], ix[1]}) },
		}
		if w.stencil != nil {
			d := *w.stencil
			st := Ix2{d[len(d)-2], d[len(d)-1]}
			w2.stencil = &st
		}
		loadPar2(s, w2, buf)
	default:
		outer := w.base.size[0]
		stride := w.base.size[1:].TotalElem()
		t := w.winStart[0]
		b := t + w.winSize[0]

		if t > 0 {
			s.Schedule(func() error {
				for i := 0; i < t; i++ {
					loadSeqN(borderSliceN(w, i), buf[i*stride:(i+1)*stride])
				}
				return nil
			})
		}
		if b < outer {
			s.Schedule(func() error {
				for i := b; i < outer; i++ {
					loadSeqN(borderSliceN(w, i), buf[i*stride:(i+1)*stride])
				}
				return nil
			})
		}
		for i := t; i < b; i++ {
			s.Schedule(func() error {
				loadSeqN(windowSliceN(w, i), buf[i*stride:(i+1)*stride])
				return nil
			})
		}
	}
}
