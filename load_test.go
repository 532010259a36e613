// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errTestSentinel = errors.New("element function failed")

// referenceLoad fills buf by walking linear indices and dispatching each
// cell to the window or the border function by hand. The real loaders
// must agree with it bit for bit.
func referenceLoad[T any, IX Index](w Windowed[T, IX], buf []T) {
	sz := w.Size()
	start, size := w.Window()
	s := dimsOf(start)
	wd := dimsOf(size)
	for k := range TotalElem(sz) {
		ix := FromLinearIndex(sz, k)
		d := dimsOf(ix)
		inside := true
		for a := range d {
			if d[a] < s[a] || d[a] >= s[a]+wd[a] {
				inside = false
				break
			}
		}
		if inside {
			buf[k] = w.WinAt(ix)
		} else {
			buf[k] = w.At(ix)
		}
	}
}

// checkLoad loads w sequentially and with several pool sizes and compares
// every buffer against the reference.
func checkLoad[IX Index](t *testing.T, sz, start, size IX) {
	t.Helper()

	base := MakeArray(Seq, sz, func(ix IX) int { return -(ToLinearIndex(sz, ix) + 1) })
	w := MakeArrayWindowed(base, start, size, func(ix IX) int { return ToLinearIndex(sz, ix) + 1 })

	n := TotalElem(sz)
	want := make([]int, n)
	referenceLoad(w, want)

	got := make([]int, n)
	LoadSeq(w, got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSeq mismatch for size %v window %v+%v (-want +got):\n%s", sz, start, size, diff)
	}

	for _, workers := range [][]int{nil, {0}, {0, 1}, {0, 1, 2}, {0, 1, 2, 3, 4, 5, 6, 7}} {
		par := make([]int, n)
		if err := LoadPar(workers, w, par); err != nil {
			t.Fatalf("LoadPar(%d workers) failed: %v", len(workers), err)
		}
		if diff := cmp.Diff(want, par); diff != "" {
			t.Errorf("LoadPar(%d workers) mismatch for size %v window %v+%v (-want +got):\n%s",
				len(workers), sz, start, size, diff)
		}
	}
}

func TestLoad1DIdentityWindow(t *testing.T) {
	base := MakeArray(Seq, Ix1(10), func(Ix1) int { return -1 })
	w := MakeArrayWindowed(base, Ix1(2), Ix1(5), func(ix Ix1) int { return int(ix) })

	want := []int{-1, -1, 2, 3, 4, 5, 6, -1, -1, -1}

	got := make([]int, 10)
	LoadSeq(w, got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSeq (-want +got):\n%s", diff)
	}

	got = make([]int, 10)
	if err := LoadPar([]int{0, 1, 2}, w, got); err != nil {
		t.Fatalf("LoadPar: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadPar 3 workers (-want +got):\n%s", diff)
	}
}

func TestLoad2DFullWindow(t *testing.T) {
	sz := Ix2{4, 4}
	base := MakeArray(Seq, sz, func(Ix2) int { return 0 })
	w := MakeArrayWindowed(base, Ix2{0, 0}, Ix2{4, 4}, func(ix Ix2) int { return ix[0]*10 + ix[1] })

	want := []int{
		0, 1, 2, 3,
		10, 11, 12, 13,
		20, 21, 22, 23,
		30, 31, 32, 33,
	}

	got := make([]int, 16)
	LoadSeq(w, got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSeq (-want +got):\n%s", diff)
	}

	for _, workers := range [][]int{{0}, {0, 1, 2, 3}} {
		got = make([]int, 16)
		if err := LoadPar(workers, w, got); err != nil {
			t.Fatalf("LoadPar: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LoadPar(%d workers) (-want +got):\n%s", len(workers), diff)
		}
	}
}

func TestLoad2DCenteredWindowWithStencil(t *testing.T) {
	sz := Ix2{6, 6}
	base := MakeArray(Seq, sz, func(Ix2) int { return -1 })
	w := MakeArrayWindowed(base, Ix2{1, 1}, Ix2{4, 4}, func(Ix2) int { return 1 }).
		WithStencil(Ix2{3, 3})

	if h := unrollFactor(w.stencil); h != 3 {
		t.Errorf("unroll factor = %d, want 3", h)
	}

	want := make([]int, 36)
	for i := range 6 {
		for j := range 6 {
			if i >= 1 && i < 5 && j >= 1 && j < 5 {
				want[i*6+j] = 1
			} else {
				want[i*6+j] = -1
			}
		}
	}

	got := make([]int, 36)
	LoadSeq(w, got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadSeq (-want +got):\n%s", diff)
	}

	got = make([]int, 36)
	if err := LoadPar(nil, w, got); err != nil {
		t.Fatalf("LoadPar: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("LoadPar (-want +got):\n%s", diff)
	}
}

func TestLoad3DSingleCellWindow(t *testing.T) {
	sz := Ix3{3, 3, 3}
	base := MakeArray(Seq, sz, func(Ix3) int { return 0 })
	w := MakeArrayWindowed(base, Ix3{1, 1, 1}, Ix3{1, 1, 1}, func(Ix3) int { return 7 })

	got := make([]int, 27)
	LoadSeq(w, got)
	for k, v := range got {
		want := 0
		if k == 13 { // (1,1,1) in row-major
			want = 7
		}
		if v != want {
			t.Errorf("buf[%d] = %d, want %d", k, v, want)
		}
	}

	par := make([]int, 27)
	if err := LoadPar(nil, w, par); err != nil {
		t.Fatalf("LoadPar: %v", err)
	}
	if diff := cmp.Diff(got, par); diff != "" {
		t.Errorf("seq/par mismatch (-seq +par):\n%s", diff)
	}
}

func TestLoadParallelDeterminism(t *testing.T) {
	sz := Ix2{100, 100}
	base := MakeArray(Seq, sz, func(ix Ix2) int { return -(ix[0] + ix[1]) })
	w := MakeArrayWindowed(base, Ix2{10, 10}, Ix2{80, 80}, func(ix Ix2) int { return ix[0] + ix[1] })

	var first []int
	for _, p := range []int{1, 2, 4, 8} {
		workers := make([]int, p)
		for i := range workers {
			workers[i] = i
		}
		buf := make([]int, sz.TotalElem())
		if err := LoadPar(workers, w, buf); err != nil {
			t.Fatalf("LoadPar(%d): %v", p, err)
		}
		if first == nil {
			first = buf
			continue
		}
		if diff := cmp.Diff(first, buf); diff != "" {
			t.Errorf("LoadPar(%d workers) differs from LoadPar(1) (-1 +%d):\n%s", p, p, diff)
		}
	}

	seq := make([]int, sz.TotalElem())
	LoadSeq(w, seq)
	if diff := cmp.Diff(seq, first); diff != "" {
		t.Errorf("seq/par mismatch (-seq +par):\n%s", diff)
	}
}

func TestLoadWindowEdgePlacement(t *testing.T) {
	sz := Ix2{5, 5}

	// Full-array window: no border.
	base := MakeArray(Seq, sz, func(Ix2) int { return -1 })
	full := MakeArrayWindowed(base, Ix2{0, 0}, Ix2{5, 5}, func(Ix2) int { return 1 })
	buf := make([]int, 25)
	LoadSeq(full, buf)
	for k, v := range buf {
		if v != 1 {
			t.Errorf("full window: buf[%d] = %d, want 1", k, v)
		}
	}

	// Empty window at the far corner: no interior.
	empty := MakeArrayWindowed(base, Ix2{5, 5}, Ix2{0, 0}, func(Ix2) int { return 1 })
	buf = make([]int, 25)
	LoadSeq(empty, buf)
	for k, v := range buf {
		if v != -1 {
			t.Errorf("empty window: buf[%d] = %d, want -1", k, v)
		}
	}

	for _, w := range []Windowed[int, Ix2]{full, empty} {
		par := make([]int, 25)
		if err := LoadPar(nil, w, par); err != nil {
			t.Fatalf("LoadPar: %v", err)
		}
		seq := make([]int, 25)
		LoadSeq(w, seq)
		if diff := cmp.Diff(seq, par); diff != "" {
			t.Errorf("seq/par mismatch (-seq +par):\n%s", diff)
		}
	}
}

func TestLoadAllRanks(t *testing.T) {
	checkLoad(t, Ix1(23), Ix1(4), Ix1(11))
	checkLoad(t, Ix2{13, 9}, Ix2{2, 3}, Ix2{8, 4})
	checkLoad(t, Ix3{5, 7, 6}, Ix3{1, 2, 1}, Ix3{3, 4, 4})
	checkLoad(t, Ix4{3, 4, 5, 4}, Ix4{1, 0, 2, 1}, Ix4{2, 4, 2, 2})
	checkLoad(t, Ix5{2, 3, 4, 3, 5}, Ix5{0, 1, 1, 0, 2}, Ix5{2, 2, 2, 3, 3})
	checkLoad(t, IxN{3, 2, 3, 2, 3, 2}, IxN{1, 0, 1, 0, 1, 0}, IxN{2, 2, 1, 2, 1, 2})
}

func TestLoadDegenerateWindows(t *testing.T) {
	// Zero-extent window on one axis only.
	checkLoad(t, Ix2{6, 6}, Ix2{2, 0}, Ix2{0, 6})
	checkLoad(t, Ix3{4, 4, 4}, Ix3{4, 0, 0}, Ix3{0, 4, 4})
	// One-cell array.
	checkLoad(t, Ix2{1, 1}, Ix2{0, 0}, Ix2{1, 1})
	// Window hugging each edge.
	checkLoad(t, Ix2{8, 8}, Ix2{0, 3}, Ix2{5, 5})
	checkLoad(t, Ix2{8, 8}, Ix2{3, 0}, Ix2{5, 5})
	checkLoad(t, Ix2{8, 8}, Ix2{3, 3}, Ix2{5, 5})
}

func TestLoadStencilFactorsAgree(t *testing.T) {
	// The unroll factor must never change what is written, only how.
	sz := Ix2{17, 11}
	base := MakeArray(Seq, sz, func(ix Ix2) int { return -(ix.ToLinear(sz) + 1) })
	for h := 1; h <= 9; h += 2 {
		w := MakeArrayWindowed(base, Ix2{2, 3}, Ix2{13, 6}, func(ix Ix2) int { return ix.ToLinear(sz) }).
			WithStencil(Ix2{h, h})
		want := make([]int, sz.TotalElem())
		referenceLoad(w, want)
		got := make([]int, sz.TotalElem())
		LoadSeq(w, got)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("stencil %dx%d (-want +got):\n%s", h, h, diff)
		}
	}
}

func TestLoadEvaluatesEachCellOnce(t *testing.T) {
	var calls atomic.Int64
	sz := Ix3{6, 7, 5}
	base := MakeArray(Seq, sz, func(Ix3) int { calls.Add(1); return 0 })
	w := MakeArrayWindowed(base, Ix3{1, 2, 1}, Ix3{4, 3, 3}, func(Ix3) int { calls.Add(1); return 1 })
	total := int64(sz.TotalElem())

	buf := make([]int, total)
	LoadSeq(w, buf)
	if got := calls.Load(); got != total {
		t.Errorf("LoadSeq evaluated %d cells, want %d", got, total)
	}

	calls.Store(0)
	if err := LoadPar(nil, w, buf); err != nil {
		t.Fatalf("LoadPar: %v", err)
	}
	if got := calls.Load(); got != total {
		t.Errorf("LoadPar evaluated %d cells, want %d", got, total)
	}
}

func TestLoadParPropagatesPanic(t *testing.T) {
	sz := Ix2{64, 64}
	base := MakeArray(Seq, sz, func(Ix2) int { return 0 })
	w := MakeArrayWindowed(base, Ix2{8, 8}, Ix2{48, 48}, func(ix Ix2) int {
		if ix == (Ix2{30, 30}) {
			panic(errTestSentinel)
		}
		return 1
	})

	buf := make([]int, sz.TotalElem())
	err := LoadPar([]int{0, 1, 2, 3}, w, buf)
	if err == nil {
		t.Fatal("LoadPar should fail when the window function panics")
	}
	if !errors.Is(err, errTestSentinel) {
		t.Errorf("LoadPar error = %v, want wrapped sentinel", err)
	}
}

func TestLoadComp(t *testing.T) {
	sz := Ix2{9, 9}
	mk := func(c Comp) Windowed[int, Ix2] {
		base := MakeArray(c, sz, func(ix Ix2) int { return -ix.ToLinear(sz) })
		return MakeArrayWindowed(base, Ix2{2, 2}, Ix2{5, 5}, func(ix Ix2) int { return ix.ToLinear(sz) })
	}

	want := make([]int, sz.TotalElem())
	LoadSeq(mk(Seq), want)

	for _, c := range []Comp{Seq, Par(), ParOn(0, 1)} {
		got, err := Compute(mk(c))
		if err != nil {
			t.Fatalf("Compute(%v): %v", c, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Compute(%v) (-want +got):\n%s", c, diff)
		}
	}
}

func TestLoadShortBufferPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("LoadSeq with a short buffer should panic")
		}
	}()
	w := ToWindowed(MakeArray(Seq, Ix2{4, 4}, func(Ix2) int { return 0 }))
	LoadSeq(w, make([]int, 15))
}

func BenchmarkLoadSeq2D(b *testing.B) {
	sz := Ix2{1024, 1024}
	base := MakeArray(Seq, sz, func(ix Ix2) float64 { return float64(ix[0] + ix[1]) })
	w := MakeArrayWindowed(base, Ix2{1, 1}, Ix2{1022, 1022}, func(ix Ix2) float64 {
		return float64(ix[0] * ix[1])
	}).WithStencil(Ix2{3, 3})
	buf := make([]float64, sz.TotalElem())

	b.ResetTimer()
	for b.Loop() {
		LoadSeq(w, buf)
	}
}

func BenchmarkLoadPar2D(b *testing.B) {
	sz := Ix2{1024, 1024}
	base := MakeArray(Seq, sz, func(ix Ix2) float64 { return float64(ix[0] + ix[1]) })
	w := MakeArrayWindowed(base, Ix2{1, 1}, Ix2{1022, 1022}, func(ix Ix2) float64 {
		return float64(ix[0] * ix[1])
	}).WithStencil(Ix2{3, 3})
	buf := make([]float64, sz.TotalElem())

	b.ResetTimer()
	for b.Loop() {
		if err := LoadPar(nil, w, buf); err != nil {
			b.Fatal(err)
		}
	}
}
