// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

// Rank-generic wrappers over the per-rank index operations. Each one
// resolves the concrete index type with a single type switch; the loops
// underneath are the specialized per-rank implementations. These exist for
// code that is generic over Index (the load engine's dispatch layer and
// tests); performance-critical loops use the concrete types directly.

// Rank returns the rank of an index value.
func Rank[IX Index](ix IX) int {
	switch v := any(ix).(type) {
	case Ix1:
		return v.Rank()
	case Ix2:
		return v.Rank()
	case Ix3:
		return v.Rank()
	case Ix4:
		return v.Rank()
	case Ix5:
		return v.Rank()
	case IxN:
		return v.Rank()
	}
	return 0
}

// TotalElem returns the number of elements of a size.
func TotalElem[IX Index](sz IX) int {
	switch v := any(sz).(type) {
	case Ix1:
		return v.TotalElem()
	case Ix2:
		return v.TotalElem()
	case Ix3:
		return v.TotalElem()
	case Ix4:
		return v.TotalElem()
	case Ix5:
		return v.TotalElem()
	case IxN:
		return v.TotalElem()
	}
	return 0
}

// IsSafeIndex reports whether ix addresses an element of a size sz array.
func IsSafeIndex[IX Index](sz, ix IX) bool {
	switch v := any(ix).(type) {
	case Ix1:
		return v.IsSafe(any(sz).(Ix1))
	case Ix2:
		return v.IsSafe(any(sz).(Ix2))
	case Ix3:
		return v.IsSafe(any(sz).(Ix3))
	case Ix4:
		return v.IsSafe(any(sz).(Ix4))
	case Ix5:
		return v.IsSafe(any(sz).(Ix5))
	case IxN:
		return v.IsSafe(any(sz).(IxN))
	}
	return false
}

// ToLinearIndex returns the row-major linear offset of ix within sz.
// For every safe ix the result is below TotalElem(sz).
func ToLinearIndex[IX Index](sz, ix IX) int {
	switch v := any(ix).(type) {
	case Ix1:
		return v.ToLinear(any(sz).(Ix1))
	case Ix2:
		return v.ToLinear(any(sz).(Ix2))
	case Ix3:
		return v.ToLinear(any(sz).(Ix3))
	case Ix4:
		return v.ToLinear(any(sz).(Ix4))
	case Ix5:
		return v.ToLinear(any(sz).(Ix5))
	case IxN:
		return v.ToLinear(any(sz).(IxN))
	}
	return 0
}

// FromLinearIndex converts a row-major linear offset back into an index
// within sz. Inverse of ToLinearIndex over [0, TotalElem(sz)).
func FromLinearIndex[IX Index](sz IX, k int) IX {
	switch v := any(sz).(type) {
	case Ix1:
		return any(v.FromLinear(k)).(IX)
	case Ix2:
		return any(v.FromLinear(k)).(IX)
	case Ix3:
		return any(v.FromLinear(k)).(IX)
	case Ix4:
		return any(v.FromLinear(k)).(IX)
	case Ix5:
		return any(v.FromLinear(k)).(IX)
	case IxN:
		return any(v.FromLinear(k)).(IX)
	}
	var zero IX
	return zero
}

// Pure replicates k across every axis. For IxN the rank cannot be
// recovered from the type; use PureN instead.
func Pure[IX Index](k int) IX {
	var zero IX
	switch any(zero).(type) {
	case Ix1:
		return any(Ix1(k)).(IX)
	case Ix2:
		return any(Ix2{k, k}).(IX)
	case Ix3:
		return any(Ix3{k, k, k}).(IX)
	case Ix4:
		return any(Ix4{k, k, k, k}).(IX)
	case Ix5:
		return any(Ix5{k, k, k, k, k}).(IX)
	}
	return zero
}

// PureN replicates k across rank axes.
func PureN(rank, k int) IxN {
	ix := make(IxN, rank)
	for d := range ix {
		ix[d] = k
	}
	return ix
}

// Lift2 applies f componentwise to a pair of indices.
func Lift2[IX Index](f func(a, b int) int, a, b IX) IX {
	switch av := any(a).(type) {
	case Ix1:
		bv := any(b).(Ix1)
		return any(Ix1(f(int(av), int(bv)))).(IX)
	case Ix2:
		bv := any(b).(Ix2)
		return any(Ix2{f(av[0], bv[0]), f(av[1], bv[1])}).(IX)
	case Ix3:
		bv := any(b).(Ix3)
		return any(Ix3{f(av[0], bv[0]), f(av[1], bv[1]), f(av[2], bv[2])}).(IX)
	case Ix4:
		bv := any(b).(Ix4)
		var out Ix4
		for d := range out {
			out[d] = f(av[d], bv[d])
		}
		return any(out).(IX)
	case Ix5:
		bv := any(b).(Ix5)
		var out Ix5
		for d := range out {
			out[d] = f(av[d], bv[d])
		}
		return any(out).(IX)
	case IxN:
		bv := any(b).(IxN)
		out := make(IxN, len(av))
		for d := range out {
			out[d] = f(av[d], bv[d])
		}
		return any(out).(IX)
	}
	var zero IX
	return zero
}

// dimsOf views an index as its components, outermost first. Fixed-rank
// indices are copied into a fresh slice.
func dimsOf[IX Index](ix IX) []int {
	switch v := any(ix).(type) {
	case Ix1:
		return []int{int(v)}
	case Ix2:
		return []int{v[0], v[1]}
	case Ix3:
		return []int{v[0], v[1], v[2]}
	case Ix4:
		return []int{v[0], v[1], v[2], v[3]}
	case Ix5:
		return []int{v[0], v[1], v[2], v[3], v[4]}
	case IxN:
		return v
	}
	return nil
}

// Iter walks the rectangular region spanned by start and end with an
// independent step per axis, invoking body at every visited index. The
// outermost axis is the outer loop. cont receives the current and end
// component for an axis and normally tests cur < end.
func Iter[IX Index](start, end, step IX, cont func(cur, end int) bool, body func(IX)) {
	switch s := any(start).(type) {
	case Ix1:
		e := any(end).(Ix1)
		st := any(step).(Ix1)
		for i := int(s); cont(i, int(e)); i += int(st) {
			body(any(Ix1(i)).(IX))
		}
	case Ix2:
		e := any(end).(Ix2)
		st := any(step).(Ix2)
		for i := s[0]; cont(i, e[0]); i += st[0] {
			for j := s[1]; cont(j, e[1]); j += st[1] {
				body(any(Ix2{i, j}).(IX))
			}
		}
	case Ix3:
		e := any(end).(Ix3)
		st := any(step).(Ix3)
		for h := s[0]; cont(h, e[0]); h += st[0] {
			for i := s[1]; cont(i, e[1]); i += st[1] {
				for j := s[2]; cont(j, e[2]); j += st[2] {
					body(any(Ix3{h, i, j}).(IX))
				}
			}
		}
	case Ix4:
		e := any(end).(Ix4)
		st := any(step).(Ix4)
		iterN(s[:], e[:], st[:], cont, func(cur IxN) {
			body(any(Ix4(cur)).(IX))
		})
	case Ix5:
		e := any(end).(Ix5)
		st := any(step).(Ix5)
		iterN(s[:], e[:], st[:], cont, func(cur IxN) {
			body(any(Ix5(cur)).(IX))
		})
	case IxN:
		e := any(end).(IxN)
		st := any(step).(IxN)
		iterN(s, e, st, cont, func(cur IxN) {
			body(any(cur).(IX))
		})
	}
}

// IterErr is Iter with an error-returning body. Iteration stops at the
// first error, which is returned.
func IterErr[IX Index](start, end, step IX, cont func(cur, end int) bool, body func(IX) error) error {
	var err error
	Iter(start, end, step, func(cur, e int) bool {
		return err == nil && cont(cur, e)
	}, func(ix IX) {
		if err == nil {
			err = body(ix)
		}
	})
	return err
}

// iterN is the recursive nested loop behind Iter for ranks above 3. cur is
// reused across body invocations; body must copy it if it escapes.
func iterN(start, end, step []int, cont func(cur, end int) bool, body func(IxN)) {
	cur := make(IxN, len(start))
	copy(cur, start)
	iterNAxis(0, cur, start, end, step, cont, body)
}

func iterNAxis(axis int, cur, start, end, step []int, cont func(cur, end int) bool, body func(IxN)) {
	if axis == len(start)-1 {
		for i := start[axis]; cont(i, end[axis]); i += step[axis] {
			cur[axis] = i
			body(cur)
		}
		return
	}
	for i := start[axis]; cont(i, end[axis]); i += step[axis] {
		cur[axis] = i
		iterNAxis(axis+1, cur, start, end, step, cont, body)
	}
}
