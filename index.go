// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

// Dim selects a dimension slot in an index. Dimensions are 1-based:
// dimension 1 is the innermost (fastest-varying, contiguous) axis and
// dimension Rank() is the outermost. A Dim outside 1..Rank() makes the
// partial operations (Dim, SetDim, DropDim, InsertDim, PullOut) report
// failure; they never panic.
type Dim int

// Ix1 is a rank-1 index (or size).
type Ix1 int

// Ix2 is a rank-2 index. Component 0 is the outer (row) axis, component 1
// the inner (column) axis.
type Ix2 [2]int

// Ix3 is a rank-3 index with component 0 outermost.
type Ix3 [3]int

// Ix4 is a rank-4 index with component 0 outermost.
type Ix4 [4]int

// Ix5 is a rank-5 index with component 0 outermost.
type Ix5 [5]int

// IxN is a variable-rank index for ranks above 5. Component 0 is
// outermost. The fixed-rank types Ix1..Ix5 should be preferred wherever
// the rank is statically known; IxN trades specialization for generality.
type IxN []int

// Index is the constraint satisfied by every index type. Generic code
// dispatches on the concrete type once per call; the per-rank loops
// underneath are free of dynamic dispatch.
type Index interface {
	Ix1 | Ix2 | Ix3 | Ix4 | Ix5 | IxN
}

// ---------------------------------------------------------------------------
// Rank 1
// ---------------------------------------------------------------------------

// Rank returns 1.
func (Ix1) Rank() int { return 1 }

// TotalElem returns the element count of a rank-1 size.
func (sz Ix1) TotalElem() int { return int(sz) }

// IsSafe reports whether ix is a valid index into a size sz array.
func (ix Ix1) IsSafe(sz Ix1) bool { return ix >= 0 && ix < sz }

// ToLinear returns the row-major linear offset of ix within sz.
func (ix Ix1) ToLinear(sz Ix1) int { return int(ix) }

// FromLinear converts a linear offset back to a rank-1 index.
func (sz Ix1) FromLinear(k int) Ix1 { return Ix1(k) }

// Snoc appends an inner axis, producing a rank-2 index.
func (ix Ix1) Snoc(inner int) Ix2 { return Ix2{int(ix), inner} }

// Cons prepends an outer axis, producing a rank-2 index.
func (ix Ix1) Cons(outer int) Ix2 { return Ix2{outer, int(ix)} }

// ---------------------------------------------------------------------------
// Rank 2
// ---------------------------------------------------------------------------

// Rank returns 2.
func (Ix2) Rank() int { return 2 }

// TotalElem returns the element count of a rank-2 size.
func (sz Ix2) TotalElem() int { return sz[0] * sz[1] }

// IsSafe reports whether ix is a valid index into a size sz array.
func (ix Ix2) IsSafe(sz Ix2) bool {
	return ix[0] >= 0 && ix[0] < sz[0] && ix[1] >= 0 && ix[1] < sz[1]
}

// ToLinear returns the row-major linear offset of ix within sz.
func (ix Ix2) ToLinear(sz Ix2) int { return ix[0]*sz[1] + ix[1] }

// FromLinear converts a linear offset back to a rank-2 index.
func (sz Ix2) FromLinear(k int) Ix2 { return Ix2{k / sz[1], k % sz[1]} }

// Cons prepends an outer axis, producing a rank-3 index.
func (ix Ix2) Cons(outer int) Ix3 { return Ix3{outer, ix[0], ix[1]} }

// Uncons splits off the outermost component.
func (ix Ix2) Uncons() (int, Ix1) { return ix[0], Ix1(ix[1]) }

// Snoc appends an inner axis, producing a rank-3 index.
func (ix Ix2) Snoc(inner int) Ix3 { return Ix3{ix[0], ix[1], inner} }

// Unsnoc splits off the innermost component.
func (ix Ix2) Unsnoc() (Ix1, int) { return Ix1(ix[0]), ix[1] }

// ---------------------------------------------------------------------------
// Rank 3
// ---------------------------------------------------------------------------

// Rank returns 3.
func (Ix3) Rank() int { return 3 }

// TotalElem returns the element count of a rank-3 size.
func (sz Ix3) TotalElem() int { return sz[0] * sz[1] * sz[2] }

// IsSafe reports whether ix is a valid index into a size sz array.
func (ix Ix3) IsSafe(sz Ix3) bool {
	return ix[0] >= 0 && ix[0] < sz[0] &&
		ix[1] >= 0 && ix[1] < sz[1] &&
		ix[2] >= 0 && ix[2] < sz[2]
}

// ToLinear returns the row-major linear offset of ix within sz.
func (ix Ix3) ToLinear(sz Ix3) int {
	return (ix[0]*sz[1]+ix[1])*sz[2] + ix[2]
}

// FromLinear converts a linear offset back to a rank-3 index.
func (sz Ix3) FromLinear(k int) Ix3 {
	plane := sz[1] * sz[2]
	return Ix3{k / plane, k % plane / sz[2], k % sz[2]}
}

// Cons prepends an outer axis, producing a rank-4 index.
func (ix Ix3) Cons(outer int) Ix4 { return Ix4{outer, ix[0], ix[1], ix[2]} }

// Uncons splits off the outermost component.
func (ix Ix3) Uncons() (int, Ix2) { return ix[0], Ix2{ix[1], ix[2]} }

// Snoc appends an inner axis, producing a rank-4 index.
func (ix Ix3) Snoc(inner int) Ix4 { return Ix4{ix[0], ix[1], ix[2], inner} }

// Unsnoc splits off the innermost component.
func (ix Ix3) Unsnoc() (Ix2, int) { return Ix2{ix[0], ix[1]}, ix[2] }

// ---------------------------------------------------------------------------
// Rank 4
// ---------------------------------------------------------------------------

// Rank returns 4.
func (Ix4) Rank() int { return 4 }

// TotalElem returns the element count of a rank-4 size.
func (sz Ix4) TotalElem() int { return sz[0] * sz[1] * sz[2] * sz[3] }

// IsSafe reports whether ix is a valid index into a size sz array.
func (ix Ix4) IsSafe(sz Ix4) bool {
	for d := range ix {
		if ix[d] < 0 || ix[d] >= sz[d] {
			return false
		}
	}
	return true
}

// ToLinear returns the row-major linear offset of ix within sz.
func (ix Ix4) ToLinear(sz Ix4) int {
	return ((ix[0]*sz[1]+ix[1])*sz[2]+ix[2])*sz[3] + ix[3]
}

// FromLinear converts a linear offset back to a rank-4 index.
func (sz Ix4) FromLinear(k int) Ix4 {
	var ix Ix4
	for d := 3; d > 0; d-- {
		ix[d] = k % sz[d]
		k /= sz[d]
	}
	ix[0] = k
	return ix
}

// Cons prepends an outer axis, producing a rank-5 index.
func (ix Ix4) Cons(outer int) Ix5 { return Ix5{outer, ix[0], ix[1], ix[2], ix[3]} }

// Uncons splits off the outermost component.
func (ix Ix4) Uncons() (int, Ix3) { return ix[0], Ix3{ix[1], ix[2], ix[3]} }

// Snoc appends an inner axis, producing a rank-5 index.
func (ix Ix4) Snoc(inner int) Ix5 { return Ix5{ix[0], ix[1], ix[2], ix[3], inner} }

// Unsnoc splits off the innermost component.
func (ix Ix4) Unsnoc() (Ix3, int) { return Ix3{ix[0], ix[1], ix[2]}, ix[3] }

// ---------------------------------------------------------------------------
// Rank 5
// ---------------------------------------------------------------------------

// Rank returns 5.
func (Ix5) Rank() int { return 5 }

// TotalElem returns the element count of a rank-5 size.
func (sz Ix5) TotalElem() int { return sz[0] * sz[1] * sz[2] * sz[3] * sz[4] }

// IsSafe reports whether ix is a valid index into a size sz array.
func (ix Ix5) IsSafe(sz Ix5) bool {
	for d := range ix {
		if ix[d] < 0 || ix[d] >= sz[d] {
			return false
		}
	}
	return true
}

// ToLinear returns the row-major linear offset of ix within sz.
func (ix Ix5) ToLinear(sz Ix5) int {
	return (((ix[0]*sz[1]+ix[1])*sz[2]+ix[2])*sz[3]+ix[3])*sz[4] + ix[4]
}

// FromLinear converts a linear offset back to a rank-5 index.
func (sz Ix5) FromLinear(k int) Ix5 {
	var ix Ix5
	for d := 4; d > 0; d-- {
		ix[d] = k % sz[d]
		k /= sz[d]
	}
	ix[0] = k
	return ix
}

// Uncons splits off the outermost component.
func (ix Ix5) Uncons() (int, Ix4) { return ix[0], Ix4{ix[1], ix[2], ix[3], ix[4]} }

// Unsnoc splits off the innermost component.
func (ix Ix5) Unsnoc() (Ix4, int) { return Ix4{ix[0], ix[1], ix[2], ix[3]}, ix[4] }

// ---------------------------------------------------------------------------
// Rank N
// ---------------------------------------------------------------------------

// Rank returns the number of components.
func (ix IxN) Rank() int { return len(ix) }

// TotalElem returns the element count of a rank-N size.
func (sz IxN) TotalElem() int {
	total := 1
	for _, d := range sz {
		total *= d
	}
	return total
}

// IsSafe reports whether ix is a valid index into a size sz array.
// Indices of mismatched rank are never safe.
func (ix IxN) IsSafe(sz IxN) bool {
	if len(ix) != len(sz) {
		return false
	}
	for d := range ix {
		if ix[d] < 0 || ix[d] >= sz[d] {
			return false
		}
	}
	return true
}

// ToLinear returns the row-major linear offset of ix within sz.
func (ix IxN) ToLinear(sz IxN) int {
	k := 0
	for d := range ix {
		k = k*sz[d] + ix[d]
	}
	return k
}

// FromLinear converts a linear offset back to a rank-N index.
func (sz IxN) FromLinear(k int) IxN {
	ix := make(IxN, len(sz))
	for d := len(sz) - 1; d > 0; d-- {
		ix[d] = k % sz[d]
		k /= sz[d]
	}
	if len(sz) > 0 {
		ix[0] = k
	}
	return ix
}

// Cons prepends an outer axis. The result is a fresh slice.
func (ix IxN) Cons(outer int) IxN {
	out := make(IxN, len(ix)+1)
	out[0] = outer
	copy(out[1:], ix)
	return out
}

// Uncons splits off the outermost component. The tail aliases ix.
func (ix IxN) Uncons() (int, IxN) { return ix[0], ix[1:] }

// Snoc appends an inner axis. The result is a fresh slice.
func (ix IxN) Snoc(inner int) IxN {
	out := make(IxN, len(ix)+1)
	copy(out, ix)
	out[len(ix)] = inner
	return out
}

// Unsnoc splits off the innermost component. The head aliases ix.
func (ix IxN) Unsnoc() (IxN, int) { return ix[:len(ix)-1], ix[len(ix)-1] }

// Clone returns a copy of ix that shares no storage with it.
func (ix IxN) Clone() IxN {
	out := make(IxN, len(ix))
	copy(out, ix)
	return out
}
