// Copyright 2025 The massiv Authors. SPDX-License-Identifier: Apache-2.0

package massiv

// Dimension-selector operations. All of them are partial: a Dim outside
// the valid range yields ok == false and zero results. Internally a Dim d
// addresses slot rank-d of the backing array, since dimension 1 is the
// innermost axis and component 0 the outermost.

// ---------------------------------------------------------------------------
// Rank 1
// ---------------------------------------------------------------------------

// Dim returns the component selected by d.
func (ix Ix1) Dim(d Dim) (int, bool) {
	if d != 1 {
		return 0, false
	}
	return int(ix), true
}

// SetDim replaces the component selected by d.
func (ix Ix1) SetDim(d Dim, v int) (Ix1, bool) {
	if d != 1 {
		return 0, false
	}
	return Ix1(v), true
}

// InsertDim inserts a new axis with value v at dimension d,
// producing a rank-2 index. Valid d are 1 and 2.
func (ix Ix1) InsertDim(d Dim, v int) (Ix2, bool) {
	switch d {
	case 1:
		return Ix2{int(ix), v}, true
	case 2:
		return Ix2{v, int(ix)}, true
	}
	return Ix2{}, false
}

// ---------------------------------------------------------------------------
// Rank 2
// ---------------------------------------------------------------------------

// Dim returns the component selected by d.
func (ix Ix2) Dim(d Dim) (int, bool) {
	if d < 1 || d > 2 {
		return 0, false
	}
	return ix[2-d], true
}

// SetDim replaces the component selected by d.
func (ix Ix2) SetDim(d Dim, v int) (Ix2, bool) {
	if d < 1 || d > 2 {
		return Ix2{}, false
	}
	ix[2-d] = v
	return ix, true
}

// DropDim removes the axis selected by d.
func (ix Ix2) DropDim(d Dim) (Ix1, bool) {
	_, rest, ok := ix.PullOut(d)
	return rest, ok
}

// InsertDim inserts a new axis with value v at dimension d,
// producing a rank-3 index. Valid d are 1..3.
func (ix Ix2) InsertDim(d Dim, v int) (Ix3, bool) {
	if d < 1 || d > 3 {
		return Ix3{}, false
	}
	slot := 3 - int(d)
	var out Ix3
	copy(out[:slot], ix[:slot])
	out[slot] = v
	copy(out[slot+1:], ix[slot:])
	return out, true
}

// PullOut extracts the component selected by d together with the
// remaining rank-1 index.
func (ix Ix2) PullOut(d Dim) (int, Ix1, bool) {
	switch d {
	case 1:
		return ix[1], Ix1(ix[0]), true
	case 2:
		return ix[0], Ix1(ix[1]), true
	}
	return 0, 0, false
}

// ---------------------------------------------------------------------------
// Rank 3
// ---------------------------------------------------------------------------

// Dim returns the component selected by d.
func (ix Ix3) Dim(d Dim) (int, bool) {
	if d < 1 || d > 3 {
		return 0, false
	}
	return ix[3-d], true
}

// SetDim replaces the component selected by d.
func (ix Ix3) SetDim(d Dim, v int) (Ix3, bool) {
	if d < 1 || d > 3 {
		return Ix3{}, false
	}
	ix[3-d] = v
	return ix, true
}

// DropDim removes the axis selected by d.
func (ix Ix3) DropDim(d Dim) (Ix2, bool) {
	_, rest, ok := ix.PullOut(d)
	return rest, ok
}

// InsertDim inserts a new axis with value v at dimension d,
// producing a rank-4 index. Valid d are 1..4.
func (ix Ix3) InsertDim(d Dim, v int) (Ix4, bool) {
	if d < 1 || d > 4 {
		return Ix4{}, false
	}
	slot := 4 - int(d)
	var out Ix4
	copy(out[:slot], ix[:slot])
	out[slot] = v
	copy(out[slot+1:], ix[slot:])
	return out, true
}

// PullOut extracts the component selected by d together with the
// remaining rank-2 index.
func (ix Ix3) PullOut(d Dim) (int, Ix2, bool) {
	if d < 1 || d > 3 {
		return 0, Ix2{}, false
	}
	slot := 3 - int(d)
	var rest Ix2
	copy(rest[:slot], ix[:slot])
	copy(rest[slot:], ix[slot+1:])
	return ix[slot], rest, true
}

// ---------------------------------------------------------------------------
// Rank 4
// ---------------------------------------------------------------------------

// Dim returns the component selected by d.
func (ix Ix4) Dim(d Dim) (int, bool) {
	if d < 1 || d > 4 {
		return 0, false
	}
	return ix[4-d], true
}

// SetDim replaces the component selected by d.
func (ix Ix4) SetDim(d Dim, v int) (Ix4, bool) {
	if d < 1 || d > 4 {
		return Ix4{}, false
	}
	ix[4-d] = v
	return ix, true
}

// DropDim removes the axis selected by d.
func (ix Ix4) DropDim(d Dim) (Ix3, bool) {
	_, rest, ok := ix.PullOut(d)
	return rest, ok
}

// InsertDim inserts a new axis with value v at dimension d,
// producing a rank-5 index. Valid d are 1..5.
func (ix Ix4) InsertDim(d Dim, v int) (Ix5, bool) {
	if d < 1 || d > 5 {
		return Ix5{}, false
	}
	slot := 5 - int(d)
	var out Ix5
	copy(out[:slot], ix[:slot])
	out[slot] = v
	copy(out[slot+1:], ix[slot:])
	return out, true
}

// PullOut extracts the component selected by d together with the
// remaining rank-3 index.
func (ix Ix4) PullOut(d Dim) (int, Ix3, bool) {
	if d < 1 || d > 4 {
		return 0, Ix3{}, false
	}
	slot := 4 - int(d)
	var rest Ix3
	copy(rest[:slot], ix[:slot])
	copy(rest[slot:], ix[slot+1:])
	return ix[slot], rest, true
}

// ---------------------------------------------------------------------------
// Rank 5
// ---------------------------------------------------------------------------

// Dim returns the component selected by d.
func (ix Ix5) Dim(d Dim) (int, bool) {
	if d < 1 || d > 5 {
		return 0, false
	}
	return ix[5-d], true
}

// SetDim replaces the component selected by d.
func (ix Ix5) SetDim(d Dim, v int) (Ix5, bool) {
	if d < 1 || d > 5 {
		return Ix5{}, false
	}
	ix[5-d] = v
	return ix, true
}

// DropDim removes the axis selected by d.
func (ix Ix5) DropDim(d Dim) (Ix4, bool) {
	_, rest, ok := ix.PullOut(d)
	return rest, ok
}

// PullOut extracts the component selected by d together with the
// remaining rank-4 index.
func (ix Ix5) PullOut(d Dim) (int, Ix4, bool) {
	if d < 1 || d > 5 {
		return 0, Ix4{}, false
	}
	slot := 5 - int(d)
	var rest Ix4
	copy(rest[:slot], ix[:slot])
	copy(rest[slot:], ix[slot+1:])
	return ix[slot], rest, true
}

// ---------------------------------------------------------------------------
// Rank N
// ---------------------------------------------------------------------------

// Dim returns the component selected by d.
func (ix IxN) Dim(d Dim) (int, bool) {
	r := len(ix)
	if d < 1 || int(d) > r {
		return 0, false
	}
	return ix[r-int(d)], true
}

// SetDim replaces the component selected by d. The result is a fresh slice.
func (ix IxN) SetDim(d Dim, v int) (IxN, bool) {
	r := len(ix)
	if d < 1 || int(d) > r {
		return nil, false
	}
	out := ix.Clone()
	out[r-int(d)] = v
	return out, true
}

// DropDim removes the axis selected by d. The result is a fresh slice.
func (ix IxN) DropDim(d Dim) (IxN, bool) {
	_, rest, ok := ix.PullOut(d)
	return rest, ok
}

// InsertDim inserts a new axis with value v at dimension d.
// The result is a fresh slice. Valid d are 1..rank+1.
func (ix IxN) InsertDim(d Dim, v int) (IxN, bool) {
	r := len(ix)
	if d < 1 || int(d) > r+1 {
		return nil, false
	}
	slot := r + 1 - int(d)
	out := make(IxN, r+1)
	copy(out[:slot], ix[:slot])
	out[slot] = v
	copy(out[slot+1:], ix[slot:])
	return out, true
}

// PullOut extracts the component selected by d together with the
// remaining lower-rank index. The remainder is a fresh slice.
func (ix IxN) PullOut(d Dim) (int, IxN, bool) {
	r := len(ix)
	if d < 1 || int(d) > r {
		return 0, nil, false
	}
	slot := r - int(d)
	rest := make(IxN, r-1)
	copy(rest[:slot], ix[:slot])
	copy(rest[slot:], ix[slot+1:])
	return ix[slot], rest, true
}
