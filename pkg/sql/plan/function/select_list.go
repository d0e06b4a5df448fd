// Copyright 2023 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package function

import (
	"context"

	"github.com/RoaringBitmap/roaring"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
)

// FunctionSelectList is the set of rows a function call must evaluate.
// Rows outside of it are never read or written by the call.
//
// A dense list covers [0, length). A sparse list holds strictly increasing
// positions; SelectList is its mask form, indexed by row.
type FunctionSelectList struct {
	SelectList []bool
	// AnyNull is true when some row in [0, length) is not selected.
	AnyNull bool
	// AllNull is true when no row is selected.
	AllNull bool

	length int
	sels   []int64
}

// NewFullSelectList selects every row of a batch of n rows.
func NewFullSelectList(n int) *FunctionSelectList {
	return &FunctionSelectList{
		length:  n,
		AllNull: n == 0,
	}
}

// NewSelectListFromSels selects sels out of n rows. sels must be strictly
// increasing and inside [0, n); it is used without copy.
func NewSelectListFromSels(ctx context.Context, n int, sels []int64) (*FunctionSelectList, error) {
	mask := make([]bool, n)
	last := int64(-1)
	for _, sel := range sels {
		if sel <= last {
			return nil, moerr.NewInvalidInput(ctx, "selection is not strictly increasing at row %d", sel)
		}
		if sel >= int64(n) {
			return nil, moerr.NewInvalidInput(ctx, "selected row %d out of range [0, %d)", sel, n)
		}
		mask[sel] = true
		last = sel
	}
	return &FunctionSelectList{
		SelectList: mask,
		AnyNull:    len(sels) < n,
		AllNull:    len(sels) == 0,
		length:     n,
		sels:       sels,
	}, nil
}

// NewSelectListFromBitmap selects the rows set in bm out of n rows.
func NewSelectListFromBitmap(ctx context.Context, n int, bm *roaring.Bitmap) (*FunctionSelectList, error) {
	if !bm.IsEmpty() && int(bm.Maximum()) >= n {
		return nil, moerr.NewInvalidInput(ctx, "selected row %d out of range [0, %d)", bm.Maximum(), n)
	}
	sels := make([]int64, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		sels = append(sels, int64(it.Next()))
	}
	return NewSelectListFromSels(ctx, n, sels)
}

// NewSelectListFromMask selects row i when mask[i] is true.
func NewSelectListFromMask(mask []bool) *FunctionSelectList {
	sels := make([]int64, 0, len(mask))
	for i, ok := range mask {
		if ok {
			sels = append(sels, int64(i))
		}
	}
	if len(sels) == len(mask) {
		return NewFullSelectList(len(mask))
	}
	return &FunctionSelectList{
		SelectList: mask,
		AnyNull:    true,
		AllNull:    len(sels) == 0,
		length:     len(mask),
		sels:       sels,
	}
}

// Rows is the batch length the list was built for.
func (sl *FunctionSelectList) Rows() int {
	return sl.length
}

// Len is the number of selected rows.
func (sl *FunctionSelectList) Len() int {
	if sl.ShouldEvalAllRow() {
		return sl.length
	}
	return len(sl.sels)
}

func (sl *FunctionSelectList) Contains(row uint64) bool {
	if sl.ShouldEvalAllRow() {
		return row < uint64(sl.length)
	}
	return row < uint64(len(sl.SelectList)) && sl.SelectList[row]
}

func (sl *FunctionSelectList) IgnoreAllRow() bool {
	return sl.AllNull
}

func (sl *FunctionSelectList) ShouldEvalAllRow() bool {
	return !sl.AnyNull
}

// Max returns the largest selected row, -1 if none is selected.
func (sl *FunctionSelectList) Max() int64 {
	if sl.IgnoreAllRow() {
		return -1
	}
	if sl.ShouldEvalAllRow() {
		return int64(sl.length) - 1
	}
	return sl.sels[len(sl.sels)-1]
}

// Sels returns the selected rows of a sparse list, nil for a dense one.
func (sl *FunctionSelectList) Sels() []int64 {
	if sl.ShouldEvalAllRow() {
		return nil
	}
	return sl.sels
}

// Foreach calls fn on every selected row in increasing order.
func (sl *FunctionSelectList) Foreach(fn func(row uint64)) {
	if sl.ShouldEvalAllRow() {
		for i := uint64(0); i < uint64(sl.length); i++ {
			fn(i)
		}
		return
	}
	for _, sel := range sl.sels {
		fn(uint64(sel))
	}
}

// ToBitmap returns the selected rows as a bitmap.
func (sl *FunctionSelectList) ToBitmap() *roaring.Bitmap {
	bm := roaring.New()
	if sl.ShouldEvalAllRow() {
		bm.AddRange(0, uint64(sl.length))
		return bm
	}
	for _, sel := range sl.sels {
		bm.Add(uint32(sel))
	}
	return bm
}
