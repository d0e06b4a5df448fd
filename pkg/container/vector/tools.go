// Copyright 2021 Matrix Origin
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

package vector

import (
	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

// NewConstAny builds a constant vector from a boxed native value, as returned
// by types.ParseValue. A nil val gives a constant null.
func NewConstAny(typ types.Type, val any, length int) (*Vector, error) {
	if val == nil {
		return NewConstNull(typ, length), nil
	}
	switch x := val.(type) {
	case bool:
		return newConstChecked(typ, x, length, types.T_bool)
	case int8:
		return newConstChecked(typ, x, length, types.T_int8)
	case int16:
		return newConstChecked(typ, x, length, types.T_int16)
	case int32:
		return newConstChecked(typ, x, length, types.T_int32)
	case int64:
		return newConstChecked(typ, x, length, types.T_int64)
	case types.Int128:
		return newConstChecked(typ, x, length, types.T_int128)
	case float32:
		return newConstChecked(typ, x, length, types.T_float32)
	case float64:
		return newConstChecked(typ, x, length, types.T_float64)
	case types.Decimal64:
		return newConstChecked(typ, x, length, types.T_decimal64)
	case types.Decimal128:
		return newConstChecked(typ, x, length, types.T_decimal128)
	case types.Date:
		return newConstChecked(typ, x, length, types.T_date)
	case types.Timestamp:
		return newConstChecked(typ, x, length, types.T_timestamp)
	case string:
		return newConstChecked(typ, x, length, types.T_varchar, types.T_varbinary)
	}
	return nil, moerr.NewNYINoCtx("constant of go type %T", val)
}

func newConstChecked[T types.NativeT](typ types.Type, val T, length int, oids ...types.T) (*Vector, error) {
	for _, oid := range oids {
		if typ.Oid == oid {
			return NewConstFixed(typ, val, length), nil
		}
	}
	return nil, moerr.NewInternalErrorNoCtx("constant %T for vector of type %s", val, typ)
}

// Shrink returns the rows at sels as a new vector of the same class.
// Flat storage is copied, a dictionary is shared with the result.
func (v *Vector) Shrink(sels []int64) (*Vector, error) {
	switch v.class {
	case CONSTANT:
		w := *v
		w.length = len(sels)
		return &w, nil
	case DICT:
		index := make([]int32, len(sels))
		for i, sel := range sels {
			index[i] = v.index[sel]
		}
		return NewDict(v.dict, index, nulls.Filter(v.nsp, sels))
	}
	w := NewVec(v.typ)
	switch col := v.col.(type) {
	case []bool:
		w.col = gather(col, sels)
	case []int8:
		w.col = gather(col, sels)
	case []int16:
		w.col = gather(col, sels)
	case []int32:
		w.col = gather(col, sels)
	case []int64:
		w.col = gather(col, sels)
	case []types.Int128:
		w.col = gather(col, sels)
	case []float32:
		w.col = gather(col, sels)
	case []float64:
		w.col = gather(col, sels)
	case []types.Decimal64:
		w.col = gather(col, sels)
	case []types.Decimal128:
		w.col = gather(col, sels)
	case []types.Date:
		w.col = gather(col, sels)
	case []types.Timestamp:
		w.col = gather(col, sels)
	case []string:
		w.col = gather(col, sels)
	case nil:
	default:
		return nil, moerr.NewNYINoCtx("shrink vector of type %s", v.typ)
	}
	w.nsp = nulls.Filter(v.nsp, sels)
	w.length = len(sels)
	return w, nil
}

func gather[T types.NativeT](col []T, sels []int64) []T {
	rs := make([]T, len(sels))
	for i, sel := range sels {
		rs[i] = col[sel]
	}
	return rs
}
