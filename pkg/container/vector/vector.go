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
	"bytes"
	"fmt"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

const (
	FLAT     = iota // flat vector represent a uncompressed vector
	CONSTANT        // const vector
	DICT            // dictionary vector, rows are reached through an index
)

// Vector represent a column
type Vector struct {
	// vector's class
	class int
	// type represent the type of column
	typ types.Type
	nsp *nulls.Nulls // nulls list

	// []T of the native type. a const vector holds exactly one element,
	// a const null holds none.
	col any

	length int

	// for DICT, row i is dict[index[i]] unless nsp marks i as null.
	index []int32
	dict  *Vector
}

func (v *Vector) Length() int {
	return v.length
}

func (v *Vector) GetType() *types.Type {
	return &v.typ
}

func (v *Vector) GetNulls() *nulls.Nulls {
	return v.nsp
}

func (v *Vector) SetNulls(nsp *nulls.Nulls) {
	v.nsp = nsp
}

func (v *Vector) GetClass() int {
	return v.class
}

func (v *Vector) IsConst() bool {
	return v.class == CONSTANT
}

func (v *Vector) IsConstNull() bool {
	return v.class == CONSTANT && v.nsp.Contains(0)
}

func (v *Vector) IsDict() bool {
	return v.class == DICT
}

// GetDict returns the dictionary and the index of a DICT vector.
func (v *Vector) GetDict() (*Vector, []int32) {
	return v.dict, v.index
}

func NewVec(typ types.Type) *Vector {
	return &Vector{
		typ:   typ,
		class: FLAT,
		nsp:   &nulls.Nulls{},
	}
}

// NewFlat builds a flat vector over vals. isNulls may be nil, meaning no
// nulls; the slice is used without copy.
func NewFlat[T types.NativeT](typ types.Type, vals []T, isNulls []bool) *Vector {
	vec := NewVec(typ)
	vec.col = vals
	vec.length = len(vals)
	for i, isNull := range isNulls {
		if isNull {
			vec.nsp.Set(uint64(i))
		}
	}
	return vec
}

// NewRowsNull returns a flat vector of length rows whose every row is null.
func NewRowsNull(typ types.Type, length int) (*Vector, error) {
	vec := NewVec(typ)
	if err := vec.PreExtend(length); err != nil {
		return nil, err
	}
	nulls.AddRange(vec.nsp, 0, uint64(length))
	return vec, nil
}

func NewConstFixed[T types.NativeT](typ types.Type, val T, length int) *Vector {
	return &Vector{
		typ:    typ,
		class:  CONSTANT,
		nsp:    &nulls.Nulls{},
		col:    []T{val},
		length: length,
	}
}

func NewConstNull(typ types.Type, length int) *Vector {
	return &Vector{
		typ:    typ,
		class:  CONSTANT,
		nsp:    nulls.Build(0),
		length: length,
	}
}

// NewDict wraps dict with an index. nsp marks rows that are null regardless
// of the dictionary entry and may be nil. Every index must be a valid row of
// dict, dict may itself be of any class.
func NewDict(dict *Vector, index []int32, nsp *nulls.Nulls) (*Vector, error) {
	for _, i := range index {
		if i < 0 || int(i) >= dict.Length() {
			return nil, moerr.NewInvalidInputNoCtxf("dictionary index %d out of range [0, %d)", i, dict.Length())
		}
	}
	if nsp == nil {
		nsp = &nulls.Nulls{}
	}
	return &Vector{
		typ:    dict.typ,
		class:  DICT,
		nsp:    nsp,
		length: len(index),
		index:  index,
		dict:   dict,
	}, nil
}

// MustFixedCol returns the native values of a flat or const vector.
func MustFixedCol[T types.NativeT](v *Vector) []T {
	if v.col == nil {
		return nil
	}
	return v.col.([]T)
}

// GetFixedAt resolves row i through any encoding.
func GetFixedAt[T types.NativeT](v *Vector, i int) (val T, isNull bool) {
	switch v.class {
	case CONSTANT:
		if v.IsConstNull() {
			return val, true
		}
		return v.col.([]T)[0], false
	case DICT:
		if v.nsp.Contains(uint64(i)) {
			return val, true
		}
		return GetFixedAt[T](v.dict, int(v.index[i]))
	}
	if v.nsp.Contains(uint64(i)) {
		return val, true
	}
	return v.col.([]T)[i], false
}

// SetFixedAt overwrites row idx of a flat vector.
func SetFixedAt[T types.NativeT](v *Vector, idx int, val T, isNull bool) {
	if isNull {
		v.nsp.Set(uint64(idx))
		return
	}
	if v.nsp.Any() {
		nulls.Del(v.nsp, uint64(idx))
	}
	v.col.([]T)[idx] = val
}

func AppendFixed[T types.NativeT](v *Vector, val T, isNull bool) error {
	if v.class != FLAT {
		return moerr.NewInternalErrorNoCtx("append to %s vector", className(v.class))
	}
	col, ok := v.col.([]T)
	if v.col != nil && !ok {
		return moerr.NewInternalErrorNoCtx("append %T to vector of type %s", val, v.typ)
	}
	if isNull {
		var zero T
		val = zero
		v.nsp.Set(uint64(v.length))
	}
	v.col = append(col, val)
	v.length++
	return nil
}

func AppendFixedList[T types.NativeT](v *Vector, vals []T, isNulls []bool) error {
	for i, val := range vals {
		if err := AppendFixed(v, val, len(isNulls) > 0 && isNulls[i]); err != nil {
			return err
		}
	}
	return nil
}

// Flatten materializes any encoding into a new flat vector.
func Flatten[T types.NativeT](v *Vector) *Vector {
	vals := make([]T, v.length)
	vec := NewVec(v.typ)
	for i := range vals {
		val, isNull := GetFixedAt[T](v, i)
		if isNull {
			vec.nsp.Set(uint64(i))
			continue
		}
		vals[i] = val
	}
	vec.col = vals
	vec.length = v.length
	return vec
}

// PreExtend allocates rows zero values for an empty flat vector.
func (v *Vector) PreExtend(rows int) error {
	if v.class != FLAT || v.length != 0 {
		return moerr.NewInternalErrorNoCtx("pre extend %s vector of length %d", className(v.class), v.length)
	}
	switch v.typ.Oid {
	case types.T_bool:
		v.col = make([]bool, rows)
	case types.T_int8:
		v.col = make([]int8, rows)
	case types.T_int16:
		v.col = make([]int16, rows)
	case types.T_int32:
		v.col = make([]int32, rows)
	case types.T_int64:
		v.col = make([]int64, rows)
	case types.T_int128:
		v.col = make([]types.Int128, rows)
	case types.T_float32:
		v.col = make([]float32, rows)
	case types.T_float64:
		v.col = make([]float64, rows)
	case types.T_decimal64:
		v.col = make([]types.Decimal64, rows)
	case types.T_decimal128:
		v.col = make([]types.Decimal128, rows)
	case types.T_date:
		v.col = make([]types.Date, rows)
	case types.T_timestamp:
		v.col = make([]types.Timestamp, rows)
	case types.T_varchar, types.T_varbinary:
		v.col = make([]string, rows)
	default:
		return moerr.NewNYINoCtx("vector of type %s", v.typ)
	}
	v.length = rows
	return nil
}

// GetAny resolves row i through any encoding and boxes the native value.
func (v *Vector) GetAny(i int) (any, bool) {
	switch v.typ.Oid {
	case types.T_bool:
		return GetFixedAt[bool](v, i)
	case types.T_int8:
		return GetFixedAt[int8](v, i)
	case types.T_int16:
		return GetFixedAt[int16](v, i)
	case types.T_int32:
		return GetFixedAt[int32](v, i)
	case types.T_int64:
		return GetFixedAt[int64](v, i)
	case types.T_int128:
		return GetFixedAt[types.Int128](v, i)
	case types.T_float32:
		return GetFixedAt[float32](v, i)
	case types.T_float64:
		return GetFixedAt[float64](v, i)
	case types.T_decimal64:
		return GetFixedAt[types.Decimal64](v, i)
	case types.T_decimal128:
		return GetFixedAt[types.Decimal128](v, i)
	case types.T_date:
		return GetFixedAt[types.Date](v, i)
	case types.T_timestamp:
		return GetFixedAt[types.Timestamp](v, i)
	case types.T_varchar, types.T_varbinary:
		return GetFixedAt[string](v, i)
	}
	return nil, true
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := 0; i < v.length; i++ {
		if i > 0 {
			buf.WriteByte(' ')
		}
		val, isNull := v.GetAny(i)
		if isNull {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(FormatValue(v.typ, val))
	}
	buf.WriteByte(']')
	return buf.String()
}

// FormatValue renders one native value of typ.
func FormatValue(typ types.Type, val any) string {
	switch x := val.(type) {
	case types.Decimal64:
		return x.Format(typ.Scale)
	case types.Decimal128:
		return x.Format(typ.Scale)
	case string:
		if typ.Oid == types.T_varbinary {
			return fmt.Sprintf("%x", x)
		}
		return x
	}
	return fmt.Sprintf("%v", val)
}

func className(class int) string {
	switch class {
	case FLAT:
		return "flat"
	case CONSTANT:
		return "const"
	case DICT:
		return "dict"
	}
	return fmt.Sprintf("class(%d)", class)
}
