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
	"fmt"

	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

// Mapping is how the rows of a parameter map onto its storage.
type Mapping int

const (
	// MappingIdentity means row i is stored at i.
	MappingIdentity Mapping = iota
	// MappingConstant means every row is the one stored value.
	MappingConstant
	// MappingGeneric means every row needs its own decode step.
	MappingGeneric
)

func (m Mapping) String() string {
	switch m {
	case MappingIdentity:
		return "identity"
	case MappingConstant:
		return "constant"
	case MappingGeneric:
		return "generic"
	}
	return fmt.Sprintf("mapping(%d)", int(m))
}

// FunctionParameterWrapper is generated from a vector.
// It hides the relevant details of vector (like scalar and contain null or not.)
// and provides a series of methods to get values.
type FunctionParameterWrapper[T types.NativeT] interface {
	// GetType will return the type info of wrapped parameter.
	GetType() types.Type

	// GetSourceVector return the source vector.
	GetSourceVector() *Vector

	// Mapping classifies the wrapped vector. It never changes for a wrapper.
	Mapping() Mapping

	// GetValue return the Idx th value and if it's null or not.
	GetValue(idx uint64) (T, bool)

	// UnSafeGetAllValue return all the values.
	// please use it carefully because we didn't check the null situation.
	// Generic parameters return nil.
	UnSafeGetAllValue() []T

	// WithAnyNullValue return false only if no row can be null.
	WithAnyNullValue() bool

	// GetNullMap return the null list of an identity parameter.
	GetNullMap() *nulls.Nulls
}

var _ FunctionParameterWrapper[int64] = &FunctionParameterNormal[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterWithoutNull[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterScalar[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterScalarNull[int64]{}
var _ FunctionParameterWrapper[int64] = &FunctionParameterGeneric[int64]{}

// GenerateFunctionFixedTypeParameter classifies v without copying its storage.
func GenerateFunctionFixedTypeParameter[T types.NativeT](v *Vector) FunctionParameterWrapper[T] {
	t := v.GetType()
	if v.IsConstNull() {
		return &FunctionParameterScalarNull[T]{
			typ:          *t,
			sourceVector: v,
		}
	}
	if v.IsConst() {
		return &FunctionParameterScalar[T]{
			typ:          *t,
			sourceVector: v,
			scalarValue:  MustFixedCol[T](v)[0],
		}
	}
	if v.IsDict() {
		dict, index := v.GetDict()
		return &FunctionParameterGeneric[T]{
			typ:          *t,
			sourceVector: v,
			index:        index,
			nullMap:      v.GetNulls(),
			inner:        GenerateFunctionFixedTypeParameter[T](dict),
		}
	}
	cols := MustFixedCol[T](v)
	if v.nsp.Any() {
		return &FunctionParameterNormal[T]{
			typ:          *t,
			sourceVector: v,
			values:       cols,
			nullMap:      v.GetNulls(),
		}
	}
	return &FunctionParameterWithoutNull[T]{
		typ:          *t,
		sourceVector: v,
		values:       cols,
	}
}

func GenerateFunctionStrParameter(v *Vector) FunctionParameterWrapper[string] {
	return GenerateFunctionFixedTypeParameter[string](v)
}

// FunctionParameterNormal is a wrapper of normal vector which
// may contains null value.
type FunctionParameterNormal[T types.NativeT] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
	nullMap      *nulls.Nulls
}

func (p *FunctionParameterNormal[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterNormal[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterNormal[T]) Mapping() Mapping {
	return MappingIdentity
}

func (p *FunctionParameterNormal[T]) GetValue(idx uint64) (value T, isNull bool) {
	if p.nullMap.Contains(idx) {
		return value, true
	}
	return p.values[idx], false
}

func (p *FunctionParameterNormal[T]) UnSafeGetAllValue() []T {
	return p.values
}

func (p *FunctionParameterNormal[T]) WithAnyNullValue() bool {
	return true
}

func (p *FunctionParameterNormal[T]) GetNullMap() *nulls.Nulls {
	return p.nullMap
}

// FunctionParameterWithoutNull is a wrapper of normal vector but
// without null value.
type FunctionParameterWithoutNull[T types.NativeT] struct {
	typ          types.Type
	sourceVector *Vector
	values       []T
}

func (p *FunctionParameterWithoutNull[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterWithoutNull[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterWithoutNull[T]) Mapping() Mapping {
	return MappingIdentity
}

func (p *FunctionParameterWithoutNull[T]) GetValue(idx uint64) (T, bool) {
	return p.values[idx], false
}

func (p *FunctionParameterWithoutNull[T]) UnSafeGetAllValue() []T {
	return p.values
}

func (p *FunctionParameterWithoutNull[T]) WithAnyNullValue() bool {
	return false
}

func (p *FunctionParameterWithoutNull[T]) GetNullMap() *nulls.Nulls {
	return nil
}

// FunctionParameterScalar is a wrapper of scalar vector.
type FunctionParameterScalar[T types.NativeT] struct {
	typ          types.Type
	sourceVector *Vector
	scalarValue  T
}

func (p *FunctionParameterScalar[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterScalar[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterScalar[T]) Mapping() Mapping {
	return MappingConstant
}

func (p *FunctionParameterScalar[T]) GetValue(_ uint64) (T, bool) {
	return p.scalarValue, false
}

func (p *FunctionParameterScalar[T]) UnSafeGetAllValue() []T {
	return []T{p.scalarValue}
}

func (p *FunctionParameterScalar[T]) WithAnyNullValue() bool {
	return false
}

func (p *FunctionParameterScalar[T]) GetNullMap() *nulls.Nulls {
	return nil
}

// FunctionParameterScalarNull is a wrapper of scalar null vector.
type FunctionParameterScalarNull[T types.NativeT] struct {
	typ          types.Type
	sourceVector *Vector
}

func (p *FunctionParameterScalarNull[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterScalarNull[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterScalarNull[T]) Mapping() Mapping {
	return MappingConstant
}

func (p *FunctionParameterScalarNull[T]) GetValue(_ uint64) (value T, isNull bool) {
	return value, true
}

func (p *FunctionParameterScalarNull[T]) UnSafeGetAllValue() []T {
	return nil
}

func (p *FunctionParameterScalarNull[T]) WithAnyNullValue() bool {
	return true
}

func (p *FunctionParameterScalarNull[T]) GetNullMap() *nulls.Nulls {
	return nil
}

// FunctionParameterGeneric is a wrapper of a dictionary vector. Each row is
// decoded through the index into the wrapped dictionary parameter, which may
// itself be generic.
type FunctionParameterGeneric[T types.NativeT] struct {
	typ          types.Type
	sourceVector *Vector
	index        []int32
	nullMap      *nulls.Nulls
	inner        FunctionParameterWrapper[T]
}

func (p *FunctionParameterGeneric[T]) GetType() types.Type {
	return p.typ
}

func (p *FunctionParameterGeneric[T]) GetSourceVector() *Vector {
	return p.sourceVector
}

func (p *FunctionParameterGeneric[T]) Mapping() Mapping {
	return MappingGeneric
}

func (p *FunctionParameterGeneric[T]) GetValue(idx uint64) (value T, isNull bool) {
	if p.nullMap.Contains(idx) {
		return value, true
	}
	return p.inner.GetValue(uint64(p.index[idx]))
}

func (p *FunctionParameterGeneric[T]) UnSafeGetAllValue() []T {
	return nil
}

func (p *FunctionParameterGeneric[T]) WithAnyNullValue() bool {
	return p.nullMap.Any() || p.inner.WithAnyNullValue()
}

func (p *FunctionParameterGeneric[T]) GetNullMap() *nulls.Nulls {
	return nil
}

type FunctionResultWrapper interface {
	GetResultVector() *Vector
	SetResultVector(v *Vector)
	GetType() types.Type
}

var _ FunctionResultWrapper = &FunctionResult[int64]{}

// FunctionResult is the writable output of a function call. Rows are set by
// position so that a call restricted to a selection leaves other rows alone.
type FunctionResult[T types.NativeT] struct {
	typ types.Type
	vec *Vector
}

func MustFunctionResult[T types.NativeT](wrapper FunctionResultWrapper) *FunctionResult[T] {
	if fr, ok := wrapper.(*FunctionResult[T]); ok {
		return fr
	}
	panic("wrong type for FunctionResultWrapper")
}

func newResultFunc[T types.NativeT](typ types.Type) *FunctionResult[T] {
	return &FunctionResult[T]{
		typ: typ,
	}
}

// SetValue writes row idx. A non null write clears a null left by an earlier use
// of the same buffer.
func (fr *FunctionResult[T]) SetValue(idx uint64, val T, isNull bool) {
	SetFixedAt(fr.vec, int(idx), val, isNull)
}

func (fr *FunctionResult[T]) GetType() types.Type {
	return fr.typ
}

func (fr *FunctionResult[T]) GetResultVector() *Vector {
	return fr.vec
}

func (fr *FunctionResult[T]) SetResultVector(v *Vector) {
	fr.vec = v
}

// Values returns the writable native storage of the result.
func (fr *FunctionResult[T]) Values() []T {
	return MustFixedCol[T](fr.vec)
}

// NewFunctionResultWrapper returns a result of typ with no vector attached;
// the evaluation context makes a writable vector for it before a call.
func NewFunctionResultWrapper(typ types.Type) FunctionResultWrapper {
	switch typ.Oid {
	case types.T_bool:
		return newResultFunc[bool](typ)
	case types.T_int8:
		return newResultFunc[int8](typ)
	case types.T_int16:
		return newResultFunc[int16](typ)
	case types.T_int32:
		return newResultFunc[int32](typ)
	case types.T_int64:
		return newResultFunc[int64](typ)
	case types.T_int128:
		return newResultFunc[types.Int128](typ)
	case types.T_float32:
		return newResultFunc[float32](typ)
	case types.T_float64:
		return newResultFunc[float64](typ)
	case types.T_decimal64:
		return newResultFunc[types.Decimal64](typ)
	case types.T_decimal128:
		return newResultFunc[types.Decimal128](typ)
	case types.T_date:
		return newResultFunc[types.Date](typ)
	case types.T_timestamp:
		return newResultFunc[types.Timestamp](typ)
	case types.T_varchar, types.T_varbinary:
		return newResultFunc[string](typ)
	}
	panic(fmt.Sprintf("unexpected type %s for function result", typ))
}
