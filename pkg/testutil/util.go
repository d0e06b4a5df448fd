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

package testutil

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"github.com/matrixorigin/vecexpr/pkg/container/batch"
	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

// NullEvery is the stride of the null rows NewVector generates.
const NullEvery = 7

func NewProcess() *process.Process {
	return process.New(context.Background(), process.Limitation{})
}

func NewBatch(ts []types.Type, random bool, n int) *batch.Batch {
	bat := batch.NewWithSize(len(ts))
	for i := range bat.Vecs {
		bat.Vecs[i] = NewVector(n, ts[i], random)
	}
	bat.SetRowCount(n)
	return bat
}

// NewVector builds a flat vector of n rows of typ. Row i is null when
// i%NullEvery == NullEvery-1. Random values are drawn from a small range so
// that comparisons hit equal pairs too.
func NewVector(n int, typ types.Type, random bool) *vector.Vector {
	switch typ.Oid {
	case types.T_bool:
		return newFixedVector(n, typ, random, func(v int) bool { return v%2 == 0 })
	case types.T_int8:
		return newFixedVector(n, typ, random, func(v int) int8 { return int8(v) })
	case types.T_int16:
		return newFixedVector(n, typ, random, func(v int) int16 { return int16(v) })
	case types.T_int32:
		return newFixedVector(n, typ, random, func(v int) int32 { return int32(v) })
	case types.T_int64:
		return newFixedVector(n, typ, random, func(v int) int64 { return int64(v) })
	case types.T_int128:
		return newFixedVector(n, typ, random, func(v int) types.Int128 { return types.Int128FromInt64(int64(v) - 5) })
	case types.T_float32:
		return newFixedVector(n, typ, random, func(v int) float32 {
			if v == 0 {
				return float32(math.NaN())
			}
			return float32(v) / 2
		})
	case types.T_float64:
		return newFixedVector(n, typ, random, func(v int) float64 {
			if v == 0 {
				return math.NaN()
			}
			return float64(v) / 4
		})
	case types.T_decimal64:
		return newFixedVector(n, typ, random, func(v int) types.Decimal64 { return types.Decimal64(v*125 - 500) })
	case types.T_decimal128:
		return newFixedVector(n, typ, random, func(v int) types.Decimal128 { return types.Decimal128FromInt64(int64(v)*125 - 500) })
	case types.T_date:
		return newFixedVector(n, typ, random, func(v int) types.Date { return types.DateFromCalendar(2023, 1, uint8(v+1)) })
	case types.T_timestamp:
		return newFixedVector(n, typ, random, func(v int) types.Timestamp {
			return types.TimestampFromUnixMicro(int64(v) * 1000000)
		})
	case types.T_varchar, types.T_varbinary:
		return newFixedVector(n, typ, random, func(v int) string { return "s" + strconv.Itoa(v) })
	default:
		panic(fmt.Errorf("unsupport vector's type '%v", typ))
	}
}

func newFixedVector[T types.NativeT](n int, typ types.Type, random bool, gen func(int) T) *vector.Vector {
	vals := make([]T, n)
	isNulls := make([]bool, n)
	for i := range vals {
		if i%NullEvery == NullEvery-1 {
			isNulls[i] = true
			continue
		}
		if random {
			vals[i] = gen(rand.Intn(10))
		} else {
			vals[i] = gen(i % 10)
		}
	}
	return vector.NewFlat(typ, vals, isNulls)
}

// ToDict re-encodes a vector as a dictionary over the reversed rows.
// Null rows alternate between a null index and a null dictionary entry.
func ToDict(vec *vector.Vector) *vector.Vector {
	switch vec.GetType().Oid {
	case types.T_bool:
		return toDict[bool](vec)
	case types.T_int8:
		return toDict[int8](vec)
	case types.T_int16:
		return toDict[int16](vec)
	case types.T_int32:
		return toDict[int32](vec)
	case types.T_int64:
		return toDict[int64](vec)
	case types.T_int128:
		return toDict[types.Int128](vec)
	case types.T_float32:
		return toDict[float32](vec)
	case types.T_float64:
		return toDict[float64](vec)
	case types.T_decimal64:
		return toDict[types.Decimal64](vec)
	case types.T_decimal128:
		return toDict[types.Decimal128](vec)
	case types.T_date:
		return toDict[types.Date](vec)
	case types.T_timestamp:
		return toDict[types.Timestamp](vec)
	case types.T_varchar, types.T_varbinary:
		return toDict[string](vec)
	}
	panic(fmt.Errorf("unsupport vector's type '%v", vec.GetType()))
}

func toDict[T types.NativeT](vec *vector.Vector) *vector.Vector {
	n := vec.Length()
	vals := make([]T, n)
	dictNulls := make([]bool, n)
	index := make([]int32, n)
	outer := &nulls.Nulls{}
	for i := 0; i < n; i++ {
		j := n - 1 - i
		index[i] = int32(j)
		val, isNull := vector.GetFixedAt[T](vec, i)
		switch {
		case isNull && i%2 == 0:
			outer.Set(uint64(i))
		case isNull:
			dictNulls[j] = true
		default:
			vals[j] = val
		}
	}
	dict, err := vector.NewDict(vector.NewFlat(*vec.GetType(), vals, dictNulls), index, outer)
	if err != nil {
		panic(err)
	}
	return dict
}

// ToConst returns a constant vector of length n holding row i of vec.
func ToConst(vec *vector.Vector, i int, n int) *vector.Vector {
	switch vec.GetType().Oid {
	case types.T_bool:
		return toConst[bool](vec, i, n)
	case types.T_int8:
		return toConst[int8](vec, i, n)
	case types.T_int16:
		return toConst[int16](vec, i, n)
	case types.T_int32:
		return toConst[int32](vec, i, n)
	case types.T_int64:
		return toConst[int64](vec, i, n)
	case types.T_int128:
		return toConst[types.Int128](vec, i, n)
	case types.T_float32:
		return toConst[float32](vec, i, n)
	case types.T_float64:
		return toConst[float64](vec, i, n)
	case types.T_decimal64:
		return toConst[types.Decimal64](vec, i, n)
	case types.T_decimal128:
		return toConst[types.Decimal128](vec, i, n)
	case types.T_date:
		return toConst[types.Date](vec, i, n)
	case types.T_timestamp:
		return toConst[types.Timestamp](vec, i, n)
	case types.T_varchar, types.T_varbinary:
		return toConst[string](vec, i, n)
	}
	panic(fmt.Errorf("unsupport vector's type '%v", vec.GetType()))
}

func toConst[T types.NativeT](vec *vector.Vector, i int, n int) *vector.Vector {
	val, isNull := vector.GetFixedAt[T](vec, i)
	if isNull {
		return vector.NewConstNull(*vec.GetType(), n)
	}
	return vector.NewConstFixed(*vec.GetType(), val, n)
}

// Repeat returns a flat vector of n copies of row i of vec.
func Repeat(vec *vector.Vector, i int, n int) *vector.Vector {
	return ToFlat(ToConst(vec, i, n))
}

// ToFlat materializes any encoding of vec.
func ToFlat(vec *vector.Vector) *vector.Vector {
	switch vec.GetType().Oid {
	case types.T_bool:
		return vector.Flatten[bool](vec)
	case types.T_int8:
		return vector.Flatten[int8](vec)
	case types.T_int16:
		return vector.Flatten[int16](vec)
	case types.T_int32:
		return vector.Flatten[int32](vec)
	case types.T_int64:
		return vector.Flatten[int64](vec)
	case types.T_int128:
		return vector.Flatten[types.Int128](vec)
	case types.T_float32:
		return vector.Flatten[float32](vec)
	case types.T_float64:
		return vector.Flatten[float64](vec)
	case types.T_decimal64:
		return vector.Flatten[types.Decimal64](vec)
	case types.T_decimal128:
		return vector.Flatten[types.Decimal128](vec)
	case types.T_date:
		return vector.Flatten[types.Date](vec)
	case types.T_timestamp:
		return vector.Flatten[types.Timestamp](vec)
	case types.T_varchar, types.T_varbinary:
		return vector.Flatten[string](vec)
	}
	panic(fmt.Errorf("unsupport vector's type '%v", vec.GetType()))
}

// SupportedTypes lists one type of every kind the comparison family accepts.
func SupportedTypes() []types.Type {
	return []types.Type{
		types.T_bool.ToType(),
		types.T_int8.ToType(),
		types.T_int16.ToType(),
		types.T_int32.ToType(),
		types.T_int64.ToType(),
		types.T_int128.ToType(),
		types.T_float32.ToType(),
		types.T_float64.ToType(),
		types.NewDecimal(10, 2),
		types.NewDecimal(30, 2),
		types.T_date.ToType(),
		types.T_timestamp.ToType(),
		types.T_varchar.ToType(),
		types.T_varbinary.ToType(),
	}
}
