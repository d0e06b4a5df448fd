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

package types

import (
	"fmt"
)

// T is the type tag of a column. It is resolved once per function call to
// pick a specialized code path; values never carry their own tag.
type T uint8

const (
	// any family
	T_any T = 0

	// bool family
	T_bool T = 10

	// numeric/integer family
	T_int8   T = 20
	T_int16  T = 21
	T_int32  T = 22
	T_int64  T = 23
	T_int128 T = 24

	// numeric/float family
	T_float32 T = 30
	T_float64 T = 31

	// fixed point family
	T_decimal64  T = 32
	T_decimal128 T = 33

	// date family
	T_date      T = 50
	T_timestamp T = 53

	// string family
	T_varchar   T = 61
	T_varbinary T = 65

	// nested family
	T_array  T = 100
	T_map    T = 101
	T_struct T = 102
)

const (
	MaxDecimal64Precision  = 18
	MaxDecimal128Precision = 38
)

// Type is the declared type of a column or function argument.
// Width is the precision of a decimal, Scale its number of fractional digits.
type Type struct {
	Oid T

	// XXX Dummy.  Size is always computed from Oid.
	Size  int32
	Width int32
	Scale int32
}

// Int128 is the native representation of T_int128.
type Int128 struct {
	Lo uint64
	Hi int64
}

type Decimal64 int64

// Decimal128 is a two's complement 128 bit unscaled value.
type Decimal128 struct {
	B0_63   uint64
	B64_127 uint64
}

// Date is the number of days since 1970-01-01.
type Date int32

// Timestamp is the number of microseconds since 1970-01-01 00:00:00 UTC.
type Timestamp int64

// FixedSizeT is the set of native representations stored by value.
type FixedSizeT interface {
	bool | int8 | int16 | int32 | int64 | Int128 |
		float32 | float64 | Decimal64 | Decimal128 | Date | Timestamp
}

// NativeT is every native representation a vector can hold.
// Text and raw bytes are both stored as immutable go strings.
type NativeT interface {
	FixedSizeT | string
}

var Types = map[string]T{
	"bool": T_bool,

	"tinyint":  T_int8,
	"smallint": T_int16,
	"int":      T_int32,
	"integer":  T_int32,
	"bigint":   T_int64,
	"hugeint":  T_int128,

	"float":  T_float32,
	"real":   T_float32,
	"double": T_float64,

	"decimal64":  T_decimal64,
	"decimal128": T_decimal128,

	"date":      T_date,
	"timestamp": T_timestamp,

	"varchar":   T_varchar,
	"text":      T_varchar,
	"varbinary": T_varbinary,

	"array":  T_array,
	"map":    T_map,
	"struct": T_struct,
}

func New(oid T, width, scale int32) Type {
	return Type{
		Oid:   oid,
		Size:  int32(oid.TypeLen()),
		Width: width,
		Scale: scale,
	}
}

// NewDecimal returns the decimal type wide enough for precision.
func NewDecimal(precision, scale int32) Type {
	if precision <= MaxDecimal64Precision {
		return New(T_decimal64, precision, scale)
	}
	return New(T_decimal128, precision, scale)
}

func (t T) ToType() Type {
	return New(t, 0, 0)
}

// Eq reports whether two declared types are identical.
// Decimals carry precision and scale in the type, so both must match too.
func (t Type) Eq(b Type) bool {
	if t.Oid != b.Oid {
		return false
	}
	if t.Oid.IsDecimal() {
		return t.Width == b.Width && t.Scale == b.Scale
	}
	return true
}

func (t Type) IsDecimal() bool {
	return t.Oid.IsDecimal()
}

func (t Type) String() string {
	if t.Oid.IsDecimal() {
		return fmt.Sprintf("DECIMAL(%d,%d)", t.Width, t.Scale)
	}
	return t.Oid.String()
}

func (t T) String() string {
	switch t {
	case T_any:
		return "ANY"
	case T_bool:
		return "BOOL"
	case T_int8:
		return "TINYINT"
	case T_int16:
		return "SMALLINT"
	case T_int32:
		return "INT"
	case T_int64:
		return "BIGINT"
	case T_int128:
		return "HUGEINT"
	case T_float32:
		return "FLOAT"
	case T_float64:
		return "DOUBLE"
	case T_decimal64:
		return "DECIMAL64"
	case T_decimal128:
		return "DECIMAL128"
	case T_date:
		return "DATE"
	case T_timestamp:
		return "TIMESTAMP"
	case T_varchar:
		return "VARCHAR"
	case T_varbinary:
		return "VARBINARY"
	case T_array:
		return "ARRAY"
	case T_map:
		return "MAP"
	case T_struct:
		return "STRUCT"
	}
	return fmt.Sprintf("unexpected type: %d", t)
}

// TypeLen returns the in memory size of one native value, 0 for
// variable length and nested types.
func (t T) TypeLen() int {
	switch t {
	case T_bool, T_int8:
		return 1
	case T_int16:
		return 2
	case T_int32, T_float32, T_date:
		return 4
	case T_int64, T_float64, T_decimal64, T_timestamp:
		return 8
	case T_int128, T_decimal128:
		return 16
	}
	return 0
}

func (t T) IsDecimal() bool {
	return t == T_decimal64 || t == T_decimal128
}

func (t T) IsString() bool {
	return t == T_varchar || t == T_varbinary
}

func (t T) IsInteger() bool {
	switch t {
	case T_int8, T_int16, T_int32, T_int64, T_int128:
		return true
	}
	return false
}

func (t T) IsFloat() bool {
	return t == T_float32 || t == T_float64
}

func (t T) IsTemporal() bool {
	return t == T_date || t == T_timestamp
}

// IsNested reports the composite tags; their children reduce to
// primitive columns but the composite itself has no native value.
func (t T) IsNested() bool {
	return t == T_array || t == T_map || t == T_struct
}

// Compare returns -1, 0 or 1.
func (x Int128) Compare(y Int128) int {
	if x.Hi != y.Hi {
		if x.Hi < y.Hi {
			return -1
		}
		return 1
	}
	if x.Lo != y.Lo {
		if x.Lo < y.Lo {
			return -1
		}
		return 1
	}
	return 0
}

func Int128FromInt64(v int64) Int128 {
	if v < 0 {
		return Int128{Lo: uint64(v), Hi: -1}
	}
	return Int128{Lo: uint64(v)}
}

func (x Int128) String() string {
	if x.Hi == 0 {
		return fmt.Sprintf("%d", x.Lo)
	}
	if x.Hi == -1 && int64(x.Lo) < 0 {
		return fmt.Sprintf("%d", int64(x.Lo))
	}
	return fmt.Sprintf("0x%016x%016x", uint64(x.Hi), x.Lo)
}
