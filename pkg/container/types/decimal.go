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
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
)

var (
	two128 = new(big.Int).Lsh(big.NewInt(1), 128)
	two127 = new(big.Int).Lsh(big.NewInt(1), 127)
	mask64 = new(big.Int).SetUint64(^uint64(0))
)

// Decimal values are unscaled integers; the scale lives in the column Type,
// so two decimals are only comparable when their types are Eq.

func CompareDecimal64(x, y Decimal64) int {
	if x < y {
		return -1
	}
	if x > y {
		return 1
	}
	return 0
}

func (x Decimal64) Compare(y Decimal64) int {
	return CompareDecimal64(x, y)
}

func CompareDecimal128(x, y Decimal128) int {
	xh, yh := int64(x.B64_127), int64(y.B64_127)
	if xh != yh {
		if xh < yh {
			return -1
		}
		return 1
	}
	if x.B0_63 != y.B0_63 {
		if x.B0_63 < y.B0_63 {
			return -1
		}
		return 1
	}
	return 0
}

func (x Decimal128) Compare(y Decimal128) int {
	return CompareDecimal128(x, y)
}

func (x Decimal128) Sign() bool {
	return int64(x.B64_127) < 0
}

func Decimal128FromInt64(v int64) Decimal128 {
	if v < 0 {
		return Decimal128{B0_63: uint64(v), B64_127: ^uint64(0)}
	}
	return Decimal128{B0_63: uint64(v)}
}

// Decimal128FromBigEndian decodes a two's complement big endian integer of
// at most 16 bytes, the layout parquet uses for FIXED_LEN_BYTE_ARRAY decimals.
func Decimal128FromBigEndian(b []byte) (Decimal128, error) {
	if len(b) > 16 {
		return Decimal128{}, moerr.NewOutOfRangeNoCtx("decimal128", "%d bytes", len(b))
	}
	var fill uint64
	if len(b) > 0 && b[0]&0x80 != 0 {
		fill = ^uint64(0)
	}
	hi, lo := fill, fill
	for _, c := range b {
		hi = hi<<8 | lo>>56
		lo = lo<<8 | uint64(c)
	}
	return Decimal128{B0_63: lo, B64_127: hi}, nil
}

func (x Decimal128) toBigInt() *big.Int {
	bi := new(big.Int).SetUint64(x.B64_127)
	bi.Lsh(bi, 64)
	bi.Or(bi, new(big.Int).SetUint64(x.B0_63))
	if x.Sign() {
		bi.Sub(bi, two128)
	}
	return bi
}

func decimal128FromBigInt(bi *big.Int) (Decimal128, error) {
	if bi.Cmp(two127) >= 0 || new(big.Int).Neg(bi).Cmp(two127) > 0 {
		return Decimal128{}, moerr.NewOutOfRangeNoCtx("decimal128", "%s", bi.String())
	}
	v := new(big.Int).Set(bi)
	if v.Sign() < 0 {
		v.Add(v, two128)
	}
	lo := new(big.Int).And(v, mask64).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return Decimal128{B0_63: lo, B64_127: hi}, nil
}

// parseUnscaled parses s and returns it multiplied by 10^typ.Scale. A literal
// with more fractional digits than typ.Scale is of another decimal type and is
// rejected, as are values with more than typ.Width digits.
func parseUnscaled(s string, typ Type) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, moerr.NewInvalidInputNoCtxf("invalid decimal value %s", s)
	}
	if exp := d.Exponent(); exp < 0 && -exp > typ.Scale {
		return nil, moerr.NewTypeMismatchNoCtx("literal "+s, literalDecimalType(d), typ)
	}
	bi := d.Shift(typ.Scale).BigInt()
	if typ.Width > 0 {
		limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(typ.Width)), nil)
		if new(big.Int).Abs(bi).Cmp(limit) >= 0 {
			return nil, moerr.NewOutOfRangeNoCtx("decimal", "value %s exceeds %s", s, typ)
		}
	}
	return bi, nil
}

// literalDecimalType is the type a literal declares by its digits.
func literalDecimalType(d decimal.Decimal) Type {
	scale := -d.Exponent()
	precision := int32(len(new(big.Int).Abs(d.Coefficient()).String()))
	if precision < scale {
		precision = scale
	}
	return NewDecimal(precision, scale)
}

func ParseDecimal64(s string, width, scale int32) (Decimal64, error) {
	if width > MaxDecimal64Precision {
		return 0, moerr.NewOutOfRangeNoCtx("decimal64", "precision %d", width)
	}
	bi, err := parseUnscaled(s, New(T_decimal64, width, scale))
	if err != nil {
		return 0, err
	}
	if !bi.IsInt64() {
		return 0, moerr.NewOutOfRangeNoCtx("decimal64", "%s", s)
	}
	return Decimal64(bi.Int64()), nil
}

func ParseDecimal128(s string, width, scale int32) (Decimal128, error) {
	if width > MaxDecimal128Precision {
		return Decimal128{}, moerr.NewOutOfRangeNoCtx("decimal128", "precision %d", width)
	}
	bi, err := parseUnscaled(s, New(T_decimal128, width, scale))
	if err != nil {
		return Decimal128{}, err
	}
	return decimal128FromBigInt(bi)
}

func (x Decimal64) Format(scale int32) string {
	return decimal.New(int64(x), -scale).StringFixed(scale)
}

func (x Decimal128) Format(scale int32) string {
	return decimal.NewFromBigInt(x.toBigInt(), -scale).StringFixed(scale)
}
