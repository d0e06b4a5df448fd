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
	"strconv"
	"strings"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
)

func ParseBool(s string) (bool, error) {
	// try to parse as a bool, we treat TuRe as true, therefore ToLower.
	v, err := strconv.ParseBool(strings.ToLower(s))
	if err == nil {
		return v, nil
	}

	// try to parse as a number.   We treat 0 as false, and other numbers as true.
	num, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return num != 0.0, nil
	}

	return false, moerr.NewInvalidInputNoCtxf("'%s' is not a valid bool expression", s)
}

// ParseInt128 accepts any decimal integer that fits in 128 signed bits.
func ParseInt128(s string) (Int128, error) {
	bi, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Int128{}, moerr.NewInvalidInputNoCtxf("'%s' is not a valid hugeint", s)
	}
	d, err := decimal128FromBigInt(bi)
	if err != nil {
		return Int128{}, moerr.NewInvalidInputNoCtxf("'%s' is not a valid hugeint", s)
	}
	return Int128{Lo: d.B0_63, Hi: int64(d.B64_127)}, nil
}

// ParseValue converts a literal to the native representation of typ.
// The result is one of the NativeT types.
func ParseValue(typ Type, s string) (any, error) {
	switch typ.Oid {
	case T_bool:
		return ParseBool(s)
	case T_int8, T_int16, T_int32, T_int64:
		v, err := strconv.ParseInt(s, 10, typ.Oid.TypeLen()*8)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtxf("'%s' is not a valid %s", s, typ.Oid)
		}
		switch typ.Oid {
		case T_int8:
			return int8(v), nil
		case T_int16:
			return int16(v), nil
		case T_int32:
			return int32(v), nil
		}
		return v, nil
	case T_int128:
		return ParseInt128(s)
	case T_float32:
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtxf("'%s' is not a valid %s", s, typ.Oid)
		}
		return float32(v), nil
	case T_float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, moerr.NewInvalidInputNoCtxf("'%s' is not a valid %s", s, typ.Oid)
		}
		return v, nil
	case T_decimal64:
		return ParseDecimal64(s, typ.Width, typ.Scale)
	case T_decimal128:
		return ParseDecimal128(s, typ.Width, typ.Scale)
	case T_date:
		return ParseDate(s)
	case T_timestamp:
		return ParseTimestamp(s)
	case T_varchar, T_varbinary:
		return s, nil
	}
	return nil, moerr.NewNYINoCtx("literal of type %s", typ)
}
