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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
)

func TestParse64(t *testing.T) {
	x, err := ParseDecimal64("123.456", 10, 3)
	require.NoError(t, err)
	require.Equal(t, "123.456", x.Format(3))

	x, err = ParseDecimal64("-0.50", 5, 2)
	require.NoError(t, err)
	require.Equal(t, Decimal64(-50), x)

	// more fractional digits than the scale is another decimal type
	_, err = ParseDecimal64("-0.005", 5, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
	require.Contains(t, err.Error(), "DECIMAL(3,3) and DECIMAL(5,2)")
	_, err = ParseDecimal64("0.995", 9, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	x, err = ParseDecimal64("12", 5, 2)
	require.NoError(t, err)
	require.Equal(t, "12.00", x.Format(2))

	_, err = ParseDecimal64("1000", 5, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
	_, err = ParseDecimal64("abc", 5, 2)
	require.Error(t, err)
}

func TestParse128(t *testing.T) {
	x, err := ParseDecimal128("-12345678901234567890.12", 30, 2)
	require.NoError(t, err)
	require.True(t, x.Sign())
	require.Equal(t, "-12345678901234567890.12", x.Format(2))

	y, err := ParseDecimal128("99999999999999999999999999999999999999", 38, 0)
	require.NoError(t, err)
	require.Equal(t, "99999999999999999999999999999999999999", y.Format(0))

	_, err = ParseDecimal128("1.125", 30, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
	require.Contains(t, err.Error(), "DECIMAL(4,3) and DECIMAL(30,2)")
}

func TestCompare64(t *testing.T) {
	x, _ := ParseDecimal64("1.23", 5, 2)
	y, _ := ParseDecimal64("1.24", 5, 2)
	require.Equal(t, -1, CompareDecimal64(x, y))
	require.Equal(t, 1, y.Compare(x))
	require.Equal(t, 0, x.Compare(x))
}

func TestCompare128(t *testing.T) {
	neg := Decimal128FromInt64(-5)
	pos := Decimal128FromInt64(5)
	huge, _ := ParseDecimal128("100000000000000000000", 25, 0)
	require.Equal(t, -1, CompareDecimal128(neg, pos))
	require.Equal(t, 1, pos.Compare(neg))
	require.Equal(t, -1, pos.Compare(huge))
	require.Equal(t, 1, huge.Compare(neg))
	require.Equal(t, 0, neg.Compare(Decimal128FromInt64(-5)))
}

func TestDecimal128FromBigEndian(t *testing.T) {
	x, err := Decimal128FromBigEndian([]byte{0xff, 0xfb})
	require.NoError(t, err)
	require.Equal(t, Decimal128FromInt64(-5), x)

	x, err = Decimal128FromBigEndian([]byte{0x01, 0x00})
	require.NoError(t, err)
	require.Equal(t, Decimal128FromInt64(256), x)

	_, err = Decimal128FromBigEndian(make([]byte, 17))
	require.Error(t, err)
}
