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
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

func TestBoolCompareFn(t *testing.T) {
	cases := []struct {
		op   compareOp
		want [4]bool // ff ft tf tt
	}{
		{opEqual, [4]bool{true, false, false, true}},
		{opNotEqual, [4]bool{false, true, true, false}},
		{opLess, [4]bool{false, true, false, false}},
		{opLessEqual, [4]bool{true, true, false, true}},
		{opGreater, [4]bool{false, false, true, false}},
		{opGreaterEqual, [4]bool{true, false, true, true}},
	}
	for _, c := range cases {
		fn := boolCompareFn(c.op)
		got := [4]bool{fn(false, false), fn(false, true), fn(true, false), fn(true, true)}
		require.Equal(t, c.want, got, c.op.String())
	}
}

func TestMethodCompareFn(t *testing.T) {
	neg := types.Int128FromInt64(-1)
	pos := types.Int128{Lo: 0, Hi: 1}
	require.True(t, methodCompareFn[types.Int128](opLess)(neg, pos))
	require.True(t, methodCompareFn[types.Int128](opGreaterEqual)(pos, pos))
	require.False(t, methodCompareFn[types.Int128](opNotEqual)(neg, neg))

	small := types.Decimal128FromInt64(-12345)
	big := types.Decimal128FromInt64(7)
	require.True(t, methodCompareFn[types.Decimal128](opLess)(small, big))
	require.True(t, methodCompareFn[types.Decimal128](opGreater)(big, small))
	require.True(t, methodCompareFn[types.Decimal128](opEqual)(small, small))
}

func TestCompareFloat(t *testing.T) {
	nan := math.NaN()
	require.Equal(t, 0, compareFloat(nan, nan))
	require.Equal(t, 1, compareFloat(nan, math.Inf(1)))
	require.Equal(t, -1, compareFloat(math.Inf(-1), nan))
	require.Equal(t, 0, compareFloat(0.0, math.Copysign(0, -1)))
	require.Equal(t, -1, compareFloat[float32](1, 2))
}

func TestOrderedCompareFn(t *testing.T) {
	require.True(t, orderedCompareFn[string](opLess)("ab", "b"))
	require.True(t, orderedCompareFn[types.Date](opGreater)(types.DateFromCalendar(2024, 1, 1), types.DateFromCalendar(2023, 12, 31)))
	require.True(t, orderedCompareFn[types.Decimal64](opLessEqual)(types.Decimal64(-5), types.Decimal64(-5)))
	require.Equal(t, "<>", opNotEqual.String())
}
