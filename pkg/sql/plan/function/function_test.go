// Copyright 2021 - 2022 Matrix Origin
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
	"testing"

	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

func TestRegistry(t *testing.T) {
	ctx := context.Background()

	convey.Convey("names are registered once", t, func() {
		reg := NewRegistry()
		require.NoError(t, RegisterComparisonFunctions(ctx, reg))
		err := RegisterComparisonFunctions(ctx, reg)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrDupFunction))
		err = reg.Register(ctx, " EQUALTO ", makeComparison(opEqual))
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrDupFunction))
	})

	convey.Convey("list is sorted", t, func() {
		reg := NewRegistry()
		require.NoError(t, RegisterComparisonFunctions(ctx, reg))
		require.Equal(t, []string{
			"!=", "<", "<=", "<>", "=", ">", ">=",
			"equalto", "greaterthan", "greaterthanorequal",
			"lessthan", "lessthanorequal", "notequalto",
		}, reg.List())
	})

	convey.Convey("aliases resolve to the same operator", t, func() {
		reg := NewRegistry()
		require.NoError(t, RegisterComparisonFunctions(ctx, reg))
		typ := types.T_int8.ToType()
		args := []types.Type{typ, typ}
		for _, pair := range [][2]string{
			{"=", "EqualTo"}, {"<>", "!="}, {"<>", "notequalto"}, {"<", "LessThan"},
			{"<=", "lessthanorequal"}, {">", "greaterthan"}, {">=", "GreaterThanOrEqual"},
		} {
			a, err := reg.Resolve(ctx, pair[0], args)
			require.NoError(t, err)
			b, err := reg.Resolve(ctx, pair[1], args)
			require.NoError(t, err)
			require.Equal(t, a.(*compareEvaluator[int8]).op, b.(*compareEvaluator[int8]).op)
			require.Equal(t, pair[1], b.Name())
		}
	})

	convey.Convey("unknown names", t, func() {
		reg := NewRegistry()
		_, err := reg.Resolve(ctx, "like", nil)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrFunctionNotFound))
		require.Contains(t, err.Error(), "like")
	})
}
