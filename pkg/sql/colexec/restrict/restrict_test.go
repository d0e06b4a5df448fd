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

package restrict

import (
	"bytes"
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/lni/goutils/leaktest"
	"github.com/panjf2000/ants/v2"
	"github.com/parquet-go/parquet-go"
	"github.com/prashantv/gostub"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/batch"
	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/sql/plan/function"
	"github.com/matrixorigin/vecexpr/pkg/testutil"
	"github.com/matrixorigin/vecexpr/pkg/vm/engine"
	pqsource "github.com/matrixorigin/vecexpr/pkg/vm/engine/parquet"
	mock_engine "github.com/matrixorigin/vecexpr/pkg/vm/engine/test"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

var testAttrs = []engine.Attribute{
	{Name: "a", Type: types.T_int32.ToType()},
	{Name: "b", Type: types.T_varchar.ToType()},
	{Name: "c", Type: types.T_int32.ToType()},
}

func newTestRegistry(t *testing.T) *function.Registry {
	reg := function.NewRegistry()
	require.NoError(t, function.RegisterComparisonFunctions(context.Background(), reg))
	return reg
}

// newTestBatch returns
//
//	a: [1 2 3 null 5 6]
//	b: dict [x y null x x y]
//	c: [3 3 3 3 3 null]
func newTestBatch(t *testing.T) *batch.Batch {
	bat := batch.New([]string{"a", "b", "c"})
	bat.SetVector(0, vector.NewFlat(testAttrs[0].Type, []int32{1, 2, 3, 0, 5, 6}, []bool{false, false, false, true, false, false}))
	dict := vector.NewFlat(testAttrs[1].Type, []string{"x", "y"}, nil)
	b, err := vector.NewDict(dict, []int32{0, 1, 0, 0, 0, 1}, nulls.Build(2))
	require.NoError(t, err)
	bat.SetVector(1, b)
	bat.SetVector(2, vector.NewFlat(testAttrs[2].Type, []int32{3, 3, 3, 3, 3, 0}, []bool{false, false, false, false, false, true}))
	bat.SetRowCount(6)
	return bat
}

func TestString(t *testing.T) {
	arg := &Argument{Conds: []Condition{
		{Op: "<", Left: Col("a"), Right: Lit("3")},
		{Op: "=", Left: Col("b"), Right: Null()},
	}}
	buf := new(bytes.Buffer)
	String(arg, buf)
	require.Equal(t, "σ(a < '3' and b = null)", buf.String())
}

func TestCall(t *testing.T) {
	reg := newTestRegistry(t)

	convey.Convey("conjunction of column and literal conditions", t, func() {
		proc := testutil.NewProcess()
		arg := &Argument{Conds: []Condition{
			{Op: ">", Left: Col("a"), Right: Lit("1")},
			{Op: "=", Left: Col("b"), Right: Lit("x")},
			{Op: "<=", Left: Col("c"), Right: Col("a")},
		}}
		require.NoError(t, Prepare(proc, arg, reg, testAttrs))
		out, err := Call(proc, arg, newTestBatch(t))
		require.NoError(t, err)
		require.Equal(t, 1, out.RowCount())
		require.Equal(t, "a : [5]\nb : [x]\nc : [3]\n", out.String())
		require.True(t, out.GetVector(1).IsDict())

		// b is null at row 2, but row 2 is reached only after a > 1 passed it;
		// row 0 never reaches the second condition
		second := arg.results[1].GetResultVector()
		require.False(t, second.GetNulls().Contains(0))
		require.True(t, second.GetNulls().Contains(2))
		require.False(t, second.GetNulls().Contains(3))
	})

	convey.Convey("literal on the left", t, func() {
		proc := testutil.NewProcess()
		arg := &Argument{Conds: []Condition{{Op: "lessthan", Left: Lit("2"), Right: Col("a")}}}
		require.NoError(t, Prepare(proc, arg, reg, testAttrs))
		out, err := Call(proc, arg, newTestBatch(t))
		require.NoError(t, err)
		require.Equal(t, "[3 5 6]", out.GetVector(0).String())
	})

	convey.Convey("null literal selects nothing", t, func() {
		proc := testutil.NewProcess()
		arg := &Argument{Conds: []Condition{
			{Op: "=", Left: Col("a"), Right: Null()},
			{Op: "=", Left: Col("a"), Right: Col("a")},
		}}
		require.NoError(t, Prepare(proc, arg, reg, testAttrs))
		out, err := Call(proc, arg, newTestBatch(t))
		require.NoError(t, err)
		require.True(t, out.IsEmpty())
		require.Equal(t, 3, out.VectorCount())
		// the second condition is skipped
		require.Nil(t, arg.results[1].GetResultVector())
	})

	convey.Convey("every row passes", t, func() {
		proc := testutil.NewProcess()
		arg := &Argument{Conds: []Condition{{Op: "<>", Left: Col("a"), Right: Lit("100")}}}
		require.NoError(t, Prepare(proc, arg, reg, testAttrs))
		bat := &batch.Batch{}
		out, err := Call(proc, arg, bat)
		require.NoError(t, err)
		require.Same(t, bat, out)

		bat = newTestBatch(t)
		bat.GetVector(0).SetNulls(&nulls.Nulls{})
		out, err = Call(proc, arg, bat)
		require.NoError(t, err)
		require.Same(t, bat, out)
	})
}

func TestPrepareErrors(t *testing.T) {
	reg := newTestRegistry(t)
	proc := testutil.NewProcess()
	decimal := types.NewDecimal(9, 1)
	cases := []struct {
		conds []Condition
		code  uint16
	}{
		{nil, moerr.ErrInvalidInput},
		{[]Condition{{Op: "=", Left: Lit("1"), Right: Lit("1")}}, moerr.ErrInvalidInput},
		{[]Condition{{Op: "=", Left: Col("z"), Right: Lit("1")}}, moerr.ErrBadFieldError},
		{[]Condition{{Op: "=", Left: Lit("1"), Right: Col("z")}}, moerr.ErrBadFieldError},
		{[]Condition{{Op: "=", Left: Col("a"), Right: Lit("one")}}, moerr.ErrInvalidInput},
		{[]Condition{{Op: "=", Left: Col("a"), Right: Col("b")}}, moerr.ErrTypeMismatch},
		{[]Condition{{Op: "=", Left: Col("a"), Right: TypedLit("1.5", decimal)}}, moerr.ErrTypeMismatch},
		{[]Condition{{Op: "like", Left: Col("b"), Right: Lit("x")}}, moerr.ErrFunctionNotFound},
	}
	for _, c := range cases {
		err := Prepare(proc, &Argument{Conds: c.conds}, reg, testAttrs)
		require.True(t, moerr.IsMoErrCode(err, c.code), "%v: %v", c.conds, err)
	}
}

type price struct {
	ID    int64  `parquet:"id"`
	Price int64  `parquet:"price,decimal(2:9)"`
	Tag   string `parquet:"tag,dict"`
}

func TestDecimalFilterOverParquet(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctx := context.Background()
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[price](&buf)
	_, err := w.Write([]price{
		{ID: 1, Price: 150, Tag: "a"},
		{ID: 2, Price: 99, Tag: "b"},
		{ID: 3, Price: 250, Tag: "a"},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := bytes.NewReader(buf.Bytes())
	src, err := pqsource.New(ctx, "prices", r, r.Size(),
		[]pqsource.Column{{Name: "id"}, {Name: "price"}, {Name: "tag"}}, pqsource.Options{})
	require.NoError(t, err)
	defer src.Close()
	attrs := src.Attributes()
	require.Equal(t, "DECIMAL(9,2)", attrs[1].Type.String())

	reg := newTestRegistry(t)
	proc := testutil.NewProcess()

	// a literal of another scale is a different type
	err = Prepare(proc, &Argument{Conds: []Condition{
		{Op: ">=", Left: Col("price"), Right: TypedLit("1.5", types.NewDecimal(9, 1))},
	}}, reg, attrs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	// so is an untyped literal with more fractional digits than the column
	err = Prepare(proc, &Argument{Conds: []Condition{
		{Op: "=", Left: Col("price"), Right: Lit("0.995")},
	}}, reg, attrs)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	arg := &Argument{Conds: []Condition{
		{Op: ">=", Left: Col("price"), Right: Lit("1.5")},
		{Op: "=", Left: Col("tag"), Right: Lit("a")},
	}}
	require.NoError(t, Prepare(proc, arg, reg, attrs))
	outs, err := RunParallel(proc, arg, src, 2)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, "id : [1 3]\nprice : [1.50 2.50]\ntag : [a a]\n", outs[0].String())
}

func TestRunParallel(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := newTestRegistry(t)
	proc := testutil.NewProcess()
	arg := &Argument{Conds: []Condition{{Op: "<", Left: Col("a"), Right: Col("c")}}}
	require.NoError(t, Prepare(proc, arg, reg, testAttrs))

	const batches = 20
	inputs := make([]*batch.Batch, batches)
	for i := range inputs {
		inputs[i] = testutil.NewBatch([]types.Type{testAttrs[0].Type, testAttrs[1].Type, testAttrs[2].Type}, true, 50)
		inputs[i].Attrs = []string{"a", "b", "c"}
	}
	expect := make([]string, batches)
	for i, bat := range inputs {
		out, err := Call(proc, arg.Dup(), bat)
		require.NoError(t, err)
		expect[i] = out.String()
	}

	src := mock_engine.NewMockSource(ctrl)
	next := 0
	src.EXPECT().Read(gomock.Any()).DoAndReturn(func(_ context.Context) (*batch.Batch, error) {
		if next == batches {
			return nil, nil
		}
		next++
		return inputs[next-1], nil
	}).Times(batches + 1)

	outs, err := RunParallel(proc, arg, src, 4)
	require.NoError(t, err)
	require.Len(t, outs, batches)
	for i, out := range outs {
		require.Equal(t, expect[i], out.String())
	}
}

func TestRunParallelErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reg := newTestRegistry(t)
	proc := testutil.NewProcess()
	arg := &Argument{Conds: []Condition{{Op: "=", Left: Col("a"), Right: Lit("1")}}}
	require.NoError(t, Prepare(proc, arg, reg, testAttrs))

	convey.Convey("source error", t, func() {
		src := mock_engine.NewMockSource(ctrl)
		gomock.InOrder(
			src.EXPECT().Read(gomock.Any()).Return(newTestBatch(t), nil),
			src.EXPECT().Read(gomock.Any()).Return(nil, moerr.NewUnexpectedEOF(proc.Ctx, "t.parquet")),
		)
		_, err := RunParallel(proc, arg, src, 2)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrUnexpectedEOF))
	})

	convey.Convey("pool error", t, func() {
		stub := gostub.Stub(&newPool, func(int, ...ants.Option) (*ants.Pool, error) {
			return nil, moerr.NewOOM(proc.Ctx)
		})
		defer stub.Reset()
		src := mock_engine.NewMockSource(ctrl)
		_, err := RunParallel(proc, arg, src, 2)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrOOM))
	})

	convey.Convey("canceled query", t, func() {
		ctx, cancel := context.WithCancel(proc.Ctx)
		cancel()
		src := mock_engine.NewMockSource(ctrl)
		src.EXPECT().Read(gomock.Any()).Times(0)
		_, err := RunParallel(process.NewFromProc(proc, ctx), arg, src, 2)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted))
	})

	convey.Convey("panicking evaluator", t, func() {
		reg := function.NewRegistry()
		require.NoError(t, reg.Register(proc.Ctx, "boom", func(context.Context, string, []types.Type) (function.Evaluator, error) {
			return panicEvaluator{}, nil
		}))
		arg := &Argument{Conds: []Condition{{Op: "boom", Left: Col("a"), Right: Lit("1")}}}
		require.NoError(t, Prepare(proc, arg, reg, testAttrs))

		src := mock_engine.NewMockSource(ctrl)
		gomock.InOrder(
			src.EXPECT().Read(gomock.Any()).Return(newTestBatch(t), nil),
			src.EXPECT().Read(gomock.Any()).Return(nil, nil).AnyTimes(),
		)
		_, err := RunParallel(proc, arg, src, 2)
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrInternal))
		require.Contains(t, err.Error(), "panic evaluator exploded")
	})
}

type panicEvaluator struct{}

func (panicEvaluator) Name() string { return "boom" }

func (panicEvaluator) ReturnType() types.Type { return types.T_bool.ToType() }

func (panicEvaluator) Eval(*process.Process, []*vector.Vector, vector.FunctionResultWrapper, *function.FunctionSelectList) error {
	panic("evaluator exploded")
}

func (panicEvaluator) IsDefaultNullBehavior() bool { return true }

func (panicEvaluator) SupportsFlatNoNullsFastPath() bool { return true }
