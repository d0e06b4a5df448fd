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
	"context"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

var boolType = types.T_bool.ToType()

// comparisonNames maps every registered spelling to its operator.
var comparisonNames = []struct {
	name string
	op   compareOp
}{
	{"=", opEqual},
	{"equalto", opEqual},
	{"<>", opNotEqual},
	{"!=", opNotEqual},
	{"notequalto", opNotEqual},
	{"<", opLess},
	{"lessthan", opLess},
	{"<=", opLessEqual},
	{"lessthanorequal", opLessEqual},
	{">", opGreater},
	{"greaterthan", opGreater},
	{">=", opGreaterEqual},
	{"greaterthanorequal", opGreaterEqual},
}

// RegisterComparisonFunctions adds the comparison family to reg.
func RegisterComparisonFunctions(ctx context.Context, reg *Registry) error {
	for _, c := range comparisonNames {
		if err := reg.Register(ctx, c.name, makeComparison(c.op)); err != nil {
			return err
		}
	}
	return nil
}

type compareEvaluator[T types.NativeT] struct {
	name string
	op   compareOp
	// argument type the evaluator was resolved for
	typ types.Type
	cmp compareFn[T]
}

var _ Evaluator = &compareEvaluator[int32]{}

func newCompareEvaluator[T types.NativeT](name string, op compareOp, typ types.Type, cmp compareFn[T]) Evaluator {
	return &compareEvaluator[T]{name: name, op: op, typ: typ, cmp: cmp}
}

func (e *compareEvaluator[T]) Name() string {
	return e.name
}

func (e *compareEvaluator[T]) ReturnType() types.Type {
	return boolType
}

func (e *compareEvaluator[T]) IsDefaultNullBehavior() bool {
	return true
}

func (e *compareEvaluator[T]) SupportsFlatNoNullsFastPath() bool {
	return true
}

func (e *compareEvaluator[T]) Eval(proc *process.Process, parameters []*vector.Vector,
	result vector.FunctionResultWrapper, selectList *FunctionSelectList) error {
	if len(parameters) != 2 {
		return moerr.NewFunctionArity(proc.Ctx, e.name, 2, len(parameters))
	}
	for _, p := range parameters {
		if typ := *p.GetType(); !typ.Eq(e.typ) {
			return moerr.NewTypeMismatch(proc.Ctx, e.name, e.typ, typ)
		}
	}
	return opBinaryCompare[T](e.name, parameters, result, proc, e.cmp, selectList, e.SupportsFlatNoNullsFastPath())
}

// makeComparison returns the factory of one operator. The arguments are
// checked in order: count, identical declared types, supported type.
func makeComparison(op compareOp) Factory {
	return func(ctx context.Context, name string, args []types.Type) (Evaluator, error) {
		if len(args) != 2 {
			return nil, moerr.NewFunctionArity(ctx, name, 2, len(args))
		}
		if !args[0].Eq(args[1]) {
			return nil, moerr.NewTypeMismatch(ctx, name, args[0], args[1])
		}
		switch args[0].Oid {
		case types.T_bool:
			return newCompareEvaluator(name, op, args[0], boolCompareFn(op)), nil
		case types.T_int8:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[int8](op)), nil
		case types.T_int16:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[int16](op)), nil
		case types.T_int32:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[int32](op)), nil
		case types.T_int64:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[int64](op)), nil
		case types.T_int128:
			return newCompareEvaluator(name, op, args[0], methodCompareFn[types.Int128](op)), nil
		case types.T_float32:
			return newCompareEvaluator(name, op, args[0], floatCompareFn[float32](op)), nil
		case types.T_float64:
			return newCompareEvaluator(name, op, args[0], floatCompareFn[float64](op)), nil
		case types.T_decimal64:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[types.Decimal64](op)), nil
		case types.T_decimal128:
			return newCompareEvaluator(name, op, args[0], methodCompareFn[types.Decimal128](op)), nil
		case types.T_date:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[types.Date](op)), nil
		case types.T_timestamp:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[types.Timestamp](op)), nil
		case types.T_varchar, types.T_varbinary:
			return newCompareEvaluator(name, op, args[0], orderedCompareFn[string](op)), nil
		}
		return nil, moerr.NewNYI(ctx, "operator '%s' with arguments of type %s", name, args[0])
	}
}
