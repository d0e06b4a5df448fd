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
	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	v2 "github.com/matrixorigin/vecexpr/pkg/util/metric/v2"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

type compareStrategy int

const (
	strategyFlatFlat compareStrategy = iota
	strategyFlatFlatNoNull
	strategyFlatConst
	strategyConstFlat
	strategyConstConst
	strategyConstNull
	strategyGeneric
)

func (s compareStrategy) String() string {
	switch s {
	case strategyFlatFlat:
		return "flat_flat"
	case strategyFlatFlatNoNull:
		return "flat_flat_no_null"
	case strategyFlatConst:
		return "flat_const"
	case strategyConstFlat:
		return "const_flat"
	case strategyConstConst:
		return "const_const"
	case strategyConstNull:
		return "const_null"
	}
	return "generic"
}

func (s compareStrategy) record(rows int) {
	switch s {
	case strategyFlatFlat:
		v2.CompareFlatFlatCounter.Inc()
	case strategyFlatFlatNoNull:
		v2.CompareFlatFlatNoNullCounter.Inc()
	case strategyFlatConst:
		v2.CompareFlatConstCounter.Inc()
	case strategyConstFlat:
		v2.CompareConstFlatCounter.Inc()
	case strategyConstConst:
		v2.CompareConstConstCounter.Inc()
	case strategyConstNull:
		v2.CompareConstNullCounter.Inc()
	default:
		v2.CompareGenericCounter.Inc()
	}
	v2.CompareRowsCounter.Add(float64(rows))
}

// pickCompareStrategy classifies a pair of parameters once per call.
// A generic side sends the whole call to the per row decode loop, whatever
// the other side is.
func pickCompareStrategy[T types.NativeT](p1, p2 vector.FunctionParameterWrapper[T], flatNoNullFastPath bool) compareStrategy {
	m1, m2 := p1.Mapping(), p2.Mapping()
	switch {
	case m1 == vector.MappingGeneric || m2 == vector.MappingGeneric:
		return strategyGeneric
	case m1 == vector.MappingConstant && p1.WithAnyNullValue(),
		m2 == vector.MappingConstant && p2.WithAnyNullValue():
		return strategyConstNull
	case m1 == vector.MappingIdentity && m2 == vector.MappingIdentity:
		if flatNoNullFastPath && !p1.WithAnyNullValue() && !p2.WithAnyNullValue() {
			return strategyFlatFlatNoNull
		}
		return strategyFlatFlat
	case m1 == vector.MappingIdentity:
		return strategyFlatConst
	case m2 == vector.MappingIdentity:
		return strategyConstFlat
	}
	return strategyConstConst
}

// boolWriter writes single rows of a bool result. A reused buffer may still
// carry nulls from an earlier call, those are cleared on write.
type boolWriter struct {
	vals  []bool
	nsp   *nulls.Nulls
	dirty bool
}

func (w *boolWriter) set(i uint64, v bool) {
	w.vals[i] = v
	if w.dirty {
		nulls.Del(w.nsp, i)
	}
}

func (w *boolWriter) setNull(i uint64) {
	w.nsp.Set(i)
}

// rowAt is the k-th selected row: k itself for a dense list.
func rowAt(sels []int64, k int) uint64 {
	if sels == nil {
		return uint64(k)
	}
	return uint64(sels[k])
}

// checkCompareResult asserts the output is writable for the selection.
func checkCompareResult(proc *process.Process, name string, parameters []*vector.Vector,
	rsVec *vector.Vector, selectList *FunctionSelectList) error {
	if rsVec == nil {
		return moerr.NewInternalError(proc.Ctx, "%s: result vector is not allocated", name)
	}
	for _, p := range parameters {
		if p == rsVec {
			return moerr.NewInternalError(proc.Ctx, "%s: result vector aliases an input", name)
		}
	}
	if rsVec.GetClass() != vector.FLAT {
		return moerr.NewInternalError(proc.Ctx, "%s: result vector is not flat", name)
	}
	if need := selectList.Max() + 1; int64(rsVec.Length()) < need {
		return moerr.NewInternalError(proc.Ctx, "%s: result vector has %d rows, selection needs %d",
			name, rsVec.Length(), need)
	}
	return nil
}

// opBinaryCompare evaluates cmp over the selected rows of two parameters of the
// same type and writes a bool per selected row. A null on either side gives a
// null row and cmp is not called. Unselected rows of the result are untouched.
func opBinaryCompare[T types.NativeT](
	name string,
	parameters []*vector.Vector,
	result vector.FunctionResultWrapper,
	proc *process.Process,
	cmp compareFn[T],
	selectList *FunctionSelectList,
	flatNoNullFastPath bool,
) error {
	rs := vector.MustFunctionResult[bool](result)
	rsVec := rs.GetResultVector()
	if err := checkCompareResult(proc, name, parameters, rsVec, selectList); err != nil {
		return err
	}
	if selectList.IgnoreAllRow() {
		return nil
	}

	p1 := vector.GenerateFunctionFixedTypeParameter[T](parameters[0])
	p2 := vector.GenerateFunctionFixedTypeParameter[T](parameters[1])
	w := &boolWriter{
		vals:  rs.Values(),
		nsp:   rsVec.GetNulls(),
		dirty: rsVec.GetNulls().Any(),
	}

	strategy := pickCompareStrategy(p1, p2, flatNoNullFastPath)
	strategy.record(selectList.Len())

	sels, count := selectList.Sels(), selectList.Len()
	switch strategy {
	case strategyConstNull:
		for k := 0; k < count; k++ {
			w.setNull(rowAt(sels, k))
		}

	case strategyConstConst:
		a, _ := p1.GetValue(0)
		b, _ := p2.GetValue(0)
		r := cmp(a, b)
		for k := 0; k < count; k++ {
			w.set(rowAt(sels, k), r)
		}

	case strategyFlatFlatNoNull:
		cols1, cols2 := p1.UnSafeGetAllValue(), p2.UnSafeGetAllValue()
		if !w.dirty && sels == nil {
			rsv, cols1, cols2 := w.vals[:count], cols1[:count], cols2[:count]
			for i := range rsv {
				rsv[i] = cmp(cols1[i], cols2[i])
			}
			return nil
		}
		for k := 0; k < count; k++ {
			i := rowAt(sels, k)
			w.set(i, cmp(cols1[i], cols2[i]))
		}

	case strategyFlatFlat:
		cols1, cols2 := p1.UnSafeGetAllValue(), p2.UnSafeGetAllValue()
		null1, null2 := p1.GetNullMap(), p2.GetNullMap()
		for k := 0; k < count; k++ {
			i := rowAt(sels, k)
			if null1.Contains(i) || null2.Contains(i) {
				w.setNull(i)
				continue
			}
			w.set(i, cmp(cols1[i], cols2[i]))
		}

	case strategyFlatConst:
		cols1, null1 := p1.UnSafeGetAllValue(), p1.GetNullMap()
		c, _ := p2.GetValue(0)
		for k := 0; k < count; k++ {
			i := rowAt(sels, k)
			if null1.Contains(i) {
				w.setNull(i)
				continue
			}
			w.set(i, cmp(cols1[i], c))
		}

	case strategyConstFlat:
		c, _ := p1.GetValue(0)
		cols2, null2 := p2.UnSafeGetAllValue(), p2.GetNullMap()
		for k := 0; k < count; k++ {
			i := rowAt(sels, k)
			if null2.Contains(i) {
				w.setNull(i)
				continue
			}
			w.set(i, cmp(c, cols2[i]))
		}

	default:
		for k := 0; k < count; k++ {
			i := rowAt(sels, k)
			a, isNull := p1.GetValue(i)
			if isNull {
				w.setNull(i)
				continue
			}
			b, isNull := p2.GetValue(i)
			if isNull {
				w.setNull(i)
				continue
			}
			w.set(i, cmp(a, b))
		}
	}
	return nil
}
