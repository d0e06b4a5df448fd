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
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/batch"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/logutil/logutil2"
	"github.com/matrixorigin/vecexpr/pkg/sql/plan/function"
	v2 "github.com/matrixorigin/vecexpr/pkg/util/metric/v2"
	"github.com/matrixorigin/vecexpr/pkg/vm/engine"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

var newPool = ants.NewPool

func String(arg any, buf *bytes.Buffer) {
	n := arg.(*Argument)
	conds := make([]string, len(n.Conds))
	for i, c := range n.Conds {
		conds[i] = c.String()
	}
	buf.WriteString(fmt.Sprintf("σ(%s)", strings.Join(conds, " and ")))
}

// Prepare binds the conditions to the columns of attrs and resolves their
// evaluators in reg.
func Prepare(proc *process.Process, arg any, reg *function.Registry, attrs []engine.Attribute) error {
	n := arg.(*Argument)
	if len(n.Conds) == 0 {
		return moerr.NewInvalidInput(proc.Ctx, "restrict without condition")
	}
	n.bound = make([]boundCondition, len(n.Conds))
	n.results = make([]vector.FunctionResultWrapper, len(n.Conds))
	for i, c := range n.Conds {
		if c.Left.isLiteral() && c.Right.isLiteral() {
			return moerr.NewInvalidInput(proc.Ctx, "condition %s has no column", c)
		}
		left, err := bindOperand(proc, c.Left, c.Right, attrs)
		if err != nil {
			return err
		}
		right, err := bindOperand(proc, c.Right, c.Left, attrs)
		if err != nil {
			return err
		}
		eval, err := reg.Resolve(proc.Ctx, c.Op, []types.Type{left.typ, right.typ})
		if err != nil {
			return err
		}
		n.bound[i] = boundCondition{eval: eval, params: [2]boundOperand{left, right}}
		n.results[i] = vector.NewFunctionResultWrapper(eval.ReturnType())
	}
	return nil
}

func bindOperand(proc *process.Process, o, other Operand, attrs []engine.Attribute) (boundOperand, error) {
	if !o.isLiteral() {
		pos := findAttr(attrs, o.Column)
		if pos < 0 {
			return boundOperand{}, moerr.NewBadFieldError(proc.Ctx, o.Column, "restrict")
		}
		return boundOperand{pos: int32(pos), typ: attrs[pos].Type}, nil
	}
	var typ types.Type
	if o.Type != nil {
		typ = *o.Type
	} else {
		pos := findAttr(attrs, other.Column)
		if pos < 0 {
			return boundOperand{}, moerr.NewBadFieldError(proc.Ctx, other.Column, "restrict")
		}
		typ = attrs[pos].Type
	}
	if o.Null {
		return boundOperand{pos: -1, typ: typ}, nil
	}
	val, err := types.ParseValue(typ, o.Literal)
	if err != nil {
		return boundOperand{}, err
	}
	return boundOperand{pos: -1, typ: typ, lit: val}, nil
}

func findAttr(attrs []engine.Attribute, name string) int {
	for i, attr := range attrs {
		if attr.Name == name {
			return i
		}
	}
	return -1
}

// Dup returns a prepared copy sharing the evaluators but owning its results.
func (arg *Argument) Dup() *Argument {
	results := make([]vector.FunctionResultWrapper, len(arg.bound))
	for i, b := range arg.bound {
		results[i] = vector.NewFunctionResultWrapper(b.eval.ReturnType())
	}
	return &Argument{
		Conds:   arg.Conds,
		bound:   arg.bound,
		results: results,
	}
}

// Call returns the rows of bat satisfying every condition. Each condition is
// evaluated only over the rows that passed the ones before it.
func Call(proc *process.Process, arg any, bat *batch.Batch) (*batch.Batch, error) {
	n := arg.(*Argument)
	if bat == nil || bat.IsEmpty() {
		return bat, nil
	}
	start := time.Now()
	rows := bat.RowCount()
	selectList := function.NewFullSelectList(rows)
	for i := range n.bound {
		sels, err := n.evalCondition(proc, i, bat, selectList)
		if err != nil {
			return nil, err
		}
		if selectList, err = function.NewSelectListFromSels(proc.Ctx, rows, sels); err != nil {
			return nil, err
		}
		if selectList.IgnoreAllRow() {
			break
		}
	}

	out, err := shrink(bat, selectList)
	if err != nil {
		return nil, err
	}
	v2.RestrictInputRowsCounter.Add(float64(rows))
	v2.RestrictOutputRowsCounter.Add(float64(out.RowCount()))
	v2.RestrictBatchDurationHistogram.Observe(time.Since(start).Seconds())
	return out, nil
}

func (arg *Argument) evalCondition(proc *process.Process, i int, bat *batch.Batch,
	selectList *function.FunctionSelectList) ([]int64, error) {
	b := arg.bound[i]
	rows := bat.RowCount()
	params := make([]*vector.Vector, 2)
	for j, p := range b.params {
		if p.pos >= 0 {
			params[j] = bat.GetVector(p.pos)
			continue
		}
		vec, err := vector.NewConstAny(p.typ, p.lit, rows)
		if err != nil {
			return nil, err
		}
		params[j] = vec
	}

	result := arg.results[i]
	if err := proc.EnsureWritable(result, rows, params...); err != nil {
		return nil, err
	}
	if err := b.eval.Eval(proc, params, result, selectList); err != nil {
		return nil, err
	}

	rsVec := result.GetResultVector()
	vals := vector.MustFixedCol[bool](rsVec)
	nsp := rsVec.GetNulls()
	sels := make([]int64, 0, selectList.Len())
	selectList.Foreach(func(row uint64) {
		if vals[row] && !nsp.Contains(row) {
			sels = append(sels, int64(row))
		}
	})
	return sels, nil
}

func shrink(bat *batch.Batch, selectList *function.FunctionSelectList) (*batch.Batch, error) {
	if selectList.ShouldEvalAllRow() {
		return bat, nil
	}
	sels := selectList.Sels()
	out := batch.New(bat.Attrs)
	for i, vec := range bat.Vecs {
		w, err := vec.Shrink(sels)
		if err != nil {
			return nil, err
		}
		out.SetVector(int32(i), w)
	}
	out.SetRowCount(len(sels))
	return out, nil
}

type worker struct {
	proc *process.Process
	arg  *Argument
}

type slot struct {
	bat *batch.Batch
}

// RunParallel reads src to the end and filters its batches on a pool of
// parallelism workers. The filtered batches are returned in read order.
func RunParallel(proc *process.Process, arg *Argument, src engine.Source, parallelism int) ([]*batch.Batch, error) {
	if parallelism <= 0 {
		parallelism = 1
	}
	pool, err := newPool(parallelism)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	workers := make(chan *worker, parallelism)
	for i := 0; i < parallelism; i++ {
		workers <- &worker{proc: process.NewFromProc(proc, proc.Ctx), arg: arg.Dup()}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		slots    []*slot
	)
	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}
	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for !failed() {
		if proc.Ctx.Err() != nil {
			setErr(moerr.NewQueryInterrupted(proc.Ctx))
			break
		}
		bat, err := src.Read(proc.Ctx)
		if err != nil {
			setErr(err)
			break
		}
		if bat == nil {
			break
		}
		s := &slot{}
		slots = append(slots, s)
		wg.Add(1)
		err = pool.Submit(func() {
			defer wg.Done()
			w := <-workers
			defer func() { workers <- w }()
			defer func() {
				if e := recover(); e != nil {
					setErr(moerr.ConvertPanicError(w.proc.Ctx, e))
				}
			}()
			out, err := Call(w.proc, w.arg, bat)
			if err != nil {
				setErr(err)
				return
			}
			s.bat = out
		})
		if err != nil {
			wg.Done()
			setErr(err)
		}
	}
	wg.Wait()
	if firstErr != nil {
		logutil2.Error(proc.Ctx, "restrict failed",
			zap.Int("batches", len(slots)),
			zap.Error(firstErr))
		return nil, firstErr
	}

	outs := make([]*batch.Batch, 0, len(slots))
	rows := 0
	for _, s := range slots {
		outs = append(outs, s.bat)
		rows += s.bat.RowCount()
	}
	logutil2.Info(proc.Ctx, "restrict done",
		zap.Int("batches", len(outs)),
		zap.Int("rows", rows),
		zap.Int("parallelism", parallelism))
	return outs, nil
}
