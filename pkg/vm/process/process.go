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

package process

import (
	"context"

	"go.uber.org/zap"

	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/logutil"
)

const DefaultBatchSize = 8192

func New(ctx context.Context, lim Limitation) *Process {
	if lim.BatchRows <= 0 {
		lim.BatchRows = DefaultBatchSize
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return &Process{
		Ctx: ctx,
		Lim: lim,
	}
}

// NewFromProc derives a worker process sharing the query id and limits.
func NewFromProc(p *Process, ctx context.Context) *Process {
	proc := New(ctx, p.Lim)
	proc.Id = p.Id
	return proc
}

func (proc *Process) QueryId() string {
	return proc.Id
}

func (proc *Process) SetQueryId(id string) {
	proc.Id = id
	proc.Ctx = logutil.ContextWithQueryID(proc.Ctx, id)
}

func (proc *Process) GetLim() Limitation {
	return proc.Lim
}

func (proc *Process) Allocated() int {
	return proc.allocated
}

// AllocVectorOfRows returns a flat vector of rows zero values and no nulls.
func (proc *Process) AllocVectorOfRows(result vector.FunctionResultWrapper, rows int) (*vector.Vector, error) {
	vec := vector.NewVec(result.GetType())
	if err := vec.PreExtend(rows); err != nil {
		return nil, err
	}
	proc.allocated++
	return vec, nil
}

// EnsureWritable makes the result vector of result exclusively owned and at
// least rows long. A vector that is already flat, of the right type, long
// enough and not one of inputs is reused as is, so rows a call does not
// write keep whatever the caller left there.
func (proc *Process) EnsureWritable(result vector.FunctionResultWrapper, rows int, inputs ...*vector.Vector) error {
	if vec := result.GetResultVector(); vec != nil && vec.GetClass() == vector.FLAT &&
		vec.GetType().Oid == result.GetType().Oid && vec.Length() >= rows {
		shared := false
		for _, in := range inputs {
			if in == vec {
				shared = true
				break
			}
		}
		if !shared {
			return nil
		}
	}
	vec, err := proc.AllocVectorOfRows(result, rows)
	if err != nil {
		return err
	}
	logutil.Debug("allocate function result",
		zap.String("query", proc.Id),
		zap.String("type", result.GetType().String()),
		zap.Int("rows", rows))
	result.SetResultVector(vec)
	return nil
}
