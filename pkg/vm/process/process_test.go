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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
)

func TestNew(t *testing.T) {
	proc := New(context.Background(), Limitation{})
	require.Equal(t, int64(DefaultBatchSize), proc.GetLim().BatchRows)

	proc.SetQueryId("q1")
	require.Equal(t, "q1", proc.QueryId())

	worker := NewFromProc(proc, context.TODO())
	require.Equal(t, "q1", worker.QueryId())
	require.Zero(t, worker.Allocated())
}

func TestEnsureWritable(t *testing.T) {
	proc := New(context.Background(), Limitation{BatchRows: 16})
	result := vector.NewFunctionResultWrapper(types.T_bool.ToType())

	require.NoError(t, proc.EnsureWritable(result, 4))
	first := result.GetResultVector()
	require.Equal(t, 4, first.Length())
	require.Equal(t, 1, proc.Allocated())

	// long enough and exclusively owned, kept
	require.NoError(t, proc.EnsureWritable(result, 3))
	require.Same(t, first, result.GetResultVector())

	// aliased with an input, replaced
	require.NoError(t, proc.EnsureWritable(result, 3, first))
	require.NotSame(t, first, result.GetResultVector())

	// too short, replaced
	second := result.GetResultVector()
	require.NoError(t, proc.EnsureWritable(result, 10))
	require.NotSame(t, second, result.GetResultVector())
	require.Equal(t, 3, proc.Allocated())

	result.SetResultVector(vector.NewConstFixed(types.T_bool.ToType(), true, 10))
	require.NoError(t, proc.EnsureWritable(result, 10))
	require.Equal(t, vector.FLAT, result.GetResultVector().GetClass())
}
