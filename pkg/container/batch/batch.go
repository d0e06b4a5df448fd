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

package batch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/logutil"
)

func New(attrs []string) *Batch {
	return &Batch{
		Attrs:    attrs,
		Vecs:     make([]*vector.Vector, len(attrs)),
		rowCount: 0,
	}
}

func NewWithSize(n int) *Batch {
	return &Batch{
		Vecs:     make([]*vector.Vector, n),
		rowCount: 0,
	}
}

func (bat *Batch) RowCount() int {
	return bat.rowCount
}

func (bat *Batch) SetRowCount(rowCount int) {
	bat.rowCount = rowCount
}

func (bat *Batch) VectorCount() int {
	return len(bat.Vecs)
}

func (bat *Batch) SetVector(pos int32, vec *vector.Vector) {
	bat.Vecs[pos] = vec
}

func (bat *Batch) GetVector(pos int32) *vector.Vector {
	return bat.Vecs[pos]
}

// GetVectorByName returns the column named attr.
func (bat *Batch) GetVectorByName(ctx context.Context, attr string) (*vector.Vector, error) {
	for i, a := range bat.Attrs {
		if a == attr {
			return bat.Vecs[i], nil
		}
	}
	return nil, moerr.NewBadFieldError(ctx, attr, "batch")
}

func (bat *Batch) GetSubBatch(cols []string) *Batch {
	mp := make(map[string]int)
	for i, attr := range bat.Attrs {
		mp[attr] = i
	}
	rbat := NewWithSize(len(cols))
	rbat.Attrs = cols
	for i, col := range cols {
		rbat.Vecs[i] = bat.Vecs[mp[col]]
	}
	rbat.rowCount = bat.rowCount
	return rbat
}

// Validate checks every column holds RowCount rows.
func (bat *Batch) Validate(ctx context.Context) error {
	if len(bat.Attrs) != 0 && len(bat.Attrs) != len(bat.Vecs) {
		return moerr.NewInvalidState(ctx, "batch has %d attributes and %d vectors", len(bat.Attrs), len(bat.Vecs))
	}
	for i, vec := range bat.Vecs {
		if vec == nil {
			return moerr.NewInvalidState(ctx, "batch vector %d is nil", i)
		}
		if vec.Length() != bat.rowCount {
			return moerr.NewInvalidState(ctx, "batch vector %d has %d rows, expect %d", i, vec.Length(), bat.rowCount)
		}
	}
	return nil
}

func (bat *Batch) IsEmpty() bool {
	return bat.rowCount == 0
}

func (bat *Batch) String() string {
	var buf bytes.Buffer

	for i, vec := range bat.Vecs {
		name := fmt.Sprintf("%d", i)
		if i < len(bat.Attrs) {
			name = bat.Attrs[i]
		}
		buf.WriteString(fmt.Sprintf("%s : %s\n", name, vec.String()))
	}
	return buf.String()
}

func (bat *Batch) Log(tag string) {
	if bat == nil || bat.rowCount < 1 {
		return
	}
	logutil.Infof("\n" + tag + "\n" + bat.String())
}
