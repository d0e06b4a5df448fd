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

package engine

import (
	"context"

	"github.com/matrixorigin/vecexpr/pkg/container/batch"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

// Attribute is a projected column of a Source.
type Attribute struct {
	Name string
	Type types.Type
}

// Source produces the batches of one table scan.
type Source interface {
	// Attributes returns the projected columns in batch order.
	Attributes() []Attribute

	// Read returns the next batch, nil once the scan is done.
	Read(ctx context.Context) (*batch.Batch, error)

	Close() error
}
