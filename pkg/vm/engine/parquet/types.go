// Copyright 2024 Matrix Origin
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

package parquet

import (
	"io"

	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/vm/engine"
)

const defaultBatchSize = 8192

// Column names a projected column. Type is required for a column the file
// may not have, such a column reads as all null. When the file has the
// column, Type must equal the type derived from the file schema.
type Column struct {
	Name string
	Type *types.Type
}

// Options of a Source.
type Options struct {
	// BatchSize is the maximum number of rows of a batch.
	BatchSize int
}

// Source scans a parquet file row group by row group. Each row group is
// decoded once and then cut into batches.
type Source struct {
	name   string
	file   *parquetgo.File
	closer io.Closer

	attrs     []engine.Attribute
	columns   []*column
	batchSize int

	// next row group to decode
	rowGroup int
	// decoded vectors of the current row group, nil for a missing column
	vecs []*vector.Vector
	rows int
	off  int
}

var _ engine.Source = new(Source)

// column binds a projected column to a leaf of the file.
type column struct {
	name string
	typ  types.Type
	// -1 when the file has no such column
	leaf int
	// definition level of a present value
	maxDef int
	// multiplier turning a file timestamp into microseconds, negative to divide
	timeScale int64
	// legacy INT96 timestamp
	int96 bool
}
