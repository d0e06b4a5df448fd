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
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	parquetgo "github.com/parquet-go/parquet-go"
	"go.uber.org/zap"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/batch"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/logutil/logutil2"
	"github.com/matrixorigin/vecexpr/pkg/vm/engine"
)

// Open opens the parquet file at path for a scan of projection.
func Open(ctx context.Context, path string, projection []Column, opts Options) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, moerr.NewFileNotFound(ctx, path)
		}
		return nil, errors.Wrapf(err, "open %s", path)
	}
	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	s, err := New(ctx, path, f, stat.Size(), projection, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

// New scans the parquet data of size bytes in r. name is used in messages.
func New(ctx context.Context, name string, r io.ReaderAt, size int64, projection []Column, opts Options) (*Source, error) {
	file, err := parquetgo.OpenFile(r, size)
	if err != nil {
		return nil, errors.Wrapf(err, "open parquet file %s", name)
	}
	cols, err := bindColumns(ctx, file.Schema(), projection)
	if err != nil {
		return nil, err
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	s := &Source{
		name:      name,
		file:      file,
		columns:   cols,
		batchSize: opts.BatchSize,
	}
	for _, col := range cols {
		s.attrs = append(s.attrs, engine.Attribute{Name: col.name, Type: col.typ})
	}
	logutil2.Info(ctx, "open parquet source",
		zap.String("file", name),
		zap.Int("row-groups", len(file.RowGroups())),
		zap.Int64("rows", file.NumRows()),
		zap.Int("columns", len(cols)))
	return s, nil
}

func (s *Source) Attributes() []engine.Attribute {
	return s.attrs
}

// Read returns the next batch of at most BatchSize rows.
func (s *Source) Read(ctx context.Context) (*batch.Batch, error) {
	for s.off >= s.rows {
		if s.rowGroup >= len(s.file.RowGroups()) {
			return nil, nil
		}
		if ctx.Err() != nil {
			return nil, moerr.NewQueryInterrupted(ctx)
		}
		if err := s.loadRowGroup(ctx); err != nil {
			return nil, err
		}
	}

	n := s.rows - s.off
	if n > s.batchSize {
		n = s.batchSize
	}
	sels := make([]int64, n)
	for i := range sels {
		sels[i] = int64(s.off + i)
	}

	bat := batch.New(attrNames(s.attrs))
	for i, col := range s.columns {
		if s.vecs[i] == nil {
			bat.SetVector(int32(i), vector.NewConstNull(col.typ, n))
			continue
		}
		vec := s.vecs[i]
		if s.off != 0 || n != s.rows {
			var err error
			if vec, err = vec.Shrink(sels); err != nil {
				return nil, err
			}
		}
		bat.SetVector(int32(i), vec)
	}
	bat.SetRowCount(n)
	s.off += n
	return bat, nil
}

func (s *Source) loadRowGroup(ctx context.Context) error {
	rg := s.file.RowGroups()[s.rowGroup]
	s.rowGroup++
	chunks := rg.ColumnChunks()
	s.vecs = make([]*vector.Vector, len(s.columns))
	for i, col := range s.columns {
		if col.leaf < 0 {
			continue
		}
		vec, err := col.read(chunks[col.leaf])
		if err != nil {
			return errors.Wrapf(err, "%s: row group %d", s.name, s.rowGroup-1)
		}
		if vec.Length() != int(rg.NumRows()) {
			return moerr.NewInternalError(ctx, "column %s has %d rows in a row group of %d",
				col.name, vec.Length(), rg.NumRows())
		}
		s.vecs[i] = vec
	}
	s.rows = int(rg.NumRows())
	s.off = 0
	logutil2.Debug(ctx, "load parquet row group",
		zap.String("file", s.name),
		zap.Int("row-group", s.rowGroup-1),
		zap.Int("rows", s.rows))
	return nil
}

func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

func attrNames(attrs []engine.Attribute) []string {
	names := make([]string, len(attrs))
	for i, attr := range attrs {
		names[i] = attr.Name
	}
	return names
}
