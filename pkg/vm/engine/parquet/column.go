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

	"github.com/cockroachdb/errors"
	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/nulls"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	v2 "github.com/matrixorigin/vecexpr/pkg/util/metric/v2"
)

const valueBufferSize = 1024

// read decodes one column chunk.
func (col *column) read(chunk parquetgo.ColumnChunk) (*vector.Vector, error) {
	switch col.typ.Oid {
	case types.T_bool:
		return readChunk(col, chunk, total(parquetgo.Value.Boolean))
	case types.T_int8:
		return readChunk(col, chunk, total(func(v parquetgo.Value) int8 { return int8(v.Int32()) }))
	case types.T_int16:
		return readChunk(col, chunk, total(func(v parquetgo.Value) int16 { return int16(v.Int32()) }))
	case types.T_int32:
		return readChunk(col, chunk, total(parquetgo.Value.Int32))
	case types.T_int64:
		return readChunk(col, chunk, total(parquetgo.Value.Int64))
	case types.T_float32:
		return readChunk(col, chunk, total(parquetgo.Value.Float))
	case types.T_float64:
		return readChunk(col, chunk, total(parquetgo.Value.Double))
	case types.T_date:
		return readChunk(col, chunk, total(func(v parquetgo.Value) types.Date { return types.Date(v.Int32()) }))
	case types.T_timestamp:
		if col.int96 {
			return readChunk(col, chunk, total(int96Timestamp))
		}
		scale := col.timeScale
		return readChunk(col, chunk, total(func(v parquetgo.Value) types.Timestamp {
			if scale < 0 {
				return types.Timestamp(v.Int64() / -scale)
			}
			return types.Timestamp(v.Int64() * scale)
		}))
	case types.T_decimal64:
		return readChunk(col, chunk, func(v parquetgo.Value) (types.Decimal64, error) {
			d, err := decimalValue(v)
			return types.Decimal64(int64(d.B0_63)), err
		})
	case types.T_decimal128:
		return readChunk(col, chunk, decimalValue)
	case types.T_varchar, types.T_varbinary:
		return readChunk(col, chunk, total(func(v parquetgo.Value) string { return string(v.ByteArray()) }))
	}
	return nil, moerr.NewNYINoCtx("read column %s of type %s", col.name, col.typ)
}

// total lifts a conversion that cannot fail.
func total[T types.NativeT](conv func(parquetgo.Value) T) func(parquetgo.Value) (T, error) {
	return func(v parquetgo.Value) (T, error) {
		return conv(v), nil
	}
}

// decimalValue widens the unscaled integer of a decimal of any physical type.
func decimalValue(v parquetgo.Value) (types.Decimal128, error) {
	switch v.Kind() {
	case parquetgo.Int32:
		return types.Decimal128FromInt64(int64(v.Int32())), nil
	case parquetgo.Int64:
		return types.Decimal128FromInt64(v.Int64()), nil
	}
	return types.Decimal128FromBigEndian(v.ByteArray())
}

const (
	julianUnixEpoch = 2440588
	microsPerDay    = 86400 * 1000 * 1000
)

// int96Timestamp decodes the legacy impala layout: nanoseconds of the day in
// the low eight bytes, julian day in the high four.
func int96Timestamp(v parquetgo.Value) types.Timestamp {
	w := v.Int96()
	nanos := int64(uint64(w[1])<<32 | uint64(w[0]))
	days := int64(w[2]) - julianUnixEpoch
	return types.Timestamp(days*microsPerDay + nanos/1000)
}

// chunkReader collects the rows of a chunk. Rows of dictionary pages are kept
// as indexes while every page seen so far is dictionary encoded; the first
// plain page materializes them.
type chunkReader[T types.NativeT] struct {
	col  *column
	conv func(parquetgo.Value) (T, error)

	dict     parquetgo.Dictionary
	dictVals []T
	indexed  bool
	index    []int32

	vals    []T
	isNulls []bool
}

func readChunk[T types.NativeT](col *column, chunk parquetgo.ColumnChunk, conv func(parquetgo.Value) (T, error)) (*vector.Vector, error) {
	r := &chunkReader[T]{col: col, conv: conv, indexed: true}
	pages := chunk.Pages()
	defer pages.Close()
	for {
		page, err := pages.ReadPage()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read page of column %s", col.name)
		}
		if d := page.Dictionary(); d != nil {
			v2.ParquetDictPageCounter.Inc()
			if err = r.readIndexedPage(page, d); err != nil {
				return nil, err
			}
			continue
		}
		v2.ParquetPlainPageCounter.Inc()
		if err = r.readPlainPage(page); err != nil {
			return nil, err
		}
	}
	return r.build()
}

func (r *chunkReader[T]) readIndexedPage(page parquetgo.Page, d parquetgo.Dictionary) error {
	if r.dict == nil {
		r.dict = d
		r.dictVals = make([]T, d.Len())
		for i := range r.dictVals {
			val, err := r.conv(d.Index(int32(i)))
			if err != nil {
				return errors.Wrapf(err, "dictionary of column %s", r.col.name)
			}
			r.dictVals[i] = val
		}
	} else if r.dict != d {
		return moerr.NewInternalErrorNoCtx("column %s changes dictionary inside a chunk", r.col.name)
	}

	data := page.Data()
	indexes := data.Int32()
	defs := page.DefinitionLevels()
	rows := int(page.NumRows())
	k := 0
	for i := 0; i < rows; i++ {
		if defs != nil && int(defs[i]) < r.col.maxDef {
			r.appendIndex(0, true)
			continue
		}
		if k >= len(indexes) || int(indexes[k]) >= len(r.dictVals) {
			return moerr.NewInternalErrorNoCtx("column %s has a bad dictionary index", r.col.name)
		}
		r.appendIndex(indexes[k], false)
		k++
	}
	return nil
}

func (r *chunkReader[T]) appendIndex(idx int32, isNull bool) {
	if r.indexed {
		r.index = append(r.index, idx)
		r.isNulls = append(r.isNulls, isNull)
		return
	}
	var val T
	if !isNull {
		val = r.dictVals[idx]
	}
	r.vals = append(r.vals, val)
	r.isNulls = append(r.isNulls, isNull)
}

func (r *chunkReader[T]) readPlainPage(page parquetgo.Page) error {
	if r.indexed {
		r.indexed = false
		r.vals = make([]T, len(r.index), len(r.index)+int(page.NumRows()))
		for i, idx := range r.index {
			if !r.isNulls[i] {
				r.vals[i] = r.dictVals[idx]
			}
		}
		r.index = nil
	}

	values := page.Values()
	buf := make([]parquetgo.Value, valueBufferSize)
	for {
		n, err := values.ReadValues(buf)
		for _, v := range buf[:n] {
			if v.IsNull() {
				var zero T
				r.vals = append(r.vals, zero)
				r.isNulls = append(r.isNulls, true)
				continue
			}
			val, cerr := r.conv(v)
			if cerr != nil {
				return errors.Wrapf(cerr, "read values of column %s", r.col.name)
			}
			r.vals = append(r.vals, val)
			r.isNulls = append(r.isNulls, false)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "read values of column %s", r.col.name)
		}
	}
}

func (r *chunkReader[T]) build() (*vector.Vector, error) {
	if !r.indexed || r.dict == nil {
		return vector.NewFlat(r.col.typ, r.vals, r.isNulls), nil
	}
	if len(r.dictVals) == 0 {
		return vector.NewRowsNull(r.col.typ, len(r.index))
	}
	nsp := &nulls.Nulls{}
	for i, isNull := range r.isNulls {
		if isNull {
			nsp.Set(uint64(i))
		}
	}
	return vector.NewDict(vector.NewFlat(r.col.typ, r.dictVals, nil), r.index, nsp)
}
