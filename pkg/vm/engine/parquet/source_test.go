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
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	parquetgo "github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/deprecated"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/batch"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	v2 "github.com/matrixorigin/vecexpr/pkg/util/metric/v2"
)

type employee struct {
	ID     int32   `parquet:"id"`
	Name   string  `parquet:"name,dict"`
	Dept   *string `parquet:"dept,dict"`
	Salary float64 `parquet:"salary"`
	Level  int8    `parquet:"level"`
}

type address struct {
	City string `parquet:"city"`
}

type nested struct {
	ID   int32    `parquet:"id"`
	Addr address  `parquet:"addr"`
	Tags []string `parquet:"tags"`
}

func strPtr(s string) *string {
	return &s
}

func employees(n int) []employee {
	depts := []*string{strPtr("eng"), strPtr("ops"), nil}
	rows := make([]employee, n)
	for i := range rows {
		rows[i] = employee{
			ID:     int32(i),
			Name:   []string{"ann", "bob", "cid"}[i%3],
			Dept:   depts[i%len(depts)],
			Salary: float64(i) * 1.5,
			Level:  int8(i % 4),
		}
	}
	return rows
}

func writeRows[T any](t *testing.T, rows []T, options ...parquetgo.WriterOption) *bytes.Reader {
	var buf bytes.Buffer
	w := parquetgo.NewGenericWriter[T](&buf, options...)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return bytes.NewReader(buf.Bytes())
}

func readAll(t *testing.T, s *Source) []*batch.Batch {
	var bats []*batch.Batch
	for {
		bat, err := s.Read(context.Background())
		require.NoError(t, err)
		if bat == nil {
			return bats
		}
		require.NoError(t, bat.Validate(context.Background()))
		bats = append(bats, bat)
	}
}

func TestSourceRead(t *testing.T) {
	ctx := context.Background()
	convey.Convey("scan with projection and batch size", t, func() {
		r := writeRows(t, employees(10))
		before := promtestutil.ToFloat64(v2.ParquetDictPageCounter)
		s, err := New(ctx, "employees", r, r.Size(), []Column{{Name: "dept"}, {Name: "id"}}, Options{BatchSize: 4})
		require.NoError(t, err)
		defer s.Close()

		attrs := s.Attributes()
		require.Len(t, attrs, 2)
		require.Equal(t, "dept", attrs[0].Name)
		require.Equal(t, types.T_varchar, attrs[0].Type.Oid)
		require.Equal(t, types.T_int32, attrs[1].Type.Oid)

		bats := readAll(t, s)
		require.Len(t, bats, 3)
		require.Equal(t, []int{4, 4, 2}, []int{bats[0].RowCount(), bats[1].RowCount(), bats[2].RowCount()})
		require.Equal(t, []string{"dept", "id"}, bats[0].Attrs)

		dept := bats[0].GetVector(0)
		require.True(t, dept.IsDict())
		require.Equal(t, "[eng ops null eng]", dept.String())
		require.Equal(t, "[4 5 6 7]", bats[1].GetVector(1).String())
		require.Equal(t, "[null eng]", bats[2].GetVector(0).String())
		require.Greater(t, promtestutil.ToFloat64(v2.ParquetDictPageCounter), before)

		// the scan is done
		bat, err := s.Read(ctx)
		require.NoError(t, err)
		require.Nil(t, bat)
	})

	convey.Convey("every column by default", t, func() {
		r := writeRows(t, employees(3))
		s, err := New(ctx, "employees", r, r.Size(), nil, Options{})
		require.NoError(t, err)
		bats := readAll(t, s)
		require.Len(t, bats, 1)
		bat := bats[0]
		require.Equal(t, 5, bat.VectorCount())

		salary, err := bat.GetVectorByName(ctx, "salary")
		require.NoError(t, err)
		require.Equal(t, types.T_float64, salary.GetType().Oid)
		require.Equal(t, "[0 1.5 3]", salary.String())

		level, err := bat.GetVectorByName(ctx, "level")
		require.NoError(t, err)
		require.Equal(t, types.T_int8, level.GetType().Oid)
		require.Equal(t, "[0 1 2]", level.String())

		name, err := bat.GetVectorByName(ctx, "name")
		require.NoError(t, err)
		require.Equal(t, "[ann bob cid]", name.String())
	})

	convey.Convey("row groups are cut into batches", t, func() {
		r := writeRows(t, employees(7), parquetgo.MaxRowsPerRowGroup(3))
		s, err := New(ctx, "employees", r, r.Size(), []Column{{Name: "id"}}, Options{BatchSize: 2})
		require.NoError(t, err)
		total := 0
		for _, bat := range readAll(t, s) {
			require.LessOrEqual(t, bat.RowCount(), 2)
			total += bat.RowCount()
		}
		require.Equal(t, 7, total)
	})
}

func TestSourceMissingColumn(t *testing.T) {
	ctx := context.Background()
	r := writeRows(t, employees(5))

	typ := types.T_int64.ToType()
	s, err := New(ctx, "employees", r, r.Size(), []Column{{Name: "id"}, {Name: "bonus", Type: &typ}}, Options{})
	require.NoError(t, err)
	bats := readAll(t, s)
	require.Len(t, bats, 1)
	bonus := bats[0].GetVector(1)
	require.True(t, bonus.IsConstNull())
	require.Equal(t, 5, bonus.Length())
	require.Equal(t, types.T_int64, bonus.GetType().Oid)

	_, err = New(ctx, "employees", r, r.Size(), []Column{{Name: "bonus"}}, Options{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadFieldError))

	// a declared type must agree with the file
	_, err = New(ctx, "employees", r, r.Size(), []Column{{Name: "id", Type: &typ}}, Options{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))

	_, err = New(ctx, "employees", r, r.Size(), []Column{{Name: "id"}, {Name: "id"}}, Options{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestSourceReadCanceled(t *testing.T) {
	r := writeRows(t, employees(3))
	s, err := New(context.Background(), "employees", r, r.Size(), nil, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Read(ctx)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrQueryInterrupted))
}

func TestSourceNestedColumn(t *testing.T) {
	ctx := context.Background()
	r := writeRows(t, []nested{{ID: 1, Addr: address{City: "x"}, Tags: []string{"a"}}})

	for _, name := range []string{"addr", "tags"} {
		_, err := New(ctx, "nested", r, r.Size(), []Column{{Name: name}}, Options{})
		require.True(t, moerr.IsMoErrCode(err, moerr.ErrNYI), name)
	}
	s, err := New(ctx, "nested", r, r.Size(), []Column{{Name: "id"}}, Options{})
	require.NoError(t, err)
	require.Len(t, readAll(t, s), 1)
}

// writeDecimals writes an id column and a nullable DECIMAL(9,2) price column.
func writeDecimals(t *testing.T, prices []*int64) *bytes.Reader {
	schema := parquetgo.NewSchema("prices", parquetgo.Group{
		"id":    parquetgo.Int(64),
		"price": parquetgo.Optional(parquetgo.Decimal(2, 9, parquetgo.Int64Type)),
	})
	var buf bytes.Buffer
	w := parquetgo.NewWriter(&buf, schema)
	rows := make([]parquetgo.Row, len(prices))
	for i, p := range prices {
		price := parquetgo.NullValue().Level(0, 0, 1)
		if p != nil {
			price = parquetgo.Int64Value(*p).Level(0, 1, 1)
		}
		rows[i] = parquetgo.Row{parquetgo.Int64Value(int64(i)).Level(0, 0, 0), price}
	}
	_, err := w.WriteRows(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return bytes.NewReader(buf.Bytes())
}

func TestSourceDecimal(t *testing.T) {
	ctx := context.Background()
	p1, p2 := int64(12345), int64(-50)
	r := writeDecimals(t, []*int64{&p1, nil, &p2})

	s, err := New(ctx, "prices", r, r.Size(), []Column{{Name: "price"}}, Options{})
	require.NoError(t, err)
	require.Equal(t, "DECIMAL(9,2)", s.Attributes()[0].Type.String())
	bats := readAll(t, s)
	require.Len(t, bats, 1)
	require.Equal(t, "[123.45 null -0.50]", bats[0].GetVector(0).String())

	declared := types.NewDecimal(9, 1)
	_, err = New(ctx, "prices", r, r.Size(), []Column{{Name: "price", Type: &declared}}, Options{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTypeMismatch))
}

type legacyEvent struct {
	ID int32            `parquet:"id"`
	At deprecated.Int96 `parquet:"at"`
}

func int96Of(julianDay uint32, nanosOfDay uint64) deprecated.Int96 {
	return deprecated.Int96{uint32(nanosOfDay), uint32(nanosOfDay >> 32), julianDay}
}

func TestSourceInt96Timestamp(t *testing.T) {
	ctx := context.Background()
	// 2024-01-02 is julian day 2460312
	nanos := uint64(3*3600+4*60+5)*1e9 + 6000
	r := writeRows(t, []legacyEvent{
		{ID: 1, At: int96Of(2460312, nanos)},
		{ID: 2, At: int96Of(2440587, 0)},
	})

	s, err := New(ctx, "events", r, r.Size(), []Column{{Name: "at"}}, Options{})
	require.NoError(t, err)
	require.Equal(t, types.T_timestamp, s.Attributes()[0].Type.Oid)
	bats := readAll(t, s)
	require.Len(t, bats, 1)
	require.Equal(t, "[2024-01-02 03:04:05.000006 1969-12-31 00:00:00]", bats[0].GetVector(0).String())
}

func TestSourceDecimalTooWide(t *testing.T) {
	ctx := context.Background()
	schema := parquetgo.NewSchema("wide", parquetgo.Group{
		"amount": parquetgo.Decimal(2, 30, parquetgo.ByteArrayType),
	})
	var buf bytes.Buffer
	w := parquetgo.NewWriter(&buf, schema)
	_, err := w.WriteRows([]parquetgo.Row{
		{parquetgo.ByteArrayValue([]byte{0x01, 0x00}).Level(0, 0, 0)},
		{parquetgo.ByteArrayValue(make([]byte, 17)).Level(0, 0, 0)},
	})
	require.NoError(t, err)
	require.NoError(t, w.Close())
	r := bytes.NewReader(buf.Bytes())

	s, err := New(ctx, "wide", r, r.Size(), nil, Options{})
	require.NoError(t, err)
	require.Equal(t, "DECIMAL(30,2)", s.Attributes()[0].Type.String())
	_, err = s.Read(ctx)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
}

func TestDecimalValue(t *testing.T) {
	d, err := decimalValue(parquetgo.FixedLenByteArrayValue([]byte{0xff, 0x38}))
	require.NoError(t, err)
	require.Equal(t, types.Decimal128FromInt64(-200), d)

	d, err = decimalValue(parquetgo.Int32Value(-7))
	require.NoError(t, err)
	require.Equal(t, types.Decimal128FromInt64(-7), d)

	_, err = decimalValue(parquetgo.FixedLenByteArrayValue(make([]byte, 17)))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrOutOfRange))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, filepath.Join(t.TempDir(), "missing.parquet"), nil, Options{})
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrFileNotFound))

	r := writeRows(t, employees(2))
	data := make([]byte, r.Size())
	_, err = r.ReadAt(data, 0)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "employees.parquet")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := Open(ctx, path, []Column{{Name: "name"}}, Options{})
	require.NoError(t, err)
	require.Len(t, readAll(t, s), 1)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	bad := filepath.Join(t.TempDir(), "bad.parquet")
	require.NoError(t, os.WriteFile(bad, []byte("not parquet"), 0o644))
	_, err = Open(ctx, bad, nil, Options{})
	require.Error(t, err)
}
