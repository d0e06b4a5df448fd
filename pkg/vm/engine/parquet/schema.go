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

	parquetgo "github.com/parquet-go/parquet-go"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/container/types"
)

// bindColumns resolves the projection against the file schema. An empty
// projection selects every top level column.
func bindColumns(ctx context.Context, schema *parquetgo.Schema, projection []Column) ([]*column, error) {
	if len(projection) == 0 {
		for _, field := range schema.Fields() {
			projection = append(projection, Column{Name: field.Name()})
		}
	}
	cols := make([]*column, 0, len(projection))
	seen := make(map[string]struct{}, len(projection))
	for _, p := range projection {
		if _, ok := seen[p.Name]; ok {
			return nil, moerr.NewInvalidInput(ctx, "column %s is projected twice", p.Name)
		}
		seen[p.Name] = struct{}{}

		col, err := bindColumn(ctx, schema, p)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func bindColumn(ctx context.Context, schema *parquetgo.Schema, p Column) (*column, error) {
	var field parquetgo.Field
	for _, f := range schema.Fields() {
		if f.Name() == p.Name {
			field = f
			break
		}
	}
	if field == nil {
		if p.Type == nil {
			return nil, moerr.NewBadFieldError(ctx, p.Name, schema.Name())
		}
		return &column{name: p.Name, typ: *p.Type, leaf: -1}, nil
	}
	if !field.Leaf() || field.Repeated() {
		return nil, moerr.NewNYI(ctx, "nested column %s", p.Name)
	}
	leaf, ok := schema.Lookup(p.Name)
	if !ok {
		return nil, moerr.NewBadFieldError(ctx, p.Name, schema.Name())
	}
	col := &column{
		name:   p.Name,
		leaf:   leaf.ColumnIndex,
		maxDef: leaf.MaxDefinitionLevel,
	}
	if err := col.deriveType(ctx, leaf.Node.Type()); err != nil {
		return nil, err
	}
	if p.Type != nil && !p.Type.Eq(col.typ) {
		return nil, moerr.NewTypeMismatch(ctx, p.Name, *p.Type, col.typ)
	}
	return col, nil
}

// deriveType maps the physical and logical type of a leaf to a column type.
func (col *column) deriveType(ctx context.Context, t parquetgo.Type) error {
	lt := t.LogicalType()
	if lt != nil && lt.Decimal != nil {
		switch t.Kind() {
		case parquetgo.Int32, parquetgo.Int64, parquetgo.ByteArray, parquetgo.FixedLenByteArray:
		default:
			return moerr.NewNYI(ctx, "decimal column %s of physical type %s", col.name, t.Kind())
		}
		if lt.Decimal.Precision > types.MaxDecimal128Precision {
			return moerr.NewOutOfRange(ctx, "decimal", "column %s has precision %d", col.name, lt.Decimal.Precision)
		}
		col.typ = types.NewDecimal(lt.Decimal.Precision, lt.Decimal.Scale)
		return nil
	}

	switch t.Kind() {
	case parquetgo.Boolean:
		col.typ = types.T_bool.ToType()
	case parquetgo.Int32:
		switch {
		case lt == nil:
			col.typ = types.T_int32.ToType()
		case lt.Date != nil:
			col.typ = types.T_date.ToType()
		case lt.Integer != nil && lt.Integer.IsSigned:
			switch lt.Integer.BitWidth {
			case 8:
				col.typ = types.T_int8.ToType()
			case 16:
				col.typ = types.T_int16.ToType()
			default:
				col.typ = types.T_int32.ToType()
			}
		default:
			return moerr.NewNYI(ctx, "column %s of type %s", col.name, t)
		}
	case parquetgo.Int64:
		switch {
		case lt == nil, lt.Integer != nil && lt.Integer.IsSigned:
			col.typ = types.T_int64.ToType()
		case lt.Timestamp != nil:
			col.typ = types.T_timestamp.ToType()
			switch unit := lt.Timestamp.Unit; {
			case unit.Millis != nil:
				col.timeScale = 1000
			case unit.Nanos != nil:
				col.timeScale = -1000
			default:
				col.timeScale = 1
			}
		default:
			return moerr.NewNYI(ctx, "column %s of type %s", col.name, t)
		}
	case parquetgo.Int96:
		col.typ = types.T_timestamp.ToType()
		col.int96 = true
	case parquetgo.Float:
		col.typ = types.T_float32.ToType()
	case parquetgo.Double:
		col.typ = types.T_float64.ToType()
	case parquetgo.ByteArray, parquetgo.FixedLenByteArray:
		if lt != nil && (lt.UTF8 != nil || lt.Enum != nil || lt.Json != nil) {
			col.typ = types.T_varchar.ToType()
		} else {
			col.typ = types.T_varbinary.ToType()
		}
	default:
		return moerr.NewNYI(ctx, "column %s of type %s", col.name, t)
	}
	return nil
}
