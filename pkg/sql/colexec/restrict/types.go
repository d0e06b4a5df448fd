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
	"github.com/matrixorigin/vecexpr/pkg/container/types"
	"github.com/matrixorigin/vecexpr/pkg/container/vector"
	"github.com/matrixorigin/vecexpr/pkg/sql/plan/function"
)

// Operand is a column reference or a literal.
type Operand struct {
	// Column names the column, empty for a literal.
	Column string
	// Literal is the text of a literal, parsed as Type.
	Literal string
	// Null marks a null literal.
	Null bool
	// Type of the literal. When nil the literal takes the type of the column
	// on the other side.
	Type *types.Type
}

func Col(name string) Operand {
	return Operand{Column: name}
}

func Lit(s string) Operand {
	return Operand{Literal: s}
}

func TypedLit(s string, typ types.Type) Operand {
	return Operand{Literal: s, Type: &typ}
}

func Null() Operand {
	return Operand{Null: true}
}

func (o Operand) isLiteral() bool {
	return o.Column == ""
}

func (o Operand) String() string {
	switch {
	case !o.isLiteral():
		return o.Column
	case o.Null:
		return "null"
	}
	return "'" + o.Literal + "'"
}

// Condition is one comparison of a conjunction.
type Condition struct {
	Op    string
	Left  Operand
	Right Operand
}

func (c Condition) String() string {
	return c.Left.String() + " " + c.Op + " " + c.Right.String()
}

// Argument filters batches by the conjunction of Conds. A prepared Argument
// is used by one goroutine at a time; Dup gives another worker its own copy.
type Argument struct {
	Conds []Condition

	bound   []boundCondition
	results []vector.FunctionResultWrapper
}

type boundCondition struct {
	eval   function.Evaluator
	params [2]boundOperand
}

type boundOperand struct {
	// position of the column in the batch, -1 for a literal
	pos int32
	typ types.Type
	// native value of a literal, nil for null
	lit any
}
