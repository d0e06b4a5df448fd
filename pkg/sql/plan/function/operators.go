// Copyright 2021 - 2022 Matrix Origin
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

package function

import (
	"math"

	"golang.org/x/exp/constraints"
)

// compareOp is one operator of the comparison family.
type compareOp int

const (
	opEqual compareOp = iota
	opNotEqual
	opLess
	opLessEqual
	opGreater
	opGreaterEqual
)

func (op compareOp) String() string {
	switch op {
	case opEqual:
		return "="
	case opNotEqual:
		return "<>"
	case opLess:
		return "<"
	case opLessEqual:
		return "<="
	case opGreater:
		return ">"
	case opGreaterEqual:
		return ">="
	}
	return "unknown compare operator"
}

// fromSign turns a three way result into the operator's answer.
func (op compareOp) fromSign(c int) bool {
	switch op {
	case opEqual:
		return c == 0
	case opNotEqual:
		return c != 0
	case opLess:
		return c < 0
	case opLessEqual:
		return c <= 0
	case opGreater:
		return c > 0
	}
	return c >= 0
}

type compareFn[T any] func(a, b T) bool

func orderedCompareFn[T constraints.Ordered](op compareOp) compareFn[T] {
	switch op {
	case opEqual:
		return func(a, b T) bool { return a == b }
	case opNotEqual:
		return func(a, b T) bool { return a != b }
	case opLess:
		return func(a, b T) bool { return a < b }
	case opLessEqual:
		return func(a, b T) bool { return a <= b }
	case opGreater:
		return func(a, b T) bool { return a > b }
	}
	return func(a, b T) bool { return a >= b }
}

// floatCompareFn orders NaN above every other value and equal to itself,
// so the family stays a total order over floats.
func floatCompareFn[T constraints.Float](op compareOp) compareFn[T] {
	return func(a, b T) bool {
		return op.fromSign(compareFloat(a, b))
	}
}

func compareFloat[T constraints.Float](a, b T) int {
	aNaN, bNaN := math.IsNaN(float64(a)), math.IsNaN(float64(b))
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// false < true
func boolCompareFn(op compareOp) compareFn[bool] {
	switch op {
	case opEqual:
		return func(a, b bool) bool { return a == b }
	case opNotEqual:
		return func(a, b bool) bool { return a != b }
	case opLess:
		return func(a, b bool) bool { return !a && b }
	case opLessEqual:
		return func(a, b bool) bool { return !a || b }
	case opGreater:
		return func(a, b bool) bool { return a && !b }
	}
	return func(a, b bool) bool { return a || !b }
}

type comparable3[T any] interface {
	Compare(T) int
}

// methodCompareFn serves the wide native types that order through Compare.
func methodCompareFn[T comparable3[T]](op compareOp) compareFn[T] {
	return func(a, b T) bool {
		return op.fromSign(a.Compare(b))
	}
}
