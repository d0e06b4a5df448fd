// Copyright 2023 Matrix Origin
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

package main

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/sql/colexec/restrict"
)

var comparisonOps = []string{"<=", ">=", "<>", "!=", "==", "=", "<", ">"}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// parseWhere reads conditions of the form "operand op operand" joined by and.
// An operand is a column name, a number, a quoted string or null.
func parseWhere(ctx context.Context, where string) ([]restrict.Condition, error) {
	toks, err := tokenize(ctx, where)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return nil, moerr.NewSyntaxError(ctx, "empty condition")
	}

	var conds []restrict.Condition
	for i := 0; ; {
		if i+3 > len(toks) {
			return nil, moerr.NewSyntaxError(ctx, "incomplete condition at position %d", toks[len(toks)-1].pos)
		}
		left, op, right := toks[i], toks[i+1], toks[i+2]
		if op.kind != tokenOp {
			return nil, moerr.NewSyntaxError(ctx, "expected an operator at position %d, got '%s'", op.pos, op.text)
		}
		if left.kind == tokenOp || right.kind == tokenOp {
			return nil, moerr.NewSyntaxError(ctx, "unexpected operator near position %d", op.pos)
		}
		conds = append(conds, restrict.Condition{Op: op.text, Left: operand(left), Right: operand(right)})
		i += 3
		if i == len(toks) {
			return conds, nil
		}
		if toks[i].kind != tokenIdent || !strings.EqualFold(toks[i].text, "and") {
			return nil, moerr.NewSyntaxError(ctx, "expected and at position %d, got '%s'", toks[i].pos, toks[i].text)
		}
		i++
	}
}

func operand(t token) restrict.Operand {
	switch t.kind {
	case tokenString, tokenNumber:
		return restrict.Lit(t.text)
	}
	if strings.EqualFold(t.text, "null") {
		return restrict.Null()
	}
	return restrict.Col(t.text)
}

func tokenize(ctx context.Context, s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case c == utf8.RuneError && size == 1:
			return nil, moerr.NewParseError(ctx, "invalid utf-8 at position %d", i)
		case unicode.IsSpace(c):
			i += size
		case c == '\'':
			var sb strings.Builder
			j := i + 1
			for ; j < len(s); j++ {
				if s[j] != '\'' {
					sb.WriteByte(s[j])
					continue
				}
				// '' is an escaped quote
				if j+1 < len(s) && s[j+1] == '\'' {
					sb.WriteByte('\'')
					j++
					continue
				}
				break
			}
			if j >= len(s) {
				return nil, moerr.NewParseError(ctx, "unterminated string at position %d", i)
			}
			toks = append(toks, token{kind: tokenString, text: sb.String(), pos: i})
			i = j + 1
		case c == '-' || c == '+' || c == '.' || isDigit(c):
			j := scanNumber(s, i)
			toks = append(toks, token{kind: tokenNumber, text: s[i:j], pos: i})
			i = j
		case c == '_' || unicode.IsLetter(c):
			j := i + size
			for j < len(s) {
				r, n := utf8.DecodeRuneInString(s[j:])
				if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
					break
				}
				j += n
			}
			toks = append(toks, token{kind: tokenIdent, text: s[i:j], pos: i})
			i = j
		default:
			op := ""
			for _, o := range comparisonOps {
				if strings.HasPrefix(s[i:], o) {
					op = o
					break
				}
			}
			if op == "" {
				return nil, moerr.NewParseError(ctx, "unexpected character '%c' at position %d", c, i)
			}
			text := op
			if op == "==" {
				text = "="
			}
			toks = append(toks, token{kind: tokenOp, text: text, pos: i})
			i += len(op)
		}
	}
	return toks, nil
}

// scanNumber returns the end of the number starting at i. A sign may lead
// the number and follow its exponent marker.
func scanNumber(s string, i int) int {
	j := i + 1
	for j < len(s) {
		switch c := s[j]; {
		case c == '.' || isDigit(rune(c)):
			j++
		case c == 'e' || c == 'E':
			j++
			if j < len(s) && (s[j] == '-' || s[j] == '+') {
				j++
			}
		default:
			return j
		}
	}
	return j
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}
