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

package moerr

import (
	"context"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

const MySQLDefaultSqlState = "HY000"

const (
	// Ok is the code of a nil error.
	Ok uint16 = 0

	// Group 1: Internal errors
	ErrInternal         uint16 = 20101
	ErrNYI              uint16 = 20102
	ErrOOM              uint16 = 20103
	ErrQueryInterrupted uint16 = 20104

	// Group 2: numeric and functions
	ErrOutOfRange       uint16 = 20201
	ErrFunctionArity    uint16 = 20210
	ErrTypeMismatch     uint16 = 20211
	ErrFunctionNotFound uint16 = 20212
	ErrDupFunction      uint16 = 20213

	// Group 3: invalid input
	ErrBadConfig    uint16 = 20300
	ErrInvalidInput uint16 = 20301
	ErrSyntaxError  uint16 = 20302
	ErrParseError   uint16 = 20303

	// Group 4: unexpected state and io errors
	ErrInvalidState  uint16 = 20400
	ErrFileNotFound  uint16 = 20405
	ErrUnexpectedEOF uint16 = 20407
	ErrBadFieldError uint16 = 20309
)

// mysql error codes reported for the errors above.
const (
	ER_UNKNOWN_ERROR           uint16 = 1105
	ER_ENGINE_OUT_OF_MEMORY    uint16 = 1037
	ER_QUERY_INTERRUPTED       uint16 = 1317
	ER_DATA_OUT_OF_RANGE       uint16 = 1690
	ER_WRONG_PARAMCOUNT_TO_FN  uint16 = 1582
	ER_WRONG_ARGUMENTS         uint16 = 1210
	ER_SP_DOES_NOT_EXIST       uint16 = 1305
	ER_PARSE_ERROR             uint16 = 1064
	ER_BAD_FIELD_ERROR         uint16 = 1054
	ER_FILE_NOT_FOUND          uint16 = 1017
	ER_NOT_SUPPORTED_YET       uint16 = 1235
	ER_SP_ALREADY_EXISTS       uint16 = 1304
	ER_WRONG_VALUE_FOR_VAR     uint16 = 1231
	ER_UNEXPECTED_EOF          uint16 = 1105
	ER_INCONSISTENT_TYPE_OF_FN uint16 = 1210
)

type moErrorMsgItem struct {
	mysqlCode        uint16
	sqlStates        []string
	errorMsgOrFormat string
}

var errorMsgRefer = map[uint16]moErrorMsgItem{
	// Group 1: Internal errors
	ErrInternal:         {ER_UNKNOWN_ERROR, []string{MySQLDefaultSqlState}, "internal error: %s"},
	ErrNYI:              {ER_NOT_SUPPORTED_YET, []string{MySQLDefaultSqlState}, "%s is not yet implemented"},
	ErrOOM:              {ER_ENGINE_OUT_OF_MEMORY, []string{MySQLDefaultSqlState}, "error: out of memory"},
	ErrQueryInterrupted: {ER_QUERY_INTERRUPTED, []string{MySQLDefaultSqlState}, "query interrupted"},

	// Group 2: numeric and functions
	ErrOutOfRange:       {ER_DATA_OUT_OF_RANGE, []string{MySQLDefaultSqlState}, "data out of range: data type %s, %s"},
	ErrFunctionArity:    {ER_WRONG_PARAMCOUNT_TO_FN, []string{"42000"}, "incorrect parameter count in the call to '%s': expected %d, got %d"},
	ErrTypeMismatch:     {ER_INCONSISTENT_TYPE_OF_FN, []string{MySQLDefaultSqlState}, "type mismatch for '%s': %s and %s"},
	ErrFunctionNotFound: {ER_SP_DOES_NOT_EXIST, []string{"42000"}, "function or operator '%s' does not exist"},
	ErrDupFunction:      {ER_SP_ALREADY_EXISTS, []string{"42000"}, "function or operator '%s' already registered"},

	// Group 3: invalid input
	ErrBadConfig:    {ER_WRONG_VALUE_FOR_VAR, []string{MySQLDefaultSqlState}, "invalid configuration: %s"},
	ErrInvalidInput: {ER_WRONG_ARGUMENTS, []string{MySQLDefaultSqlState}, "invalid input: %s"},
	ErrSyntaxError:  {ER_PARSE_ERROR, []string{"42000"}, "SQL syntax error: %s"},
	ErrParseError:   {ER_PARSE_ERROR, []string{MySQLDefaultSqlState}, "SQL parser error: %s"},

	// Group 4: unexpected state and io errors
	ErrInvalidState:  {ER_UNKNOWN_ERROR, []string{MySQLDefaultSqlState}, "invalid state %s"},
	ErrFileNotFound:  {ER_FILE_NOT_FOUND, []string{MySQLDefaultSqlState}, "file %s is not found"},
	ErrUnexpectedEOF: {ER_UNEXPECTED_EOF, []string{MySQLDefaultSqlState}, "unexpected end of file %s"},
	ErrBadFieldError: {ER_BAD_FIELD_ERROR, []string{"42S22"}, "Unknown column '%s' in '%s'"},
}

func newError(ctx context.Context, code uint16, args ...any) *Error {
	var err *Error
	item, has := errorMsgRefer[code]
	if !has {
		panic(NewInternalError(ctx, "not exist MOErrorCode: %d", code))
	}
	if len(args) == 0 {
		err = &Error{
			code:      code,
			mysqlCode: item.mysqlCode,
			message:   item.errorMsgOrFormat,
			sqlState:  item.sqlStates[0],
		}
	} else {
		err = &Error{
			code:      code,
			mysqlCode: item.mysqlCode,
			message:   fmt.Sprintf(item.errorMsgOrFormat, args...),
			sqlState:  item.sqlStates[0],
		}
	}
	return err
}

type Error struct {
	code      uint16
	mysqlCode uint16
	message   string
	sqlState  string
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

func (e *Error) MySQLCode() uint16 {
	return e.mysqlCode
}

func (e *Error) SqlState() string {
	return e.sqlState
}

// IsMoErrCode reports whether e, or any error it wraps, is a moerr with code rc.
func IsMoErrCode(e error, rc uint16) bool {
	if e == nil {
		return rc == Ok
	}

	var me *Error
	if !errors.As(e, &me) {
		// This is not a moerr
		return false
	}
	return me.code == rc
}

func DowncastError(e error) *Error {
	var me *Error
	if errors.As(e, &me) {
		return me
	}
	return newError(context.Background(), ErrInternal, fmt.Sprintf("downcast error failed: %v", e))
}

// ConvertPanicError converts a runtime panic to internal error.
func ConvertPanicError(ctx context.Context, v interface{}) *Error {
	if e, ok := v.(*Error); ok {
		return e
	}
	return newError(ctx, ErrInternal, fmt.Sprintf("panic %v", v))
}

// ConvertGoError converts a go error into mo error.
// Note here we must return error, because nil error
// is the same as nil *Error -- Go strangeness.
func ConvertGoError(ctx context.Context, err error) error {
	// nil is nil
	if err == nil {
		return err
	}

	// already a moerr, return it as is
	var me *Error
	if errors.As(err, &me) {
		return err
	}

	// Convert a few well known os/go error.
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// if io.EOF reaches here, we believe it is not expected.
		return NewUnexpectedEOF(ctx, err.Error())
	}

	return NewInternalError(ctx, "convert go error to mo error %v", err)
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInternal, xmsg)
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrNYI, xmsg)
}

func NewOOM(ctx context.Context) *Error {
	return newError(ctx, ErrOOM)
}

func NewQueryInterrupted(ctx context.Context) *Error {
	return newError(ctx, ErrQueryInterrupted)
}

func NewOutOfRange(ctx context.Context, typ string, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrOutOfRange, typ, xmsg)
}

// NewFunctionArity reports a function invoked with the wrong number of arguments.
func NewFunctionArity(ctx context.Context, name string, expected, got int) *Error {
	return newError(ctx, ErrFunctionArity, name, expected, got)
}

// NewTypeMismatch reports two arguments whose declared types differ.
func NewTypeMismatch(ctx context.Context, name string, left, right fmt.Stringer) *Error {
	return newError(ctx, ErrTypeMismatch, name, left.String(), right.String())
}

func NewFunctionNotFound(ctx context.Context, name string) *Error {
	return newError(ctx, ErrFunctionNotFound, name)
}

func NewDupFunction(ctx context.Context, name string) *Error {
	return newError(ctx, ErrDupFunction, name)
}

func NewBadConfig(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrBadConfig, xmsg)
}

func NewInvalidInput(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidInput, xmsg)
}

func NewSyntaxError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrSyntaxError, xmsg)
}

func NewParseError(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrParseError, xmsg)
}

func NewInvalidState(ctx context.Context, msg string, args ...any) *Error {
	xmsg := fmt.Sprintf(msg, args...)
	return newError(ctx, ErrInvalidState, xmsg)
}

func NewFileNotFound(ctx context.Context, f string) *Error {
	return newError(ctx, ErrFileNotFound, f)
}

func NewUnexpectedEOF(ctx context.Context, f string) *Error {
	return newError(ctx, ErrUnexpectedEOF, f)
}

func NewBadFieldError(ctx context.Context, column, table string) *Error {
	return newError(ctx, ErrBadFieldError, column, table)
}
