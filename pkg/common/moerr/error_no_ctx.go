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
)

// NoCtx variants are for value level helpers (parsers, formatters) that
// are called outside of any request.

func NewInternalErrorNoCtx(msg string, args ...any) *Error {
	return NewInternalError(context.Background(), msg, args...)
}

func NewNYINoCtx(msg string, args ...any) *Error {
	return NewNYI(context.Background(), msg, args...)
}

func NewInvalidInputNoCtxf(msg string, args ...any) *Error {
	return NewInvalidInput(context.Background(), msg, args...)
}

func NewOutOfRangeNoCtx(typ string, msg string, args ...any) *Error {
	return NewOutOfRange(context.Background(), typ, msg, args...)
}

func NewTypeMismatchNoCtx(name string, left, right fmt.Stringer) *Error {
	return NewTypeMismatch(context.Background(), name, left, right)
}
