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

package process

import (
	"context"
)

type Limitation struct {
	BatchRows int64 // max rows for batch
}

// Process is the evaluation context of one worker. It is not shared between
// goroutines; every worker of a query gets its own.
type Process struct {
	Id  string // query id
	Lim Limitation
	Ctx context.Context

	// vectors allocated by EnsureWritable, for tests and accounting.
	allocated int
}
