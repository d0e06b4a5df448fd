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

package logutil2

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matrixorigin/vecexpr/pkg/logutil"
)

func TestContextFieldsReachOutput(t *testing.T) {
	defer logutil.SetupMOLogger(&logutil.LogConfig{Level: "debug", Format: "console"})

	file := filepath.Join(t.TempDir(), "mo.log")
	logutil.SetupMOLogger(&logutil.LogConfig{Level: "info", Format: "json", Filename: file})

	ctx := logutil.ContextWithQueryID(context.Background(), "q-42")
	Info(ctx, "with query", zap.Int("rows", 3))
	Warn(context.Background(), "without query")

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], `"msg":"with query"`)
	require.Contains(t, lines[0], `"query_id":"q-42"`)
	require.Contains(t, lines[0], `"rows":3`)
	require.Contains(t, lines[1], `"msg":"without query"`)
	require.NotContains(t, lines[1], "query_id")
}
