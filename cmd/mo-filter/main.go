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
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/matrixorigin/vecexpr/pkg/config"
	"github.com/matrixorigin/vecexpr/pkg/logutil"
	"github.com/matrixorigin/vecexpr/pkg/sql/colexec/restrict"
	"github.com/matrixorigin/vecexpr/pkg/sql/plan/function"
	v2 "github.com/matrixorigin/vecexpr/pkg/util/metric/v2"
	"github.com/matrixorigin/vecexpr/pkg/vm/engine/parquet"
	"github.com/matrixorigin/vecexpr/pkg/vm/process"
)

var (
	configFile = flag.String("cfg", "./etc/mo-filter.toml", "toml configuration used to start mo-filter")
	dataFile   = flag.String("file", "", "parquet file to scan")
	where      = flag.String("where", "", "conditions joined by and, e.g. \"a < 3 and b = 'x'\"")
)

func main() {
	flag.Parse()
	if *dataFile == "" || *where == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	cfg, err := config.ParseConfigFromFile(ctx, *configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}
	setupLogger(cfg)

	rows, err := run(config.WithConfig(ctx, cfg), *dataFile, *where)
	if err != nil {
		logutil.Error("mo-filter failed", zap.String("file", *dataFile), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.Exec.EnableMetric {
		logMetrics()
	}
	fmt.Println(rows)
}

// logMetrics writes the non zero counters of the run to the log.
func logMetrics() {
	mfs, err := v2.GetPrometheusGatherer().Gather()
	if err != nil {
		logutil.Warn("gather metrics failed", zap.Error(err))
		return
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil || m.GetCounter().GetValue() == 0 {
				continue
			}
			fields := []zap.Field{zap.Float64("value", m.GetCounter().GetValue())}
			for _, l := range m.GetLabel() {
				fields = append(fields, zap.String(l.GetName(), l.GetValue()))
			}
			logutil.Info(mf.GetName(), fields...)
		}
	}
}

func setupLogger(cfg *config.Config) {
	logutil.SetupMOLogger(&cfg.Log)
}

// run filters the parquet file at path and returns the number of matching rows.
func run(ctx context.Context, path, where string) (int, error) {
	cfg := config.GetConfig(ctx)

	conds, err := parseWhere(ctx, where)
	if err != nil {
		return 0, err
	}

	reg := function.NewRegistry()
	if err = function.RegisterComparisonFunctions(ctx, reg); err != nil {
		return 0, err
	}

	src, err := parquet.Open(ctx, path, nil, parquet.Options{BatchSize: cfg.Exec.BatchSize})
	if err != nil {
		return 0, err
	}
	defer src.Close()

	proc := process.New(ctx, process.Limitation{BatchRows: int64(cfg.Exec.BatchSize)})
	proc.SetQueryId(uuid.NewString())
	arg := &restrict.Argument{Conds: conds}
	if err = restrict.Prepare(proc, arg, reg, src.Attributes()); err != nil {
		return 0, err
	}
	if cfg.Exec.LogResolve {
		for _, c := range conds {
			logutil.Debug("condition resolved", zap.String("cond", c.String()))
		}
	}

	bats, err := restrict.RunParallel(proc, arg, src, cfg.Exec.Parallelism)
	if err != nil {
		return 0, err
	}
	rows := 0
	for _, bat := range bats {
		rows += bat.RowCount()
	}
	return rows, nil
}
