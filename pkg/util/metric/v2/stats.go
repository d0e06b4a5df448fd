// Copyright 2021 - 2024 Matrix Origin
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

package v2

import "github.com/prometheus/client_golang/prometheus"

var (
	compareStrategyCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sql",
			Name:      "compare_strategy_total",
			Help:      "Total count of comparison calls by evaluation strategy.",
		}, []string{"strategy"})
	CompareFlatFlatCounter       = compareStrategyCounter.WithLabelValues("flat_flat")
	CompareFlatFlatNoNullCounter = compareStrategyCounter.WithLabelValues("flat_flat_no_null")
	CompareFlatConstCounter      = compareStrategyCounter.WithLabelValues("flat_const")
	CompareConstFlatCounter      = compareStrategyCounter.WithLabelValues("const_flat")
	CompareConstConstCounter     = compareStrategyCounter.WithLabelValues("const_const")
	CompareConstNullCounter      = compareStrategyCounter.WithLabelValues("const_null")
	CompareGenericCounter        = compareStrategyCounter.WithLabelValues("generic")

	CompareRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sql",
			Name:      "compare_rows_total",
			Help:      "Total number of selected rows evaluated by comparisons.",
		})

	functionResolveCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sql",
			Name:      "function_resolve_total",
			Help:      "Total count of function resolutions by result.",
		}, []string{"result"})
	FunctionResolveOKCounter          = functionResolveCounter.WithLabelValues("ok")
	FunctionResolveArityCounter       = functionResolveCounter.WithLabelValues("arity")
	FunctionResolveMismatchCounter    = functionResolveCounter.WithLabelValues("type_mismatch")
	FunctionResolveUnsupportedCounter = functionResolveCounter.WithLabelValues("unsupported")
	FunctionResolveNotFoundCounter    = functionResolveCounter.WithLabelValues("not_found")
)

var (
	restrictRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "sql",
			Name:      "restrict_rows_total",
			Help:      "Total number of rows read and kept by restrict.",
		}, []string{"type"})
	RestrictInputRowsCounter  = restrictRowsCounter.WithLabelValues("input")
	RestrictOutputRowsCounter = restrictRowsCounter.WithLabelValues("output")

	RestrictBatchDurationHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "sql",
			Name:      "restrict_batch_duration_seconds",
			Help:      "Bucketed histogram of restrict duration per batch.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 20),
		})
)

var (
	parquetPageCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "fs",
			Name:      "parquet_page_total",
			Help:      "Total count of parquet pages decoded by encoding.",
		}, []string{"encoding"})
	ParquetPlainPageCounter = parquetPageCounter.WithLabelValues("plain")
	ParquetDictPageCounter  = parquetPageCounter.WithLabelValues("dict")
)
