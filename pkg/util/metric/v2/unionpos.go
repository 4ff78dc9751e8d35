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

package v2

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	unionPosRowsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "unionpos",
			Name:      "rows_total",
			Help:      "Total number of rows read and written by union positions.",
		}, []string{"side"})
	UnionPosLeftRowsCounter   = unionPosRowsCounter.WithLabelValues("left")
	UnionPosRightRowsCounter  = unionPosRowsCounter.WithLabelValues("right")
	UnionPosOutputRowsCounter = unionPosRowsCounter.WithLabelValues("output")

	UnionPosDuplicateRowsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "unionpos",
			Name:      "duplicate_rows_total",
			Help:      "Total number of rows found on both sides of a union positions.",
		})

	UnionPosEarlyExitCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "unionpos",
			Name:      "early_exit_total",
			Help:      "Total number of union positions answered without a merge.",
		})
)

var (
	unionPosDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mo",
			Subsystem: "unionpos",
			Name:      "duration_seconds",
			Help:      "Bucketed histogram of union positions step duration.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2.0, 20),
		}, []string{"step"})
	UnionPosPrepareDurationHistogram = unionPosDurationHistogram.WithLabelValues("prepare")
	UnionPosMatrixDurationHistogram  = unionPosDurationHistogram.WithLabelValues("matrix")
	UnionPosSortDurationHistogram    = unionPosDurationHistogram.WithLabelValues("sort")
	UnionPosMergeDurationHistogram   = unionPosDurationHistogram.WithLabelValues("merge")
)
