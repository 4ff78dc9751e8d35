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
	schedulerTaskCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mo",
			Subsystem: "scheduler",
			Name:      "task_total",
			Help:      "Total number of tasks handled by the scheduler.",
		}, []string{"type"})
	SchedulerSubmittedTaskCounter = schedulerTaskCounter.WithLabelValues("submitted")
	SchedulerFailedTaskCounter    = schedulerTaskCounter.WithLabelValues("failed")
	SchedulerPanickedTaskCounter  = schedulerTaskCounter.WithLabelValues("panicked")

	SchedulerRunningTaskGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mo",
			Subsystem: "scheduler",
			Name:      "running_tasks",
			Help:      "Number of tasks currently running in the scheduler pool.",
		})
)
