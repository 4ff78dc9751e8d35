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

package scheduler

import (
	"context"

	"github.com/panjf2000/ants/v2"

	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm/pipeline"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

// Task is a unit of work run by the Scheduler.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs independent tasks on a bounded goroutine pool.
type Scheduler struct {
	workers int
	pool    *ants.Pool
}

// PipelineTask runs one pipeline and keeps its result.
type PipelineTask struct {
	name   string
	p      *pipeline.Pipeline
	proc   *process.Process
	result *storage.Table
}
