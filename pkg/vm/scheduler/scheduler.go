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
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/logutil"
	"github.com/matrixorigin/refunion/pkg/logutil/logutil2"
	"github.com/matrixorigin/refunion/pkg/storage"
	v2 "github.com/matrixorigin/refunion/pkg/util/metric/v2"
	"github.com/matrixorigin/refunion/pkg/vm/pipeline"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

var newPool = func(size int, opts ...ants.Option) (*ants.Pool, error) {
	return ants.NewPool(size, opts...)
}

func New(workers int) (*Scheduler, error) {
	if workers <= 0 {
		return nil, moerr.NewInvalidArg(context.Background(), "scheduler workers", workers)
	}
	pool, err := newPool(workers,
		ants.WithNonblocking(false),
		ants.WithPanicHandler(func(e interface{}) {
			logutil.Error("scheduler worker panicked", zap.Any("error", e))
		}))
	if err != nil {
		return nil, moerr.ConvertGoError(context.Background(), err)
	}
	return &Scheduler{workers: workers, pool: pool}, nil
}

func (s *Scheduler) Workers() int {
	return s.workers
}

// Run runs tasks concurrently and waits for all of them. A task that has
// not started when ctx is done is skipped with ctx's error. The errors of
// all tasks are combined.
func (s *Scheduler) Run(ctx context.Context, tasks ...Task) error {
	var wg sync.WaitGroup
	errs := make([]error, len(tasks))
	for i, t := range tasks {
		i, t := i, t
		wg.Add(1)
		v2.SchedulerSubmittedTaskCounter.Inc()
		err := s.pool.Submit(func() {
			defer wg.Done()
			errs[i] = runTask(ctx, t)
		})
		if err != nil {
			wg.Done()
			errs[i] = moerr.ConvertGoError(ctx, err)
		}
	}
	wg.Wait()

	var err error
	for i, e := range errs {
		if e != nil {
			v2.SchedulerFailedTaskCounter.Inc()
			logutil2.Error(ctx, "task failed", zap.String("task", tasks[i].Name()), zap.Error(e))
			err = multierr.Append(err, e)
		}
	}
	return err
}

func runTask(ctx context.Context, t Task) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	v2.SchedulerRunningTaskGauge.Inc()
	defer func() {
		v2.SchedulerRunningTaskGauge.Dec()
		if e := recover(); e != nil {
			v2.SchedulerPanickedTaskCounter.Inc()
			err = moerr.ConvertPanicError(ctx, e)
		}
	}()
	return t.Run(ctx)
}

// Close releases the pool. Tasks submitted afterwards fail.
func (s *Scheduler) Close() {
	s.pool.Release()
}

func NewPipelineTask(name string, p *pipeline.Pipeline, proc *process.Process) *PipelineTask {
	return &PipelineTask{name: name, p: p, proc: proc}
}

func (t *PipelineTask) Name() string {
	return t.name
}

// Run runs the pipeline. ctx only gates the start; the pipeline observes
// the context of its process.
func (t *PipelineTask) Run(ctx context.Context) error {
	tbl, err := t.p.Run(t.proc)
	if err != nil {
		return err
	}
	t.result = tbl
	return nil
}

func (t *PipelineTask) Result() *storage.Table {
	return t.result
}
