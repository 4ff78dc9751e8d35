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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/matrixorigin/refunion/pkg/catalog"
	"github.com/matrixorigin/refunion/pkg/config"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/logutil"
	"github.com/matrixorigin/refunion/pkg/sql/colexec/join"
	"github.com/matrixorigin/refunion/pkg/sql/colexec/restrict"
	"github.com/matrixorigin/refunion/pkg/sql/colexec/table_scan"
	"github.com/matrixorigin/refunion/pkg/sql/colexec/unionpos"
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/pipeline"
	"github.com/matrixorigin/refunion/pkg/vm/process"
	"github.com/matrixorigin/refunion/pkg/vm/scheduler"
)

var (
	configFile = flag.String("cfg", "", "toml configuration, defaults are used when empty")
	rows       = flag.Int("rows", 24, "rows of the demo orders table")
)

var customers = [][]any{
	{"alice", "paris"},
	{"bob", "berlin"},
	{"carol", "paris"},
	{"dave", "rome"},
}

func main() {
	flag.Parse()

	ctx := context.Background()
	cfg, err := loadConfig(ctx, *configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to parse config from %s, error: %s", *configFile, err.Error()))
	}
	logutil.SetupMOLogger(&cfg.Log)

	if err := run(ctx, cfg, *rows, os.Stdout); err != nil {
		logutil.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func loadConfig(ctx context.Context, path string) (*config.Parameters, error) {
	if path == "" {
		return config.Load(ctx, "")
	}
	return config.LoadFile(ctx, path)
}

// run loads the demo tables, runs the demo queries in parallel and prints
// their results to w.
func run(ctx context.Context, cfg *config.Parameters, orderRows int, w io.Writer) error {
	cat := catalog.NewStorageManager()
	if err := loadTables(ctx, cat, int(cfg.Exec.DefaultChunkSize), orderRows); err != nil {
		return err
	}
	if err := cat.Print(w); err != nil {
		return err
	}

	sched, err := scheduler.New(int(cfg.Exec.SchedulerWorkers))
	if err != nil {
		return err
	}
	defer sched.Close()

	queries := []struct {
		name string
		root vm.Operator
	}{
		{"cheap-or-bob", union(
			filter(scan("orders"), 2, restrict.LT, 50.0),
			filter(scan("orders"), 1, restrict.EQ, "bob"))},
		{"early-or-paris", union(
			equiJoin(filter(scan("orders"), 0, restrict.LE, 5), scan("customers")),
			equiJoin(scan("orders"), filter(scan("customers"), 1, restrict.EQ, "paris")))},
	}
	tasks := make([]*scheduler.PipelineTask, len(queries))
	all := make([]scheduler.Task, len(queries))
	for i, q := range queries {
		proc := process.NewFromParameters(ctx, cat, cfg)
		tasks[i] = scheduler.NewPipelineTask(q.name, pipeline.New(q.root), proc)
		all[i] = tasks[i]
	}
	if err := sched.Run(ctx, all...); err != nil {
		return err
	}

	for i, t := range tasks {
		fmt.Fprintf(w, "\n==== query >> %s << %s\n", t.Name(), pipeline.New(queries[i].root))
		if err := t.Result().Print(w); err != nil {
			return err
		}
	}
	return nil
}

func loadTables(ctx context.Context, cat *catalog.StorageManager, chunkSize int, orderRows int) error {
	orders := storage.NewTable(chunkSize,
		storage.Attribute{Name: "id", Type: types.T_int64.ToType()},
		storage.Attribute{Name: "customer", Type: types.T_varchar.ToType()},
		storage.Attribute{Name: "amount", Type: types.T_float64.ToType()})
	for i := 0; i < orderRows; i++ {
		customer := customers[i%len(customers)][0]
		if err := orders.Append(int64(i), customer, float64((i*37)%100)); err != nil {
			return err
		}
	}
	people := storage.NewTable(chunkSize,
		storage.Attribute{Name: "name", Type: types.T_varchar.ToType()},
		storage.Attribute{Name: "city", Type: types.T_varchar.ToType()})
	for _, c := range customers {
		if err := people.Append(c...); err != nil {
			return err
		}
	}
	if err := cat.AddTable(ctx, "orders", orders); err != nil {
		return err
	}
	return cat.AddTable(ctx, "customers", people)
}

func scan(table string) vm.Operator {
	return table_scan.NewArgument(table)
}

func filter(child vm.Operator, col types.ColumnID, op restrict.Op, v any) vm.Operator {
	arg := restrict.NewArgument(col, op, v)
	arg.AppendChild(child)
	return arg
}

// equiJoin joins orders.customer with customers.name.
func equiJoin(orders, people vm.Operator) vm.Operator {
	arg := join.NewArgument(1, 0)
	arg.AppendChild(orders)
	arg.AppendChild(people)
	return arg
}

func union(left, right vm.Operator) vm.Operator {
	arg := unionpos.NewArgument()
	arg.AppendChild(left)
	arg.AppendChild(right)
	return arg
}
