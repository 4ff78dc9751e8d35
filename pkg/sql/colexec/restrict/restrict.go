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

package restrict

import (
	"bytes"
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring"
	"go.uber.org/zap"
	"golang.org/x/exp/constraints"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/sql/colexec"
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

const argName = "restrict"

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(fmt.Sprintf(": filter(#%d %s %v)", arg.ColumnID, arg.Op, arg.Value))
}

func (arg *Argument) Prepare(proc *process.Process) error {
	if len(arg.Children) != 1 {
		return moerr.NewInvalidState(proc.Ctx, "%s needs 1 child, has %d", argName, len(arg.Children))
	}
	if arg.Op < EQ || arg.Op > GE {
		return moerr.NewInvalidArg(proc.Ctx, "restrict op", int(arg.Op))
	}
	if v, ok := arg.Value.(int); ok {
		arg.Value = int64(v)
	}
	arg.done = false
	return nil
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	result := vm.NewCallResult()
	result.Status = vm.ExecStop
	if arg.done {
		return result, nil
	}
	arg.done = true

	in, err := vm.ChildrenCall(arg.GetChildren(0), proc)
	if err != nil {
		return vm.CancelResult, err
	}
	if in == nil {
		return vm.CancelResult, moerr.NewInvalidState(proc.Ctx, "%s child produced no table", argName)
	}
	out, err := Filter(proc.Ctx, in, arg.ColumnID, arg.Op, arg.Value)
	if err != nil {
		return vm.CancelResult, err
	}
	proc.Debug("restrict done",
		zap.Int("input-rows", in.RowCount()),
		zap.Int("output-rows", out.RowCount()),
		zap.Int("output-chunks", out.ChunkCount()))
	result.Table = out
	return result, nil
}

// Filter returns a reference table over the rows of in whose column col
// compares to value by op.
func Filter(ctx context.Context, in *storage.Table, col types.ColumnID, op Op, value any) (*storage.Table, error) {
	if int(col) >= in.ColumnCount() {
		return nil, moerr.NewInvalidArg(ctx, "restrict column", col)
	}
	if v, ok := value.(int); ok {
		value = int64(v)
	}
	cmp, err := comparator(ctx, in.ColumnType(col), value)
	if err != nil {
		return nil, err
	}

	out := storage.NewWithLayoutFrom(in, in.MaxChunkSize())
	for chunkID, c := range in.Chunks() {
		if c.ColumnCount() != in.ColumnCount() {
			return nil, moerr.NewInvalidInput(ctx, "chunk %d has %d columns, table has %d",
				chunkID, c.ColumnCount(), in.ColumnCount())
		}
		column := c.GetColumn(col)
		matched := roaring.New()
		for r := 0; r < c.Len(); r++ {
			if op.matches(cmp(column.GetValue(r))) {
				matched.Add(uint32(r))
			}
		}
		if matched.IsEmpty() {
			continue
		}

		offsets := matched.ToArray()
		chunk := storage.NewChunk()
		for _, src := range colexec.Sources(in, types.ChunkID(chunkID)) {
			pos := poslist.New(len(offsets))
			for _, r := range offsets {
				pos.Append(src.Row(int(r)))
			}
			colexec.AddReferenceColumns(chunk, &src, pos)
		}
		if err := out.AppendChunk(chunk); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// comparator returns a function comparing a column value to value.
func comparator(ctx context.Context, typ types.Type, value any) (func(any) int, error) {
	switch typ.Oid {
	case types.T_int64:
		if v, ok := value.(int64); ok {
			return compareTo(v), nil
		}
	case types.T_float64:
		switch v := value.(type) {
		case float64:
			return compareTo(v), nil
		case int64:
			return compareTo(float64(v)), nil
		}
	case types.T_varchar:
		if v, ok := value.(string); ok {
			return compareTo(v), nil
		}
	}
	return nil, moerr.NewInvalidInput(ctx, "cannot compare %s column with %v (%T)", typ, value, value)
}

func compareTo[T constraints.Ordered](v T) func(any) int {
	return func(x any) int {
		a := x.(T)
		switch {
		case a < v:
			return -1
		case a > v:
			return 1
		}
		return 0
	}
}
