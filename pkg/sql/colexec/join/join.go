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

package join

import (
	"bytes"
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/sql/colexec"
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

const argName = "join"

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(fmt.Sprintf(": inner join(#%d = #%d)", arg.LeftColumnID, arg.RightColumnID))
}

func (arg *Argument) Prepare(proc *process.Process) error {
	if len(arg.Children) != 2 {
		return moerr.NewInvalidState(proc.Ctx, "%s needs 2 children, has %d", argName, len(arg.Children))
	}
	arg.ctr = &container{state: Build}
	return nil
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	ctr := arg.ctr
	if ctr == nil {
		return vm.CancelResult, moerr.NewInvalidState(proc.Ctx, "%s called before prepare", argName)
	}
	result := vm.NewCallResult()
	result.Status = vm.ExecStop
	if ctr.state == End {
		return result, nil
	}
	defer func() { ctr.state = End }()

	left, err := vm.ChildrenCall(arg.GetChildren(0), proc)
	if err != nil {
		return vm.CancelResult, err
	}
	right, err := vm.ChildrenCall(arg.GetChildren(1), proc)
	if err != nil {
		return vm.CancelResult, err
	}
	if left == nil || right == nil {
		return vm.CancelResult, moerr.NewInvalidState(proc.Ctx, "%s child produced no table", argName)
	}
	out, err := ctr.join(proc.Ctx, left, right, arg.LeftColumnID, arg.RightColumnID)
	if err != nil {
		return vm.CancelResult, err
	}
	proc.Debug("join done",
		zap.Int("left-rows", left.RowCount()),
		zap.Int("right-rows", right.RowCount()),
		zap.Int("output-rows", out.RowCount()))
	result.Table = out
	return result, nil
}

// Join returns the inner equi-join of left and right on leftCol = rightCol.
// Output columns are the columns of left followed by those of right.
func Join(ctx context.Context, left, right *storage.Table, leftCol, rightCol types.ColumnID) (*storage.Table, error) {
	ctr := &container{state: Build}
	return ctr.join(ctx, left, right, leftCol, rightCol)
}

func (ctr *container) join(ctx context.Context, left, right *storage.Table, leftCol, rightCol types.ColumnID) (*storage.Table, error) {
	if int(leftCol) >= left.ColumnCount() {
		return nil, moerr.NewInvalidArg(ctx, "join left column", leftCol)
	}
	if int(rightCol) >= right.ColumnCount() {
		return nil, moerr.NewInvalidArg(ctx, "join right column", rightCol)
	}
	lt, rt := left.ColumnType(leftCol), right.ColumnType(rightCol)
	if !lt.Eq(rt) {
		return nil, moerr.NewInvalidInput(ctx, "join keys of type %s and %s", lt, rt)
	}
	if lt.Oid != types.T_int64 && lt.Oid != types.T_varchar {
		return nil, moerr.NewNotSupported(ctx, "join on %s", lt)
	}

	chunkSize := max(left.MaxChunkSize(), right.MaxChunkSize())
	attrs := make([]storage.Attribute, 0, left.ColumnCount()+right.ColumnCount())
	attrs = append(attrs, left.Attrs()...)
	attrs = append(attrs, right.Attrs()...)
	out := storage.NewTable(chunkSize, attrs...)
	if left.RowCount() == 0 || right.RowCount() == 0 {
		ctr.state = End
		return out, nil
	}

	lgroups, lrows, err := colexec.Flatten(ctx, left)
	if err != nil {
		return nil, err
	}
	rgroups, rrows, err := colexec.Flatten(ctx, right)
	if err != nil {
		return nil, err
	}

	ctr.state = Build
	rkey := keyReader(rgroups, rrows, rightCol)
	ctr.mp = make(map[any][]int)
	for r := 0; r < right.RowCount(); r++ {
		k := rkey(r)
		ctr.mp[k] = append(ctr.mp[k], r)
	}

	ctr.state = Probe
	b := &builder{
		out:       out,
		groups:    append(lgroups, rgroups...),
		chunkSize: chunkSize,
	}
	b.reset()
	lkey := keyReader(lgroups, lrows, leftCol)
	for l := 0; l < left.RowCount(); l++ {
		for _, r := range ctr.mp[lkey(l)] {
			for g := range lgroups {
				b.pos[g].Append(lrows[g][l])
			}
			for g := range rgroups {
				b.pos[len(lgroups)+g].Append(rrows[g][r])
			}
			if err := b.rowAdded(); err != nil {
				return nil, err
			}
		}
	}
	ctr.mp = nil
	if err := b.finish(); err != nil {
		return nil, err
	}
	return out, nil
}

// keyReader returns the value of column col for flattened row r.
func keyReader(groups []colexec.Source, rows [][]types.RowID, col types.ColumnID) func(r int) any {
	for g := range groups {
		for i, id := range groups[g].Columns {
			if id == col {
				tbl, base := groups[g].Table, groups[g].BaseColumns[i]
				return func(r int) any {
					return tbl.Value(base, rows[g][r])
				}
			}
		}
	}
	panic(moerr.NewInternalErrorNoCtx("column %d not in any column group", col))
}

type builder struct {
	out       *storage.Table
	groups    []colexec.Source
	chunkSize int
	rows      int
	pos       []*poslist.PosList
}

func (b *builder) reset() {
	b.rows = 0
	b.pos = make([]*poslist.PosList, len(b.groups))
	for i := range b.pos {
		b.pos[i] = poslist.New(b.chunkSize)
	}
}

func (b *builder) rowAdded() error {
	b.rows++
	if b.chunkSize != 0 && b.rows == b.chunkSize {
		return b.flush()
	}
	return nil
}

func (b *builder) flush() error {
	c := storage.NewChunk()
	for i := range b.groups {
		colexec.AddReferenceColumns(c, &b.groups[i], b.pos[i])
	}
	if err := b.out.AppendChunk(c); err != nil {
		return err
	}
	b.reset()
	return nil
}

func (b *builder) finish() error {
	if b.rows != 0 {
		return b.flush()
	}
	return nil
}
