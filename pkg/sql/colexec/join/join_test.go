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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/sql/colexec"
	"github.com/matrixorigin/refunion/pkg/sql/colexec/restrict"
	"github.com/matrixorigin/refunion/pkg/sql/colexec/table_scan"
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/testutil"
	"github.com/matrixorigin/refunion/pkg/vm"
)

func newRightTable() *storage.Table {
	tbl := storage.NewTable(0,
		storage.Attribute{Name: "k", Type: types.T_int64.ToType()},
		storage.Attribute{Name: "v", Type: types.T_varchar.ToType()})
	for _, row := range [][]any{{10, "p"}, {30, "q"}, {30, "r"}, {50, "s"}} {
		if err := tbl.Append(row...); err != nil {
			panic(err)
		}
	}
	return tbl
}

func TestJoin(t *testing.T) {
	proc := testutil.NewProcess()
	left := testutil.NewInt64Table(2, 4, false, "a", "b")
	right := newRightTable()
	require.NoError(t, proc.Catalog.AddTable(proc.Ctx, "l", left))
	require.NoError(t, proc.Catalog.AddTable(proc.Ctx, "r", right))

	arg := NewArgument(0, 0)
	arg.AppendChild(table_scan.NewArgument("l"))
	arg.AppendChild(table_scan.NewArgument("r"))
	buf := new(bytes.Buffer)
	arg.String(buf)
	require.Equal(t, "join: inner join(#0 = #0)", buf.String())

	require.NoError(t, vm.Prepare(arg, proc))
	result, err := arg.Call(proc)
	require.NoError(t, err)
	require.Equal(t, vm.ExecStop, result.Status)
	out := result.Table
	require.Equal(t, []string{"a", "b", "k", "v"}, []string{
		out.ColumnName(0), out.ColumnName(1), out.ColumnName(2), out.ColumnName(3)})
	require.Equal(t, 2, out.MaxChunkSize())
	require.Equal(t, 2, out.ChunkCount())
	require.Equal(t, [][]any{
		{int64(10), int64(11), int64(10), "p"},
		{int64(30), int64(31), int64(30), "q"},
		{int64(30), int64(31), int64(30), "r"},
	}, testutil.Values(out))

	// one position list per input table
	c := out.GetChunk(0)
	col := func(i types.ColumnID) *storage.ReferenceColumn {
		return c.GetColumn(i).(*storage.ReferenceColumn)
	}
	require.Same(t, col(0).PosList(), col(1).PosList())
	require.Same(t, col(2).PosList(), col(3).PosList())
	require.NotSame(t, col(0).PosList(), col(2).PosList())
	require.Same(t, left, col(0).ReferencedTable())
	require.Same(t, right, col(3).ReferencedTable())

	result, err = arg.Call(proc)
	require.NoError(t, err)
	require.Nil(t, result.Table)
}

func TestJoinReferenceInputs(t *testing.T) {
	proc := testutil.NewProcess()
	left := testutil.NewInt64Table(0, 4, false, "a", "b")
	right := newRightTable()
	require.NoError(t, proc.Catalog.AddTable(proc.Ctx, "l", left))
	require.NoError(t, proc.Catalog.AddTable(proc.Ctx, "r", right))

	lin := restrict.NewArgument(0, restrict.GE, 20)
	lin.AppendChild(table_scan.NewArgument("l"))
	rin := restrict.NewArgument(1, restrict.NE, "q")
	rin.AppendChild(table_scan.NewArgument("r"))
	arg := NewArgument(0, 0)
	arg.AppendChild(lin)
	arg.AppendChild(rin)

	require.NoError(t, vm.Prepare(arg, proc))
	out, err := vm.Run(arg, proc)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{int64(30), int64(31), int64(30), "r"},
	}, testutil.Values(out))
	require.Equal(t, [][]types.RowID{
		{types.NewRowID(0, 3), types.NewRowID(0, 2)},
	}, testutil.RowIDs(out, 1, 2))
	require.Same(t, left, out.GetChunk(0).GetColumn(0).(*storage.ReferenceColumn).ReferencedTable())
}

func TestJoinStrings(t *testing.T) {
	ctx := context.TODO()
	right := newRightTable()
	left := storage.NewTable(0, storage.Attribute{Name: "name", Type: types.T_varchar.ToType()})
	require.NoError(t, left.Append("s"))
	require.NoError(t, left.Append("x"))
	require.NoError(t, left.Append("p"))

	out, err := Join(ctx, left, right, 0, 1)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{"s", int64(50), "s"},
		{"p", int64(10), "p"},
	}, testutil.Values(out))
}

func TestJoinErrors(t *testing.T) {
	ctx := context.TODO()
	right := newRightTable()
	left := testutil.NewInt64Table(0, 2, false, "a")

	_, err := Join(ctx, left, right, 0, 1)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
	_, err = Join(ctx, left, right, 1, 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))
	_, err = Join(ctx, left, right, 0, 2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidArg))

	f := storage.NewTable(0, storage.Attribute{Name: "f", Type: types.T_float64.ToType()})
	require.NoError(t, f.Append(1.0))
	_, err = Join(ctx, f, f, 0, 0)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))

	empty := testutil.NewInt64Table(0, 0, false, "k")
	out, err := Join(ctx, empty, right, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 3, out.ColumnCount())
	require.Equal(t, 0, out.RowCount())

	proc := testutil.NewProcess()
	_, err = NewArgument(0, 0).Call(proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
	err = NewArgument(0, 0).Prepare(proc)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidState))
}

func TestBuilderAppendError(t *testing.T) {
	tbl := storage.NewTable(0,
		storage.Attribute{Name: "k", Type: types.T_int64.ToType()},
		storage.Attribute{Name: "v", Type: types.T_varchar.ToType()})
	require.NoError(t, tbl.Append(1, "a"))
	groups, rows, err := colexec.Flatten(context.Background(), tbl)
	require.NoError(t, err)

	// output layout narrower than the column groups
	b := &builder{
		out:       storage.NewTable(2, storage.Attribute{Name: "k", Type: types.T_int64.ToType()}),
		groups:    groups,
		chunkSize: 2,
	}
	b.reset()
	b.pos[0].Append(rows[0][0])
	require.NoError(t, b.rowAdded())
	b.pos[0].Append(rows[0][0])
	err = b.rowAdded()
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	b.reset()
	b.pos[0].Append(rows[0][0])
	b.rows = 1
	require.True(t, moerr.IsMoErrCode(b.finish(), moerr.ErrInvalidInput))
}
