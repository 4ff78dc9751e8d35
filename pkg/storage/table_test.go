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

package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
)

func newTestTable(t *testing.T) *Table {
	tbl := NewTable(2,
		Attribute{Name: "a", Type: types.T_int64.ToType()},
		Attribute{Name: "b", Type: types.T_varchar.ToType()},
	)
	require.NoError(t, tbl.Append(1, "x"))
	require.NoError(t, tbl.Append(2, "y"))
	require.NoError(t, tbl.Append(3, "z"))
	return tbl
}

func TestTableAppend(t *testing.T) {
	tbl := newTestTable(t)
	require.Equal(t, 3, tbl.RowCount())
	require.Equal(t, 2, tbl.ChunkCount())
	require.Equal(t, 2, tbl.GetChunk(0).Len())
	require.Equal(t, 1, tbl.GetChunk(1).Len())
	require.Equal(t, Data, tbl.Kind())
	require.Equal(t, "z", tbl.Value(1, types.NewRowID(1, 0)))
	require.Equal(t, int64(2), tbl.Value(0, types.NewRowID(0, 1)))

	err := tbl.Append(1)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	id, err := tbl.ColumnIDByName(context.TODO(), "b")
	require.NoError(t, err)
	require.Equal(t, types.ColumnID(1), id)
	_, err = tbl.ColumnIDByName(context.TODO(), "c")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestUnboundedChunk(t *testing.T) {
	tbl := NewTable(0, Attribute{Name: "a", Type: types.T_float64.ToType()})
	for i := 0; i < 100; i++ {
		require.NoError(t, tbl.Append(float64(i)))
	}
	require.Equal(t, 1, tbl.ChunkCount())
	require.Equal(t, 100, tbl.RowCount())
}

func TestReferenceColumn(t *testing.T) {
	base := newTestTable(t)
	pos := poslist.New(2)
	pos.Append(types.NewRowID(1, 0))
	pos.Append(types.NewRowID(0, 0))

	ref := NewTable(0, base.Attrs()...)
	c := NewChunk()
	c.AddColumn(NewReferenceColumn(base, 0, pos))
	c.AddColumn(NewReferenceColumn(base, 1, pos))
	require.True(t, pos.Published())
	require.NoError(t, ref.AppendChunk(c))

	require.Equal(t, References, ref.Kind())
	require.Equal(t, 2, ref.RowCount())
	require.Equal(t, int64(3), ref.Value(0, types.NewRowID(0, 0)))
	require.Equal(t, "x", ref.Value(1, types.NewRowID(0, 1)))

	col := c.GetColumn(1).(*ReferenceColumn)
	require.Same(t, base, col.ReferencedTable())
	require.Equal(t, types.ColumnID(1), col.ReferencedColumnID())
	require.Same(t, pos, col.PosList())
	require.True(t, col.GetType().Eq(types.T_varchar.ToType()))

	err := ref.Append(1, "x")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNotSupported))
	err = c.Append(1, "x")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))

	bad := NewChunk()
	bad.AddColumn(NewReferenceColumn(base, 0, pos))
	err = ref.AppendChunk(bad)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrInvalidInput))
}

func TestLayout(t *testing.T) {
	a := newTestTable(t)
	b := NewWithLayoutFrom(a, 7)
	require.True(t, LayoutsEqual(a, b))
	require.NotEqual(t, a.ID(), b.ID())
	require.Equal(t, 7, b.MaxChunkSize())
	require.Equal(t, 0, b.RowCount())

	c := NewTable(0, Attribute{Name: "a", Type: types.T_int64.ToType()},
		Attribute{Name: "b", Type: types.T_int64.ToType()})
	require.False(t, LayoutsEqual(a, c))
	d := NewTable(0, Attribute{Name: "a", Type: types.T_int64.ToType()},
		Attribute{Name: "c", Type: types.T_varchar.ToType()})
	require.False(t, LayoutsEqual(a, d))
	require.False(t, LayoutsEqual(a, NewTable(0)))
}

func TestChunkWithRows(t *testing.T) {
	tbl := NewTable(0)
	require.NoError(t, tbl.AppendChunk(NewChunkWithRows(4)))
	require.Equal(t, 4, tbl.RowCount())
	require.Equal(t, 0, tbl.ColumnCount())
	require.Equal(t, Data, tbl.Kind())
}

func TestPrint(t *testing.T) {
	tbl := newTestTable(t)
	var buf bytes.Buffer
	require.NoError(t, tbl.Print(&buf))
	require.Equal(t, "a(BIGINT)|b(VARCHAR)|\n=== chunk 0 ===\n1|x|\n2|y|\n=== chunk 1 ===\n3|z|\n", buf.String())
	require.Equal(t, []int{1, 1}, tbl.GetChunk(0).ColumnStringWidths(20))
}
