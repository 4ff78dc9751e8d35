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

package colexec

import (
	"context"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/storage"
)

// Source is a run of adjacent columns of one chunk that read the same
// base rows. Operators producing reference tables keep one position list
// per Source so that the columns stay row aligned.
type Source struct {
	// Table is the base table the columns read from.
	Table *storage.Table
	// Columns are the ids of the columns in the chunk.
	Columns []types.ColumnID
	// BaseColumns[i] is the column of Table read by Columns[i].
	BaseColumns []types.ColumnID

	chunkID types.ChunkID
	// nil for chunks of a data table
	pos *poslist.PosList
}

// Row returns the base row read by row r of the chunk.
func (s *Source) Row(r int) types.RowID {
	if s.pos == nil {
		return types.NewRowID(s.chunkID, types.ChunkOffset(r))
	}
	return s.pos.Get(r)
}

// Sources splits the columns of chunk chunkID of tbl by base rows. A chunk
// of value columns is a single Source over tbl itself.
func Sources(tbl *storage.Table, chunkID types.ChunkID) []Source {
	c := tbl.GetChunk(chunkID)
	var srcs []Source
	for i, col := range c.Columns() {
		id := types.ColumnID(i)
		ref, ok := col.(*storage.ReferenceColumn)
		if !ok {
			if len(srcs) == 0 || srcs[len(srcs)-1].pos != nil {
				srcs = append(srcs, Source{Table: tbl, chunkID: chunkID})
			}
			s := &srcs[len(srcs)-1]
			s.Columns = append(s.Columns, id)
			s.BaseColumns = append(s.BaseColumns, id)
			continue
		}
		if len(srcs) == 0 || srcs[len(srcs)-1].pos != ref.PosList() {
			srcs = append(srcs, Source{Table: ref.ReferencedTable(), chunkID: chunkID, pos: ref.PosList()})
		}
		s := &srcs[len(srcs)-1]
		s.Columns = append(s.Columns, id)
		s.BaseColumns = append(s.BaseColumns, ref.ReferencedColumnID())
	}
	return srcs
}

// Flatten resolves every row of tbl to base rows. The column groups are
// those of the first chunk; rows[g][r] is the base row of group g for
// row r of tbl in chunk order.
func Flatten(ctx context.Context, tbl *storage.Table) (groups []Source, rows [][]types.RowID, err error) {
	if tbl.ChunkCount() == 0 {
		return nil, nil, nil
	}
	groups = Sources(tbl, 0)
	rows = make([][]types.RowID, len(groups))
	n := tbl.RowCount()
	for g := range rows {
		rows[g] = make([]types.RowID, 0, n)
	}
	for chunkID := 0; chunkID < tbl.ChunkCount(); chunkID++ {
		srcs := Sources(tbl, types.ChunkID(chunkID))
		if len(srcs) != len(groups) {
			return nil, nil, moerr.NewInternalConsistency(ctx,
				"chunk %d has %d column groups, the first chunk has %d", chunkID, len(srcs), len(groups))
		}
		size := tbl.GetChunk(types.ChunkID(chunkID)).Len()
		for g := range groups {
			src := &srcs[g]
			for r := 0; r < size; r++ {
				rows[g] = append(rows[g], src.Row(r))
			}
		}
	}
	return groups, rows, nil
}

// AddReferenceColumns adds one reference column per column of src to c,
// all sharing pos.
func AddReferenceColumns(c *storage.Chunk, src *Source, pos *poslist.PosList) {
	for i := range src.Columns {
		if i > 0 {
			pos.Retain()
		}
		c.AddColumn(storage.NewReferenceColumn(src.Table, src.BaseColumns[i], pos))
	}
}
