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

package unionpos

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/storage"
)

// segments groups the columns of a relation into runs that share one
// position list.
type segments struct {
	// starts[i] is the first column of segment i, starts[0] is 0.
	starts []types.ColumnID
	// tables[i] is the base table referenced by segment i.
	tables []*storage.Table
	// columnIDs[c] is the base column referenced by column c.
	columnIDs []types.ColumnID
	// number of columns
	columns int
}

func (s *segments) count() int {
	return len(s.starts)
}

// bounds returns the column range [begin, end) of segment i.
func (s *segments) bounds(i int) (types.ColumnID, types.ColumnID) {
	if i == len(s.starts)-1 {
		return s.starts[i], types.ColumnID(s.columns)
	}
	return s.starts[i], s.starts[i+1]
}

// checkInputs rejects inputs of different layouts or with columns that
// are not reference columns.
func checkInputs(ctx context.Context, left, right *storage.Table) error {
	if !storage.LayoutsEqual(left, right) {
		return moerr.NewInvalidInput(ctx, "union positions: input tables don't have the same layout")
	}
	for side, tbl := range [2]*storage.Table{left, right} {
		for chunkID, c := range tbl.Chunks() {
			if c.ColumnCount() != tbl.ColumnCount() {
				return moerr.NewInvalidInput(ctx,
					"union positions: %s input chunk %d has %d columns, table has %d",
					sideName(side), chunkID, c.ColumnCount(), tbl.ColumnCount())
			}
			for colID, col := range c.Columns() {
				if col.Kind() != storage.ReferenceKind {
					return moerr.NewInvalidInput(ctx,
						"union positions: %s input has a %s column (chunk %d, column %d)",
						sideName(side), col.Kind(), chunkID, colID)
				}
			}
		}
	}
	return nil
}

func sideName(side int) string {
	if side == 0 {
		return "left"
	}
	return "right"
}

func refColumn(c *storage.Chunk, id types.ColumnID) *storage.ReferenceColumn {
	return c.GetColumn(id).(*storage.ReferenceColumn)
}

// segmentStarts returns the columns of the first chunk of tbl at which
// the position list identity changes.
func segmentStarts(tbl *storage.Table) []types.ColumnID {
	var starts []types.ColumnID
	var current *poslist.PosList
	first := tbl.GetChunk(0)
	for id := 0; id < tbl.ColumnCount(); id++ {
		pos := refColumn(first, types.ColumnID(id)).PosList()
		if pos != current {
			current = pos
			starts = append(starts, types.ColumnID(id))
		}
	}
	return starts
}

// discoverSegments merges the segment boundaries of both inputs. Both
// inputs must have at least one chunk and one column.
func discoverSegments(left, right *storage.Table) *segments {
	starts := append(segmentStarts(left), segmentStarts(right)...)
	slices.Sort(starts)
	starts = slices.Compact(starts)

	s := &segments{
		starts:    starts,
		tables:    make([]*storage.Table, len(starts)),
		columnIDs: make([]types.ColumnID, left.ColumnCount()),
		columns:   left.ColumnCount(),
	}
	first := left.GetChunk(0)
	for i, begin := range starts {
		s.tables[i] = refColumn(first, begin).ReferencedTable()
	}
	for id := range s.columnIDs {
		s.columnIDs[id] = refColumn(first, types.ColumnID(id)).ReferencedColumnID()
	}
	return s
}

// verify checks that every chunk of tbl has the structure discovered from
// the first chunks: one position list per segment, the segment's base
// table and the same base column ids.
func (s *segments) verify(ctx context.Context, tbl *storage.Table, side string) error {
	for chunkID, c := range tbl.Chunks() {
		rows := c.Len()
		for i := range s.starts {
			begin, end := s.bounds(i)
			pos := refColumn(c, begin).PosList()
			if pos.Len() != rows {
				return moerr.NewInternalConsistency(ctx,
					"%s input chunk %d: column segment %d has %d rows, chunk has %d",
					side, chunkID, i, pos.Len(), rows)
			}
			for id := begin; id < end; id++ {
				col := refColumn(c, id)
				if col.ReferencedTable() != s.tables[i] {
					return moerr.NewInternalConsistency(ctx,
						"%s input chunk %d column %d doesn't reference the same table as the first chunk of the left input",
						side, chunkID, id)
				}
				if col.ReferencedColumnID() != s.columnIDs[id] {
					return moerr.NewInternalConsistency(ctx,
						"%s input chunk %d column %d doesn't reference the same column as the first chunk of the left input",
						side, chunkID, id)
				}
				if col.PosList() != pos {
					return moerr.NewInternalConsistency(ctx,
						"%s input chunk %d column %d: different pos lists in column segment %d",
						side, chunkID, id, i)
				}
			}
		}
	}
	return nil
}
