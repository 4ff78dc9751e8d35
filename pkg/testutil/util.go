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

package testutil

import (
	"context"
	"math/rand"

	"github.com/matrixorigin/refunion/pkg/catalog"
	"github.com/matrixorigin/refunion/pkg/config"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

func NewProcess() *process.Process {
	return process.New(context.Background(), catalog.NewStorageManager())
}

// NewCheckedProcess returns a process that runs the exhaustive consistency
// checks.
func NewCheckedProcess() *process.Process {
	proc := NewProcess()
	proc.ValidationLevel = config.ValidationChecked
	return proc
}

// NewInt64Table builds a data table with one BIGINT column per name. Row i
// holds i*10+c in column c, or a random value when random is set.
func NewInt64Table(chunkSize int, rows int, random bool, names ...string) *storage.Table {
	attrs := make([]storage.Attribute, len(names))
	for i, name := range names {
		attrs[i] = storage.Attribute{Name: name, Type: types.T_int64.ToType()}
	}
	tbl := storage.NewTable(chunkSize, attrs...)
	for i := 0; i < rows; i++ {
		vals := make([]any, len(names))
		for c := range vals {
			v := int64(i*10 + c)
			if random {
				v = rand.Int63()
			}
			vals[c] = v
		}
		if err := tbl.Append(vals...); err != nil {
			panic(err)
		}
	}
	return tbl
}

// Segment is a group of reference columns sharing one position list.
type Segment struct {
	Table *storage.Table
	// base columns exposed by the segment, in output order
	Columns []types.ColumnID
	Rows    []types.RowID
}

// NewReferenceChunk builds a chunk with one position list per segment.
func NewReferenceChunk(segs ...Segment) *storage.Chunk {
	c := storage.NewChunk()
	for _, seg := range segs {
		pos := poslist.New(len(seg.Rows))
		for _, row := range seg.Rows {
			pos.Append(row)
		}
		for _, col := range seg.Columns {
			c.AddColumn(storage.NewReferenceColumn(seg.Table, col, pos))
		}
	}
	return c
}

// NewReferenceTable builds a reference table whose layout is taken from
// the base columns of segs. Every element of chunks is one chunk.
func NewReferenceTable(chunkSize int, chunks ...[]Segment) *storage.Table {
	if len(chunks) == 0 {
		panic("reference table without chunks")
	}
	var attrs []storage.Attribute
	for _, seg := range chunks[0] {
		for _, col := range seg.Columns {
			attrs = append(attrs, storage.Attribute{
				Name: seg.Table.ColumnName(col),
				Type: seg.Table.ColumnType(col),
			})
		}
	}
	tbl := storage.NewTable(chunkSize, attrs...)
	for _, segs := range chunks {
		if err := tbl.AppendChunk(NewReferenceChunk(segs...)); err != nil {
			panic(err)
		}
	}
	return tbl
}

// AllColumns returns the ids of every column of tbl.
func AllColumns(tbl *storage.Table) []types.ColumnID {
	ids := make([]types.ColumnID, tbl.ColumnCount())
	for i := range ids {
		ids[i] = types.ColumnID(i)
	}
	return ids
}

// Offsets returns row ids of chunk 0 at the given offsets.
func Offsets(offsets ...int) []types.RowID {
	rows := make([]types.RowID, len(offsets))
	for i, off := range offsets {
		rows[i] = types.NewRowID(0, types.ChunkOffset(off))
	}
	return rows
}

// Values reads every row of tbl through its columns.
func Values(tbl *storage.Table) [][]any {
	var rows [][]any
	for _, c := range tbl.Chunks() {
		for r := 0; r < c.Len(); r++ {
			row := make([]any, c.ColumnCount())
			for i, col := range c.Columns() {
				row[i] = col.GetValue(r)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// RowIDs returns, per row of tbl, the row ids read through the reference
// columns listed in columns. Chunks are flattened in order.
func RowIDs(tbl *storage.Table, columns ...types.ColumnID) [][]types.RowID {
	var rows [][]types.RowID
	for _, c := range tbl.Chunks() {
		for r := 0; r < c.Len(); r++ {
			row := make([]types.RowID, len(columns))
			for i, id := range columns {
				row[i] = c.GetColumn(id).(*storage.ReferenceColumn).PosList().Get(r)
			}
			rows = append(rows, row)
		}
	}
	return rows
}
