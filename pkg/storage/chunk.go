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
	"fmt"
	"io"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/container/vector"
)

// Chunk is a horizontal partition of a table. All columns of a chunk have
// the same length.
type Chunk struct {
	columns []Column
	// row count of a chunk without columns
	rows int
}

func NewChunk() *Chunk {
	return &Chunk{}
}

// NewChunkWithRows builds a chunk that reports rows rows while it has no
// columns.
func NewChunkWithRows(rows int) *Chunk {
	return &Chunk{rows: rows}
}

func newValueChunk(attrs []Attribute) *Chunk {
	c := NewChunk()
	for _, attr := range attrs {
		c.AddColumn(NewValueColumn(vector.NewVec(attr.Type)))
	}
	return c
}

func (c *Chunk) AddColumn(col Column) {
	c.columns = append(c.columns, col)
}

func (c *Chunk) GetColumn(id types.ColumnID) Column {
	return c.columns[id]
}

func (c *Chunk) Columns() []Column {
	return c.columns
}

func (c *Chunk) ColumnCount() int {
	return len(c.columns)
}

// Len returns the number of rows of the chunk.
func (c *Chunk) Len() int {
	if len(c.columns) == 0 {
		return c.rows
	}
	return c.columns[0].Length()
}

// Append adds one row to a chunk of value columns.
func (c *Chunk) Append(values ...any) error {
	if len(values) != len(c.columns) {
		return moerr.NewInvalidInputNoCtx("append: number of columns (%d) does not match value list (%d)",
			len(c.columns), len(values))
	}
	for i, col := range c.columns {
		vc, ok := col.(*ValueColumn)
		if !ok {
			return moerr.NewInvalidInputNoCtx("append: column %d is a %s column", i, col.Kind())
		}
		if err := vector.AppendAny(vc.Vector(), values[i]); err != nil {
			return err
		}
	}
	return nil
}

// ColumnStringWidths returns the print width of every column, capped at limit.
func (c *Chunk) ColumnStringWidths(limit int) []int {
	widths := make([]int, len(c.columns))
	for i, col := range c.columns {
		for row := 0; row < col.Length(); row++ {
			w := len(fmt.Sprintf("%v", col.GetValue(row)))
			if w >= limit {
				widths[i] = limit
				break
			}
			if w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// Print writes one line per row. Values are padded to widths, which are
// computed from the chunk when nil.
func (c *Chunk) Print(w io.Writer, widths []int) error {
	if widths == nil {
		widths = c.ColumnStringWidths(20)
	}
	for row := 0; row < c.Len(); row++ {
		for i, col := range c.columns {
			if _, err := fmt.Fprintf(w, "%*v|", widths[i], col.GetValue(row)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
