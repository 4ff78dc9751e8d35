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
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/types"
)

type TableKind uint8

const (
	Data TableKind = iota
	References
)

func (k TableKind) String() string {
	if k == References {
		return "References"
	}
	return "Data"
}

// Attribute is the definition of one column of a table.
type Attribute struct {
	Name string
	Type types.Type
}

// Table is an ordered sequence of chunks sharing one column layout.
type Table struct {
	id    uuid.UUID
	attrs []Attribute
	// upper bound of rows per chunk, 0 means unbounded
	maxChunkSize int
	chunks       []*Chunk
}

func NewTable(maxChunkSize int, attrs ...Attribute) *Table {
	return &Table{
		id:           uuid.New(),
		attrs:        attrs,
		maxChunkSize: maxChunkSize,
	}
}

// NewWithLayoutFrom returns an empty table with the column definitions
// of t.
func NewWithLayoutFrom(t *Table, maxChunkSize int) *Table {
	attrs := make([]Attribute, len(t.attrs))
	copy(attrs, t.attrs)
	return NewTable(maxChunkSize, attrs...)
}

// LayoutsEqual reports whether a and b have the same column names and
// types in the same order.
func LayoutsEqual(a, b *Table) bool {
	if len(a.attrs) != len(b.attrs) {
		return false
	}
	for i := range a.attrs {
		if a.attrs[i].Name != b.attrs[i].Name || !a.attrs[i].Type.Eq(b.attrs[i].Type) {
			return false
		}
	}
	return true
}

func (t *Table) ID() uuid.UUID {
	return t.id
}

func (t *Table) Attrs() []Attribute {
	return t.attrs
}

func (t *Table) ColumnCount() int {
	return len(t.attrs)
}

func (t *Table) ColumnName(id types.ColumnID) string {
	return t.attrs[id].Name
}

func (t *Table) ColumnType(id types.ColumnID) types.Type {
	return t.attrs[id].Type
}

func (t *Table) ColumnIDByName(ctx context.Context, name string) (types.ColumnID, error) {
	for i, attr := range t.attrs {
		if attr.Name == name {
			return types.ColumnID(i), nil
		}
	}
	return 0, moerr.NewInvalidInput(ctx, "column %s not found", name)
}

func (t *Table) MaxChunkSize() int {
	return t.maxChunkSize
}

func (t *Table) ChunkCount() int {
	return len(t.chunks)
}

func (t *Table) GetChunk(id types.ChunkID) *Chunk {
	return t.chunks[id]
}

func (t *Table) Chunks() []*Chunk {
	return t.chunks
}

func (t *Table) RowCount() int {
	n := 0
	for _, c := range t.chunks {
		n += c.Len()
	}
	return n
}

// Kind is References when the columns of the first chunk are reference
// columns. Tables without chunks or columns are Data tables.
func (t *Table) Kind() TableKind {
	if len(t.chunks) == 0 || t.chunks[0].ColumnCount() == 0 {
		return Data
	}
	if t.chunks[0].GetColumn(0).Kind() == ReferenceKind {
		return References
	}
	return Data
}

// AppendChunk adds a fully built chunk. A chunk with columns must have
// one column per attribute.
func (t *Table) AppendChunk(c *Chunk) error {
	if c.ColumnCount() != 0 && c.ColumnCount() != len(t.attrs) {
		return moerr.NewInvalidInputNoCtx("chunk has %d columns, table has %d", c.ColumnCount(), len(t.attrs))
	}
	t.chunks = append(t.chunks, c)
	return nil
}

// Append adds one row to a data table, starting a new chunk when the
// last one is full.
func (t *Table) Append(values ...any) error {
	if t.Kind() == References {
		return moerr.NewNotSupportedNoCtx("append to a reference table")
	}
	if len(t.chunks) == 0 || t.chunkFull(t.chunks[len(t.chunks)-1]) {
		t.chunks = append(t.chunks, newValueChunk(t.attrs))
	}
	return t.chunks[len(t.chunks)-1].Append(values...)
}

func (t *Table) chunkFull(c *Chunk) bool {
	return t.maxChunkSize > 0 && c.Len() >= t.maxChunkSize
}

// Value reads column col of the row identified by row.
func (t *Table) Value(col types.ColumnID, row types.RowID) any {
	return t.chunks[row.ChunkID].GetColumn(col).GetValue(int(row.Offset))
}

func (t *Table) Print(w io.Writer) error {
	for _, attr := range t.attrs {
		if _, err := fmt.Fprintf(w, "%s(%s)|", attr.Name, attr.Type); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for i, c := range t.chunks {
		if _, err := fmt.Fprintf(w, "=== chunk %d ===\n", i); err != nil {
			return err
		}
		if err := c.Print(w, nil); err != nil {
			return err
		}
	}
	return nil
}
