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
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/container/vector"
)

type ColumnKind uint8

const (
	// ValueKind columns own their data.
	ValueKind ColumnKind = iota
	// ReferenceKind columns read their data through a position list into
	// a base table.
	ReferenceKind
)

func (k ColumnKind) String() string {
	if k == ReferenceKind {
		return "reference"
	}
	return "value"
}

type Column interface {
	Kind() ColumnKind
	GetType() types.Type
	Length() int
	// GetValue returns the value of row i of this column.
	GetValue(i int) any
}

// ValueColumn is a column of base storage.
type ValueColumn struct {
	vec *vector.Vector
}

func NewValueColumn(vec *vector.Vector) *ValueColumn {
	return &ValueColumn{vec: vec}
}

func (c *ValueColumn) Kind() ColumnKind       { return ValueKind }
func (c *ValueColumn) GetType() types.Type    { return c.vec.GetType() }
func (c *ValueColumn) Length() int            { return c.vec.Length() }
func (c *ValueColumn) GetValue(i int) any     { return c.vec.GetValue(i) }
func (c *ValueColumn) Vector() *vector.Vector { return c.vec }

// ReferenceColumn exposes column colID of table through pos. Several
// reference columns of a chunk usually share one *PosList.
type ReferenceColumn struct {
	table *Table
	colID types.ColumnID
	pos   *poslist.PosList
}

// NewReferenceColumn publishes pos; it must not be appended to afterwards.
func NewReferenceColumn(table *Table, colID types.ColumnID, pos *poslist.PosList) *ReferenceColumn {
	pos.Publish()
	return &ReferenceColumn{
		table: table,
		colID: colID,
		pos:   pos,
	}
}

func (c *ReferenceColumn) Kind() ColumnKind { return ReferenceKind }

func (c *ReferenceColumn) GetType() types.Type {
	return c.table.ColumnType(c.colID)
}

func (c *ReferenceColumn) Length() int {
	return c.pos.Len()
}

func (c *ReferenceColumn) GetValue(i int) any {
	return c.table.Value(c.colID, c.pos.Get(i))
}

// ReferencedTable is the base table rows are read from.
func (c *ReferenceColumn) ReferencedTable() *Table {
	return c.table
}

// ReferencedColumnID is the column of the base table this column exposes.
func (c *ReferenceColumn) ReferencedColumnID() types.ColumnID {
	return c.colID
}

func (c *ReferenceColumn) PosList() *poslist.PosList {
	return c.pos
}
