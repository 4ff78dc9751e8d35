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

package poslist

import (
	"sync/atomic"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/types"
)

// PosList is an ordered list of row ids into one base table.
//
// A PosList is built by a single owner through Append and then published,
// usually by attaching it to a reference column. Once published it is
// frozen: several columns may share the same *PosList and readers rely on
// it never changing. Columns that share a PosList are row aligned, which
// is why callers compare PosLists by pointer, not by content.
type PosList struct {
	rows      []types.RowID
	published atomic.Bool
	// reference count, default is 1
	refs atomic.Int64
}

func New(capacity int) *PosList {
	pl := &PosList{
		rows: make([]types.RowID, 0, capacity),
	}
	pl.refs.Store(1)
	return pl
}

// NewFromRows builds an already published PosList that takes ownership of
// rows.
func NewFromRows(rows []types.RowID) *PosList {
	pl := &PosList{rows: rows}
	pl.refs.Store(1)
	pl.Publish()
	return pl
}

// Append adds a row id. It panics once the list has been published.
func (pl *PosList) Append(row types.RowID) {
	if pl.published.Load() {
		panic(moerr.NewInternalErrorNoCtx("append to a published pos list"))
	}
	pl.rows = append(pl.rows, row)
}

// Publish freezes the list. Publishing twice is harmless.
func (pl *PosList) Publish() {
	pl.published.Store(true)
}

func (pl *PosList) Published() bool {
	return pl.published.Load()
}

func (pl *PosList) Len() int {
	return len(pl.rows)
}

func (pl *PosList) Get(i int) types.RowID {
	return pl.rows[i]
}

// Rows returns the backing slice. Callers must not modify it.
func (pl *PosList) Rows() []types.RowID {
	return pl.rows
}

// Retain registers one more owner.
func (pl *PosList) Retain() *PosList {
	pl.refs.Add(1)
	return pl
}

// Release drops one owner and returns the remaining count.
func (pl *PosList) Release() int64 {
	n := pl.refs.Add(-1)
	if n < 0 {
		panic(moerr.NewInternalErrorNoCtx("pos list released more times than retained"))
	}
	return n
}

func (pl *PosList) Refs() int64 {
	return pl.refs.Load()
}
