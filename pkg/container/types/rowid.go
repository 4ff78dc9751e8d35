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

package types

import "fmt"

type (
	ChunkID     uint32
	ChunkOffset uint32
	ColumnID    uint16
)

// RowID identifies one row of one base table: the chunk it lives in and
// its offset inside that chunk. Which table it belongs to is carried by
// the column that holds the RowID, never by the RowID itself.
type RowID struct {
	ChunkID ChunkID
	Offset  ChunkOffset
}

func NewRowID(chunk ChunkID, offset ChunkOffset) RowID {
	return RowID{ChunkID: chunk, Offset: offset}
}

// Less orders by chunk id, then by offset.
func (r RowID) Less(o RowID) bool {
	if r.ChunkID != o.ChunkID {
		return r.ChunkID < o.ChunkID
	}
	return r.Offset < o.Offset
}

// Compare returns -1, 0 or +1.
func (r RowID) Compare(o RowID) int {
	switch {
	case r.Less(o):
		return -1
	case o.Less(r):
		return 1
	}
	return 0
}

func (r RowID) Equal(o RowID) bool {
	return r == o
}

func (r RowID) String() string {
	return fmt.Sprintf("%d-%d", r.ChunkID, r.Offset)
}
