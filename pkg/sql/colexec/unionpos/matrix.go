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
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/storage"
)

// referenceMatrix holds one row id sequence per segment. Row r of the
// matrix is the r-th row of the table in chunk order.
type referenceMatrix [][]types.RowID

// buildReferenceMatrix concatenates, per segment, the position lists of
// all chunks of tbl.
func buildReferenceMatrix(tbl *storage.Table, segs *segments) referenceMatrix {
	rows := tbl.RowCount()
	m := make(referenceMatrix, segs.count())
	for i := range m {
		m[i] = make([]types.RowID, 0, rows)
	}
	for _, c := range tbl.Chunks() {
		for i, begin := range segs.starts {
			m[i] = append(m[i], refColumn(c, begin).PosList().Rows()...)
		}
	}
	return m
}

func (m referenceMatrix) rowCount() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}
