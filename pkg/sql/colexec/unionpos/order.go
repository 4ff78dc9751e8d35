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
	"golang.org/x/exp/slices"
)

// compareRows orders row li of lm against row ri of rm by comparing the
// row ids of segment 0, then segment 1 and so on. It returns -1, 0 or +1.
func compareRows(lm referenceMatrix, li int64, rm referenceMatrix, ri int64) int {
	for seg := range lm {
		if c := lm[seg][li].Compare(rm[seg][ri]); c != 0 {
			return c
		}
	}
	return 0
}

// sortedPositions returns the row indexes of m in ascending row order.
// The matrix itself is left untouched.
func sortedPositions(m referenceMatrix) []int64 {
	sels := make([]int64, m.rowCount())
	for i := range sels {
		sels[i] = int64(i)
	}
	slices.SortFunc(sels, func(a, b int64) int {
		return compareRows(m, a, m, b)
	})
	return sels
}
