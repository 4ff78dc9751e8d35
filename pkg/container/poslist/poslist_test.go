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
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/refunion/pkg/container/types"
)

func TestAppendAndPublish(t *testing.T) {
	pl := New(2)
	pl.Append(types.NewRowID(0, 1))
	pl.Append(types.NewRowID(1, 0))
	require.Equal(t, 2, pl.Len())
	require.Equal(t, types.NewRowID(1, 0), pl.Get(1))
	require.False(t, pl.Published())

	pl.Publish()
	pl.Publish()
	require.True(t, pl.Published())
	require.Panics(t, func() { pl.Append(types.NewRowID(2, 0)) })
	require.Equal(t, []types.RowID{types.NewRowID(0, 1), types.NewRowID(1, 0)}, pl.Rows())
}

func TestNewFromRows(t *testing.T) {
	pl := NewFromRows([]types.RowID{{ChunkID: 0, Offset: 3}})
	require.True(t, pl.Published())
	require.Equal(t, 1, pl.Len())
	require.Equal(t, int64(1), pl.Refs())
}

func TestRefs(t *testing.T) {
	pl := New(0)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pl.Retain()
		}()
	}
	wg.Wait()
	require.Equal(t, int64(9), pl.Refs())
	for i := 0; i < 9; i++ {
		pl.Release()
	}
	require.Equal(t, int64(0), pl.Refs())
	require.Panics(t, func() { pl.Release() })
}
