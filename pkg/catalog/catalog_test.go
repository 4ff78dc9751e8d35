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

package catalog

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/storage"
)

func newTable(rows int) *storage.Table {
	tbl := storage.NewTable(2, storage.Attribute{Name: "a", Type: types.T_int64.ToType()})
	for i := 0; i < rows; i++ {
		if err := tbl.Append(i); err != nil {
			panic(err)
		}
	}
	return tbl
}

func TestStorageManager(t *testing.T) {
	ctx := context.TODO()
	sm := NewStorageManager()
	t1, t2 := newTable(3), newTable(0)
	require.NoError(t, sm.AddTable(ctx, "second", t2))
	require.NoError(t, sm.AddTable(ctx, "first", t1))

	err := sm.AddTable(ctx, "first", t2)
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrTableAlreadyExists))

	got, err := sm.GetTable(ctx, "first")
	require.NoError(t, err)
	require.Same(t, t1, got)
	require.True(t, sm.HasTable("second"))
	require.False(t, sm.HasTable("third"))
	require.Equal(t, []string{"first", "second"}, sm.TableNames())

	var buf bytes.Buffer
	require.NoError(t, sm.Print(&buf))
	require.Contains(t, buf.String(), "==== table >> first << (1 columns, 3 rows in 2 chunks)")

	require.NoError(t, sm.DropTable(ctx, "second"))
	err = sm.DropTable(ctx, "second")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchTable))
	_, err = sm.GetTable(ctx, "second")
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrNoSuchTable))

	sm.Reset()
	require.Empty(t, sm.TableNames())
}

func TestStorageManagerConcurrent(t *testing.T) {
	ctx := context.TODO()
	sm := NewStorageManager()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("t%02d", i)
			require.NoError(t, sm.AddTable(ctx, name, newTable(i)))
			require.True(t, sm.HasTable(name))
		}(i)
	}
	wg.Wait()
	names := sm.TableNames()
	require.Len(t, names, 16)
	require.Equal(t, "t00", names[0])
	require.Equal(t, "t15", names[15])
}
