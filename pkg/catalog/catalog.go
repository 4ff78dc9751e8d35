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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/tidwall/btree"
	"go.uber.org/zap"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/logutil/logutil2"
	"github.com/matrixorigin/refunion/pkg/storage"
)

type entry struct {
	name  string
	table *storage.Table
}

func compareEntry(a, b entry) bool {
	return a.name < b.name
}

// StorageManager maps table names to stored tables. It is safe for
// concurrent use.
type StorageManager struct {
	sync.RWMutex
	tables *btree.BTreeG[entry]
}

func NewStorageManager() *StorageManager {
	return &StorageManager{
		tables: btree.NewBTreeG(compareEntry),
	}
}

func (sm *StorageManager) AddTable(ctx context.Context, name string, table *storage.Table) error {
	sm.Lock()
	defer sm.Unlock()
	if _, ok := sm.tables.Get(entry{name: name}); ok {
		return moerr.NewTableAlreadyExists(ctx, name)
	}
	sm.tables.Set(entry{name: name, table: table})
	logutil2.Debug(ctx, "add table",
		zap.String("name", name),
		zap.String("id", table.ID().String()),
		zap.Int("rows", table.RowCount()))
	return nil
}

func (sm *StorageManager) DropTable(ctx context.Context, name string) error {
	sm.Lock()
	defer sm.Unlock()
	if _, ok := sm.tables.Delete(entry{name: name}); !ok {
		return moerr.NewNoSuchTable(ctx, name)
	}
	return nil
}

func (sm *StorageManager) GetTable(ctx context.Context, name string) (*storage.Table, error) {
	sm.RLock()
	defer sm.RUnlock()
	e, ok := sm.tables.Get(entry{name: name})
	if !ok {
		return nil, moerr.NewNoSuchTable(ctx, name)
	}
	return e.table, nil
}

func (sm *StorageManager) HasTable(name string) bool {
	sm.RLock()
	defer sm.RUnlock()
	_, ok := sm.tables.Get(entry{name: name})
	return ok
}

// TableNames returns the names of all tables in ascending order.
func (sm *StorageManager) TableNames() []string {
	sm.RLock()
	defer sm.RUnlock()
	names := make([]string, 0, sm.tables.Len())
	sm.tables.Scan(func(e entry) bool {
		names = append(names, e.name)
		return true
	})
	return names
}

func (sm *StorageManager) Print(w io.Writer) error {
	sm.RLock()
	defer sm.RUnlock()
	if _, err := fmt.Fprint(w, "==================\n===== Tables =====\n\n"); err != nil {
		return err
	}
	var err error
	sm.tables.Scan(func(e entry) bool {
		_, err = fmt.Fprintf(w, "==== table >> %s << (%d columns, %d rows in %d chunks)\n\n",
			e.name, e.table.ColumnCount(), e.table.RowCount(), e.table.ChunkCount())
		return err == nil
	})
	return err
}

// Reset drops every table.
func (sm *StorageManager) Reset() {
	sm.Lock()
	defer sm.Unlock()
	sm.tables = btree.NewBTreeG(compareEntry)
}
