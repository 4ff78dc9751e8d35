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

package process

import (
	"context"

	"github.com/matrixorigin/refunion/pkg/catalog"
)

// Process contains the information shared by all operators of one query.
type Process struct {
	// query id
	Id  string
	Ctx context.Context
	// Catalog resolves table names for scans.
	Catalog *catalog.StorageManager
	// ValidationLevel is config.ValidationOptimized or
	// config.ValidationChecked.
	ValidationLevel string
}
