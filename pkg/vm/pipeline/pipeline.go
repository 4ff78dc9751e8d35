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

package pipeline

import (
	"bytes"

	"go.uber.org/zap"

	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

func New(root vm.Operator) *Pipeline {
	return &Pipeline{
		root: root,
	}
}

func (p *Pipeline) String() string {
	var buf bytes.Buffer

	vm.String(p.root, &buf)
	return buf.String()
}

// Run prepares the operator tree and drains its root. The tree is freed
// before Run returns.
func (p *Pipeline) Run(proc *process.Process) (tbl *storage.Table, err error) {
	defer func() {
		vm.Free(p.root, proc, err != nil, err)
	}()

	if err = vm.Prepare(p.root, proc); err != nil {
		return nil, err
	}
	if tbl, err = vm.Run(p.root, proc); err != nil {
		proc.Error("pipeline failed", zap.String("plan", p.String()), zap.Error(err))
		return nil, err
	}
	return tbl, nil
}
