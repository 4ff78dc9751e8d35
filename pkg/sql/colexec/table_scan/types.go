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

package table_scan

import (
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

var _ vm.Operator = new(Argument)

// Argument reads a stored table by name.
type Argument struct {
	TableName string

	tbl  *storage.Table
	sent bool

	vm.OperatorBase
}

func NewArgument(name string) *Argument {
	return &Argument{TableName: name}
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func (arg *Argument) OpType() vm.OpType {
	return vm.TableScan
}

func (arg *Argument) Release() {
}

func (arg *Argument) Reset(proc *process.Process, pipelineFailed bool, err error) {
	arg.Free(proc, pipelineFailed, err)
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	arg.tbl = nil
	arg.sent = false
}
