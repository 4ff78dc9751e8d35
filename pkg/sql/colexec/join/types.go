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

package join

import (
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

var _ vm.Operator = new(Argument)

const (
	Build = iota
	Probe
	End
)

type container struct {
	state int

	// right key -> right rows in input order
	mp map[any][]int
}

// Argument is an inner equi-join of its two children on
// left.LeftColumnID = right.RightColumnID.
type Argument struct {
	ctr           *container
	LeftColumnID  types.ColumnID
	RightColumnID types.ColumnID

	vm.OperatorBase
}

func NewArgument(left, right types.ColumnID) *Argument {
	return &Argument{
		LeftColumnID:  left,
		RightColumnID: right,
	}
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func (arg *Argument) OpType() vm.OpType {
	return vm.Join
}

func (arg *Argument) Release() {
}

func (arg *Argument) Reset(proc *process.Process, pipelineFailed bool, err error) {
	arg.Free(proc, pipelineFailed, err)
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	arg.ctr = nil
}
