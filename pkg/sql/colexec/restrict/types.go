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

package restrict

import (
	"github.com/matrixorigin/refunion/pkg/container/types"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

var _ vm.Operator = new(Argument)

type Op int

const (
	EQ Op = iota
	NE
	LT
	LE
	GT
	GE
)

func (op Op) String() string {
	switch op {
	case EQ:
		return "="
	case NE:
		return "!="
	case LT:
		return "<"
	case LE:
		return "<="
	case GT:
		return ">"
	case GE:
		return ">="
	}
	return "?"
}

// matches reports whether a comparison result c satisfies op.
func (op Op) matches(c int) bool {
	switch op {
	case EQ:
		return c == 0
	case NE:
		return c != 0
	case LT:
		return c < 0
	case LE:
		return c <= 0
	case GT:
		return c > 0
	case GE:
		return c >= 0
	}
	return false
}

// Argument keeps the rows of its child whose column ColumnID compares to
// Value by Op. The result references the base rows of the input.
type Argument struct {
	ColumnID types.ColumnID
	Op       Op
	Value    any

	done bool

	vm.OperatorBase
}

func NewArgument(col types.ColumnID, op Op, value any) *Argument {
	return &Argument{
		ColumnID: col,
		Op:       op,
		Value:    value,
	}
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func (arg *Argument) OpType() vm.OpType {
	return vm.Restrict
}

func (arg *Argument) Release() {
}

func (arg *Argument) Reset(proc *process.Process, pipelineFailed bool, err error) {
	arg.Free(proc, pipelineFailed, err)
}

func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	arg.done = false
}
