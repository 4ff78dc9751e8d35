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
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

const argName = "union_positions"

var _ vm.Operator = new(Argument)

const (
	created = iota
	prepared
	executing
	completed
)

// Argument merges the tables of its two children into one table holding
// every distinct row once. Rows are compared by the row ids they
// reference, never by value.
type Argument struct {
	ctr   *container
	stats Stats

	vm.OperatorBase
}

// Stats describes the last execution of an Argument.
type Stats struct {
	LeftRows     int
	RightRows    int
	OutputRows   int
	OutputChunks int
	Segments     int
	// rows found on both sides and emitted once
	Duplicates int
	// the result was one of the inputs
	EarlyExit bool
}

type container struct {
	state int

	left, right *storage.Table
	segs        *segments
	// early exit result decided while preparing
	result *storage.Table
}

func NewArgument() *Argument {
	return &Argument{}
}

func (arg *Argument) GetOperatorBase() *vm.OperatorBase {
	return &arg.OperatorBase
}

func (arg Argument) TypeName() string {
	return argName
}

func (arg *Argument) OpType() vm.OpType {
	return vm.UnionPositions
}

func (arg *Argument) Stats() Stats {
	return arg.stats
}

func (arg *Argument) Release() {
}

func (arg *Argument) Reset(proc *process.Process, pipelineFailed bool, err error) {
	arg.Free(proc, pipelineFailed, err)
	arg.stats = Stats{}
}

// Free drops the inputs. The output table stays valid, it belongs to the
// caller.
func (arg *Argument) Free(proc *process.Process, pipelineFailed bool, err error) {
	arg.ctr = nil
}
