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

package vm

import (
	"bytes"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/storage"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

// String walks the operator tree and call each operator's string function to show a query plan
func String(op Operator, buf *bytes.Buffer) {
	op.String(buf)
	children := op.GetOperatorBase().Children
	if len(children) == 0 {
		return
	}
	buf.WriteString("(")
	for i, child := range children {
		if i > 0 {
			buf.WriteString(", ")
		}
		String(child, buf)
	}
	buf.WriteString(")")
}

// Prepare prepares the children of op before op itself.
func Prepare(op Operator, proc *process.Process) error {
	for _, child := range op.GetOperatorBase().Children {
		if err := Prepare(child, proc); err != nil {
			return err
		}
	}
	return op.Prepare(proc)
}

// Run calls root until it stops and returns the last table it produced.
func Run(root Operator, proc *process.Process) (tbl *storage.Table, err error) {
	defer func() {
		if e := recover(); e != nil {
			err = moerr.ConvertPanicError(proc.Ctx, e)
			tbl = nil
		}
	}()

	if err, done := CancelCheck(proc); done {
		return nil, err
	}
	return ChildrenCall(root, proc)
}

// ChildrenCall drains child and returns the table it produced.
func ChildrenCall(child Operator, proc *process.Process) (*storage.Table, error) {
	var tbl *storage.Table
	for {
		result, err := child.Call(proc)
		if err != nil {
			return nil, err
		}
		if result.Table != nil {
			tbl = result.Table
		}
		if result.Status == ExecStop {
			return tbl, nil
		}
	}
}

// Free releases op and all of its children.
func Free(op Operator, proc *process.Process, pipelineFailed bool, err error) {
	for _, child := range op.GetOperatorBase().Children {
		Free(child, proc, pipelineFailed, err)
	}
	op.Free(proc, pipelineFailed, err)
}

// Reset resets op and all of its children.
func Reset(op Operator, proc *process.Process, pipelineFailed bool, err error) {
	for _, child := range op.GetOperatorBase().Children {
		Reset(child, proc, pipelineFailed, err)
	}
	op.Reset(proc, pipelineFailed, err)
}
