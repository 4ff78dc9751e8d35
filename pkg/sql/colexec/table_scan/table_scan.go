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
	"bytes"
	"fmt"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

const argName = "table_scan"

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(fmt.Sprintf(": table_scan %s", arg.TableName))
}

func (arg *Argument) Prepare(proc *process.Process) (err error) {
	if proc.Catalog == nil {
		return moerr.NewInvalidState(proc.Ctx, "%s without catalog", argName)
	}
	arg.tbl, err = proc.Catalog.GetTable(proc.Ctx, arg.TableName)
	arg.sent = false
	return err
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	result := vm.NewCallResult()
	result.Status = vm.ExecStop
	if arg.sent || arg.tbl == nil {
		return result, nil
	}
	arg.sent = true
	result.Table = arg.tbl
	return result, nil
}
