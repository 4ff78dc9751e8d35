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
	"bytes"
	"time"

	"go.uber.org/zap"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/poslist"
	"github.com/matrixorigin/refunion/pkg/storage"
	v2 "github.com/matrixorigin/refunion/pkg/util/metric/v2"
	"github.com/matrixorigin/refunion/pkg/vm"
	"github.com/matrixorigin/refunion/pkg/vm/process"
)

func (arg *Argument) String(buf *bytes.Buffer) {
	buf.WriteString(argName)
	buf.WriteString(": union positions ")
}

func (arg *Argument) Prepare(proc *process.Process) error {
	if len(arg.Children) != 2 {
		return moerr.NewInvalidState(proc.Ctx, "%s needs 2 children, has %d", argName, len(arg.Children))
	}
	arg.ctr = new(container)
	arg.ctr.state = created
	return nil
}

func (arg *Argument) Call(proc *process.Process) (vm.CallResult, error) {
	if err, isCancel := vm.CancelCheck(proc); isCancel {
		return vm.CancelResult, err
	}

	ctr := arg.ctr
	if ctr == nil {
		return vm.CancelResult, moerr.NewInvalidState(proc.Ctx, "%s called before prepare", argName)
	}
	result := vm.NewCallResult()
	switch ctr.state {
	case created:
		left, err := vm.ChildrenCall(arg.GetChildren(0), proc)
		if err != nil {
			ctr.state = completed
			return vm.CancelResult, err
		}
		right, err := vm.ChildrenCall(arg.GetChildren(1), proc)
		if err != nil {
			ctr.state = completed
			return vm.CancelResult, err
		}
		if left == nil || right == nil {
			ctr.state = completed
			return vm.CancelResult, moerr.NewInvalidState(proc.Ctx, "%s child produced no table", argName)
		}
		out, err := arg.union(proc, left, right)
		if err != nil {
			return vm.CancelResult, err
		}
		result.Table = out
		result.Status = vm.ExecStop
		return result, nil
	default:
		// single shot
		result.Status = vm.ExecStop
		return result, nil
	}
}

// Union merges left and right into a table that holds every distinct row
// of both exactly once.
func Union(proc *process.Process, left, right *storage.Table) (*storage.Table, error) {
	arg := NewArgument()
	arg.ctr = &container{state: created}
	return arg.union(proc, left, right)
}

func (arg *Argument) union(proc *process.Process, left, right *storage.Table) (*storage.Table, error) {
	ctr := arg.ctr
	arg.stats = Stats{
		LeftRows:  left.RowCount(),
		RightRows: right.RowCount(),
	}
	ctr.left, ctr.right = left, right
	defer func() {
		ctr.left, ctr.right, ctr.segs = nil, nil, nil
		ctr.state = completed
	}()

	start := time.Now()
	if err := ctr.prepare(proc); err != nil {
		return nil, err
	}
	v2.UnionPosPrepareDurationHistogram.Observe(time.Since(start).Seconds())
	if ctr.result != nil {
		out := ctr.result
		ctr.result = nil
		arg.stats.EarlyExit = true
		arg.stats.OutputRows = out.RowCount()
		arg.stats.OutputChunks = out.ChunkCount()
		arg.record(proc)
		return out, nil
	}

	out, err := ctr.execute(&arg.stats)
	if err != nil {
		return nil, err
	}
	arg.record(proc)
	return out, nil
}

// prepare checks the inputs and resolves the column segments. It leaves
// the result in ctr.result when one of the inputs answers the union.
func (ctr *container) prepare(proc *process.Process) error {
	left, right := ctr.left, ctr.right
	if err := checkInputs(proc.Ctx, left, right); err != nil {
		return err
	}
	ctr.state = prepared

	if left.RowCount() == 0 {
		ctr.result = right
		return nil
	}
	if right.RowCount() == 0 {
		ctr.result = left
		return nil
	}
	if left.ColumnCount() == 0 {
		ctr.result = left
		return nil
	}

	ctr.segs = discoverSegments(left, right)
	if proc.Checked() {
		if err := ctr.segs.verify(proc.Ctx, left, "left"); err != nil {
			return err
		}
		if err := ctr.segs.verify(proc.Ctx, right, "right"); err != nil {
			return err
		}
	}
	return nil
}

func (ctr *container) execute(stats *Stats) (*storage.Table, error) {
	ctr.state = executing
	segs := ctr.segs
	stats.Segments = segs.count()

	start := time.Now()
	lm := buildReferenceMatrix(ctr.left, segs)
	rm := buildReferenceMatrix(ctr.right, segs)
	v2.UnionPosMatrixDurationHistogram.Observe(time.Since(start).Seconds())

	start = time.Now()
	lsels := sortedPositions(lm)
	rsels := sortedPositions(rm)
	v2.UnionPosSortDurationHistogram.Observe(time.Since(start).Seconds())

	start = time.Now()
	chunkSize := max(ctr.left.MaxChunkSize(), ctr.right.MaxChunkSize())
	b := newTableBuilder(storage.NewWithLayoutFrom(ctr.left, chunkSize), segs, chunkSize, len(lsels)+len(rsels))

	li, ri := 0, 0
	for li < len(lsels) || ri < len(rsels) {
		switch {
		case li == len(lsels):
			b.emitRow(rm, rsels[ri])
			ri++
		case ri == len(rsels):
			b.emitRow(lm, lsels[li])
			li++
		default:
			c := compareRows(rm, rsels[ri], lm, lsels[li])
			if c < 0 {
				b.emitRow(rm, rsels[ri])
				ri++
				break
			}
			b.emitRow(lm, lsels[li])
			if c == 0 {
				ri++
				stats.Duplicates++
			}
			li++
		}
	}
	out, err := b.finish()
	if err != nil {
		return nil, err
	}
	v2.UnionPosMergeDurationHistogram.Observe(time.Since(start).Seconds())

	stats.OutputRows = out.RowCount()
	stats.OutputChunks = out.ChunkCount()
	return out, nil
}

func (arg *Argument) record(proc *process.Process) {
	s := arg.stats
	v2.UnionPosLeftRowsCounter.Add(float64(s.LeftRows))
	v2.UnionPosRightRowsCounter.Add(float64(s.RightRows))
	v2.UnionPosOutputRowsCounter.Add(float64(s.OutputRows))
	v2.UnionPosDuplicateRowsCounter.Add(float64(s.Duplicates))
	if s.EarlyExit {
		v2.UnionPosEarlyExitCounter.Inc()
	}
	proc.Debug("union positions done",
		zap.Int("left-rows", s.LeftRows),
		zap.Int("right-rows", s.RightRows),
		zap.Int("output-rows", s.OutputRows),
		zap.Int("output-chunks", s.OutputChunks),
		zap.Int("segments", s.Segments),
		zap.Int("duplicates", s.Duplicates),
		zap.Bool("early-exit", s.EarlyExit))
}

// tableBuilder appends merged rows to out, one position list per segment
// and chunk. The first failed append is kept in err and stops the build.
type tableBuilder struct {
	out       *storage.Table
	segs      *segments
	chunkSize int
	rows      int
	posLists  []*poslist.PosList
	err       error

	// capacity of new position lists
	capacity int
}

// newTableBuilder creates a builder for at most maxRows rows.
func newTableBuilder(out *storage.Table, segs *segments, chunkSize int, maxRows int) *tableBuilder {
	capacity := maxRows
	if chunkSize != 0 {
		capacity = min(chunkSize, maxRows)
	}
	b := &tableBuilder{
		out:       out,
		segs:      segs,
		chunkSize: chunkSize,
		capacity:  capacity,
		posLists:  make([]*poslist.PosList, segs.count()),
	}
	b.resetPosLists()
	return b
}

func (b *tableBuilder) resetPosLists() {
	for i := range b.posLists {
		b.posLists[i] = poslist.New(b.capacity)
	}
}

// emitRow appends row of m and closes the chunk once it is full.
func (b *tableBuilder) emitRow(m referenceMatrix, row int64) {
	if b.err != nil {
		return
	}
	for seg, pos := range b.posLists {
		pos.Append(m[seg][row])
	}
	b.rows++
	if b.chunkSize != 0 && b.rows == b.chunkSize {
		b.emitChunk()
	}
}

func (b *tableBuilder) emitChunk() {
	c := storage.NewChunk()
	for seg, pos := range b.posLists {
		begin, end := b.segs.bounds(seg)
		for id := begin; id < end; id++ {
			// one reference per column sharing pos
			if id > begin {
				pos.Retain()
			}
			c.AddColumn(storage.NewReferenceColumn(b.segs.tables[seg], b.segs.columnIDs[id], pos))
		}
	}
	if err := b.out.AppendChunk(c); err != nil {
		b.err = err
		return
	}
	b.rows = 0
	b.resetPosLists()
}

// finish flushes the partial chunk and returns the table.
func (b *tableBuilder) finish() (*storage.Table, error) {
	if b.err == nil && b.rows != 0 {
		b.emitChunk()
	}
	if b.err != nil {
		return nil, b.err
	}
	return b.out, nil
}
