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
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/refunion/pkg/catalog"
	"github.com/matrixorigin/refunion/pkg/config"
	"github.com/matrixorigin/refunion/pkg/logutil"
)

// New creates a process with the optimized validation level.
func New(ctx context.Context, cat *catalog.StorageManager) *Process {
	id := uuid.New().String()
	return &Process{
		Id:              id,
		Ctx:             logutil.WithQueryID(ctx, id),
		Catalog:         cat,
		ValidationLevel: config.ValidationOptimized,
	}
}

// NewFromParameters creates a process that follows the [exec] section of p.
func NewFromParameters(ctx context.Context, cat *catalog.StorageManager, p *config.Parameters) *Process {
	proc := New(config.WithParameters(ctx, p), cat)
	proc.ValidationLevel = strings.ToLower(p.Exec.ValidationLevel)
	return proc
}

func (proc *Process) QueryId() string {
	return proc.Id
}

func (proc *Process) SetQueryId(id string) {
	proc.Id = id
	proc.Ctx = logutil.WithQueryID(proc.Ctx, id)
}

// Checked reports whether operators must run their exhaustive consistency
// checks.
func (proc *Process) Checked() bool {
	return proc.ValidationLevel == config.ValidationChecked
}

// log do logging.
// just for Info/Error/Warn/Debug
func (proc *Process) log(level zapcore.Level, msg string, fields ...zap.Field) {
	logger := logutil.GetGlobalLogger().WithOptions(zap.AddCallerSkip(2))
	if ce := logger.Check(level, msg); ce != nil {
		ce.Write(append(fields, zap.String("query", proc.Id))...)
	}
}

func (proc *Process) Info(msg string, fields ...zap.Field) {
	proc.log(zap.InfoLevel, msg, fields...)
}

func (proc *Process) Error(msg string, fields ...zap.Field) {
	proc.log(zap.ErrorLevel, msg, fields...)
}

func (proc *Process) Warn(msg string, fields ...zap.Field) {
	proc.log(zap.WarnLevel, msg, fields...)
}

func (proc *Process) Debug(msg string, fields ...zap.Field) {
	proc.log(zap.DebugLevel, msg, fields...)
}

func (proc *Process) Debugf(msg string, args ...any) {
	proc.log(zap.DebugLevel, fmt.Sprintf(msg, args...))
}
