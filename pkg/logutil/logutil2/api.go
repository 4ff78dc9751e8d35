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

package logutil2

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/matrixorigin/refunion/pkg/logutil"
)

// log writes msg through the global logger and tags it with the query id
// carried by ctx, if any.
func log(ctx context.Context, level zapcore.Level, msg string, fields ...zap.Field) {
	logger := logutil.GetGlobalLogger().WithOptions(zap.AddCallerSkip(2))
	ce := logger.Check(level, msg)
	if ce == nil {
		return
	}
	if id, ok := logutil.QueryID(ctx); ok {
		fields = append(fields, zap.String("query", id))
	}
	ce.Write(fields...)
}

func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zap.DebugLevel, msg, fields...)
}

func Info(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zap.InfoLevel, msg, fields...)
}

func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zap.WarnLevel, msg, fields...)
}

func Error(ctx context.Context, msg string, fields ...zap.Field) {
	log(ctx, zap.ErrorLevel, msg, fields...)
}

// Debugf skips formatting when debug is disabled.
func Debugf(ctx context.Context, format string, args ...any) {
	if logutil.GetGlobalLogger().Core().Enabled(zap.DebugLevel) {
		log(ctx, zap.DebugLevel, fmt.Sprintf(format, args...))
	}
}

func Infof(ctx context.Context, format string, args ...any) {
	log(ctx, zap.InfoLevel, fmt.Sprintf(format, args...))
}
