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

package config

import (
	"context"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/logutil"
)

const (
	// ValidationOptimized skips the exhaustive per-chunk checks.
	ValidationOptimized = "optimized"
	// ValidationChecked re-verifies every chunk of every input against the
	// structure discovered from the first chunk.
	ValidationChecked = "checked"

	defaultChunkSize = 65535
)

type ConfigurationKeyType int

const (
	ParameterUnitKey ConfigurationKeyType = 1
)

// ExecParameters of the execution layer
type ExecParameters struct {
	//default is "optimized". "checked" enables the exhaustive consistency pass.
	ValidationLevel string `toml:"validationLevel"`

	//default is 65535. max rows per chunk of tables built by loaders.
	DefaultChunkSize int64 `toml:"defaultChunkSize"`

	//default is the number of cpus. size of the task scheduler pool.
	SchedulerWorkers int64 `toml:"schedulerWorkers"`
}

// Parameters is the whole toml document
type Parameters struct {
	Log  logutil.LogConfig `toml:"log"`
	Exec ExecParameters    `toml:"exec"`
}

// SetDefaultValues fills every zero field with its default.
func (p *Parameters) SetDefaultValues() {
	if p.Log.Level == "" {
		p.Log.Level = "info"
	}
	if p.Log.Format == "" {
		p.Log.Format = "console"
	}
	if p.Log.MaxSize == 0 {
		p.Log.MaxSize = 512
	}
	if p.Exec.ValidationLevel == "" {
		p.Exec.ValidationLevel = ValidationOptimized
	}
	if p.Exec.DefaultChunkSize == 0 {
		p.Exec.DefaultChunkSize = defaultChunkSize
	}
	if p.Exec.SchedulerWorkers == 0 {
		p.Exec.SchedulerWorkers = int64(runtime.NumCPU())
	}
}

// Validate checks values that SetDefaultValues cannot repair.
func (p *Parameters) Validate(ctx context.Context) error {
	switch strings.ToLower(p.Exec.ValidationLevel) {
	case ValidationOptimized, ValidationChecked:
	default:
		return moerr.NewBadConfig(ctx, "unknown validation level %q", p.Exec.ValidationLevel)
	}
	if p.Exec.DefaultChunkSize < 0 {
		return moerr.NewBadConfig(ctx, "defaultChunkSize must not be negative, got %d", p.Exec.DefaultChunkSize)
	}
	if p.Exec.SchedulerWorkers < 0 {
		return moerr.NewBadConfig(ctx, "schedulerWorkers must not be negative, got %d", p.Exec.SchedulerWorkers)
	}
	switch p.Log.Format {
	case "json", "console":
	default:
		return moerr.NewBadConfig(ctx, "unsupported log format %q", p.Log.Format)
	}
	return nil
}

// Checked reports whether the exhaustive validation pass is enabled.
func (p *Parameters) Checked() bool {
	return strings.ToLower(p.Exec.ValidationLevel) == ValidationChecked
}

// Load decodes a toml document, applies defaults and validates the result.
func Load(ctx context.Context, data string) (*Parameters, error) {
	p := &Parameters{}
	if _, err := toml.Decode(data, p); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode toml: %v", err)
	}
	p.SetDefaultValues()
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile is Load for a file on disk.
func LoadFile(ctx context.Context, path string) (*Parameters, error) {
	p := &Parameters{}
	if _, err := toml.DecodeFile(path, p); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode toml file %s: %v", path, err)
	}
	p.SetDefaultValues()
	if err := p.Validate(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// GetParameters gets the configuration from the context.
func GetParameters(ctx context.Context) *Parameters {
	p, ok := ctx.Value(ParameterUnitKey).(*Parameters)
	if !ok || p == nil {
		panic("parameters are invalid")
	}
	return p
}

// WithParameters stores p in ctx for GetParameters.
func WithParameters(ctx context.Context, p *Parameters) context.Context {
	return context.WithValue(ctx, ParameterUnitKey, p)
}
