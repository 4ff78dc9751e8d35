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
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
)

func TestLoad(t *testing.T) {
	ctx := context.Background()
	data := `
[log]
level = "debug"
format = "json"

[exec]
validationLevel = "checked"
defaultChunkSize = 4
schedulerWorkers = 2
`
	p, err := Load(ctx, data)
	require.NoError(t, err)
	require.Equal(t, "debug", p.Log.Level)
	require.Equal(t, "json", p.Log.Format)
	require.Equal(t, 512, p.Log.MaxSize)
	require.True(t, p.Checked())
	require.Equal(t, int64(4), p.Exec.DefaultChunkSize)
	require.Equal(t, int64(2), p.Exec.SchedulerWorkers)
}

func TestLoadDefaults(t *testing.T) {
	p, err := Load(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "info", p.Log.Level)
	require.Equal(t, "console", p.Log.Format)
	require.Equal(t, ValidationOptimized, p.Exec.ValidationLevel)
	require.False(t, p.Checked())
	require.Equal(t, int64(defaultChunkSize), p.Exec.DefaultChunkSize)
	require.Equal(t, int64(runtime.NumCPU()), p.Exec.SchedulerWorkers)
}

func TestLoadInvalid(t *testing.T) {
	ctx := context.Background()
	for name, data := range map[string]string{
		"validation": "[exec]\nvalidationLevel = \"paranoid\"\n",
		"chunk size": "[exec]\ndefaultChunkSize = -1\n",
		"workers":    "[exec]\nschedulerWorkers = -3\n",
		"log format": "[log]\nformat = \"xml\"\n",
		"syntax":     "[exec\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(ctx, data)
			require.Error(t, err)
			require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
		})
	}
}

func TestLoadFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "union.toml")
	require.NoError(t, os.WriteFile(path, []byte("[exec]\nvalidationLevel = \"CHECKED\"\n"), 0o644))

	p, err := LoadFile(ctx, path)
	require.NoError(t, err)
	require.True(t, p.Checked())

	_, err = LoadFile(ctx, filepath.Join(t.TempDir(), "missing.toml"))
	require.True(t, moerr.IsMoErrCode(err, moerr.ErrBadConfig))
}

func TestParametersInContext(t *testing.T) {
	p := &Parameters{}
	p.SetDefaultValues()
	ctx := WithParameters(context.Background(), p)
	require.Same(t, p, GetParameters(ctx))
	require.Panics(t, func() { GetParameters(context.Background()) })
}
