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

package vector

import (
	"bytes"
	"fmt"

	"github.com/matrixorigin/refunion/pkg/common/moerr"
	"github.com/matrixorigin/refunion/pkg/container/types"
)

// Vector represent a column of base storage
type Vector struct {
	// type represent the type of column
	typ types.Type
	// typed slice, []int64, []float64 or []string
	col any
}

func NewVec(typ types.Type) *Vector {
	v := &Vector{typ: typ}
	switch typ.Oid {
	case types.T_int64:
		v.col = []int64{}
	case types.T_float64:
		v.col = []float64{}
	case types.T_varchar:
		v.col = []string{}
	default:
		panic(moerr.NewNotSupportedNoCtx("vector of type %s", typ))
	}
	return v
}

// NewVecFrom wraps vs without copying.
func NewVecFrom[T types.Fixed](vs []T) *Vector {
	return &Vector{typ: types.TypeOf[T](), col: vs}
}

func (v *Vector) GetType() types.Type {
	return v.typ
}

func (v *Vector) Length() int {
	switch col := v.col.(type) {
	case []int64:
		return len(col)
	case []float64:
		return len(col)
	case []string:
		return len(col)
	}
	return 0
}

// GetValue returns the value at idx boxed in an any.
func (v *Vector) GetValue(idx int) any {
	switch col := v.col.(type) {
	case []int64:
		return col[idx]
	case []float64:
		return col[idx]
	case []string:
		return col[idx]
	}
	panic(moerr.NewInternalErrorNoCtx("vector without data"))
}

// MustFixedCol returns the typed data of v. It panics if T does not match
// the vector's type.
func MustFixedCol[T types.Fixed](v *Vector) []T {
	col, ok := v.col.([]T)
	if !ok {
		panic(moerr.NewInternalErrorNoCtx("vector of type %s read as %T", v.typ, col))
	}
	return col
}

func AppendFixed[T types.Fixed](v *Vector, vs ...T) error {
	col, ok := v.col.([]T)
	if !ok {
		return moerr.NewInternalErrorNoCtx("append %T to vector of type %s", vs, v.typ)
	}
	v.col = append(col, vs...)
	return nil
}

// AppendAny appends a boxed value, converting int to int64.
func AppendAny(v *Vector, val any) error {
	switch x := val.(type) {
	case int:
		return AppendFixed(v, int64(x))
	case int64:
		return AppendFixed(v, x)
	case float64:
		return AppendFixed(v, x)
	case string:
		return AppendFixed(v, x)
	}
	return moerr.NewInvalidInputNoCtx("value %v of type %T", val, val)
}

// Window returns a vector holding rows [start, end) of v. The data is shared.
func (v *Vector) Window(start, end int) *Vector {
	w := &Vector{typ: v.typ}
	switch col := v.col.(type) {
	case []int64:
		w.col = col[start:end:end]
	case []float64:
		w.col = col[start:end:end]
	case []string:
		w.col = col[start:end:end]
	}
	return w
}

func (v *Vector) String() string {
	var buf bytes.Buffer
	buf.WriteString("[")
	for i := 0; i < v.Length(); i++ {
		if i > 0 {
			buf.WriteString(" ")
		}
		fmt.Fprintf(&buf, "%v", v.GetValue(i))
	}
	buf.WriteString("]")
	return buf.String()
}
