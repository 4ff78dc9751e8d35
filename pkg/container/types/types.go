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

package types

import "fmt"

type T uint8

const (
	T_any T = 0

	T_int64   T = 23
	T_float64 T = 31
	T_varchar T = 61
)

// Type is the logical type of a column.
type Type struct {
	Oid  T
	Size int32
}

func (t T) ToType() Type {
	typ := Type{Oid: t}
	switch t {
	case T_int64, T_float64:
		typ.Size = 8
	case T_varchar:
		typ.Size = 24
	}
	return typ
}

func (t T) String() string {
	switch t {
	case T_int64:
		return "BIGINT"
	case T_float64:
		return "DOUBLE"
	case T_varchar:
		return "VARCHAR"
	case T_any:
		return "ANY"
	}
	return fmt.Sprintf("unexpected type: %d", uint8(t))
}

func (t Type) String() string {
	return t.Oid.String()
}

func (t Type) Eq(b Type) bool {
	return t.Oid == b.Oid && t.Size == b.Size
}

// Fixed is the set of go types a value column can hold.
type Fixed interface {
	int64 | float64 | string
}

// TypeOf maps a go value type to its column type.
func TypeOf[V Fixed]() Type {
	var v V
	switch any(v).(type) {
	case int64:
		return T_int64.ToType()
	case float64:
		return T_float64.ToType()
	default:
		return T_varchar.ToType()
	}
}
