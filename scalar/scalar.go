// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scalar provides single-value substitutes for arrays. A scalar
// broadcasts to every logical position of a kernel invocation and carries its
// own validity; a scalar may itself be null.
package scalar

import (
	"fmt"
	"unsafe"

	"github.com/columnkit/columnkit/array"
	"golang.org/x/exp/constraints"
)

// Scalar is a single value with its own validity.
type Scalar interface {
	DataType() array.DataType
	IsValid() bool
	// Data returns the native-endian value bytes for fixed-width scalars and
	// the raw value bytes for binary scalars; nil for boolean and null scalars.
	Data() []byte
	String() string
}

// Bool is a boolean scalar.
type Bool struct {
	Value bool
	Valid bool
}

func NewBoolScalar(v bool) Bool { return Bool{Value: v, Valid: true} }

func (s Bool) DataType() array.DataType { return array.Boolean }
func (s Bool) IsValid() bool            { return s.Valid }
func (s Bool) Data() []byte             { return nil }
func (s Bool) String() string {
	if !s.Valid {
		return "null"
	}
	return fmt.Sprintf("%v", s.Value)
}

// Numeric is a fixed-width primitive scalar.
type Numeric[T constraints.Integer | constraints.Float] struct {
	Value T
	Valid bool
}

func NewInt64Scalar(v int64) Numeric[int64]    { return Numeric[int64]{Value: v, Valid: true} }
func NewUint64Scalar(v uint64) Numeric[uint64] { return Numeric[uint64]{Value: v, Valid: true} }
func NewInt32Scalar(v int32) Numeric[int32]    { return Numeric[int32]{Value: v, Valid: true} }
func NewUint32Scalar(v uint32) Numeric[uint32] { return Numeric[uint32]{Value: v, Valid: true} }

func (s Numeric[T]) DataType() array.DataType {
	return array.FixedWidth(int(unsafe.Sizeof(s.Value)))
}
func (s Numeric[T]) IsValid() bool { return s.Valid }
func (s Numeric[T]) Data() []byte {
	v := s.Value
	return unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))
}
func (s Numeric[T]) String() string {
	if !s.Valid {
		return "null"
	}
	return fmt.Sprintf("%v", s.Value)
}

// Binary is a variable-length byte sequence scalar.
type Binary struct {
	Value []byte
	Valid bool

	dtype array.DataType
}

func NewBinaryScalar(v []byte) Binary { return Binary{Value: v, Valid: true, dtype: array.Binary} }
func NewStringScalar(v string) Binary {
	return Binary{Value: []byte(v), Valid: true, dtype: array.String}
}
func NewLargeStringScalar(v string) Binary {
	return Binary{Value: []byte(v), Valid: true, dtype: array.LargeString}
}

func (s Binary) DataType() array.DataType { return s.dtype }
func (s Binary) IsValid() bool            { return s.Valid }
func (s Binary) Data() []byte             { return s.Value }
func (s Binary) String() string {
	if !s.Valid {
		return "null"
	}
	return string(s.Value)
}

// Null is a null scalar of an arbitrary type.
type Null struct {
	Type array.DataType
}

// MakeNull returns a null scalar of the given type.
func MakeNull(dt array.DataType) Null { return Null{Type: dt} }

func (s Null) DataType() array.DataType { return s.Type }
func (s Null) IsValid() bool            { return false }
func (s Null) Data() []byte             { return nil }
func (s Null) String() string           { return "null" }
