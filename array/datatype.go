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

package array

import "fmt"

// Kind is the closed set of physical encodings an Array can have.
type Kind int8

const (
	// BOOL is a bit-packed boolean array.
	BOOL Kind = iota
	// FIXED_WIDTH is an array of fixed byte-width elements.
	FIXED_WIDTH
	// BINARY is a variable-length byte sequence array using offsets + data.
	BINARY
	// LIST is an array of variable-length lists over a child array.
	LIST
)

func (k Kind) String() string {
	switch k {
	case BOOL:
		return "bool"
	case FIXED_WIDTH:
		return "fixed_width"
	case BINARY:
		return "binary"
	case LIST:
		return "list"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// DataType describes the element encoding of an Array as a closed tagged
// variant. Only the fields relevant to the Kind are set.
type DataType struct {
	Kind Kind
	// ByteWidth is the element width in bytes for FIXED_WIDTH.
	ByteWidth int
	// OffsetWidth is 4 or 8 for BINARY, denoting int32 or int64 offsets.
	OffsetWidth int
	// Elem is the element type for LIST.
	Elem *DataType
}

func (dt DataType) String() string {
	switch dt.Kind {
	case FIXED_WIDTH:
		return fmt.Sprintf("fixed_width[%d]", dt.ByteWidth)
	case BINARY:
		return fmt.Sprintf("binary[offsets=int%d]", dt.OffsetWidth*8)
	case LIST:
		return fmt.Sprintf("list<%s>", dt.Elem)
	}
	return dt.Kind.String()
}

// FixedWidth returns the type of fixed-width elements of the given byte width.
func FixedWidth(byteWidth int) DataType {
	switch byteWidth {
	case 1, 2, 4, 8:
	default:
		panic(fmt.Sprintf("array: unsupported fixed width %d", byteWidth))
	}
	return DataType{Kind: FIXED_WIDTH, ByteWidth: byteWidth}
}

// VarBinary returns a variable-length binary type with int32 or int64 offsets.
func VarBinary(offsetWidth int) DataType {
	if offsetWidth != 4 && offsetWidth != 8 {
		panic(fmt.Sprintf("array: unsupported offset width %d", offsetWidth))
	}
	return DataType{Kind: BINARY, OffsetWidth: offsetWidth}
}

// ListOf returns a list type over the given element type. List offsets are
// always int32.
func ListOf(elem DataType) DataType {
	e := elem
	return DataType{Kind: LIST, Elem: &e}
}

// Convenience singletons. Fixed-width types carry only their byte width, so
// e.g. Int32 and Uint32 denote the same physical type.
var (
	Boolean = DataType{Kind: BOOL}

	Uint8  = FixedWidth(1)
	Uint16 = FixedWidth(2)
	Uint32 = FixedWidth(4)
	Uint64 = FixedWidth(8)
	Int8   = FixedWidth(1)
	Int16  = FixedWidth(2)
	Int32  = FixedWidth(4)
	Int64  = FixedWidth(8)

	Binary      = VarBinary(4)
	LargeBinary = VarBinary(8)
	String      = Binary
	LargeString = LargeBinary
)

// TypeEqual reports whether two types denote the same element encoding.
func TypeEqual(a, b DataType) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case FIXED_WIDTH:
		return a.ByteWidth == b.ByteWidth
	case BINARY:
		return a.OffsetWidth == b.OffsetWidth
	case LIST:
		return TypeEqual(*a.Elem, *b.Elem)
	}
	return true
}
