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

import (
	"unsafe"

	"github.com/columnkit/columnkit/bitutil"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/exp/constraints"
)

// makeValidity builds a validity bitmap from a []bool mask, where true means
// valid. A nil mask yields a nil bitmap (all valid).
func makeValidity(valid []bool, mem memory.Allocator) (*memory.Buffer, int) {
	if valid == nil {
		return nil, 0
	}

	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(len(valid)))))

	nullN := 0
	for i, v := range valid {
		if v {
			bitutil.SetBit(buf.Bytes(), i)
		} else {
			nullN++
		}
	}
	return buf, nullN
}

// FromBools builds a BOOL array from vals. valid marks non-null elements and
// may be nil for an all-valid array.
func FromBools(vals []bool, valid []bool, mem memory.Allocator) *Array {
	values := memory.NewResizableBuffer(mem)
	values.Resize(int(bitutil.BytesForBits(int64(len(vals)))))
	defer values.Release()

	for i, v := range vals {
		bitutil.SetBitTo(values.Bytes(), i, v)
	}

	validity, nullN := makeValidity(valid, mem)
	if validity != nil {
		defer validity.Release()
	}
	return New(Boolean, len(vals), validity, values, nil, nil, nullN, 0)
}

// FromSlice builds a FIXED_WIDTH array from a slice of primitive values.
func FromSlice[T constraints.Integer | constraints.Float](vals []T, valid []bool, mem memory.Allocator) *Array {
	var zero T
	w := int(unsafe.Sizeof(zero))

	values := memory.NewResizableBuffer(mem)
	values.Resize(len(vals) * w)
	defer values.Release()

	if len(vals) > 0 {
		out := unsafe.Slice((*T)(unsafe.Pointer(&values.Bytes()[0])), len(vals))
		copy(out, vals)
	}

	validity, nullN := makeValidity(valid, mem)
	if validity != nil {
		defer validity.Release()
	}
	return New(FixedWidth(w), len(vals), validity, values, nil, nil, nullN, 0)
}

// FromStrings builds a BINARY array with int32 offsets from vals.
func FromStrings(vals []string, valid []bool, mem memory.Allocator) *Array {
	return buildBinary(Binary, vals, valid, mem)
}

// FromLargeStrings builds a BINARY array with int64 offsets from vals.
func FromLargeStrings(vals []string, valid []bool, mem memory.Allocator) *Array {
	return buildBinary(LargeBinary, vals, valid, mem)
}

func buildBinary(dt DataType, vals []string, valid []bool, mem memory.Allocator) *Array {
	totalLen := 0
	for i, v := range vals {
		if valid == nil || valid[i] {
			totalLen += len(v)
		}
	}

	offsets := memory.NewResizableBuffer(mem)
	offsets.Resize((len(vals) + 1) * dt.OffsetWidth)
	defer offsets.Release()

	values := memory.NewResizableBuffer(mem)
	values.Resize(totalLen)
	defer values.Release()

	pos := 0
	for i, v := range vals {
		if valid == nil || valid[i] {
			copy(values.Bytes()[pos:], v)
			pos += len(v)
		}
		putOffset(offsets.Bytes(), dt.OffsetWidth, i+1, int64(pos))
	}

	validity, nullN := makeValidity(valid, mem)
	if validity != nil {
		defer validity.Release()
	}
	return New(dt, len(vals), validity, values, offsets, nil, nullN, 0)
}

func putOffset(buf []byte, width, i int, v int64) {
	if width == 8 {
		*(*int64)(unsafe.Pointer(&buf[i*8])) = v
	} else {
		*(*int32)(unsafe.Pointer(&buf[i*4])) = int32(v)
	}
}

// NewList builds a LIST array over child. offsets must contain len+1
// monotonic entries indexing into the child's logical elements.
func NewList(offsets []int32, child *Array, valid []bool, mem memory.Allocator) *Array {
	length := len(offsets) - 1

	offsetBuf := memory.NewResizableBuffer(mem)
	offsetBuf.Resize(len(offsets) * 4)
	defer offsetBuf.Release()
	out := unsafe.Slice((*int32)(unsafe.Pointer(&offsetBuf.Bytes()[0])), len(offsets))
	copy(out, offsets)

	validity, nullN := makeValidity(valid, mem)
	if validity != nil {
		defer validity.Release()
	}
	return New(ListOf(child.DataType()), length, validity, nil, offsetBuf, child, nullN, 0)
}

// FromInt64Lists builds a LIST array of int64 elements, one list per entry.
// Null lists contribute an empty span.
func FromInt64Lists(vals [][]int64, valid []bool, mem memory.Allocator) *Array {
	offsets := make([]int32, len(vals)+1)
	var elems []int64
	for i, v := range vals {
		if valid == nil || valid[i] {
			elems = append(elems, v...)
		}
		offsets[i+1] = int32(len(elems))
	}

	child := FromSlice(elems, nil, mem)
	defer child.Release()
	return NewList(offsets, child, valid, mem)
}
