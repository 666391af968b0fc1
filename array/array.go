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
	"fmt"
	"sync/atomic"
	"unsafe"

	"github.com/columnkit/columnkit/bitutil"
	"github.com/columnkit/columnkit/internal/debug"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/exp/constraints"
)

// UnknownNullCount is used as the nullN argument when the number of nulls is
// not known at construction and should be computed on first access.
const UnknownNullCount = -1

// Array is an immutable, shareable view over columnar data. The backing
// buffers are reference counted and shared between slices; a slice only
// adjusts the logical offset and length, it never copies.
//
// For BOOL arrays the offset is a bit offset into the values buffer, for all
// other kinds it is an element offset. The validity bitmap, when present,
// stores the validity of logical element i at bit offset+i.
type Array struct {
	refCount int64

	dtype  DataType
	length int
	offset int
	nullN  int64

	validity *memory.Buffer
	values   *memory.Buffer
	offsets  *memory.Buffer
	child    *Array
}

// New creates an array over the given buffers. The buffers and child are
// retained; callers keep their own references. Pass UnknownNullCount as nullN
// to have the null count computed lazily from the validity bitmap.
func New(dt DataType, length int, validity, values, offsets *memory.Buffer, child *Array, nullN, offset int) *Array {
	debug.Assert(length >= 0 && offset >= 0, "array: negative length or offset")

	for _, b := range []*memory.Buffer{validity, values, offsets} {
		if b != nil {
			b.Retain()
		}
	}
	if child != nil {
		child.Retain()
	}
	if validity == nil {
		nullN = 0
	}

	return &Array{
		refCount: 1,
		dtype:    dt,
		length:   length,
		offset:   offset,
		nullN:    int64(nullN),
		validity: validity,
		values:   values,
		offsets:  offsets,
		child:    child,
	}
}

// Retain increases the reference count by 1.
// Retain may be called simultaneously from multiple goroutines.
func (a *Array) Retain() {
	atomic.AddInt64(&a.refCount, 1)
}

// Release decreases the reference count by 1.
// When the reference count goes to zero, the backing buffers are released.
// Release may be called simultaneously from multiple goroutines.
func (a *Array) Release() {
	debug.Assert(atomic.LoadInt64(&a.refCount) > 0, "too many releases")

	if atomic.AddInt64(&a.refCount, -1) == 0 {
		memory.ReleaseBuffers([]*memory.Buffer{a.validity, a.values, a.offsets})
		if a.child != nil {
			a.child.Release()
		}
		a.validity, a.values, a.offsets, a.child = nil, nil, nil, nil
	}
}

func (a *Array) DataType() DataType { return a.dtype }
func (a *Array) Len() int           { return a.length }
func (a *Array) Offset() int        { return a.offset }

// NullN returns the number of null values, computing it from the validity
// bitmap on first access if it was not known at construction.
//
// The lazy count is published with a CAS so that arrays may be shared across
// goroutines: the computed value is deterministic, so concurrent callers
// always store the same result.
func (a *Array) NullN() int {
	n := atomic.LoadInt64(&a.nullN)
	if n == UnknownNullCount {
		n = int64(a.length - bitutil.CountSetBits(a.validity.Bytes(), a.offset, a.length))
		atomic.CompareAndSwapInt64(&a.nullN, UnknownNullCount, n)
	}
	return int(n)
}

// HasNulls returns true if the array may contain null values.
func (a *Array) HasNulls() bool { return a.validity != nil && a.NullN() > 0 }

// IsValid reports whether logical element i is valid (non-null).
func (a *Array) IsValid(i int) bool {
	debug.Assert(i >= 0 && i < a.length, "array: index out of range")
	return a.validity == nil || bitutil.BitIsSet(a.validity.Bytes(), a.offset+i)
}

// IsNull reports whether logical element i is null.
func (a *Array) IsNull(i int) bool { return !a.IsValid(i) }

// ValidityBytes returns the raw validity bitmap, or nil when every element is
// valid. Bit a.Offset()+i corresponds to logical element i.
func (a *Array) ValidityBytes() []byte {
	if a.validity == nil {
		return nil
	}
	return a.validity.Bytes()
}

// ValuesBytes returns the raw values buffer: bit-packed booleans for BOOL,
// element data for FIXED_WIDTH, value bytes for BINARY. It is nil for LIST.
func (a *Array) ValuesBytes() []byte {
	if a.values == nil {
		return nil
	}
	return a.values.Bytes()
}

// BoolValue returns the boolean value of logical element i.
func (a *Array) BoolValue(i int) bool {
	debug.Assert(a.dtype.Kind == BOOL, "array: BoolValue on non-bool array")
	return bitutil.BitIsSet(a.values.Bytes(), a.offset+i)
}

// ValueBytes returns the raw bytes of fixed-width logical element i.
func (a *Array) ValueBytes(i int) []byte {
	debug.Assert(a.dtype.Kind == FIXED_WIDTH, "array: ValueBytes on non-fixed-width array")
	w := a.dtype.ByteWidth
	pos := (a.offset + i) * w
	return a.values.Bytes()[pos : pos+w]
}

// ValueOffset returns offsets entry for logical element i as an int64,
// regardless of the physical offset width. Valid for BINARY and LIST, with
// 0 <= i <= Len().
func (a *Array) ValueOffset(i int) int64 {
	switch a.dtype.Kind {
	case BINARY:
		if a.dtype.OffsetWidth == 8 {
			return offsetsOf[int64](a)[a.offset+i]
		}
		return int64(offsetsOf[int32](a)[a.offset+i])
	case LIST:
		return int64(offsetsOf[int32](a)[a.offset+i])
	}
	panic("array: ValueOffset on array without offsets")
}

// ValueLen returns the length in bytes (BINARY) or elements (LIST) of logical
// element i.
func (a *Array) ValueLen(i int) int {
	return int(a.ValueOffset(i+1) - a.ValueOffset(i))
}

// BinaryValue returns the byte span of logical element i, or nil if the
// element is null. Null spans are never surfaced as data.
func (a *Array) BinaryValue(i int) []byte {
	debug.Assert(a.dtype.Kind == BINARY, "array: BinaryValue on non-binary array")
	if a.IsNull(i) {
		return nil
	}
	beg, end := a.ValueOffset(i), a.ValueOffset(i+1)
	return a.values.Bytes()[beg:end]
}

// ListValues returns the child values array of a LIST array.
func (a *Array) ListValues() *Array {
	debug.Assert(a.dtype.Kind == LIST, "array: ListValues on non-list array")
	return a.child
}

// ListValue returns logical list element i as a slice of the child array, or
// nil if the element is null. The returned array must be released.
func (a *Array) ListValue(i int) *Array {
	if a.IsNull(i) {
		return nil
	}
	beg, end := a.ValueOffset(i), a.ValueOffset(i+1)
	return a.child.Slice(int(beg), int(end-beg))
}

// Slice returns a view of length elements of the array starting at logical
// position off. The view shares the backing buffers. Slice panics if the
// requested range is outside the array.
func (a *Array) Slice(off, length int) *Array {
	if off < 0 || length < 0 || off+length > a.length {
		panic(fmt.Sprintf("array: slice [%d, %d) out of range [0, %d)", off, off+length, a.length))
	}

	nullN := UnknownNullCount
	if atomic.LoadInt64(&a.nullN) == 0 || a.validity == nil {
		nullN = 0
	}
	return New(a.dtype, length, a.validity, a.values, a.offsets, a.child, nullN, a.offset+off)
}

// FixedWidthValues returns the logical window of a FIXED_WIDTH array's values
// buffer reinterpreted as elements of type T. T's size must match the array's
// byte width.
func FixedWidthValues[T constraints.Integer | constraints.Float](a *Array) []T {
	var zero T
	w := int(unsafe.Sizeof(zero))
	debug.Assert(a.dtype.Kind == FIXED_WIDTH && a.dtype.ByteWidth == w, "array: element width mismatch")

	data := a.values.Bytes()
	if len(data) == 0 {
		return nil
	}
	vals := unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/w)
	return vals[a.offset : a.offset+a.length]
}

// offsetsOf reinterprets the raw offsets buffer as []T, unadjusted for the
// logical offset.
func offsetsOf[T int32 | int64](a *Array) []T {
	data := a.offsets.Bytes()
	if len(data) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), len(data)/int(unsafe.Sizeof(zero)))
}
