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

package scalar

import (
	"math"
	"unsafe"

	"github.com/JohnCGriffin/overflow"
	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/bitutil"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/xerrors"
)

// MakeArrayFromScalar broadcasts the scalar to an array of n logical
// positions, every element carrying the scalar's value and validity.
func MakeArrayFromScalar(s Scalar, n int, mem memory.Allocator) (*array.Array, error) {
	if !s.IsValid() {
		return MakeArrayOfNull(s.DataType(), n, mem), nil
	}

	dt := s.DataType()
	switch dt.Kind {
	case array.BOOL:
		values := memory.NewResizableBuffer(mem)
		values.Resize(int(bitutil.BytesForBits(int64(n))))
		defer values.Release()

		bitutil.SetBitsTo(values.Bytes(), 0, int64(n), s.(Bool).Value)
		return array.New(dt, n, nil, values, nil, nil, 0, 0), nil

	case array.FIXED_WIDTH:
		values := memory.NewResizableBuffer(mem)
		values.Resize(n * dt.ByteWidth)
		defer values.Release()

		data := s.Data()
		for i := 0; i < n; i++ {
			copy(values.Bytes()[i*dt.ByteWidth:], data)
		}
		return array.New(dt, n, nil, values, nil, nil, 0, 0), nil

	case array.BINARY:
		data := s.Data()
		total, ok := overflow.Mul(n, len(data))
		if !ok || (dt.OffsetWidth == 4 && int64(total) > math.MaxInt32) {
			return nil, xerrors.Errorf("scalar: offset overflow broadcasting %d-byte value to %d elements", len(data), n)
		}

		offsets := memory.NewResizableBuffer(mem)
		offsets.Resize((n + 1) * dt.OffsetWidth)
		defer offsets.Release()

		values := memory.NewResizableBuffer(mem)
		values.Resize(total)
		defer values.Release()

		pos := 0
		for i := 0; i < n; i++ {
			pos += copy(values.Bytes()[pos:], data)
			putOffset(offsets.Bytes(), dt.OffsetWidth, i+1, int64(pos))
		}
		return array.New(dt, n, nil, values, offsets, nil, 0, 0), nil
	}

	return nil, xerrors.Errorf("scalar: cannot broadcast scalar of type %s", dt)
}

// MakeArrayOfNull returns an array of n null elements of the given type.
func MakeArrayOfNull(dt array.DataType, n int, mem memory.Allocator) *array.Array {
	validity := memory.NewResizableBuffer(mem)
	validity.Resize(int(bitutil.BytesForBits(int64(n))))
	defer validity.Release()

	var (
		values  *memory.Buffer
		offsets *memory.Buffer
		child   *array.Array
	)

	switch dt.Kind {
	case array.BOOL:
		values = memory.NewResizableBuffer(mem)
		values.Resize(int(bitutil.BytesForBits(int64(n))))
		defer values.Release()
	case array.FIXED_WIDTH:
		values = memory.NewResizableBuffer(mem)
		values.Resize(n * dt.ByteWidth)
		defer values.Release()
	case array.BINARY:
		values = memory.NewResizableBuffer(mem)
		values.Resize(0)
		defer values.Release()
		offsets = memory.NewResizableBuffer(mem)
		offsets.Resize((n + 1) * dt.OffsetWidth)
		defer offsets.Release()
	case array.LIST:
		offsets = memory.NewResizableBuffer(mem)
		offsets.Resize((n + 1) * 4)
		defer offsets.Release()
		child = MakeArrayOfNull(*dt.Elem, 0, mem)
		defer child.Release()
	}

	return array.New(dt, n, validity, values, offsets, child, n, 0)
}

func putOffset(buf []byte, width, i int, v int64) {
	if width == 8 {
		*(*int64)(unsafe.Pointer(&buf[i*8])) = v
	} else {
		*(*int32)(unsafe.Pointer(&buf[i*4])) = int32(v)
	}
}
