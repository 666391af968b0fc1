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
	"math"

	"github.com/JohnCGriffin/overflow"
	"github.com/columnkit/columnkit/bitutil"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/xerrors"
)

// Concatenate creates a new array which is the concatenation of the passed in
// arrays. The inputs still need to be released by the caller.
func Concatenate(arrs []*Array, mem memory.Allocator) (*Array, error) {
	if len(arrs) == 0 {
		return nil, xerrors.New("array/concat: must pass at least one array")
	}

	dt := arrs[0].DataType()
	totalLen := 0
	for _, a := range arrs {
		if !TypeEqual(a.DataType(), dt) {
			return nil, xerrors.Errorf("arrays to be concatenated must be identically typed, but %s and %s were encountered",
				dt, a.DataType())
		}
		var ok bool
		if totalLen, ok = overflow.Add(totalLen, a.Len()); !ok {
			return nil, xerrors.New("array/concat: length overflow when concatenating arrays")
		}
	}

	validity, nullN := concatValidity(arrs, totalLen, mem)
	if validity != nil {
		defer validity.Release()
	}

	switch dt.Kind {
	case BOOL:
		values := memory.NewResizableBuffer(mem)
		values.Resize(int(bitutil.BytesForBits(int64(totalLen))))
		defer values.Release()

		pos := 0
		for _, a := range arrs {
			bitutil.CopyBitmap(a.ValuesBytes(), a.Offset(), a.Len(), values.Bytes(), pos)
			pos += a.Len()
		}
		return New(dt, totalLen, validity, values, nil, nil, nullN, 0), nil

	case FIXED_WIDTH:
		w := dt.ByteWidth
		values := memory.NewResizableBuffer(mem)
		values.Resize(totalLen * w)
		defer values.Release()

		pos := 0
		for _, a := range arrs {
			pos += copy(values.Bytes()[pos:], a.ValuesBytes()[a.Offset()*w:(a.Offset()+a.Len())*w])
		}
		return New(dt, totalLen, validity, values, nil, nil, nullN, 0), nil

	case BINARY:
		var totalBytes int64
		for _, a := range arrs {
			first, last := valueSpan(a)
			var ok bool
			if totalBytes, ok = overflow.Add64(totalBytes, last-first); !ok {
				return nil, xerrors.New("array/concat: value length overflow when concatenating arrays")
			}
		}
		if dt.OffsetWidth == 4 && totalBytes > math.MaxInt32 {
			return nil, xerrors.New("array/concat: offset overflow while concatenating arrays")
		}

		offsets := memory.NewResizableBuffer(mem)
		offsets.Resize((totalLen + 1) * dt.OffsetWidth)
		defer offsets.Release()

		values := memory.NewResizableBuffer(mem)
		values.Resize(int(totalBytes))
		defer values.Release()

		elem, pos := 0, int64(0)
		for _, a := range arrs {
			first, last := valueSpan(a)
			if last > first {
				copy(values.Bytes()[pos:], a.ValuesBytes()[first:last])
			}
			for i := 0; i < a.Len(); i++ {
				elem++
				putOffset(offsets.Bytes(), dt.OffsetWidth, elem, pos+a.ValueOffset(i+1)-first)
			}
			pos += last - first
		}
		return New(dt, totalLen, validity, values, offsets, nil, nullN, 0), nil

	case LIST:
		children := make([]*Array, len(arrs))
		for i, a := range arrs {
			first, last := valueSpan(a)
			children[i] = a.ListValues().Slice(int(first), int(last-first))
		}
		defer func() {
			for _, c := range children {
				c.Release()
			}
		}()

		child, err := Concatenate(children, mem)
		if err != nil {
			return nil, err
		}
		defer child.Release()

		offsets := memory.NewResizableBuffer(mem)
		offsets.Resize((totalLen + 1) * 4)
		defer offsets.Release()

		elem, pos := 0, int64(0)
		for _, a := range arrs {
			first, last := valueSpan(a)
			for i := 0; i < a.Len(); i++ {
				elem++
				next, ok := overflow.Add64(pos, a.ValueOffset(i+1)-first)
				if !ok || next > math.MaxInt32 {
					return nil, xerrors.New("array/concat: offset overflow while concatenating arrays")
				}
				putOffset32(offsets.Bytes(), elem, int32(next))
			}
			pos += last - first
		}
		return New(dt, totalLen, validity, nil, offsets, child, nullN, 0), nil
	}

	return nil, xerrors.Errorf("array/concat: concatenate not implemented for type %s", dt)
}

// valueSpan returns the physical offsets entries bounding the logical window
// of a BINARY or LIST array.
func valueSpan(a *Array) (first, last int64) {
	if a.Len() == 0 {
		return 0, 0
	}
	return a.ValueOffset(0), a.ValueOffset(a.Len())
}

func putOffset32(buf []byte, i int, v int32) {
	putOffset(buf, 4, i, int64(v))
}

func concatValidity(arrs []*Array, totalLen int, mem memory.Allocator) (*memory.Buffer, int) {
	anyNulls := false
	for _, a := range arrs {
		if a.HasNulls() {
			anyNulls = true
			break
		}
	}
	if !anyNulls {
		return nil, 0
	}

	out := memory.NewResizableBuffer(mem)
	out.Resize(int(bitutil.BytesForBits(int64(totalLen))))

	pos, nullN := 0, 0
	for _, a := range arrs {
		if v := a.ValidityBytes(); v != nil {
			bitutil.CopyBitmap(v, a.Offset(), a.Len(), out.Bytes(), pos)
			nullN += a.NullN()
		} else {
			bitutil.SetBitsTo(out.Bytes(), int64(pos), int64(a.Len()), true)
		}
		pos += a.Len()
	}
	return out, nullN
}
