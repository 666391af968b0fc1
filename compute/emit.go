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

package compute

import (
	"math"
	"unsafe"

	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/bitutil"
	"github.com/columnkit/columnkit/internal/debug"
	"github.com/columnkit/columnkit/memory"
	"github.com/columnkit/columnkit/scalar"
	"golang.org/x/xerrors"
)

// emitter assembles one kernel output sequentially: each emit call appends a
// range of elements chosen from one source array, carrying both values and
// validity; emitNull appends a null placeholder. Exactly length elements must
// be emitted before finish.
type emitter interface {
	emit(src *array.Array, start, n int)
	emitNull()
	// finish assembles the output array. The emitter must not be used afterwards.
	finish() (*array.Array, error)
	// release discards the partially built output when the kernel fails.
	release()
}

func newEmitter(mem memory.Allocator, dt array.DataType, length int) emitter {
	switch dt.Kind {
	case array.BOOL:
		values := memory.NewResizableBuffer(mem)
		values.Resize(int(bitutil.BytesForBits(int64(length))))
		return &boolEmitter{validity: newOutValidity(mem, length), values: values, length: length}
	case array.FIXED_WIDTH:
		values := memory.NewResizableBuffer(mem)
		values.Resize(length * dt.ByteWidth)
		return &fixedEmitter{validity: newOutValidity(mem, length), values: values, width: dt.ByteWidth, length: length}
	case array.BINARY:
		offsets := memory.NewResizableBuffer(mem)
		offsets.Resize((length + 1) * dt.OffsetWidth)
		return &binaryEmitter{
			dt:       dt,
			validity: newOutValidity(mem, length),
			offsets:  offsets,
			data:     memory.NewResizableBuffer(mem),
			length:   length,
		}
	case array.LIST:
		offsets := memory.NewResizableBuffer(mem)
		offsets.Resize((length + 1) * 4)
		return &listEmitter{
			mem:      mem,
			dt:       dt,
			validity: newOutValidity(mem, length),
			offsets:  offsets,
			length:   length,
		}
	}
	panic("compute: no emitter for type " + dt.String())
}

// outValidity accumulates the output validity bitmap and its null count.
type outValidity struct {
	buf   *memory.Buffer
	pos   int
	nullN int
}

func newOutValidity(mem memory.Allocator, length int) outValidity {
	buf := memory.NewResizableBuffer(mem)
	buf.Resize(int(bitutil.BytesForBits(int64(length))))
	return outValidity{buf: buf}
}

func (v *outValidity) appendFrom(src *array.Array, start, n int) {
	if vb := src.ValidityBytes(); vb != nil {
		bitutil.CopyBitmap(vb, src.Offset()+start, n, v.buf.Bytes(), v.pos)
		v.nullN += n - bitutil.CountSetBits(vb, src.Offset()+start, n)
	} else {
		bitutil.SetBitsTo(v.buf.Bytes(), int64(v.pos), int64(n), true)
	}
	v.pos += n
}

func (v *outValidity) appendNull() {
	bitutil.ClearBit(v.buf.Bytes(), v.pos)
	v.pos++
	v.nullN++
}

// finish hands the bitmap to the caller, or nil when every element came out
// valid and the bitmap can be omitted.
func (v *outValidity) finish() (*memory.Buffer, int) {
	if v.nullN == 0 {
		v.buf.Release()
		return nil, 0
	}
	return v.buf, v.nullN
}

type boolEmitter struct {
	validity outValidity
	values   *memory.Buffer
	pos      int
	length   int
}

func (e *boolEmitter) emit(src *array.Array, start, n int) {
	bitutil.CopyBitmap(src.ValuesBytes(), src.Offset()+start, n, e.values.Bytes(), e.pos)
	e.pos += n
	e.validity.appendFrom(src, start, n)
}

func (e *boolEmitter) emitNull() {
	e.pos++
	e.validity.appendNull()
}

func (e *boolEmitter) finish() (*array.Array, error) {
	debug.Assert(e.pos == e.length, "boolEmitter: wrong number of elements emitted")
	validity, nullN := e.validity.finish()
	out := array.New(array.Boolean, e.length, validity, e.values, nil, nil, nullN, 0)
	if validity != nil {
		validity.Release()
	}
	e.values.Release()
	return out, nil
}

func (e *boolEmitter) release() {
	e.values.Release()
	e.validity.buf.Release()
}

type fixedEmitter struct {
	validity outValidity
	values   *memory.Buffer
	width    int
	pos      int
	length   int
}

func (e *fixedEmitter) emit(src *array.Array, start, n int) {
	w := e.width
	beg := (src.Offset() + start) * w
	copy(e.values.Bytes()[e.pos*w:], src.ValuesBytes()[beg:beg+n*w])
	e.pos += n
	e.validity.appendFrom(src, start, n)
}

func (e *fixedEmitter) emitNull() {
	// output buffer is zero initialized, the placeholder bytes stay zero
	e.pos++
	e.validity.appendNull()
}

func (e *fixedEmitter) finish() (*array.Array, error) {
	debug.Assert(e.pos == e.length, "fixedEmitter: wrong number of elements emitted")
	validity, nullN := e.validity.finish()
	out := array.New(array.FixedWidth(e.width), e.length, validity, e.values, nil, nil, nullN, 0)
	if validity != nil {
		validity.Release()
	}
	e.values.Release()
	return out, nil
}

func (e *fixedEmitter) release() {
	e.values.Release()
	e.validity.buf.Release()
}

type binaryEmitter struct {
	dt       array.DataType
	validity outValidity
	offsets  *memory.Buffer
	data     *memory.Buffer
	elem     int
	dataLen  int64
	length   int
	err      error
}

func (e *binaryEmitter) emit(src *array.Array, start, n int) {
	if e.err != nil {
		return
	}

	first, last := src.ValueOffset(start), src.ValueOffset(start+n)
	span := last - first
	if e.dt.OffsetWidth == 4 && e.dataLen+span > math.MaxInt32 {
		e.err = xerrors.New("compute: value offset overflow building binary output")
		return
	}

	if need := e.dataLen + span; need > int64(e.data.Len()) {
		if int(need) > e.data.Cap() {
			e.data.Reserve(max(2*e.data.Cap(), int(need)))
		}
		e.data.ResizeNoShrink(int(need))
	}
	copy(e.data.Bytes()[e.dataLen:], src.ValuesBytes()[first:last])

	for i := 1; i <= n; i++ {
		putOffset(e.offsets.Bytes(), e.dt.OffsetWidth, e.elem+i, e.dataLen+src.ValueOffset(start+i)-first)
	}
	e.elem += n
	e.dataLen += span
	e.validity.appendFrom(src, start, n)
}

func (e *binaryEmitter) emitNull() {
	e.elem++
	putOffset(e.offsets.Bytes(), e.dt.OffsetWidth, e.elem, e.dataLen)
	e.validity.appendNull()
}

func (e *binaryEmitter) finish() (*array.Array, error) {
	if e.err != nil {
		err := e.err
		e.release()
		return nil, err
	}

	debug.Assert(e.elem == e.length, "binaryEmitter: wrong number of elements emitted")
	validity, nullN := e.validity.finish()
	out := array.New(e.dt, e.length, validity, e.data, e.offsets, nil, nullN, 0)
	if validity != nil {
		validity.Release()
	}
	e.data.Release()
	e.offsets.Release()
	return out, nil
}

func (e *binaryEmitter) release() {
	e.data.Release()
	e.offsets.Release()
	e.validity.buf.Release()
}

type listEmitter struct {
	mem      memory.Allocator
	dt       array.DataType
	validity outValidity
	offsets  *memory.Buffer
	parts    []*array.Array
	elem     int
	childLen int64
	length   int
	err      error
}

func (e *listEmitter) emit(src *array.Array, start, n int) {
	if e.err != nil {
		return
	}

	first, last := src.ValueOffset(start), src.ValueOffset(start+n)
	if e.childLen+(last-first) > math.MaxInt32 {
		e.err = xerrors.New("compute: list offset overflow building list output")
		return
	}

	if last > first {
		e.parts = append(e.parts, src.ListValues().Slice(int(first), int(last-first)))
	}
	for i := 1; i <= n; i++ {
		putOffset(e.offsets.Bytes(), 4, e.elem+i, e.childLen+src.ValueOffset(start+i)-first)
	}
	e.elem += n
	e.childLen += last - first
	e.validity.appendFrom(src, start, n)
}

func (e *listEmitter) emitNull() {
	e.elem++
	putOffset(e.offsets.Bytes(), 4, e.elem, e.childLen)
	e.validity.appendNull()
}

func (e *listEmitter) finish() (*array.Array, error) {
	if e.err != nil {
		err := e.err
		e.release()
		return nil, err
	}
	debug.Assert(e.elem == e.length, "listEmitter: wrong number of elements emitted")

	var (
		child *array.Array
		err   error
	)
	if len(e.parts) == 0 {
		child = scalar.MakeArrayOfNull(*e.dt.Elem, 0, e.mem)
	} else {
		child, err = array.Concatenate(e.parts, e.mem)
	}
	releaseParts(e.parts)
	e.parts = nil
	if err != nil {
		e.release()
		return nil, err
	}

	validity, nullN := e.validity.finish()
	out := array.New(e.dt, e.length, validity, nil, e.offsets, child, nullN, 0)
	if validity != nil {
		validity.Release()
	}
	child.Release()
	e.offsets.Release()
	return out, nil
}

func (e *listEmitter) release() {
	releaseParts(e.parts)
	e.parts = nil
	e.offsets.Release()
	e.validity.buf.Release()
}

func releaseParts(parts []*array.Array) {
	for _, p := range parts {
		p.Release()
	}
}

func putOffset(buf []byte, width, i int, v int64) {
	if width == 8 {
		*(*int64)(unsafe.Pointer(&buf[i*8])) = v
	} else {
		*(*int32)(unsafe.Pointer(&buf[i*4])) = int32(v)
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
