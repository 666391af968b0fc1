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

package bitutil

import (
	"encoding/binary"
)

// BitmapReader is a simple bitmap reader for a byte slice.
type BitmapReader struct {
	bitmap []byte
	pos    int
	len    int

	current    byte
	byteOffset int
	bitOffset  int
}

// NewBitmapReader creates and returns a new bitmap reader for the given bitmap
func NewBitmapReader(bitmap []byte, offset, length int) *BitmapReader {
	curbyte := byte(0)
	if length > 0 && bitmap != nil {
		curbyte = bitmap[offset/8]
	}
	return &BitmapReader{
		bitmap:     bitmap,
		byteOffset: offset / 8,
		bitOffset:  offset % 8,
		current:    curbyte,
		len:        length,
	}
}

// Set returns true if the current bit is set
func (b *BitmapReader) Set() bool {
	return (b.current & (1 << b.bitOffset)) != 0
}

// NotSet returns true if the current bit is not set
func (b *BitmapReader) NotSet() bool {
	return (b.current & (1 << b.bitOffset)) == 0
}

// Next advances the reader to the next bit in the bitmap.
func (b *BitmapReader) Next() {
	b.bitOffset++
	b.pos++
	if b.bitOffset == 8 {
		b.bitOffset = 0
		b.byteOffset++
		if b.pos < b.len {
			b.current = b.bitmap[int(b.byteOffset)]
		}
	}
}

// Pos returns the current bit position in the bitmap that the reader is looking at
func (b *BitmapReader) Pos() int { return b.pos }

// Len returns the total number of bits in the bitmap
func (b *BitmapReader) Len() int { return b.len }

// BitmapWriter is a simple writer for writing bitmaps to byte slices
type BitmapWriter struct {
	buf    []byte
	pos    int
	length int

	curByte    uint8
	bitMask    uint8
	byteOffset int
}

// NewBitmapWriter returns a sequential bitwise writer that preserves surrounding
// bit values as it writes.
func NewBitmapWriter(bitmap []byte, start, length int) *BitmapWriter {
	ret := &BitmapWriter{
		buf:        bitmap,
		length:     length,
		byteOffset: start / 8,
		bitMask:    BitMask[start%8],
	}
	if length > 0 {
		ret.curByte = bitmap[int(ret.byteOffset)]
	}
	return ret
}

// Reset resets the position and view of the slice to restart writing a bitmap
// to the same byte slice.
func (b *BitmapWriter) Reset(start, length int) {
	b.pos = 0
	b.byteOffset = start / 8
	b.bitMask = BitMask[start%8]
	b.length = length
	if b.length > 0 {
		b.curByte = b.buf[int(b.byteOffset)]
	}
}

func (b *BitmapWriter) Pos() int { return b.pos }
func (b *BitmapWriter) Set()     { b.curByte |= b.bitMask }
func (b *BitmapWriter) Clear()   { b.curByte &= ^b.bitMask }

// Next increments the writer to the next bit for writing.
func (b *BitmapWriter) Next() {
	b.bitMask = b.bitMask << 1
	b.pos++
	if b.bitMask == 0 {
		b.bitMask = 0x01
		b.buf[b.byteOffset] = b.curByte
		b.byteOffset++
		if b.pos < b.length {
			b.curByte = b.buf[int(b.byteOffset)]
		}
	}
}

// Finish flushes the final byte out to the byteslice in case it was not already
// on a byte aligned boundary.
func (b *BitmapWriter) Finish() {
	if b.length > 0 && (b.bitMask != 0x01 || b.pos < b.length) {
		b.buf[int(b.byteOffset)] = b.curByte
	}
}

// CopyBitmap copies the bitmap indicated by src, starting at bit offset srcOffset,
// and copying length bits into dst, starting at bit offset dstOffset.
func CopyBitmap(src []byte, srcOffset, length int, dst []byte, dstOffset int) {
	if length == 0 {
		// if there's nothing to write, end early.
		return
	}

	bitOffset := srcOffset % 8
	destBitOffset := dstOffset % 8

	// slow path, one of the bitmaps are not byte aligned.
	if bitOffset != 0 || destBitOffset != 0 {
		rdr := NewBitmapReader(src, srcOffset, length)
		wr := NewBitmapWriter(dst, dstOffset, length)
		for i := 0; i < length; i++ {
			if rdr.Set() {
				wr.Set()
			} else {
				wr.Clear()
			}
			rdr.Next()
			wr.Next()
		}
		wr.Finish()
		return
	}

	// fast path, both are starting with byte-aligned bitmaps
	nbytes := int(BytesForBits(int64(length)))

	// shift by its byte offset
	src = src[srcOffset/8:]
	dst = dst[dstOffset/8:]

	// Take care of the trailing bits in the last byte
	// E.g., if trailing_bits = 5, last byte should be
	// - low  3 bits: new bits from last byte of data buffer
	// - high 5 bits: old bits from last byte of dest buffer
	trailingBits := nbytes*8 - length
	trailMask := byte(uint(1)<<(8-trailingBits)) - 1

	copy(dst, src[:nbytes-1])
	lastData := src[nbytes-1]

	dst[nbytes-1] &= ^trailMask
	dst[nbytes-1] |= lastData & trailMask
}

// BitmapAnd writes the logical AND of the left and right bitmaps, each read at
// its own bit offset, into out at bit offset outOffset. Result bit i is set
// iff both operand bits i are set.
func BitmapAnd(left []byte, lOffset int, right []byte, rOffset int, length int, out []byte, outOffset int) {
	bitmapOp(left, lOffset, right, rOffset, length, out, outOffset,
		func(l, r uint64) uint64 { return l & r })
}

// BitmapOr is the same as BitmapAnd using a logical OR of the operand bits.
func BitmapOr(left []byte, lOffset int, right []byte, rOffset int, length int, out []byte, outOffset int) {
	bitmapOp(left, lOffset, right, rOffset, length, out, outOffset,
		func(l, r uint64) uint64 { return l | r })
}

func bitmapOp(left []byte, lOffset int, right []byte, rOffset int, length int, out []byte, outOffset int, op func(uint64, uint64) uint64) {
	if length == 0 {
		return
	}

	if lOffset%8 == 0 && rOffset%8 == 0 && outOffset%8 == 0 {
		// fast path, everything byte aligned
		l := left[lOffset/8:]
		r := right[rOffset/8:]
		o := out[outOffset/8:]

		nbytes := int(BytesForBits(int64(length)))
		nwords := nbytes / 8
		for i := 0; i < nwords; i++ {
			binary.LittleEndian.PutUint64(o[i*8:],
				op(binary.LittleEndian.Uint64(l[i*8:]), binary.LittleEndian.Uint64(r[i*8:])))
		}
		for i := nwords * 8; i < nbytes; i++ {
			o[i] = byte(op(uint64(l[i]), uint64(r[i])))
		}
		return
	}

	lrdr := NewBitmapReader(left, lOffset, length)
	rrdr := NewBitmapReader(right, rOffset, length)
	wr := NewBitmapWriter(out, outOffset, length)
	for i := 0; i < length; i++ {
		if op(b2u64(lrdr.Set()), b2u64(rrdr.Set())) != 0 {
			wr.Set()
		} else {
			wr.Clear()
		}
		lrdr.Next()
		rrdr.Next()
		wr.Next()
	}
	wr.Finish()
}

func b2u64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
