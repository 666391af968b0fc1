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

package bitutils

import (
	"math"

	"github.com/columnkit/columnkit/bitutil"
)

// BitBlockCount is returned by the various bit block counter utilities
// in order to return a length of bits and the population count of that
// slice of bits.
type BitBlockCount struct {
	Len    int16
	Popcnt int16
}

// AllSet returns true if ALL the bits were 1 in this set, ie: Popcnt == Len
func (b BitBlockCount) AllSet() bool {
	return b.Len == b.Popcnt
}

// NoneSet returns true if NONE of the bits were 1 in this set, ie: Popcnt == 0
func (b BitBlockCount) NoneSet() bool {
	return b.Popcnt == 0
}

// BitBlockCounter is a utility for grabbing chunks of a bitmap at a time and
// efficiently counting the number of bits which are 1.
type BitBlockCounter struct {
	bitmap        []byte
	offset        int64
	bitsRemaining int64
}

// NewBitBlockCounter returns a BitBlockCounter for the passed bitmap starting at
// startOffset (in bits) and processing length bits.
func NewBitBlockCounter(bitmap []byte, startOffset, length int64) *BitBlockCounter {
	return &BitBlockCounter{
		bitmap:        bitmap,
		offset:        startOffset,
		bitsRemaining: length,
	}
}

func (b *BitBlockCounter) next(blockSize int64) BitBlockCount {
	n := blockSize
	if b.bitsRemaining < n {
		n = b.bitsRemaining
	}
	if n == 0 {
		return BitBlockCount{}
	}

	popcnt := bitutil.CountSetBits(b.bitmap, int(b.offset), int(n))
	b.offset += n
	b.bitsRemaining -= n
	return BitBlockCount{Len: int16(n), Popcnt: int16(popcnt)}
}

// NextWord returns the next run of available bits, usually 64. The returned
// pair contains the size of the run and the number of true values. The last
// block will have a length less than 64 if the bitmap length is not a
// multiple of 64, and will return 0-length blocks in subsequent invocations.
func (b *BitBlockCounter) NextWord() BitBlockCount {
	return b.next(64)
}

// NextFourWords is the same as NextWord, but returns a run of up to 256 bits.
func (b *BitBlockCounter) NextFourWords() BitBlockCount {
	return b.next(256)
}

// OptionalBitBlockCounter is a useful wrapper around BitBlockCounter for
// cases where the bitmap may or may not be nil. A nil bitmap yields blocks
// which are entirely set.
type OptionalBitBlockCounter struct {
	hasBitmap bool
	pos       int64
	length    int64
	counter   *BitBlockCounter
}

// maximum block size for optional blocks when there is no bitmap to scan,
// matching the int16 representation of BitBlockCount.
const maxBlockSize = math.MaxInt16

func NewOptionalBitBlockCounter(bitmap []byte, offset, length int64) *OptionalBitBlockCounter {
	var counter *BitBlockCounter
	if bitmap != nil {
		counter = NewBitBlockCounter(bitmap, offset, length)
	}
	return &OptionalBitBlockCounter{
		hasBitmap: bitmap != nil,
		length:    length,
		counter:   counter,
	}
}

// NextBlock returns block count for next word when the bitmap is available
// otherwise return a block as large as possible (up to max int16 size) of
// entirely set bits.
func (o *OptionalBitBlockCounter) NextBlock() BitBlockCount {
	if o.hasBitmap {
		block := o.counter.NextWord()
		o.pos += int64(block.Len)
		return block
	}

	blockSize := int64(maxBlockSize)
	if o.length-o.pos < blockSize {
		blockSize = o.length - o.pos
	}
	o.pos += blockSize
	// all values are non-null
	return BitBlockCount{Len: int16(blockSize), Popcnt: int16(blockSize)}
}

// NextWord is like NextBlock but always returns a block no larger than one
// 64-bit word.
func (o *OptionalBitBlockCounter) NextWord() BitBlockCount {
	if o.hasBitmap {
		block := o.counter.NextWord()
		o.pos += int64(block.Len)
		return block
	}

	blockSize := int64(64)
	if o.length-o.pos < blockSize {
		blockSize = o.length - o.pos
	}
	o.pos += blockSize
	return BitBlockCount{Len: int16(blockSize), Popcnt: int16(blockSize)}
}
