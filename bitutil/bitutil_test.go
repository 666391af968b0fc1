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

package bitutil_test

import (
	"fmt"
	"testing"

	"github.com/columnkit/columnkit/bitutil"
	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func TestIsMultipleOf8(t *testing.T) {
	for _, v := range []int64{-16, -8, 0, 8, 16, 64} {
		assert.True(t, bitutil.IsMultipleOf8(v), "value: %d", v)
	}
	for _, v := range []int64{-7, -3, 1, 5, 7, 9, 63} {
		assert.False(t, bitutil.IsMultipleOf8(v), "value: %d", v)
	}
}

func TestBytesForBits(t *testing.T) {
	assert.EqualValues(t, 0, bitutil.BytesForBits(0))
	assert.EqualValues(t, 1, bitutil.BytesForBits(1))
	assert.EqualValues(t, 1, bitutil.BytesForBits(8))
	assert.EqualValues(t, 2, bitutil.BytesForBits(9))
	assert.EqualValues(t, 2, bitutil.BytesForBits(16))
}

func TestBitIsSet(t *testing.T) {
	buf := make([]byte, 2)
	buf[0] = 0xa1
	buf[1] = 0xc2

	exp := []bool{true, false, false, false, false, true, false, true, false, true, false, false, false, false, true, true}
	var got []bool
	for i := 0; i < 0x10; i++ {
		got = append(got, bitutil.BitIsSet(buf, i))
	}
	assert.Equal(t, exp, got)
}

func TestSetBitTo(t *testing.T) {
	buf := make([]byte, 2)
	for i := 0; i < 16; i += 2 {
		bitutil.SetBitTo(buf, i, true)
	}
	assert.Equal(t, []byte{0x55, 0x55}, buf)

	for i := 0; i < 16; i += 2 {
		bitutil.SetBitTo(buf, i, false)
	}
	bitutil.SetBit(buf, 3)
	bitutil.ClearBit(buf, 3)
	assert.Equal(t, []byte{0x00, 0x00}, buf)
}

func TestSetBitsTo(t *testing.T) {
	// test set within a byte
	bm := []byte{0xFF}
	bitutil.SetBitsTo(bm, 1, 3, false)
	assert.Equal(t, []byte{0xF1}, bm)

	// test straddling a byte boundary
	bm = []byte{0x00, 0x00, 0x00}
	bitutil.SetBitsTo(bm, 5, 12, true)
	assert.Equal(t, []byte{0xE0, 0xFF, 0x01}, bm)

	// full bytes plus tail
	bm = []byte{0xFF, 0xFF, 0xFF}
	bitutil.SetBitsTo(bm, 0, 21, false)
	assert.Equal(t, []byte{0x00, 0x00, 0xE0}, bm)
}

func TestCountSetBits(t *testing.T) {
	bm := make([]byte, 64)
	r := rand.New(rand.NewSource(1))
	r.Read(bm)

	naive := func(offset, length int) int {
		n := 0
		for i := 0; i < length; i++ {
			if bitutil.BitIsSet(bm, offset+i) {
				n++
			}
		}
		return n
	}

	for _, offset := range []int{0, 1, 7, 8, 13, 63, 64} {
		for _, length := range []int{0, 1, 8, 63, 64, 200, 64*8 - offset} {
			if offset+length > 64*8 {
				continue
			}
			t.Run(fmt.Sprintf("off=%d len=%d", offset, length), func(t *testing.T) {
				assert.Equal(t, naive(offset, length), bitutil.CountSetBits(bm, offset, length))
			})
		}
	}
}

func TestCopyBitmap(t *testing.T) {
	src := make([]byte, 32)
	r := rand.New(rand.NewSource(2))
	r.Read(src)

	for _, srcOffset := range []int{0, 3, 8, 13} {
		for _, dstOffset := range []int{0, 5, 8, 11} {
			length := 32*8 - srcOffset - 16
			dst := make([]byte, 40)
			bitutil.CopyBitmap(src, srcOffset, length, dst, dstOffset)
			for i := 0; i < length; i++ {
				assert.Equal(t, bitutil.BitIsSet(src, srcOffset+i), bitutil.BitIsSet(dst, dstOffset+i),
					"srcOffset=%d dstOffset=%d bit=%d", srcOffset, dstOffset, i)
			}
		}
	}
}

func TestBitmapAndOr(t *testing.T) {
	left := make([]byte, 16)
	right := make([]byte, 16)
	r := rand.New(rand.NewSource(3))
	r.Read(left)
	r.Read(right)

	out := make([]byte, 16)
	bitutil.BitmapAnd(left, 0, right, 0, 16*8, out, 0)
	for i := 0; i < 16*8; i++ {
		assert.Equal(t, bitutil.BitIsSet(left, i) && bitutil.BitIsSet(right, i), bitutil.BitIsSet(out, i))
	}

	bitutil.BitmapOr(left, 0, right, 0, 16*8, out, 0)
	for i := 0; i < 16*8; i++ {
		assert.Equal(t, bitutil.BitIsSet(left, i) || bitutil.BitIsSet(right, i), bitutil.BitIsSet(out, i))
	}

	// unaligned offsets take the bit-by-bit path
	bitutil.BitmapAnd(left, 3, right, 5, 100, out, 1)
	for i := 0; i < 100; i++ {
		assert.Equal(t, bitutil.BitIsSet(left, 3+i) && bitutil.BitIsSet(right, 5+i), bitutil.BitIsSet(out, 1+i))
	}
}

func TestBitmapReaderWriter(t *testing.T) {
	src := make([]byte, 8)
	r := rand.New(rand.NewSource(4))
	r.Read(src)

	dst := make([]byte, 8)
	rd := bitutil.NewBitmapReader(src, 3, 50)
	wr := bitutil.NewBitmapWriter(dst, 5, 50)
	for i := 0; i < 50; i++ {
		if rd.Set() {
			wr.Set()
		} else {
			wr.Clear()
		}
		rd.Next()
		wr.Next()
	}
	wr.Finish()

	for i := 0; i < 50; i++ {
		assert.Equal(t, bitutil.BitIsSet(src, 3+i), bitutil.BitIsSet(dst, 5+i), "bit %d", i)
	}
}
