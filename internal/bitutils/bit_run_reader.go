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
	"encoding/binary"
	"math/bits"

	"github.com/columnkit/columnkit/bitutil"
)

// VisitFn is a callback function for visiting runs of contiguous bits
type VisitFn func(pos int64, length int64) error

// loadWord returns nbits (1 <= nbits <= 64) of the bitmap starting at the
// given bit offset packed into the low bits of a uint64, zero-filled above.
func loadWord(bitmap []byte, bitOffset, nbits int) uint64 {
	byteOff := bitOffset / 8
	shift := bitOffset % 8

	var tmp [9]byte
	nbytes := int(bitutil.BytesForBits(int64(shift + nbits)))
	copy(tmp[:], bitmap[byteOff:byteOff+nbytes])

	word := binary.LittleEndian.Uint64(tmp[:8]) >> uint(shift)
	if shift > 0 && shift+nbits > 64 {
		word |= uint64(tmp[8]) << uint(64-shift)
	}
	if nbits < 64 {
		word &= (uint64(1) << uint(nbits)) - 1
	}
	return word
}

// VisitSetBitRuns calls visitFn for each maximal run of consecutive set bits
// in the bitmap, with the run's logical start position (relative to offset)
// and length. A nil bitmap is treated as entirely set, producing a single run
// covering all length bits.
func VisitSetBitRuns(bitmap []byte, offset, length int64, visitFn VisitFn) error {
	if bitmap == nil {
		if length == 0 {
			return nil
		}
		return visitFn(0, length)
	}

	pos := int64(0)
	for pos < length {
		rem := int(min64(64, length-pos))
		word := loadWord(bitmap, int(offset+pos), rem)
		if word == 0 {
			pos += int64(rem)
			continue
		}

		start := bits.TrailingZeros64(word)
		pos += int64(start)
		word >>= uint(start)
		rem -= start

		runStart := pos
		runLength := int64(0)
		for {
			// the valid bits above rem are zero-filled, so the count of
			// trailing ones never exceeds rem.
			ones := bits.TrailingZeros64(^word)
			runLength += int64(ones)
			pos += int64(ones)
			if ones < rem || pos >= length {
				break
			}
			// run may continue into the next loaded word
			rem = int(min64(64, length-pos))
			word = loadWord(bitmap, int(offset+pos), rem)
		}

		if err := visitFn(runStart, runLength); err != nil {
			return err
		}
	}
	return nil
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
