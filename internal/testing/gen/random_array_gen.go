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

package gen

import (
	"math"
	"unsafe"

	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/bitutil"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// RandomArrayGenerator is a struct used for constructing random arrays of
// every supported kind, for use with testing and benchmarking.
type RandomArrayGenerator struct {
	seed     uint64
	extra    uint64
	src      rand.Source
	seedRand *rand.Rand
	mem      memory.Allocator
}

// NewRandomArrayGenerator constructs a new generator with the requested seed.
func NewRandomArrayGenerator(seed uint64, mem memory.Allocator) RandomArrayGenerator {
	src := rand.NewSource(seed)
	return RandomArrayGenerator{seed, 0, src, rand.New(src), mem}
}

// GenerateBitmap generates a bitmap of n bits and stores it into buffer. Prob is the probability
// that a given bit will be zero, with 1-prob being the probability it will be 1. The return value
// is the number of bits that were left unset. The assumption being that buffer is currently
// zero initialized as this function does not clear any bits, it only sets 1s.
func (r *RandomArrayGenerator) GenerateBitmap(buffer []byte, n int64, prob float64) int64 {
	count := int64(0)
	r.extra++

	// bernoulli distribution uses P to determine the probability of a 0 or a 1,
	// which we'll use to generate the bitmap.
	dist := distuv.Bernoulli{P: 1 - prob, Src: rand.NewSource(r.seed + r.extra)}
	for i := 0; int64(i) < n; i++ {
		if dist.Rand() != float64(0.0) {
			bitutil.SetBit(buffer, i)
		} else {
			count++
		}
	}

	return count
}

func (r *RandomArrayGenerator) Boolean(size int64, prob, nullProb float64) *array.Array {
	validity := memory.NewResizableBuffer(r.mem)
	validity.Resize(int(bitutil.BytesForBits(size)))
	defer validity.Release()
	nullCount := r.GenerateBitmap(validity.Bytes(), size, nullProb)

	values := memory.NewResizableBuffer(r.mem)
	values.Resize(int(bitutil.BytesForBits(size)))
	defer values.Release()
	r.GenerateBitmap(values.Bytes(), size, prob)

	return array.New(array.Boolean, int(size), validity, values, nil, nil, int(nullCount), 0)
}

func (r *RandomArrayGenerator) baseGenPrimitive(size int64, prob float64, byteWidth int) (validity, values *memory.Buffer, nullCount int64) {
	validity = memory.NewResizableBuffer(r.mem)
	validity.Resize(int(bitutil.BytesForBits(size)))
	nullCount = r.GenerateBitmap(validity.Bytes(), size, prob)

	values = memory.NewResizableBuffer(r.mem)
	values.Resize(int(size) * byteWidth)
	return validity, values, nullCount
}

func (r *RandomArrayGenerator) Int32(size int64, min, max int32, prob float64) *array.Array {
	validity, values, nullCount := r.baseGenPrimitive(size, prob, 4)
	defer validity.Release()
	defer values.Release()

	r.extra++
	dist := rand.New(rand.NewSource(r.seed + r.extra))
	out := castTo[int32](values.Bytes(), int(size))
	for i := int64(0); i < size; i++ {
		out[i] = dist.Int31n(max-min+1) + min
	}

	return array.New(array.Int32, int(size), validity, values, nil, nil, int(nullCount), 0)
}

func (r *RandomArrayGenerator) Uint32(size int64, min, max uint32, prob float64) *array.Array {
	validity, values, nullCount := r.baseGenPrimitive(size, prob, 4)
	defer validity.Release()
	defer values.Release()

	r.extra++
	dist := rand.New(rand.NewSource(r.seed + r.extra))
	out := castTo[uint32](values.Bytes(), int(size))
	for i := int64(0); i < size; i++ {
		out[i] = uint32(dist.Uint64n(uint64(max)-uint64(min)+1)) + min
	}

	return array.New(array.Uint32, int(size), validity, values, nil, nil, int(nullCount), 0)
}

func (r *RandomArrayGenerator) Int64(size int64, min, max int64, prob float64) *array.Array {
	validity, values, nullCount := r.baseGenPrimitive(size, prob, 8)
	defer validity.Release()
	defer values.Release()

	r.extra++
	dist := rand.New(rand.NewSource(r.seed + r.extra))
	out := castTo[int64](values.Bytes(), int(size))
	if max == math.MaxInt64 && min == math.MinInt64 {
		for i := int64(0); i < size; i++ {
			out[i] = int64(dist.Uint64())
		}
	} else {
		for i := int64(0); i < size; i++ {
			out[i] = dist.Int63n(max-min+1) + min
		}
	}

	return array.New(array.Int64, int(size), validity, values, nil, nil, int(nullCount), 0)
}

func (r *RandomArrayGenerator) Uint64(size int64, min, max uint64, prob float64) *array.Array {
	validity, values, nullCount := r.baseGenPrimitive(size, prob, 8)
	defer validity.Release()
	defer values.Release()

	r.extra++
	dist := rand.New(rand.NewSource(r.seed + r.extra))
	out := castTo[uint64](values.Bytes(), int(size))
	if max == math.MaxUint64 {
		for i := int64(0); i < size; i++ {
			out[i] = dist.Uint64() + min
		}
	} else {
		for i := int64(0); i < size; i++ {
			out[i] = dist.Uint64n(max-min+1) + min
		}
	}

	return array.New(array.Uint64, int(size), validity, values, nil, nil, int(nullCount), 0)
}

func (r *RandomArrayGenerator) String(size int64, minLength, maxLength int, nullProb float64) *array.Array {
	return r.genBinary(array.String, size, minLength, maxLength, nullProb)
}

func (r *RandomArrayGenerator) LargeString(size int64, minLength, maxLength int, nullProb float64) *array.Array {
	return r.genBinary(array.LargeString, size, minLength, maxLength, nullProb)
}

func (r *RandomArrayGenerator) genBinary(dt array.DataType, size int64, minLength, maxLength int, nullProb float64) *array.Array {
	lengths := r.Int32(size, int32(minLength), int32(maxLength), nullProb)
	defer lengths.Release()

	r.extra++
	dist := rand.New(rand.NewSource(r.seed + r.extra))

	buf := make([]byte, maxLength)
	gen := func(n int32) string {
		out := buf[:n]
		for i := range out {
			out[i] = uint8(dist.Int31n(int32('z')-int32('A')+1) + int32('A'))
		}
		return string(out)
	}

	strs := make([]string, size)
	valid := make([]bool, size)
	lens := array.FixedWidthValues[int32](lengths)
	for i := range strs {
		if lengths.IsValid(i) {
			strs[i] = gen(lens[i])
			valid[i] = true
		}
	}

	if dt.OffsetWidth == 8 {
		return array.FromLargeStrings(strs, valid, r.mem)
	}
	return array.FromStrings(strs, valid, r.mem)
}

// ListOf generates a list array whose element sizes are uniform in [0, 8)
// and whose child values are generated by ArrayOf.
func (r *RandomArrayGenerator) ListOf(elem array.DataType, size int64, nullProb float64) *array.Array {
	lengths := r.Int32(size, 0, 7, nullProb)
	defer lengths.Release()

	offsets := make([]int32, size+1)
	valid := make([]bool, size)
	lens := array.FixedWidthValues[int32](lengths)
	total := int32(0)
	for i := int64(0); i < size; i++ {
		if lengths.IsValid(int(i)) {
			total += lens[i]
			valid[i] = true
		}
		offsets[i+1] = total
	}

	child := r.ArrayOf(elem, int64(total), nullProb)
	defer child.Release()
	return array.NewList(offsets, child, valid, r.mem)
}

// ArrayOf generates a random array of the requested type, null probability
// and size. Value distributions use the full range of the type.
func (r *RandomArrayGenerator) ArrayOf(dt array.DataType, size int64, nullProb float64) *array.Array {
	switch dt.Kind {
	case array.BOOL:
		return r.Boolean(size, 0.50, nullProb)
	case array.FIXED_WIDTH:
		switch dt.ByteWidth {
		case 4:
			return r.Uint32(size, 0, math.MaxUint32, nullProb)
		case 8:
			return r.Uint64(size, 0, math.MaxUint64, nullProb)
		}
	case array.BINARY:
		return r.genBinary(dt, size, 0, 20, nullProb)
	case array.LIST:
		return r.ListOf(*dt.Elem, size, nullProb)
	}
	panic("gen: unsupported type " + dt.String())
}

func castTo[T int32 | uint32 | int64 | uint64](b []byte, n int) []T {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}
