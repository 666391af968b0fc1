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

package gen_test

import (
	"testing"

	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/internal/testing/gen"
	"github.com/columnkit/columnkit/memory"
	"github.com/stretchr/testify/assert"
)

func TestGeneratorDeterminism(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	g1 := gen.NewRandomArrayGenerator(7, mem)
	g2 := gen.NewRandomArrayGenerator(7, mem)

	a := g1.Int64(1000, -50, 50, 0.2)
	defer a.Release()
	b := g2.Int64(1000, -50, 50, 0.2)
	defer b.Release()

	assert.True(t, array.Equal(a, b))
}

func TestGeneratorNullFraction(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	g := gen.NewRandomArrayGenerator(11, mem)

	arr := g.Uint64(10000, 0, 100, 0.25)
	defer arr.Release()
	frac := float64(arr.NullN()) / float64(arr.Len())
	assert.InDelta(t, 0.25, frac, 0.05)

	noNulls := g.Uint64(1000, 0, 100, 0)
	defer noNulls.Release()
	assert.Zero(t, noNulls.NullN())
}

func TestGeneratorValueRange(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	g := gen.NewRandomArrayGenerator(3, mem)

	arr := g.Int64(5000, -7, 9, 0)
	defer arr.Release()
	for _, v := range array.FixedWidthValues[int64](arr) {
		assert.GreaterOrEqual(t, v, int64(-7))
		assert.LessOrEqual(t, v, int64(9))
	}
}

func TestArrayOfKinds(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	g := gen.NewRandomArrayGenerator(5, mem)

	for _, dt := range []array.DataType{
		array.Boolean,
		array.Uint32,
		array.Uint64,
		array.String,
		array.LargeString,
		array.ListOf(array.Int64),
	} {
		a := g.ArrayOf(dt, 256, 0.1)
		assert.Equal(t, 256, a.Len(), dt.String())
		assert.True(t, array.TypeEqual(dt, a.DataType()), dt.String())
		a.Release()
	}
}
