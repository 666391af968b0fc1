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

package compute_test

import (
	"testing"

	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/compute"
	"github.com/columnkit/columnkit/internal/testing/gen"
	"github.com/columnkit/columnkit/memory"
	"github.com/columnkit/columnkit/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIfElseBasic(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{true, false, false}, []bool{true, true, false}, mem)
	defer cond.Release()
	left := array.FromSlice([]int64{1, 2, 3}, nil, mem)
	defer left.Release()
	right := array.FromSlice([]int64{10, 20, 30}, nil, mem)
	defer right.Release()

	out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromSlice([]int64{1, 20, 0}, []bool{true, true, false}, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestIfElseBranchNullsPropagate(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{true, true, false, false}, nil, mem)
	defer cond.Release()
	left := array.FromSlice([]int64{1, 2, 3, 4}, []bool{true, false, true, true}, mem)
	defer left.Release()
	right := array.FromSlice([]int64{10, 20, 30, 40}, []bool{true, true, true, false}, mem)
	defer right.Release()

	out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromSlice([]int64{1, 0, 30, 0}, []bool{true, false, true, false}, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestIfElseBool(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{true, false, true}, []bool{true, true, false}, mem)
	defer cond.Release()
	left := array.FromBools([]bool{true, true, true}, nil, mem)
	defer left.Release()
	right := array.FromBools([]bool{false, false, false}, nil, mem)
	defer right.Release()

	out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromBools([]bool{true, false, false}, []bool{true, true, false}, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestIfElseString(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{false, true, false, true}, []bool{true, true, false, true}, mem)
	defer cond.Release()
	left := array.FromStrings([]string{"a", "bb", "ccc", ""}, nil, mem)
	defer left.Release()
	right := array.FromStrings([]string{"xxxx", "yy", "z", "w"}, []bool{true, true, true, true}, mem)
	defer right.Release()

	out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromStrings([]string{"xxxx", "bb", "", ""}, []bool{true, true, false, true}, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestIfElseList(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{true, false, true}, []bool{true, true, false}, mem)
	defer cond.Release()
	left := array.FromInt64Lists([][]int64{{1, 2}, {3}, {4, 5, 6}}, nil, mem)
	defer left.Release()
	right := array.FromInt64Lists([][]int64{{9}, nil, {8, 8}}, []bool{true, false, true}, mem)
	defer right.Release()

	out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromInt64Lists([][]int64{{1, 2}, nil, nil}, []bool{true, false, false}, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestIfElseScalarBroadcast(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{true, false, true}, nil, mem)
	defer cond.Release()

	out, err := compute.IfElse(mem, arr(cond),
		compute.NewDatum(scalar.NewInt64Scalar(7)),
		compute.NewDatum(scalar.NewInt64Scalar(-7)))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromSlice([]int64{7, -7, 7}, nil, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)

	// scalar condition against array branches
	left := array.FromSlice([]int64{1, 2, 3}, nil, mem)
	defer left.Release()
	right := array.FromSlice([]int64{4, 5, 6}, nil, mem)
	defer right.Release()

	out2, err := compute.IfElse(mem, compute.NewDatum(scalar.NewBoolScalar(false)), arr(left), arr(right))
	require.NoError(t, err)
	defer out2.Release()
	assertArraysEqual(t, right, out2)
}

func TestIfElseSlicedInputs(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	// identical logical content behind different physical offsets
	for _, pad := range []int{0, 3, 99} {
		cond := paddedBools(t, mem, pad, []bool{true, false, true, true}, []bool{true, true, true, false})
		left := paddedInt64(t, mem, pad, []int64{1, 2, 3, 4}, nil)
		right := paddedInt64(t, mem, pad, []int64{10, 20, 30, 40}, []bool{true, false, true, true})

		out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
		require.NoError(t, err)

		want := array.FromSlice([]int64{1, 0, 3, 0}, []bool{true, false, true, false}, mem)
		assertArraysEqual(t, want, out)

		want.Release()
		out.Release()
		cond.Release()
		left.Release()
		right.Release()
	}
}

func TestIfElseContiguousVsScattered(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	const n = 4096
	rng := gen.NewRandomArrayGenerator(42, mem)

	left := rng.Int64(n, -1000, 1000, 0.1)
	defer left.Release()
	right := rng.Int64(n, -1000, 1000, 0.1)
	defer right.Release()

	// one contiguous run of trues followed by falses
	trues, err := scalar.MakeArrayFromScalar(scalar.NewBoolScalar(true), n/2, mem)
	require.NoError(t, err)
	defer trues.Release()
	falses, err := scalar.MakeArrayFromScalar(scalar.NewBoolScalar(false), n-n/2, mem)
	require.NoError(t, err)
	defer falses.Release()
	contig, err := array.Concatenate([]*array.Array{trues, falses}, mem)
	require.NoError(t, err)
	defer contig.Release()

	outContig, err := compute.IfElse(mem, arr(contig), arr(left), arr(right))
	require.NoError(t, err)
	defer outContig.Release()

	// per-element reference over the same condition
	lv := array.FixedWidthValues[int64](left)
	rv := array.FixedWidthValues[int64](right)
	wantVals := make([]int64, n)
	wantValid := make([]bool, n)
	for i := 0; i < n; i++ {
		if contig.BoolValue(i) {
			wantValid[i] = left.IsValid(i)
			if wantValid[i] {
				wantVals[i] = lv[i]
			}
		} else {
			wantValid[i] = right.IsValid(i)
			if wantValid[i] {
				wantVals[i] = rv[i]
			}
		}
	}
	want := array.FromSlice(wantVals, wantValid, mem)
	defer want.Release()
	assertArraysEqual(t, want, outContig)

	// a scattered condition with the same per-element semantics
	scattered := rng.Boolean(n, 0.5, 0.0)
	defer scattered.Release()

	outScattered, err := compute.IfElse(mem, arr(scattered), arr(left), arr(right))
	require.NoError(t, err)
	defer outScattered.Release()

	for i := 0; i < n; i++ {
		var wantValidI bool
		var wantVal int64
		if scattered.BoolValue(i) {
			wantValidI = left.IsValid(i)
			wantVal = lv[i]
		} else {
			wantValidI = right.IsValid(i)
			wantVal = rv[i]
		}
		require.Equal(t, wantValidI, outScattered.IsValid(i), "position %d", i)
		if wantValidI {
			require.Equal(t, wantVal, array.FixedWidthValues[int64](outScattered)[i], "position %d", i)
		}
	}
}

func TestIfElseZeroLength(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools(nil, nil, mem)
	defer cond.Release()
	left := array.FromSlice([]int64{}, nil, mem)
	defer left.Release()
	right := array.FromSlice([]int64{}, nil, mem)
	defer right.Release()

	out, err := compute.IfElse(mem, arr(cond), arr(left), arr(right))
	require.NoError(t, err)
	defer out.Release()
	assert.Zero(t, out.Len())
	assert.Zero(t, out.NullN())
}

func TestIfElseErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	cond := array.FromBools([]bool{true, false}, nil, mem)
	defer cond.Release()
	i64 := array.FromSlice([]int64{1, 2}, nil, mem)
	defer i64.Release()
	i32 := array.FromSlice([]int32{1, 2}, nil, mem)
	defer i32.Release()
	short := array.FromSlice([]int64{1}, nil, mem)
	defer short.Release()

	_, err := compute.IfElse(mem, arr(cond), arr(i64), arr(i32))
	assert.ErrorIs(t, err, compute.ErrTypeMismatch)

	_, err = compute.IfElse(mem, arr(i64), arr(i64), arr(i64))
	assert.ErrorIs(t, err, compute.ErrTypeMismatch)

	_, err = compute.IfElse(mem, arr(cond), arr(i64), arr(short))
	assert.ErrorIs(t, err, compute.ErrShapeMismatch)

	// all-scalar calls have no broadcast length
	_, err = compute.IfElse(mem,
		compute.NewDatum(scalar.NewBoolScalar(true)),
		compute.NewDatum(scalar.NewInt64Scalar(1)),
		compute.NewDatum(scalar.NewInt64Scalar(2)))
	assert.ErrorIs(t, err, compute.ErrShapeMismatch)
}
