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
	"sync"
	"testing"

	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/compute"
	"github.com/columnkit/columnkit/memory"
	"github.com/columnkit/columnkit/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoalesceBasic(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a := array.FromSlice([]int64{1, 2, 3, 4}, []bool{true, false, false, false}, mem)
	defer a.Release()
	b := array.FromSlice([]int64{10, 20, 30, 40}, []bool{true, true, false, false}, mem)
	defer b.Release()
	c := array.FromSlice([]int64{100, 200, 300, 400}, []bool{true, true, true, false}, mem)
	defer c.Release()

	out, err := compute.Coalesce(mem, arr(a), arr(b), arr(c))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromSlice([]int64{1, 20, 300, 0}, []bool{true, true, true, false}, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestCoalesceIdentity(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a := array.FromSlice([]int64{1, 2, 3}, nil, mem)
	defer a.Release()
	b := array.FromSlice([]int64{7, 8, 9}, nil, mem)
	defer b.Release()

	// a null-free first argument shadows everything behind it
	out, err := compute.Coalesce(mem, arr(a), arr(b))
	require.NoError(t, err)
	defer out.Release()
	assertArraysEqual(t, a, out)

	// single argument passes through, nulls and all
	single := array.FromSlice([]int64{5, 6}, []bool{false, true}, mem)
	defer single.Release()
	out2, err := compute.Coalesce(mem, arr(single))
	require.NoError(t, err)
	defer out2.Release()
	assertArraysEqual(t, single, out2)
}

func TestCoalesceAllNull(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a := array.FromSlice([]int64{0, 0}, []bool{false, false}, mem)
	defer a.Release()
	b := array.FromSlice([]int64{0, 0}, []bool{false, false}, mem)
	defer b.Release()

	out, err := compute.Coalesce(mem, arr(a), arr(b))
	require.NoError(t, err)
	defer out.Release()

	assert.Equal(t, 2, out.NullN())
}

func TestCoalesceStrings(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a := array.FromStrings([]string{"x", "", "z"}, []bool{true, false, false}, mem)
	defer a.Release()

	out, err := compute.Coalesce(mem, arr(a), compute.NewDatum(scalar.NewStringScalar("fallback")))
	require.NoError(t, err)
	defer out.Release()

	want := array.FromStrings([]string{"x", "fallback", "fallback"}, nil, mem)
	defer want.Release()
	assertArraysEqual(t, want, out)
}

func TestCoalesceSlicedInputs(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	// identical logical content behind different physical offsets
	for _, pad := range []int{0, 3, 99} {
		a := paddedInt64(t, mem, pad, []int64{1, 2, 3, 4}, []bool{true, false, false, false})
		b := paddedInt64(t, mem, pad, []int64{10, 20, 30, 40}, []bool{true, true, false, false})

		out, err := compute.Coalesce(mem, arr(a), arr(b))
		require.NoError(t, err)

		want := array.FromSlice([]int64{1, 20, 0, 0}, []bool{true, true, false, false}, mem)
		assertArraysEqual(t, want, out)

		want.Release()
		out.Release()
		a.Release()
		b.Release()
	}
}

func TestCoalesceZeroLength(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	a := array.FromSlice([]int64{}, nil, mem)
	defer a.Release()
	b := array.FromSlice([]int64{}, nil, mem)
	defer b.Release()

	out, err := compute.Coalesce(mem, arr(a), arr(b))
	require.NoError(t, err)
	defer out.Release()
	assert.Zero(t, out.Len())
	assert.Zero(t, out.NullN())
}

func TestCoalesceConcurrentSharedSlice(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	vals := make([]int64, 1000)
	valid := make([]bool, 1000)
	for i := range vals {
		vals[i] = int64(i)
		valid[i] = i%5 != 0
	}
	whole := array.FromSlice(vals, valid, mem)
	defer whole.Release()
	fallback := array.FromSlice(make([]int64, 900), nil, mem)
	defer fallback.Release()

	// the reference result comes from a separate, equivalent view so the
	// shared slice's lazy null count is first touched inside the goroutines
	ref := whole.Slice(7, 900)
	want, err := compute.Coalesce(mem, arr(ref), arr(fallback))
	ref.Release()
	require.NoError(t, err)
	defer want.Release()

	sl := whole.Slice(7, 900)
	defer sl.Release()

	var wg sync.WaitGroup
	outs := make([]*array.Array, 8)
	errs := make([]error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			outs[g], errs[g] = compute.Coalesce(mem, arr(sl), arr(fallback))
		}(g)
	}
	wg.Wait()

	for g := 0; g < 8; g++ {
		require.NoError(t, errs[g])
		assertArraysEqual(t, want, outs[g])
		outs[g].Release()
	}
}

func TestCoalesceErrors(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	_, err := compute.Coalesce(mem)
	assert.ErrorIs(t, err, compute.ErrEmptyArgumentList)

	a := array.FromSlice([]int64{1}, nil, mem)
	defer a.Release()
	b := array.FromStrings([]string{"s"}, nil, mem)
	defer b.Release()
	_, err = compute.Coalesce(mem, arr(a), arr(b))
	assert.ErrorIs(t, err, compute.ErrTypeMismatch)
}
