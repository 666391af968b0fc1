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
	"github.com/columnkit/columnkit/memory"
	"github.com/stretchr/testify/assert"
)

// arr wraps an array in a Datum without retaining it.
func arr(a *array.Array) compute.Datum { return compute.NewDatum(a) }

func assertArraysEqual(t *testing.T, want, got *array.Array) {
	t.Helper()
	assert.Truef(t, array.Equal(want, got), "want: %s\ngot:  %s", want, got)
}

// padded builds an array with junk elements on both sides and returns the
// logical window equivalent to vals/valid, exercising nonzero offsets.
func paddedInt64(t *testing.T, mem memory.Allocator, pad int, vals []int64, valid []bool) *array.Array {
	t.Helper()

	full := make([]int64, 0, len(vals)+2*pad)
	var fullValid []bool
	for i := 0; i < pad; i++ {
		full = append(full, -1)
		fullValid = append(fullValid, i%2 == 0)
	}
	full = append(full, vals...)
	if valid != nil {
		fullValid = append(fullValid, valid...)
	} else {
		for range vals {
			fullValid = append(fullValid, true)
		}
	}
	for i := 0; i < pad; i++ {
		full = append(full, -2)
		fullValid = append(fullValid, i%2 != 0)
	}

	whole := array.FromSlice(full, fullValid, mem)
	defer whole.Release()
	return whole.Slice(pad, len(vals))
}

func paddedBools(t *testing.T, mem memory.Allocator, pad int, vals []bool, valid []bool) *array.Array {
	t.Helper()

	full := make([]bool, 0, len(vals)+2*pad)
	var fullValid []bool
	for i := 0; i < pad; i++ {
		full = append(full, i%2 == 0)
		fullValid = append(fullValid, false)
	}
	full = append(full, vals...)
	if valid != nil {
		fullValid = append(fullValid, valid...)
	} else {
		for range vals {
			fullValid = append(fullValid, true)
		}
	}

	whole := array.FromBools(full, fullValid, mem)
	defer whole.Release()
	return whole.Slice(pad, len(vals))
}
