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
	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/xerrors"
)

// Choose dispatches on an int64 index column: output[i] = options[indices[i]],
// or null where the index is null. Every valid index is bounds checked; a
// single out-of-range index fails the whole call without partial results.
func Choose(mem memory.Allocator, indices Datum, options ...Datum) (*array.Array, error) {
	if len(options) == 0 {
		return nil, xerrors.Errorf("%w: choose requires at least one option", ErrEmptyArgumentList)
	}

	arrs, done, err := materializeArgs(mem, append([]Datum{indices}, options...), -1)
	if err != nil {
		return nil, err
	}
	defer done()

	idx, opts := arrs[0], arrs[1:]
	if dt := idx.DataType(); dt.Kind != array.FIXED_WIDTH || dt.ByteWidth != 8 {
		return nil, xerrors.Errorf("%w: choose indices must be 8-byte integers, got %s", ErrTypeMismatch, dt)
	}
	if err := sameType(opts); err != nil {
		return nil, err
	}

	vals := array.FixedWidthValues[int64](idx)
	em := newEmitter(mem, opts[0].DataType(), idx.Len())
	for i := 0; i < idx.Len(); i++ {
		if idx.IsNull(i) {
			em.emitNull()
			continue
		}
		v := vals[i]
		if v < 0 || v >= int64(len(opts)) {
			em.release()
			return nil, xerrors.Errorf("%w: index %d out of range [0, %d) at position %d",
				ErrIndexOutOfRange, v, len(opts), i)
		}
		em.emit(opts[int(v)], i, 1)
	}
	return em.finish()
}
