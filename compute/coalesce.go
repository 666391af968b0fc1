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
	"github.com/columnkit/columnkit/internal/bitutils"
	"github.com/columnkit/columnkit/memory"
	"golang.org/x/xerrors"
)

// Coalesce returns the first non-null value across the arguments at each
// position. An output element is null only when every argument is null there.
func Coalesce(mem memory.Allocator, args ...Datum) (*array.Array, error) {
	if len(args) == 0 {
		return nil, xerrors.Errorf("%w: coalesce requires at least one argument", ErrEmptyArgumentList)
	}

	arrs, done, err := materializeArgs(mem, args, -1)
	if err != nil {
		return nil, err
	}
	defer done()
	if err := sameType(arrs); err != nil {
		return nil, err
	}

	first := arrs[0]
	if !first.HasNulls() {
		// Entirely valid first argument shadows the rest; share its buffers.
		return first.Slice(0, first.Len()), nil
	}

	em := newEmitter(mem, first.DataType(), first.Len())
	// Runs of valid leading elements pass through wholesale; the holes fall
	// back to the later arguments one element at a time.
	pos := 0
	bitutils.VisitSetBitRuns(first.ValidityBytes(), int64(first.Offset()), int64(first.Len()),
		func(start, length int64) error {
			for ; pos < int(start); pos++ {
				coalesceOne(em, arrs, pos)
			}
			em.emit(first, int(start), int(length))
			pos = int(start + length)
			return nil
		})
	for ; pos < first.Len(); pos++ {
		coalesceOne(em, arrs, pos)
	}
	return em.finish()
}

func coalesceOne(em emitter, arrs []*array.Array, i int) {
	for _, a := range arrs[1:] {
		if a.IsValid(i) {
			em.emit(a, i, 1)
			return
		}
	}
	em.emitNull()
}
