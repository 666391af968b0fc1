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

// IfElse selects between left and right element-wise: where cond is true the
// output takes left, where false it takes right, and where cond is null the
// output is null. Scalar arguments broadcast against the array arguments; left
// and right must share a type and all arrays must share a length.
func IfElse(mem memory.Allocator, cond, left, right Datum) (*array.Array, error) {
	arrs, done, err := materializeArgs(mem, []Datum{cond, left, right}, -1)
	if err != nil {
		return nil, err
	}
	defer done()

	cnd, lhs, rhs := arrs[0], arrs[1], arrs[2]
	if cnd.DataType().Kind != array.BOOL {
		return nil, xerrors.Errorf("%w: condition must be boolean, got %s", ErrTypeMismatch, cnd.DataType())
	}
	if err := sameType(arrs[1:]); err != nil {
		return nil, err
	}

	em := newEmitter(mem, lhs.DataType(), cnd.Len())
	if !cnd.HasNulls() {
		emitSelect(em, cnd, lhs, rhs, 0, cnd.Len())
		return em.finish()
	}

	// A null condition element yields a null output element; the valid runs
	// between nulls still get the branch-run treatment.
	counter := bitutils.NewOptionalBitBlockCounter(cnd.ValidityBytes(), int64(cnd.Offset()), int64(cnd.Len()))
	for pos := 0; pos < cnd.Len(); {
		block := counter.NextWord()
		switch {
		case block.AllSet():
			emitSelect(em, cnd, lhs, rhs, pos, int(block.Len))
		case block.NoneSet():
			for i := 0; i < int(block.Len); i++ {
				em.emitNull()
			}
		default:
			for i := 0; i < int(block.Len); i++ {
				switch {
				case cnd.IsNull(pos + i):
					em.emitNull()
				case cnd.BoolValue(pos + i):
					em.emit(lhs, pos+i, 1)
				default:
					em.emit(rhs, pos+i, 1)
				}
			}
		}
		pos += int(block.Len)
	}
	return em.finish()
}

// emitSelect emits [start, start+n) taking lhs where the condition bit is set
// and rhs where it is clear. Every condition element in the range must be
// valid.
func emitSelect(em emitter, cnd, lhs, rhs *array.Array, start, n int) {
	pos := start
	bitutils.VisitSetBitRuns(cnd.ValuesBytes(), int64(cnd.Offset()+start), int64(n),
		func(runStart, runLen int64) error {
			if gap := start + int(runStart) - pos; gap > 0 {
				em.emit(rhs, pos, gap)
			}
			em.emit(lhs, start+int(runStart), int(runLen))
			pos = start + int(runStart+runLen)
			return nil
		})
	if pos < start+n {
		em.emit(rhs, pos, start+n-pos)
	}
}
