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

// CaseWhen evaluates a multi-branch conditional: for each position the output
// takes the value of the first condition that is true. A null condition never
// selects its branch. When no condition matches, the output takes the optional
// else value (len(values) == len(conds)+1) or null (len(values) == len(conds)).
func CaseWhen(mem memory.Allocator, conds []*array.Array, values []Datum) (*array.Array, error) {
	if len(conds) == 0 {
		if len(values) == 1 {
			if ad, ok := values[0].(ArrayDatum); ok {
				// Degenerate case: the else branch is the whole result.
				return ad.Arr.Slice(0, ad.Arr.Len()), nil
			}
		}
		return nil, xerrors.Errorf("%w: case_when requires at least one condition", ErrEmptyArgumentList)
	}
	hasElse := len(values) == len(conds)+1
	if !hasElse && len(values) != len(conds) {
		return nil, xerrors.Errorf("%w: case_when got %d conditions but %d values",
			ErrShapeMismatch, len(conds), len(values))
	}

	length := conds[0].Len()
	for _, c := range conds {
		if c.DataType().Kind != array.BOOL {
			return nil, xerrors.Errorf("%w: conditions must be boolean, got %s", ErrTypeMismatch, c.DataType())
		}
		if c.Len() != length {
			return nil, xerrors.Errorf("%w: condition lengths differ: %d and %d",
				ErrShapeMismatch, length, c.Len())
		}
	}

	vals, done, err := materializeArgs(mem, values, length)
	if err != nil {
		return nil, err
	}
	defer done()
	if err := sameType(vals); err != nil {
		return nil, err
	}

	em := newEmitter(mem, vals[0].DataType(), length)
	for i := 0; i < length; i++ {
		taken := false
		for j, c := range conds {
			if c.IsValid(i) && c.BoolValue(i) {
				em.emit(vals[j], i, 1)
				taken = true
				break
			}
		}
		if taken {
			continue
		}
		if hasElse {
			em.emit(vals[len(vals)-1], i, 1)
		} else {
			em.emitNull()
		}
	}
	return em.finish()
}
