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
	"fmt"

	"github.com/columnkit/columnkit/array"
	"github.com/columnkit/columnkit/memory"
	"github.com/columnkit/columnkit/scalar"
	"golang.org/x/xerrors"
)

// Datum is a kernel argument: either a columnar array or a scalar which
// broadcasts to every logical position.
type Datum interface {
	isDatum()
}

// ArrayDatum wraps an array argument.
type ArrayDatum struct {
	Arr *array.Array
}

// ScalarDatum wraps a scalar argument.
type ScalarDatum struct {
	Val scalar.Scalar
}

func (ArrayDatum) isDatum()  {}
func (ScalarDatum) isDatum() {}

// NewDatum wraps an *array.Array or a scalar.Scalar as a Datum.
func NewDatum(v interface{}) Datum {
	switch v := v.(type) {
	case Datum:
		return v
	case *array.Array:
		return ArrayDatum{Arr: v}
	case scalar.Scalar:
		return ScalarDatum{Val: v}
	}
	panic(fmt.Sprintf("compute: invalid datum value of type %T", v))
}

// materializeArgs resolves datums to arrays of a single broadcast length.
// Scalars are broadcast via scalar.MakeArrayFromScalar; the returned release
// function frees the materialized arrays once the kernel is done with them.
//
// length < 0 means the broadcast length is inferred from the first array
// argument; at least one array argument is then required.
func materializeArgs(mem memory.Allocator, args []Datum, length int) ([]*array.Array, func(), error) {
	if length < 0 {
		for _, arg := range args {
			if a, ok := arg.(ArrayDatum); ok {
				length = a.Arr.Len()
				break
			}
		}
		if length < 0 {
			return nil, nil, xerrors.Errorf("%w: at least one array argument is required", ErrShapeMismatch)
		}
	}

	arrs := make([]*array.Array, len(args))
	var owned []*array.Array
	release := func() {
		for _, a := range owned {
			a.Release()
		}
	}

	for i, arg := range args {
		switch arg := arg.(type) {
		case ArrayDatum:
			if arg.Arr.Len() != length {
				release()
				return nil, nil, xerrors.Errorf("%w: argument %d has length %d, expected %d",
					ErrShapeMismatch, i, arg.Arr.Len(), length)
			}
			arrs[i] = arg.Arr
		case ScalarDatum:
			a, err := scalar.MakeArrayFromScalar(arg.Val, length, mem)
			if err != nil {
				release()
				return nil, nil, err
			}
			owned = append(owned, a)
			arrs[i] = a
		}
	}
	return arrs, release, nil
}

// sameType verifies that all arrays share one element type.
func sameType(arrs []*array.Array) error {
	dt := arrs[0].DataType()
	for i, a := range arrs[1:] {
		if !array.TypeEqual(a.DataType(), dt) {
			return xerrors.Errorf("%w: argument %d is %s, expected %s",
				ErrTypeMismatch, i+1, a.DataType(), dt)
		}
	}
	return nil
}
