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

package array

import "bytes"

// Equal reports whether two arrays have the same type, length and
// element-for-element values and validity. Null element positions are
// compared by validity only; their backing bytes are ignored.
func Equal(left, right *Array) bool {
	if !TypeEqual(left.DataType(), right.DataType()) || left.Len() != right.Len() {
		return false
	}

	for i := 0; i < left.Len(); i++ {
		if left.IsValid(i) != right.IsValid(i) {
			return false
		}
		if left.IsNull(i) {
			continue
		}

		switch left.DataType().Kind {
		case BOOL:
			if left.BoolValue(i) != right.BoolValue(i) {
				return false
			}
		case FIXED_WIDTH:
			if !bytes.Equal(left.ValueBytes(i), right.ValueBytes(i)) {
				return false
			}
		case BINARY:
			if !bytes.Equal(left.BinaryValue(i), right.BinaryValue(i)) {
				return false
			}
		case LIST:
			l, r := left.ListValue(i), right.ListValue(i)
			eq := Equal(l, r)
			l.Release()
			r.Release()
			if !eq {
				return false
			}
		}
	}
	return true
}
