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

// BytesProcessed returns the logical byte footprint of the array for
// throughput accounting: the number of bytes a kernel touches when it reads
// or writes every logical element once.
//
// Bit-packed booleans count length/8 bytes, fixed-width primitives
// length*width, variable binary the offsets plus the value bytes spanned by
// the logical window, and lists delegate to the spanned window of their child
// values array.
func BytesProcessed(a *Array) int64 {
	switch a.DataType().Kind {
	case BOOL:
		return int64(a.Len() / 8)
	case FIXED_WIDTH:
		return int64(a.Len() * a.DataType().ByteWidth)
	case BINARY:
		first, last := valueSpan(a)
		return int64(a.Len()*a.DataType().OffsetWidth) + (last - first)
	case LIST:
		first, last := valueSpan(a)
		window := a.ListValues().Slice(int(first), int(last-first))
		defer window.Release()
		return BytesProcessed(window)
	}
	return 0
}
