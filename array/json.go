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

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// fixedValueUint64 returns fixed-width element i widened to uint64. With only
// the byte width known, values render as unsigned.
func (a *Array) fixedValueUint64(i int) uint64 {
	b := a.ValueBytes(i)
	switch a.dtype.ByteWidth {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}

func (a *Array) getOneForMarshal(i int) interface{} {
	if a.IsNull(i) {
		return nil
	}

	switch a.dtype.Kind {
	case BOOL:
		return a.BoolValue(i)
	case FIXED_WIDTH:
		return a.fixedValueUint64(i)
	case BINARY:
		return string(a.BinaryValue(i))
	case LIST:
		sub := a.ListValue(i)
		defer sub.Release()
		v, err := json.Marshal(sub)
		if err != nil {
			panic(err)
		}
		return json.RawMessage(v)
	}
	return nil
}

func (a *Array) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	buf.WriteByte('[')
	for i := 0; i < a.Len(); i++ {
		if i != 0 {
			buf.WriteByte(',')
		}
		if err := enc.Encode(a.getOneForMarshal(i)); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func (a *Array) String() string {
	o := new(strings.Builder)
	o.WriteString("[")
	for i := 0; i < a.Len(); i++ {
		if i > 0 {
			o.WriteString(" ")
		}
		if a.IsNull(i) {
			o.WriteString("(null)")
			continue
		}

		switch a.dtype.Kind {
		case BOOL:
			fmt.Fprintf(o, "%v", a.BoolValue(i))
		case FIXED_WIDTH:
			fmt.Fprintf(o, "%d", a.fixedValueUint64(i))
		case BINARY:
			fmt.Fprintf(o, "%q", a.BinaryValue(i))
		case LIST:
			sub := a.ListValue(i)
			fmt.Fprintf(o, "%v", sub)
			sub.Release()
		}
	}
	o.WriteString("]")
	return o.String()
}
