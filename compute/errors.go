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

import "golang.org/x/xerrors"

// Kernel errors. All failures are synchronous and local to the invocation:
// no partial or degraded result is ever returned and the inputs are left
// untouched. Use errors.Is to classify a returned error.
var (
	// ErrShapeMismatch indicates two arguments disagree in logical length.
	ErrShapeMismatch = xerrors.New("compute: shape mismatch")
	// ErrTypeMismatch indicates arguments that must share an element type do not.
	ErrTypeMismatch = xerrors.New("compute: type mismatch")
	// ErrIndexOutOfRange indicates a non-null Choose index outside [0, N-1].
	ErrIndexOutOfRange = xerrors.New("compute: index out of range")
	// ErrEmptyArgumentList indicates a kernel was invoked with no data arguments.
	ErrEmptyArgumentList = xerrors.New("compute: empty argument list")
)
