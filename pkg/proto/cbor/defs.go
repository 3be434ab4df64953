//
//  Copyright 2023 PayPal Inc.
//
//  Licensed to the Apache Software Foundation (ASF) under one or more
//  contributor license agreements.  See the NOTICE file distributed with
//  this work for additional information regarding copyright ownership.
//  The ASF licenses this file to You under the Apache License, Version 2.0
//  (the "License"); you may not use this file except in compliance with
//  the License.  You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.
//

package cbor

import (
	"encoding/binary"
)

// Major type classes. Only the subset the peer's configuration protocol
// uses is supported; 64-bit arguments, indefinite lengths and semantic
// tags are rejected on both paths.
const (
	kMajorUint   uint8 = 0
	kMajorNegInt uint8 = 1
	kMajorBytes  uint8 = 2
	kMajorText   uint8 = 3
	kMajorArray  uint8 = 4
	kMajorMap    uint8 = 5
	kMajorTag    uint8 = 6
	kMajorSimple uint8 = 7
)

const (
	kMaxInlineArg  uint8 = 23
	kArgOneByte    uint8 = 24
	kArgTwoBytes   uint8 = 25
	kArgFourBytes  uint8 = 26
	kArgEightByte  uint8 = 27
	kArgIndefinite uint8 = 31
)

const (
	kSimpleFalse     uint8 = 20
	kSimpleTrue      uint8 = 21
	kSimpleNull      uint8 = 22
	kSimpleUndefined uint8 = 23
	kSimpleFloat64   uint8 = 27
)

// Largest integer magnitude the four defined widths can carry.
const kMaxIntArg = uint64(0xFFFFFFFF)

var (
	EncByteOrder = binary.BigEndian
)

type CodecError struct {
	what string
}

func (e *CodecError) Error() string {
	return "CodecError: " + e.what
}

var (
	ErrMalformedValue  = &CodecError{"malformed value"}
	ErrValueOutOfRange = &CodecError{"integer magnitude needs more than 32 bits"}
)
