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

package coap

import (
	"encoding/binary"
	"fmt"
)

type (
	Method uint8
	Code   uint8
	Type   uint8
)

const (
	kVersion           uint8 = 1
	kFixedHeaderSize         = 4
	kMaxTokenLength          = 8
	kOptionUriPath           = 11
	kPayloadMarker     uint8 = 0xFF
	kOptionExtOneByte  uint8 = 13
	kOptionExtTwoBytes uint8 = 14
	kOptionReserved    uint8 = 15
	kExtOneByteBias          = 13
	kExtTwoBytesBias         = 269
	kPathSeparator           = '/'
)

const (
	TypeConfirmable    Type = 0
	TypeNonConfirmable Type = 1
	TypeAck            Type = 2
	TypeReset          Type = 3
)

// The recognized method set: the four conventional mutators plus Fetch,
// the bulk read used for whole configuration subtrees.
const (
	MethodGet    Method = 1
	MethodPost   Method = 2
	MethodPut    Method = 3
	MethodDelete Method = 4
	MethodFetch  Method = 5
)

// Response codes are class.detail bytes: class in the top three bits,
// detail in the bottom five.
const (
	CodeEmpty        Code = 0
	CodeCreated      Code = 2<<5 | 1
	CodeDeleted      Code = 2<<5 | 2
	CodeValid        Code = 2<<5 | 3
	CodeChanged      Code = 2<<5 | 4
	CodeContent      Code = 2<<5 | 5
	CodeBadRequest   Code = 4 << 5
	CodeUnauthorized Code = 4<<5 | 1
	CodeBadOption    Code = 4<<5 | 2
	CodeNotFound     Code = 4<<5 | 4
	CodeNotAllowed   Code = 4<<5 | 5
	CodeInternalErr  Code = 5 << 5
	CodeNotImpl      Code = 5<<5 | 1
)

var (
	EncByteOrder = binary.BigEndian
)

var methodNameMap = map[Method]string{
	MethodGet:    "Get",
	MethodPost:   "Post",
	MethodPut:    "Put",
	MethodDelete: "Delete",
	MethodFetch:  "Fetch",
}

var codeNameMap = map[Code]string{
	CodeEmpty:        "Empty",
	CodeCreated:      "Created",
	CodeDeleted:      "Deleted",
	CodeValid:        "Valid",
	CodeChanged:      "Changed",
	CodeContent:      "Content",
	CodeBadRequest:   "BadRequest",
	CodeUnauthorized: "Unauthorized",
	CodeBadOption:    "BadOption",
	CodeNotFound:     "NotFound",
	CodeNotAllowed:   "MethodNotAllowed",
	CodeInternalErr:  "InternalServerError",
	CodeNotImpl:      "NotImplemented",
}

func (m Method) String() string {
	if name, ok := methodNameMap[m]; ok {
		return name
	}
	return "UnknownMethod"
}

func (m Method) isValid() bool {
	_, ok := methodNameMap[m]
	return ok
}

func (c Code) Class() uint8 {
	return uint8(c) >> 5
}

func (c Code) Detail() uint8 {
	return uint8(c) & 0x1F
}

// IsRequest reports whether the code byte carries a request method.
func (c Code) IsRequest() bool {
	return c.Class() == 0 && c != CodeEmpty
}

func (c Code) IsSuccess() bool {
	return c.Class() == 2
}

func (c Code) String() string {
	if c.IsRequest() {
		return Method(c).String()
	}
	if name, ok := codeNameMap[c]; ok {
		return fmt.Sprintf("%d.%02d %s", c.Class(), c.Detail(), name)
	}
	return fmt.Sprintf("%d.%02d", c.Class(), c.Detail())
}

type ProtocolError struct {
	what string
}

func (e *ProtocolError) Error() string {
	return "ProtocolError: " + e.what
}

var (
	ErrTruncatedMessage = &ProtocolError{"truncated message"}
	ErrUnknownMethod    = &ProtocolError{"unknown method code"}
	ErrUnknownOption    = &ProtocolError{"unknown option number"}
	ErrUnknownVersion   = &ProtocolError{"unknown protocol version"}
	ErrInvalidToken     = &ProtocolError{"invalid token length"}
)
