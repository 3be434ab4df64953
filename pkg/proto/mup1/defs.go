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

package mup1

type FrameType byte

// Link-layer frame types. Lowercase types originate at the host,
// uppercase at the device.
const (
	TypePing         FrameType = 'p'
	TypePong         FrameType = 'P'
	TypeAnnouncement FrameType = 'A'
	TypeRequest      FrameType = 'c'
	TypeResponse     FrameType = 'C'
	TypeTrace        FrameType = 'T'
)

const (
	kSOF byte = '>'
	kEOF byte = '<'
	kESC byte = '\\'
)

const (
	// kMaxPayloadSize bounds the unescaped payload of one frame.
	kMaxPayloadSize = 1024
	// kDesyncSpan is how many bytes may pass without a start marker
	// before the stream is reported as desynchronized.
	kDesyncSpan  = 512
	kChecksumLen = 4
)

var frameTypeNameMap = map[FrameType]string{
	TypePing:         "Ping",
	TypePong:         "Pong",
	TypeAnnouncement: "Announcement",
	TypeRequest:      "Request",
	TypeResponse:     "Response",
	TypeTrace:        "Trace",
}

func (t FrameType) String() string {
	if name, ok := frameTypeNameMap[t]; ok {
		return name
	}
	return "Unknown"
}

// Frame is one link-layer unit: a type tag and an opaque payload.
type Frame struct {
	typ     FrameType
	payload []byte
}

func NewFrame(typ FrameType, payload []byte) Frame {
	return Frame{typ: typ, payload: payload}
}

func (f Frame) Type() FrameType { return f.typ }

func (f Frame) Payload() []byte { return f.payload }

type FramingError struct {
	what string
}

func (e *FramingError) Error() string {
	return "FramingError: " + e.what
}

var (
	ErrChecksumMismatch = &FramingError{"checksum mismatch"}
	ErrProtocolDesync   = &FramingError{"no start marker in extended span"}
	ErrFrameTooLarge    = &FramingError{"frame payload exceeds maximum size"}
	ErrBadAnnouncement  = &FramingError{"malformed announcement payload"}
)
