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
	"strings"
)

// Encode serializes the message: fixed header, message id, token bytes,
// the target path as delta-encoded options one segment at a time, then a
// marker byte plus the raw body when a body is present.
func (m *Message) Encode() (buf []byte, err error) {
	if len(m.token) > kMaxTokenLength {
		return nil, ErrInvalidToken
	}
	if m.code.IsRequest() && !Method(m.code).isValid() {
		return nil, ErrUnknownMethod
	}

	buf = make([]byte, 0, kFixedHeaderSize+len(m.token)+len(m.target)+len(m.body)+8)
	buf = append(buf, kVersion<<6|uint8(m.typ)<<4|uint8(len(m.token)))
	buf = append(buf, uint8(m.code))
	var id [2]byte
	EncByteOrder.PutUint16(id[:], m.messageID)
	buf = append(buf, id[:]...)
	buf = append(buf, m.token...)

	prev := 0
	for _, segment := range splitTarget(m.target) {
		delta := kOptionUriPath - prev
		buf = appendOption(buf, delta, segment)
		prev = kOptionUriPath
	}

	if m.HasBody() {
		buf = append(buf, kPayloadMarker)
		buf = append(buf, m.body...)
	}
	return
}

func splitTarget(target string) (segments []string) {
	for _, s := range strings.Split(target, string(rune(kPathSeparator))) {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return
}

// appendOption emits one option with nibble-encoded delta and length,
// using the one- and two-byte extension forms for long values.
func appendOption(buf []byte, delta int, value string) []byte {
	dn, dext := optionNibble(delta)
	ln, lext := optionNibble(len(value))
	buf = append(buf, uint8(dn)<<4|uint8(ln))
	buf = appendOptionExt(buf, dn, dext)
	buf = appendOptionExt(buf, ln, lext)
	buf = append(buf, value...)
	return buf
}

func optionNibble(v int) (nibble int, ext int) {
	switch {
	case v < kExtOneByteBias:
		return v, 0
	case v < kExtTwoBytesBias:
		return int(kOptionExtOneByte), v - kExtOneByteBias
	default:
		return int(kOptionExtTwoBytes), v - kExtTwoBytesBias
	}
}

func appendOptionExt(buf []byte, nibble int, ext int) []byte {
	switch uint8(nibble) {
	case kOptionExtOneByte:
		buf = append(buf, uint8(ext))
	case kOptionExtTwoBytes:
		var b [2]byte
		EncByteOrder.PutUint16(b[:], uint16(ext))
		buf = append(buf, b[:]...)
	}
	return buf
}
