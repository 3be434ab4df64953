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

// Decode parses one message from buf. The target path is rebuilt by
// walking options until the body marker or end-of-buffer; an absent marker
// means "no body", not an error.
func Decode(buf []byte) (m *Message, err error) {
	if len(buf) < kFixedHeaderSize {
		return nil, ErrTruncatedMessage
	}
	if buf[0]>>6 != kVersion {
		return nil, ErrUnknownVersion
	}
	tkl := int(buf[0] & 0x0F)
	if tkl > kMaxTokenLength {
		return nil, ErrInvalidToken
	}

	m = &Message{
		typ:       Type(buf[0] >> 4 & 0x3),
		code:      Code(buf[1]),
		messageID: EncByteOrder.Uint16(buf[2:4]),
	}
	if m.code.IsRequest() && !Method(m.code).isValid() {
		return nil, ErrUnknownMethod
	}

	off := kFixedHeaderSize
	if len(buf) < off+tkl {
		return nil, ErrTruncatedMessage
	}
	if tkl > 0 {
		m.token = make([]byte, tkl)
		copy(m.token, buf[off:off+tkl])
		off += tkl
	}

	var segments []string
	optNum := 0
	for off < len(buf) && buf[off] != kPayloadMarker {
		var delta, length int
		if delta, length, off, err = decodeOptionHeader(buf, off); err != nil {
			return nil, err
		}
		optNum += delta
		if optNum != kOptionUriPath {
			return nil, ErrUnknownOption
		}
		if len(buf) < off+length {
			return nil, ErrTruncatedMessage
		}
		segments = append(segments, string(buf[off:off+length]))
		off += length
	}
	if len(segments) > 0 {
		m.target = string(rune(kPathSeparator)) + strings.Join(segments, string(rune(kPathSeparator)))
	}

	if off < len(buf) {
		// payload marker followed by the body, verbatim to end-of-message
		off++
		if off == len(buf) {
			return nil, ErrTruncatedMessage
		}
		m.body = make([]byte, len(buf)-off)
		copy(m.body, buf[off:])
	}
	return
}

func decodeOptionHeader(buf []byte, off int) (delta int, length int, newOff int, err error) {
	b := buf[off]
	off++
	dn := b >> 4
	ln := b & 0x0F
	if dn == kOptionReserved || ln == kOptionReserved {
		err = ErrUnknownOption
		return
	}
	if delta, off, err = decodeOptionExt(buf, off, dn); err != nil {
		return
	}
	if length, off, err = decodeOptionExt(buf, off, ln); err != nil {
		return
	}
	newOff = off
	return
}

func decodeOptionExt(buf []byte, off int, nibble uint8) (v int, newOff int, err error) {
	switch nibble {
	case kOptionExtOneByte:
		if len(buf) < off+1 {
			return 0, off, ErrTruncatedMessage
		}
		return int(buf[off]) + kExtOneByteBias, off + 1, nil
	case kOptionExtTwoBytes:
		if len(buf) < off+2 {
			return 0, off, ErrTruncatedMessage
		}
		return int(EncByteOrder.Uint16(buf[off:off+2])) + kExtTwoBytesBias, off + 2, nil
	}
	return int(nibble), off, nil
}
