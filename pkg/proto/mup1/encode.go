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

// Encode wraps payload into one wire frame: start marker, type byte,
// byte-stuffed payload, end marker (doubled when the unescaped payload
// length is even, which keeps the checksummed span word-aligned), and the
// 4-hex-digit checksum.
func Encode(typ FrameType, payload []byte) (buf []byte, err error) {
	if len(payload) > kMaxPayloadSize {
		return nil, ErrFrameTooLarge
	}
	buf = make([]byte, 0, len(payload)+len(payload)/8+8)
	buf = append(buf, kSOF, byte(typ))
	for _, c := range payload {
		if c == kSOF || c == kEOF || c == kESC {
			buf = append(buf, kESC)
		}
		buf = append(buf, c)
	}
	buf = append(buf, kEOF)
	if len(payload)%2 == 0 {
		buf = append(buf, kEOF)
	}
	buf = appendChecksumHex(buf, checksum(buf))
	return
}

// EncodePing builds the zero-payload discovery ping, ">p<<8553" on the
// wire.
func EncodePing() []byte {
	buf, _ := Encode(TypePing, nil)
	return buf
}
