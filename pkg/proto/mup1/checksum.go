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

// checksum computes the 16-bit one's-complement checksum over span: the
// bytes are summed as big-endian 16-bit words with end-around carry (an
// odd-length span acts as if zero-padded) and the sum is complemented.
// The span runs from the start marker through the end marker(s); for the
// zero-payload ping ">p<<" this yields 0x8553, matching the documented
// frame vector.
func checksum(span []byte) uint16 {
	var sum uint32
	n := len(span)
	for i := 0; i+1 < n; i += 2 {
		sum += uint32(span[i])<<8 | uint32(span[i+1])
	}
	if n%2 != 0 {
		sum += uint32(span[n-1]) << 8
	}
	for sum > 0xFFFF {
		sum = (sum & 0xFFFF) + (sum >> 16)
	}
	return ^uint16(sum)
}

const hexDigits = "0123456789ABCDEF"

// appendChecksumHex renders cks as 4 uppercase hexadecimal characters.
func appendChecksumHex(dst []byte, cks uint16) []byte {
	return append(dst,
		hexDigits[cks>>12&0xF],
		hexDigits[cks>>8&0xF],
		hexDigits[cks>>4&0xF],
		hexDigits[cks&0xF])
}

// hexNibble maps an ASCII hex digit to its value, accepting both cases.
func hexNibble(c byte) (v uint16, ok bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint16(c - '0'), true
	case c >= 'A' && c <= 'F':
		return uint16(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return uint16(c-'a') + 10, true
	}
	return 0, false
}
