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
	"math"
)

// Encode serializes v into its compact binary form. Integers always take
// the shortest of the four defined argument widths; floats always take the
// full 9-byte double form, even when numerically integral.
func Encode(v Value) (buf []byte, err error) {
	return AppendValue(nil, v)
}

// AppendValue appends the encoding of v to dst.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	var err error
	switch v.kind {
	case KindNull:
		dst = append(dst, kMajorSimple<<5|kSimpleNull)
	case KindUndefined:
		dst = append(dst, kMajorSimple<<5|kSimpleUndefined)
	case KindBool:
		if v.boolv {
			dst = append(dst, kMajorSimple<<5|kSimpleTrue)
		} else {
			dst = append(dst, kMajorSimple<<5|kSimpleFalse)
		}
	case KindInt:
		if v.intv >= 0 {
			if uint64(v.intv) > kMaxIntArg {
				return dst, ErrValueOutOfRange
			}
			dst = appendHead(dst, kMajorUint, uint64(v.intv))
		} else {
			mag := uint64(-(v.intv + 1))
			if mag > kMaxIntArg {
				return dst, ErrValueOutOfRange
			}
			dst = appendHead(dst, kMajorNegInt, mag)
		}
	case KindFloat:
		dst = append(dst, kMajorSimple<<5|kSimpleFloat64)
		var b [8]byte
		EncByteOrder.PutUint64(b[:], math.Float64bits(v.fltv))
		dst = append(dst, b[:]...)
	case KindBytes:
		dst = appendHead(dst, kMajorBytes, uint64(len(v.bytes)))
		dst = append(dst, v.bytes...)
	case KindText:
		dst = appendHead(dst, kMajorText, uint64(len(v.text)))
		dst = append(dst, v.text...)
	case KindArray:
		dst = appendHead(dst, kMajorArray, uint64(len(v.elems)))
		for _, e := range v.elems {
			if dst, err = AppendValue(dst, e); err != nil {
				return dst, err
			}
		}
	case KindMap:
		dst = appendHead(dst, kMajorMap, uint64(len(v.pairs)))
		for _, p := range v.pairs {
			if dst, err = AppendValue(dst, p.Key); err != nil {
				return dst, err
			}
			if dst, err = AppendValue(dst, p.Value); err != nil {
				return dst, err
			}
		}
	default:
		return dst, ErrMalformedValue
	}
	return dst, nil
}

// appendHead emits the class tag plus the width-minimal argument encoding.
// The caller guarantees arg fits in 32 bits.
func appendHead(dst []byte, major uint8, arg uint64) []byte {
	switch {
	case arg <= uint64(kMaxInlineArg):
		dst = append(dst, major<<5|uint8(arg))
	case arg <= 0xFF:
		dst = append(dst, major<<5|kArgOneByte, uint8(arg))
	case arg <= 0xFFFF:
		dst = append(dst, major<<5|kArgTwoBytes)
		var b [2]byte
		EncByteOrder.PutUint16(b[:], uint16(arg))
		dst = append(dst, b[:]...)
	default:
		dst = append(dst, major<<5|kArgFourBytes)
		var b [4]byte
		EncByteOrder.PutUint32(b[:], uint32(arg))
		dst = append(dst, b[:]...)
	}
	return dst
}
