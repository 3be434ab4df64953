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

// Decode reads one value from the front of buf and reports how many bytes
// it consumed, so container recursion and frame extraction can advance.
// It fails with ErrMalformedValue when the leading descriptor matches no
// defined pattern or a declared length exceeds the bytes remaining.
func Decode(buf []byte) (v Value, consumed int, err error) {
	return decodeValue(buf)
}

func decodeValue(buf []byte) (v Value, consumed int, err error) {
	if len(buf) == 0 {
		err = ErrMalformedValue
		return
	}
	major := buf[0] >> 5
	ai := buf[0] & 0x1F

	if major == kMajorSimple {
		return decodeSimple(buf, ai)
	}
	if major == kMajorTag {
		// semantic tags are out of scope
		err = ErrMalformedValue
		return
	}

	arg, headLen, err := decodeHead(buf, ai)
	if err != nil {
		return
	}

	switch major {
	case kMajorUint:
		v = Int(int64(arg))
		consumed = headLen
	case kMajorNegInt:
		v = Int(-1 - int64(arg))
		consumed = headLen
	case kMajorBytes:
		if uint64(len(buf)-headLen) < arg {
			err = ErrMalformedValue
			return
		}
		b := make([]byte, arg)
		copy(b, buf[headLen:headLen+int(arg)])
		v = Bytes(b)
		consumed = headLen + int(arg)
	case kMajorText:
		if uint64(len(buf)-headLen) < arg {
			err = ErrMalformedValue
			return
		}
		v = Text(string(buf[headLen : headLen+int(arg)]))
		consumed = headLen + int(arg)
	case kMajorArray:
		// every element takes at least one byte
		if uint64(len(buf)-headLen) < arg {
			err = ErrMalformedValue
			return
		}
		elems := make([]Value, 0, arg)
		off := headLen
		for i := uint64(0); i < arg; i++ {
			var e Value
			var n int
			if e, n, err = decodeValue(buf[off:]); err != nil {
				return
			}
			elems = append(elems, e)
			off += n
		}
		v = Array(elems...)
		consumed = off
	case kMajorMap:
		// every pair takes at least two bytes
		if uint64(len(buf)-headLen) < arg*2 {
			err = ErrMalformedValue
			return
		}
		pairs := make([]Pair, 0, arg)
		off := headLen
		for i := uint64(0); i < arg; i++ {
			var k, e Value
			var n int
			if k, n, err = decodeValue(buf[off:]); err != nil {
				return
			}
			off += n
			if e, n, err = decodeValue(buf[off:]); err != nil {
				return
			}
			off += n
			pairs = append(pairs, Pair{Key: k, Value: e})
		}
		v = Map(pairs...)
		consumed = off
	}
	return
}

func decodeSimple(buf []byte, ai uint8) (v Value, consumed int, err error) {
	switch ai {
	case kSimpleFalse:
		return Bool(false), 1, nil
	case kSimpleTrue:
		return Bool(true), 1, nil
	case kSimpleNull:
		return Null(), 1, nil
	case kSimpleUndefined:
		return Undefined(), 1, nil
	case kSimpleFloat64:
		if len(buf) < 9 {
			err = ErrMalformedValue
			return
		}
		v = Float(math.Float64frombits(EncByteOrder.Uint64(buf[1:9])))
		consumed = 9
		return
	}
	// half/single precision floats and unassigned simple values
	err = ErrMalformedValue
	return
}

// decodeHead reads the width-minimal argument field. 8-byte and
// indefinite-length arguments are outside the supported dialect.
func decodeHead(buf []byte, ai uint8) (arg uint64, headLen int, err error) {
	switch {
	case ai <= kMaxInlineArg:
		return uint64(ai), 1, nil
	case ai == kArgOneByte:
		if len(buf) < 2 {
			return 0, 0, ErrMalformedValue
		}
		return uint64(buf[1]), 2, nil
	case ai == kArgTwoBytes:
		if len(buf) < 3 {
			return 0, 0, ErrMalformedValue
		}
		return uint64(EncByteOrder.Uint16(buf[1:3])), 3, nil
	case ai == kArgFourBytes:
		if len(buf) < 5 {
			return 0, 0, ErrMalformedValue
		}
		return uint64(EncByteOrder.Uint32(buf[1:5])), 5, nil
	}
	return 0, 0, ErrMalformedValue
}
