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
	"bytes"
	"testing"
)

func TestIntegerWidths(t *testing.T) {
	vectors := []struct {
		value    int64
		expected []byte
	}{
		{0, []byte{0x00}},
		{10, []byte{0x0A}},
		{23, []byte{0x17}},
		{24, []byte{0x18, 0x18}},
		{255, []byte{0x18, 0xFF}},
		{256, []byte{0x19, 0x01, 0x00}},
		{65535, []byte{0x19, 0xFF, 0xFF}},
		{65536, []byte{0x1A, 0x00, 0x01, 0x00, 0x00}},
		{4294967295, []byte{0x1A, 0xFF, 0xFF, 0xFF, 0xFF}},
		{-1, []byte{0x20}},
		{-24, []byte{0x37}},
		{-25, []byte{0x38, 0x18}},
		{-256, []byte{0x38, 0xFF}},
		{-257, []byte{0x39, 0x01, 0x00}},
		{-4294967296, []byte{0x3A, 0xFF, 0xFF, 0xFF, 0xFF}},
	}
	for _, vec := range vectors {
		buf, err := Encode(Int(vec.value))
		if err != nil {
			t.Fatalf("encode %d: %v", vec.value, err)
		}
		if !bytes.Equal(buf, vec.expected) {
			t.Errorf("encode %d: got % X, expected % X", vec.value, buf, vec.expected)
		}
		v, n, err := Decode(buf)
		if err != nil || n != len(buf) {
			t.Fatalf("decode %d: n=%d err=%v", vec.value, n, err)
		}
		if v.Kind() != KindInt || v.Int() != vec.value {
			t.Errorf("decode %d: got %v", vec.value, v)
		}
	}
}

func TestIntegerOutOfRange(t *testing.T) {
	if _, err := Encode(Int(4294967296)); err != ErrValueOutOfRange {
		t.Errorf("expected ErrValueOutOfRange, got %v", err)
	}
	if _, err := Encode(Int(-4294967298)); err != ErrValueOutOfRange {
		t.Errorf("expected ErrValueOutOfRange, got %v", err)
	}
}

func TestFloatAlwaysDouble(t *testing.T) {
	buf, err := Encode(Float(5.0))
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0xFB, 0x40, 0x14, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("got % X, expected % X", buf, expected)
	}
	v, n, err := Decode(buf)
	if err != nil || n != 9 {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if v.Kind() != KindFloat || v.Float() != 5.0 {
		t.Errorf("got %v", v)
	}
}

func TestSimpleValues(t *testing.T) {
	vectors := []struct {
		value    Value
		expected byte
	}{
		{Bool(false), 0xF4},
		{Bool(true), 0xF5},
		{Null(), 0xF6},
		{Undefined(), 0xF7},
	}
	for _, vec := range vectors {
		buf, err := Encode(vec.value)
		if err != nil {
			t.Fatal(err)
		}
		if len(buf) != 1 || buf[0] != vec.expected {
			t.Errorf("%v: got % X", vec.value, buf)
		}
		v, _, err := Decode(buf)
		if err != nil || !v.Equal(vec.value) {
			t.Errorf("%v: decoded %v err=%v", vec.value, v, err)
		}
	}
}

func TestTextAndBytes(t *testing.T) {
	buf, _ := Encode(Text("a"))
	if !bytes.Equal(buf, []byte{0x61, 'a'}) {
		t.Errorf("got % X", buf)
	}
	buf, _ = Encode(Bytes(nil))
	if !bytes.Equal(buf, []byte{0x40}) {
		t.Errorf("got % X", buf)
	}

	long := make([]byte, 300)
	for i := range long {
		long[i] = byte(i)
	}
	buf, err := Encode(Bytes(long))
	if err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0x59 || buf[1] != 0x01 || buf[2] != 0x2C {
		t.Errorf("unexpected head % X", buf[:3])
	}
	v, n, err := Decode(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if !bytes.Equal(v.BytesValue(), long) {
		t.Error("byte string round trip mismatch")
	}
}

func TestContainers(t *testing.T) {
	buf, err := Encode(Array(Int(1), Int(2), Int(3)))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0x83, 0x01, 0x02, 0x03}) {
		t.Fatalf("got % X", buf)
	}

	m := Map(
		NewPair(Text("beta"), Int(2)),
		NewPair(Text("alpha"), Array(Bool(true), Null())),
	)
	buf, err = Encode(m)
	if err != nil {
		t.Fatal(err)
	}
	v, n, err := Decode(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("n=%d err=%v", n, err)
	}
	if !v.Equal(m) {
		t.Fatalf("round trip mismatch: %v", v)
	}
	// insertion order is part of the value
	if v.Pairs()[0].Key.Text() != "beta" {
		t.Errorf("pair order not preserved: %v", v)
	}
	if e, ok := v.Lookup("alpha"); !ok || e.Kind() != KindArray || e.Len() != 2 {
		t.Errorf("lookup failed: %v %v", e, ok)
	}
}

func TestDecodeReportsConsumed(t *testing.T) {
	v, n, err := Decode([]byte{0x01, 0xFF, 0xFF})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || v.Int() != 1 {
		t.Errorf("n=%d v=%v", n, v)
	}
}

func TestDecodeMalformed(t *testing.T) {
	vectors := [][]byte{
		{},                             // empty
		{0x1B, 0, 0, 0, 0, 0, 0, 0, 1}, // 8-byte argument
		{0x1C},                         // reserved argument form
		{0x9F},                         // indefinite-length array
		{0xC1, 0x00},                   // semantic tag
		{0xF8, 0x20},                   // unassigned simple value
		{0xF9, 0x3C, 0x00},             // half-precision float
		{0xFA, 0x3F, 0x80, 0x00, 0x00}, // single-precision float
		{0xFB, 0x40},                   // truncated double
		{0x62, 'a'},                    // text shorter than declared
		{0x18},                         // missing one-byte argument
		{0x82, 0x01},                   // array shorter than declared
		{0xA1, 0x01},                   // map shorter than declared
	}
	for _, vec := range vectors {
		if _, _, err := Decode(vec); err != ErrMalformedValue {
			t.Errorf("% X: expected ErrMalformedValue, got %v", vec, err)
		}
	}
}

func TestDiagnosticString(t *testing.T) {
	v := Map(NewPair(Text("up"), Bool(true)))
	s := v.String()
	if s == "" {
		t.Error("empty diagnostic form")
	}
}
