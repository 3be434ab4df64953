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
	"bytes"
	"strings"
	"testing"
)

func TestRequestEncodeVector(t *testing.T) {
	m := NewRequest(MethodGet, "/cfg/port", []byte{0xCA, 0xFE}, 0x1234)
	buf, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{
		0x42,       // ver 1, confirmable, tkl 2
		0x01,       // Get
		0x12, 0x34, // message id
		0xCA, 0xFE, // token
		0xB3, 'c', 'f', 'g', // Uri-Path delta 11, length 3
		0x04, 'p', 'o', 'r', 't', // delta 0, length 4
	}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("got % X, expected % X", buf, expected)
	}
}

func TestRequestEncodeWithBody(t *testing.T) {
	m := NewRequest(MethodPut, "/a", []byte{0x01}, 7)
	m.SetBody([]byte{0xF6})
	buf, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	expected := []byte{0x41, 0x03, 0x00, 0x07, 0x01, 0xB1, 'a', 0xFF, 0xF6}
	if !bytes.Equal(buf, expected) {
		t.Fatalf("got % X, expected % X", buf, expected)
	}
}

func TestOptionLengthExtensions(t *testing.T) {
	// a 13-byte segment needs the one-byte extension form
	seg13 := strings.Repeat("x", 13)
	m := NewRequest(MethodGet, "/"+seg13, nil, 1)
	buf, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if buf[4] != 0xBD || buf[5] != 0x00 {
		t.Errorf("one-byte extension: got % X", buf[4:6])
	}

	// a 300-byte segment needs the two-byte extension form
	seg300 := strings.Repeat("y", 300)
	m = NewRequest(MethodGet, "/"+seg300, nil, 1)
	buf, err = m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if buf[4] != 0xBE || buf[5] != 0x00 || buf[6] != 0x1F {
		t.Errorf("two-byte extension: got % X", buf[4:7])
	}

	for _, target := range []string{"/" + seg13, "/" + seg300, "/" + seg13 + "/" + seg300} {
		m = NewRequest(MethodFetch, target, []byte{0xAA}, 42)
		buf, err = m.Encode()
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := Decode(buf)
		if err != nil {
			t.Fatal(err)
		}
		if decoded.Target() != target {
			t.Errorf("target round trip: got %q, expected %q", decoded.Target(), target)
		}
	}
}

func TestDecodeRequest(t *testing.T) {
	m := NewRequest(MethodDelete, "/ietf-interfaces:interfaces/interface", []byte{0x00, 0x09}, 9)
	buf, err := m.Encode()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if !decoded.IsRequest() || decoded.Method() != MethodDelete {
		t.Errorf("method: %v", decoded.Code())
	}
	if decoded.MessageID() != 9 || !bytes.Equal(decoded.Token(), []byte{0x00, 0x09}) {
		t.Errorf("id/token: %d % X", decoded.MessageID(), decoded.Token())
	}
	if decoded.Target() != m.Target() {
		t.Errorf("target: %q", decoded.Target())
	}
	if decoded.HasBody() {
		t.Error("no payload marker must mean no body")
	}
}

func TestResponseRoundTrip(t *testing.T) {
	request := NewRequest(MethodGet, "/x", []byte{0xBE, 0xEF}, 0xABCD)
	resp := request.CreateResponse(CodeContent)
	resp.SetBody([]byte{0x01, 0x02})

	buf, err := resp.Encode()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := Decode(buf)
	if err != nil {
		t.Fatal(err)
	}
	if decoded.IsRequest() {
		t.Error("response decoded as request")
	}
	if decoded.Code() != CodeContent || !decoded.Code().IsSuccess() {
		t.Errorf("code: %v", decoded.Code())
	}
	if decoded.MessageID() != 0xABCD || !bytes.Equal(decoded.Token(), []byte{0xBE, 0xEF}) {
		t.Errorf("id/token not echoed: %d % X", decoded.MessageID(), decoded.Token())
	}
	if !bytes.Equal(decoded.Body(), []byte{0x01, 0x02}) {
		t.Errorf("body: % X", decoded.Body())
	}
	if decoded.Target() != "" {
		t.Errorf("responses carry no target, got %q", decoded.Target())
	}
}

func TestDecodeErrors(t *testing.T) {
	vectors := []struct {
		buf      []byte
		expected error
	}{
		{[]byte{0x40, 0x01}, ErrTruncatedMessage},                   // short fixed header
		{[]byte{0x82, 0x45, 0x00, 0x00}, ErrUnknownVersion},         // version 2
		{[]byte{0x49, 0x01, 0x00, 0x00}, ErrInvalidToken},           // tkl 9
		{[]byte{0x42, 0x01, 0x00, 0x00}, ErrTruncatedMessage},       // token missing
		{[]byte{0x40, 0x06, 0x00, 0x00}, ErrUnknownMethod},          // method code 0.06
		{[]byte{0x40, 0x45, 0x00, 0x00, 0xC0}, ErrUnknownOption},    // option number 12
		{[]byte{0x40, 0x45, 0x00, 0x00, 0xF0}, ErrUnknownOption},    // reserved delta nibble
		{[]byte{0x40, 0x45, 0x00, 0x00, 0xBD}, ErrTruncatedMessage}, // extension byte missing
		{[]byte{0x40, 0x45, 0x00, 0x00, 0xB3, 'a'}, ErrTruncatedMessage},
		{[]byte{0x40, 0x45, 0x00, 0x00, 0xFF}, ErrTruncatedMessage}, // marker with empty body
	}
	for _, vec := range vectors {
		if _, err := Decode(vec.buf); err != vec.expected {
			t.Errorf("% X: expected %v, got %v", vec.buf, vec.expected, err)
		}
	}
}

func TestCodeString(t *testing.T) {
	if s := CodeContent.String(); s != "2.05 Content" {
		t.Errorf("got %q", s)
	}
	if s := CodeNotFound.String(); s != "4.04 NotFound" {
		t.Errorf("got %q", s)
	}
	if s := Code(MethodFetch).String(); s != "Fetch" {
		t.Errorf("got %q", s)
	}
}
