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
	"fmt"
	"strings"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindUndefined
	KindBool
	KindInt
	KindFloat
	KindBytes
	KindText
	KindArray
	KindMap
)

var kindNameMap = map[Kind]string{
	KindNull:      "Null",
	KindUndefined: "Undefined",
	KindBool:      "Bool",
	KindInt:       "Int",
	KindFloat:     "Float",
	KindBytes:     "Bytes",
	KindText:      "Text",
	KindArray:     "Array",
	KindMap:       "Map",
}

func (k Kind) String() string {
	if name, ok := kindNameMap[k]; ok {
		return name
	}
	return "Unknown"
}

// Pair is one key/value entry of a map Value. Insertion order is preserved
// on the wire but carries no meaning.
type Pair struct {
	Key   Value
	Value Value
}

// Value is the decoded form of one serialized datum: a tagged union over
// null, undefined, booleans, integers (magnitude within 32 bits), doubles,
// byte strings, text, arrays and ordered maps.
type Value struct {
	kind  Kind
	boolv bool
	intv  int64
	fltv  float64
	bytes []byte
	text  string
	elems []Value
	pairs []Pair
}

func Null() Value      { return Value{kind: KindNull} }
func Undefined() Value { return Value{kind: KindUndefined} }

func Bool(b bool) Value { return Value{kind: KindBool, boolv: b} }

func Int(i int64) Value { return Value{kind: KindInt, intv: i} }

func Float(f float64) Value { return Value{kind: KindFloat, fltv: f} }

func Bytes(b []byte) Value { return Value{kind: KindBytes, bytes: b} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Array(elems ...Value) Value { return Value{kind: KindArray, elems: elems} }

func Map(pairs ...Pair) Value { return Value{kind: KindMap, pairs: pairs} }

func NewPair(key Value, value Value) Pair { return Pair{Key: key, Value: value} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Bool() bool { return v.boolv }

func (v Value) Int() int64 { return v.intv }

func (v Value) Float() float64 { return v.fltv }

func (v Value) BytesValue() []byte { return v.bytes }

func (v Value) Text() string { return v.text }

// Len returns the element count of an array or the pair count of a map.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.elems)
	case KindMap:
		return len(v.pairs)
	}
	return 0
}

func (v Value) Index(i int) Value { return v.elems[i] }

func (v Value) Pairs() []Pair { return v.pairs }

// Lookup finds the value for a text key in a map Value.
func (v Value) Lookup(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	for _, p := range v.pairs {
		if p.Key.kind == KindText && p.Key.text == key {
			return p.Value, true
		}
	}
	return Value{}, false
}

func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull, KindUndefined:
		return true
	case KindBool:
		return v.boolv == o.boolv
	case KindInt:
		return v.intv == o.intv
	case KindFloat:
		return v.fltv == o.fltv
	case KindBytes:
		if len(v.bytes) != len(o.bytes) {
			return false
		}
		for i := range v.bytes {
			if v.bytes[i] != o.bytes[i] {
				return false
			}
		}
		return true
	case KindText:
		return v.text == o.text
	case KindArray:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.pairs) != len(o.pairs) {
			return false
		}
		for i := range v.pairs {
			if !v.pairs[i].Key.Equal(o.pairs[i].Key) ||
				!v.pairs[i].Value.Equal(o.pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value in diagnostic notation, e.g.
// {"idle-slope": 1500, "enabled": true}.
func (v Value) String() string {
	var b strings.Builder
	v.writeTo(&b)
	return b.String()
}

func (v Value) writeTo(b *strings.Builder) {
	switch v.kind {
	case KindNull:
		b.WriteString("null")
	case KindUndefined:
		b.WriteString("undefined")
	case KindBool:
		fmt.Fprintf(b, "%t", v.boolv)
	case KindInt:
		fmt.Fprintf(b, "%d", v.intv)
	case KindFloat:
		fmt.Fprintf(b, "%g", v.fltv)
	case KindBytes:
		b.WriteString("h'")
		for _, c := range v.bytes {
			fmt.Fprintf(b, "%02X", c)
		}
		b.WriteString("'")
	case KindText:
		fmt.Fprintf(b, "%q", v.text)
	case KindArray:
		b.WriteString("[")
		for i, e := range v.elems {
			if i != 0 {
				b.WriteString(", ")
			}
			e.writeTo(b)
		}
		b.WriteString("]")
	case KindMap:
		b.WriteString("{")
		for i, p := range v.pairs {
			if i != 0 {
				b.WriteString(", ")
			}
			p.Key.writeTo(b)
			b.WriteString(": ")
			p.Value.writeTo(b)
		}
		b.WriteString("}")
	}
}
