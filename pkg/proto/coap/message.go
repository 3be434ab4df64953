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
	"fmt"
	"io"

	"swlink/pkg/util"
)

// Message is one request or response carried as the payload of a link
// frame. The token and message id together identify one transaction from
// the requester's point of view; a response echoes the requester's token.
// The body is carried opaquely; it is normally value-codec output.
type Message struct {
	typ       Type
	code      Code
	messageID uint16
	token     []byte
	target    string
	body      []byte
}

// NewRequest builds a request message for one of the recognized methods.
func NewRequest(m Method, target string, token []byte, messageID uint16) *Message {
	return &Message{
		typ:       TypeConfirmable,
		code:      Code(m),
		messageID: messageID,
		token:     token,
		target:    target,
	}
}

// CreateResponse builds a response echoing the request's token and id.
func (m *Message) CreateResponse(code Code) (resp *Message) {
	resp = &Message{
		typ:       TypeAck,
		code:      code,
		messageID: m.messageID,
		token:     m.token,
	}
	return
}

func (m *Message) Type() Type { return m.typ }

func (m *Message) SetType(t Type) { m.typ = t }

func (m *Message) Code() Code { return m.code }

func (m *Message) Method() Method { return Method(m.code) }

func (m *Message) IsRequest() bool { return m.code.IsRequest() }

func (m *Message) MessageID() uint16 { return m.messageID }

func (m *Message) SetMessageID(id uint16) { m.messageID = id }

func (m *Message) Token() []byte { return m.token }

func (m *Message) SetToken(token []byte) { m.token = token }

func (m *Message) Target() string { return m.target }

func (m *Message) SetTarget(target string) { m.target = target }

func (m *Message) Body() []byte { return m.body }

func (m *Message) SetBody(body []byte) { m.body = body }

func (m *Message) HasBody() bool { return len(m.body) != 0 }

func (m *Message) PrettyPrint(w io.Writer) {
	fmt.Fprintf(w, "Type      : %d\n", m.typ)
	fmt.Fprintf(w, "Code      : %s\n", m.code.String())
	fmt.Fprintf(w, "MessageID : %d\n", m.messageID)
	fmt.Fprintf(w, "Token     : %s\n", util.ToPrintableAndHexString(m.token))
	if m.target != "" {
		fmt.Fprintf(w, "Target    : %s\n", m.target)
	}
	if m.HasBody() {
		fmt.Fprintf(w, "Body      : %s\n", util.ToPrintableAndHexString(m.body))
	}
}
