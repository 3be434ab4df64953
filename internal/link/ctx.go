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

package link

import (
	"swlink/third_party/forked/golang/glog"

	"swlink/pkg/proto/coap"
)

// GetResponse() != nil and GetError() != nil are mutually exclusive
type IResponseContext interface {
	GetResponse() *coap.Message
	GetError() error
	GetToken() uint16
	SetToken(token uint16)
}

type RequestContext struct {
	request    *coap.Message
	token      uint16
	chResponse chan IResponseContext
}

type ResponseContext struct {
	token uint16
	resp  *coap.Message
}

type ErrResponseContext struct {
	token uint16
	err   error
}

func NewRequestContext(m *coap.Message, chResponse chan IResponseContext) *RequestContext {
	return &RequestContext{
		request:    m,
		chResponse: chResponse,
	}
}

func (r *ResponseContext) GetResponse() *coap.Message {
	return r.resp
}

func (r *ResponseContext) SetToken(token uint16) {
	r.token = token
}

func (r *ResponseContext) GetToken() uint16 {
	return r.token
}

func (r *ResponseContext) GetError() error {
	return nil
}

func (r *ErrResponseContext) GetResponse() *coap.Message {
	return nil
}

func (r *ErrResponseContext) SetToken(token uint16) {
	r.token = token
}

func (r *ErrResponseContext) GetToken() uint16 {
	return r.token
}

func (r *ErrResponseContext) GetError() error {
	return r.err
}

func (r *RequestContext) GetRequest() *coap.Message {
	return r.request
}

func (r *RequestContext) Reply(response *coap.Message) {
	if r.request == nil {
		glog.Fatal("nil request")
	}
	if response == nil {
		glog.Fatal("nil response")
	}
	r.chResponse <- &ResponseContext{r.token, response}
}

func (r *RequestContext) ReplyError(err error) {
	glog.DebugDepth(1, err)
	if r.request == nil {
		glog.Fatal("nil request")
	}
	r.chResponse <- &ErrResponseContext{r.token, err}
}
