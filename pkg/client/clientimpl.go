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
package client

import (
	"fmt"
	"time"

	"swlink/third_party/forked/golang/glog"

	"swlink/internal/link"
	swio "swlink/pkg/io"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/proto/coap"
	"swlink/pkg/trace"
)

type clientImplT struct {
	config   Config
	appName  string
	session  *link.Session
	recorder *trace.Recorder
}

// New opens the configured device node and starts a session on it.
func New(conf Config) (IClient, error) {
	if err := conf.validate(); err != nil {
		return nil, err
	}
	conf.SetDefaultIfNotDefined()
	transport, err := swio.OpenFileTransport(conf.Device, conf.IO)
	if err != nil {
		return nil, err
	}
	return newWithTransport(conf, transport)
}

// NewWithTransport starts a session on a caller-supplied transport. The
// client takes ownership of the transport.
func NewWithTransport(conf Config, transport swio.Transport) (IClient, error) {
	conf.SetDefaultIfNotDefined()
	return newWithTransport(conf, transport)
}

func newWithTransport(conf Config, transport swio.Transport) (IClient, error) {
	glog.Debugf("client cfg=%v", conf)
	c := &clientImplT{
		config:  conf,
		appName: conf.Appname,
	}
	c.session = link.NewSession(transport, conf.linkConfig())
	if len(conf.TraceFile) > 0 {
		recorder, err := trace.NewFileRecorder(conf.TraceFile)
		if err != nil {
			transport.Close()
			return nil, err
		}
		c.recorder = recorder
		c.session.SetTraceHook(recorder.Record)
	}
	c.session.Open()
	return c, nil
}

func (c *clientImplT) Close() {
	if c.session != nil {
		c.session.Close()
		c.session = nil
	}
	if c.recorder != nil {
		c.recorder.Close()
		c.recorder = nil
	}
}

func (c *clientImplT) WaitReady(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.config.ReadyTimeout.Duration
	}
	return c.session.WaitReady(timeout)
}

func (c *clientImplT) State() State {
	return c.session.State()
}

func (c *clientImplT) DeviceInfo() DeviceInfo {
	return c.session.DeviceInfo()
}

func (c *clientImplT) CatalogChecksum() []byte {
	return c.session.CatalogChecksum()
}

func (c *clientImplT) Subscribe(ch chan Event) {
	c.session.Subscribe(ch)
}

func (c *clientImplT) Unsubscribe(ch chan Event) {
	c.session.Unsubscribe(ch)
}

func (c *clientImplT) logError(op string, target string, err error) {
	if err == nil || err == ErrNoTarget {
		return
	}
	msg := fmt.Sprintf("[ERROR] op=%s device=%s target=%s request_timeout=%dms. %s",
		op, c.config.Device, target,
		c.config.RequestTimeout.Nanoseconds()/int64(1e6), err.Error())
	glog.Error(msg)
}

func (c *clientImplT) newRequest(m coap.Method, target string, options *optionData) *coap.Message {
	request := coap.NewRequest(m, target, nil, 0)
	if options.nonConfirmable {
		request.SetType(coap.TypeNonConfirmable)
	}
	return request
}

func (c *clientImplT) Do(request *coap.Message) (*coap.Message, error) {
	return c.session.Do(request)
}

func (c *clientImplT) process(request *coap.Message) (resp *coap.Message, err error) {
	if resp, err = c.session.Do(request); err == nil {
		err = checkResponse(resp)
	}
	return
}

func decodeBody(resp *coap.Message) (value cbor.Value, err error) {
	if resp.HasBody() {
		value, _, err = cbor.Decode(resp.Body())
	}
	return
}

func (c *clientImplT) Get(target string, opts ...IOption) (value cbor.Value, err error) {
	var resp *coap.Message
	options := newOptionData(opts...)
	request := c.newRequest(coap.MethodGet, target, options)
	if resp, err = c.process(request); err == nil {
		value, err = decodeBody(resp)
	}
	if err != nil {
		c.logError("Get", target, err)
	}
	return
}

func (c *clientImplT) Fetch(target string, query cbor.Value, opts ...IOption) (value cbor.Value, err error) {
	var resp *coap.Message
	options := newOptionData(opts...)
	request := c.newRequest(coap.MethodFetch, target, options)
	if !query.IsNull() {
		var body []byte
		if body, err = cbor.Encode(query); err != nil {
			return
		}
		request.SetBody(body)
	}
	if resp, err = c.process(request); err == nil {
		value, err = decodeBody(resp)
	}
	if err != nil {
		c.logError("Fetch", target, err)
	}
	return
}

func (c *clientImplT) Set(target string, value cbor.Value, opts ...IOption) (err error) {
	options := newOptionData(opts...)
	request := c.newRequest(coap.MethodPut, target, options)
	var body []byte
	if body, err = cbor.Encode(value); err != nil {
		return
	}
	request.SetBody(body)
	_, err = c.process(request)
	if err != nil {
		c.logError("Set", target, err)
	}
	return
}

func (c *clientImplT) Create(target string, value cbor.Value, opts ...IOption) (err error) {
	options := newOptionData(opts...)
	request := c.newRequest(coap.MethodPost, target, options)
	var body []byte
	if body, err = cbor.Encode(value); err != nil {
		return
	}
	request.SetBody(body)
	_, err = c.process(request)
	if err != nil {
		c.logError("Create", target, err)
	}
	return
}

func (c *clientImplT) Destroy(target string, opts ...IOption) (err error) {
	options := newOptionData(opts...)
	request := c.newRequest(coap.MethodDelete, target, options)
	_, err = c.process(request)
	if err != nil {
		c.logError("Destroy", target, err)
	}
	return
}
