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

// Package mockdev simulates a managed switch on the device end of an
// in-memory transport, for tests and load drives that have no hardware
// attached.
package mockdev

import (
	"fmt"
	"sync"

	"swlink/third_party/forked/golang/glog"

	"swlink/pkg/catalog"
	swio "swlink/pkg/io"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/proto/coap"
	"swlink/pkg/proto/mup1"
)

type Config struct {
	Name            string
	Version         string
	Platform        string
	MaxFrame        int
	ProtoMajor      int
	ProtoMinor      int
	CatalogChecksum []byte
	AnnounceOnStart bool
	// Blackhole lists targets whose requests are swallowed without a
	// response, to exercise timeout paths.
	Blackhole map[string]bool
}

var DefaultConfig = Config{
	Name:            "VelocitySP",
	Version:         "2025.03",
	Platform:        "LAN9662-mock",
	MaxFrame:        300,
	ProtoMajor:      2,
	ProtoMinor:      1,
	CatalogChecksum: []byte{0x6a, 0x9c, 0x01, 0x24, 0x55, 0xe0, 0xd1, 0x8a},
	AnnounceOnStart: false,
}

// Device serves the device side of the protocol against an in-memory
// datastore keyed by target path.
type Device struct {
	transport swio.Transport
	config    Config

	mtx   sync.Mutex
	store map[string]cbor.Value

	chDone    chan struct{}
	chStopped chan struct{}
	closeOnce sync.Once
}

func New(transport swio.Transport, config Config) *Device {
	d := &Device{
		transport: transport,
		config:    config,
		store:     make(map[string]cbor.Value),
		chDone:    make(chan struct{}),
		chStopped: make(chan struct{}),
	}
	go d.serve()
	return d
}

func (d *Device) SetValue(target string, v cbor.Value) {
	d.mtx.Lock()
	d.store[target] = v
	d.mtx.Unlock()
}

func (d *Device) GetValue(target string) (v cbor.Value, ok bool) {
	d.mtx.Lock()
	v, ok = d.store[target]
	d.mtx.Unlock()
	return
}

func (d *Device) Close() {
	d.closeOnce.Do(func() {
		close(d.chDone)
		d.transport.Close()
		<-d.chStopped
	})
}

func (d *Device) identity() []byte {
	return []byte(fmt.Sprintf("%s-v%s-%s %d %d %d",
		d.config.Name, d.config.Version, d.config.Platform,
		d.config.MaxFrame, d.config.ProtoMajor, d.config.ProtoMinor))
}

func (d *Device) send(typ mup1.FrameType, payload []byte) {
	raw, err := mup1.Encode(typ, payload)
	if err != nil {
		glog.Errorf("mockdev encode: %v", err)
		return
	}
	d.transport.Write(raw)
}

func (d *Device) reply(request *coap.Message, code coap.Code, body []byte) {
	resp := request.CreateResponse(code)
	resp.SetBody(body)
	payload, err := resp.Encode()
	if err != nil {
		glog.Errorf("mockdev response encode: %v", err)
		return
	}
	d.send(mup1.TypeResponse, payload)
}

func (d *Device) serve() {
	defer close(d.chStopped)
	if d.config.AnnounceOnStart {
		d.send(mup1.TypeAnnouncement, d.identity())
	}
	decoder := mup1.NewDecoder()
	for chunk := range d.transport.Chunks() {
		for _, f := range decoder.Feed(chunk) {
			select {
			case <-d.chDone:
				return
			default:
			}
			switch f.Type() {
			case mup1.TypePing:
				d.send(mup1.TypePong, d.identity())
			case mup1.TypeRequest:
				d.handleRequest(f.Payload())
			}
		}
	}
}

func (d *Device) handleRequest(payload []byte) {
	request, err := coap.Decode(payload)
	if err != nil {
		glog.Warningf("mockdev: bad request: %v", err)
		return
	}
	target := request.Target()
	if d.config.Blackhole[target] {
		return
	}
	// the checksum target answers only the bulk-fetch method, the way a
	// real device distinguishes the two read methods
	if target == catalog.YangLibraryChecksumTarget && request.Method() == coap.MethodFetch {
		body, _ := cbor.Encode(cbor.Bytes(d.config.CatalogChecksum))
		d.reply(request, coap.CodeContent, body)
		return
	}

	switch request.Method() {
	case coap.MethodGet, coap.MethodFetch:
		d.mtx.Lock()
		v, ok := d.store[target]
		d.mtx.Unlock()
		if !ok {
			d.reply(request, coap.CodeNotFound, nil)
			return
		}
		body, err := cbor.Encode(v)
		if err != nil {
			d.reply(request, coap.CodeInternalErr, nil)
			return
		}
		d.reply(request, coap.CodeContent, body)
	case coap.MethodPut:
		v, ok := d.decodeBody(request)
		if !ok {
			d.reply(request, coap.CodeBadRequest, nil)
			return
		}
		d.SetValue(target, v)
		d.reply(request, coap.CodeChanged, nil)
	case coap.MethodPost:
		if _, exists := d.GetValue(target); exists {
			d.reply(request, coap.CodeBadRequest, nil)
			return
		}
		v, ok := d.decodeBody(request)
		if !ok {
			d.reply(request, coap.CodeBadRequest, nil)
			return
		}
		d.SetValue(target, v)
		d.reply(request, coap.CodeCreated, nil)
	case coap.MethodDelete:
		d.mtx.Lock()
		_, exists := d.store[target]
		delete(d.store, target)
		d.mtx.Unlock()
		if !exists {
			d.reply(request, coap.CodeNotFound, nil)
			return
		}
		d.reply(request, coap.CodeDeleted, nil)
	default:
		d.reply(request, coap.CodeNotImpl, nil)
	}
}

func (d *Device) decodeBody(request *coap.Message) (v cbor.Value, ok bool) {
	if !request.HasBody() {
		return cbor.Null(), true
	}
	v, _, err := cbor.Decode(request.Body())
	return v, err == nil
}
