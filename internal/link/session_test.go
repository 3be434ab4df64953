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
	"bytes"
	"sync"
	"testing"
	"time"

	"swlink/pkg/catalog"
	swio "swlink/pkg/io"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/proto/coap"
	"swlink/pkg/proto/mup1"
	"swlink/test/testutil/mockdev"
)

var testConfig = Config{
	RequestTimeout: 2 * time.Second,
	RetryInterval:  100 * time.Millisecond,
}

func newTestSession(t *testing.T, devConfig mockdev.Config, config Config) (*Session, *mockdev.Device) {
	t.Helper()
	host, dev := swio.Pipe(swio.DefaultConfig)
	device := mockdev.New(dev, devConfig)
	session := NewSession(host, config)
	session.Open()
	t.Cleanup(func() {
		session.Close()
		device.Close()
	})
	return session, device
}

func TestDiscoveryHandshake(t *testing.T) {
	host, dev := swio.Pipe(swio.DefaultConfig)
	device := mockdev.New(dev, mockdev.DefaultConfig)
	defer device.Close()

	session := NewSession(host, testConfig)
	chEvent := make(chan Event, 16)
	session.Subscribe(chEvent)
	session.Open()
	defer session.Close()

	if err := session.WaitReady(2 * time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	if st := session.State(); st != StateReady {
		t.Errorf("state: %s", st)
	}
	info := session.DeviceInfo()
	if info.Name != "VelocitySP" || info.Platform != "LAN9662-mock" {
		t.Errorf("device info: %+v", info)
	}
	if !bytes.Equal(session.CatalogChecksum(), mockdev.DefaultConfig.CatalogChecksum) {
		t.Errorf("checksum: % X", session.CatalogChecksum())
	}

	expectEvent(t, chEvent, EventDiscovered)
	expectEvent(t, chEvent, EventCatalogReady)
}

func expectEvent(t *testing.T, ch chan Event, kind EventKind) {
	t.Helper()
	select {
	case ev := <-ch:
		if ev.Kind != kind {
			t.Fatalf("got %s event, expected %s", ev.Kind, kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no %s event", kind)
	}
}

func TestRequestRoundTrip(t *testing.T) {
	session, device := newTestSession(t, mockdev.DefaultConfig, testConfig)
	if err := session.WaitReady(2 * time.Second); err != nil {
		t.Fatal(err)
	}
	device.SetValue("/port/1", cbor.Int(42))

	resp, err := session.Do(coap.NewRequest(coap.MethodGet, "/port/1", nil, 0))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Code() != coap.CodeContent {
		t.Fatalf("code: %s", resp.Code())
	}
	v, _, err := cbor.Decode(resp.Body())
	if err != nil || v.Int() != 42 {
		t.Errorf("body: %v %v", v, err)
	}
}

// The device answers concurrent requests in the reverse of their arrival
// order; each caller must still receive its own response.
func TestOutOfOrderCorrelation(t *testing.T) {
	host, dev := swio.Pipe(swio.DefaultConfig)
	defer dev.Close()

	send := func(typ mup1.FrameType, payload []byte) {
		raw, err := mup1.Encode(typ, payload)
		if err != nil {
			t.Errorf("encode: %v", err)
			return
		}
		dev.Write(raw)
	}
	go func() {
		decoder := mup1.NewDecoder()
		var pending []*coap.Message
		for chunk := range dev.Chunks() {
			for _, f := range decoder.Feed(chunk) {
				switch f.Type() {
				case mup1.TypePing:
					send(mup1.TypePong, []byte("VelocitySP-v2025.03-LAN9662-mock 300 2 1"))
				case mup1.TypeRequest:
					m, err := coap.Decode(f.Payload())
					if err != nil {
						continue
					}
					resp := m.CreateResponse(coap.CodeContent)
					body, _ := cbor.Encode(cbor.Text(m.Target()))
					resp.SetBody(body)
					if m.Target() == catalog.YangLibraryChecksumTarget {
						payload, _ := resp.Encode()
						send(mup1.TypeResponse, payload)
						continue
					}
					pending = append(pending, resp)
					if len(pending) == 2 {
						for i := len(pending) - 1; i >= 0; i-- {
							payload, _ := pending[i].Encode()
							send(mup1.TypeResponse, payload)
						}
						pending = nil
					}
				}
			}
		}
	}()

	session := NewSession(host, testConfig)
	session.Open()
	defer session.Close()
	if err := session.WaitReady(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for _, target := range []string{"/alpha", "/beta"} {
		wg.Add(1)
		go func(target string) {
			defer wg.Done()
			resp, err := session.Do(coap.NewRequest(coap.MethodGet, target, nil, 0))
			if err != nil {
				t.Errorf("%s: %v", target, err)
				return
			}
			v, _, err := cbor.Decode(resp.Body())
			if err != nil {
				t.Errorf("%s: %v", target, err)
				return
			}
			if v.Text() != target {
				t.Errorf("response for %s carried %q", target, v.Text())
			}
		}(target)
	}
	wg.Wait()
}

func TestResponseTimeout(t *testing.T) {
	devConfig := mockdev.DefaultConfig
	devConfig.Blackhole = map[string]bool{"/hole": true}
	config := testConfig
	config.RequestTimeout = 200 * time.Millisecond

	session, device := newTestSession(t, devConfig, config)
	if err := session.WaitReady(2 * time.Second); err != nil {
		t.Fatal(err)
	}

	tmStart := time.Now()
	_, err := session.Do(coap.NewRequest(coap.MethodGet, "/hole", nil, 0))
	if err != ErrResponseTimeout {
		t.Fatalf("expected ErrResponseTimeout, got %v", err)
	}
	if elapsed := time.Since(tmStart); elapsed < config.RequestTimeout {
		t.Errorf("timed out after %v", elapsed)
	}

	// the expired entry must not wedge later transactions
	device.SetValue("/live", cbor.Bool(true))
	resp, err := session.Do(coap.NewRequest(coap.MethodGet, "/live", nil, 0))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Code() != coap.CodeContent {
		t.Errorf("code: %s", resp.Code())
	}
}

func TestRequestRejectedBeforeReady(t *testing.T) {
	host, dev := swio.Pipe(swio.DefaultConfig)
	defer dev.Close()

	session := NewSession(host, testConfig)
	session.Open()
	defer session.Close()

	if _, err := session.Do(coap.NewRequest(coap.MethodGet, "/x", nil, 0)); err != ErrNotReady {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
	if err := session.WaitReady(50 * time.Millisecond); err != ErrResponseTimeout {
		t.Errorf("expected ErrResponseTimeout, got %v", err)
	}
}

func TestDisconnectFailsPending(t *testing.T) {
	devConfig := mockdev.DefaultConfig
	devConfig.Blackhole = map[string]bool{"/hole": true}

	host, dev := swio.Pipe(swio.DefaultConfig)
	device := mockdev.New(dev, devConfig)
	session := NewSession(host, testConfig)
	chEvent := make(chan Event, 16)
	session.Subscribe(chEvent)
	session.Open()
	defer session.Close()

	if err := session.WaitReady(2 * time.Second); err != nil {
		t.Fatal(err)
	}
	// drain the handshake events
	expectEvent(t, chEvent, EventDiscovered)
	expectEvent(t, chEvent, EventCatalogReady)

	chErr := make(chan error, 1)
	go func() {
		_, err := session.Do(coap.NewRequest(coap.MethodGet, "/hole", nil, 0))
		chErr <- err
	}()
	time.Sleep(100 * time.Millisecond)
	device.Close()

	select {
	case err := <-chErr:
		if err != ErrDisconnected {
			t.Errorf("expected ErrDisconnected, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending request not failed on disconnect")
	}
	expectEvent(t, chEvent, EventDisconnected)
	if st := session.State(); st != StateDisconnected {
		t.Errorf("state: %s", st)
	}
}

// The catalog checksum request must go out as a bulk fetch; a device
// that distinguishes the two read methods answers nothing else, so the
// handshake only completes when the method on the wire is right.
func TestCatalogChecksumFetchMethod(t *testing.T) {
	host, dev := swio.Pipe(swio.DefaultConfig)
	defer dev.Close()

	chMethod := make(chan coap.Method, 1)
	send := func(typ mup1.FrameType, payload []byte) {
		raw, err := mup1.Encode(typ, payload)
		if err != nil {
			t.Errorf("encode: %v", err)
			return
		}
		dev.Write(raw)
	}
	go func() {
		decoder := mup1.NewDecoder()
		for chunk := range dev.Chunks() {
			for _, f := range decoder.Feed(chunk) {
				switch f.Type() {
				case mup1.TypePing:
					send(mup1.TypePong, []byte("VelocitySP-v2025.03-LAN9662-mock 300 2 1"))
				case mup1.TypeRequest:
					m, err := coap.Decode(f.Payload())
					if err != nil || m.Target() != catalog.YangLibraryChecksumTarget {
						continue
					}
					select {
					case chMethod <- m.Method():
					default:
					}
					if m.Method() != coap.MethodFetch {
						continue
					}
					resp := m.CreateResponse(coap.CodeContent)
					body, _ := cbor.Encode(cbor.Bytes([]byte{0x01, 0x02}))
					resp.SetBody(body)
					payload, _ := resp.Encode()
					send(mup1.TypeResponse, payload)
				}
			}
		}
	}()

	session := NewSession(host, testConfig)
	session.Open()
	defer session.Close()

	select {
	case m := <-chMethod:
		if m != coap.MethodFetch {
			t.Fatalf("catalog checksum requested with method %s", m)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no catalog request observed")
	}
	if err := session.WaitReady(2 * time.Second); err != nil {
		t.Fatalf("handshake did not complete: %v", err)
	}
}

// A pong alone moves the session to CatalogUnknown; Ready needs the
// catalog checksum reply as well.
func TestDiscoveryStopsAtCatalogUnknown(t *testing.T) {
	host, dev := swio.Pipe(swio.DefaultConfig)
	defer dev.Close()

	go func() {
		decoder := mup1.NewDecoder()
		for chunk := range dev.Chunks() {
			for _, f := range decoder.Feed(chunk) {
				if f.Type() == mup1.TypePing {
					raw, _ := mup1.Encode(mup1.TypePong, []byte("NAME-vVERSION-PLATFORM 123 45 6"))
					dev.Write(raw)
				}
			}
		}
	}()

	session := NewSession(host, testConfig)
	session.Open()
	defer session.Close()

	deadline := time.Now().Add(2 * time.Second)
	for session.State() != StateCatalogUnknown && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if st := session.State(); st != StateCatalogUnknown {
		t.Fatalf("state: %s", st)
	}
	info := session.DeviceInfo()
	if info.Name != "NAME" || info.Version != "VERSION" || info.Platform != "PLATFORM" {
		t.Errorf("identity: %+v", info)
	}
	if info.MaxFrame != 123 || info.ProtoMajor != 45 || info.ProtoMinor != 6 {
		t.Errorf("parameters: %+v", info)
	}
}

func TestTrackerOrderIndependence(t *testing.T) {
	tracker := newPendingTracker(time.Second)
	defer tracker.ClearOnError(ErrDisconnected)

	ch1 := make(chan IResponseContext, 1)
	ch2 := make(chan IResponseContext, 1)
	r1 := NewRequestContext(coap.NewRequest(coap.MethodGet, "/a", nil, 0), ch1)
	r2 := NewRequestContext(coap.NewRequest(coap.MethodGet, "/b", nil, 0), ch2)
	tracker.OnRequestSent(r1, 1)
	tracker.OnRequestSent(r2, 2)
	if n := tracker.NumPending(); n != 2 {
		t.Fatalf("pending: %d", n)
	}

	msg2 := &coap.Message{}
	tracker.OnResponseReceived(&coapResponse{token: 2, msg: msg2})
	select {
	case resp := <-ch2:
		if resp.GetError() != nil || resp.GetResponse() != msg2 {
			t.Errorf("wrong delivery: %v", resp)
		}
	default:
		t.Fatal("token 2 not delivered")
	}
	select {
	case <-ch1:
		t.Fatal("token 1 must stay pending")
	default:
	}
	if n := tracker.NumPending(); n != 1 {
		t.Errorf("pending: %d", n)
	}
}

// An early timer fire, before the head of the queue has expired, must
// leave the queue intact so the entries still expire later.
func TestTrackerEarlyTimerKeepsQueue(t *testing.T) {
	tracker := newPendingTracker(time.Second)
	defer tracker.ClearOnError(ErrDisconnected)

	ch1 := make(chan IResponseContext, 1)
	ch2 := make(chan IResponseContext, 1)
	tracker.OnRequestSent(NewRequestContext(coap.NewRequest(coap.MethodGet, "/a", nil, 0), ch1), 1)
	tracker.OnRequestSent(NewRequestContext(coap.NewRequest(coap.MethodGet, "/b", nil, 0), ch2), 2)

	tracker.OnTimeout(time.Now())
	if n := tracker.NumPending(); n != 2 {
		t.Fatalf("pending after early fire: %d", n)
	}

	tracker.OnTimeout(time.Now().Add(2 * time.Second))
	if n := tracker.NumPending(); n != 0 {
		t.Errorf("pending after expiry: %d", n)
	}
	for i, ch := range []chan IResponseContext{ch1, ch2} {
		select {
		case resp := <-ch:
			if resp.GetError() != ErrResponseTimeout {
				t.Errorf("request %d: %v", i+1, resp.GetError())
			}
		default:
			t.Errorf("request %d never expired", i+1)
		}
	}
}
