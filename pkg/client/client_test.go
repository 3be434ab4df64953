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
	"bytes"
	"path/filepath"
	"testing"
	"time"

	swio "swlink/pkg/io"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/trace"
	"swlink/test/testutil/mockdev"
)

func newTestClient(t *testing.T, devConfig mockdev.Config, conf Config) (IClient, *mockdev.Device) {
	t.Helper()
	conf.Device = "mock"
	conf.SetDefaultIfNotDefined()

	host, dev := swio.Pipe(conf.IO)
	device := mockdev.New(dev, devConfig)
	cli, err := NewWithTransport(conf, host)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		cli.Close()
		device.Close()
	})
	if err = cli.WaitReady(2 * time.Second); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}
	return cli, device
}

func TestClientOperations(t *testing.T) {
	cli, _ := newTestClient(t, mockdev.DefaultConfig, Config{})

	if _, err := cli.Get("/port/1/speed"); err != ErrNoTarget {
		t.Errorf("get absent: expected ErrNoTarget, got %v", err)
	}

	speed := cbor.Int(1000)
	if err := cli.Set("/port/1/speed", speed); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err := cli.Get("/port/1/speed")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !v.Equal(speed) {
		t.Errorf("get: %v", v)
	}

	v, err = cli.Fetch("/port/1/speed", cbor.Null())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if !v.Equal(speed) {
		t.Errorf("fetch: %v", v)
	}

	entry := cbor.Map(cbor.NewPair(cbor.Text("vid"), cbor.Int(100)))
	if err = cli.Create("/bridge/vlan/100", entry); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err = cli.Create("/bridge/vlan/100", entry); err != ErrBadRequest {
		t.Errorf("create existing: expected ErrBadRequest, got %v", err)
	}
	if err = cli.Destroy("/bridge/vlan/100"); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if err = cli.Destroy("/bridge/vlan/100"); err != ErrNoTarget {
		t.Errorf("destroy absent: expected ErrNoTarget, got %v", err)
	}
}

func TestClientDeviceIdentity(t *testing.T) {
	cli, _ := newTestClient(t, mockdev.DefaultConfig, Config{})

	if cli.State() != StateReady {
		t.Errorf("state: %s", cli.State())
	}
	info := cli.DeviceInfo()
	if info.Platform != "LAN9662-mock" || info.MaxFrame != 300 {
		t.Errorf("device info: %+v", info)
	}
	if !bytes.Equal(cli.CatalogChecksum(), mockdev.DefaultConfig.CatalogChecksum) {
		t.Errorf("checksum: % X", cli.CatalogChecksum())
	}
}

func TestClientResponseTimeout(t *testing.T) {
	devConfig := mockdev.DefaultConfig
	devConfig.Blackhole = map[string]bool{"/hole": true}
	conf := Config{RequestTimeout: Duration{Duration: 200 * time.Millisecond}}

	cli, _ := newTestClient(t, devConfig, conf)
	if _, err := cli.Get("/hole"); err != ErrResponseTimeout {
		t.Errorf("expected ErrResponseTimeout, got %v", err)
	}
}

func TestClientFrameTrace(t *testing.T) {
	traceFile := filepath.Join(t.TempDir(), "session.swtr")
	conf := Config{TraceFile: traceFile}

	cli, _ := newTestClient(t, mockdev.DefaultConfig, conf)
	if err := cli.Set("/port/1/speed", cbor.Int(10)); err != nil {
		t.Fatal(err)
	}
	cli.Close()

	r, err := trace.OpenFile(traceFile)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	var numOut, numIn int
	for {
		entry, err := r.Next()
		if err != nil {
			break
		}
		if len(entry.Raw) == 0 {
			t.Fatal("empty capture entry")
		}
		if entry.Outbound {
			numOut++
			if entry.Raw[0] != '>' {
				t.Errorf("outbound capture is not frame-aligned: % X", entry.Raw)
			}
		} else {
			numIn++
		}
	}
	// at least the ping, the catalog fetch and the set, plus replies
	if numOut < 3 || numIn < 1 {
		t.Errorf("captured %d outbound, %d inbound entries", numOut, numIn)
	}
}

func TestClientEvents(t *testing.T) {
	host, dev := swio.Pipe(swio.DefaultConfig)

	conf := Config{Device: "mock"}
	conf.SetDefaultIfNotDefined()
	cli, err := NewWithTransport(conf, host)
	if err != nil {
		t.Fatal(err)
	}
	defer cli.Close()

	chEvent := make(chan Event, 16)
	cli.Subscribe(chEvent)
	defer cli.Unsubscribe(chEvent)

	// attach the device only after subscribing so no event can slip by;
	// the initial ping sits buffered in the pipe until then
	device := mockdev.New(dev, mockdev.DefaultConfig)
	defer device.Close()

	if err = cli.WaitReady(2 * time.Second); err != nil {
		t.Fatal(err)
	}
	expected := []EventKind{EventDiscovered, EventCatalogReady}
	for _, kind := range expected {
		select {
		case ev := <-chEvent:
			if ev.Kind != kind {
				t.Fatalf("got %s, expected %s", ev.Kind, kind)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("no %s event", kind)
		}
	}
}
