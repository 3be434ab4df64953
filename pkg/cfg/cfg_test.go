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

package cfg

import (
	"strings"
	"testing"

	"swlink/pkg/util"
)

type testConfigT struct {
	Device         string
	RequestTimeout util.Duration
	IO             testIOConfigT
}

type testIOConfigT struct {
	ReadBufSize   int
	ChunkQueueLen int
}

func TestLayering(t *testing.T) {
	defaults := testConfigT{
		Device:         "/dev/ttyACM0",
		RequestTimeout: util.Duration{},
		IO:             testIOConfigT{ReadBufSize: 4096, ChunkQueueLen: 64},
	}

	var layered Config
	if err := layered.ReadFrom(&defaults); err != nil {
		t.Fatal(err)
	}

	var overrides Config
	file := `
Device = "/dev/ttyUSB1"
RequestTimeout = "5s"

[IO]
ReadBufSize = 512
`
	if err := overrides.ReadFromToml(strings.NewReader(file)); err != nil {
		t.Fatal(err)
	}
	layered.Merge(&overrides)

	var merged testConfigT
	if err := layered.WriteTo(&merged); err != nil {
		t.Fatal(err)
	}
	if merged.Device != "/dev/ttyUSB1" {
		t.Errorf("device: %q", merged.Device)
	}
	if merged.RequestTimeout.Seconds() != 5 {
		t.Errorf("timeout: %v", merged.RequestTimeout)
	}
	if merged.IO.ReadBufSize != 512 {
		t.Errorf("nested override: %d", merged.IO.ReadBufSize)
	}
	// keys absent from the overrides keep their default
	if merged.IO.ChunkQueueLen != 64 {
		t.Errorf("nested default: %d", merged.IO.ChunkQueueLen)
	}
}

func TestMergeIsCaseInsensitive(t *testing.T) {
	var base, overrides Config
	if err := base.ReadFromToml(strings.NewReader("Name = \"a\"\n")); err != nil {
		t.Fatal(err)
	}
	if err := overrides.ReadFromToml(strings.NewReader("NAME = \"b\"\n")); err != nil {
		t.Fatal(err)
	}
	base.Merge(&overrides)

	var out struct{ Name string }
	if err := base.WriteTo(&out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "b" {
		t.Errorf("got %q", out.Name)
	}
}
