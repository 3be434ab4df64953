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

package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestDefaultAliases(t *testing.T) {
	c := Default()
	path, err := c.Resolve("yang-checksum")
	if err != nil {
		t.Fatal(err)
	}
	if path != YangLibraryChecksumTarget {
		t.Errorf("got %q", path)
	}
	if _, err = c.Resolve("platform"); err != nil {
		t.Errorf("platform: %v", err)
	}
	if !sort.StringsAreSorted(c.Names()) {
		t.Errorf("names not sorted: %v", c.Names())
	}
}

func TestResolveLiteralPath(t *testing.T) {
	c := Default()
	path, err := c.Resolve("/ietf-system:system/hostname")
	if err != nil {
		t.Fatal(err)
	}
	if path != "/ietf-system:system/hostname" {
		t.Errorf("got %q", path)
	}
}

func TestResolveUnknownAlias(t *testing.T) {
	if _, err := Default().Resolve("no-such-alias"); err == nil {
		t.Error("expected an error")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	content := "ptp: /ieee1588-ptp:ptp\nplatform: /custom:platform\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if p, _ := c.Resolve("ptp"); p != "/ieee1588-ptp:ptp" {
		t.Errorf("new alias: %q", p)
	}
	// file entries override the built-ins
	if p, _ := c.Resolve("platform"); p != "/custom:platform" {
		t.Errorf("override: %q", p)
	}
	// built-ins not mentioned in the file survive
	if p, _ := c.Resolve("interfaces"); p != "/ietf-interfaces:interfaces" {
		t.Errorf("builtin: %q", p)
	}
}

func TestLoadFileRejectsRelativePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	if err := os.WriteFile(path, []byte("bad: not-a-path\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected an error")
	}
}
