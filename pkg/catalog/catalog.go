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

// Package catalog maps short alias names to the full datastore paths a
// device serves, so tools can say "platform" instead of spelling out the
// module-qualified path.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// YangLibraryChecksumTarget is the path a session fetches right after
// discovery to learn which catalog build the device runs.
const YangLibraryChecksumTarget = "/ietf-constrained-yang-library:yang-library/checksum"

var defaultAliases = map[string]string{
	"yang-checksum": YangLibraryChecksumTarget,
	"platform":      "/ietf-system:system-state/platform",
	"clock":         "/ietf-system:system-state/clock",
	"interfaces":    "/ietf-interfaces:interfaces",
	"bridge":        "/ieee802-dot1q-bridge:bridges",
}

type Catalog struct {
	aliases map[string]string
}

// Default returns the built-in alias set.
func Default() *Catalog {
	c := &Catalog{aliases: make(map[string]string, len(defaultAliases))}
	for k, v := range defaultAliases {
		c.aliases[k] = v
	}
	return c
}

// LoadFile merges aliases from a YAML file (a flat mapping of alias to
// path) over the built-in set. File entries win on collision.
func LoadFile(path string) (c *Catalog, err error) {
	var raw []byte
	if raw, err = os.ReadFile(path); err != nil {
		return
	}
	loaded := make(map[string]string)
	if err = yaml.Unmarshal(raw, &loaded); err != nil {
		return
	}
	c = Default()
	for k, v := range loaded {
		if !strings.HasPrefix(v, "/") {
			return nil, fmt.Errorf("alias %q: path %q is not absolute", k, v)
		}
		c.aliases[k] = v
	}
	return
}

// Resolve maps an alias to its path. A name already starting with '/' is
// taken as a literal path.
func (c *Catalog) Resolve(name string) (path string, err error) {
	if strings.HasPrefix(name, "/") {
		return name, nil
	}
	var ok bool
	if path, ok = c.aliases[name]; !ok {
		err = fmt.Errorf("unknown alias %q", name)
	}
	return
}

// Names returns the known aliases in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.aliases))
	for k := range c.aliases {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Path(name string) (string, bool) {
	p, ok := c.aliases[name]
	return p, ok
}
