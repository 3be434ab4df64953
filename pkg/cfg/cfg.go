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

// package cfg implements functionalites for TOML configuration handling.
package cfg

import (
	"bytes"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

type (
	// Config is a case-insensitive property container used to layer a
	// configuration file over compiled-in defaults before writing the
	// merged result back into a typed struct.
	//
	// Note: It is not thread/goroutine safe.
	Config struct {
		kvMap map[string]interface{}
	}
)

// ReadFrom reads configuration properties from i, which points to a struct
// or a map.
func (c *Config) ReadFrom(i interface{}) (err error) {
	var buf bytes.Buffer
	if i != nil {
		enc := toml.NewEncoder(&buf)
		if err = enc.Encode(i); err != nil {
			return
		}
	}
	return c.ReadFromToml(&buf)
}

// ReadFromToml reads configuration properties in TOML format
func (c *Config) ReadFromToml(r io.Reader) (err error) {
	m := make(map[string]interface{})
	if _, err = toml.NewDecoder(r).Decode(&m); err == nil {
		c.setFrom(m)
	}
	return
}

// ReadFromTomlFile reads configuration properties from a file in TOML format
func (c *Config) ReadFromTomlFile(file string) (err error) {
	m := make(map[string]interface{})
	if _, err = toml.DecodeFile(file, &m); err == nil {
		c.setFrom(m)
	}
	return
}

// WriteTo writes the configuration properties to a struct or map
func (c *Config) WriteTo(v interface{}) (err error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err = enc.Encode(c.toMap()); err != nil {
		return
	}
	_, err = toml.Decode(buf.String(), v)
	return
}

// Merge merges the properties from another Config. Keys are case
// insensitive; the value for a matching key is overridden, nested tables
// are merged recursively.
func (c *Config) Merge(overrides *Config) {
	if overrides == nil {
		return
	}
	if c.kvMap == nil {
		c.kvMap = make(map[string]interface{})
	}
	mergeMap(c.kvMap, overrides.kvMap)
}

func (c *Config) setFrom(m map[string]interface{}) {
	if c.kvMap == nil {
		c.kvMap = make(map[string]interface{})
	}
	for k, v := range m {
		c.kvMap[strings.ToLower(k)] = normalize(v)
	}
}

func (c *Config) toMap() map[string]interface{} {
	if c.kvMap == nil {
		return map[string]interface{}{}
	}
	return c.kvMap
}

func normalize(v interface{}) interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		nm := make(map[string]interface{}, len(m))
		for k, mv := range m {
			nm[strings.ToLower(k)] = normalize(mv)
		}
		return nm
	}
	return v
}

func mergeMap(dst, src map[string]interface{}) {
	for k, sv := range src {
		if dv, found := dst[k]; found {
			dm, dok := dv.(map[string]interface{})
			sm, sok := sv.(map[string]interface{})
			if dok && sok {
				mergeMap(dm, sm)
				continue
			}
		}
		dst[k] = sv
	}
}
