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

package mup1

import (
	"fmt"
	"strconv"
	"strings"
)

// DeviceInfo is the parsed identification string a device sends in a pong
// or announcement frame.
type DeviceInfo struct {
	Name       string
	Version    string
	Platform   string
	MaxFrame   int
	ProtoMajor int
	ProtoMinor int
}

func (i DeviceInfo) String() string {
	return fmt.Sprintf("%s v%s on %s (maxframe=%d proto=%d.%d)",
		i.Name, i.Version, i.Platform, i.MaxFrame, i.ProtoMajor, i.ProtoMinor)
}

// ParseAnnouncement parses the identification payload, e.g.
//
//	VelocitySP-v2025.03-LAN9662-ung8291 300 2 1
//
// The grammar is fixed: an identity of name, 'v'-prefixed version and
// platform joined by dashes (the platform keeps any embedded dashes),
// followed by three space-separated numeric parameters.
func ParseAnnouncement(payload []byte) (info DeviceInfo, err error) {
	fields := strings.Fields(string(payload))
	if len(fields) != 4 {
		err = ErrBadAnnouncement
		return
	}
	ident := strings.SplitN(fields[0], "-", 3)
	if len(ident) != 3 || !strings.HasPrefix(ident[1], "v") || len(ident[1]) < 2 {
		err = ErrBadAnnouncement
		return
	}
	info.Name = ident[0]
	info.Version = ident[1][1:]
	info.Platform = ident[2]

	params := [3]*int{&info.MaxFrame, &info.ProtoMajor, &info.ProtoMinor}
	for i, p := range params {
		var v int
		if v, err = strconv.Atoi(fields[i+1]); err != nil {
			err = ErrBadAnnouncement
			return
		}
		*p = v
	}
	return
}
