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

// Package io provides the byte transport abstraction under the frame
// codec: a writable sink plus a source of arbitrarily chunked reads with
// no framing or alignment guarantees.
package io

type (
	// Transport is one open byte channel to a peer. Chunks() delivers
	// reads in whatever sizes the underlying device produces and is
	// closed when the transport dies; Err() then reports why (nil for
	// a clean local Close).
	Transport interface {
		Write(p []byte) (n int, err error)
		Chunks() <-chan []byte
		Err() error
		Close() error
	}
)

type TransportError struct {
	what string
}

func (e *TransportError) Error() string {
	return "TransportError: " + e.what
}

var (
	ErrTransportClosed = &TransportError{"transport closed"}
)
