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

package io

import (
	"sync"
)

// PipeTransport is one end of an in-memory duplex byte channel. Writes on
// one end surface as chunks on the other, preserving the caller's write
// boundaries. Used to attach a simulated device in tests and load drives.
type PipeTransport struct {
	peer    *PipeTransport
	chunks  chan []byte
	chDone  chan struct{}
	mtx     sync.Mutex
	writers sync.WaitGroup
	closed  bool
	once    sync.Once
}

// Pipe creates a connected transport pair.
func Pipe(config Config) (a, b *PipeTransport) {
	config.SetDefaultIfNotDefined()
	a = &PipeTransport{
		chunks: make(chan []byte, config.ChunkQueueLen),
		chDone: make(chan struct{}),
	}
	b = &PipeTransport{
		chunks: make(chan []byte, config.ChunkQueueLen),
		chDone: make(chan struct{}),
	}
	a.peer = b
	b.peer = a
	return
}

func (t *PipeTransport) Write(p []byte) (n int, err error) {
	chunk := make([]byte, len(p))
	copy(chunk, p)
	if !t.peer.deliver(chunk) {
		return 0, ErrTransportClosed
	}
	return len(p), nil
}

// deliver blocks outside the mutex, so a full queue cannot wedge Close.
func (t *PipeTransport) deliver(chunk []byte) bool {
	t.mtx.Lock()
	if t.closed {
		t.mtx.Unlock()
		return false
	}
	t.writers.Add(1)
	t.mtx.Unlock()
	defer t.writers.Done()

	select {
	case t.chunks <- chunk:
		return true
	case <-t.chDone:
		return false
	}
}

func (t *PipeTransport) Chunks() <-chan []byte {
	return t.chunks
}

// Err always returns nil: a pipe dies only by being closed.
func (t *PipeTransport) Err() error {
	return nil
}

// Close shuts down both ends.
func (t *PipeTransport) Close() error {
	t.closeEnd()
	t.peer.closeEnd()
	return nil
}

func (t *PipeTransport) closeEnd() {
	t.once.Do(func() {
		t.mtx.Lock()
		t.closed = true
		t.mtx.Unlock()
		// no new senders can register now; release the blocked ones,
		// then the chunk channel is safe to close
		close(t.chDone)
		t.writers.Wait()
		close(t.chunks)
	})
}
