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
	stdio "io"
	"os"
	"sync"
)

// FileTransport adapts an already-configured character device node (a
// serial port set up outside this process) or any other file handle to
// the Transport interface. One goroutine drains the file into the chunk
// channel.
type FileTransport struct {
	file      *os.File
	chunks    chan []byte
	config    Config
	mtxWrite  sync.Mutex
	mtxErr    sync.Mutex
	err       error
	closeOnce sync.Once
	closed    bool
}

// OpenFileTransport opens the device node read/write and starts the
// reader.
func OpenFileTransport(path string, config Config) (t *FileTransport, err error) {
	var file *os.File
	if file, err = os.OpenFile(path, os.O_RDWR, 0); err != nil {
		return
	}
	t = NewFileTransport(file, config)
	return
}

// NewFileTransport wraps an open file. It takes ownership: Close closes
// the file.
func NewFileTransport(file *os.File, config Config) *FileTransport {
	config.SetDefaultIfNotDefined()
	t := &FileTransport{
		file:   file,
		chunks: make(chan []byte, config.ChunkQueueLen),
		config: config,
	}
	go t.readLoop()
	return t
}

func (t *FileTransport) readLoop() {
	defer close(t.chunks)
	buf := make([]byte, t.config.ReadBufSize)
	for {
		n, err := t.file.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			t.chunks <- chunk
		}
		if err != nil {
			if err != stdio.EOF {
				t.setErr(err)
			}
			return
		}
	}
}

func (t *FileTransport) setErr(err error) {
	t.mtxErr.Lock()
	// a read error after Close is the close itself, not a fault
	if t.err == nil && !t.closed {
		t.err = err
	}
	t.mtxErr.Unlock()
}

func (t *FileTransport) Write(p []byte) (n int, err error) {
	t.mtxWrite.Lock()
	defer t.mtxWrite.Unlock()
	t.mtxErr.Lock()
	closed := t.closed
	t.mtxErr.Unlock()
	if closed {
		return 0, ErrTransportClosed
	}
	return t.file.Write(p)
}

func (t *FileTransport) Chunks() <-chan []byte {
	return t.chunks
}

func (t *FileTransport) Err() error {
	t.mtxErr.Lock()
	defer t.mtxErr.Unlock()
	return t.err
}

func (t *FileTransport) Close() (err error) {
	t.closeOnce.Do(func() {
		t.mtxErr.Lock()
		t.closed = true
		t.mtxErr.Unlock()
		err = t.file.Close()
	})
	return
}
