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

// Package trace captures raw frames crossing a session's transport into
// a compressed capture file, for offline protocol debugging.
package trace

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/snappy"
	uuid "github.com/satori/go.uuid"
)

const (
	kVersion      uint8 = 1
	kHeaderSize         = 21
	kRecordHdrLen       = 13
)

var captureMagic = [4]byte{'S', 'W', 'T', 'R'}

// Entry is one captured frame.
type Entry struct {
	Outbound bool
	Offset   time.Duration
	Raw      []byte
}

// Recorder writes a capture: a fixed header identifying the session,
// followed by a snappy stream of timestamped frame records. Record is
// safe for concurrent use.
type Recorder struct {
	mtx     sync.Mutex
	sink    io.WriteCloser
	zw      *snappy.Writer
	session uuid.UUID
	start   time.Time
	closed  bool
}

func NewRecorder(sink io.WriteCloser) (r *Recorder, err error) {
	r = &Recorder{
		sink:    sink,
		session: uuid.NewV1(),
		start:   time.Now(),
	}
	var header [kHeaderSize]byte
	copy(header[:4], captureMagic[:])
	header[4] = kVersion
	copy(header[5:], r.session.Bytes())
	if _, err = sink.Write(header[:]); err != nil {
		return nil, err
	}
	r.zw = snappy.NewBufferedWriter(sink)
	return
}

func NewFileRecorder(path string) (*Recorder, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return NewRecorder(file)
}

func (r *Recorder) SessionID() uuid.UUID {
	return r.session
}

// Record appends one frame. It matches the session trace hook signature.
func (r *Recorder) Record(outbound bool, raw []byte) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return
	}
	var hdr [kRecordHdrLen]byte
	if outbound {
		hdr[0] = 1
	}
	binary.BigEndian.PutUint64(hdr[1:9], uint64(time.Since(r.start)))
	binary.BigEndian.PutUint32(hdr[9:13], uint32(len(raw)))
	if _, err := r.zw.Write(hdr[:]); err != nil {
		return
	}
	r.zw.Write(raw)
}

func (r *Recorder) Close() (err error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if err = r.zw.Close(); err != nil {
		r.sink.Close()
		return
	}
	return r.sink.Close()
}

// Reader replays a capture.
type Reader struct {
	src     io.ReadCloser
	zr      *snappy.Reader
	session uuid.UUID
}

func NewReader(src io.ReadCloser) (r *Reader, err error) {
	var header [kHeaderSize]byte
	if _, err = io.ReadFull(src, header[:]); err != nil {
		return
	}
	if [4]byte{header[0], header[1], header[2], header[3]} != captureMagic {
		return nil, fmt.Errorf("not a capture file")
	}
	if header[4] != kVersion {
		return nil, fmt.Errorf("unsupported capture version %d", header[4])
	}
	r = &Reader{src: src, zr: snappy.NewReader(src)}
	copy(r.session[:], header[5:])
	return
}

func OpenFile(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) SessionID() uuid.UUID {
	return r.session
}

// Next returns the next captured frame, io.EOF at the end.
func (r *Reader) Next() (e Entry, err error) {
	var hdr [kRecordHdrLen]byte
	if _, err = io.ReadFull(r.zr, hdr[:]); err != nil {
		return
	}
	e.Outbound = hdr[0] != 0
	e.Offset = time.Duration(binary.BigEndian.Uint64(hdr[1:9]))
	e.Raw = make([]byte, binary.BigEndian.Uint32(hdr[9:13]))
	if _, err = io.ReadFull(r.zr, e.Raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
	}
	return
}

func (r *Reader) Close() error {
	return r.src.Close()
}
