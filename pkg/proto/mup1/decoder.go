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

type decodeState uint8

const (
	stateSync decodeState = iota
	stateType
	stateData
	stateEOF
	stateChecksum
)

// Decoder turns an arbitrarily chunked byte stream back into frames. It
// is re-entrant: a frame split anywhere across Feed calls is buffered and
// yielded once its terminator and checksum have fully arrived. A frame
// that fails its checksum is dropped and reported through the error hook;
// the stream keeps being parsed.
//
// Not safe for concurrent use; one reader task owns a Decoder.
type Decoder struct {
	state   decodeState
	typ     FrameType
	payload []byte
	span    []byte
	escaped bool
	cks     uint16
	cksLen  int
	skipped int
	onError func(error)
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// SetErrorHook installs a callback for non-fatal stream diagnostics
// (checksum mismatches, desync spans, oversized frames).
func (d *Decoder) SetErrorHook(hook func(error)) {
	d.onError = hook
}

func (d *Decoder) reportError(err error) {
	if d.onError != nil {
		d.onError(err)
	}
}

// Feed consumes one chunk and returns the frames completed by it.
func (d *Decoder) Feed(chunk []byte) (frames []Frame) {
	for _, b := range chunk {
		switch d.state {
		case stateSync:
			if b == kSOF {
				d.startFrame()
				break
			}
			d.skipped++
			if d.skipped >= kDesyncSpan {
				d.reportError(ErrProtocolDesync)
				d.skipped = 0
			}
		case stateType:
			d.typ = FrameType(b)
			d.span = append(d.span, b)
			d.state = stateData
		case stateData:
			frames = d.feedData(b, frames)
		case stateEOF:
			if b == kEOF {
				d.span = append(d.span, b)
				d.state = stateChecksum
				break
			}
			frames = d.feedChecksum(b, frames)
		case stateChecksum:
			frames = d.feedChecksum(b, frames)
		}
	}
	return
}

func (d *Decoder) feedData(b byte, frames []Frame) []Frame {
	switch {
	case d.escaped:
		d.escaped = false
		d.span = append(d.span, b)
		d.payload = append(d.payload, b)
	case b == kESC:
		d.span = append(d.span, b)
		d.escaped = true
	case b == kEOF:
		d.span = append(d.span, b)
		d.state = stateEOF
		return frames
	case b == kSOF:
		// an unescaped start marker means the previous frame was
		// truncated; resynchronize on the new one
		d.startFrame()
		return frames
	default:
		d.span = append(d.span, b)
		d.payload = append(d.payload, b)
	}
	if len(d.payload) > kMaxPayloadSize {
		d.reportError(ErrFrameTooLarge)
		d.reset()
	}
	return frames
}

func (d *Decoder) feedChecksum(b byte, frames []Frame) []Frame {
	v, ok := hexNibble(b)
	if !ok {
		if b == kSOF {
			d.startFrame()
			return frames
		}
		d.reportError(ErrChecksumMismatch)
		d.reset()
		return frames
	}
	d.cks = d.cks<<4 | v
	d.cksLen++
	if d.cksLen < kChecksumLen {
		d.state = stateChecksum
		return frames
	}
	if d.cks == checksum(d.span) {
		payload := make([]byte, len(d.payload))
		copy(payload, d.payload)
		frames = append(frames, Frame{typ: d.typ, payload: payload})
	} else {
		d.reportError(ErrChecksumMismatch)
	}
	d.reset()
	return frames
}

func (d *Decoder) startFrame() {
	d.state = stateType
	d.span = append(d.span[:0], kSOF)
	d.payload = d.payload[:0]
	d.escaped = false
	d.cks = 0
	d.cksLen = 0
	d.skipped = 0
}

func (d *Decoder) reset() {
	d.state = stateSync
	d.span = d.span[:0]
	d.payload = d.payload[:0]
	d.escaped = false
	d.cks = 0
	d.cksLen = 0
}
