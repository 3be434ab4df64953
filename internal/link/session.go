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

// Package link runs one session over one transport: it frames outgoing
// requests, correlates responses to pending requests by token, drives the
// discovery handshake, and reports lifecycle events.
package link

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"swlink/third_party/forked/golang/glog"

	"swlink/pkg/catalog"
	swio "swlink/pkg/io"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/proto/coap"
	"swlink/pkg/proto/mup1"
	"swlink/pkg/util"
)

// TraceHook observes every raw frame crossing the transport, after
// encoding and before decoding. It runs on the session's goroutines and
// must not block.
type TraceHook func(outbound bool, raw []byte)

type coapResponse struct {
	token uint16
	msg   *coap.Message
}

// Session owns its transport. All protocol state (the pending tracker,
// the token counter, the handshake) is touched only by the run loop; the
// exported methods hand work to it over channels.
type Session struct {
	transport  swio.Transport
	config     Config
	tracker    *PendingTracker
	retryTimer *util.TimerWrapper
	state      int32
	sequence   uint16

	chRequest  chan *RequestContext
	chFrame    chan mup1.Frame
	chDone     chan struct{}
	chLoopDone chan struct{}
	chReady    chan struct{}
	readyOnce  sync.Once
	closeOnce  sync.Once

	mtx      sync.Mutex
	device   mup1.DeviceInfo
	checksum []byte

	mtxSub      sync.Mutex
	subscribers map[chan Event]struct{}

	traceHook TraceHook

	catalogToken   uint16
	catalogPending bool
}

func NewSession(transport swio.Transport, config Config) *Session {
	config.SetDefaultIfNotDefined()
	return &Session{
		transport:   transport,
		config:      config,
		tracker:     newPendingTracker(config.RequestTimeout),
		retryTimer:  util.NewTimerWrapper(config.RetryInterval),
		chRequest:   make(chan *RequestContext, config.RequestQueueLen),
		chFrame:     make(chan mup1.Frame, config.RequestQueueLen),
		chDone:      make(chan struct{}),
		chLoopDone:  make(chan struct{}),
		chReady:     make(chan struct{}),
		subscribers: make(map[chan Event]struct{}),
	}
}

// SetTraceHook must be called before Open.
func (s *Session) SetTraceHook(hook TraceHook) {
	s.traceHook = hook
}

// Open starts the reader and the run loop and initiates discovery.
func (s *Session) Open() {
	s.setState(StateAwaitingDiscovery)
	go s.readLoop()
	go s.runLoop()
}

func (s *Session) State() State {
	return State(atomic.LoadInt32(&s.state))
}

func (s *Session) setState(st State) {
	atomic.StoreInt32(&s.state, int32(st))
}

// DeviceInfo returns the identity parsed from the latest pong or
// announcement. Valid once the session has left AwaitingDiscovery.
func (s *Session) DeviceInfo() mup1.DeviceInfo {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.device
}

// CatalogChecksum returns the device's catalog checksum. Valid once the
// session is Ready.
func (s *Session) CatalogChecksum() []byte {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.checksum
}

func (s *Session) Subscribe(ch chan Event) {
	s.mtxSub.Lock()
	s.subscribers[ch] = struct{}{}
	s.mtxSub.Unlock()
}

func (s *Session) Unsubscribe(ch chan Event) {
	s.mtxSub.Lock()
	delete(s.subscribers, ch)
	s.mtxSub.Unlock()
}

func (s *Session) publish(ev Event) {
	s.mtxSub.Lock()
	defer s.mtxSub.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			glog.Warningf("slow subscriber, %s event dropped", ev.Kind)
		}
	}
}

// WaitReady blocks until the discovery handshake completes.
func (s *Session) WaitReady(timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.chReady:
		return nil
	case <-s.chLoopDone:
		return ErrDisconnected
	case <-timer.C:
		return ErrResponseTimeout
	}
}

// Do sends one request and blocks for its response or failure. Safe for
// concurrent use.
func (s *Session) Do(m *coap.Message) (*coap.Message, error) {
	chResponse := make(chan IResponseContext, 1)
	r := NewRequestContext(m, chResponse)
	select {
	case s.chRequest <- r:
	case <-s.chLoopDone:
		return nil, ErrDisconnected
	}
	select {
	case resp := <-chResponse:
		if err := resp.GetError(); err != nil {
			return nil, err
		}
		return resp.GetResponse(), nil
	case <-s.chLoopDone:
		return nil, ErrDisconnected
	}
}

func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.chDone)
		s.transport.Close()
		<-s.chLoopDone
	})
}

func (s *Session) trace(outbound bool, raw []byte) {
	if hook := s.traceHook; hook != nil {
		hook(outbound, raw)
	}
}

func (s *Session) readLoop() {
	defer close(s.chFrame)
	decoder := mup1.NewDecoder()
	decoder.SetErrorHook(func(err error) {
		glog.Warningf("stream: %v", err)
	})
	for chunk := range s.transport.Chunks() {
		s.trace(false, chunk)
		for _, f := range decoder.Feed(chunk) {
			select {
			case s.chFrame <- f:
			case <-s.chDone:
				return
			}
		}
	}
}

func (s *Session) runLoop() {
	defer close(s.chLoopDone)
	defer s.retryTimer.Stop()

	s.sendPing()
	s.retryTimer.Reset(s.config.RetryInterval)

	for {
		select {
		case <-s.chDone:
			s.tracker.ClearOnError(ErrDisconnected)
			s.setState(StateDisconnected)
			return
		case _, ok := <-s.retryTimer.GetTimeoutCh():
			s.retryTimer.Stop()
			if ok {
				s.onRetryTimer()
			}
		case now, ok := <-s.tracker.GetTimeoutCh():
			if ok {
				s.tracker.OnTimeout(now)
			}
		case r, ok := <-s.chRequest:
			if !ok {
				continue
			}
			s.handleRequest(r)
		case f, ok := <-s.chFrame:
			if !ok {
				err := s.transport.Err()
				if err == nil {
					err = ErrDisconnected
				}
				s.tracker.ClearOnError(ErrDisconnected)
				s.setState(StateDisconnected)
				s.publish(Event{Kind: EventDisconnected, Err: err})
				return
			}
			s.handleFrame(f)
		}
	}
}

// onRetryTimer nudges a stalled handshake: the ping or the catalog fetch
// may have been lost on the wire.
func (s *Session) onRetryTimer() {
	switch s.State() {
	case StateAwaitingDiscovery:
		s.sendPing()
		s.retryTimer.Reset(s.config.RetryInterval)
	case StateCatalogUnknown:
		s.fetchCatalogChecksum()
		s.retryTimer.Reset(s.config.RetryInterval)
	}
}

func (s *Session) handleRequest(r *RequestContext) {
	if s.State() != StateReady {
		r.ReplyError(ErrNotReady)
		return
	}
	token, err := s.sendRequest(r.GetRequest())
	if err != nil {
		glog.Errorf("send failed: %v", err)
		r.ReplyError(ErrDisconnected)
		return
	}
	r.token = token
	s.tracker.OnRequestSent(r, token)
}

func (s *Session) handleFrame(f mup1.Frame) {
	switch f.Type() {
	case mup1.TypePong, mup1.TypeAnnouncement:
		s.onIdentification(f)
	case mup1.TypeResponse:
		s.onResponse(f.Payload())
	case mup1.TypeTrace:
		glog.Infof("device: %s", string(f.Payload()))
	default:
		glog.Warningf("unhandled %s frame", f.Type())
	}
}

func (s *Session) onIdentification(f mup1.Frame) {
	info, err := mup1.ParseAnnouncement(f.Payload())
	if err != nil {
		glog.Warningf("%v: %q", err, f.Payload())
		return
	}
	s.mtx.Lock()
	s.device = info
	s.mtx.Unlock()
	if s.State() == StateAwaitingDiscovery {
		glog.Infof("discovered %s", info)
		s.setState(StateCatalogUnknown)
		s.publish(Event{Kind: EventDiscovered, Device: info})
		s.fetchCatalogChecksum()
		s.retryTimer.Reset(s.config.RetryInterval)
	}
}

func (s *Session) onResponse(payload []byte) {
	msg, err := coap.Decode(payload)
	if err != nil {
		glog.Warningf("bad response: %v", err)
		return
	}
	tok := msg.Token()
	if len(tok) != 2 {
		glog.Warningf("unexpected token length %d", len(tok))
		return
	}
	token := binary.BigEndian.Uint16(tok)
	if s.catalogPending && token == s.catalogToken {
		s.onCatalogResponse(msg)
		return
	}
	s.tracker.OnResponseReceived(&coapResponse{token: token, msg: msg})
}

func (s *Session) fetchCatalogChecksum() {
	req := coap.NewRequest(coap.MethodFetch, catalog.YangLibraryChecksumTarget, nil, 0)
	token, err := s.sendRequest(req)
	if err != nil {
		glog.Errorf("catalog fetch failed: %v", err)
		return
	}
	s.catalogToken = token
	s.catalogPending = true
}

func (s *Session) onCatalogResponse(msg *coap.Message) {
	s.catalogPending = false
	if !msg.Code().IsSuccess() {
		glog.Warningf("catalog fetch rejected: %s", msg.Code())
		return
	}
	var checksum []byte
	if msg.HasBody() {
		v, _, err := cbor.Decode(msg.Body())
		if err != nil {
			glog.Warningf("bad catalog checksum body: %v", err)
			return
		}
		switch v.Kind() {
		case cbor.KindBytes:
			checksum = append([]byte(nil), v.BytesValue()...)
		case cbor.KindText:
			checksum = []byte(v.Text())
		default:
			glog.Warningf("unexpected catalog checksum kind %s", v.Kind())
			return
		}
	}
	s.mtx.Lock()
	s.checksum = checksum
	s.mtx.Unlock()
	s.setState(StateReady)
	s.readyOnce.Do(func() { close(s.chReady) })
	s.retryTimer.Stop()
	s.publish(Event{Kind: EventCatalogReady, Checksum: checksum})
	glog.Infof("session ready, catalog %x", checksum)
}

func (s *Session) nextToken() uint16 {
	s.sequence++
	return s.sequence
}

// sendRequest assigns the token and message id, encodes and frames the
// request, and writes it out.
func (s *Session) sendRequest(m *coap.Message) (token uint16, err error) {
	token = s.nextToken()
	var tok [2]byte
	binary.BigEndian.PutUint16(tok[:], token)
	m.SetToken(tok[:])
	m.SetMessageID(token)
	var payload []byte
	if payload, err = m.Encode(); err != nil {
		return
	}
	err = s.sendFrame(mup1.TypeRequest, payload)
	return
}

func (s *Session) sendFrame(typ mup1.FrameType, payload []byte) error {
	raw, err := mup1.Encode(typ, payload)
	if err != nil {
		return err
	}
	s.trace(true, raw)
	_, err = s.transport.Write(raw)
	return err
}

func (s *Session) sendPing() {
	if err := s.sendFrame(mup1.TypePing, nil); err != nil {
		glog.Warningf("ping failed: %v", err)
	}
}
