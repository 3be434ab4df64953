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

package client

import (
	"swlink/internal/link"
	"swlink/pkg/proto/coap"
)

// Error wraps an unsuccessful device response code.
type Error struct {
	what string
	code coap.Code
}

func (e *Error) Error() string {
	return e.what
}

func (e *Error) Code() coap.Code {
	return e.code
}

var (
	ErrNoTarget       error // target path does not exist on the device
	ErrBadRequest     error // the device rejected the request as malformed
	ErrBadOption      error // the device rejected a request option
	ErrUnauthorized   error // the device refused access to the target
	ErrNotAllowed     error // the method is not allowed on the target
	ErrDeviceInternal error // the device failed internally
	ErrOpNotSupported error // the device does not implement the method

	ErrNotReady        = link.ErrNotReady
	ErrResponseTimeout = link.ErrResponseTimeout
	ErrDisconnected    = link.ErrDisconnected
)

// errorMapping maps device response codes to their errors.
var errorMapping map[coap.Code]error

func init() {
	ErrNoTarget = &Error{"no target", coap.CodeNotFound}
	ErrBadRequest = &Error{"bad request", coap.CodeBadRequest}
	ErrBadOption = &Error{"bad option", coap.CodeBadOption}
	ErrUnauthorized = &Error{"unauthorized", coap.CodeUnauthorized}
	ErrNotAllowed = &Error{"method not allowed", coap.CodeNotAllowed}
	ErrDeviceInternal = &Error{"device internal error", coap.CodeInternalErr}
	ErrOpNotSupported = &Error{"method not implemented", coap.CodeNotImpl}

	errorMapping = map[coap.Code]error{
		coap.CodeCreated:      nil,
		coap.CodeDeleted:      nil,
		coap.CodeValid:        nil,
		coap.CodeChanged:      nil,
		coap.CodeContent:      nil,
		coap.CodeBadRequest:   ErrBadRequest,
		coap.CodeUnauthorized: ErrUnauthorized,
		coap.CodeBadOption:    ErrBadOption,
		coap.CodeNotFound:     ErrNoTarget,
		coap.CodeNotAllowed:   ErrNotAllowed,
		coap.CodeInternalErr:  ErrDeviceInternal,
		coap.CodeNotImpl:      ErrOpNotSupported,
	}
}

func checkResponse(response *coap.Message) (err error) {
	var ok bool
	if err, ok = errorMapping[response.Code()]; !ok {
		err = ErrDeviceInternal
	}
	return
}
