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
package main

import (
	"fmt"
	"sync"
	"time"

	"swlink/pkg/client"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/stats"
)

type (
	TestEngine struct {
		id              int
		reqSequence     RequestSequence
		client          client.IClient
		stats           *stats.Statistics
		movingStats     *stats.Statistics
		numReqPerSecond int
		targetBase      string
		payload         cbor.Value

		seq         int
		lastCreated string
		invokeFuncs [5]InvokeFunc
	}
	InvokeFunc func() error
)

func (e *TestEngine) Init() {
	e.invokeFuncs[stats.RequestTypeGet] = e.invokeGet
	e.invokeFuncs[stats.RequestTypeFetch] = e.invokeFetch
	e.invokeFuncs[stats.RequestTypeSet] = e.invokeSet
	e.invokeFuncs[stats.RequestTypeCreate] = e.invokeCreate
	e.invokeFuncs[stats.RequestTypeDestroy] = e.invokeDestroy
}

func (e *TestEngine) target() string {
	return fmt.Sprintf("%s/entry-%d", e.targetBase, e.id)
}

func (e *TestEngine) invokeGet() error {
	_, err := e.client.Get(e.target())
	return err
}

func (e *TestEngine) invokeFetch() error {
	_, err := e.client.Fetch(e.target(), cbor.Null())
	return err
}

func (e *TestEngine) invokeSet() error {
	return e.client.Set(e.target(), e.payload)
}

func (e *TestEngine) invokeCreate() error {
	e.seq++
	target := fmt.Sprintf("%s/new-%d-%d", e.targetBase, e.id, e.seq)
	if err := e.client.Create(target, e.payload); err != nil {
		return err
	}
	e.lastCreated = target
	return nil
}

func (e *TestEngine) invokeDestroy() error {
	target := e.lastCreated
	if target == "" {
		target = e.target()
	}
	e.lastCreated = ""
	return e.client.Destroy(target)
}

func (e *TestEngine) Run(wg *sync.WaitGroup, chDone <-chan bool) {
	defer wg.Done()

	interval := time.Duration(0)
	if e.numReqPerSecond > 0 {
		interval = time.Second / time.Duration(e.numReqPerSecond)
	}
	// seed the working entry so the read requests have something to hit
	e.client.Set(e.target(), e.payload)

	for {
		for _, item := range e.reqSequence.items {
			for i := 0; i < item.numRequests; i++ {
				select {
				case <-chDone:
					return
				default:
				}
				tmStart := time.Now()
				err := e.invokeFuncs[item.reqType]()
				elapsed := time.Since(tmStart)
				e.stats.Put(item.reqType, elapsed, err)
				e.movingStats.Put(item.reqType, elapsed, err)
				if sleep := interval - elapsed; sleep > 0 {
					time.Sleep(sleep)
				}
			}
		}
	}
}
