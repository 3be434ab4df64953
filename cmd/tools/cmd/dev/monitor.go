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

package dev

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"swlink/pkg/catalog"
	"swlink/pkg/client"
)

type (
	cmdMonitorT struct {
		devCommandT
	}
	cmdAliasesT struct {
		devCommandT
	}
)

func (c *cmdMonitorT) Parse(args []string) (err error) {
	return c.devCommandT.Parse(args)
}

func (c *cmdMonitorT) Exec() {
	c.Validate()

	cli, err := client.New(c.Config)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cli.Close()

	chEvent := make(chan client.Event, 16)
	cli.Subscribe(chEvent)
	defer cli.Unsubscribe(chEvent)

	chSignal := make(chan os.Signal, 1)
	signal.Notify(chSignal, os.Interrupt)

	fmt.Printf("watching %s, press ^C to stop\n", c.Config.Device)
	for {
		select {
		case ev := <-chEvent:
			now := time.Now().Format("15:04:05.000")
			switch ev.Kind {
			case client.EventDiscovered:
				fmt.Printf("%s %-12s %s\n", now, ev.Kind, ev.Device)
			case client.EventCatalogReady:
				fmt.Printf("%s %-12s checksum=%x\n", now, ev.Kind, ev.Checksum)
			case client.EventDisconnected:
				fmt.Printf("%s %-12s %v\n", now, ev.Kind, ev.Err)
				return
			}
		case <-chSignal:
			return
		}
	}
}

// aliases needs no device, only the alias table.
func (c *cmdAliasesT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	if c.optCatalogFile != "" {
		c.aliases, err = catalog.LoadFile(c.optCatalogFile)
	} else {
		c.aliases = catalog.Default()
	}
	return
}

func (c *cmdAliasesT) Exec() {
	c.Validate()
	for _, name := range c.aliases.Names() {
		path, _ := c.aliases.Path(name)
		fmt.Printf("  %-16s %s\n", name, path)
	}
}
