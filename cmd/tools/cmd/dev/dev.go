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
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"swlink/third_party/forked/golang/glog"

	"swlink/pkg/catalog"
	"swlink/pkg/client"
	"swlink/pkg/cmd"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/util"
)

const (
	kClientAppName = "swlinkcli"
)

type (
	devCommandT struct {
		cmd.Command
		client.Config

		aliases *catalog.Catalog

		optLogLevel    string
		optCfgFile     string
		optDevice      string
		optTraceFile   string
		optCatalogFile string
		optTimeout     uint
	}
	targetCommandT struct {
		devCommandT
		target string
	}
	targetCommandWithValueT struct {
		targetCommandT
		value     cbor.Value
		valueType uint
	}

	cmdPingT struct {
		devCommandT
	}
	cmdGetT struct {
		targetCommandT
	}
	cmdFetchT struct {
		targetCommandWithValueT
	}
	cmdSetT struct {
		targetCommandWithValueT
	}
	cmdCreateT struct {
		targetCommandWithValueT
	}
	cmdDeleteT struct {
		targetCommandT
	}
)

func (c *devCommandT) Init(name string, desc string) {
	c.Command.Init(name, desc)
	c.Config.SetDefault()

	c.StringOption(&c.optDevice, "d|device", "", "specify device node, e.g. /dev/ttyACM0")
	c.StringOption(&c.optLogLevel, "log-level", "info", "specify log level")
	c.StringOption(&c.optCfgFile, "c|config", "", "specify toml configuration file name")
	c.StringOption(&c.optTraceFile, "trace", "", "capture raw frames to the given file")
	c.StringOption(&c.optCatalogFile, "catalog", "", "specify a yaml file with extra target aliases")
	c.UintOption(&c.optTimeout, "t|timeout", 0, "specify request timeout in milliseconds")
	c.SetSynopsis("[option] <target>")
}

func (c *devCommandT) Parse(args []string) (err error) {
	if err = c.Command.Parse(args); err != nil {
		return
	}
	glog.InitLogging(c.optLogLevel, " [cli] ")
	if len(c.optCfgFile) != 0 {
		if c.Config, err = client.LoadConfig(c.optCfgFile); err != nil {
			glog.Exitf("failed to load config file %s. %s", c.optCfgFile, err)
		}
	}
	if c.optDevice != "" {
		c.Config.Device = c.optDevice
	}
	if c.optTraceFile != "" {
		c.Config.TraceFile = c.optTraceFile
	}
	if c.optTimeout != 0 {
		c.Config.RequestTimeout = util.Duration{Duration: time.Duration(c.optTimeout) * time.Millisecond}
	}
	if c.Config.Appname == "" {
		c.Config.Appname = kClientAppName
	}
	if c.Config.Device == "" {
		err = fmt.Errorf("missing device")
		return
	}
	if c.optCatalogFile != "" {
		c.aliases, err = catalog.LoadFile(c.optCatalogFile)
	} else {
		c.aliases = catalog.Default()
	}
	return
}

func (c *devCommandT) newClient() (cli client.IClient, err error) {
	if cli, err = client.New(c.Config); err != nil {
		return
	}
	if err = cli.WaitReady(0); err != nil {
		cli.Close()
		cli = nil
	}
	return
}

func (c *devCommandT) isOk(err error) bool {
	if err == nil {
		fmt.Printf("* command '%s' successful\n", c.GetName())
		return true
	}
	fmt.Printf("* command '%s' failed: %s\n", c.GetName(), err)
	return false
}

func (c *targetCommandT) Parse(args []string) (err error) {
	if err = c.devCommandT.Parse(args); err != nil {
		return
	}
	if c.NArg() < 1 {
		err = fmt.Errorf("missing target")
		return
	}
	c.target, err = c.aliases.Resolve(c.Arg(0))
	return
}

func (c *targetCommandWithValueT) Init(name string, desc string) {
	c.targetCommandT.Init(name, desc)
	c.UintOption(&c.valueType, "vt|value-type", 0, "specify the type of the value. \n   \t0 - text\n   \t1 - hex bytes\n   \t2 - integer\n   \t3 - float\n   \t4 - bool\n   \t5 - null")
	c.SetSynopsis("[option] <target> <value>")
}

func (c *targetCommandWithValueT) Parse(args []string) (err error) {
	if err = c.targetCommandT.Parse(args); err != nil {
		return
	}
	if c.valueType == 5 {
		c.value = cbor.Null()
		return
	}
	if c.NArg() < 2 {
		err = fmt.Errorf("missing value")
		return
	}
	c.value, err = parseValue(c.valueType, c.Arg(1))
	return
}

func parseValue(valueType uint, arg string) (v cbor.Value, err error) {
	switch valueType {
	case 0:
		v = cbor.Text(arg)
	case 1:
		var b []byte
		if b, err = hex.DecodeString(arg); err == nil {
			v = cbor.Bytes(b)
		}
	case 2:
		var i int64
		if i, err = strconv.ParseInt(arg, 10, 64); err == nil {
			v = cbor.Int(i)
		}
	case 3:
		var f float64
		if f, err = strconv.ParseFloat(arg, 64); err == nil {
			v = cbor.Float(f)
		}
	case 4:
		var b bool
		if b, err = strconv.ParseBool(arg); err == nil {
			v = cbor.Bool(b)
		}
	case 5:
		v = cbor.Null()
	default:
		err = fmt.Errorf("not supported")
	}
	return
}

func (c *cmdPingT) Parse(args []string) (err error) {
	return c.devCommandT.Parse(args)
}

func (c *cmdPingT) Exec() {
	c.Validate()

	cli, err := c.newClient()
	if !c.isOk(err) {
		return
	}
	defer cli.Close()
	fmt.Printf("Device  : %s\n", cli.DeviceInfo())
	fmt.Printf("Catalog : %x\n", cli.CatalogChecksum())
}

func (c *cmdGetT) Exec() {
	c.Validate()

	cli, err := c.newClient()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cli.Close()
	value, err := cli.Get(c.target)
	if c.isOk(err) {
		fmt.Printf("Value: %s\n", value)
	}
}

func (c *cmdFetchT) Exec() {
	c.Validate()

	cli, err := c.newClient()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cli.Close()
	value, err := cli.Fetch(c.target, c.value)
	if c.isOk(err) {
		fmt.Printf("Value: %s\n", value)
	}
}

func (c *cmdFetchT) Parse(args []string) (err error) {
	if err = c.targetCommandT.Parse(args); err != nil {
		return
	}
	// the selector body is optional on fetch
	c.value = cbor.Null()
	if c.NArg() >= 2 {
		c.value, err = parseValue(c.valueType, c.Arg(1))
	}
	return
}

func (c *cmdSetT) Exec() {
	c.Validate()

	cli, err := c.newClient()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cli.Close()
	c.isOk(cli.Set(c.target, c.value))
}

func (c *cmdCreateT) Exec() {
	c.Validate()

	cli, err := c.newClient()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cli.Close()
	c.isOk(cli.Create(c.target, c.value))
}

func (c *cmdDeleteT) Exec() {
	c.Validate()

	cli, err := c.newClient()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer cli.Close()
	c.isOk(cli.Destroy(c.target))
}

func init() {
	ping := &cmdPingT{}
	ping.Init("ping", "discover the device and print its identity")

	get := &cmdGetT{}
	get.Init("get", "read the value of a target")

	fetch := &cmdFetchT{}
	fetch.Init("fetch", "bulk-read a target subtree")

	set := &cmdSetT{}
	set.Init("set", "write the value of a target")

	create := &cmdCreateT{}
	create.Init("create", "create a target entry")

	del := &cmdDeleteT{}
	del.Init("delete", "delete a target entry")

	monitor := &cmdMonitorT{}
	monitor.Init("monitor", "watch session events until interrupted")

	aliases := &cmdAliasesT{}
	aliases.Init("aliases", "list the known target aliases")

	cmd.RegisterNewGroup("device commands", ping, get, fetch, set, create, del, monitor, aliases)
}
