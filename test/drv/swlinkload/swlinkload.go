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
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"

	"swlink/third_party/forked/golang/glog"

	"github.com/BurntSushi/toml"

	"swlink/pkg/client"
	"swlink/pkg/cmd"
	swio "swlink/pkg/io"
	"swlink/pkg/proto/cbor"
	"swlink/pkg/stats"
	"swlink/pkg/version"
	"swlink/test/testutil/mockdev"
)

type (
	SyncTestDriver struct {
		cmd.Command

		cmdOpts CmdOptions
		config  Config

		reqSequence RequestSequence
		stats       stats.Statistics
		movingStats stats.Statistics
		tmStart     time.Time

		client client.IClient
		mock   *mockdev.Device
	}
	CmdOptions struct {
		cfgFile string

		device          string
		useMock         bool
		requestPattern  string
		numExecutor     int
		payloadLen      int
		numReqPerSecond int
		runningTime     int
		statOutputRate  int
		logLevel        string
		version         bool
	}
	Config struct {
		client.Config
		RequestPattern  string
		TargetBase      string
		NumExecutor     int
		PayloadLen      int
		NumReqPerSecond int
		RunningTime     int
		StatOutputRate  int
		UseMock         bool
	}
)

var (
	td                     = SyncTestDriver{}
	kDefaultRequestPattern = "S:1,G:1,F:1,C:1,D:1"
)

const (
	kDefaultPayloadLength   = 64
	kDefaultNumReqPerSecond = 100
	kDefaultNumExecutor     = 1
	kDefaultRunningTime     = 100
	kDefaultStatOutputRate  = 10
	kDefaultTargetBase      = "/swlink-load:scratch"
)

func (d *SyncTestDriver) setDefaultConfig() {
	d.config.Config.SetDefault()
	d.config.Appname = "swlinkload"
	d.config.RequestPattern = kDefaultRequestPattern
	d.config.TargetBase = kDefaultTargetBase
	d.config.NumExecutor = kDefaultNumExecutor
	d.config.PayloadLen = kDefaultPayloadLength
	d.config.NumReqPerSecond = kDefaultNumReqPerSecond
	d.config.RunningTime = kDefaultRunningTime
	d.config.StatOutputRate = kDefaultStatOutputRate
}

func (d *SyncTestDriver) Init(name string, desc string) {
	d.Command.Init(name, desc)
	d.StringOption(&d.cmdOpts.device, "d|device", "", "specify device node")
	d.BoolOption(&d.cmdOpts.useMock, "mock", false, "drive a simulated in-memory device instead of hardware")
	d.StringOption(&d.cmdOpts.cfgFile, "c|config", "", "specify toml configuration file name")
	d.StringOption(&d.cmdOpts.requestPattern, "p|request-pattern", kDefaultRequestPattern, `specify request pattern, a sequence of requests to be
	invoked in format
	  <Req>:<num>[{,<Req>:<num>}]
	Supported type of Requests:
	  G    GET
	  F    FETCH
	  S    SET
	  C    CREATE
	  D    DESTROY
	`)
	d.IntOption(&d.cmdOpts.numExecutor, "n|num-executor", kDefaultNumExecutor, "specify the number of executors to be running in parallel")
	d.IntOption(&d.cmdOpts.payloadLen, "l|payload-length", kDefaultPayloadLength, "specify payload length")
	d.IntOption(&d.cmdOpts.numReqPerSecond, "f|num-req-per-second", kDefaultNumReqPerSecond, "specify expected throughput (number of requests per second)")
	d.IntOption(&d.cmdOpts.runningTime, "t|running-time", kDefaultRunningTime, "specify driver's running time in second")
	d.IntOption(&d.cmdOpts.statOutputRate, "o|stat-output-rate", kDefaultStatOutputRate, "specify how often to output statistic information in second\n\tfor the period of time.")
	d.StringOption(&d.cmdOpts.logLevel, "log-level", "warning", "specify log level")
	d.BoolOption(&d.cmdOpts.version, "version", false, "display version information.")

	t := &SyncTestDriver{}
	t.setDefaultConfig()

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.Encode(&t.config)
	d.AddDetails("\tConfig properties and default values if not defined:\n" +
		"\t\t" + strings.Replace(buf.String(), "\n", "\n\t\t", -1))

	d.AddExample(name+" -d /dev/ttyACM0",
		"\trun the driver against the device on /dev/ttyACM0 with default options")
	d.AddExample(name+" -mock -n 4",
		"\trun the driver with 4 executors against a simulated device")
	d.AddExample(name+" -c config.toml", "\trun the driver with options specified in config.toml")
}

func (d *SyncTestDriver) Parse(args []string) (err error) {
	if err = d.FlagSet.Parse(args); err != nil {
		return
	}
	d.setDefaultConfig()

	if len(d.cmdOpts.cfgFile) != 0 {
		if _, err := toml.DecodeFile(d.cmdOpts.cfgFile, &d.config); err != nil {
			glog.Exitf("failed to load config file %s. %s", d.cmdOpts.cfgFile, err)
		}
	}
	if d.cmdOpts.device != "" {
		d.config.Device = d.cmdOpts.device
	}
	if d.cmdOpts.useMock {
		d.config.UseMock = true
	}
	if d.cmdOpts.requestPattern != kDefaultRequestPattern {
		d.config.RequestPattern = d.cmdOpts.requestPattern
	}
	if d.cmdOpts.numExecutor != kDefaultNumExecutor {
		d.config.NumExecutor = d.cmdOpts.numExecutor
	}
	if d.cmdOpts.payloadLen != kDefaultPayloadLength {
		d.config.PayloadLen = d.cmdOpts.payloadLen
	}
	if d.cmdOpts.numReqPerSecond != kDefaultNumReqPerSecond {
		d.config.NumReqPerSecond = d.cmdOpts.numReqPerSecond
	}
	if d.cmdOpts.runningTime != kDefaultRunningTime {
		d.config.RunningTime = d.cmdOpts.runningTime
	}
	if d.cmdOpts.statOutputRate != kDefaultStatOutputRate {
		d.config.StatOutputRate = d.cmdOpts.statOutputRate
	}
	if !d.config.UseMock && d.config.Device == "" {
		err = fmt.Errorf("either a device node or -mock is required")
		return
	}

	glog.InitLogging(d.cmdOpts.logLevel, " [swlinkload] ")
	return
}

func (d *SyncTestDriver) PrintTestSetup() {
	fmt.Println(`
Test Configuration:
--------------------------------------------------------------------`)
	fmt.Printf("To invoke the following request(s) in sequence repeatedly with %d test executor(s)\n", d.config.NumExecutor)
	d.reqSequence.PrettyPrint(os.Stdout)
	fmt.Printf("at the rate of no more than (%d) request(s) per second for one test executor\n", d.config.NumReqPerSecond)
	fmt.Printf("for about (%d) second(s).\n\n", d.config.RunningTime)
	fmt.Printf("The payload length is fixed at (%d) byte(s). \n\n", d.config.PayloadLen)
	fmt.Printf("Statistic information will be printed for every (%d) second(s).\n\n", d.config.StatOutputRate)
}

func (d *SyncTestDriver) Prepare() bool {
	d.Validate()
	d.reqSequence.initFromPattern(d.config.RequestPattern)
	if len(d.reqSequence.items) == 0 {
		fmt.Println("empty request sequence")
		return false
	}
	d.PrintTestSetup()

	var err error
	if d.config.UseMock {
		host, dev := swio.Pipe(d.config.IO)
		d.mock = mockdev.New(dev, mockdev.DefaultConfig)
		d.client, err = client.NewWithTransport(d.config.Config, host)
	} else {
		d.client, err = client.New(d.config.Config)
	}
	if err != nil {
		fmt.Println(err)
		return false
	}
	if err = d.client.WaitReady(0); err != nil {
		fmt.Println(err)
		d.client.Close()
		return false
	}
	fmt.Printf("device: %s\n\n", d.client.DeviceInfo())
	return true
}

func (d *SyncTestDriver) Teardown() {
	if d.client != nil {
		d.client.Close()
	}
	if d.mock != nil {
		d.mock.Close()
	}
}

func (d *SyncTestDriver) Exec() {
	var wg sync.WaitGroup
	chDone := make(chan bool)

	if d.config.NumExecutor <= 0 {
		glog.Errorf("number of executor specified is zero")
		return
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		timer := time.NewTimer(time.Duration(d.config.RunningTime) * time.Second)
		ticker := time.NewTicker(time.Duration(d.config.StatOutputRate) * time.Second)
	loop:
		for {
			select {
			case <-timer.C:
				timer.Stop()
				ticker.Stop()
				close(chDone)
				break loop
			case <-ticker.C:
				d.movingStats.PrettyPrint(os.Stdout)
				d.movingStats.Reset()
			}
		}
	}()

	d.tmStart = time.Now()
	d.stats.Init()
	d.movingStats.Init()

	payload := make([]byte, d.config.PayloadLen)
	rand.Read(payload)

	for i := 0; i < d.config.NumExecutor; i++ {
		eng := &TestEngine{
			id:              i,
			reqSequence:     d.reqSequence,
			client:          d.client,
			stats:           &d.stats,
			movingStats:     &d.movingStats,
			numReqPerSecond: d.config.NumReqPerSecond,
			targetBase:      d.config.TargetBase,
			payload:         cbor.Bytes(payload),
		}
		eng.Init()
		wg.Add(1)
		go eng.Run(&wg, chDone)
	}
	wg.Wait()
}

func main() {
	td.Init("swlinkload", "test driver")
	if err := td.Parse(os.Args[1:]); err != nil {
		glog.Exitf("failed with %s", err.Error())
	}

	if td.cmdOpts.version {
		version.PrintVersionInfo()
		return
	}

	if td.Prepare() &&
		td.cmdOpts.runningTime > 0 {
		td.Exec()
		fmt.Println("\n\nFINAL")
		td.stats.PrettyPrint(os.Stdout)
	}
	td.Teardown()
}
