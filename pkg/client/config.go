package client

import (
	"fmt"
	"time"

	"swlink/internal/link"
	"swlink/pkg/cfg"
	"swlink/pkg/io"
	"swlink/pkg/util"
)

type Duration = util.Duration

type Config struct {
	Device          string
	Appname         string
	TraceFile       string
	RequestTimeout  Duration
	RetryInterval   Duration
	ReadyTimeout    Duration
	RequestQueueLen int
	IO              io.Config
}

var defaultConfig = Config{
	Appname:         "swlink",
	RequestTimeout:  Duration{Duration: 3 * time.Second},
	RetryInterval:   Duration{Duration: 1 * time.Second},
	ReadyTimeout:    Duration{Duration: 10 * time.Second},
	RequestQueueLen: 16,
	IO:              io.DefaultConfig,
}

// LoadConfig layers a TOML file over the compiled-in defaults and
// returns the merged configuration.
func LoadConfig(file string) (conf Config, err error) {
	var layered cfg.Config
	if err = layered.ReadFrom(&defaultConfig); err != nil {
		return
	}
	var overrides cfg.Config
	if err = overrides.ReadFromTomlFile(file); err != nil {
		return
	}
	layered.Merge(&overrides)
	err = layered.WriteTo(&conf)
	return
}

func SetDefaultTimeout(request, retry, ready time.Duration) {
	defaultConfig.RequestTimeout.Duration = request
	defaultConfig.RetryInterval.Duration = retry
	defaultConfig.ReadyTimeout.Duration = ready
}

func (c *Config) SetDefault() {
	*c = defaultConfig
}

func (c *Config) SetDefaultIfNotDefined() {
	if len(c.Appname) == 0 {
		c.Appname = defaultConfig.Appname
	}
	if c.RequestTimeout.Duration <= 0 {
		c.RequestTimeout = defaultConfig.RequestTimeout
	}
	if c.RetryInterval.Duration <= 0 {
		c.RetryInterval = defaultConfig.RetryInterval
	}
	if c.ReadyTimeout.Duration <= 0 {
		c.ReadyTimeout = defaultConfig.ReadyTimeout
	}
	if c.RequestQueueLen <= 0 {
		c.RequestQueueLen = defaultConfig.RequestQueueLen
	}
	c.IO.SetDefaultIfNotDefined()
}

func (c *Config) validate() error {
	if len(c.Device) == 0 {
		return fmt.Errorf("Config.Device not specified.")
	}
	return nil
}

func (c *Config) linkConfig() link.Config {
	return link.Config{
		RequestTimeout:  c.RequestTimeout.Duration,
		RetryInterval:   c.RetryInterval.Duration,
		RequestQueueLen: c.RequestQueueLen,
		IO:              c.IO,
	}
}
