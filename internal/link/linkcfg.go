package link

import (
	"time"

	swio "swlink/pkg/io"
)

const (
	kDefaultRequestTimeout  = 3 * time.Second
	kDefaultRetryInterval   = 1 * time.Second
	kDefaultRequestQueueLen = 16
)

type Config struct {
	RequestTimeout  time.Duration
	RetryInterval   time.Duration
	RequestQueueLen int
	IO              swio.Config
}

func (c *Config) SetDefaultIfNotDefined() {
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = kDefaultRequestTimeout
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = kDefaultRetryInterval
	}
	if c.RequestQueueLen <= 0 {
		c.RequestQueueLen = kDefaultRequestQueueLen
	}
	c.IO.SetDefaultIfNotDefined()
}

var DefaultConfig = Config{
	RequestTimeout:  kDefaultRequestTimeout,
	RetryInterval:   kDefaultRetryInterval,
	RequestQueueLen: kDefaultRequestQueueLen,
	IO:              swio.DefaultConfig,
}
