package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	FailurePolicyHalt     = "halt"
	FailurePolicyContinue = "continue"
)

const defaultAdapterTimeoutMS int64 = 30_000

type Config struct {
	ServiceName      string `koanf:"service_name" mapstructure:"service_name"`
	FailurePolicy    string `koanf:"failure_policy" mapstructure:"failure_policy"`
	AdapterTimeoutMS int64  `koanf:"adapter_timeout_ms" mapstructure:"adapter_timeout_ms"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:      "relay",
		FailurePolicy:    FailurePolicyHalt,
		AdapterTimeoutMS: defaultAdapterTimeoutMS,
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.FailurePolicy)) {
	case FailurePolicyHalt, FailurePolicyContinue:
	default:
		return fmt.Errorf("core: invalid failure_policy %q", c.FailurePolicy)
	}
	if c.AdapterTimeoutMS < 0 {
		return fmt.Errorf("core: adapter_timeout_ms must not be negative")
	}
	return nil
}

func (c Config) AdapterTimeout() time.Duration {
	if c.AdapterTimeoutMS <= 0 {
		return time.Duration(defaultAdapterTimeoutMS) * time.Millisecond
	}
	return time.Duration(c.AdapterTimeoutMS) * time.Millisecond
}

func (c Config) continueOnFailure() bool {
	return strings.EqualFold(strings.TrimSpace(c.FailurePolicy), FailurePolicyContinue)
}
