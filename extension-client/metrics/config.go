package metrics

import (
	"fmt"
	"net"

	"github.com/vectis-labs/vectis/extension-client/core/utils"
)

const (
	DefaultMetricsPort = 2112
	defaultMetricsHost = "127.0.0.1"
)

type Config struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

func (c *Config) WithEnv() {
	c.Enabled = utils.LookupEnvBool("VECTIS_METRICS_ENABLED", c.Enabled)
	c.Host = utils.LookupEnvStr("VECTIS_METRICS_HOST", c.Host)
	c.Port = int(utils.LookupEnvUint64("VECTIS_METRICS_PORT", uint64(c.Port)))
}

func (cfg *Config) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Port)
	}

	ip := net.ParseIP(cfg.Host)
	if ip == nil {
		return fmt.Errorf("invalid host: %v", cfg.Host)
	}

	return nil
}

func (cfg *Config) Address() (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), nil
}

func DefaultConfig() *Config {
	return &Config{
		Port: DefaultMetricsPort,
		Host: defaultMetricsHost,
	}
}
