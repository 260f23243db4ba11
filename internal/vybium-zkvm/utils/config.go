package utils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// NumByteLookupChannels is the default size of the byte lookup channel ring.
const NumByteLookupChannels uint32 = 16

// EnvPrefix is the prefix for environment overrides read by LoadConfig.
const EnvPrefix = "VYBIUM_ZKVM"

// Config represents the configuration of the trace generator
type Config struct {
	// Lookup parameters
	ByteLookupChannels uint32 // Size of the channel ring used to spread byte lookups

	// Table generation
	TableWorkers int // Goroutines used to build the preprocessed byte table

	// Execution parameters
	Shard uint32 // Shard tag stamped on every record

	// Logging
	LogLevel string // "debug", "info", "warn" or "error"
}

// DefaultConfig returns the configuration used by the CLI and the tests
func DefaultConfig() *Config {
	return &Config{
		ByteLookupChannels: NumByteLookupChannels,
		TableWorkers:       8,
		Shard:              1,
		LogLevel:           "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ByteLookupChannels == 0 {
		return fmt.Errorf("byte lookup channels must be positive")
	}

	if c.TableWorkers <= 0 {
		return fmt.Errorf("table workers must be positive")
	}

	if c.Shard == 0 {
		return fmt.Errorf("shard numbering starts at 1")
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}

	return nil
}

// WithByteLookupChannels sets the channel ring size
func (c *Config) WithByteLookupChannels(channels uint32) *Config {
	c.ByteLookupChannels = channels
	return c
}

// WithTableWorkers sets the number of table generation workers
func (c *Config) WithTableWorkers(workers int) *Config {
	c.TableWorkers = workers
	return c
}

// WithShard sets the shard tag
func (c *Config) WithShard(shard uint32) *Config {
	c.Shard = shard
	return c
}

// WithLogLevel sets the log level
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		ByteLookupChannels: c.ByteLookupChannels,
		TableWorkers:       c.TableWorkers,
		Shard:              c.Shard,
		LogLevel:           c.LogLevel,
	}
}

// LoadConfig builds a Config from v, falling back to DefaultConfig for every
// key that is not set. Environment variables use EnvPrefix, e.g.
// VYBIUM_ZKVM_TABLE_WORKERS.
func LoadConfig(v *viper.Viper) (*Config, error) {
	def := DefaultConfig()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("byte_lookup_channels", def.ByteLookupChannels)
	v.SetDefault("table_workers", def.TableWorkers)
	v.SetDefault("shard", def.Shard)
	v.SetDefault("log_level", def.LogLevel)

	cfg := &Config{
		ByteLookupChannels: v.GetUint32("byte_lookup_channels"),
		TableWorkers:       v.GetInt("table_workers"),
		Shard:              v.GetUint32("shard"),
		LogLevel:           v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
