// Copyright 2021 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"runtime"

	"github.com/BurntSushi/toml"

	"github.com/matrixorigin/vecexpr/pkg/common/moerr"
	"github.com/matrixorigin/vecexpr/pkg/logutil"
)

type ConfigurationKeyType int

const (
	ParameterUnitKey ConfigurationKeyType = 1
)

const (
	defaultBatchSize = 8192
	maxBatchSize     = 1 << 20
)

// ExecParameters controls how batches are evaluated.
type ExecParameters struct {
	//default is runtime.NumCPU(). the number of workers filtering batches in parallel.
	Parallelism int `toml:"parallelism"`

	//default is 8192. the number of rows per batch produced by the table scan.
	BatchSize int `toml:"batchSize"`

	//default is false. if true, every resolved evaluator is logged at debug level.
	LogResolve bool `toml:"logResolve"`

	//default is true. if true, the non zero counters are logged when a run ends.
	EnableMetric bool `toml:"enableMetric"`
}

// Config is the toml file layout read by the service bootstrap.
type Config struct {
	Log  logutil.LogConfig `toml:"log"`
	Exec ExecParameters    `toml:"exec"`
}

// NewConfig returns a Config filled with defaults.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Exec.EnableMetric = true
	cfg.SetDefaultValues()
	return cfg
}

// SetDefaultValues fills every unset field.
func (c *Config) SetDefaultValues() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Exec.Parallelism <= 0 {
		c.Exec.Parallelism = runtime.NumCPU()
	}
	if c.Exec.BatchSize <= 0 {
		c.Exec.BatchSize = defaultBatchSize
	}
}

// Validate reports configuration that can not be used.
func (c *Config) Validate(ctx context.Context) error {
	if err := c.Log.Validate(ctx); err != nil {
		return err
	}
	if c.Exec.BatchSize > maxBatchSize {
		return moerr.NewBadConfig(ctx, "exec.batchSize %d exceeds %d", c.Exec.BatchSize, maxBatchSize)
	}
	return nil
}

// ParseConfigFromFile decodes the toml file at path on top of the defaults.
func ParseConfigFromFile(ctx context.Context, path string) (*Config, error) {
	if path == "" {
		return nil, moerr.NewBadConfig(ctx, "config file path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, moerr.NewFileNotFound(ctx, path)
	}
	cfg := NewConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode %s: %v", path, err)
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseConfig decodes toml text, used by tests and embedded defaults.
func ParseConfig(ctx context.Context, data string) (*Config, error) {
	cfg := NewConfig()
	if _, err := toml.Decode(data, cfg); err != nil {
		return nil, moerr.NewBadConfig(ctx, "decode: %v", err)
	}
	cfg.SetDefaultValues()
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfig gets the configuration from the context.
func GetConfig(ctx context.Context) *Config {
	cfg, ok := ctx.Value(ParameterUnitKey).(*Config)
	if !ok || cfg == nil {
		panic("configuration is invalid")
	}
	return cfg
}

// WithConfig returns a context carrying cfg.
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ParameterUnitKey, cfg)
}
