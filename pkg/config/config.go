// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/NVIDIA/codelist-check/pkg/defaults"
	clerrors "github.com/NVIDIA/codelist-check/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of a single check run and of the check service.
type Config struct {
	// DefineURL locates the define.xml document (path or afs URL).
	DefineURL string `json:"define,omitempty" yaml:"define,omitempty"`

	// DataURL locates the datasets: a directory of .csv/.json files or a SQLite database.
	DataURL string `json:"data,omitempty" yaml:"data,omitempty"`

	// Output is the report destination; empty or "-" means stdout.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Format is the report format (json, yaml, table, text). Empty picks by terminal.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	Concurrency       int      `json:"concurrency" yaml:"concurrency"`
	ExcludedCodeLists []string `json:"excludedCodeLists" yaml:"excludedCodeLists"`
	Delimiter         string   `json:"delimiter" yaml:"delimiter"`

	// NumericCodes compares numeric dataset values against codes numerically
	// instead of by their float text rendering.
	NumericCodes bool `json:"numericCodes,omitempty" yaml:"numericCodes,omitempty"`

	FailOnFinding bool   `json:"failOnFinding,omitempty" yaml:"failOnFinding,omitempty"`
	MetricsFile   string `json:"metricsFile,omitempty" yaml:"metricsFile,omitempty"`

	Server ServerConfig `json:"server" yaml:"server"`
}

// ServerConfig holds the check service settings.
type ServerConfig struct {
	Address string `json:"address,omitempty" yaml:"address,omitempty"`

	// Port zero keeps the service default: $PORT, then 8080.
	Port           int     `json:"port,omitempty" yaml:"port,omitempty"`
	RateLimit      float64 `json:"rateLimit" yaml:"rateLimit"`
	RateLimitBurst int     `json:"rateLimitBurst" yaml:"rateLimitBurst"`

	// MaxRequestBytes caps the request body of a check request.
	MaxRequestBytes int64 `json:"maxRequestBytes" yaml:"maxRequestBytes"`

	// AllowedRoots restricts the define and data URLs a request may name.
	// Empty allows any location the process can read.
	AllowedRoots []string `json:"allowedRoots,omitempty" yaml:"allowedRoots,omitempty"`

	// ShutdownTimeout zero keeps the service default: $SHUTDOWN_TIMEOUT_SECONDS, then 30s.
	ShutdownTimeout time.Duration `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Concurrency:       defaults.DefaultConcurrency,
		ExcludedCodeLists: defaults.ExcludedCodeLists(),
		Delimiter:         defaults.CheckValueDelimiter,
		Server: ServerConfig{
			RateLimit:       defaults.DefaultRateLimit,
			RateLimitBurst:  defaults.DefaultRateLimitBurst,
			MaxRequestBytes: defaults.DefaultMaxRequestBytes,
		},
	}
}

// LoadFile overlays the YAML file at path onto Default(). Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, clerrors.Wrap(clerrors.ErrCodeNotFound, "failed to read config file", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, clerrors.WrapWithContext(clerrors.ErrCodeInvalidRequest,
			"failed to parse config file", err, map[string]any{"path": path})
	}

	return cfg, nil
}

// Validate checks the configuration for values no run can use.
func (c *Config) Validate() error {
	if c.Concurrency < 1 || c.Concurrency > defaults.MaxConcurrency {
		return clerrors.New(clerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("concurrency must be between 1 and %d, got %d", defaults.MaxConcurrency, c.Concurrency))
	}
	if c.Delimiter == "" {
		return clerrors.New(clerrors.ErrCodeInvalidRequest, "delimiter must not be empty")
	}
	if strings.TrimSpace(c.Delimiter) == "" {
		return clerrors.New(clerrors.ErrCodeInvalidRequest, "delimiter must not be whitespace")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return clerrors.New(clerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid server port %d", c.Server.Port))
	}
	if c.Server.RateLimit <= 0 || c.Server.RateLimitBurst < 1 {
		return clerrors.New(clerrors.ErrCodeInvalidRequest, "rate limit and burst must be positive")
	}
	if c.Server.MaxRequestBytes <= 0 {
		return clerrors.New(clerrors.ErrCodeInvalidRequest, "maxRequestBytes must be positive")
	}
	return nil
}

// ValidateCheck additionally requires the inputs of a check run.
func (c *Config) ValidateCheck() error {
	if c.DefineURL == "" {
		return clerrors.New(clerrors.ErrCodeInvalidRequest, "define location is required")
	}
	return c.Validate()
}
