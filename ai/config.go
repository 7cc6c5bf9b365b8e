// Copyright 2025 Poiesic Systems
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


package ai

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/poiesic/cinevec/vectorize"
)

// Transform names accepted by Config.Transform.
const (
	TransformNetwork  = "network"
	TransformIdentity = "identity"
)

// Config holds configuration for the local embedding pipeline.
type Config struct {
	// Transform selects the embedding transform: "network" or "identity".
	// Default: "network"
	Transform string

	// Seed keys the fixed network weights. Changing it changes every embedding.
	Seed string

	// InputWidth is the number of vectorizer bins.
	// Default: 256
	InputWidth int

	// PoolSize is the number of workers vectorizing texts concurrently.
	// Default: runtime.NumCPU() / 2, minimum 1
	PoolSize int

	// BatchSize is the maximum number of texts handed to the encoder at once.
	// Default: 512
	BatchSize int
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithTransform sets the transform name.
func WithTransform(name string) ConfigOption {
	return func(c *Config) {
		c.Transform = name
	}
}

// WithSeed sets the network weight seed.
func WithSeed(seed string) ConfigOption {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithInputWidth sets the vectorizer width.
func WithInputWidth(width int) ConfigOption {
	return func(c *Config) {
		c.InputWidth = width
	}
}

// WithPoolSize sets the worker pool size.
func WithPoolSize(size int) ConfigOption {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithBatchSize sets the encoder batch size.
func WithBatchSize(size int) ConfigOption {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// DefaultConfig returns a Config for the default 256-bin vectorizer and network.
func DefaultConfig() *Config {
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	return &Config{
		Transform:  TransformNetwork,
		Seed:       vectorize.DefaultSeed,
		InputWidth: vectorize.DefaultInputWidth,
		PoolSize:   poolSize,
		BatchSize:  512,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithTransform(TransformIdentity),
//	    WithPoolSize(4),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
func (c *Config) Normalize() {
	c.Transform = strings.ToLower(strings.TrimSpace(c.Transform))
	if c.Transform == "" {
		c.Transform = TransformNetwork
	}
	if c.Seed == "" {
		c.Seed = vectorize.DefaultSeed
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.Transform != TransformNetwork && c.Transform != TransformIdentity {
		return fmt.Errorf("ai config: unknown transform %q", c.Transform)
	}
	if c.InputWidth <= 0 {
		return errors.New("ai config: InputWidth must be greater than 0")
	}
	if c.Transform == TransformNetwork && c.InputWidth != vectorize.DefaultLayerWidths[0] {
		return fmt.Errorf("ai config: network transform requires InputWidth %d", vectorize.DefaultLayerWidths[0])
	}
	if c.PoolSize < 1 {
		return errors.New("ai config: PoolSize must be at least 1")
	}
	if c.BatchSize < 1 {
		return errors.New("ai config: BatchSize must be at least 1")
	}
	return nil
}

// NewEncoder builds the immutable encoder described by the configuration.
func (c *Config) NewEncoder() (*vectorize.Encoder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var transform vectorize.Transform
	switch c.Transform {
	case TransformIdentity:
		transform = vectorize.NewIdentity(c.InputWidth)
	default:
		transform = vectorize.NewNetwork(c.Seed)
	}

	return vectorize.NewEncoder(
		vectorize.WithInputWidth(c.InputWidth),
		vectorize.WithTransform(transform),
	)
}
