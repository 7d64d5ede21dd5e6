// Copyright 2026 PingCAP, Inc.
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
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/pingcap/errors"
	"github.com/pingcap/quill/pkg/util/logutil"
)

// Config contains configuration options.
type Config struct {
	Log         Log         `toml:"log" json:"log"`
	Performance Performance `toml:"performance" json:"performance"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format, one of json or text.
	Format string `toml:"format" json:"format"`
}

// Performance is the performance section of the config.
type Performance struct {
	// JoinReorderPairBudget bounds the number of csg-cmp pairs the exact
	// join-order enumeration may emit before it falls back to the greedy
	// algorithm.
	JoinReorderPairBudget int `toml:"join-reorder-pair-budget" json:"join-reorder-pair-budget"`
	// DisableJoinReorder turns join-order optimization off entirely.
	DisableJoinReorder bool `toml:"disable-join-reorder" json:"disable-join-reorder"`
}

// DefaultJoinReorderPairBudget is the pair budget used when none is
// configured. See the join-order enumeration for how it bounds the search.
const DefaultJoinReorderPairBudget = 10000

var defaultConf = Config{
	Log: Log{
		Level:  logutil.DefaultLogLevel,
		Format: logutil.DefaultLogFormat,
	},
	Performance: Performance{
		JoinReorderPairBudget: DefaultJoinReorderPairBudget,
	},
}

var globalConf atomic.Pointer[Config]

func init() {
	conf := defaultConf
	globalConf.Store(&conf)
}

// NewConfig creates a new config instance with default values.
func NewConfig() *Config {
	conf := defaultConf
	return &conf
}

// GetGlobalConfig returns the global configuration for this server. It
// should store configuration from the command line and configuration file.
// Other parts of the system can read the global configuration use this
// function.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// Load loads config options from a toml file.
func (c *Config) Load(confFile string) error {
	_, err := toml.DecodeFile(confFile, c)
	return errors.Trace(err)
}
