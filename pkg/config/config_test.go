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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	conf := NewConfig()
	require.Equal(t, DefaultJoinReorderPairBudget, conf.Performance.JoinReorderPairBudget)
	require.False(t, conf.Performance.DisableJoinReorder)
	require.Equal(t, "info", conf.Log.Level)
}

func TestConfigLoad(t *testing.T) {
	confFile := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "warn"
format = "json"

[performance]
join-reorder-pair-budget = 500
disable-join-reorder = true
`
	require.NoError(t, os.WriteFile(confFile, []byte(content), 0o644))

	conf := NewConfig()
	require.NoError(t, conf.Load(confFile))
	require.Equal(t, "warn", conf.Log.Level)
	require.Equal(t, "json", conf.Log.Format)
	require.Equal(t, 500, conf.Performance.JoinReorderPairBudget)
	require.True(t, conf.Performance.DisableJoinReorder)
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer StoreGlobalConfig(original)

	conf := NewConfig()
	conf.Performance.JoinReorderPairBudget = 42
	StoreGlobalConfig(conf)
	require.Equal(t, 42, GetGlobalConfig().Performance.JoinReorderPairBudget)
}
