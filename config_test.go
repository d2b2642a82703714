// Copyright 2026 The xdbc-go Authors
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

package xdbc

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "xdbc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
uri: xdbc://db.example.com:8010/Documents
user: admin
password: secret
session:
  transaction-mode: update
  transaction-timeout-millis: 30000
request-options:
  timeout-millis: 6000
  request-name: nightly-load
`)

	fc, err := LoadConfig(path)
	require.NoError(t, err)

	cs, err := fc.ContentSource()
	require.NoError(t, err)
	assert.Equal(t, "http://db.example.com:8010", cs.Endpoint())
	assert.Equal(t, "admin", cs.User())
	assert.Equal(t, "Documents", cs.ContentBase())

	cfg, err := fc.SessionConfig()
	require.NoError(t, err)
	assert.Equal(t, TxnUpdate, cfg.TransactionMode)
	assert.Equal(t, 30*time.Second, cfg.TransactionTimeout)
	require.NotNil(t, cfg.DefaultRequestOptions)
	assert.Equal(t, 6000, cfg.DefaultRequestOptions.TimeoutMillis)
	assert.Equal(t, "nightly-load", cfg.DefaultRequestOptions.RequestName)
}

func TestLoadConfigHostPort(t *testing.T) {
	path := writeConfigFile(t, `
host: localhost
port: 8010
content-base: Modules
`)

	fc, err := LoadConfig(path)
	require.NoError(t, err)

	cs, err := fc.ContentSource()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8010", cs.Endpoint())
	assert.Equal(t, "Modules", cs.ContentBase())
}

func TestLoadConfigRejectsBadOptionKey(t *testing.T) {
	path := writeConfigFile(t, `
uri: xdbc://localhost
request-options:
  timeout: 6000
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
}

func TestLoadConfigRejectsMissingEndpoint(t *testing.T) {
	path := writeConfigFile(t, `user: admin`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	path := writeConfigFile(t, `
uri: xdbc://localhost
session:
  transaction-mode: sometimes
`)

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
