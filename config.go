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
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk form of a connection descriptor plus session
// defaults, loadable from YAML:
//
//	uri: xdbc://localhost:8000/Documents
//	user: admin
//	password: admin
//	session:
//	  transaction-mode: update
//	  transaction-timeout-millis: 30000
//	request-options:
//	  timeout-millis: 6000
//	  request-name: nightly-load
//
// Either uri or host/port identifies the endpoint; uri wins when both are
// present.
type FileConfig struct {
	URI         string `yaml:"uri"`
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	User        string `yaml:"user"`
	Password    string `yaml:"password"`
	ContentBase string `yaml:"content-base"`

	Session        FileSessionConfig `yaml:"session"`
	RequestOptions map[string]any    `yaml:"request-options"`
}

// FileSessionConfig is the session block of a FileConfig.
type FileSessionConfig struct {
	TransactionMode          string `yaml:"transaction-mode"`
	TransactionTimeoutMillis int    `yaml:"transaction-timeout-millis"`
	AutoCommit               *bool  `yaml:"auto-commit"`
	UpdateMode               string `yaml:"update-mode"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := fc.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &fc, nil
}

// Validate fails fast on an unusable config: missing endpoint, bad enum
// values, or unrecognized request option keys.
func (fc *FileConfig) Validate() error {
	if fc.URI == "" && fc.Host == "" {
		return fmt.Errorf("either uri or host is required")
	}
	if _, err := ParseTransactionMode(fc.Session.TransactionMode); err != nil {
		return err
	}
	if _, err := ParseUpdateMode(fc.Session.UpdateMode); err != nil {
		return err
	}
	if fc.RequestOptions != nil {
		if _, err := RequestOptionsFromMap(fc.RequestOptions); err != nil {
			return err
		}
	}
	return nil
}

// ContentSource builds the connection descriptor from the config.
func (fc *FileConfig) ContentSource() (*ContentSource, error) {
	if fc.URI != "" {
		cs, err := ParseConnectionString(fc.URI)
		if err != nil {
			return nil, err
		}
		if cs.user == "" && fc.User != "" {
			cs.user = fc.User
			cs.password = fc.Password
		}
		if cs.contentBase == "" {
			cs.contentBase = fc.ContentBase
		}
		return cs, nil
	}

	port := fc.Port
	if port == 0 {
		port = 8000
	}
	return NewContentSource(fc.Host, port, fc.User, fc.Password, fc.ContentBase), nil
}

// SessionConfig builds the session configuration from the config.
func (fc *FileConfig) SessionConfig() (*SessionConfig, error) {
	cfg := &SessionConfig{
		TransactionTimeout: time.Duration(fc.Session.TransactionTimeoutMillis) * time.Millisecond,
		AutoCommit:         fc.Session.AutoCommit,
	}

	mode, err := ParseTransactionMode(fc.Session.TransactionMode)
	if err != nil {
		return nil, err
	}
	cfg.TransactionMode = mode

	update, err := ParseUpdateMode(fc.Session.UpdateMode)
	if err != nil {
		return nil, err
	}
	cfg.UpdateMode = update

	if fc.RequestOptions != nil {
		opts, err := RequestOptionsFromMap(fc.RequestOptions)
		if err != nil {
			return nil, err
		}
		cfg.DefaultRequestOptions = opts
	}
	return cfg, nil
}

// OpenSessionFromConfig loads a config file and opens a session from it.
func OpenSessionFromConfig(path string) (*Session, error) {
	fc, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	cs, err := fc.ContentSource()
	if err != nil {
		return nil, err
	}
	cfg, err := fc.SessionConfig()
	if err != nil {
		return nil, err
	}
	return NewSessionFromSource(cs, cfg)
}
