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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCreationOptionsDefaults(t *testing.T) {
	opts := NewContentCreationOptions()

	described := opts.Describe()
	assert.Equal(t, "UTF-8", described["encoding"])
	assert.Equal(t, "none", described["format"])
	assert.Equal(t, 0, described["quality"])
	assert.Equal(t, []string{}, described["collections"])
	assert.Equal(t, "default", described["repair-level"])
}

func TestContentCreationOptionsRoundTrip(t *testing.T) {
	m := map[string]any{
		"buffer-size": 4096,
		"collections": []string{"games", "unreleased"},
		"encoding":    "UTF-8",
		"format":      "xml",
		"graph":       "",
		"language":    "en",
		"locale":      "en_GB",
		"namespace":   "http://example.com/ns",
		"permissions": []map[string]any{
			{"role": "app-user", "capability": "read"},
			{"role": "app-user", "capability": "update"},
			{"role": "admin", "capability": "execute"},
		},
		"placement-keys":      []string{"alpha"},
		"quality":             2,
		"repair-level":        "full",
		"resolve-buffer-size": 0,
		"resolve-entities":    true,
		"temporal-collection": "",
	}

	opts, err := ContentCreationOptionsFromMap(m)
	require.NoError(t, err)

	assert.Equal(t, FormatXML, opts.Format)
	assert.Equal(t, RepairFull, opts.RepairLevel)
	require.Len(t, opts.Permissions, 3)
	assert.Equal(t, ContentPermission{Role: "app-user", Capability: CapabilityRead}, opts.Permissions[0])

	assert.Equal(t, m, opts.Describe())
}

func TestContentCreationOptionsRejectsUnknownKeys(t *testing.T) {
	_, err := ContentCreationOptionsFromMap(map[string]any{
		"format":     "json",
		"collection": []string{"typo"},
	})
	require.Error(t, err)

	var invalid *InvalidOptionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"collection"}, invalid.Keys)
}

func TestParseDocumentFormat(t *testing.T) {
	for _, f := range []DocumentFormat{FormatNone, FormatXML, FormatJSON, FormatText, FormatBinary} {
		parsed, err := ParseDocumentFormat(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}

	_, err := ParseDocumentFormat("yaml")
	assert.Error(t, err)
}

func TestParseRepairLevel(t *testing.T) {
	for _, r := range []DocumentRepairLevel{RepairDefault, RepairFull, RepairNone} {
		parsed, err := ParseRepairLevel(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := ParseRepairLevel("partial")
	assert.Error(t, err)
}

func TestParseCapability(t *testing.T) {
	for _, c := range []Capability{CapabilityRead, CapabilityInsert, CapabilityUpdate, CapabilityExecute} {
		parsed, err := ParseCapability(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, parsed)
	}

	_, err := ParseCapability("delete")
	assert.Error(t, err)
}

func TestParseTransactionMode(t *testing.T) {
	for _, m := range []TransactionMode{TxnAuto, TxnQuery, TxnUpdate, TxnUpdateAutoCommit} {
		parsed, err := ParseTransactionMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseTransactionMode("manual")
	assert.Error(t, err)
}

func TestParseUpdateMode(t *testing.T) {
	for _, m := range []UpdateMode{UpdateAuto, UpdateTrue, UpdateFalse} {
		parsed, err := ParseUpdateMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, parsed)
	}

	_, err := ParseUpdateMode("maybe")
	assert.Error(t, err)
}
