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
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableTypeInference(t *testing.T) {
	cases := []struct {
		value any
		want  ItemType
	}{
		{"s", XSString},
		{true, XSBoolean},
		{42, XSInteger},
		{int64(42), XSInteger},
		{1.5, XSDouble},
		{big.NewRat(1, 3), XSDecimal},
		{time.Now(), XSDateTime},
		{time.Minute, XSDayTimeDuration},
		{[]byte("raw"), XSBase64Binary},
		{Point{1, 2}, CtsPoint},
		{map[string]any{"k": "v"}, JSObject},
		{[]any{1}, JSArray},
		{nil, NullNode},
	}
	for _, tc := range cases {
		got, ok := InferType(tc.value)
		require.True(t, ok, "%T", tc.value)
		assert.Equal(t, tc.want, got, "%T", tc.value)
	}

	_, ok := InferType(struct{}{})
	assert.False(t, ok)
}

func TestVariableEncode(t *testing.T) {
	t.Run("BareString", func(t *testing.T) {
		wb, err := NewStringVariable("greeting", "hi").encode()
		require.NoError(t, err)
		assert.Equal(t, wireBinding{Type: "xs:string", Value: "hi"}, wb)
	})

	t.Run("ExplicitType", func(t *testing.T) {
		wb, err := Variable{Name: "n", Type: XSDecimal, Value: big.NewRat(1, 4)}.encode()
		require.NoError(t, err)
		assert.Equal(t, wireBinding{Type: "xs:decimal", Value: "0.25"}, wb)
	})

	t.Run("InferredInteger", func(t *testing.T) {
		wb, err := Variable{Name: "n", Value: 7}.encode()
		require.NoError(t, err)
		assert.Equal(t, wireBinding{Type: "xs:integer", Value: "7"}, wb)
	})

	t.Run("DateTime", func(t *testing.T) {
		ts := time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC)
		wb, err := Variable{Name: "when", Type: XSDateTime, Value: ts}.encode()
		require.NoError(t, err)
		assert.Equal(t, "2026-08-27T10:00:00Z", wb.Value)
	})

	t.Run("Duration", func(t *testing.T) {
		wb, err := Variable{Name: "d", Value: 90 * time.Minute}.encode()
		require.NoError(t, err)
		assert.Equal(t, wireBinding{Type: "xs:dayTimeDuration", Value: "PT1H30M"}, wb)
	})

	t.Run("JSONObject", func(t *testing.T) {
		wb, err := Variable{Name: "doc", Value: map[string]any{"k": true}}.encode()
		require.NoError(t, err)
		assert.Equal(t, "json:object", wb.Type)
		assert.JSONEq(t, `{"k":true}`, wb.Value)
	})

	t.Run("AsIsBypassesConversion", func(t *testing.T) {
		wb, err := Variable{Name: "x", Value: 3, Type: XSString, AsIs: true}.encode()
		require.NoError(t, err)
		assert.Equal(t, wireBinding{Type: "xs:string", Value: "3"}, wb)
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		_, err := Variable{Name: "n", Type: XSInteger, Value: "not a number"}.encode()
		assert.Error(t, err)
	})

	t.Run("UnknownExplicitType", func(t *testing.T) {
		_, err := Variable{Name: "n", Type: ItemType("xs:nope"), Value: "v"}.encode()
		assert.Error(t, err)
	})

	t.Run("Uninferrable", func(t *testing.T) {
		_, err := Variable{Name: "n", Value: struct{}{}}.encode()
		assert.Error(t, err)
	})
}

func TestEncodeVariables(t *testing.T) {
	raw, err := encodeVariables([]Variable{
		NewStringVariable("word", "hello"),
		{Name: "count", Value: 3},
		{Name: "elem", Namespace: "http://example.com/ns", Type: XSString, Value: "v"},
	})
	require.NoError(t, err)

	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))

	assert.Equal(t, "hello", decoded["word"]["value"])
	assert.Equal(t, "xs:string", decoded["word"]["type"])
	assert.Equal(t, "3", decoded["count"]["value"])
	assert.Contains(t, decoded, "{http://example.com/ns}elem")
}

func TestEncodeVariablesEmpty(t *testing.T) {
	raw, err := encodeVariables(nil)
	require.NoError(t, err)
	assert.Empty(t, raw)

	_, err = encodeVariables([]Variable{{Value: "nameless"}})
	assert.Error(t, err)
}
