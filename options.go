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
	"reflect"
	"sort"

	"github.com/go-viper/mapstructure/v2"
)

// QueryLanguage selects the server-side evaluation language for a request.
type QueryLanguage int

const (
	// LanguageXQuery evaluates the request body as XQuery (default).
	LanguageXQuery QueryLanguage = iota

	// LanguageJavaScript evaluates the request body as Server-Side
	// JavaScript.
	LanguageJavaScript
)

// String returns the string representation of QueryLanguage.
func (l QueryLanguage) String() string {
	switch l {
	case LanguageXQuery:
		return "xquery"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// ParseQueryLanguage parses a QueryLanguage from a string.
func ParseQueryLanguage(s string) (QueryLanguage, error) {
	switch s {
	case "xquery":
		return LanguageXQuery, nil
	case "javascript", "js":
		return LanguageJavaScript, nil
	default:
		return 0, fmt.Errorf("unknown query language %q (valid: xquery, javascript)", s)
	}
}

// RequestOptions configures a single request submission. The zero value of
// each field is not meaningful; use NewRequestOptions (or
// RequestOptionsFromMap) so the documented defaults apply. Options are
// passed to the server verbatim; this layer performs no retrying or timing
// of its own.
type RequestOptions struct {
	// AutoRetryDelayMillis is the server-side retry delay; -1 selects the
	// server default.
	AutoRetryDelayMillis int `mapstructure:"auto-retry-delay-millis"`

	// CacheResult asks the server to buffer the full result before
	// responding. Default true.
	CacheResult bool `mapstructure:"cache-result"`

	// DefaultXQueryVersion sets the XQuery version for queries without a
	// version declaration, e.g. "1.0-ml".
	DefaultXQueryVersion string `mapstructure:"default-xquery-version"`

	// EffectivePointInTime evaluates the request against the content as of
	// the given server timestamp. Zero means current.
	EffectivePointInTime int64 `mapstructure:"effective-point-in-time"`

	// Locale sets the request locale, e.g. "en_US".
	Locale string `mapstructure:"locale"`

	// MaxAutoRetry is the server-side retry count; -1 selects the server
	// default.
	MaxAutoRetry int `mapstructure:"max-auto-retry"`

	// QueryLanguage selects XQuery or Server-Side JavaScript.
	QueryLanguage QueryLanguage `mapstructure:"query-language"`

	// RequestName labels the request in server logs and status views.
	RequestName string `mapstructure:"request-name"`

	// RequestTimeLimit is the server evaluation time limit in seconds;
	// -1 selects the server default.
	RequestTimeLimit int `mapstructure:"request-time-limit"`

	// ResultBufferSize is the response buffer size in bytes; 0 selects the
	// server default.
	ResultBufferSize int `mapstructure:"result-buffer-size"`

	// TimeoutMillis is the request timeout; -1 means no client timeout.
	TimeoutMillis int `mapstructure:"timeout-millis"`

	// Timezone sets the implicit timezone for the request, e.g. "UTC".
	Timezone string `mapstructure:"timezone"`
}

// NewRequestOptions returns request options with the documented defaults.
func NewRequestOptions() *RequestOptions {
	return &RequestOptions{
		AutoRetryDelayMillis: -1,
		CacheResult:          true,
		MaxAutoRetry:         -1,
		QueryLanguage:        LanguageXQuery,
		RequestTimeLimit:     -1,
		TimeoutMillis:        -1,
	}
}

var requestOptionKeys = []string{
	"auto-retry-delay-millis",
	"cache-result",
	"default-xquery-version",
	"effective-point-in-time",
	"locale",
	"max-auto-retry",
	"query-language",
	"request-name",
	"request-time-limit",
	"result-buffer-size",
	"timeout-millis",
	"timezone",
}

// RequestOptionsFromMap builds request options from a plain key-value map.
// Keys outside the recognized set fail with an InvalidOptionError before
// anything is built; absent keys keep their defaults.
func RequestOptionsFromMap(m map[string]any) (*RequestOptions, error) {
	if err := checkOptionKeys("request", m, requestOptionKeys); err != nil {
		return nil, err
	}
	opts := NewRequestOptions()
	if err := decodeOptionMap(m, opts); err != nil {
		return nil, fmt.Errorf("request options: %w", err)
	}
	return opts, nil
}

// Describe reads the options back into a map keyed identically to the one
// RequestOptionsFromMap accepts, so Describe(FromMap(m)) round-trips.
func (o *RequestOptions) Describe() map[string]any {
	return map[string]any{
		"auto-retry-delay-millis": o.AutoRetryDelayMillis,
		"cache-result":            o.CacheResult,
		"default-xquery-version":  o.DefaultXQueryVersion,
		"effective-point-in-time": o.EffectivePointInTime,
		"locale":                  o.Locale,
		"max-auto-retry":          o.MaxAutoRetry,
		"query-language":          o.QueryLanguage.String(),
		"request-name":            o.RequestName,
		"request-time-limit":      o.RequestTimeLimit,
		"result-buffer-size":      o.ResultBufferSize,
		"timeout-millis":          o.TimeoutMillis,
		"timezone":                o.Timezone,
	}
}

// checkOptionKeys rejects maps carrying keys outside the allow-list for
// their option group. Rejection happens before any decode so a bad map
// never produces a partially applied options object.
func checkOptionKeys(group string, m map[string]any, allowed []string) error {
	var bad []string
	for k := range m {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			bad = append(bad, k)
		}
	}
	if len(bad) > 0 {
		sort.Strings(bad)
		return &InvalidOptionError{Group: group, Keys: bad}
	}
	return nil
}

// decodeOptionMap decodes a validated option map onto a struct, coercing
// enum strings through their Parse functions.
func decodeOptionMap(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       enumDecodeHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(m)
}

// enumDecodeHook converts option-map strings to their enum types.
func enumDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	// Named string types (not just plain string) reach here too.
	s, ok := data.(string)
	if !ok {
		s = reflect.ValueOf(data).String()
	}
	switch to {
	case reflect.TypeOf(LanguageXQuery):
		return ParseQueryLanguage(s)
	case reflect.TypeOf(FormatNone):
		return ParseDocumentFormat(s)
	case reflect.TypeOf(RepairDefault):
		return ParseRepairLevel(s)
	case reflect.TypeOf(CapabilityRead):
		return ParseCapability(s)
	case reflect.TypeOf(TxnAuto):
		return ParseTransactionMode(s)
	case reflect.TypeOf(UpdateAuto):
		return ParseUpdateMode(s)
	}
	return data, nil
}

// queryValues renders the options that travel with an eval/invoke request.
func (o *RequestOptions) describeWire() map[string]string {
	out := make(map[string]string)
	for k, v := range o.Describe() {
		switch val := v.(type) {
		case string:
			if val != "" {
				out[k] = val
			}
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
