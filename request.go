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
	"net/url"

	"github.com/google/uuid"
)

// Request is a submittable unit of work: an ad-hoc query or a precompiled
// module invocation, plus its options and variable bindings. A Request is
// built once per submission and is not mutated by Submit.
type Request struct {
	id        string
	queryText string
	moduleURI string
	options   *RequestOptions
	variables []Variable
}

// NewAdhocQuery builds a request that evaluates query text on the server.
func NewAdhocQuery(text string) *Request {
	return &Request{id: uuid.NewString(), queryText: text}
}

// NewModuleInvoke builds a request that invokes a precompiled module stored
// on the server at the given URI.
func NewModuleInvoke(moduleURI string) *Request {
	return &Request{id: uuid.NewString(), moduleURI: moduleURI}
}

// ID returns the client-assigned request identifier, which travels with
// the submission for correlation in server logs.
func (r *Request) ID() string { return r.id }

// WithOptions sets the request options, replacing any session defaults.
func (r *Request) WithOptions(opts *RequestOptions) *Request {
	r.options = opts
	return r
}

// WithVariables appends variable bindings.
func (r *Request) WithVariables(vars ...Variable) *Request {
	r.variables = append(r.variables, vars...)
	return r
}

// SetNewStringVariable binds a bare string variable as xs:string.
func (r *Request) SetNewStringVariable(name, value string) *Request {
	return r.WithVariables(NewStringVariable(name, value))
}

// SetNewVariable binds a value with an explicit type tag and namespace.
func (r *Request) SetNewVariable(name, namespace string, t ItemType, value any) *Request {
	return r.WithVariables(Variable{Name: name, Namespace: namespace, Type: t, Value: value})
}

// Options returns the request options, or nil when the session defaults
// apply.
func (r *Request) Options() *RequestOptions { return r.options }

// form renders the submission path and form body.
func (r *Request) form(effective *RequestOptions, txid string) (string, url.Values, error) {
	form := url.Values{}
	form.Set("request-id", r.id)

	var path string
	switch {
	case r.moduleURI != "":
		path = "/v1/invoke"
		form.Set("module", r.moduleURI)
	case r.queryText != "":
		path = "/v1/eval"
		switch effective.QueryLanguage {
		case LanguageJavaScript:
			form.Set("javascript", r.queryText)
		default:
			form.Set("xquery", r.queryText)
		}
	default:
		return "", nil, fmt.Errorf("request has neither query text nor module URI")
	}

	vars, err := encodeVariables(r.variables)
	if err != nil {
		return "", nil, err
	}
	if vars != "" {
		form.Set("vars", vars)
	}

	for k, v := range effective.describeWire() {
		form.Set(k, v)
	}

	if txid != "" {
		form.Set("txid", txid)
	}

	return path, form, nil
}
