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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// transport speaks the XDBC HTTP surface: eval/invoke submissions with
// multipart/mixed results, transaction control, and document insertion.
// It holds no pooled or retried state of its own beyond the standard
// http.Client; all retry and pooling policy is server-side.
type transport struct {
	endpoint string
	user     string
	password string
	database string
	hc       *http.Client
}

func newTransport(cs *ContentSource) *transport {
	return &transport{
		endpoint: cs.Endpoint(),
		user:     cs.user,
		password: cs.password,
		database: cs.contentBase,
		hc:       &http.Client{},
	}
}

// submit posts an eval or invoke form and parses the multipart result.
// A non-negative timeout bounds the whole round trip.
func (t *transport) submit(ctx context.Context, path string, form url.Values, timeout time.Duration) ([]Item, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if t.database != "" {
		form.Set("database", t.database)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "multipart/mixed")
	t.authorize(req)

	resp, err := t.hc.Do(req)
	if err != nil {
		trackError("connection_error", "submit")
		return nil, &ConnectionError{Endpoint: t.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeErrorResponse(resp)
	}

	return parseMultipartResult(resp)
}

// beginTransaction opens a server transaction and returns its id.
func (t *transport) beginTransaction(ctx context.Context, kind string, timeout time.Duration) (string, error) {
	form := url.Values{}
	if kind != "" {
		form.Set("kind", kind)
	}
	if timeout > 0 {
		form.Set("timeout-millis", fmt.Sprint(timeout.Milliseconds()))
	}
	if t.database != "" {
		form.Set("database", t.database)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint+"/v1/transactions",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	t.authorize(req)

	resp, err := t.hc.Do(req)
	if err != nil {
		return "", &ConnectionError{Endpoint: t.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", decodeErrorResponse(resp)
	}

	var body struct {
		TxID string `json:"txid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.TxID == "" {
		return "", &ProtocolError{Message: "transaction response missing txid"}
	}
	return body.TxID, nil
}

// endTransaction commits or rolls back a transaction; result is "commit"
// or "rollback".
func (t *transport) endTransaction(ctx context.Context, txid, result string) error {
	u := fmt.Sprintf("%s/v1/transactions/%s?result=%s", t.endpoint, url.PathEscape(txid), result)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return err
	}
	t.authorize(req)

	resp, err := t.hc.Do(req)
	if err != nil {
		return &ConnectionError{Endpoint: t.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeErrorResponse(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// putDocument inserts one document.
func (t *transport) putDocument(ctx context.Context, params url.Values, contentType string, body io.Reader) error {
	if t.database != "" {
		params.Set("database", t.database)
	}

	u := t.endpoint + "/v1/documents?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	t.authorize(req)

	resp, err := t.hc.Do(req)
	if err != nil {
		trackError("connection_error", "putDocument")
		return &ConnectionError{Endpoint: t.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeErrorResponse(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (t *transport) authorize(req *http.Request) {
	if t.user != "" {
		req.SetBasicAuth(t.user, t.password)
	}
}

// parseMultipartResult reads a multipart/mixed response into result items.
// Each part carries its server type tag in the X-Primitive header. An
// empty body is an empty sequence.
func parseMultipartResult(resp *http.Response) ([]Item, error) {
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return []Item{}, nil
	}

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil, &ProtocolError{Message: fmt.Sprintf("bad content type %q", ct)}
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		// Single-part responses carry the tag on the response itself.
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if len(data) == 0 {
			return []Item{}, nil
		}
		tag := resp.Header.Get("X-Primitive")
		if tag == "" {
			tag = string(XSString)
		}
		return []Item{NewItem(ItemType(tag), data)}, nil
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, &ProtocolError{Message: "multipart response missing boundary"}
	}

	var items []Item
	mr := multipart.NewReader(resp.Body, boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ProtocolError{Message: fmt.Sprintf("reading result part: %v", err)}
		}
		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			return nil, &ProtocolError{Message: fmt.Sprintf("reading result part body: %v", err)}
		}
		tag := part.Header.Get("X-Primitive")
		if tag == "" {
			tag = string(XSString)
		}
		items = append(items, NewItem(ItemType(tag), data))
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// decodeErrorResponse rebuilds the server's diagnostic payload into a
// RequestError. The code, W3C code, retryability flag, and server stack
// are preserved as fields rather than flattened into the message.
func decodeErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var re RequestError
	if err := json.Unmarshal(body, &re); err == nil && re.Code != "" {
		classifyError(&re)
		return &re
	}

	msg := strings.TrimSpace(string(body))
	if msg == "" {
		msg = resp.Status
	}
	return &RequestError{
		Code:    fmt.Sprintf("HTTP-%d", resp.StatusCode),
		Message: msg,
	}
}

func classifyError(re *RequestError) {
	switch {
	case strings.Contains(re.Code, "TIMEOUT"):
		trackError("timeout_error", "decodeErrorResponse")
	case strings.Contains(re.Code, "PERM") || strings.Contains(re.Code, "AUTH"):
		trackError("permission_error", "decodeErrorResponse")
	default:
		trackError("query_error", "decodeErrorResponse")
	}
}
