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
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode"
)

// Content is a document body prepared for insertion: the target URI, the
// body, and its resolved format.
type Content struct {
	URI    string
	Format DocumentFormat
	body   io.Reader
}

// NewContent builds insertable content with an explicit format.
func NewContent(uri string, format DocumentFormat, body io.Reader) *Content {
	return &Content{URI: uri, Format: format, body: body}
}

// NewStringContent builds insertable content from a raw string, detecting
// the format when none is forced: well-formed XML inserts as XML, JSON
// lexical prefixes insert as JSON, anything else inserts as text.
func NewStringContent(uri, raw string, format DocumentFormat) *Content {
	if format == FormatNone {
		format = DetectFormat(raw)
	}
	return &Content{URI: uri, Format: format, body: strings.NewReader(raw)}
}

// NewBytesContent builds insertable content from raw bytes; FormatNone
// inserts as binary.
func NewBytesContent(uri string, raw []byte, format DocumentFormat) *Content {
	if format == FormatNone {
		format = FormatBinary
	}
	return &Content{URI: uri, Format: format, body: bytes.NewReader(raw)}
}

// DetectFormat classifies a raw string: attempt an XML parse, else check
// for JSON literal prefixes, else plain text.
func DetectFormat(raw string) DocumentFormat {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if trimmed == "" {
		return FormatText
	}

	if trimmed[0] == '<' && wellFormedXML(raw) {
		return FormatXML
	}

	switch trimmed[0] {
	case '{', '[', '"', '-', 't', 'f', 'n':
		if looksLikeJSON(trimmed) {
			return FormatJSON
		}
	default:
		if trimmed[0] >= '0' && trimmed[0] <= '9' {
			return FormatJSON
		}
	}

	return FormatText
}

func wellFormedXML(raw string) bool {
	dec := xml.NewDecoder(strings.NewReader(raw))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return true
		}
		if err != nil {
			return false
		}
	}
}

// looksLikeJSON checks JSON-literal lexical prefixes without a full parse;
// the server validates the body on insertion.
func looksLikeJSON(trimmed string) bool {
	switch trimmed[0] {
	case '{', '[', '"', '-':
		return true
	case 't':
		return strings.HasPrefix(trimmed, "true")
	case 'f':
		return strings.HasPrefix(trimmed, "false")
	case 'n':
		return strings.HasPrefix(trimmed, "null")
	}
	return false
}

// InsertContent inserts a document at the given URI. The content argument
// may be a *Content, a string (format auto-detected), or a []byte
// (inserted as binary). Content-creation options default to
// NewContentCreationOptions when nil.
//
// Example:
//
//	err := session.InsertContent(ctx, "/docs/hello.xml", "<hello/>", nil)
func (s *Session) InsertContent(ctx context.Context, uri string, content any, opts *ContentCreationOptions) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	txid := s.txid
	needTxn := !s.autoCommit && txid == ""
	s.mu.Unlock()

	if needTxn {
		var err error
		txid, err = s.beginTransaction(ctx)
		if err != nil {
			return err
		}
	}

	if opts == nil {
		opts = NewContentCreationOptions()
	}

	var c *Content
	switch v := content.(type) {
	case *Content:
		c = v
		if c.URI == "" {
			c.URI = uri
		}
	case string:
		c = NewStringContent(uri, v, opts.Format)
	case []byte:
		c = NewBytesContent(uri, v, opts.Format)
	default:
		return fmt.Errorf("unsupported content type %T (want *Content, string, or []byte)", content)
	}

	params := insertParams(c, opts, txid)

	contentType := c.Format.contentType()
	if contentType != "" && opts.Encoding != "" {
		contentType += "; charset=" + opts.Encoding
	}

	s.debug("inserting content")
	return s.tr.putDocument(ctx, params, contentType, c.body)
}

// insertParams renders content-creation options as insertion parameters.
func insertParams(c *Content, opts *ContentCreationOptions, txid string) url.Values {
	params := url.Values{}
	params.Set("uri", c.URI)
	if c.Format != FormatNone {
		params.Set("format", c.Format.String())
	}
	for _, coll := range opts.Collections {
		params.Add("collection", coll)
	}
	for _, p := range opts.Permissions {
		params.Add("perm:"+p.Role, p.Capability.String())
	}
	for _, k := range opts.PlacementKeys {
		params.Add("placement-key", k)
	}
	if opts.Quality != 0 {
		params.Set("quality", fmt.Sprint(opts.Quality))
	}
	if opts.RepairLevel != RepairDefault {
		params.Set("repair", opts.RepairLevel.String())
	}
	if opts.Language != "" {
		params.Set("lang", opts.Language)
	}
	if opts.Locale != "" {
		params.Set("locale", opts.Locale)
	}
	if opts.Namespace != "" {
		params.Set("namespace", opts.Namespace)
	}
	if opts.Graph != "" {
		params.Set("graph", opts.Graph)
	}
	if opts.TemporalCollection != "" {
		params.Set("temporal-collection", opts.TemporalCollection)
	}
	if opts.BufferSize > 0 {
		params.Set("buffer-size", fmt.Sprint(opts.BufferSize))
	}
	if opts.ResolveBufferSize > 0 {
		params.Set("resolve-buffer-size", fmt.Sprint(opts.ResolveBufferSize))
	}
	if opts.ResolveEntities {
		params.Set("resolve-entities", "true")
	}
	if txid != "" {
		params.Set("txid", txid)
	}
	return params
}
