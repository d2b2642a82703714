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
)

// DocumentFormat identifies the stored format of inserted content.
type DocumentFormat int

const (
	// FormatNone lets the server choose a format from the URI (default).
	FormatNone DocumentFormat = iota

	// FormatXML stores the content as an XML document.
	FormatXML

	// FormatJSON stores the content as a JSON document.
	FormatJSON

	// FormatText stores the content as a text document.
	FormatText

	// FormatBinary stores the content as a binary document.
	FormatBinary
)

// String returns the string representation of DocumentFormat.
func (f DocumentFormat) String() string {
	switch f {
	case FormatNone:
		return "none"
	case FormatXML:
		return "xml"
	case FormatJSON:
		return "json"
	case FormatText:
		return "text"
	case FormatBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// ParseDocumentFormat parses a DocumentFormat from a string.
func ParseDocumentFormat(s string) (DocumentFormat, error) {
	switch s {
	case "none", "":
		return FormatNone, nil
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	case "text":
		return FormatText, nil
	case "binary":
		return FormatBinary, nil
	default:
		return 0, fmt.Errorf("unknown document format %q (valid: none, xml, json, text, binary)", s)
	}
}

// contentType returns the MIME type sent for the format, or "" for
// FormatNone.
func (f DocumentFormat) contentType() string {
	switch f {
	case FormatXML:
		return "application/xml"
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain"
	case FormatBinary:
		return "application/octet-stream"
	default:
		return ""
	}
}

// DocumentRepairLevel controls XML repair during insertion.
type DocumentRepairLevel int

const (
	// RepairDefault applies the server's configured repair policy.
	RepairDefault DocumentRepairLevel = iota

	// RepairFull repairs malformed XML as far as possible.
	RepairFull

	// RepairNone rejects malformed XML.
	RepairNone
)

// String returns the string representation of DocumentRepairLevel.
func (r DocumentRepairLevel) String() string {
	switch r {
	case RepairDefault:
		return "default"
	case RepairFull:
		return "full"
	case RepairNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseRepairLevel parses a DocumentRepairLevel from a string.
func ParseRepairLevel(s string) (DocumentRepairLevel, error) {
	switch s {
	case "default", "":
		return RepairDefault, nil
	case "full":
		return RepairFull, nil
	case "none":
		return RepairNone, nil
	default:
		return 0, fmt.Errorf("unknown repair level %q (valid: default, full, none)", s)
	}
}

// Capability is a document permission capability granted to a role.
type Capability int

const (
	// CapabilityRead allows reading the document.
	CapabilityRead Capability = iota

	// CapabilityInsert allows inserting into the document.
	CapabilityInsert

	// CapabilityUpdate allows updating the document.
	CapabilityUpdate

	// CapabilityExecute allows executing the document as a module.
	CapabilityExecute
)

// String returns the string representation of Capability.
func (c Capability) String() string {
	switch c {
	case CapabilityRead:
		return "read"
	case CapabilityInsert:
		return "insert"
	case CapabilityUpdate:
		return "update"
	case CapabilityExecute:
		return "execute"
	default:
		return "unknown"
	}
}

// ParseCapability parses a Capability from a string.
func ParseCapability(s string) (Capability, error) {
	switch s {
	case "read":
		return CapabilityRead, nil
	case "insert":
		return CapabilityInsert, nil
	case "update":
		return CapabilityUpdate, nil
	case "execute":
		return CapabilityExecute, nil
	default:
		return 0, fmt.Errorf("unknown capability %q (valid: read, insert, update, execute)", s)
	}
}

// ContentPermission grants one capability to one role on inserted content.
type ContentPermission struct {
	Role       string     `mapstructure:"role"`
	Capability Capability `mapstructure:"capability"`
}

// ContentCreationOptions configures document insertion. Use
// NewContentCreationOptions (or ContentCreationOptionsFromMap) so the
// documented defaults apply.
type ContentCreationOptions struct {
	// BufferSize is the insertion buffer size in bytes; 0 selects the
	// server default.
	BufferSize int `mapstructure:"buffer-size"`

	// Collections the document is added to on insertion.
	Collections []string `mapstructure:"collections"`

	// Encoding is the character encoding of the content. Default "UTF-8".
	Encoding string `mapstructure:"encoding"`

	// Format of the stored document. Default FormatNone (derive from URI).
	Format DocumentFormat `mapstructure:"format"`

	// Graph names the semantic graph for triples content.
	Graph string `mapstructure:"graph"`

	// Language is the default language for XML text content.
	Language string `mapstructure:"language"`

	// Locale used when tokenizing the content.
	Locale string `mapstructure:"locale"`

	// Namespace is the default namespace applied to namespace-less XML.
	Namespace string `mapstructure:"namespace"`

	// Permissions granted on the document at insertion time.
	Permissions []ContentPermission `mapstructure:"permissions"`

	// PlacementKeys pin the document to named placement targets.
	PlacementKeys []string `mapstructure:"placement-keys"`

	// Quality is the document search quality. Default 0.
	Quality int `mapstructure:"quality"`

	// RepairLevel controls XML repair. Default RepairDefault.
	RepairLevel DocumentRepairLevel `mapstructure:"repair-level"`

	// ResolveBufferSize is the entity-resolution buffer size in bytes.
	ResolveBufferSize int `mapstructure:"resolve-buffer-size"`

	// ResolveEntities resolves external XML entities during insertion.
	ResolveEntities bool `mapstructure:"resolve-entities"`

	// TemporalCollection inserts the document into a temporal collection.
	TemporalCollection string `mapstructure:"temporal-collection"`
}

// NewContentCreationOptions returns content-creation options with the
// documented defaults.
func NewContentCreationOptions() *ContentCreationOptions {
	return &ContentCreationOptions{
		Collections: []string{},
		Encoding:    "UTF-8",
	}
}

var contentOptionKeys = []string{
	"buffer-size",
	"collections",
	"encoding",
	"format",
	"graph",
	"language",
	"locale",
	"namespace",
	"permissions",
	"placement-keys",
	"quality",
	"repair-level",
	"resolve-buffer-size",
	"resolve-entities",
	"temporal-collection",
}

// ContentCreationOptionsFromMap builds content-creation options from a
// plain key-value map. Keys outside the recognized set fail with an
// InvalidOptionError before anything is built.
//
// Permissions take the form []map[string]any{{"role": ..., "capability":
// ...}} with capability names as strings.
func ContentCreationOptionsFromMap(m map[string]any) (*ContentCreationOptions, error) {
	if err := checkOptionKeys("content-creation", m, contentOptionKeys); err != nil {
		return nil, err
	}
	opts := NewContentCreationOptions()
	if err := decodeOptionMap(m, opts); err != nil {
		return nil, fmt.Errorf("content-creation options: %w", err)
	}
	return opts, nil
}

// Describe reads the options back into a map keyed identically to the one
// ContentCreationOptionsFromMap accepts.
func (o *ContentCreationOptions) Describe() map[string]any {
	collections := o.Collections
	if collections == nil {
		collections = []string{}
	}
	placementKeys := o.PlacementKeys
	if placementKeys == nil {
		placementKeys = []string{}
	}
	perms := make([]map[string]any, len(o.Permissions))
	for i, p := range o.Permissions {
		perms[i] = map[string]any{
			"role":       p.Role,
			"capability": p.Capability.String(),
		}
	}
	return map[string]any{
		"buffer-size":         o.BufferSize,
		"collections":         collections,
		"encoding":            o.Encoding,
		"format":              o.Format.String(),
		"graph":               o.Graph,
		"language":            o.Language,
		"locale":              o.Locale,
		"namespace":           o.Namespace,
		"permissions":         perms,
		"placement-keys":      placementKeys,
		"quality":             o.Quality,
		"repair-level":        o.RepairLevel.String(),
		"resolve-buffer-size": o.ResolveBufferSize,
		"resolve-entities":    o.ResolveEntities,
		"temporal-collection": o.TemporalCollection,
	}
}
