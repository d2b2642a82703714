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
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// ItemType is a server type tag as reported on result items, e.g.
// "xs:integer" or "object-node()". The set is closed: conversion of a tag
// outside the constants below yields an UnknownTypeError.
type ItemType string

// XML Schema atomic types
const (
	XSAnyURI            ItemType = "xs:anyURI"
	XSBase64Binary      ItemType = "xs:base64Binary"
	XSBoolean           ItemType = "xs:boolean"
	XSDate              ItemType = "xs:date"
	XSDateTime          ItemType = "xs:dateTime"
	XSDayTimeDuration   ItemType = "xs:dayTimeDuration"
	XSDecimal           ItemType = "xs:decimal"
	XSDouble            ItemType = "xs:double"
	XSDuration          ItemType = "xs:duration"
	XSFloat             ItemType = "xs:float"
	XSGDay              ItemType = "xs:gDay"
	XSGMonth            ItemType = "xs:gMonth"
	XSGMonthDay         ItemType = "xs:gMonthDay"
	XSGYear             ItemType = "xs:gYear"
	XSGYearMonth        ItemType = "xs:gYearMonth"
	XSHexBinary         ItemType = "xs:hexBinary"
	XSInteger           ItemType = "xs:integer"
	XSQName             ItemType = "xs:QName"
	XSString            ItemType = "xs:string"
	XSTime              ItemType = "xs:time"
	XSUntypedAtomic     ItemType = "xs:untypedAtomic"
	XSYearMonthDuration ItemType = "xs:yearMonthDuration"
)

// XML node kinds
const (
	AttributeNode  ItemType = "attribute()"
	BinaryNode     ItemType = "binary()"
	CommentNode    ItemType = "comment()"
	DocumentNode   ItemType = "document-node()"
	ElementNode    ItemType = "element()"
	ProcessingInst ItemType = "processing-instruction()"
	TextNode       ItemType = "text()"
)

// JSON node kinds and JS values
const (
	ArrayNode   ItemType = "array-node()"
	BooleanNode ItemType = "boolean-node()"
	NullNode    ItemType = "null-node()"
	NumberNode  ItemType = "number-node()"
	ObjectNode  ItemType = "object-node()"
	JSArray     ItemType = "json:array"
	JSObject    ItemType = "json:object"
	MapMap      ItemType = "map:map"
)

// Geospatial and semantic types
const (
	CtsBox     ItemType = "cts:box"
	CtsCircle  ItemType = "cts:circle"
	CtsPoint   ItemType = "cts:point"
	CtsPolygon ItemType = "cts:polygon"
	SemBlank   ItemType = "sem:blank"
	SemIRI     ItemType = "sem:iri"
	SemTriple  ItemType = "sem:triple"
)

// Known reports whether the tag has a conversion entry.
func (t ItemType) Known() bool {
	switch t {
	case XSAnyURI, XSBase64Binary, XSBoolean, XSDate, XSDateTime,
		XSDayTimeDuration, XSDecimal, XSDouble, XSDuration, XSFloat,
		XSGDay, XSGMonth, XSGMonthDay, XSGYear, XSGYearMonth,
		XSHexBinary, XSInteger, XSQName, XSString, XSTime,
		XSUntypedAtomic, XSYearMonthDuration,
		AttributeNode, BinaryNode, CommentNode, DocumentNode,
		ElementNode, ProcessingInst, TextNode,
		ArrayNode, BooleanNode, NullNode, NumberNode, ObjectNode,
		JSArray, JSObject, MapMap,
		CtsBox, CtsCircle, CtsPoint, CtsPolygon,
		SemBlank, SemIRI, SemTriple:
		return true
	}
	return false
}

// Item is one member of a result sequence: the server type tag plus the
// raw part body. Conversion to a native Go value is deferred to Value so
// callers that only need the lexical form never pay for parsing.
type Item struct {
	Type ItemType
	data []byte
}

// NewItem builds an Item from a type tag and raw body.
func NewItem(t ItemType, data []byte) Item {
	return Item{Type: t, data: data}
}

// Bytes returns the raw part body.
func (it Item) Bytes() []byte { return it.data }

// String returns the lexical form of the item.
func (it Item) String() string { return string(it.data) }

// Value converts the item to its native Go value:
//
//	xs:string, xs:anyURI, xs:untypedAtomic, xs:QName  string
//	xs:integer                                        int64
//	xs:decimal                                        *big.Rat
//	xs:double, xs:float                               float64
//	xs:boolean, boolean-node()                        bool
//	xs:date, xs:dateTime, xs:time                     time.Time
//	xs:dayTimeDuration                                time.Duration
//	xs:duration, xs:yearMonthDuration                 string (lexical)
//	xs:gDay .. xs:gYearMonth                          string (lexical)
//	xs:hexBinary, xs:base64Binary, binary()           []byte
//	document-node(), element()                        string (serialized XML)
//	attribute(), text(), comment(), p-i()             string (lexical)
//	object-node(), json:object, map:map               map[string]any
//	array-node(), json:array                          []any
//	number-node()                                     float64
//	null-node()                                       nil
//	cts:point / box / circle / polygon                Point / Box / Circle / Polygon
//	sem:iri, sem:blank                                string
//	sem:triple                                        string (lexical)
//
// Months-bearing durations and the gregorian partials have no faithful Go
// representation, so they stay lexical. A tag outside the closed set yields
// an UnknownTypeError rather than an implicit lookup failure.
func (it Item) Value() (any, error) {
	s := string(it.data)
	switch it.Type {
	case XSString, XSAnyURI, XSUntypedAtomic, XSQName,
		XSDuration, XSYearMonthDuration,
		XSGDay, XSGMonth, XSGMonthDay, XSGYear, XSGYearMonth,
		DocumentNode, ElementNode,
		AttributeNode, TextNode, CommentNode, ProcessingInst,
		SemIRI, SemBlank, SemTriple:
		return s, nil

	case XSInteger:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, it.convErr(err)
		}
		return n, nil

	case XSDecimal:
		r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
		if !ok {
			return nil, it.convErr(fmt.Errorf("malformed decimal %q", s))
		}
		return r, nil

	case XSDouble, XSFloat, NumberNode:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, it.convErr(err)
		}
		return f, nil

	case XSBoolean, BooleanNode:
		switch strings.TrimSpace(s) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return nil, it.convErr(fmt.Errorf("malformed boolean %q", s))

	case XSDateTime:
		return parseLexicalTime(s, dateTimeLayouts)
	case XSDate:
		return parseLexicalTime(s, dateLayouts)
	case XSTime:
		return parseLexicalTime(s, timeLayouts)

	case XSDayTimeDuration:
		return ParseDayTimeDuration(s)

	case XSHexBinary:
		b, err := hex.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, it.convErr(err)
		}
		return b, nil

	case XSBase64Binary:
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
		if err != nil {
			return nil, it.convErr(err)
		}
		return b, nil

	case BinaryNode:
		return it.data, nil

	case ObjectNode, JSObject, MapMap:
		var m map[string]any
		if err := json.Unmarshal(it.data, &m); err != nil {
			return nil, it.convErr(err)
		}
		return m, nil

	case ArrayNode, JSArray:
		var a []any
		if err := json.Unmarshal(it.data, &a); err != nil {
			return nil, it.convErr(err)
		}
		return a, nil

	case NullNode:
		return nil, nil

	case CtsPoint:
		return ParsePoint(s)
	case CtsBox:
		return ParseBox(s)
	case CtsCircle:
		return ParseCircle(s)
	case CtsPolygon:
		return ParsePolygon(s)
	}

	return nil, &UnknownTypeError{Tag: string(it.Type)}
}

func (it Item) convErr(err error) error {
	return fmt.Errorf("converting %s item: %w", it.Type, err)
}

var (
	dateTimeLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999999",
	}
	dateLayouts = []string{
		"2006-01-02",
		"2006-01-02Z07:00",
	}
	timeLayouts = []string{
		"15:04:05.999999999",
		"15:04:05.999999999Z07:00",
	}
)

func parseLexicalTime(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var err error
	for _, layout := range layouts {
		var ts time.Time
		if ts, err = time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// ParseDayTimeDuration parses an xs:dayTimeDuration lexical form such as
// "P1DT2H3M4.5S" or "-PT30S" into a time.Duration.
func ParseDayTimeDuration(s string) (time.Duration, error) {
	orig := s
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
	}
	s = s[1:]

	datePart, timePart := s, ""
	hasT := false
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
		hasT = true
	}
	if datePart == "" && timePart == "" {
		return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
	}
	if hasT && timePart == "" {
		return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
	}

	var d time.Duration
	if datePart != "" {
		if !strings.HasSuffix(datePart, "D") {
			return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
		}
		days, err := strconv.ParseInt(strings.TrimSuffix(datePart, "D"), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
		}
		d += time.Duration(days) * 24 * time.Hour
	}

	rest := timePart
	for rest != "" {
		i := strings.IndexAny(rest, "HMS")
		if i < 0 {
			return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
		}
		val, unit := rest[:i], rest[i]
		rest = rest[i+1:]
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("malformed dayTimeDuration %q", orig)
		}
		switch unit {
		case 'H':
			d += time.Duration(f * float64(time.Hour))
		case 'M':
			d += time.Duration(f * float64(time.Minute))
		case 'S':
			d += time.Duration(f * float64(time.Second))
		}
	}

	if neg {
		d = -d
	}
	return d, nil
}

// Point is a geospatial point, lexical form "lat,lon".
type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) String() string {
	return trimFloat(p.Latitude) + "," + trimFloat(p.Longitude)
}

// Box is a geospatial box, lexical form "[south, west, north, east]".
type Box struct {
	South float64
	West  float64
	North float64
	East  float64
}

func (b Box) String() string {
	return fmt.Sprintf("[%s, %s, %s, %s]",
		trimFloat(b.South), trimFloat(b.West), trimFloat(b.North), trimFloat(b.East))
}

// Circle is a geospatial circle, lexical form "@radius lat,lon".
type Circle struct {
	Radius float64
	Center Point
}

func (c Circle) String() string {
	return "@" + trimFloat(c.Radius) + " " + c.Center.String()
}

// Polygon is a geospatial polygon, lexical form "lat,lon lat,lon ...".
type Polygon struct {
	Vertices []Point
}

func (p Polygon) String() string {
	parts := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}

// ParsePoint parses a cts:point lexical form.
func ParsePoint(s string) (Point, error) {
	lat, lon, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return Point{}, fmt.Errorf("malformed point %q", s)
	}
	latF, err1 := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	lonF, err2 := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err1 != nil || err2 != nil {
		return Point{}, fmt.Errorf("malformed point %q", s)
	}
	return Point{Latitude: latF, Longitude: lonF}, nil
}

// ParseBox parses a cts:box lexical form.
func ParseBox(s string) (Box, error) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "[") || !strings.HasSuffix(t, "]") {
		return Box{}, fmt.Errorf("malformed box %q", s)
	}
	fields := strings.Split(t[1:len(t)-1], ",")
	if len(fields) != 4 {
		return Box{}, fmt.Errorf("malformed box %q", s)
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Box{}, fmt.Errorf("malformed box %q", s)
		}
		vals[i] = v
	}
	return Box{South: vals[0], West: vals[1], North: vals[2], East: vals[3]}, nil
}

// ParseCircle parses a cts:circle lexical form.
func ParseCircle(s string) (Circle, error) {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "@") {
		return Circle{}, fmt.Errorf("malformed circle %q", s)
	}
	radius, center, ok := strings.Cut(t[1:], " ")
	if !ok {
		return Circle{}, fmt.Errorf("malformed circle %q", s)
	}
	r, err := strconv.ParseFloat(strings.TrimSpace(radius), 64)
	if err != nil {
		return Circle{}, fmt.Errorf("malformed circle %q", s)
	}
	c, err := ParsePoint(center)
	if err != nil {
		return Circle{}, fmt.Errorf("malformed circle %q", s)
	}
	return Circle{Radius: r, Center: c}, nil
}

// ParsePolygon parses a cts:polygon lexical form.
func ParsePolygon(s string) (Polygon, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) == 0 {
		return Polygon{}, fmt.Errorf("malformed polygon %q", s)
	}
	verts := make([]Point, len(fields))
	for i, f := range fields {
		p, err := ParsePoint(f)
		if err != nil {
			return Polygon{}, fmt.Errorf("malformed polygon %q", s)
		}
		verts[i] = p
	}
	return Polygon{Vertices: verts}, nil
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
