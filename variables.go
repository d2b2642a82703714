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
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// Variable is an external variable binding for a query or module request.
// A bare value with zero Type is typed by inference (see InferType). AsIs
// bypasses conversion and sends fmt.Sprint of the value unchanged.
type Variable struct {
	Name      string
	Namespace string
	Value     any
	Type      ItemType
	AsIs      bool
}

// NewStringVariable binds a bare string as xs:string, the implicit typing
// for untyped bindings.
func NewStringVariable(name, value string) Variable {
	return Variable{Name: name, Value: value, Type: XSString}
}

// InferType maps a native Go value to the server type it binds as by
// default.
func InferType(v any) (ItemType, bool) {
	switch v.(type) {
	case string:
		return XSString, true
	case bool:
		return XSBoolean, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return XSInteger, true
	case float32, float64:
		return XSDouble, true
	case *big.Rat:
		return XSDecimal, true
	case time.Time:
		return XSDateTime, true
	case time.Duration:
		return XSDayTimeDuration, true
	case []byte:
		return XSBase64Binary, true
	case Point:
		return CtsPoint, true
	case Box:
		return CtsBox, true
	case Circle:
		return CtsCircle, true
	case Polygon:
		return CtsPolygon, true
	case map[string]any:
		return JSObject, true
	case []any:
		return JSArray, true
	case nil:
		return NullNode, true
	}
	return "", false
}

// qualifiedName returns the Clark-notation name used on the wire:
// "{namespace}name" when a namespace is set, else the bare name.
func (v Variable) qualifiedName() string {
	if v.Namespace != "" {
		return "{" + v.Namespace + "}" + v.Name
	}
	return v.Name
}

// wireBinding is the JSON form of one variable in the request "vars"
// object.
type wireBinding struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// encode produces the wire binding for the variable: the effective type
// tag plus the lexical form of the value.
func (v Variable) encode() (wireBinding, error) {
	if v.AsIs {
		t := v.Type
		if t == "" {
			t = XSUntypedAtomic
		}
		return wireBinding{Type: string(t), Value: fmt.Sprint(v.Value)}, nil
	}

	t := v.Type
	if t == "" {
		inferred, ok := InferType(v.Value)
		if !ok {
			return wireBinding{}, fmt.Errorf("cannot infer server type for variable %q (%T)", v.Name, v.Value)
		}
		t = inferred
	}
	if !t.Known() {
		return wireBinding{}, &UnknownTypeError{Tag: string(t)}
	}

	lex, err := lexicalForm(t, v.Value)
	if err != nil {
		return wireBinding{}, fmt.Errorf("binding variable %q: %w", v.Name, err)
	}
	return wireBinding{Type: string(t), Value: lex}, nil
}

// lexicalForm renders a native value in the lexical form the server
// expects for the given type tag. This is the inverse of Item.Value.
func lexicalForm(t ItemType, v any) (string, error) {
	switch t {
	case XSString, XSAnyURI, XSUntypedAtomic, XSQName,
		XSDuration, XSYearMonthDuration,
		XSGDay, XSGMonth, XSGMonthDay, XSGYear, XSGYearMonth,
		DocumentNode, ElementNode,
		AttributeNode, TextNode, CommentNode, ProcessingInst,
		SemIRI, SemBlank, SemTriple:
		s, ok := v.(string)
		if !ok {
			return "", fmt.Errorf("%s binding requires string, got %T", t, v)
		}
		return s, nil

	case XSInteger:
		switch n := v.(type) {
		case int:
			return strconv.Itoa(n), nil
		case int8, int16, int32, uint8, uint16, uint32:
			return fmt.Sprintf("%d", n), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		case uint, uint64:
			return fmt.Sprintf("%d", n), nil
		}
		return "", fmt.Errorf("xs:integer binding requires integer, got %T", v)

	case XSDecimal:
		switch n := v.(type) {
		case *big.Rat:
			return strings.TrimRight(strings.TrimRight(n.FloatString(18), "0"), "."), nil
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		case int:
			return strconv.Itoa(n), nil
		}
		return "", fmt.Errorf("xs:decimal binding requires numeric, got %T", v)

	case XSDouble, XSFloat, NumberNode:
		switch n := v.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64), nil
		case float32:
			return strconv.FormatFloat(float64(n), 'f', -1, 32), nil
		case int:
			return strconv.Itoa(n), nil
		case int64:
			return strconv.FormatInt(n, 10), nil
		}
		return "", fmt.Errorf("%s binding requires numeric, got %T", t, v)

	case XSBoolean, BooleanNode:
		b, ok := v.(bool)
		if !ok {
			return "", fmt.Errorf("%s binding requires bool, got %T", t, v)
		}
		return strconv.FormatBool(b), nil

	case XSDateTime:
		ts, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("xs:dateTime binding requires time.Time, got %T", v)
		}
		return ts.Format(time.RFC3339Nano), nil

	case XSDate:
		ts, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("xs:date binding requires time.Time, got %T", v)
		}
		return ts.Format("2006-01-02"), nil

	case XSTime:
		ts, ok := v.(time.Time)
		if !ok {
			return "", fmt.Errorf("xs:time binding requires time.Time, got %T", v)
		}
		return ts.Format("15:04:05.999999999"), nil

	case XSDayTimeDuration:
		d, ok := v.(time.Duration)
		if !ok {
			return "", fmt.Errorf("xs:dayTimeDuration binding requires time.Duration, got %T", v)
		}
		return FormatDayTimeDuration(d), nil

	case XSHexBinary:
		b, ok := v.([]byte)
		if !ok {
			return "", fmt.Errorf("xs:hexBinary binding requires []byte, got %T", v)
		}
		return fmt.Sprintf("%x", b), nil

	case XSBase64Binary, BinaryNode:
		b, ok := v.([]byte)
		if !ok {
			return "", fmt.Errorf("%s binding requires []byte, got %T", t, v)
		}
		return base64.StdEncoding.EncodeToString(b), nil

	case ObjectNode, JSObject, MapMap, ArrayNode, JSArray:
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("%s binding: %w", t, err)
		}
		return string(raw), nil

	case NullNode:
		return "null", nil

	case CtsPoint:
		p, ok := v.(Point)
		if !ok {
			return "", fmt.Errorf("cts:point binding requires Point, got %T", v)
		}
		return p.String(), nil
	case CtsBox:
		b, ok := v.(Box)
		if !ok {
			return "", fmt.Errorf("cts:box binding requires Box, got %T", v)
		}
		return b.String(), nil
	case CtsCircle:
		c, ok := v.(Circle)
		if !ok {
			return "", fmt.Errorf("cts:circle binding requires Circle, got %T", v)
		}
		return c.String(), nil
	case CtsPolygon:
		p, ok := v.(Polygon)
		if !ok {
			return "", fmt.Errorf("cts:polygon binding requires Polygon, got %T", v)
		}
		return p.String(), nil
	}

	return "", &UnknownTypeError{Tag: string(t)}
}

// FormatDayTimeDuration renders a time.Duration as an xs:dayTimeDuration
// lexical form.
func FormatDayTimeDuration(d time.Duration) string {
	if d == 0 {
		return "PT0S"
	}
	var b strings.Builder
	if d < 0 {
		b.WriteByte('-')
		d = -d
	}
	b.WriteByte('P')
	if days := d / (24 * time.Hour); days > 0 {
		fmt.Fprintf(&b, "%dD", days)
		d -= days * 24 * time.Hour
	}
	if d == 0 {
		return b.String()
	}
	b.WriteByte('T')
	if h := d / time.Hour; h > 0 {
		fmt.Fprintf(&b, "%dH", h)
		d -= h * time.Hour
	}
	if m := d / time.Minute; m > 0 {
		fmt.Fprintf(&b, "%dM", m)
		d -= m * time.Minute
	}
	if d > 0 {
		secs := float64(d) / float64(time.Second)
		fmt.Fprintf(&b, "%sS", strconv.FormatFloat(secs, 'f', -1, 64))
	}
	return b.String()
}

// encodeVariables renders the full vars object sent with a request.
func encodeVariables(vars []Variable) (string, error) {
	if len(vars) == 0 {
		return "", nil
	}
	out := make(map[string]wireBinding, len(vars))
	for _, v := range vars {
		if v.Name == "" {
			return "", fmt.Errorf("variable with empty name")
		}
		wb, err := v.encode()
		if err != nil {
			return "", err
		}
		out[v.qualifiedName()] = wb
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
