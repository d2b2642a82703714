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

import "fmt"

// Shape is the result-reshaping policy applied to a result sequence.
type Shape int

const (
	// ShapeAll passes the full converted sequence through (default).
	ShapeAll Shape = iota

	// ShapeNone discards the result.
	ShapeNone

	// ShapeSingle takes the first item, or nil for an empty sequence.
	ShapeSingle

	// ShapeSingleStrict takes the first item and fails with a
	// MultipleItemsError when the sequence holds more than one.
	ShapeSingleStrict
)

// String returns the string representation of Shape.
func (s Shape) String() string {
	switch s {
	case ShapeAll:
		return "all"
	case ShapeNone:
		return "none"
	case ShapeSingle:
		return "single"
	case ShapeSingleStrict:
		return "single!"
	default:
		return "unknown"
	}
}

// ParseShape parses a Shape from a string.
func ParseShape(s string) (Shape, error) {
	switch s {
	case "all", "":
		return ShapeAll, nil
	case "none":
		return ShapeNone, nil
	case "single":
		return ShapeSingle, nil
	case "single!":
		return ShapeSingleStrict, nil
	default:
		return 0, fmt.Errorf("unknown result shape %q (valid: all, none, single, single!)", s)
	}
}

// ResultSequence is the converted view over a submitted request's result
// items.
type ResultSequence struct {
	items []Item
}

// NewResultSequence wraps raw result items.
func NewResultSequence(items []Item) *ResultSequence {
	if items == nil {
		items = []Item{}
	}
	return &ResultSequence{items: items}
}

// Items returns the raw items with their type tags.
func (rs *ResultSequence) Items() []Item { return rs.items }

// Len returns the number of items.
func (rs *ResultSequence) Len() int { return len(rs.items) }

// Values converts every item to its native Go value.
func (rs *ResultSequence) Values() ([]any, error) {
	out := make([]any, len(rs.items))
	for i, it := range rs.items {
		v, err := it.Value()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// One returns the first item's native value, or nil for an empty sequence.
func (rs *ResultSequence) One() (any, error) {
	return rs.Reshape(ShapeSingle)
}

// ExactlyOne returns the sole item's native value; more than one item
// fails with a MultipleItemsError carrying the full sequence.
func (rs *ResultSequence) ExactlyOne() (any, error) {
	return rs.Reshape(ShapeSingleStrict)
}

// Reshape applies a shaping policy:
//
//	ShapeAll          []any of every converted item
//	ShapeNone         nil
//	ShapeSingle       first item or nil
//	ShapeSingleStrict first item; MultipleItemsError if len > 1
func (rs *ResultSequence) Reshape(s Shape) (any, error) {
	switch s {
	case ShapeNone:
		return nil, nil
	case ShapeSingle:
		if len(rs.items) == 0 {
			return nil, nil
		}
		return rs.items[0].Value()
	case ShapeSingleStrict:
		if len(rs.items) > 1 {
			return nil, &MultipleItemsError{Items: rs.items}
		}
		if len(rs.items) == 0 {
			return nil, nil
		}
		return rs.items[0].Value()
	default:
		vals, err := rs.Values()
		if err != nil {
			return nil, err
		}
		return vals, nil
	}
}

// Strings returns the lexical form of every item, bypassing conversion.
func (rs *ResultSequence) Strings() []string {
	out := make([]string, len(rs.items))
	for i, it := range rs.items {
		out[i] = it.String()
	}
	return out
}
