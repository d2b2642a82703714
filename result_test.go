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

func TestResultSequenceShaping(t *testing.T) {
	a := NewItem(XSString, []byte("a"))
	b := NewItem(XSInteger, []byte("2"))

	t.Run("SingleTakesFirst", func(t *testing.T) {
		got, err := NewResultSequence([]Item{a}).Reshape(ShapeSingle)
		require.NoError(t, err)
		assert.Equal(t, "a", got)

		got, err = NewResultSequence([]Item{a, b}).Reshape(ShapeSingle)
		require.NoError(t, err)
		assert.Equal(t, "a", got)
	})

	t.Run("SingleEmptyIsNil", func(t *testing.T) {
		got, err := NewResultSequence(nil).Reshape(ShapeSingle)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("StrictSingleFailsOnMany", func(t *testing.T) {
		_, err := NewResultSequence([]Item{a, b}).Reshape(ShapeSingleStrict)
		require.Error(t, err)

		var multi *MultipleItemsError
		require.True(t, errors.As(err, &multi))
		assert.Len(t, multi.Items, 2)
		assert.Equal(t, "a", multi.Items[0].String())
	})

	t.Run("StrictSingleOnOne", func(t *testing.T) {
		got, err := NewResultSequence([]Item{b}).ExactlyOne()
		require.NoError(t, err)
		assert.Equal(t, int64(2), got)
	})

	t.Run("NoneDiscards", func(t *testing.T) {
		got, err := NewResultSequence([]Item{a, b}).Reshape(ShapeNone)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = NewResultSequence(nil).Reshape(ShapeNone)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("AllPassesThrough", func(t *testing.T) {
		got, err := NewResultSequence([]Item{a, b}).Reshape(ShapeAll)
		require.NoError(t, err)
		assert.Equal(t, []any{"a", int64(2)}, got)
	})
}

func TestResultSequenceAccessors(t *testing.T) {
	rs := NewResultSequence([]Item{
		NewItem(XSString, []byte("x")),
		NewItem(XSBoolean, []byte("true")),
	})

	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, []string{"x", "true"}, rs.Strings())

	vals, err := rs.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"x", true}, vals)

	one, err := rs.One()
	require.NoError(t, err)
	assert.Equal(t, "x", one)
}

func TestResultSequenceConversionError(t *testing.T) {
	rs := NewResultSequence([]Item{NewItem(ItemType("mystery"), []byte("?"))})

	_, err := rs.Values()
	var unknown *UnknownTypeError
	assert.True(t, errors.As(err, &unknown))
}
