package model1

import (
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
)

func TestInsertAt(t *testing.T) {
	assert.Equal(t, []int{9, 1, 2}, InsertAt([]int{1, 2}, 0, 9))
	assert.Equal(t, []int{1, 9, 2}, InsertAt([]int{1, 2}, 1, 9))
	assert.Equal(t, []int{1, 2, 9}, InsertAt([]int{1, 2}, -1, 9))
	assert.Equal(t, []int{1, 2, 9}, InsertAt([]int{1, 2}, 7, 9))
}

func TestRemoveAt(t *testing.T) {
	s, v, ok := RemoveAt([]int{1, 2, 3}, 1)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, []int{1, 3}, s)

	s, _, ok = RemoveAt([]int{1}, 3)
	assert.False(t, ok)
	assert.Equal(t, []int{1}, s)
}

func TestMoveAt(t *testing.T) {
	s := []int{1, 2, 3, 4}
	assert.True(t, MoveAt(s, 0, 3))
	assert.Equal(t, []int{2, 3, 4, 1}, s)
	assert.True(t, MoveAt(s, 3, 1))
	assert.Equal(t, []int{2, 1, 3, 4}, s)
	assert.False(t, MoveAt(s, 4, 0))
}

func TestFromTo(t *testing.T) {
	s := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{2, 3}, FromTo(s, 1, 2))
	assert.Equal(t, []int{4, 5}, FromTo(s, 3, 10))
	assert.Empty(t, FromTo(s, 5, 2))
	assert.Empty(t, FromTo(s, 0, -1))
}

func TestToString(t *testing.T) {
	uu := map[string]struct {
		v interface{}
		e string
	}{
		"nil":    {v: nil, e: ""},
		"string": {v: "fred", e: "fred"},
		"int":    {v: 42, e: "42"},
		"float":  {v: 1.5, e: "1.5"},
		"bool":   {v: true, e: "true"},
		"dict":   {v: ordereddict.NewDict().Set("b", 1).Set("a", 2), e: `{"b":1,"a":2}`},
		"slice":  {v: []interface{}{"a", 1}, e: `["a",1]`},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, ToString(u.v))
		})
	}
}

func TestRowPaths(t *testing.T) {
	r := NewRow(nil)
	r.Set("address.city", "Paris")
	r.Set("name", "fred")

	v, ok := r.Get("address.city")
	assert.True(t, ok)
	assert.Equal(t, "Paris", v)
	assert.Equal(t, []string{"address", "name"}, r.Keys())

	_, ok = r.Get("address.zip")
	assert.False(t, ok)
	_, ok = r.Get("name.first")
	assert.False(t, ok)

	r.Set("name.first", "Fred")
	v, _ = r.Get("name.first")
	assert.Equal(t, "Fred", v)
}
