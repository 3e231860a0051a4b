package model1

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/fvbommel/sortorder"
)

// InsertAt inserts v at index, or appends when index is out of range.
func InsertAt[T any](s []T, index int, v T) []T {
	if index < 0 || index >= len(s) {
		return append(s, v)
	}
	s = append(s, v)
	copy(s[index+1:], s[index:])
	s[index] = v
	return s
}

// RemoveAt removes the element at index. The slice is returned unchanged
// when index is out of range.
func RemoveAt[T any](s []T, index int) ([]T, T, bool) {
	var zero T
	if index < 0 || index >= len(s) {
		return s, zero, false
	}
	v := s[index]
	copy(s[index:], s[index+1:])
	s[len(s)-1] = zero
	return s[:len(s)-1], v, true
}

// MoveAt repositions the element at from to to, keeping the relative order
// of every other element. Out of range indices are ignored.
func MoveAt[T any](s []T, from, to int) bool {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) {
		return false
	}
	if from == to {
		return true
	}
	v := s[from]
	if from < to {
		copy(s[from:to], s[from+1:to+1])
	} else {
		copy(s[to+1:from+1], s[to:from])
	}
	s[to] = v
	return true
}

// FromTo returns at most count elements starting at from.
func FromTo[T any](s []T, from, count int) []T {
	if from < 0 {
		from = 0
	}
	if count < 0 || from >= len(s) {
		return s[:0:0]
	}
	end := from + count
	if end > len(s) {
		end = len(s)
	}
	return s[from:end:end]
}

// ToString renders a field value for display and matching.
func ToString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case *ordereddict.Dict, []interface{}, map[string]interface{}:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	case fmt.Stringer:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Less returns true if v1 orders before v2. Numbers compare numerically,
// strings compare naturally and case insensitively, nil sorts first.
func Less(v1, v2 interface{}) bool {
	return Compare(v1, v2) < 0
}

// Compare returns -1, 0 or 1 ordering v1 against v2.
func Compare(v1, v2 interface{}) int {
	switch {
	case v1 == nil && v2 == nil:
		return 0
	case v1 == nil:
		return -1
	case v2 == nil:
		return 1
	}

	if n1, ok := toNumber(v1); ok {
		if n2, ok := toNumber(v2); ok {
			return compareFloat(n1, n2)
		}
	}

	switch a := v1.(type) {
	case bool:
		if b, ok := v2.(bool); ok {
			return compareBool(a, b)
		}
	case time.Time:
		if b, ok := v2.(time.Time); ok {
			return a.Compare(b)
		}
	}

	return compareNatural(ToString(v1), ToString(v2))
}

func compareNatural(s1, s2 string) int {
	s1, s2 = strings.ToLower(s1), strings.ToLower(s2)
	switch {
	case s1 == s2:
		return 0
	case sortorder.NaturalLess(s1, s2):
		return -1
	default:
		return 1
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
