package assertx

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// Equal is assert.Equal backed by go-cmp so options like cmpopts.IgnoreFields apply.
func Equal(t assert.TestingT, expected, actual any, opts ...cmp.Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	if !cmp.Equal(expected, actual, opts...) {
		return assert.Fail(t, fmt.Sprintf("Not equal: \n%s", cmp.Diff(expected, actual, opts...)))
	}
	return true
}

// ElementsMatch asserts that listA and listB hold the same elements in any
// order, comparing elements with go-cmp. Duplicates must appear as often in both.
func ElementsMatch(t assert.TestingT, listA, listB any, opts ...cmp.Option) bool {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
	a, okA := listValue(listA)
	b, okB := listValue(listB)
	if !okA || !okB {
		return assert.Fail(t, fmt.Sprintf("expecting arrays or slices, got %T and %T", listA, listB))
	}
	if a.Len() == 0 && b.Len() == 0 {
		return true
	}

	extraA, extraB := diffLists(a, b, opts...)
	if len(extraA) == 0 && len(extraB) == 0 {
		return true
	}

	var msg strings.Builder
	msg.WriteString("elements differ")
	if len(extraA) > 0 {
		fmt.Fprintf(&msg, "\n\nextra elements in list A:\n%#v", extraA)
	}
	if len(extraB) > 0 {
		fmt.Fprintf(&msg, "\n\nextra elements in list B:\n%#v", extraB)
	}
	return assert.Fail(t, msg.String())
}

func listValue(list any) (reflect.Value, bool) {
	if list == nil {
		return reflect.Value{}, false
	}
	v := reflect.ValueOf(list)
	if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
		return reflect.Value{}, false
	}
	return v, true
}

func diffLists(a, b reflect.Value, opts ...cmp.Option) (extraA, extraB []any) {
	visited := make([]bool, b.Len())
	for i := 0; i < a.Len(); i++ {
		element := a.Index(i).Interface()
		found := false
		for j := 0; j < b.Len(); j++ {
			if visited[j] {
				continue
			}
			if cmp.Equal(b.Index(j).Interface(), element, opts...) {
				visited[j] = true
				found = true
				break
			}
		}
		if !found {
			extraA = append(extraA, element)
		}
	}

	for j := 0; j < b.Len(); j++ {
		if !visited[j] {
			extraB = append(extraB, b.Index(j).Interface())
		}
	}
	return extraA, extraB
}
