// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/truyennet/pkg/slice"
)

type entry struct {
	Slug    string
	Chapter float64
}

/*
TestEmptyResults_EncodeAsArray guards the JSON shape of empty lists.
*/
func TestEmptyResults_EncodeAsArray(t *testing.T) {
	var none []entry

	for name, got := range map[string][]entry{
		"filter": slice.Filter(none, func(entry) bool { return true }),
		"reject": slice.Reject([]entry{{Slug: "a"}}, func(entry) bool { return true }),
		"unique": slice.UniqueBy(none, func(e entry) string { return e.Slug }),
		"take":   slice.Take(none, 3),
	} {
		raw, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw), name)
	}
}

/*
TestUniqueBy_KeepsFirstOccurrence ensures the most recent record wins when
lists are ordered newest first.
*/
func TestUniqueBy_KeepsFirstOccurrence(t *testing.T) {
	input := []entry{{"a", 3}, {"b", 1}, {"a", 2}, {"c", 1}, {"b", 0}}

	got := slice.UniqueBy(input, func(e entry) string { return e.Slug })

	assert.Equal(t, []entry{{"a", 3}, {"b", 1}, {"c", 1}}, got)
}

/*
TestTake covers the cap applied to suggestions and capped collections.
*/
func TestTake(t *testing.T) {
	input := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"under", 3, []int{1, 2, 3}},
		{"exact", 5, input},
		{"over", 10, input},
		{"unlimited", 0, input},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slice.Take(input, tt.n))
		})
	}
}

/*
TestMapAndReject composes the helpers the way the stores do.
*/
func TestMapAndReject(t *testing.T) {
	chapters := slice.Reject([]float64{1, 2.5, 3}, func(n float64) bool { return n == 2.5 })
	labels := slice.Map(chapters, func(n float64) string { return strconv.FormatFloat(n, 'f', -1, 64) })

	assert.Equal(t, []string{"1", "3"}, labels)
}
