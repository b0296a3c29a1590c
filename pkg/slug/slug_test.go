// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/truyennet/pkg/slug"
)

/*
TestFrom converts display names into URL slugs.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Tiên Nghịch", "tien-nghich"},
		{"Đấu Phá Thương Khung", "dau-pha-thuong-khung"},
		{"  Solo Leveling!! ", "solo-leveling"},
		{"One---Piece", "one-piece"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}

/*
TestKeyword keeps accents but collapses whitespace.
*/
func TestKeyword(t *testing.T) {
	assert.Equal(t, "tiên nghịch", slug.Keyword("  tiên   nghịch \t"))
	assert.Equal(t, "", slug.Keyword("   "))
}
