package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinkToPage(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		page     int
		expected string
		ok       bool
	}{
		{name: "zero page is a no-op", url: "doc.pdf", page: 0},
		{name: "negative page is a no-op", url: "doc.pdf", page: -3},
		{name: "plain url", url: "doc.pdf", page: 1, expected: "doc.pdf#page=1", ok: true},
		{name: "replaces prior page fragment", url: "doc.pdf#page=2", page: 5, expected: "doc.pdf#page=5", ok: true},
		{name: "replaces other fragments", url: "doc.pdf#zoom=50", page: 3, expected: "doc.pdf#page=3", ok: true},
		{
			name:     "keeps query string",
			url:      "https://bucket.s3.amazonaws.com/doc.pdf?X-Amz-Signature=abc#page=9",
			page:     42,
			expected: "https://bucket.s3.amazonaws.com/doc.pdf?X-Amz-Signature=abc#page=42",
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, ok := LinkToPage(tt.url, tt.page)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, link)
		})
	}
}

func TestJump(t *testing.T) {
	t.Run("no page leaves viewer unchanged", func(t *testing.T) {
		viewer := &ViewerState{Src: "doc.pdf#page=2"}

		assert.False(t, Jump(viewer, "doc.pdf", 0))
		assert.False(t, Jump(viewer, "doc.pdf", -3))
		assert.Equal(t, ViewerState{Src: "doc.pdf#page=2"}, *viewer)
	})

	t.Run("new page navigates without reload", func(t *testing.T) {
		viewer := &ViewerState{Src: "doc.pdf#page=2"}

		assert.True(t, Jump(viewer, viewer.Src, 5))
		assert.Equal(t, "doc.pdf#page=5", viewer.Src)
		assert.Equal(t, 0, viewer.Reload)
	})

	t.Run("same page forces reload", func(t *testing.T) {
		viewer := &ViewerState{}

		Jump(viewer, "doc.pdf", 5)
		Jump(viewer, "doc.pdf", 5)
		Jump(viewer, "doc.pdf#page=5", 5)

		assert.Equal(t, "doc.pdf#page=5", viewer.Src)
		assert.Equal(t, 2, viewer.Reload)
	})
}
