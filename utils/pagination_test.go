package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageParams(t *testing.T) {
	assert.Equal(t, PageParams{Page: 1, Limit: 20}, NewPageParams("", ""))
	assert.Equal(t, PageParams{Page: 3, Limit: 50}, NewPageParams("3", "50"))
	assert.Equal(t, PageParams{Page: 1, Limit: MaxLimit}, NewPageParams("-2", "1000"))
	assert.Equal(t, PageParams{Page: 1, Limit: 20}, NewPageParams("abc", "0"))
	assert.Equal(t, 40, PageParams{Page: 3, Limit: 20}.Offset())
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(PageParams{Page: 2, Limit: 20}, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	empty := NewPageMeta(PageParams{Page: 1, Limit: 20}, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
