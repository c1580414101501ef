package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMeta(t *testing.T) {
	p := Params{Page: 2, PerPage: 50}
	m := BuildMeta(120, p)

	assert.Equal(t, 2, m.Page)
	assert.Equal(t, int64(120), m.Total)
	assert.Equal(t, 3, m.TotalPages)
	assert.True(t, m.HasNext)
	assert.True(t, m.HasPrev)
	assert.Equal(t, 3, *m.NextPage)
	assert.Equal(t, 1, *m.PrevPage)
}

func TestBuildMeta_Empty(t *testing.T) {
	m := BuildMeta(0, Params{Page: 1, PerPage: 25})

	assert.Equal(t, 0, m.TotalPages)
	assert.False(t, m.HasNext)
	assert.False(t, m.HasPrev)
	assert.Nil(t, m.NextPage)
	assert.Nil(t, m.PrevPage)
}

func TestParamsOffset(t *testing.T) {
	p := Params{Page: 3, PerPage: 25}
	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 50, p.Offset())
}
