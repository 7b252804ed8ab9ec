package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleSetGet(t *testing.T) {
	var titles TitleSet
	titles.Add("en", "Greatest Hits")
	titles.Add("fr", "Plus Grands Succès")

	t.Run("exact locale match", func(t *testing.T) {
		assert.Equal(t, "Plus Grands Succès", titles.Get("fr"))
	})

	t.Run("falls back to first when locale absent", func(t *testing.T) {
		assert.Equal(t, "Greatest Hits", titles.Get("de"))
	})

	t.Run("empty locale returns first", func(t *testing.T) {
		assert.Equal(t, "Greatest Hits", titles.Get(""))
	})

	t.Run("empty set returns empty string", func(t *testing.T) {
		var empty TitleSet
		assert.Equal(t, "", empty.Get("en"))
	})
}

func TestResourceTitle(t *testing.T) {
	r := &Resource{}
	r.Titles.Add("en", "Track One")
	assert.Equal(t, "Track One", r.Title(""))
}
