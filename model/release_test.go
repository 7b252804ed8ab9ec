package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddResourceReference(t *testing.T) {
	t.Run("preserves first-seen order and dedups", func(t *testing.T) {
		r := &Release{}
		r.AddResourceReference("A1")
		r.AddResourceReference("A2")
		r.AddResourceReference("A1")
		assert.Equal(t, []string{"A1", "A2"}, r.ReleaseResourceReferences)
	})

	t.Run("no-op on empty release", func(t *testing.T) {
		r := &Release{}
		assert.Empty(t, r.ReleaseResourceReferences)
	})
}

func TestResourceIndex(t *testing.T) {
	idx := NewResourceIndex()
	a := &Resource{ResourceReference: "A1"}
	b := &Resource{ResourceReference: "A2"}
	idx.Put("A1", a)
	idx.Put("A2", b)

	t.Run("get by key", func(t *testing.T) {
		got, ok := idx.Get("A1")
		assert.True(t, ok)
		assert.Same(t, a, got)
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := idx.Get("A9")
		assert.False(t, ok)
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		assert.Equal(t, []string{"A1", "A2"}, idx.Keys())
	})

	t.Run("put replaces without reordering", func(t *testing.T) {
		c := &Resource{ResourceReference: "A1", DisplayArtist: "replaced"}
		idx.Put("A1", c)
		assert.Equal(t, []string{"A1", "A2"}, idx.Keys())
		got, _ := idx.Get("A1")
		assert.Equal(t, "replaced", got.DisplayArtist)
	})

	t.Run("len tracks distinct keys", func(t *testing.T) {
		assert.Equal(t, 2, idx.Len())
	})
}

func TestExtensionHolder(t *testing.T) {
	var h ExtensionHolder
	h.AddExtension(Extension{Namespace: "urn:custom", LocalName: "Foo", RawXML: []byte("<Foo/>")})
	assert.Len(t, h.Extensions, 1)
	assert.Equal(t, "urn:custom", h.Extensions[0].Namespace)
}
