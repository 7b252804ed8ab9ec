package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ddexcore/model"
)

func TestStructurallyEqualIgnoresNilVsEmptySlices(t *testing.T) {
	a := &model.Message{Releases: nil}
	b := &model.Message{Releases: []model.Release{}}
	assert.True(t, StructurallyEqual(a, b))
}

func TestStructurallyEqualDetectsFieldDifference(t *testing.T) {
	a := &model.Message{Header: model.MessageHeader{Version: model.V4_2}}
	b := &model.Message{Header: model.MessageHeader{Version: model.V4_3}}
	assert.False(t, StructurallyEqual(a, b))
}

func TestStructurallyEqualSameValueDifferentInstances(t *testing.T) {
	a := baseMessage()
	b := baseMessage()
	assert.True(t, StructurallyEqual(a, b))
}
