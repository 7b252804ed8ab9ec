package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ddexcore/model"
)

func TestDefaultParseOptions(t *testing.T) {
	opts := DefaultParseOptions()
	assert.Equal(t, model.FidelityBalanced, opts.FidelityLevel)
	assert.True(t, opts.PreserveExtensions)
	assert.True(t, opts.ResolveReferences)
	assert.Equal(t, CanonNone, opts.Canonicalization)
	assert.Equal(t, int64(30_000), opts.TimeoutMS)
	assert.Equal(t, 100, opts.DepthLimit)
}

func TestDefaultBuildOptions(t *testing.T) {
	opts := DefaultBuildOptions()
	assert.False(t, opts.EnableVerification)
	assert.True(t, opts.EnableDeterministicOrdering)
	assert.Equal(t, MemBalanced, opts.MemoryOptimization)
	assert.Equal(t, model.FidelityBalanced, opts.FidelityLevel, "embeds ParseOptions defaults")
}

func TestDefaultDiffConfig(t *testing.T) {
	cfg := DefaultDiffConfig()
	assert.False(t, cfg.IgnoreFormatting)
	assert.False(t, cfg.IgnoreReferenceIDs)
	assert.False(t, cfg.IgnoreOrderChanges)
}
