package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, parseIntDefault("5", 0))
	assert.Equal(t, 0, parseIntDefault("", 0))
	assert.Equal(t, 9, parseIntDefault("not a number", 9))
}

func TestParseFloatDefault(t *testing.T) {
	assert.Equal(t, 1.5, parseFloatDefault("1.5", 0))
	assert.Equal(t, 0.0, parseFloatDefault("", 0))
	assert.Equal(t, 9.0, parseFloatDefault("nope", 9))
}

func TestParseTimeDefaultAcceptsKnownLayouts(t *testing.T) {
	assert.Equal(t, 2024, parseTimeDefault("2024-03-05").Year())
	assert.Equal(t, time.March, parseTimeDefault("2024-03-05T10:00:00Z").Month())
}

func TestParseTimeDefaultFallsBackToZeroValue(t *testing.T) {
	assert.True(t, parseTimeDefault("not a date").IsZero())
}

func TestIsWhitespace(t *testing.T) {
	assert.True(t, isWhitespace("   \n\t"))
	assert.False(t, isWhitespace("  x "))
}

func TestEscapeTextAndAttr(t *testing.T) {
	assert.Equal(t, "A &amp; B &lt;tag&gt;", escapeText("A & B <tag>"))
	assert.Equal(t, "say &quot;hi&quot;", escapeAttr(`say "hi"`))
}
