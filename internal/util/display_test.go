package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadding(t *testing.T) {
	assert.Equal(t, "ab   ", PadRight("ab", 5))
	assert.Equal(t, "   ab", PadLeft("ab", 5))
	assert.Equal(t, 5, GetDisplayWidth(PadRight("abcdefgh", 5)))
	assert.Equal(t, "", PadRight("abc", 0))
	assert.Equal(t, 6, GetDisplayWidth(PadRight("日本", 6)))
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  hi  ", CenterText("hi", 6))
	assert.Equal(t, "hel", CenterText("hello", 3))
}
