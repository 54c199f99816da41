package gba

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToColorPacksBGR(t *testing.T) {
	assert.Equal(t, Color(0), ToColor(RGBA{0, 1, 2, AlphaOpaque}))
	assert.Equal(t, Color(32767), ToColor(White))
	assert.Equal(t, Color(0x001f), ToColor(Red))
	assert.Equal(t, Color(0x03e0), ToColor(Green))
	assert.Equal(t, Color(0x7c00), ToColor(Blue))
}

func TestToColorLosesPrecision(t *testing.T) {
	// The low three bits of each channel are discarded, so nearby
	// authored colors collapse.
	assert.Equal(t, ToColor(RGBA{8, 0, 0, AlphaOpaque}), ToColor(RGBA{15, 0, 0, AlphaOpaque}))
	assert.NotEqual(t, ToColor(RGBA{8, 0, 0, AlphaOpaque}), ToColor(RGBA{16, 0, 0, AlphaOpaque}))
}

func TestColorRGBAExpansion(t *testing.T) {
	c := ToColor(RGBA{248, 16, 96, AlphaOpaque})
	assert.Equal(t, RGBA{248, 16, 96, AlphaOpaque}, c.RGBA())
}

func TestEqualRGBIgnoresAlpha(t *testing.T) {
	assert.True(t, RGBA{1, 2, 3, 0}.EqualRGB(RGBA{1, 2, 3, 255}))
	assert.False(t, RGBA{1, 2, 3, 255}.EqualRGB(RGBA{1, 2, 4, 255}))
}
