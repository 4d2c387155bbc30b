package vizh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutOrdersLinesTopToBottomLeftToRight(t *testing.T) {
	inc, err := NewInstruction(Inc)
	require.NoError(t, err)
	dec, err := NewInstruction(Dec)
	require.NoError(t, err)
	left, err := NewInstruction(Left)
	require.NoError(t, err)
	right, err := NewInstruction(Right)
	require.NoError(t, err)

	placed := []placedInstruction{
		{box: BoundingBox{X: 20, Y: 0, W: 5, H: 5}, instr: dec},   // line 1, second
		{box: BoundingBox{X: 0, Y: 0, W: 5, H: 5}, instr: inc},    // line 1, first
		{box: BoundingBox{X: 10, Y: 20, W: 5, H: 5}, instr: right}, // line 2, second
		{box: BoundingBox{X: 0, Y: 20, W: 5, H: 5}, instr: left},  // line 2, first
	}

	ordered := Layout(placed)
	require.Len(t, ordered, 4)
	assert.Equal(t, []Instruction{inc, dec, left, right}, ordered)
}

func TestLayoutTallGlyphKeepsFollowingGlyphOnSameLine(t *testing.T) {
	inc, _ := NewInstruction(Inc)
	dec, _ := NewInstruction(Dec)

	// A short glyph whose top falls within a taller glyph's vertical
	// span stays on the same line as that glyph.
	placed := []placedInstruction{
		{box: BoundingBox{X: 0, Y: 0, W: 5, H: 30}, instr: inc},
		{box: BoundingBox{X: 10, Y: 25, W: 5, H: 5}, instr: dec},
	}

	ordered := Layout(placed)
	require.Len(t, ordered, 2)
	assert.Equal(t, []Instruction{inc, dec}, ordered)
}
