package vizh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyTriangleApexUpIsRead(t *testing.T) {
	// Apex-up triangle: base along the bottom, point at the top.
	contour := Contour{{0, 10}, {5, 0}, {10, 10}}
	c := NewShapeClassifier(nil, nil)

	instr, err := c.Classify(contour)
	require.NoError(t, err)
	require.NotNil(t, instr)
	assert.Equal(t, Read, instr.Kind())
}

func TestClassifyTriangleApexDownIsWrite(t *testing.T) {
	// Apex-down triangle: base along the top, point at the bottom.
	contour := Contour{{0, 0}, {5, 10}, {10, 0}}
	c := NewShapeClassifier(nil, nil)

	instr, err := c.Classify(contour)
	require.NoError(t, err)
	require.NotNil(t, instr)
	assert.Equal(t, Write, instr.Kind())
}

func TestClassifyQuadWithoutNestingIsDec(t *testing.T) {
	body := filledSquareBitmap(20, 20, 2, 2, 18, 18)
	c := NewShapeClassifier(body, nil)

	// A quadrilateral contour (the rectangle's own boundary).
	contour := Contour{{2, 2}, {17, 2}, {17, 17}, {2, 17}}
	instr, err := c.Classify(contour)
	require.NoError(t, err)
	require.NotNil(t, instr)
	assert.Equal(t, Dec, instr.Kind())
}

func TestClassifyPlusIsInc(t *testing.T) {
	plus := Contour{
		{4, 0}, {6, 0}, {6, 4}, {10, 4}, {10, 6}, {6, 6}, {6, 10}, {4, 10},
	}
	c := NewShapeClassifier(nil, nil)
	instr, err := c.Classify(plus)
	require.NoError(t, err)
	require.NotNil(t, instr)
	assert.Equal(t, Inc, instr.Kind())
}

func TestClassifyUnrecognisedShape(t *testing.T) {
	line := Contour{{0, 0}, {10, 0}}
	c := NewShapeClassifier(nil, nil)
	_, err := c.Classify(line)
	assert.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}
