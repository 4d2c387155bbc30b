package vizh

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultObjectName(t *testing.T) {
	sig, err := NewFunctionSignature("memcopy", 3)
	require.NoError(t, err)
	fn, err := NewFunction(sig, nil)
	require.NoError(t, err)

	single := []FileResult{{Path: "memcopy.png", Func: fn}}
	assert.Equal(t, "memcopy.o", DefaultObjectName(single))

	several := append(single, FileResult{Path: "other.png", Func: fn})
	assert.Equal(t, "vizh.o", DefaultObjectName(several))

	failed := []FileResult{{Path: "broken.png", Err: assert.AnError}}
	assert.Equal(t, "vizh.o", DefaultObjectName(failed))
}

func TestDefaultOutputName(t *testing.T) {
	assert.Equal(t, "a.out", DefaultOutputName())
}

func TestBuildProgramAggregatesPerFileFailures(t *testing.T) {
	d := &Driver{Toolchain: NewToolchain("libv")}

	results := []FileResult{
		{Path: "a.png", Err: assert.AnError},
		{Path: "b.png", ParseErrs: []*ParseError{
			{Msg: "didn't recognise the instruction", Box: BoundingBox{X: 1, Y: 2, W: 3, H: 4}},
			{Msg: "found an arrow, but not sure what direction it's pointing", Box: BoundingBox{X: 9, Y: 9, W: 2, H: 2}},
		}},
	}

	buildErrs, err := d.BuildProgram(results, filepath.Join(t.TempDir(), "a.out"))
	require.Error(t, err)
	// Every failure is reported, not just the first.
	assert.Len(t, buildErrs, 3)
}

func TestCompileProgramRejectsPrebuiltObjects(t *testing.T) {
	d := &Driver{Toolchain: NewToolchain("libv")}
	d.ExtraObjects = []string{"prebuilt.o"}

	_, err := d.CompileProgram(nil, filepath.Join(t.TempDir(), "out.o"))
	assert.Error(t, err)
}
