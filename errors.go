package vizh

import "fmt"

// BoundingBox is an (x, y, width, height) pixel-coordinate rectangle,
// expressed in body-region coordinates unless noted otherwise.
type BoundingBox struct {
	X, Y, W, H int
}

// ImageReadError reports that a source image could not be opened or
// decoded.
type ImageReadError struct {
	Path  string
	Cause error
}

func (e *ImageReadError) Error() string {
	return fmt.Sprintf("could not read image %q: %v", e.Path, e.Cause)
}
func (e *ImageReadError) Unwrap() error { return e.Cause }

// OCRFailureError reports that a recognised text region could not be
// decoded into usable text: an empty function name, a non-numeric
// argument count, or an empty callee name.
type OCRFailureError struct {
	Context string
	Box     BoundingBox
}

func (e *OCRFailureError) Error() string {
	return fmt.Sprintf("OCR failed to recognise %s", e.Context)
}

// ParseError reports that the Shape Classifier could not decide a
// contour's instruction variant. It carries the offending contour's
// bounding box so callers can localise the error back to source pixels.
type ParseError struct {
	Msg string
	Box BoundingBox
}

func (e *ParseError) Error() string { return e.Msg }

// UnbalancedLoopsError reports that a function's LoopStart/LoopEnd
// instructions do not form a balanced parenthesis string.
type UnbalancedLoopsError struct {
	Func string
}

func (e *UnbalancedLoopsError) Error() string {
	return fmt.Sprintf("function %q has unbalanced loop brackets", e.Func)
}

// UnknownCallError reports that a Call instruction's target could not
// be resolved to any sibling function, extern, or runtime symbol.
type UnknownCallError struct {
	Func   string
	Callee string
}

func (e *UnknownCallError) Error() string {
	return fmt.Sprintf("function %q calls unknown function %q", e.Func, e.Callee)
}

// LowerError reports that C emission failed for a specific function.
type LowerError struct {
	Func  string
	Cause error
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("error lowering function %q: %v", e.Func, e.Cause)
}
func (e *LowerError) Unwrap() error { return e.Cause }

// ToolchainError reports that the external C compiler or linker exited
// non-zero; Output carries its captured stderr verbatim.
type ToolchainError struct {
	Stage  string // "compile" or "link"
	Output string
}

func (e *ToolchainError) Error() string {
	return fmt.Sprintf("%s failed:\n%s", e.Stage, e.Output)
}
