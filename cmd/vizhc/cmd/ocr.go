package cmd

import (
	"bytes"
	"image/png"
	"os/exec"
	"strings"

	"github.com/vizh-lang/vizh"
)

// tesseractOCR shells out to the system `tesseract` binary, the same
// external OCR engine the original implementation binds to via a
// native extension. Reimplementing an OCR engine is explicitly out of
// scope; this is the minimal concrete collaborator the CLI needs to
// actually run end to end.
type tesseractOCR struct{}

func newOCRRecognizer() (vizh.TextRecognizer, error) {
	return tesseractOCR{}, nil
}

func (tesseractOCR) Recognize(crop *vizh.Bitmap) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, crop.Image()); err != nil {
		return "", err
	}

	cmd := exec.Command("tesseract", "stdin", "stdout", "--psm", "7")
	cmd.Stdin = &buf

	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
