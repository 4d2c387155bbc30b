package vizh

import (
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/vizh-lang/vizh/imop"
	"github.com/vizh-lang/vizh/utils"
)

// okColor is green for a recognised box, errColor red for an offending one,
// matching the "errors localisable back to source pixels" contract
// from the offending-image rendering rule.
var (
	okColor  = utils.HexToRGBA("#00c800")
	errColor = utils.HexToRGBA("#dc0000")
)

// RenderDebugImage draws box outlines over a copy of src: green for
// every successfully classified shape, red for every ParseError. It
// writes a PNG to outPath. Unlike the original's live GUI preview
// (an explicit non-goal here), this produces a static artifact that
// can be inspected offline or attached to CI output.
func RenderDebugImage(src *Bitmap, ok []BoundingBox, bad []BoundingBox, outPath string) error {
	base := image.NewNRGBA(image.Rect(0, 0, src.W, src.H))
	draw.Draw(base, base.Bounds(), bitmapToImage(src), image.Point{}, draw.Src)

	// The annotations live on their own transparent layer and are
	// source-over composited onto the parsed image.
	annot := image.NewNRGBA(base.Bounds())
	for _, box := range ok {
		drawBoxOutline(annot, box, okColor, 2)
	}
	for _, box := range bad {
		drawBoxOutline(annot, box, errColor, 3)
	}

	out := imop.NewBitmap(base.Bounds())
	comp := imop.InitOp()
	comp.Set(imop.SrcOver)
	comp.Draw(out, annot, base, nil)

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return encodePNG(f, out.Img)
}

// drawBoxOutline draws a rectangular outline, thickness pixels wide,
// around box directly onto img.
func drawBoxOutline(img *image.NRGBA, box BoundingBox, c color.NRGBA, thickness int) {
	for t := 0; t < thickness; t++ {
		for x := box.X; x < box.X+box.W; x++ {
			img.Set(x, box.Y+t, c)
			img.Set(x, box.Y+box.H-1-t, c)
		}
		for y := box.Y; y < box.Y+box.H; y++ {
			img.Set(box.X+t, y, c)
			img.Set(box.X+box.W-1-t, y, c)
		}
	}
}
