package vizh

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
)

// decodeImg decodes an image source file, adapted from the teacher's
// decodeImg: open, then decode by extension.
func decodeImg(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, &ImageReadError{Path: path, Cause: err}
	}
	defer file.Close()

	switch filepath.Ext(path) {
	case ".bmp":
		img, err := bmp.Decode(file)
		if err != nil {
			return nil, &ImageReadError{Path: path, Cause: err}
		}
		return img, nil
	default:
		img, err := imaging.Decode(file, imaging.AutoOrientation(true))
		if err != nil {
			return nil, &ImageReadError{Path: path, Cause: err}
		}
		return img, nil
	}
}

// imgToNRGBA converts any image.Image to *image.NRGBA with its origin
// normalised to (0, 0), adapted from the teacher's imgToNRGBA.
func imgToNRGBA(img image.Image) *image.NRGBA {
	srcBounds := img.Bounds()
	if srcBounds.Min.X == 0 && srcBounds.Min.Y == 0 {
		if src0, ok := img.(*image.NRGBA); ok {
			return src0
		}
	}
	srcMinX, srcMinY := srcBounds.Min.X, srcBounds.Min.Y
	dstBounds := srcBounds.Sub(srcBounds.Min)
	dst := image.NewNRGBA(dstBounds)

	for dstY := 0; dstY < dstBounds.Dy(); dstY++ {
		di := dst.PixOffset(0, dstY)
		for dstX := 0; dstX < dstBounds.Dx(); dstX++ {
			c := color.NRGBAModel.Convert(img.At(srcMinX+dstX, srcMinY+dstY)).(color.NRGBA)
			dst.Pix[di+0] = c.R
			dst.Pix[di+1] = c.G
			dst.Pix[di+2] = c.B
			dst.Pix[di+3] = c.A
			di += 4
		}
	}
	return dst
}

// rgbToGrayscale converts an image to 8-bit luminance samples, adapted
// from the teacher's rgbToGrayscale / Grayscale.
func rgbToGrayscale(src *image.NRGBA) []uint8 {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	gray := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			lum := float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114
			gray[y*w+x] = uint8(lum / 256)
		}
	}
	return gray
}

// encodePNG writes img out as a PNG in its own colour model, used by
// the debug visualiser to persist annotated (colour) images.
func encodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}
