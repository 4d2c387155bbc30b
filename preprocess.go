package vizh

import (
	"image"
	"sort"

	"github.com/pkg/errors"
)

// dilateKernelSize is the side length, in pixels, of the rectangular
// structuring element used to merge a signature band's glyphs into a
// single connected blob before contour extraction.
const dilateKernelSize = 18

// thresholdLevel is the minimum grayscale intensity, on a 0-255 scale,
// classified as foreground (glyph). Everything strictly below it is
// background.
const thresholdLevel = 240

// Threshold binarises gray into a Bitmap: 255 where the source
// intensity is at least thresholdLevel, 0 otherwise, so glyphs read
// as white on black. Adapted from the teacher's Dither.
func Threshold(gray []uint8, w, h int) *Bitmap {
	bmp := NewBitmap(w, h)
	for i, v := range gray {
		if v >= thresholdLevel {
			bmp.Pix[i] = 255
		}
	}
	return bmp
}

// Dilate grows every foreground pixel of src by a kernelSize x
// kernelSize rectangular structuring element, adapted from the
// teacher's SobelFilter convolution-loop shape. Used to fuse a
// signature band's separate glyphs into one contour before
// DetectSignatureBand runs contour extraction on it.
func Dilate(src *Bitmap, kernelSize int) *Bitmap {
	half := kernelSize / 2
	dst := NewBitmap(src.W, src.H)
	for y := 0; y < src.H; y++ {
		for x := 0; x < src.W; x++ {
			found := false
			for ky := -half; ky < kernelSize-half && !found; ky++ {
				for kx := -half; kx < kernelSize-half; kx++ {
					if src.At(x+kx, y+ky) != 0 {
						found = true
						break
					}
				}
			}
			if found {
				dst.Set(x, y, 255)
			}
		}
	}
	return dst
}

// Preprocessed holds the outputs of the Image Preprocessor stage: the
// binarised full image, the two signature-band boxes (name box comes
// first, argument-count box second) and the cropped body region.
type Preprocessed struct {
	Binary  *Bitmap
	NameBox BoundingBox
	ArgBox  BoundingBox
	BodyBox BoundingBox
	Body    *Bitmap
}

// Preprocess runs grayscale conversion, binarisation, signature-band
// detection and body cropping over the image at path, in that order.
func Preprocess(path string) (*Preprocessed, error) {
	img, err := decodeImg(path)
	if err != nil {
		return nil, err
	}
	nrgba := imgToNRGBA(img)
	gray := rgbToGrayscale(nrgba)
	w, h := nrgba.Bounds().Dx(), nrgba.Bounds().Dy()

	binary := Threshold(gray, w, h)

	nameBox, argBox, bandBottom, err := DetectSignatureBand(binary)
	if err != nil {
		return nil, err
	}

	bodyBox := BoundingBox{X: 0, Y: bandBottom, W: w, H: h - bandBottom}
	if bodyBox.H < 0 {
		bodyBox.H = 0
	}
	body := binary.Crop(bodyBox)

	return &Preprocessed{
		Binary:  binary,
		NameBox: nameBox,
		ArgBox:  argBox,
		BodyBox: bodyBox,
		Body:    body,
	}, nil
}

// DetectSignatureBand locates the two signature-band boxes (function
// name, argument count) at the top of binary and returns them ordered
// left-to-right, plus the y-coordinate immediately below both boxes
// where the instruction body begins.
//
// Per the original implementation, the band is found by dilating the
// thresholded image with an 18x18 rectangular kernel so that a name's
// separate letters merge into one blob, then taking the external
// contours sorted by their top edge and keeping the two topmost.
func DetectSignatureBand(binary *Bitmap) (nameBox, argBox BoundingBox, bodyTop int, err error) {
	dilated := Dilate(binary, dilateKernelSize)
	contours := ExternalContours(dilated)
	if len(contours) < 2 {
		return BoundingBox{}, BoundingBox{}, 0, errors.New("vizh: could not locate a two-box signature band")
	}

	boxes := make([]BoundingBox, len(contours))
	for i, c := range contours {
		boxes[i] = BoundingRect(c)
	}

	sort.Slice(boxes, func(i, j int) bool { return boxes[i].Y < boxes[j].Y })
	top := boxes[:2]
	sort.Slice(top, func(i, j int) bool { return top[i].X < top[j].X })

	nameBox, argBox = top[0], top[1]
	bodyTop = nameBox.Y + nameBox.H
	if b := argBox.Y + argBox.H; b > bodyTop {
		bodyTop = b
	}
	return nameBox, argBox, bodyTop, nil
}

// bitmapToGray renders a Bitmap back to an *image.Gray, used by the
// debug visualiser when it needs to overlay contour boxes on the
// binarised working image rather than the original source pixels.
func bitmapToGray(b *Bitmap) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, b.W, b.H))
	copy(img.Pix, b.Pix)
	return img
}
