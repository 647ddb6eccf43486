package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// PreprocessOptions controls how a captcha is normalized before OCR.
type PreprocessOptions struct {
	// Threshold is the gray level (0-255) separating ink from background
	// after normalization. Pixels at or above it become white.
	Threshold uint8

	// MinHeight is the height in pixels the image is upscaled to when it is
	// shorter. Zero disables upscaling.
	MinHeight int

	// DenoiseRadius is the median filter radius used to remove speckle
	// noise. Zero disables denoising.
	DenoiseRadius float64

	// Contrast is the contrast adjustment in percent (-100 to 100).
	Contrast float64

	// CropTolerance is the lightness difference (0-1) from the background
	// at which a pixel counts as content. Zero disables cropping.
	CropTolerance float64
}

// DefaultPreprocessOptions returns options tuned for small arithmetic
// captchas.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		Threshold:     160,
		MinHeight:     64,
		DenoiseRadius: 1,
		Contrast:      40,
		CropTolerance: 0.2,
	}
}

// darkBackground is the CIE lightness below which the background is treated
// as dark and the image is inverted.
const darkBackground = 0.5

// Preprocess normalizes a captcha image for Tesseract.
//
// The steps are:
//  1. Flatten onto white so transparent pixels read as background.
//  2. Median filter to remove speckle noise.
//  3. Grayscale, and invert when the background is dark so glyphs are
//     always dark on light.
//  4. Contrast boost.
//  5. Crop to the glyph bounding box.
//  6. Upscale to MinHeight with Lanczos resampling.
//  7. Binarize at Threshold.
//
// The result is always a pure black and white *image.Gray.
func Preprocess(img image.Image, opts PreprocessOptions) *image.Gray {
	bounds := img.Bounds()
	canvas := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	var work image.Image = imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0)

	if opts.DenoiseRadius > 0 {
		work = effect.Median(work, opts.DenoiseRadius)
	}

	gray := imaging.Grayscale(work)
	if BackgroundLightness(gray) < darkBackground {
		gray = imaging.Invert(gray)
	}

	if opts.Contrast != 0 {
		gray = imaging.AdjustContrast(gray, opts.Contrast)
	}

	work = gray
	if opts.CropTolerance > 0 {
		work = CropToContent(work, opts.CropTolerance)
	}

	if opts.MinHeight > 0 && work.Bounds().Dy() < opts.MinHeight {
		work = imaging.Resize(work, 0, opts.MinHeight, imaging.Lanczos)
	}

	return segment.Threshold(work, opts.Threshold)
}

// PrepareForOCR decodes image bytes, preprocesses them and re-encodes the
// result as PNG.
func PrepareForOCR(data []byte, opts PreprocessOptions) ([]byte, error) {
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}

	processed := Preprocess(img, opts)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode preprocessed image: %w", err)
	}
	return buf.Bytes(), nil
}
