package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// contentPadding is the margin kept around the detected content box.
const contentPadding = 4

// CropToContent trims the uniform background margin around the glyphs.
//
// A pixel counts as content when its CIE lightness differs from the
// estimated background lightness by more than tolerance (0 to 1). The
// content box is grown by a few pixels of padding and clamped to the image.
// If no content pixel is found the image is returned unchanged.
func CropToContent(img image.Image, tolerance float64) image.Image {
	bounds := img.Bounds()
	background := BackgroundLightness(img)

	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			l := lightness(img.At(x, y))
			if l-background > tolerance || background-l > tolerance {
				if x < minX {
					minX = x
				}
				if x > maxX {
					maxX = x
				}
				if y < minY {
					minY = y
				}
				if y > maxY {
					maxY = y
				}
			}
		}
	}

	if maxX < minX || maxY < minY {
		return img
	}

	rect := image.Rect(minX-contentPadding, minY-contentPadding, maxX+1+contentPadding, maxY+1+contentPadding)
	return imaging.Crop(img, rect.Intersect(bounds))
}

// BackgroundLightness estimates the background lightness of an image as the
// mean CIE L* (0 = black, 1 = white) of its border pixels.
//
// Fully transparent pixels count as white.
func BackgroundLightness(img image.Image) float64 {
	bounds := img.Bounds()
	if bounds.Empty() {
		return 1
	}

	var sum float64
	var n int
	add := func(x, y int) {
		sum += lightness(img.At(x, y))
		n++
	}

	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		add(x, bounds.Min.Y)
		if bounds.Dy() > 1 {
			add(x, bounds.Max.Y-1)
		}
	}
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		add(bounds.Min.X, y)
		if bounds.Dx() > 1 {
			add(bounds.Max.X-1, y)
		}
	}

	return sum / float64(n)
}

// lightness returns the CIE L* of c in the range 0 to 1.
func lightness(c color.Color) float64 {
	cc, ok := colorful.MakeColor(c)
	if !ok {
		return 1
	}
	l, _, _ := cc.Lab()
	return l
}
