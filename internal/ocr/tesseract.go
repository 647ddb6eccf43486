//go:build cgo

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract recognizes captcha text with a gosseract client.
//
// A new client is created for each call and closed before it returns, so a
// Tesseract value holds no native resources and is safe to copy.
type Tesseract struct {
	opts Options
}

// NewTesseract creates a recognizer. An empty Language or PageSegMode falls
// back to DefaultOptions.
func NewTesseract(opts Options) *Tesseract {
	return &Tesseract{opts: opts.withDefaults()}
}

// Options returns the effective recognizer options.
func (t *Tesseract) Options() Options {
	return t.opts
}

// Recognize performs OCR on an encoded PNG or JPEG image.
//
// Parameters:
//   - data: Encoded image bytes.
//
// Returns:
//   - *Recognition: The recognized text and per-symbol confidences.
//   - error: Non-nil if Tesseract cannot be configured or recognition fails.
//
// If symbol-level bounding boxes cannot be extracted, the text is still
// returned with an empty Symbols slice.
func (t *Tesseract) Recognize(data []byte) (*Recognition, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.opts.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}

	if err := client.SetLanguage(t.opts.Language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetPageSegMode(gosseract.PageSegMode(t.opts.PageSegMode)); err != nil {
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	if t.opts.Whitelist != "" {
		if err := client.SetWhitelist(t.opts.Whitelist); err != nil {
			return nil, fmt.Errorf("failed to set whitelist: %w", err)
		}
	}

	if err := client.SetImageFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Get symbol-level boxes; return just text if they fail
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_SYMBOL)
	if err != nil {
		return &Recognition{Text: text, Symbols: []Symbol{}}, nil
	}

	symbols := make([]Symbol, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		symbols = append(symbols, Symbol{
			Text:       box.Word,
			Confidence: box.Confidence / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Recognition{
		Text:       text,
		Confidence: meanConfidence(symbols),
		Symbols:    symbols,
	}, nil
}

// TesseractVersion returns the linked Tesseract version.
func TesseractVersion() (string, error) {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version(), nil
}

// GetOCRInfo returns information about OCR availability.
func GetOCRInfo() OCRInfo {
	version, err := TesseractVersion()
	if err != nil {
		return OCRInfo{
			Available: false,
			Error:     err.Error(),
			Backend:   "gosseract",
		}
	}

	return OCRInfo{
		Available: true,
		Version:   version,
		Backend:   "gosseract",
	}
}
