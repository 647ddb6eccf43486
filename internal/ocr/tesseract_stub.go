//go:build !cgo

package ocr

// Tesseract is the stub recognizer compiled without CGO.
type Tesseract struct {
	opts Options
}

// NewTesseract creates a stub recognizer.
func NewTesseract(opts Options) *Tesseract {
	return &Tesseract{opts: opts.withDefaults()}
}

// Options returns the recognizer options.
func (t *Tesseract) Options() Options {
	return t.opts
}

// Recognize always returns ErrUnavailable.
func (t *Tesseract) Recognize(data []byte) (*Recognition, error) {
	return nil, ErrUnavailable
}

// TesseractVersion always returns ErrUnavailable.
func TesseractVersion() (string, error) {
	return "", ErrUnavailable
}

// GetOCRInfo reports that OCR is not compiled in.
func GetOCRInfo() OCRInfo {
	return OCRInfo{
		Available: false,
		Error:     ErrUnavailable.Error(),
		Backend:   "none",
	}
}
