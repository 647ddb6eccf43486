package ocr

import "errors"

var (
	// ErrUnavailable is returned when the binary was built without Tesseract.
	ErrUnavailable = errors.New("tesseract OCR not available; rebuild with CGO_ENABLED=1")

	// ErrEmptyImage is returned by Recognize for empty input.
	ErrEmptyImage = errors.New("empty image data")
)

// DefaultWhitelist is the character set Tesseract may emit for captchas.
const DefaultWhitelist = "0123456789+-*x="

// PageSegMode mirrors Tesseract's page segmentation modes.
type PageSegMode int

// Page segmentation modes relevant to captchas.
const (
	PSMAuto        PageSegMode = 3  // Fully automatic page segmentation
	PSMSingleBlock PageSegMode = 6  // Single uniform block of text
	PSMSingleLine  PageSegMode = 7  // Single text line
	PSMSingleWord  PageSegMode = 8  // Single word
	PSMRawLine     PageSegMode = 13 // Single text line, bypassing Tesseract hacks
)

// Options configures a Tesseract recognizer.
type Options struct {
	// Language is the Tesseract language code, e.g. "eng".
	Language string

	// TessdataPrefix is the directory holding *.traineddata files.
	// Empty means Tesseract's compiled-in default.
	TessdataPrefix string

	// Whitelist restricts the characters Tesseract may output.
	// Empty disables the restriction.
	Whitelist string

	// PageSegMode selects the page segmentation mode.
	PageSegMode PageSegMode
}

// DefaultOptions returns options for single-line arithmetic captchas.
func DefaultOptions() Options {
	return Options{
		Language:    "eng",
		Whitelist:   DefaultWhitelist,
		PageSegMode: PSMSingleLine,
	}
}

// withDefaults fills zero-valued Language and PageSegMode from
// DefaultOptions. Whitelist and TessdataPrefix are used as given.
func (o Options) withDefaults() Options {
	defaults := DefaultOptions()
	if o.Language == "" {
		o.Language = defaults.Language
	}
	if o.PageSegMode == 0 {
		o.PageSegMode = defaults.PageSegMode
	}
	return o
}

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Symbol is a single recognized character with its location and confidence.
type Symbol struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Bounds     Bounds  `json:"bounds"`
}

// Recognition is the result of running OCR on one image.
type Recognition struct {
	// Text is the recognized text as returned by Tesseract, untrimmed.
	Text string `json:"text"`

	// Confidence is the mean symbol confidence (0.0 to 1.0), or 0 when no
	// symbols were reported.
	Confidence float64 `json:"confidence"`

	// Symbols holds per-character results. May be empty.
	Symbols []Symbol `json:"symbols"`
}

// OCRInfo contains information about the OCR subsystem.
type OCRInfo struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
	Backend   string `json:"backend"`
}

// meanConfidence averages symbol confidences.
func meanConfidence(symbols []Symbol) float64 {
	if len(symbols) == 0 {
		return 0
	}
	var sum float64
	for _, s := range symbols {
		sum += s.Confidence
	}
	return sum / float64(len(symbols))
}
