// Package ocr recognizes the text of arithmetic captchas using Tesseract.
//
// This package wraps the Tesseract OCR engine (via gosseract/v2). Images are
// passed as encoded bytes, exactly as read from disk or as produced by the
// preprocessing step, so no temporary files are involved.
//
// # Prerequisites
//
// Tesseract and its development headers must be installed and the binary
// must be built with CGO enabled:
//   - Ubuntu/Debian: apt-get install tesseract-ocr libtesseract-dev
//   - macOS: brew install tesseract
//
// Without CGO a stub is compiled whose Recognize always returns
// ErrUnavailable.
//
// # Recognition Settings
//
// Captchas hold a single short line, so the default page segmentation mode
// is PSMSingleLine and recognition is restricted to DefaultWhitelist. Both
// can be changed through Options.
//
// # Confidence
//
// Each Recognition carries the per-symbol confidences reported by Tesseract
// (0.0 to 1.0) and their mean. Symbol extraction is best effort: if
// Tesseract cannot produce symbol boxes, the text is still returned with an
// empty Symbols slice and zero confidence.
package ocr
