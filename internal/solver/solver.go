// Package solver runs the captcha pipeline for a single image: load,
// preprocess, recognize, clean, validate and evaluate, falling back to
// manual entry on the console when recognition does not yield a valid
// expression.
//
// Console dialogue goes to the writer given to New (stdout in the CLI).
// Operational logging goes to the logrus logger.
package solver

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/captcha-calc/internal/expression"
	"github.com/ironsheep/captcha-calc/internal/imaging"
	"github.com/ironsheep/captcha-calc/internal/ocr"
)

var (
	// ErrImageLoad is returned when the image file cannot be read.
	ErrImageLoad = errors.New("cannot load image")

	// ErrUnsolvable is returned when OCR text has a valid format but
	// cannot be evaluated.
	ErrUnsolvable = errors.New("cannot evaluate recognized expression")

	// ErrNoInput is returned when the console input ends before a valid
	// expression was entered.
	ErrNoInput = errors.New("no manual input")
)

// Recognizer turns encoded image bytes into text.
type Recognizer interface {
	Recognize(data []byte) (*ocr.Recognition, error)
}

// Source tells where the solved expression came from.
type Source string

const (
	SourceOCR    Source = "ocr"
	SourceManual Source = "manual"
)

// Outcome is the solved captcha.
type Outcome struct {
	Expression string  `json:"expression"`
	Result     int     `json:"result"`
	Source     Source  `json:"source"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Options tunes the pipeline.
type Options struct {
	// MaxChars truncates the recognized text before cleaning; 0 keeps all.
	MaxChars int

	// Preprocess enables image normalization before OCR.
	Preprocess bool

	// PreprocessOptions is used when Preprocess is true.
	PreprocessOptions imaging.PreprocessOptions
}

// Solver processes captcha images one at a time.
type Solver struct {
	recognizer Recognizer
	opts       Options
	in         *bufio.Reader
	out        io.Writer
	log        logrus.FieldLogger
}

// New creates a Solver reading manual input from in and writing the
// console dialogue to out.
func New(recognizer Recognizer, in io.Reader, out io.Writer, logger logrus.FieldLogger, opts Options) *Solver {
	return &Solver{
		recognizer: recognizer,
		opts:       opts,
		in:         bufio.NewReader(in),
		out:        out,
		log:        logger,
	}
}

// ProcessImage solves the captcha stored at path.
//
// Errors wrap ErrImageLoad, ErrUnsolvable or ErrNoInput. An OCR failure is
// not an error: it leads to manual entry like any invalid recognition.
func (s *Solver) ProcessImage(path string) (*Outcome, error) {
	data, err := imaging.ReadImageFile(path)
	if err != nil {
		fmt.Fprintf(s.out, "Error: cannot load image %s: %v\n", path, err)
		return nil, fmt.Errorf("%w %s: %w", ErrImageLoad, path, err)
	}
	fmt.Fprintf(s.out, "Loaded image: %s\n", path)

	if info, err := imaging.InfoFromBytes(data); err == nil {
		s.log.WithFields(logrus.Fields{
			"path":   path,
			"width":  info.Width,
			"height": info.Height,
			"format": info.Format,
			"bytes":  info.FileSizeBytes,
		}).Debug("image loaded")
	}

	rec, err := s.recognize(data)
	if err != nil {
		s.log.WithError(err).Warn("OCR failed")
		fmt.Fprintf(s.out, "OCR failed: %v\n", err)
		fmt.Fprintln(s.out, "Please enter the expression manually.")
		return s.promptManual()
	}

	raw := expression.Truncate(rec.Text, s.opts.MaxChars)
	if s.opts.MaxChars > 0 {
		fmt.Fprintf(s.out, "OCR result (first %d characters): %s\n", s.opts.MaxChars, raw)
	} else {
		fmt.Fprintf(s.out, "OCR result: %s\n", raw)
	}

	cleaned := expression.Clean(raw)
	if n := expression.OperatorCount(cleaned); n != 1 {
		fmt.Fprintf(s.out, "Debug: expected one operator, found %d in %q\n", n, cleaned)
	}
	fmt.Fprintf(s.out, "Cleaned OCR result: %s\n", cleaned)

	if !expression.Validate(cleaned) {
		fmt.Fprintln(s.out, "OCR result is invalid, please enter the expression manually.")
		return s.promptManual()
	}

	result, err := expression.Evaluate(cleaned)
	if err != nil {
		fmt.Fprintf(s.out, "Error: cannot evaluate %s: %v\n", cleaned, err)
		return nil, fmt.Errorf("%w: %w", ErrUnsolvable, err)
	}

	fmt.Fprintf(s.out, "Recognized: %s, result: %d\n", cleaned, result)
	return &Outcome{
		Expression: cleaned,
		Result:     result,
		Source:     SourceOCR,
		Confidence: rec.Confidence,
	}, nil
}

// recognize runs OCR, on the preprocessed image when enabled. A
// preprocessing failure falls back to the original bytes.
func (s *Solver) recognize(data []byte) (*ocr.Recognition, error) {
	input := data
	if s.opts.Preprocess {
		prepared, err := imaging.PrepareForOCR(data, s.opts.PreprocessOptions)
		if err != nil {
			s.log.WithError(err).Warn("preprocessing failed, using original image")
		} else {
			input = prepared
		}
	}

	start := time.Now()
	rec, err := s.recognizer.Recognize(input)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"text":       strings.TrimSpace(rec.Text),
		"confidence": rec.Confidence,
		"symbols":    len(rec.Symbols),
		"elapsed":    time.Since(start),
	}).Debug("OCR complete")
	return rec, nil
}

// promptManual asks for an expression until a valid, computable one is
// entered or the input ends.
func (s *Solver) promptManual() (*Outcome, error) {
	for {
		fmt.Fprint(s.out, "Enter the expression (e.g. 1*6=): ")

		line, readErr := s.in.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, fmt.Errorf("failed to read input: %w", readErr)
		}
		input := strings.TrimSpace(line)
		eof := readErr != nil

		if input == "" && eof {
			fmt.Fprintln(s.out)
			return nil, ErrNoInput
		}

		if !expression.Validate(input) {
			fmt.Fprintln(s.out, "Invalid format, please enter an expression like '1*6='.")
			if eof {
				return nil, ErrNoInput
			}
			continue
		}

		result, err := expression.Evaluate(input)
		if err != nil {
			fmt.Fprintf(s.out, "Error: cannot compute %s: %v\n", input, err)
			if eof {
				return nil, ErrNoInput
			}
			continue
		}

		fmt.Fprintf(s.out, "Manual input: %s, result: %d\n", input, result)
		return &Outcome{
			Expression: input,
			Result:     result,
			Source:     SourceManual,
		}, nil
	}
}
