package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/captcha-calc/internal/config"
	"github.com/ironsheep/captcha-calc/internal/imaging"
	"github.com/ironsheep/captcha-calc/internal/ocr"
	"github.com/ironsheep/captcha-calc/internal/picker"
	"github.com/ironsheep/captcha-calc/internal/solver"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// app wires the CLI to its collaborators so they can be replaced in tests.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	chooser       picker.Chooser
	newRecognizer func(cfg *config.Config) solver.Recognizer
}

func main() {
	a := &app{
		stdin:         os.Stdin,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
		chooser:       picker.Native{},
		newRecognizer: tesseractRecognizer,
	}
	os.Exit(a.run(os.Args[1:]))
}

func tesseractRecognizer(cfg *config.Config) solver.Recognizer {
	return ocr.NewTesseract(ocr.Options{
		Language:       cfg.OCR.Language,
		TessdataPrefix: cfg.OCR.Tessdata,
		Whitelist:      ocr.DefaultWhitelist,
		PageSegMode:    ocr.PSMSingleLine,
	})
}

func (a *app) run(args []string) int {
	// Handle --version and --help flags
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			a.printVersion()
			return 0
		case "--help", "-h", "help":
			a.printHelp()
			return 0
		}
		if strings.HasPrefix(args[0], "-") {
			fmt.Fprintf(a.stderr, "unknown option: %s\n", args[0])
			fmt.Fprintln(a.stderr, "Run 'captcha-calc --help' for usage.")
			return 2
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(a.stderr, "Configuration error: %v\n", err)
		return 1
	}

	// stdout carries the console dialogue, logs go to stderr
	logger := cfg.NewLogger()
	logger.SetOutput(a.stderr)
	logger.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"commit":  GitCommit,
	}).Debug("captcha-calc starting")

	path, ok := a.selectImage(args)
	if !ok {
		return 1
	}
	if path == "" {
		return 0
	}

	s := solver.New(a.newRecognizer(cfg), a.stdin, a.stdout, logger, solver.Options{
		MaxChars:   cfg.OCR.MaxChars,
		Preprocess: cfg.Preprocess.Enabled,
		PreprocessOptions: imaging.PreprocessOptions{
			Threshold:     uint8(cfg.Preprocess.Threshold),
			MinHeight:     cfg.Preprocess.MinHeight,
			DenoiseRadius: cfg.Preprocess.DenoiseRadius,
			Contrast:      imaging.DefaultPreprocessOptions().Contrast,
			CropTolerance: imaging.DefaultPreprocessOptions().CropTolerance,
		},
	})

	outcome, err := s.ProcessImage(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Error("captcha not solved")
		return 1
	}

	logger.WithFields(logrus.Fields{
		"expression": outcome.Expression,
		"result":     outcome.Result,
		"source":     outcome.Source,
	}).Info("captcha solved")
	return 0
}

// selectImage returns the image path from the arguments or the file dialog.
// An empty path with ok=true means the user cancelled.
func (a *app) selectImage(args []string) (path string, ok bool) {
	if len(args) > 0 {
		return args[0], true
	}

	fmt.Fprintln(a.stdout, "Please select the captcha image file...")
	path, err := a.chooser.Choose(picker.DefaultTitle)
	switch {
	case errors.Is(err, picker.ErrCancelled):
		fmt.Fprintln(a.stdout, "No file selected, exiting.")
		return "", true
	case errors.Is(err, picker.ErrUnavailable):
		fmt.Fprintln(a.stderr, "No file dialog in this build; pass the image path as an argument.")
		return "", false
	case err != nil:
		fmt.Fprintf(a.stderr, "File selection failed: %v\n", err)
		return "", false
	}

	fmt.Fprintf(a.stdout, "Selected image file: %s\n", path)
	return path, true
}

func (a *app) printVersion() {
	fmt.Fprintf(a.stdout, "captcha-calc %s\n", Version)
	fmt.Fprintf(a.stdout, "  Build time: %s\n", BuildTime)
	fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)

	info := ocr.GetOCRInfo()
	if info.Available {
		fmt.Fprintf(a.stdout, "  OCR: %s %s\n", info.Backend, info.Version)
	} else {
		fmt.Fprintf(a.stdout, "  OCR: unavailable (%s)\n", info.Error)
	}
}

func (a *app) printHelp() {
	fmt.Fprintln(a.stdout, "captcha-calc - solve arithmetic captcha images")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Usage: captcha-calc [options] [image]")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Without an image argument a file dialog opens (.png, .jpg, .jpeg).")
	fmt.Fprintln(a.stdout, "If recognition fails, the expression is read from stdin.")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Options:")
	fmt.Fprintln(a.stdout, "  --version, -v    Print version information")
	fmt.Fprintln(a.stdout, "  --help, -h       Print this help message")
	fmt.Fprintln(a.stdout)
	fmt.Fprintln(a.stdout, "Environment variables:")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_LOG_LEVEL=debug               Enable debug logging")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_OCR_LANGUAGE=eng              Tesseract language")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_OCR_TESSDATA=<dir>            Tesseract traineddata directory")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_OCR_MAX_CHARS=0               Keep only the first N recognized characters")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_PREPROCESS_ENABLED=true       Normalize the image before OCR")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_PREPROCESS_THRESHOLD=160      Binarization threshold (0-255)")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_PREPROCESS_MIN_HEIGHT=64      Upscale images shorter than this")
	fmt.Fprintln(a.stdout, "  CAPTCHA_CALC_PREPROCESS_DENOISE_RADIUS=1   Median filter radius")
}
