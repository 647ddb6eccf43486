package solver

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ironsheep/captcha-calc/internal/imaging"
	"github.com/ironsheep/captcha-calc/internal/ocr"
)

// fakeRecognizer returns a canned recognition and records its input.
type fakeRecognizer struct {
	text  string
	err   error
	calls int
	got   []byte
}

func (f *fakeRecognizer) Recognize(data []byte) (*ocr.Recognition, error) {
	f.calls++
	f.got = data
	if f.err != nil {
		return nil, f.err
	}
	return &ocr.Recognition{Text: f.text, Confidence: 0.9}, nil
}

// createCaptchaFile writes a small dark-on-light PNG and returns its path.
func createCaptchaFile(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 80, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 80; x++ {
			if x >= 30 && x < 50 && y >= 10 && y < 20 {
				img.Set(x, y, color.Black)
			} else {
				img.Set(x, y, color.White)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "captcha.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func newTestSolver(rec Recognizer, input string, opts Options) (*Solver, *bytes.Buffer, *logtest.Hook) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	var out bytes.Buffer
	return New(rec, strings.NewReader(input), &out, logger, opts), &out, hook
}

func TestProcessImage_OCRSuccess(t *testing.T) {
	tests := []struct {
		name     string
		ocrText  string
		wantExpr string
		want     int
	}{
		{"addition", "1+2=", "1+2=", 3},
		{"multiplication letter", "5x6", "5x6", 30},
		{"subtraction with newline", "9-4=\n", "9-4=", 5},
		{"full-width equals", "7*0＝", "7*0=", 0},
		{"noise characters", " 3 + 4 ？ ", "3+4=", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{text: tt.ocrText}
			s, out, _ := newTestSolver(rec, "", Options{})

			outcome, err := s.ProcessImage(createCaptchaFile(t))
			if err != nil {
				t.Fatalf("ProcessImage failed: %v", err)
			}

			if outcome.Result != tt.want {
				t.Errorf("Result: got %d, want %d", outcome.Result, tt.want)
			}
			if outcome.Expression != tt.wantExpr {
				t.Errorf("Expression: got %q, want %q", outcome.Expression, tt.wantExpr)
			}
			if outcome.Source != SourceOCR {
				t.Errorf("Source: got %s, want %s", outcome.Source, SourceOCR)
			}
			if outcome.Confidence != 0.9 {
				t.Errorf("Confidence: got %v, want 0.9", outcome.Confidence)
			}
			if strings.Contains(out.String(), "Enter the expression") {
				t.Error("valid OCR result should not prompt for manual input")
			}
			if !strings.Contains(out.String(), "Cleaned OCR result: "+tt.wantExpr) {
				t.Errorf("output missing cleaned result:\n%s", out.String())
			}
		})
	}
}

func TestProcessImage_PassesRawBytesWithoutPreprocessing(t *testing.T) {
	path := createCaptchaFile(t)
	rec := &fakeRecognizer{text: "1+1="}
	s, _, _ := newTestSolver(rec, "", Options{})

	if _, err := s.ProcessImage(path); err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	want, _ := os.ReadFile(path)
	if !bytes.Equal(rec.got, want) {
		t.Error("recognizer should receive the file bytes unchanged")
	}
}

func TestProcessImage_Preprocessing(t *testing.T) {
	path := createCaptchaFile(t)
	rec := &fakeRecognizer{text: "2x2="}
	opts := Options{Preprocess: true, PreprocessOptions: imaging.DefaultPreprocessOptions()}
	s, _, _ := newTestSolver(rec, "", opts)

	outcome, err := s.ProcessImage(path)
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if outcome.Result != 4 {
		t.Errorf("Result: got %d, want 4", outcome.Result)
	}

	img, err := png.Decode(bytes.NewReader(rec.got))
	if err != nil {
		t.Fatalf("recognizer input is not a PNG: %v", err)
	}
	if img.Bounds().Dy() < imaging.DefaultPreprocessOptions().MinHeight {
		t.Errorf("preprocessed height: got %d, want >= %d", img.Bounds().Dy(), imaging.DefaultPreprocessOptions().MinHeight)
	}
}

func TestProcessImage_ManualFallback(t *testing.T) {
	rec := &fakeRecognizer{text: "1++2"}
	s, out, _ := newTestSolver(rec, "abc\n1 + 2\n7*8=\n", Options{})

	outcome, err := s.ProcessImage(createCaptchaFile(t))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}

	if outcome.Result != 56 || outcome.Expression != "7*8=" {
		t.Errorf("outcome: got %+v, want 7*8= -> 56", outcome)
	}
	if outcome.Source != SourceManual {
		t.Errorf("Source: got %s, want %s", outcome.Source, SourceManual)
	}

	text := out.String()
	if got := strings.Count(text, "Enter the expression"); got != 3 {
		t.Errorf("prompt count: got %d, want 3", got)
	}
	if got := strings.Count(text, "Invalid format"); got != 2 {
		t.Errorf("invalid format messages: got %d, want 2", got)
	}
	if !strings.Contains(text, "found 2") {
		t.Errorf("output should report the operator count:\n%s", text)
	}
}

func TestProcessImage_ManualInputWithoutTrailingNewline(t *testing.T) {
	rec := &fakeRecognizer{text: "12="}
	s, _, _ := newTestSolver(rec, "9-4=", Options{})

	outcome, err := s.ProcessImage(createCaptchaFile(t))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if outcome.Result != 5 {
		t.Errorf("Result: got %d, want 5", outcome.Result)
	}
}

func TestProcessImage_ManualUncomputableReprompts(t *testing.T) {
	rec := &fakeRecognizer{text: "x"}
	s, out, _ := newTestSolver(rec, "9223372036854775807+1\n2+2\n", Options{})

	outcome, err := s.ProcessImage(createCaptchaFile(t))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if outcome.Result != 4 {
		t.Errorf("Result: got %d, want 4", outcome.Result)
	}
	if !strings.Contains(out.String(), "cannot compute") {
		t.Errorf("output should report the uncomputable input:\n%s", out.String())
	}
}

func TestProcessImage_NoInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"only invalid lines", "abc\nxyz\n"},
		{"invalid last line without newline", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{text: "???"}
			s, _, _ := newTestSolver(rec, tt.input, Options{})

			_, err := s.ProcessImage(createCaptchaFile(t))
			if !errors.Is(err, ErrNoInput) {
				t.Errorf("error: got %v, want ErrNoInput", err)
			}
		})
	}
}

func TestProcessImage_OCRErrorFallsBackToManual(t *testing.T) {
	rec := &fakeRecognizer{err: errors.New("engine exploded")}
	s, out, hook := newTestSolver(rec, "3*3=\n", Options{})

	outcome, err := s.ProcessImage(createCaptchaFile(t))
	if err != nil {
		t.Fatalf("ProcessImage failed: %v", err)
	}
	if outcome.Result != 9 || outcome.Source != SourceManual {
		t.Errorf("outcome: got %+v, want manual 9", outcome)
	}
	if !strings.Contains(out.String(), "OCR failed") {
		t.Errorf("output should report the OCR failure:\n%s", out.String())
	}

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && entry.Message == "OCR failed" {
			warned = true
		}
	}
	if !warned {
		t.Error("OCR failure should be logged at warn level")
	}
}

func TestProcessImage_ImageLoadFailure(t *testing.T) {
	rec := &fakeRecognizer{text: "1+2="}
	s, out, _ := newTestSolver(rec, "1+2=\n", Options{})

	_, err := s.ProcessImage(filepath.Join(t.TempDir(), "missing.png"))
	if !errors.Is(err, ErrImageLoad) {
		t.Fatalf("error: got %v, want ErrImageLoad", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
	if rec.calls != 0 {
		t.Errorf("recognizer called %d times, want 0", rec.calls)
	}
	if strings.Contains(out.String(), "Enter the expression") {
		t.Error("load failure should not prompt for manual input")
	}
}

func TestProcessImage_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "captcha.gif")
	if err := os.WriteFile(path, []byte("GIF89a"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	s, _, _ := newTestSolver(&fakeRecognizer{}, "", Options{})

	_, err := s.ProcessImage(path)
	if !errors.Is(err, imaging.ErrUnsupportedFormat) {
		t.Errorf("error: got %v, want ErrUnsupportedFormat", err)
	}
}

func TestProcessImage_UnsolvableOCRAborts(t *testing.T) {
	rec := &fakeRecognizer{text: "9999999999999999999x9="}
	s, out, _ := newTestSolver(rec, "1+1=\n", Options{})

	_, err := s.ProcessImage(createCaptchaFile(t))
	if !errors.Is(err, ErrUnsolvable) {
		t.Fatalf("error: got %v, want ErrUnsolvable", err)
	}
	if strings.Contains(out.String(), "Enter the expression") {
		t.Error("valid but unsolvable OCR text should not prompt for manual input")
	}
}

func TestProcessImage_MaxChars(t *testing.T) {
	tests := []struct {
		name       string
		ocrText    string
		input      string
		want       int
		wantSource Source
	}{
		{"single digits fit", "1+2=", "", 3, SourceOCR},
		{"multi digit truncated", "12+34=", "12+34=\n", 46, SourceManual},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &fakeRecognizer{text: tt.ocrText}
			s, out, _ := newTestSolver(rec, tt.input, Options{MaxChars: 3})

			outcome, err := s.ProcessImage(createCaptchaFile(t))
			if err != nil {
				t.Fatalf("ProcessImage failed: %v", err)
			}
			if outcome.Result != tt.want || outcome.Source != tt.wantSource {
				t.Errorf("outcome: got %+v, want %d from %s", outcome, tt.want, tt.wantSource)
			}
			if !strings.Contains(out.String(), "first 3 characters") {
				t.Errorf("output should mention truncation:\n%s", out.String())
			}
		})
	}
}
