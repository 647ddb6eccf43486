package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// createTestImage creates a solid-color test image file and returns its path.
// The file lives in t.TempDir() and is removed with it.
func createTestImage(t *testing.T, name string, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	switch filepath.Ext(name) {
	case ".jpg", ".jpeg", ".JPG":
		err = jpeg.Encode(f, img, nil)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}

	return path
}

func TestReadImageFile(t *testing.T) {
	path := createTestImage(t, "captcha.png", 60, 20, color.White)

	data, err := ReadImageFile(path)
	if err != nil {
		t.Fatalf("ReadImageFile failed: %v", err)
	}

	want, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	if !bytes.Equal(data, want) {
		t.Error("ReadImageFile returned different bytes than the file contents")
	}
}

func TestReadImageFile_Extensions(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.png", false},
		{"a.jpg", false},
		{"a.jpeg", false},
		{"a.PNG", false},
		{"a.JPG", false},
		{"a.gif", true},
		{"a.bmp", true},
		{"noext", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestImage(t, tt.name, 10, 10, color.White)
			_, err := ReadImageFile(path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ReadImageFile(%s) error = %v, want ErrUnsupportedFormat", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Errorf("ReadImageFile(%s) failed: %v", tt.name, err)
			}
		})
	}
}

func TestReadImageFile_NonExistent(t *testing.T) {
	_, err := ReadImageFile("/nonexistent/path/to/image.png")
	if err == nil {
		t.Fatal("ReadImageFile should fail for non-existent file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestDecode(t *testing.T) {
	path := createTestImage(t, "decode.png", 30, 12, color.Black)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}

	img, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 12 {
		t.Errorf("unexpected dimensions: got %dx%d, want 30x12", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestDecode_Invalid(t *testing.T) {
	if _, err := Decode([]byte("not an image")); err == nil {
		t.Error("Decode should fail for non-image data")
	}
}

func TestLoadImageInfo(t *testing.T) {
	tests := []struct {
		name       string
		wantFormat string
	}{
		{"info.png", "png"},
		{"info.jpg", "jpeg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := createTestImage(t, tt.name, 120, 40, color.RGBA{200, 200, 200, 255})

			info, err := LoadImageInfo(path)
			if err != nil {
				t.Fatalf("LoadImageInfo failed: %v", err)
			}

			if info.Width != 120 || info.Height != 40 {
				t.Errorf("dimensions: got %dx%d, want 120x40", info.Width, info.Height)
			}
			if info.Format != tt.wantFormat {
				t.Errorf("Format: got %s, want %s", info.Format, tt.wantFormat)
			}

			stat, _ := os.Stat(path)
			if info.FileSizeBytes != stat.Size() {
				t.Errorf("FileSizeBytes: got %d, want %d", info.FileSizeBytes, stat.Size())
			}
		})
	}
}

func TestLoadImageInfo_Unsupported(t *testing.T) {
	path := createTestImage(t, "info.gif", 10, 10, color.White)
	if _, err := LoadImageInfo(path); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadImageInfo error = %v, want ErrUnsupportedFormat", err)
	}
}
