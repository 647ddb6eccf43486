package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// ErrUnsupportedFormat is returned for files that are not PNG or JPEG images.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// SupportedExtensions lists the file extensions accepted by ReadImageFile.
// These are also the filters offered by the file picker.
var SupportedExtensions = []string{"png", "jpg", "jpeg"}

// ReadImageFile reads the raw bytes of a captcha image.
//
// Parameters:
//   - path: Absolute or relative path to a .png, .jpg or .jpeg file.
//     The extension check is case-insensitive.
//
// Returns:
//   - []byte: The encoded file contents, exactly as stored on disk.
//   - error: ErrUnsupportedFormat for other extensions, or the wrapped I/O
//     error if the file cannot be opened or read.
//
// The file is opened, read and closed within this call.
func ReadImageFile(path string) ([]byte, error) {
	if _, err := formatFromPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode decodes PNG or JPEG bytes into an image, applying EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// ImageInfo contains metadata about a captcha image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is "png" or "jpeg", detected from the file contents.
	Format string `json:"format"`

	// FileSizeBytes is the size of the encoded image in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo reads an image's header and returns its metadata.
//
// Only the image header is decoded, so this is cheap even for large files.
func LoadImageInfo(path string) (*ImageInfo, error) {
	data, err := ReadImageFile(path)
	if err != nil {
		return nil, err
	}
	return InfoFromBytes(data)
}

// InfoFromBytes returns metadata for an encoded image held in memory.
func InfoFromBytes(data []byte) (*ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	return &ImageInfo{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Format:        format,
		FileSizeBytes: int64(len(data)),
	}, nil
}

// formatFromPath maps the file extension to an imaging format, restricted to
// the formats captchas are served in.
func formatFromPath(path string) (imaging.Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return imaging.FormatFromExtension(ext)
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
}
