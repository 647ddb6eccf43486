//go:build cgo

package picker

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"

	"github.com/ironsheep/captcha-calc/internal/imaging"
)

// Native opens the OS file dialog.
type Native struct {
	// StartDir is the directory the dialog opens in. Empty means the
	// platform default.
	StartDir string
}

// Choose shows an open-file dialog filtered to PNG and JPEG images and
// returns the selected path.
func (n Native) Choose(title string) (string, error) {
	builder := dialog.File().
		Title(title).
		Filter("Image files", imaging.SupportedExtensions...)
	if n.StartDir != "" {
		builder = builder.SetStartDir(n.StartDir)
	}

	path, err := builder.Load()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			return "", ErrCancelled
		}
		return "", fmt.Errorf("file dialog failed: %w", err)
	}
	if path == "" {
		return "", ErrCancelled
	}
	return path, nil
}
