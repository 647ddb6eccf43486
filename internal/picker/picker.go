// Package picker asks the user to choose a captcha image file.
//
// With CGO enabled the OS-native open-file dialog is shown, filtered to the
// image extensions accepted by the imaging package. Builds without CGO have
// no dialog and Choose returns ErrUnavailable; callers should then require
// an explicit path.
package picker

import "errors"

var (
	// ErrCancelled is returned when the user closes the dialog without
	// choosing a file.
	ErrCancelled = errors.New("no file selected")

	// ErrUnavailable is returned when no native dialog is compiled in.
	ErrUnavailable = errors.New("file dialog not available in this build")
)

// DefaultTitle is the dialog title used by the CLI.
const DefaultTitle = "Select captcha image"

// Chooser selects an image path.
type Chooser interface {
	Choose(title string) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(title string) (string, error)

// Choose calls f(title).
func (f ChooserFunc) Choose(title string) (string, error) {
	return f(title)
}
