//go:build !cgo

package picker

// Native is the placeholder dialog compiled without CGO.
type Native struct {
	StartDir string
}

// Choose always returns ErrUnavailable.
func (n Native) Choose(title string) (string, error) {
	return "", ErrUnavailable
}
