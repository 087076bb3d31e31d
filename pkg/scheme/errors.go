package scheme

import "fmt"

type Error string

func (e Error) Error() string { return string(e) }

var (
	// ErrDeclaredAfterReady rejects privilege changes once network activity may have begun.
	ErrDeclaredAfterReady = Error("scheme privileges must be declared before the application is ready")

	ErrInvalidScheme = Error("invalid scheme name")
)

func invalidScheme(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidScheme, name)
}
