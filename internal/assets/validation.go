package assets

import (
	"fmt"
	"strings"
)

// maxAssetNameLength bounds style names; they become file names on disk.
const maxAssetNameLength = 64

// ValidateAssetName checks that a style name is safe to use as a file name.
// Names may not be empty, exceed maxAssetNameLength, or contain path
// separators, dots, or NUL bytes.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case len(name) > maxAssetNameLength:
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidAssetName, maxAssetNameLength)
	case strings.ContainsAny(name, "/\\.\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
