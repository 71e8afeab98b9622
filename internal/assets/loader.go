package assets

import "fmt"

// DefaultStyleName is the name of the built-in stylesheet.
const DefaultStyleName = "default"

// AssetLoader loads CSS styles by name.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name is not a bare name.
	LoadStyle(name string) (string, error)
}

// ValidateAssetName checks that name is usable as a file stem: ASCII
// letters, digits, '-' and '_' only. Anything else, including dots and
// path separators, is rejected.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
		}
	}
	return nil
}
