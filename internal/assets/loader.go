package assets

// DefaultStyleName is the built-in preview style.
const DefaultStyleName = "page"

// StyleLoader defines the contract for loading preview stylesheets.
type StyleLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)
}
