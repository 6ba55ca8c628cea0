// Package assets provides the CSS styles injected into webset previews.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in styles)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// The built-in "page" style draws each preview as a sheet of US Letter
// paper with the same margins the PDF renderer uses, so the preview
// approximates the printed layout. "plain" only constrains the width.
//
// # Directory Structure
//
// Custom styles live under the base path:
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// # Security
//
// Style names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
