// Package assets provides the CSS styles applied to generated HTML.
//
// # Loaders
//
//	AssetLoader (interface)
//	    ├── EmbeddedLoader    - styles compiled in with go:embed
//	    ├── FilesystemLoader  - {basePath}/styles/{name}.css on disk
//	    └── AssetResolver     - custom directory first, embedded fallback
//
// Built-in styles:
//
//	default  - readable article layout, display math centered and scrollable
//	minimal  - typography only
//
// # Security
//
// Style names are restricted to letters, digits, '-' and '_'.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
