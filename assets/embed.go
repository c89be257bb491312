package assets

import (
	_ "embed"
)

// PlaceholderPNG contains the raw PNG bytes shown on the canvas before an
// image is loaded.
//
//go:embed placeholder.png
var PlaceholderPNG []byte
