package media

import (
	_ "embed"
)

// placeholder is served whenever a pasted image link cannot be fetched.
//
//go:embed placeholder.svg
var placeholder []byte

const placeholderContentType = "image/svg+xml"
