package index

import "errors"

// ErrInvalidFormat indicates a persisted index that cannot be decoded.
var ErrInvalidFormat = errors.New("invalid index format")
