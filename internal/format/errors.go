package format

import "errors"

var (
	// ErrSignatureMismatch indicates a block had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrVersion indicates an unsupported pool block version.
	ErrVersion = errors.New("format: unsupported version")
	// ErrSizeMismatch indicates the header size fields disagree with the block.
	ErrSizeMismatch = errors.New("format: size mismatch")
)
