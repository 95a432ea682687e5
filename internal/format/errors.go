package format

import "errors"

var (
	// ErrTruncated indicates a descriptor or block extends past the end of
	// the region.
	ErrTruncated = errors.New("format: truncated structure")

	// ErrSignatureMismatch indicates the arena descriptor signature is wrong.
	ErrSignatureMismatch = errors.New("format: signature mismatch")

	// ErrBadBlock indicates a block header with an impossible size or offset.
	ErrBadBlock = errors.New("format: invalid block header")
)
