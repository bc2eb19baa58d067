package pool

import "errors"

var (
	// ErrPoolTooSmall indicates the requested block cannot hold the header
	// plus at least one alignment unit of data.
	ErrPoolTooSmall = errors.New("pool: size below minimum")

	// ErrPoolTooLarge indicates the requested block exceeds the uint32
	// offset space the node chain is stored in.
	ErrPoolTooLarge = errors.New("pool: size above maximum")

	// ErrInvalidSize indicates a negative allocation size.
	ErrInvalidSize = errors.New("pool: invalid allocation size")

	// ErrNoSpace indicates the pool lacks aggregate free space for the
	// request, counting the node header.
	ErrNoSpace = errors.New("pool: insufficient space")

	// ErrFragmented indicates enough aggregate space exists but no single
	// gap fits the request.
	ErrFragmented = errors.New("pool: free space too fragmented")

	// ErrInvalidFree indicates a free of a reference that does not name a
	// live allocation.
	ErrInvalidFree = errors.New("pool: invalid free")

	// ErrBadRef indicates an invalid or out-of-bounds reference.
	ErrBadRef = errors.New("pool: bad reference")

	// ErrCorrupt indicates the block bytes violate a chain invariant.
	ErrCorrupt = errors.New("pool: corrupted block")

	// ErrClosed indicates use of a pool after Close.
	ErrClosed = errors.New("pool: closed")
)
