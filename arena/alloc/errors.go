package alloc

import "errors"

var (
	// ErrInvalidSize indicates a zero, negative, or overflowing allocation size.
	ErrInvalidSize = errors.New("alloc: size must be positive and at most MaxAllocSize")

	// ErrNilRef indicates Deallocate was called with the zero reference.
	ErrNilRef = errors.New("alloc: nil reference")

	// ErrNoPages indicates the OS could not supply pages for a new arena.
	ErrNoPages = errors.New("alloc: cannot map pages for a new arena")

	// ErrBadRef indicates a reference that does not resolve to an allocated
	// block inside a managed arena.
	ErrBadRef = errors.New("alloc: reference does not resolve to a managed block")

	// ErrDoubleFree indicates the referenced block is already free.
	ErrDoubleFree = errors.New("alloc: block already free")

	// ErrCorrupt indicates a header/footer size disagreement on a block the
	// allocator was asked to trust.
	ErrCorrupt = errors.New("alloc: header/footer size mismatch")

	// ErrReleaseFail indicates the OS refused to take an arena back. The
	// arena is deregistered and leaked, never retried.
	ErrReleaseFail = errors.New("alloc: arena release failed; region leaked")
)
