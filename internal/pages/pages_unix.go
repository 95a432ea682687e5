//go:build unix

package pages

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map reserves and commits n bytes of anonymous, page-aligned, read-write
// memory and returns the region plus a release function. The release function
// returns the whole region to the OS in one call; releasing twice is a no-op.
func Map(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("pages: invalid mapping size %d", n)
	}
	data, err := unix.Mmap(-1, 0, n,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("pages: mmap %d bytes: %w", n, err)
	}
	release := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		// The mapping is gone (or was never valid) either way; drop the
		// reference first so a failed release is never retried.
		data = nil
		if errors.Is(err, unix.EINVAL) {
			return nil
		}
		return err
	}
	return data, release, nil
}
