// Package pages provides platform-specific acquisition and release of
// page-aligned, read-write memory regions from the operating system.
package pages

import "os"

// Size returns the OS page size.
func Size() int {
	return os.Getpagesize()
}
