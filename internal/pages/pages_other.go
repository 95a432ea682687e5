//go:build !unix

package pages

import "fmt"

// Map allocates n zeroed bytes from the Go heap when anonymous mappings are
// not available. The region is page-sized by construction of the callers;
// release simply drops the reference.
func Map(n int) ([]byte, func() error, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("pages: invalid mapping size %d", n)
	}
	data := make([]byte, n)
	return data, func() error { return nil }, nil
}
