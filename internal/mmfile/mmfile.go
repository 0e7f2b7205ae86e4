// Package mmfile maps capture and media files read-only so dissection can run
// over the file contents without copying them.
package mmfile

import (
	"errors"
	"fmt"
)

// ErrTooLarge is returned when a file exceeds the caller's size limit.
var ErrTooLarge = errors.New("mmfile: file exceeds size limit")

func noop() error { return nil }

// checkSize rejects files above limit (0 = no limit) or above what the
// address space can hold.
func checkSize(path string, size, limit int64) error {
	if limit > 0 && size > limit {
		return fmt.Errorf("%s: %d bytes, limit %d: %w", path, size, limit, ErrTooLarge)
	}
	if size > int64(^uint(0)>>1) {
		return fmt.Errorf("%s: %d bytes cannot be mapped: %w", path, size, ErrTooLarge)
	}
	return nil
}
