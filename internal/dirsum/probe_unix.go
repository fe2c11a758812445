//go:build unix

package dirsum

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// blockSize is the unit st_blocks is expressed in.
const blockSize = 512

func allocatedSize(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0, fmt.Errorf("stat %q: %w", path, err)
	}

	return uint64(st.Blocks) * blockSize, nil //nolint:gosec,unconvert // Blocks is never negative
}
