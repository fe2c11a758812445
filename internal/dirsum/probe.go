package dirsum

import (
	"fmt"
	"os"
)

// SizeProbe reports the size a file occupies.
type SizeProbe interface {
	// SizeOnDisk returns the size in bytes for the file at path.
	SizeOnDisk(path string) (uint64, error)
}

// DiskProbe reports the storage the filesystem allocates for a file,
// which may differ from its logical length. Symbolic links report their target.
type DiskProbe struct{}

// SizeOnDisk returns the allocated size of the file at path.
func (DiskProbe) SizeOnDisk(path string) (uint64, error) {
	return allocatedSize(path)
}

// ApparentProbe reports the logical length of a file.
type ApparentProbe struct{}

// SizeOnDisk returns the logical length of the file at path.
func (ApparentProbe) SizeOnDisk(path string) (uint64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %q: %w", path, err)
	}

	return uint64(max(info.Size(), 0)), nil //nolint:gosec // Clamped to non-negative
}
