package dirsum

import (
	"time"
)

// ExtensionSummary represents statistics for one file extension.
type ExtensionSummary struct {
	// Extension is the suffix after the last dot, empty for files without one.
	Extension string `json:"extension"`
	// Count is the number of files with this extension.
	Count uint32 `json:"count"`
	// TotalSize is the cumulative on-disk size in bytes.
	TotalSize uint64 `json:"total_size"`
}

// FileInfo describes a single file.
type FileInfo struct {
	// Name is the base name of the file.
	Name string `json:"name"`
	// Size is the on-disk size in bytes.
	Size uint64 `json:"size"`
	// Path is relative to the scan root and starts with a slash.
	Path string `json:"path"`
}

// DirInfo describes a bundle item and its recursive size.
type DirInfo struct {
	// Name is the base name of the directory.
	Name string `json:"name"`
	// Size is the total on-disk size of every file below the directory.
	Size uint64 `json:"size"`
	// Path is relative to the scan root and starts with a slash.
	Path string `json:"path"`
}

// Report is the summary of one directory walk.
//
// Counts are 32 bit and sizes 64 bit unsigned integers. Neither is checked
// for overflow.
type Report struct {
	// DirectoryCount is the number of directories below the root.
	DirectoryCount uint32 `json:"directory_count"`
	// FileCount is the number of non-directory entries below the root.
	FileCount uint32 `json:"file_count"`
	// TotalFileSize is the cumulative on-disk size of all files.
	TotalFileSize uint64 `json:"total_file_size"`
	// Extensions is ordered by descending count, then by extension.
	Extensions []ExtensionSummary `json:"file_extensions_summary"`
	// WithoutExtension lists files without an extension in visit order.
	WithoutExtension []FileInfo `json:"files_without_extensions"`
	// TopLarge lists the largest files, ordered by descending size, then by path.
	TopLarge []FileInfo `json:"files_top_large"`
	// Frameworks lists the directories directly inside "Frameworks".
	Frameworks []DirInfo `json:"frameworks_items"`
	// Plugins lists the directories directly inside "Plugins".
	Plugins []DirInfo `json:"plugins_items"`
	// ProbeErrors is the number of files whose size could not be read and
	// were counted as zero bytes.
	ProbeErrors uint32 `json:"-"`
	// Elapsed is the total time taken for the scan.
	Elapsed time.Duration `json:"-"`
}
