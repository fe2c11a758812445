package dirsum

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// engine aggregates the entries reported by a Walker. Visits are guarded by
// a mutex since FastWalker calls them from multiple goroutines.
type engine struct {
	mu               sync.Mutex // Protect concurrent access
	root             string
	probe            SizeProbe
	topN             int
	log              zerolog.Logger
	extStats         map[string]ExtensionSummary
	withoutExtension []FileInfo
	topFiles         []FileInfo
	dirCount         uint32
	fileCount        uint32
	totalBytes       uint64
	probeErrors      uint32
}

// newEngine creates an engine for a walk rooted at root.
func newEngine(root string, probe SizeProbe, topN int, log zerolog.Logger) *engine {
	return &engine{
		root:             root,
		probe:            probe,
		topN:             topN,
		log:              log,
		extStats:         make(map[string]ExtensionSummary),
		withoutExtension: make([]FileInfo, 0),
		topFiles:         make([]FileInfo, 0),
	}
}

// VisitDir records a directory.
func (e *engine) VisitDir(string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.dirCount++
}

// VisitFile probes the size of the file at path and records it.
func (e *engine) VisitFile(path string) {
	// Probe outside the lock, it is the only blocking call.
	size, err := e.probe.SizeOnDisk(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.log.Debug().Err(err).Str("path", path).Msg("size probe failed, counting as zero")
		e.probeErrors++
		size = 0
	}

	e.add(FileInfo{
		Name: sanitize(filepath.Base(path)),
		Size: size,
		Path: relativePath(e.root, path),
	})
}

// add records a file. The caller must hold the lock.
func (e *engine) add(file FileInfo) {
	e.fileCount++
	e.totalBytes += file.Size

	ext := extension(file.Name)

	stat := e.extStats[ext]
	stat.Extension = ext
	stat.Count++
	stat.TotalSize += file.Size
	e.extStats[ext] = stat

	if ext == "" {
		e.withoutExtension = append(e.withoutExtension, file)
	}

	// Collect all files, we'll sort and trim later
	e.topFiles = append(e.topFiles, file)
}

// progress returns the running file count and size.
func (e *engine) progress() (uint32, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.fileCount, e.totalBytes
}

// finalize produces the Report from the collected data.
// Bundle items are left empty for the caller to fill.
func (e *engine) finalize() *Report {
	e.mu.Lock()
	defer e.mu.Unlock()

	extensions := make([]ExtensionSummary, 0, len(e.extStats))
	for _, stat := range e.extStats {
		extensions = append(extensions, stat)
	}

	slices.SortFunc(extensions, func(a, b ExtensionSummary) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}

		return cmp.Compare(a.Extension, b.Extension)
	})

	// Sort by size (largest first) and trim to top N
	topFiles := slices.Clone(e.topFiles)
	slices.SortFunc(topFiles, func(a, b FileInfo) int {
		if c := cmp.Compare(b.Size, a.Size); c != 0 {
			return c
		}

		return cmp.Compare(a.Path, b.Path)
	})

	if len(topFiles) > e.topN {
		topFiles = topFiles[:e.topN]
	}

	return &Report{
		DirectoryCount:   e.dirCount,
		FileCount:        e.fileCount,
		TotalFileSize:    e.totalBytes,
		Extensions:       extensions,
		WithoutExtension: slices.Clone(e.withoutExtension),
		TopLarge:         topFiles,
		Frameworks:       []DirInfo{},
		Plugins:          []DirInfo{},
		ProbeErrors:      e.probeErrors,
	}
}

// extension returns the suffix after the last dot of name.
// Names without a dot, or whose only dot is the leading one, have none.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}

	return name[i+1:]
}

// relativePath returns path relative to root in slash format with a leading slash.
// Paths outside root are reported as empty.
func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}

	return sanitize("/" + filepath.ToSlash(rel))
}

// sanitize replaces byte sequences that are not valid UTF-8.
func sanitize(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
