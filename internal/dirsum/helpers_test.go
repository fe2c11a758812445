package dirsum

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeFile creates a file of size bytes at root/rel, creating parents as needed.
func writeFile(t *testing.T, root, rel string, size int) {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", size)), 0o644))
}

// mkdir creates the directory root/rel.
func mkdir(t *testing.T, root, rel string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.FromSlash(rel)), 0o755))
}

// recorder is a Visitor remembering every visit.
type recorder struct {
	mu    sync.Mutex
	files []string
	dirs  []string
}

func (r *recorder) VisitFile(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.files = append(r.files, path)
}

func (r *recorder) VisitDir(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.dirs = append(r.dirs, path)
}

// failingProbe fails for every path with the given base name.
type failingProbe struct {
	name string
}

func (p failingProbe) SizeOnDisk(path string) (uint64, error) {
	if filepath.Base(path) == p.name {
		return 0, os.ErrPermission
	}

	return ApparentProbe{}.SizeOnDisk(path)
}

// sampleTree builds a nested tree with mixed extensions and returns its
// number of directories and files.
func sampleTree(t *testing.T, root string) (int, int) {
	t.Helper()

	files := map[string]int{
		"a.txt":                 10,
		"b.txt":                 20,
		"README":                5,
		".bashrc":               7,
		"src/main.go":           120,
		"src/util.go":           80,
		"src/Makefile":          30,
		"src/deep/er/x.tar.gz":  300,
		"src/deep/er/y.JPG":     45,
		"docs/guide.md":         64,
		"docs/img/logo.png":     512,
		"docs/img/icon.PNG":     256,
		"Frameworks/A.fw/bin":   40,
		"Frameworks/A.fw/lib.a": 60,
	}

	for rel, size := range files {
		writeFile(t, root, rel, size)
	}

	mkdir(t, root, "empty/nested")

	// src, src/deep, src/deep/er, docs, docs/img, Frameworks, Frameworks/A.fw, empty, empty/nested
	return 9, len(files)
}
