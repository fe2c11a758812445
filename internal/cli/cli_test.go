package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/dirsum/internal/config"
	"github.com/idelchi/dirsum/internal/dirsum"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	cmd := New("test").Command()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func bundleTree(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	files := map[string]int{
		"a.txt":                  10,
		"b.txt":                  20,
		"README":                 5,
		"Frameworks/Core.fw/bin": 7,
	}

	for rel, size := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), size), 0o644))
	}

	return root
}

func TestCommand_JSON(t *testing.T) {
	chdir(t, t.TempDir())
	root := bundleTree(t)

	stdout, _, err := execute(t, "--json", "--apparent", root)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(stdout), &fields))

	assert.ElementsMatch(t, []string{
		"directory_count", "file_count", "total_file_size",
		"file_extensions_summary", "files_without_extensions", "files_top_large",
		"frameworks_items", "plugins_items",
	}, keys(fields))

	var report dirsum.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))

	assert.Equal(t, uint32(2), report.DirectoryCount)
	assert.Equal(t, uint32(4), report.FileCount)
	assert.Equal(t, uint64(42), report.TotalFileSize)
	assert.Equal(t, []dirsum.DirInfo{{Name: "Core.fw", Size: 7, Path: "/Frameworks/Core.fw"}}, report.Frameworks)
	assert.Equal(t, []dirsum.DirInfo{}, report.Plugins)
	assert.JSONEq(t, `[]`, string(fields["plugins_items"]))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}

	return out
}

func TestCommand_PathFlag(t *testing.T) {
	chdir(t, t.TempDir())
	root := bundleTree(t)

	stdout, _, err := execute(t, "-o", "json", "--apparent", "--top", "1", "--path", root)
	require.NoError(t, err)

	var report dirsum.Report
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, []dirsum.FileInfo{{Name: "b.txt", Size: 20, Path: "/b.txt"}}, report.TopLarge)
}

func TestCommand_Table(t *testing.T) {
	chdir(t, t.TempDir())
	root := bundleTree(t)

	stdout, _, err := execute(t, "--apparent", "--parallel", root)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Directory Count:")
	assert.Contains(t, stdout, "File Count:")
	assert.Contains(t, stdout, "Total File Size:")
	assert.Contains(t, stdout, "Framework Items:")
	assert.Contains(t, stdout, "/Frameworks/Core.fw")
	assert.NotContains(t, stdout, "Plugin Items:")
}

func TestCommand_InvalidOutput(t *testing.T) {
	chdir(t, t.TempDir())

	stdout, _, err := execute(t, "--output", "xml", t.TempDir())
	require.ErrorIs(t, err, config.ErrInvalid)
	assert.Empty(t, stdout)
}

func TestCommand_TraversalErrorPrintsNothing(t *testing.T) {
	if os.Geteuid() <= 0 {
		t.Skip("permission bits are not enforced")
	}

	chdir(t, t.TempDir())
	root := bundleTree(t)
	locked := filepath.Join(root, "Frameworks")

	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	stdout, _, err := execute(t, "--json", root)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.Empty(t, stdout)
}

func TestPrintTable_OmitsEmptyBundles(t *testing.T) {
	report := &dirsum.Report{
		DirectoryCount: 1,
		FileCount:      1,
		TotalFileSize:  2048,
		Extensions:     []dirsum.ExtensionSummary{{Extension: "", Count: 1, TotalSize: 2048}},
		Plugins:        []dirsum.DirInfo{{Name: "p", Size: 1024, Path: "/Plugins/p"}},
		ProbeErrors:    3,
		Elapsed:        time.Second,
	}

	var buf bytes.Buffer
	require.NoError(t, PrintTable(report, &buf))

	out := buf.String()
	assert.Contains(t, out, "2.0 KiB (2048 bytes)")
	assert.Contains(t, out, `1) "":`)
	assert.Contains(t, out, "Plugin Items:")
	assert.Contains(t, out, "1.0 KiB")
	assert.Contains(t, out, "Unreadable sizes:")
	assert.NotContains(t, out, "Framework Items:")
}

func TestPrintJSON_HidesDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&dirsum.Report{ProbeErrors: 2, Elapsed: time.Second}, &buf))

	assert.NotContains(t, buf.String(), "probe")
	assert.NotContains(t, buf.String(), "elapsed")
}

func TestLogic_UnknownOutput(t *testing.T) {
	var stdout, stderr bytes.Buffer

	cfg := config.Config{Output: "xml", Top: dirsum.DefaultTopN}

	err := logic(context.Background(), cfg, t.TempDir(), &stdout, &stderr)
	require.ErrorIs(t, err, ErrUnknownOutput)
	assert.Empty(t, stdout.String())
}

func TestCommand_BindsFlags(t *testing.T) {
	assert.NotPanics(t, func() { New("test").Command() })

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("top", 10, "")

	v := viper.New()
	require.NoError(t, bindFlags(v, flags, "top"))
	require.NoError(t, flags.Parse([]string{"--top", "3"}))
	assert.Equal(t, 3, v.GetInt("top"))

	assert.Error(t, bindFlags(v, flags, "missing"))
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in go1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
