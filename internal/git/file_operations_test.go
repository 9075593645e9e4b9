package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/corpeningc/unconflict/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		lines   []string
		newline string
	}{
		{"empty", "", nil, "\n"},
		{"no_trailing_newline", "a\nb", []string{"a", "b"}, "\n"},
		{"trailing_newline", "a\nb\n", []string{"a", "b"}, "\n"},
		{"blank_last_line", "a\n\n", []string{"a", ""}, "\n"},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}, "\r\n"},
		{"lone_cr", "a\rb", []string{"a", "b"}, "\n"},
		{"mixed_prefers_majority", "a\r\nb\r\nc\n", []string{"a", "b", "c"}, "\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, newline := SplitLines(tt.content)
			assert.Equal(t, tt.lines, lines)
			assert.Equal(t, tt.newline, newline)
		})
	}
}

func TestReadWriteLines(t *testing.T) {
	t.Run("crlf_and_bom_preserved", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "script.sql")
		original := "\xEF\xBB\xBFSELECT 1\r\nGO\r\n"
		require.NoError(t, os.WriteFile(path, []byte(original), 0600))

		tf, err := ReadLines(path)
		require.NoError(t, err)
		assert.True(t, tf.BOM)
		assert.Equal(t, "\r\n", tf.Newline)
		assert.Equal(t, []string{"SELECT 1", "GO"}, tf.Lines)
		assert.Equal(t, int64(len(original)), tf.Size)

		require.NoError(t, WriteLines(path, tf, []string{"SELECT 2"}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "\xEF\xBB\xBFSELECT 2\r\n", string(data))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrFileRead))
	})

	t.Run("no_temp_files_left_behind", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "a.txt")
		require.NoError(t, os.WriteFile(path, []byte("x\n"), 0644))

		tf, err := ReadLines(path)
		require.NoError(t, err)
		require.NoError(t, WriteLines(path, tf, tf.Lines))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.sql", "a.sql", "notes.txt", "sub/c.sql", ".git/d.sql"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}

	t.Run("top_level_only", func(t *testing.T) {
		files, err := FindFiles(dir, "*.sql", false)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "a.sql"), filepath.Join(dir, "b.sql")}, files)
	})

	t.Run("recursive_skips_git", func(t *testing.T) {
		files, err := FindFiles(dir, "*.sql", true)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.sql"),
			filepath.Join(dir, "b.sql"),
			filepath.Join(dir, "sub", "c.sql"),
		}, files)
	})

	t.Run("no_matches", func(t *testing.T) {
		files, err := FindFiles(dir, "*.cs", false)
		require.NoError(t, err)
		assert.Empty(t, files)

		err = NoMatchesError(dir, "*.cs")
		assert.True(t, errors.IsCode(err, errors.ErrNoMatches))
		assert.Contains(t, err.Error(), "does not contain any *.cs files")
	})

	t.Run("missing_dir", func(t *testing.T) {
		_, err := FindFiles(filepath.Join(dir, "missing"), "*", false)
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrDirNotFound))
	})

	t.Run("file_is_not_a_dir", func(t *testing.T) {
		_, err := FindFiles(filepath.Join(dir, "a.sql"), "*", false)
		assert.True(t, errors.IsCode(err, errors.ErrDirNotFound))
	})

	t.Run("bad_pattern", func(t *testing.T) {
		_, err := FindFiles(dir, "[", false)
		assert.True(t, errors.IsCode(err, errors.ErrInvalidInput))
	})
}

func TestFindFiles_Symlinks(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "target")
	outside := filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(target, 0755))
	require.NoError(t, os.MkdirAll(outside, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a.sql"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "b.sql"), []byte("x"), 0644))

	if err := os.Symlink(filepath.Join(outside, "b.sql"), filepath.Join(target, "b.sql")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(outside, filepath.Join(target, "linked_dir.sql")))
	link := filepath.Join(base, "link")
	require.NoError(t, os.Symlink(target, link))

	t.Run("linked_file_is_listed", func(t *testing.T) {
		files, err := FindFiles(target, "*.sql", false)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(target, "a.sql"), filepath.Join(target, "b.sql")}, files)
	})

	t.Run("linked_directory_argument", func(t *testing.T) {
		files, err := FindFiles(link, "*.sql", false)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(link, "a.sql"), filepath.Join(link, "b.sql")}, files)
	})
}
