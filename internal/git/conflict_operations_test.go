package git

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/corpeningc/unconflict/internal/conflict"
	"github.com/corpeningc/unconflict/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mixedConflicts = `line1
<<<<<<< HEAD

=======
GO
>>>>>>> branch
line2
<<<<<<< HEAD
keepA
=======
keepB
>>>>>>> branch
line3
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestProcessFile(t *testing.T) {
	t.Run("writes_partial_resolution", func(t *testing.T) {
		path := writeTemp(t, t.TempDir(), "proc.sql", mixedConflicts)

		cf, err := NewProcessor(conflict.DefaultPolicy(), false).ProcessFile(path)
		require.NoError(t, err)
		assert.True(t, cf.Written)
		assert.Equal(t, conflict.StatusResolved, cf.Status())
		assert.Equal(t, "Resolved 1/2 conflicts.", cf.Result.Summary())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, strings.Join([]string{
			"line1",
			"",
			"line2",
			"<<<<<<< HEAD",
			"keepA",
			"=======",
			"keepB",
			">>>>>>> branch",
			"line3",
		}, "\n")+"\n", string(data))
	})

	t.Run("dry_run_leaves_file", func(t *testing.T) {
		path := writeTemp(t, t.TempDir(), "proc.sql", mixedConflicts)

		cf, err := NewProcessor(conflict.DefaultPolicy(), true).ProcessFile(path)
		require.NoError(t, err)
		assert.False(t, cf.Written)
		assert.Equal(t, 1, cf.Result.Resolved())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, mixedConflicts, string(data))
	})

	t.Run("no_conflicts_not_written", func(t *testing.T) {
		path := writeTemp(t, t.TempDir(), "clean.sql", "SELECT 1")

		cf, err := NewProcessor(conflict.DefaultPolicy(), false).ProcessFile(path)
		require.NoError(t, err)
		assert.False(t, cf.Written)
		assert.Equal(t, "No conflicts found.", cf.Result.Summary())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "SELECT 1", string(data), "missing final newline is not added")
	})

	t.Run("unsolvable_not_written", func(t *testing.T) {
		content := "<<<<<<< a\nfoo\n=======\nbar\n>>>>>>> b\n"
		path := writeTemp(t, t.TempDir(), "hard.sql", content)

		cf, err := NewProcessor(conflict.DefaultPolicy(), false).ProcessFile(path)
		require.NoError(t, err)
		assert.False(t, cf.Written)
		assert.Equal(t, conflict.StatusNoneSolvable, cf.Status())
	})

	t.Run("read_error", func(t *testing.T) {
		_, err := NewProcessor(conflict.DefaultPolicy(), false).ProcessFile(filepath.Join(t.TempDir(), "gone.sql"))
		assert.True(t, errors.IsCode(err, errors.ErrFileRead))
	})
}

func TestProcessFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTemp(t, dir, "a.sql", "<<<<<<< a\n=======\n>>>>>>> b\n")
	b := writeTemp(t, dir, "b.sql", mixedConflicts)
	c := writeTemp(t, dir, "c.sql", "plain\n")

	var started, finished []string
	results, err := NewProcessor(conflict.DefaultPolicy(), false).ProcessFiles(
		[]string{a, b, c},
		func(path string) { started = append(started, path) },
		func(cf ConflictFile) { finished = append(finished, cf.Path) },
	)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, []string{a, b, c}, started)
	assert.Equal(t, []string{a, b, c}, finished)

	assert.Equal(t, []string{a}, FullyResolved(results))

	t.Run("stops_on_error", func(t *testing.T) {
		missing := filepath.Join(dir, "missing.sql")
		results, err := NewProcessor(conflict.DefaultPolicy(), true).ProcessFiles([]string{c, missing, a}, nil, nil)
		require.Error(t, err)
		assert.Len(t, results, 1)
	})
}
