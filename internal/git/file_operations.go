package git

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corpeningc/unconflict/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextFile is a file split into lines, plus what is needed to write it back
// the way it was read.
type TextFile struct {
	Lines   []string
	Newline string
	BOM     bool
	Size    int64
	mode    fs.FileMode
}

// SplitLines splits on \r\n, \n or \r. A final terminator does not start an
// extra empty line. It also reports the line ending that occurs most often.
func SplitLines(content string) ([]string, string) {
	var lines []string
	crlf, lf := 0, 0

	start := 0
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\n':
			lf++
			lines = append(lines, content[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, content[start:i])
			if i+1 < len(content) && content[i+1] == '\n' {
				crlf++
				i++
			}
			start = i + 1
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}

	newline := "\n"
	if crlf > lf {
		newline = "\r\n"
	}
	return lines, newline
}

// ReadLines reads a whole file as UTF-8 text.
func ReadLines(path string) (*TextFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot stat %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot read %s", path)
	}

	tf := &TextFile{Size: int64(len(data)), mode: info.Mode().Perm()}
	if bytes.HasPrefix(data, utf8BOM) {
		tf.BOM = true
		data = data[len(utf8BOM):]
	}
	tf.Lines, tf.Newline = SplitLines(string(data))
	return tf, nil
}

// Encode renders lines with every line terminated, as a text writer would.
func (tf *TextFile) Encode(lines []string) []byte {
	newline := tf.Newline
	if newline == "" {
		newline = "\n"
	}

	var buf bytes.Buffer
	if tf.BOM {
		buf.Write(utf8BOM)
	}
	for _, line := range lines {
		buf.WriteString(line)
		buf.WriteString(newline)
	}
	return buf.Bytes()
}

// WriteLines replaces the file at path with lines. The content goes to a
// temporary file in the same directory first and is renamed over the target.
func WriteLines(path string, tf *TextFile, lines []string) error {
	mode := tf.mode
	if mode == 0 {
		mode = 0644
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot create temp file for %s", path)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(tf.Encode(lines)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", path)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot set mode on %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, errors.ErrFileWrite, "cannot replace %s", path)
	}
	return nil
}

// FindFiles returns the files in dir whose base name matches pattern, sorted
// by path. Symlinks to regular files count, and dir itself may be a symlink;
// returned paths stay under dir as given. With recursive set, subdirectories
// are searched too and .git directories are skipped.
func FindFiles(dir, pattern string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrDirNotFound, "Directory %s does not exists.", dir).
			WithDetail("dir", dir)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid pattern %q", pattern)
	}

	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot resolve %s", dir)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if !recursive || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !isRegularFile(path, d) {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.Join(dir, rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileRead, "cannot list %s", dir)
	}

	sort.Strings(files)
	return files, nil
}

func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// NoMatchesError is returned by callers when FindFiles comes back empty.
func NoMatchesError(dir, pattern string) error {
	return errors.Newf(errors.ErrNoMatches, "Directory %s does not contain any %s files.", dir, pattern).
		WithDetail("dir", dir).
		WithDetail("pattern", strings.TrimSpace(pattern))
}
