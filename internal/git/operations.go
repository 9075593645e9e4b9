package git

import (
	"bytes"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/corpeningc/unconflict/internal/errors"
	"github.com/corpeningc/unconflict/internal/logging"
)

type GitRepo struct {
	WorkDir string
	logger  zerolog.Logger
}

func New(workDir string) *GitRepo {
	return &GitRepo{
		WorkDir: workDir,
		logger:  logging.GetLogger("git").With().Str("workDir", workDir).Logger(),
	}
}

func (repo *GitRepo) run(operation string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = repo.WorkDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	repo.logger.Debug().Strs("args", args).Msg("Running git")

	if err := cmd.Run(); err != nil {
		return "", formatCommandError(operation, err, stdout, stderr)
	}
	return stdout.String(), nil
}

func formatCommandError(operation string, err error, stdout, stderr bytes.Buffer) error {
	return errors.Wrapf(err, errors.ErrGit, "%s failed", operation).
		WithDetail("stdout", stdout.String()).
		WithDetail("stderr", strings.TrimSpace(stderr.String()))
}

// TopLevel returns the absolute root of the working tree containing WorkDir.
func (repo *GitRepo) TopLevel() (string, error) {
	out, err := repo.run("locate repository", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ConflictedFiles lists unmerged paths, joined to the repository root.
func (repo *GitRepo) ConflictedFiles() ([]string, error) {
	root, err := repo.TopLevel()
	if err != nil {
		return nil, err
	}

	out, err := repo.run("list conflicted files", "-C", root, "diff", "--name-only", "--diff-filter=U", "-z")
	if err != nil {
		return nil, err
	}

	var files []string
	for _, name := range parseNameList(out) {
		files = append(files, filepath.Join(root, filepath.FromSlash(name)))
	}
	return files, nil
}

// parseNameList splits NUL-separated output and drops duplicates, which git
// diff emits once per unmerged stage.
func parseNameList(out string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, name := range strings.Split(out, "\x00") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func (repo *GitRepo) AddFiles(files []string) error {
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	_, err := repo.run("add files", args...)
	return err
}
