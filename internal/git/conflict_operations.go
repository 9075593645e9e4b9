package git

import (
	"github.com/rs/zerolog"

	"github.com/corpeningc/unconflict/internal/conflict"
	"github.com/corpeningc/unconflict/internal/logging"
)

// ConflictFile is the outcome of processing one file.
type ConflictFile struct {
	Path     string
	Size     int64
	Original []string
	Result   conflict.Result
	Written  bool
}

// Status is shorthand for Result.Status().
func (cf ConflictFile) Status() conflict.Status {
	return cf.Result.Status()
}

// Processor resolves trivial conflicts file by file.
type Processor struct {
	Policy conflict.Policy
	DryRun bool
	logger zerolog.Logger
}

func NewProcessor(policy conflict.Policy, dryRun bool) *Processor {
	return &Processor{
		Policy: policy,
		DryRun: dryRun,
		logger: logging.GetLogger("processor"),
	}
}

// ProcessFile reads path, resolves what it can and writes the file back only
// when at least one conflict was resolved.
func (p *Processor) ProcessFile(path string) (ConflictFile, error) {
	logger := p.logger.With().Str("path", path).Logger()
	done := logging.LogOperationStart(logger, "process")
	defer done()

	tf, err := ReadLines(path)
	if err != nil {
		return ConflictFile{Path: path}, err
	}

	cf := ConflictFile{
		Path:     path,
		Size:     tf.Size,
		Original: tf.Lines,
		Result:   p.Policy.Resolve(tf.Lines),
	}

	for _, o := range cf.Result.Outcomes {
		logger.Trace().
			Int("start", o.Region.Start+1).
			Int("end", o.Region.End+1).
			Bool("resolvable", o.Resolvable).
			Msg("Conflict region")
	}

	logger.Info().
		Int("found", cf.Result.Total()).
		Int("resolved", cf.Result.Resolved()).
		Stringer("status", cf.Status()).
		Msg("Scanned file")

	if !cf.Result.Changed() || p.DryRun {
		return cf, nil
	}

	if err := WriteLines(path, tf, cf.Result.Lines); err != nil {
		return cf, err
	}
	cf.Written = true
	return cf, nil
}

// ProcessFiles handles paths one at a time, in order, calling onResult after
// each file. The first I/O error stops the batch.
func (p *Processor) ProcessFiles(paths []string, onStart func(string), onResult func(ConflictFile)) ([]ConflictFile, error) {
	results := make([]ConflictFile, 0, len(paths))
	for _, path := range paths {
		if onStart != nil {
			onStart(path)
		}
		cf, err := p.ProcessFile(path)
		if err != nil {
			return results, err
		}
		results = append(results, cf)
		if onResult != nil {
			onResult(cf)
		}
	}
	return results, nil
}

// FullyResolved returns the paths of files that no longer contain any
// conflict and were written.
func FullyResolved(files []ConflictFile) []string {
	var paths []string
	for _, cf := range files {
		if cf.Written && cf.Result.Unresolved() == 0 {
			paths = append(paths, cf.Path)
		}
	}
	return paths
}
