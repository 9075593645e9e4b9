package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/corpeningc/unconflict/internal/conflict"
	"github.com/corpeningc/unconflict/internal/git"
)

// Reporter prints the per-file status lines and the batch totals.
type Reporter struct {
	out io.Writer

	pathStyle    lipgloss.Style
	successStyle lipgloss.Style
	warningStyle lipgloss.Style
	mutedStyle   lipgloss.Style
	errorStyle   lipgloss.Style
}

func NewReporter(out io.Writer) *Reporter {
	r := lipgloss.NewRenderer(out)
	return &Reporter{
		out: out,

		pathStyle: r.NewStyle().
			Foreground(lipgloss.Color("39")),

		successStyle: r.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true),

		warningStyle: r.NewStyle().
			Foreground(lipgloss.Color("214")),

		mutedStyle: r.NewStyle().
			Foreground(lipgloss.Color("245")),

		errorStyle: r.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}
}

func (r *Reporter) Processing(path string) {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Processing %s ...\n", r.pathStyle.Render(path))
}

func (r *Reporter) Result(cf git.ConflictFile) {
	summary := cf.Result.Summary()

	var line string
	switch cf.Status() {
	case conflict.StatusResolved:
		line = r.successStyle.Render(summary)
		if !cf.Written {
			line += r.mutedStyle.Render(" (dry run)")
		}
	case conflict.StatusNoneSolvable:
		line = r.warningStyle.Render(summary)
	default:
		line = r.mutedStyle.Render(summary)
	}
	fmt.Fprintf(r.out, "=> %s\n", line)
}

// Totals prints a one-line summary after a batch of more than one file.
func (r *Reporter) Totals(files []git.ConflictFile) {
	if len(files) < 2 {
		return
	}

	var size int64
	found, resolved, written := 0, 0, 0
	for _, cf := range files {
		size += cf.Size
		found += cf.Result.Total()
		resolved += cf.Result.Resolved()
		if cf.Written {
			written++
		}
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %s (%s): resolved %d/%d conflicts, %s rewritten.\n",
		r.mutedStyle.Render("Processed"),
		plural(len(files), "file"),
		humanize.Bytes(uint64(size)),
		resolved, found,
		plural(written, "file"),
	)
}

// Info prints a plain status line, used for outcomes that are not failures.
func (r *Reporter) Info(msg string) {
	fmt.Fprintln(r.out, msg)
}

func (r *Reporter) Error(err error) {
	fmt.Fprintln(r.out, r.errorStyle.Render("Error: ")+err.Error())
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%s %ss", humanize.Comma(int64(n)), noun)
}
