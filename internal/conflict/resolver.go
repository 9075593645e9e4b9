package conflict

import (
	"fmt"
	"sort"
)

// Outcome is the decision made for one region. Replacement is nil when the
// region is not resolvable and non-nil (possibly empty) when it is.
type Outcome struct {
	Region      Region
	Resolvable  bool
	Replacement []string
}

// Status summarises a file-level resolution.
type Status int

const (
	StatusNoConflicts Status = iota
	StatusNoneSolvable
	StatusResolved
)

func (s Status) String() string {
	switch s {
	case StatusNoConflicts:
		return "no-conflicts"
	case StatusNoneSolvable:
		return "none-solvable"
	case StatusResolved:
		return "resolved"
	}
	return "unknown"
}

// Result holds everything Resolve learned about one file.
type Result struct {
	Regions  []Region
	Outcomes []Outcome
	// Lines is the reconstructed file. It equals the input when nothing
	// was resolved.
	Lines []string
}

// Total is the number of regions found.
func (r Result) Total() int { return len(r.Regions) }

// Resolved is the number of regions that were replaced.
func (r Result) Resolved() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Resolvable {
			n++
		}
	}
	return n
}

// Unresolved is the number of regions left in place.
func (r Result) Unresolved() int { return r.Total() - r.Resolved() }

// Status reports which of the three per-file outcomes applies.
func (r Result) Status() Status {
	switch {
	case r.Total() == 0:
		return StatusNoConflicts
	case r.Resolved() == 0:
		return StatusNoneSolvable
	default:
		return StatusResolved
	}
}

// Changed reports whether Lines should be written back.
func (r Result) Changed() bool { return r.Status() == StatusResolved }

// Summary is the one-line status shown for a file.
func (r Result) Summary() string {
	switch r.Status() {
	case StatusNoConflicts:
		return "No conflicts found."
	case StatusNoneSolvable:
		return "No solvable conflicts found."
	default:
		return fmt.Sprintf("Resolved %d/%d conflicts.", r.Resolved(), r.Total())
	}
}

// Decide classifies a single region. When resolvable, the replacement is a
// copy of side A taken verbatim.
func (p Policy) Decide(lines []string, r Region) Outcome {
	sideA := r.SideA(lines)
	sideB := r.SideB(lines)

	if len(sideA) == 0 && len(sideB) == 0 {
		return Outcome{Region: r, Resolvable: true, Replacement: []string{}}
	}

	if p.allIgnorable(sideA) && p.allIgnorable(sideB) {
		replacement := make([]string, len(sideA))
		copy(replacement, sideA)
		return Outcome{Region: r, Resolvable: true, Replacement: replacement}
	}

	return Outcome{Region: r}
}

// Reconstruct splices the replacements of resolvable outcomes into a copy of
// lines. Lines outside a resolved region's [Start, End] span are kept in order.
func Reconstruct(lines []string, outcomes []Outcome) []string {
	resolved := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Resolvable {
			resolved = append(resolved, o)
		}
	}
	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Region.Start < resolved[j].Region.Start
	})

	out := make([]string, 0, len(lines))
	pos := 0
	for _, o := range resolved {
		out = append(out, lines[pos:o.Region.Start]...)
		out = append(out, o.Replacement...)
		pos = o.Region.End + 1
	}
	return append(out, lines[pos:]...)
}

// Resolve scans lines, decides every region and rebuilds the file.
func (p Policy) Resolve(lines []string) Result {
	res := Result{}
	for region := range p.Regions(lines) {
		res.Regions = append(res.Regions, region)
		res.Outcomes = append(res.Outcomes, p.Decide(lines, region))
	}
	res.Lines = Reconstruct(lines, res.Outcomes)
	return res
}
