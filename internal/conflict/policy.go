// Package conflict finds three-way merge conflict regions in a file's lines
// and resolves the ones whose sides hold nothing but ignorable content.
//
// Everything here is a pure function of the input lines. Reading and writing
// files is left to the caller.
package conflict

import "strings"

// DefaultMarkerSize matches git's default conflict-marker-size.
const DefaultMarkerSize = 7

// DefaultIgnorableToken is the SQL batch separator emitted by script generators.
const DefaultIgnorableToken = "GO"

// Policy controls which lines count as markers and which content may be dropped.
type Policy struct {
	// MarkerSize is the run length every marker must start with.
	MarkerSize int
	// IgnorableTokens are matched against the trimmed line, case-sensitive.
	IgnorableTokens []string
	// Diff3 treats a ||||||| line between start and separator as the start
	// of a base section that belongs to neither side.
	Diff3 bool
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		MarkerSize:      DefaultMarkerSize,
		IgnorableTokens: []string{DefaultIgnorableToken},
	}
}

func (p Policy) markerSize() int {
	if p.MarkerSize <= 0 {
		return DefaultMarkerSize
	}
	return p.MarkerSize
}

func (p Policy) isMarker(line string, c byte) bool {
	n := p.markerSize()
	if len(line) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if line[i] != c {
			return false
		}
	}
	return true
}

func (p Policy) isStart(line string) bool     { return p.isMarker(line, '<') }
func (p Policy) isSeparator(line string) bool { return p.isMarker(line, '=') }
func (p Policy) isEnd(line string) bool       { return p.isMarker(line, '>') }
func (p Policy) isBase(line string) bool      { return p.isMarker(line, '|') }

// Ignorable reports whether a line may be discarded: blank, whitespace-only,
// or exactly one of the ignorable tokens once surrounding space is trimmed.
func (p Policy) Ignorable(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	for _, token := range p.IgnorableTokens {
		if trimmed == token {
			return true
		}
	}
	return false
}

func (p Policy) allIgnorable(lines []string) bool {
	for _, line := range lines {
		if !p.Ignorable(line) {
			return false
		}
	}
	return true
}
