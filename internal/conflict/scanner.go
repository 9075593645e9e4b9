package conflict

import "iter"

// Region is one delimited conflict block. All fields are 0-based line indices
// and Start < Mid < End always holds.
type Region struct {
	Start int
	Mid   int
	End   int
	// Base is the diff3 base marker line. It only counts when it lies strictly
	// between Start and Mid; the scanner sets -1 when there is none.
	Base int
}

// HasBase reports whether the region carries a diff3 base section.
func (r Region) HasBase() bool {
	return r.Start < r.Base && r.Base < r.Mid
}

// SideA returns the lines of the first side, excluding markers and any diff3
// base section.
func (r Region) SideA(lines []string) []string {
	end := r.Mid
	if r.HasBase() {
		end = r.Base
	}
	return lines[r.Start+1 : end]
}

// SideB returns the lines between the separator and the end marker.
func (r Region) SideB(lines []string) []string {
	return lines[r.Mid+1 : r.End]
}

// Len is the number of lines the region spans, markers included.
func (r Region) Len() int {
	return r.End - r.Start + 1
}

// NextRegion returns the first complete region at or after offset.
// A start marker without a following separator and end marker is not a
// region, and nothing after it is reported either.
func (p Policy) NextRegion(lines []string, offset int) (Region, bool) {
	if offset < 0 {
		offset = 0
	}

	start := -1
	for i := offset; i < len(lines); i++ {
		if p.isStart(lines[i]) {
			start = i
			break
		}
	}
	if start < 0 {
		return Region{}, false
	}

	mid := -1
	for i := start + 1; i < len(lines); i++ {
		if p.isSeparator(lines[i]) {
			mid = i
			break
		}
	}
	if mid < 0 {
		return Region{}, false
	}

	for i := mid + 1; i < len(lines); i++ {
		if p.isEnd(lines[i]) {
			return Region{Start: start, Mid: mid, End: i, Base: p.findBase(lines, start, mid)}, true
		}
	}
	return Region{}, false
}

func (p Policy) findBase(lines []string, start, mid int) int {
	if !p.Diff3 {
		return -1
	}
	for i := start + 1; i < mid; i++ {
		if p.isBase(lines[i]) {
			return i
		}
	}
	return -1
}

// Regions lazily yields every region in increasing Start order. Each search
// resumes right after the previous region's end marker.
func (p Policy) Regions(lines []string) iter.Seq[Region] {
	return func(yield func(Region) bool) {
		offset := 0
		for {
			r, ok := p.NextRegion(lines, offset)
			if !ok || !yield(r) {
				return
			}
			offset = r.End + 1
		}
	}
}

// ScanAll collects every region in lines.
func (p Policy) ScanAll(lines []string) []Region {
	var regions []Region
	for r := range p.Regions(lines) {
		regions = append(regions, r)
	}
	return regions
}
