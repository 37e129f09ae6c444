package linter

import (
	"sort"
	"strings"
)

// FixStats counts the fixes handled by ApplyFixes.
type FixStats struct {
	Applied int
	Skipped int
}

// ApplyFixes applies the fixes attached to reports to src.
//
// Fixes are taken in span order. A fix that overlaps one already accepted, or
// whose span falls outside src, is skipped; the host re-lints and retries
// skipped fixes on the next pass.
func ApplyFixes(src string, reports []Report) (string, FixStats) {
	var stats FixStats

	fixes := make([]Fix, 0, len(reports))
	for _, r := range reports {
		if r.Fix != nil {
			fixes = append(fixes, *r.Fix)
		}
	}
	if len(fixes) == 0 {
		return src, stats
	}

	sort.SliceStable(fixes, func(i, j int) bool {
		if fixes[i].Span.Start != fixes[j].Span.Start {
			return fixes[i].Span.Start < fixes[j].Span.Start
		}
		return fixes[i].Span.End < fixes[j].Span.End
	})

	var b strings.Builder
	b.Grow(len(src))

	pos := 0
	var last *Fix
	for i := range fixes {
		f := &fixes[i]
		start, end := int(f.Span.Start), int(f.Span.End)

		if start > end || end > len(src) {
			stats.Skipped++
			continue
		}
		if last != nil && (start < int(last.Span.End) || f.Span.Overlaps(last.Span)) {
			stats.Skipped++
			continue
		}

		b.WriteString(src[pos:start])
		b.WriteString(f.Text)
		pos = end
		last = f
		stats.Applied++
	}
	b.WriteString(src[pos:])

	return b.String(), stats
}
